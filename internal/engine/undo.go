package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/PraneetTulluri/Stats-Tracker/pkg/contracts"
	"github.com/PraneetTulluri/Stats-Tracker/pkg/models"
)

// UndoGame removes a manual game and subtracts one unit of it from the owner's totals.
// If the owner no longer exists the game is still removed and a warning is returned.
func (e *Engine) UndoGame(ctx context.Context, userID, gameID string) (*models.UndoResult, error) {
	if userID == "" {
		return nil, ErrNoUser
	}

	var result *models.UndoResult
	err := e.store.InTx(ctx, userID, func(tx contracts.RecordTx) error {
		result = &models.UndoResult{}

		game, err := tx.LockGame(ctx, gameID)
		if errors.Is(err, contracts.ErrNotFound) {
			return ErrGameNotFound
		}
		if err != nil {
			return fmt.Errorf("load game: %w", err)
		}
		if !game.IsManual() {
			return ErrBatchGame
		}

		updated, err := subtract(ctx, tx, game.PlayerID, game.Stats, 1)
		if err != nil {
			return err
		}
		if updated {
			result.PlayersUpdated = 1
		} else {
			result.Warnings = append(result.Warnings, orphanWarning(game))
		}

		if err := tx.DeleteGame(ctx, game.ID); err != nil {
			return fmt.Errorf("delete game: %w", err)
		}
		result.GamesRemoved = 1
		return nil
	})
	if err != nil {
		if IsValidation(err) || IsNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("undo game: %w", err)
	}

	e.warn(userID, "undo_game", result.Warnings)
	e.logger.Info("Game undone", "user_id", userID, "game_id", gameID)
	e.notify(ctx, userID, "undo_game", models.CollectionGames, models.CollectionPlayers)
	return result, nil
}

// UndoLastManualEntry undoes the most recently created game that has no batch id
func (e *Engine) UndoLastManualEntry(ctx context.Context, userID string) (*models.UndoResult, error) {
	last, err := e.LastManualGame(ctx, userID)
	if err != nil {
		return nil, err
	}
	return e.UndoGame(ctx, userID, last.ID)
}

// UndoBatch removes every game of an import batch. Each affected player's
// contribution is summed and subtracted once.
func (e *Engine) UndoBatch(ctx context.Context, userID, batchID string) (*models.UndoResult, error) {
	if userID == "" {
		return nil, ErrNoUser
	}
	if batchID == "" {
		return nil, ErrBatchNotFound
	}

	var result *models.UndoResult
	err := e.store.InTx(ctx, userID, func(tx contracts.RecordTx) error {
		result = &models.UndoResult{}

		games, err := tx.GamesInBatch(ctx, batchID)
		if err != nil {
			return fmt.Errorf("load batch: %w", err)
		}
		if len(games) == 0 {
			return ErrBatchNotFound
		}

		for _, c := range groupByPlayer(games) {
			updated, err := subtract(ctx, tx, c.playerID, c.stats, c.games)
			if err != nil {
				return err
			}
			if updated {
				result.PlayersUpdated++
			} else {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("player %s not found; %d games removed without adjusting totals", c.playerID, c.games))
			}
		}

		for _, g := range games {
			if err := tx.DeleteGame(ctx, g.ID); err != nil {
				return fmt.Errorf("delete game %s: %w", g.ID, err)
			}
		}
		result.GamesRemoved = len(games)
		return nil
	})
	if err != nil {
		if IsNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("undo batch: %w", err)
	}

	e.warn(userID, "undo_batch", result.Warnings)
	e.logger.Info("Batch undone", "user_id", userID, "batch_id", batchID, "games", result.GamesRemoved, "players", result.PlayersUpdated)
	e.notify(ctx, userID, "undo_batch", models.CollectionGames, models.CollectionPlayers)
	return result, nil
}

// UndoLastBatch undoes the batch of the newest game, provided that game was imported
func (e *Engine) UndoLastBatch(ctx context.Context, userID string) (*models.UndoResult, error) {
	batch, err := e.LastBatch(ctx, userID)
	if err != nil {
		return nil, err
	}
	return e.UndoBatch(ctx, userID, batch.BatchID)
}

type contribution struct {
	playerID string
	stats    models.StatVector
	games    int
}

// groupByPlayer sums games per player, in order of first appearance
func groupByPlayer(games []models.Game) []contribution {
	index := make(map[string]int)
	var out []contribution
	for _, g := range games {
		i, ok := index[g.PlayerID]
		if !ok {
			i = len(out)
			index[g.PlayerID] = i
			out = append(out, contribution{playerID: g.PlayerID})
		}
		out[i].stats = out[i].stats.Add(g.Stats)
		out[i].games++
	}
	return out
}

// subtract removes stats and games from a player's totals, flooring every field at zero.
// It reports false when the player does not exist.
func subtract(ctx context.Context, tx contracts.RecordTx, playerID string, stats models.StatVector, games int) (bool, error) {
	p, err := tx.LockPlayer(ctx, playerID)
	if errors.Is(err, contracts.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load player: %w", err)
	}

	p.Totals = p.Totals.ClampedSub(stats)
	p.GamesPlayed = clampGames(p.GamesPlayed - games)

	if err := tx.SavePlayerTotals(ctx, p); err != nil {
		return false, fmt.Errorf("update totals: %w", err)
	}
	return true, nil
}

func orphanWarning(g *models.Game) string {
	return fmt.Sprintf("player %s for game %s not found; totals not adjusted", g.PlayerID, g.ID)
}
