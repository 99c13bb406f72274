package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/PraneetTulluri/Stats-Tracker/pkg/contracts"
	"github.com/PraneetTulluri/Stats-Tracker/pkg/models"
)

// EditGame replaces a game's date, opponent and stats, applying new−old to the owner's totals.
// The diff base is the game as persisted when the transaction locks it.
// GamesPlayed is left alone.
func (e *Engine) EditGame(ctx context.Context, userID, gameID string, edit models.GameEdit) (*models.EditResult, error) {
	if userID == "" {
		return nil, ErrNoUser
	}
	if err := edit.Stats.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStats, err)
	}

	var result *models.EditResult
	err := e.store.InTx(ctx, userID, func(tx contracts.RecordTx) error {
		game, err := tx.LockGame(ctx, gameID)
		if errors.Is(err, contracts.ErrNotFound) {
			return ErrGameNotFound
		}
		if err != nil {
			return fmt.Errorf("load game: %w", err)
		}

		diff := edit.Stats.Sub(game.Stats)

		game.Date = strings.TrimSpace(edit.Date)
		game.Opponent = strings.TrimSpace(edit.Opponent)
		game.Stats = edit.Stats
		if err := tx.UpdateGame(ctx, game); err != nil {
			return fmt.Errorf("update game: %w", err)
		}

		result = &models.EditResult{Game: *game, Diff: diff}

		p, err := tx.LockPlayer(ctx, game.PlayerID)
		if errors.Is(err, contracts.ErrNotFound) {
			result.Warnings = append(result.Warnings, orphanWarning(game))
			return nil
		}
		if err != nil {
			return fmt.Errorf("load player: %w", err)
		}

		p.Totals = p.Totals.ClampedAdd(diff)
		if err := tx.SavePlayerTotals(ctx, p); err != nil {
			return fmt.Errorf("update totals: %w", err)
		}
		return nil
	})
	if err != nil {
		if IsNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("edit game: %w", err)
	}

	e.warn(userID, "edit_game", result.Warnings)
	e.logger.Info("Game edited", "user_id", userID, "game_id", gameID)
	e.notify(ctx, userID, "edit_game", models.CollectionGames, models.CollectionPlayers)
	return result, nil
}
