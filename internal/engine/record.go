package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/PraneetTulluri/Stats-Tracker/pkg/contracts"
	"github.com/PraneetTulluri/Stats-Tracker/pkg/models"
)

// AddPlayer adds a roster entry with zeroed totals
func (e *Engine) AddPlayer(ctx context.Context, userID string, req models.NewPlayerRequest) (*models.Player, error) {
	if userID == "" {
		return nil, ErrNoUser
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidPlayer)
	}
	if !models.IsValidPosition(req.Position) {
		return nil, fmt.Errorf("%w: unknown position %q", ErrInvalidPlayer, req.Position)
	}

	p := &models.Player{
		ID:           e.newID(),
		Name:         name,
		JerseyNumber: strings.TrimSpace(req.JerseyNumber),
		Position:     req.Position,
		CreatedAt:    e.now().UTC(),
	}

	err := e.store.InTx(ctx, userID, func(tx contracts.RecordTx) error {
		return tx.CreatePlayer(ctx, p)
	})
	if err != nil {
		return nil, fmt.Errorf("create player: %w", err)
	}

	e.logger.Info("Player added", "user_id", userID, "player_id", p.ID, "name", p.Name)
	e.notify(ctx, userID, "add_player", models.CollectionPlayers)
	return p, nil
}

// DeletePlayer removes a roster entry. Its games are kept and render as "Unknown".
func (e *Engine) DeletePlayer(ctx context.Context, userID, playerID string) error {
	if userID == "" {
		return ErrNoUser
	}

	err := e.store.InTx(ctx, userID, func(tx contracts.RecordTx) error {
		if _, err := tx.LockPlayer(ctx, playerID); err != nil {
			return err
		}
		return tx.DeletePlayer(ctx, playerID)
	})
	if errors.Is(err, contracts.ErrNotFound) {
		return ErrPlayerNotFound
	}
	if err != nil {
		return fmt.Errorf("delete player: %w", err)
	}

	e.logger.Info("Player deleted", "user_id", userID, "player_id", playerID)
	e.notify(ctx, userID, "delete_player", models.CollectionPlayers, models.CollectionGames)
	return nil
}

// RecordGame stores one game unit and adds NumGames copies of it to the player's totals
func (e *Engine) RecordGame(ctx context.Context, userID string, entry models.GameEntry) (*models.Game, error) {
	if userID == "" {
		return nil, ErrNoUser
	}
	if entry.PlayerID == "" {
		return nil, ErrNoPlayerSelected
	}

	numGames := entry.NumGames
	if numGames == 0 {
		numGames = 1
	}
	if numGames < 1 {
		return nil, ErrInvalidMultiplier
	}
	if err := entry.Stats.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStats, err)
	}

	game := &models.Game{
		ID:        e.newID(),
		PlayerID:  entry.PlayerID,
		Date:      strings.TrimSpace(entry.Date),
		Opponent:  strings.TrimSpace(entry.Opponent),
		Stats:     entry.Stats,
		CreatedAt: e.now().UTC(),
	}

	err := e.store.InTx(ctx, userID, func(tx contracts.RecordTx) error {
		return accumulate(ctx, tx, game, numGames)
	})
	if errors.Is(err, contracts.ErrNotFound) {
		return nil, ErrPlayerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("record game: %w", err)
	}

	e.logger.Info("Game recorded", "user_id", userID, "player_id", game.PlayerID, "game_id", game.ID, "num_games", numGames)
	e.notify(ctx, userID, "record_game", models.CollectionGames, models.CollectionPlayers)
	return game, nil
}

// accumulate inserts game and folds numGames units of it into the locked player
func accumulate(ctx context.Context, tx contracts.RecordTx, game *models.Game, numGames int) error {
	p, err := tx.LockPlayer(ctx, game.PlayerID)
	if err != nil {
		return err
	}

	if err := tx.InsertGame(ctx, game); err != nil {
		return fmt.Errorf("insert game: %w", err)
	}

	p.GamesPlayed += numGames
	p.Totals = p.Totals.Add(game.Stats.Scale(numGames))

	if err := tx.SavePlayerTotals(ctx, p); err != nil {
		return fmt.Errorf("update totals: %w", err)
	}
	return nil
}
