package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/PraneetTulluri/Stats-Tracker/pkg/contracts"
	"github.com/PraneetTulluri/Stats-Tracker/pkg/models"
	"github.com/PraneetTulluri/Stats-Tracker/pkg/statmath"
)

// Players returns the raw roster
func (e *Engine) Players(ctx context.Context, userID string) ([]models.Player, error) {
	if userID == "" {
		return nil, ErrNoUser
	}
	players, err := e.store.ListPlayers(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	return players, nil
}

// Roster returns every player with derived metrics
func (e *Engine) Roster(ctx context.Context, userID string) ([]models.PlayerWithMetrics, error) {
	players, err := e.Players(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]models.PlayerWithMetrics, len(players))
	for i, p := range players {
		out[i] = models.PlayerWithMetrics{Player: p, Metrics: statmath.Compute(p.Totals)}
	}
	return out, nil
}

// Player returns one player or ErrPlayerNotFound
func (e *Engine) Player(ctx context.Context, userID, playerID string) (*models.Player, error) {
	if userID == "" {
		return nil, ErrNoUser
	}
	p, err := e.store.GetPlayer(ctx, userID, playerID)
	if errors.Is(err, contracts.ErrNotFound) {
		return nil, ErrPlayerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get player: %w", err)
	}
	return p, nil
}

// PlayerStats returns one player with derived metrics
func (e *Engine) PlayerStats(ctx context.Context, userID, playerID string) (*models.PlayerWithMetrics, error) {
	p, err := e.Player(ctx, userID, playerID)
	if err != nil {
		return nil, err
	}
	return &models.PlayerWithMetrics{Player: *p, Metrics: statmath.Compute(p.Totals)}, nil
}

// Games returns raw games, newest first
func (e *Engine) Games(ctx context.Context, userID string, filters models.GameFilters) ([]models.Game, error) {
	if userID == "" {
		return nil, ErrNoUser
	}
	games, err := e.store.ListGames(ctx, userID, filters)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	return games, nil
}

// GameLog returns games newest first, each labelled with its player or "Unknown"
func (e *Engine) GameLog(ctx context.Context, userID string, filters models.GameFilters) ([]models.GameLogEntry, error) {
	games, err := e.Games(ctx, userID, filters)
	if err != nil {
		return nil, err
	}
	players, err := e.Players(ctx, userID)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*models.Player, len(players))
	for i := range players {
		byID[players[i].ID] = &players[i]
	}

	out := make([]models.GameLogEntry, len(games))
	for i, g := range games {
		out[i] = models.GameLogEntry{Game: g, PlayerLabel: byID[g.PlayerID].Label()}
	}
	return out, nil
}

// LastManualGame returns the newest game without a batch id
func (e *Engine) LastManualGame(ctx context.Context, userID string) (*models.Game, error) {
	games, err := e.Games(ctx, userID, models.GameFilters{})
	if err != nil {
		return nil, err
	}
	for i := range games {
		if games[i].IsManual() {
			return &games[i], nil
		}
	}
	return nil, ErrNoManualEntry
}

// LastBatch returns the batch of the newest game. It fails with ErrNoBatch
// when the newest game was entered by hand.
func (e *Engine) LastBatch(ctx context.Context, userID string) (*models.BatchInfo, error) {
	games, err := e.Games(ctx, userID, models.GameFilters{})
	if err != nil {
		return nil, err
	}
	if len(games) == 0 || games[0].IsManual() {
		return nil, ErrNoBatch
	}

	info := &models.BatchInfo{BatchID: games[0].BatchID, CreatedAt: games[0].CreatedAt}
	for _, g := range games {
		if g.BatchID == info.BatchID {
			info.Games = append(info.Games, g)
		}
	}
	info.GameCount = len(info.Games)
	return info, nil
}

// Trends computes chart series for one player from its games
func (e *Engine) Trends(ctx context.Context, userID, playerID string) (*statmath.Trends, error) {
	p, err := e.Player(ctx, userID, playerID)
	if err != nil {
		return nil, err
	}
	games, err := e.Games(ctx, userID, models.GameFilters{PlayerID: playerID})
	if err != nil {
		return nil, err
	}
	trends := statmath.BuildTrends(p, games)
	return &trends, nil
}

// Compare lines up two players' rate statistics
func (e *Engine) Compare(ctx context.Context, userID, playerID, otherID string) ([]statmath.ComparisonPoint, error) {
	a, err := e.Player(ctx, userID, playerID)
	if err != nil {
		return nil, err
	}
	b, err := e.Player(ctx, userID, otherID)
	if err != nil {
		return nil, err
	}
	return statmath.Compare(a.Totals, b.Totals), nil
}

// Snapshot returns the full current contents of one collection
func (e *Engine) Snapshot(ctx context.Context, userID, collection string) (interface{}, error) {
	switch collection {
	case models.CollectionPlayers:
		return e.Roster(ctx, userID)
	case models.CollectionGames:
		return e.GameLog(ctx, userID, models.GameFilters{})
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownCollection, collection)
	}
}
