// Package memstore is an in-process RecordStore used for local runs and tests.
// Each transaction works on a clone of the user's state and swaps it in on commit.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/PraneetTulluri/Stats-Tracker/pkg/contracts"
	"github.com/PraneetTulluri/Stats-Tracker/pkg/models"
)

type storedGame struct {
	game models.Game
	seq  int64
}

type userState struct {
	players map[string]models.Player
	games   map[string]storedGame
	seq     int64
}

func newUserState() *userState {
	return &userState{
		players: make(map[string]models.Player),
		games:   make(map[string]storedGame),
	}
}

func (s *userState) clone() *userState {
	c := &userState{
		players: make(map[string]models.Player, len(s.players)),
		games:   make(map[string]storedGame, len(s.games)),
		seq:     s.seq,
	}
	for k, v := range s.players {
		c.players[k] = v
	}
	for k, v := range s.games {
		c.games[k] = v
	}
	return c
}

// Store implements contracts.RecordStore in memory
type Store struct {
	mu    sync.Mutex // guards users
	users map[string]*userEntry
}

type userEntry struct {
	mu    sync.Mutex // serializes transactions for one user
	state *userState
}

// New creates an empty store
func New() *Store {
	return &Store{users: make(map[string]*userEntry)}
}

func (s *Store) entry(userID string) *userEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.users[userID]
	if !ok {
		e = &userEntry{state: newUserState()}
		s.users[userID] = e
	}
	return e
}

// view runs fn against a consistent copy of the user's state
func (s *Store) view(userID string, fn func(st *userState)) {
	e := s.entry(userID)
	e.mu.Lock()
	st := e.state
	e.mu.Unlock()
	fn(st)
}

// Ping always succeeds
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

// ListPlayers returns the user's roster ordered by creation time
func (s *Store) ListPlayers(ctx context.Context, userID string) ([]models.Player, error) {
	var out []models.Player
	s.view(userID, func(st *userState) {
		out = sortedPlayers(st)
	})
	return out, nil
}

// GetPlayer returns one player or contracts.ErrNotFound
func (s *Store) GetPlayer(ctx context.Context, userID, playerID string) (*models.Player, error) {
	var (
		p  models.Player
		ok bool
	)
	s.view(userID, func(st *userState) {
		p, ok = st.players[playerID]
	})
	if !ok {
		return nil, contracts.ErrNotFound
	}
	return &p, nil
}

// ListGames returns the user's games, newest first
func (s *Store) ListGames(ctx context.Context, userID string, filters models.GameFilters) ([]models.Game, error) {
	var out []models.Game
	s.view(userID, func(st *userState) {
		out = sortedGames(st, filters)
	})
	return out, nil
}

// GetGame returns one game or contracts.ErrNotFound
func (s *Store) GetGame(ctx context.Context, userID, gameID string) (*models.Game, error) {
	var (
		g  storedGame
		ok bool
	)
	s.view(userID, func(st *userState) {
		g, ok = st.games[gameID]
	})
	if !ok {
		return nil, contracts.ErrNotFound
	}
	return &g.game, nil
}

// InTx holds the user's lock for the whole of fn and commits only on success
func (s *Store) InTx(ctx context.Context, userID string, fn func(tx contracts.RecordTx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	e := s.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()

	tx := &memTx{userID: userID, state: e.state.clone()}
	if err := fn(tx); err != nil {
		return err
	}
	e.state = tx.state
	return nil
}

// Close is a no-op
func (s *Store) Close() error {
	return nil
}

type memTx struct {
	userID string
	state  *userState
}

func (tx *memTx) ListPlayers(ctx context.Context) ([]models.Player, error) {
	return sortedPlayers(tx.state), nil
}

func (tx *memTx) CreatePlayer(ctx context.Context, p *models.Player) error {
	if _, exists := tx.state.players[p.ID]; exists {
		return fmt.Errorf("player %s already exists", p.ID)
	}
	p.UserID = tx.userID
	tx.state.players[p.ID] = *p
	return nil
}

func (tx *memTx) LockPlayer(ctx context.Context, playerID string) (*models.Player, error) {
	p, ok := tx.state.players[playerID]
	if !ok {
		return nil, contracts.ErrNotFound
	}
	return &p, nil
}

func (tx *memTx) SavePlayerTotals(ctx context.Context, p *models.Player) error {
	cur, ok := tx.state.players[p.ID]
	if !ok {
		return contracts.ErrNotFound
	}
	cur.GamesPlayed = p.GamesPlayed
	cur.Totals = p.Totals
	tx.state.players[p.ID] = cur
	return nil
}

func (tx *memTx) DeletePlayer(ctx context.Context, playerID string) error {
	if _, ok := tx.state.players[playerID]; !ok {
		return contracts.ErrNotFound
	}
	delete(tx.state.players, playerID)
	return nil
}

func (tx *memTx) InsertGame(ctx context.Context, g *models.Game) error {
	if _, exists := tx.state.games[g.ID]; exists {
		return fmt.Errorf("game %s already exists", g.ID)
	}
	g.UserID = tx.userID
	tx.state.seq++
	tx.state.games[g.ID] = storedGame{game: *g, seq: tx.state.seq}
	return nil
}

func (tx *memTx) LockGame(ctx context.Context, gameID string) (*models.Game, error) {
	g, ok := tx.state.games[gameID]
	if !ok {
		return nil, contracts.ErrNotFound
	}
	return &g.game, nil
}

func (tx *memTx) UpdateGame(ctx context.Context, g *models.Game) error {
	cur, ok := tx.state.games[g.ID]
	if !ok {
		return contracts.ErrNotFound
	}
	cur.game.Date = g.Date
	cur.game.Opponent = g.Opponent
	cur.game.Stats = g.Stats
	tx.state.games[g.ID] = cur
	return nil
}

func (tx *memTx) DeleteGame(ctx context.Context, gameID string) error {
	if _, ok := tx.state.games[gameID]; !ok {
		return contracts.ErrNotFound
	}
	delete(tx.state.games, gameID)
	return nil
}

func (tx *memTx) GamesInBatch(ctx context.Context, batchID string) ([]models.Game, error) {
	return sortedGames(tx.state, models.GameFilters{BatchID: batchID}), nil
}

func sortedPlayers(st *userState) []models.Player {
	out := make([]models.Player, 0, len(st.players))
	for _, p := range st.players {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func sortedGames(st *userState, filters models.GameFilters) []models.Game {
	stored := make([]storedGame, 0, len(st.games))
	for _, g := range st.games {
		if filters.PlayerID != "" && g.game.PlayerID != filters.PlayerID {
			continue
		}
		if filters.BatchID != "" && g.game.BatchID != filters.BatchID {
			continue
		}
		stored = append(stored, g)
	}
	sort.Slice(stored, func(i, j int) bool {
		a, b := stored[i], stored[j]
		if a.game.CreatedAt.Equal(b.game.CreatedAt) {
			return a.seq > b.seq
		}
		return a.game.CreatedAt.After(b.game.CreatedAt)
	})

	out := make([]models.Game, len(stored))
	for i, g := range stored {
		out[i] = g.game
	}
	return out
}
