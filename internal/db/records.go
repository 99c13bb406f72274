package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/PraneetTulluri/Stats-Tracker/pkg/contracts"
	"github.com/PraneetTulluri/Stats-Tracker/pkg/models"
)

// querier is satisfied by *sql.DB and *sql.Tx
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func counterColumns() string {
	cols := make([]string, len(models.StatFields))
	for i, f := range models.StatFields {
		cols[i] = f.Key
	}
	return strings.Join(cols, ", ")
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func counterAssignments() string {
	cols := make([]string, len(models.StatFields))
	for i, f := range models.StatFields {
		cols[i] = f.Key + " = ?"
	}
	return strings.Join(cols, ", ")
}

func counterArgs(v models.StatVector) []interface{} {
	vals := v.Values()
	out := make([]interface{}, len(vals))
	for i, n := range vals {
		out[i] = n
	}
	return out
}

var (
	playerColumns = "id, user_id, name, jersey_number, position, games_played, " + counterColumns() + ", created_at"
	gameColumns   = "id, user_id, player_id, date, opponent, batch_id, " + counterColumns() + ", created_at"
)

func scanPlayer(row scanner) (*models.Player, error) {
	var p models.Player
	var createdAt int64

	dest := []interface{}{&p.ID, &p.UserID, &p.Name, &p.JerseyNumber, &p.Position, &p.GamesPlayed}
	for _, ptr := range p.Totals.Pointers() {
		dest = append(dest, ptr)
	}
	dest = append(dest, &createdAt)

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	p.CreatedAt = fromMillis(createdAt)
	return &p, nil
}

func scanGame(row scanner) (*models.Game, error) {
	var g models.Game
	var createdAt int64

	dest := []interface{}{&g.ID, &g.UserID, &g.PlayerID, &g.Date, &g.Opponent, &g.BatchID}
	for _, ptr := range g.Stats.Pointers() {
		dest = append(dest, ptr)
	}
	dest = append(dest, &createdAt)

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	g.CreatedAt = fromMillis(createdAt)
	return &g, nil
}

// records runs the shared queries against a pool or a transaction
type records struct {
	q       querier
	dialect dialect
	userID  string
}

func (r records) listPlayers(ctx context.Context) ([]models.Player, error) {
	query := r.dialect.rebind(`SELECT ` + playerColumns + ` FROM players WHERE user_id = ? ORDER BY created_at, id`)

	rows, err := r.q.QueryContext(ctx, query, r.userID)
	if err != nil {
		return nil, fmt.Errorf("query players: %w", err)
	}
	defer rows.Close()

	players := []models.Player{}
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}
		players = append(players, *p)
	}
	return players, rows.Err()
}

func (r records) getPlayer(ctx context.Context, playerID string, lock bool) (*models.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE user_id = ? AND id = ?`
	if lock {
		query += r.dialect.lockSuffix
	}

	p, err := scanPlayer(r.q.QueryRowContext(ctx, r.dialect.rebind(query), r.userID, playerID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, contracts.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get player: %w", err)
	}
	return p, nil
}

func (r records) listGames(ctx context.Context, filters models.GameFilters) ([]models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE user_id = ?`
	args := []interface{}{r.userID}

	if filters.PlayerID != "" {
		query += " AND player_id = ?"
		args = append(args, filters.PlayerID)
	}
	if filters.BatchID != "" {
		query += " AND batch_id = ?"
		args = append(args, filters.BatchID)
	}
	query += " ORDER BY created_at DESC, " + r.dialect.seqColumn + " DESC"

	rows, err := r.q.QueryContext(ctx, r.dialect.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("query games: %w", err)
	}
	defer rows.Close()

	games := []models.Game{}
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		games = append(games, *g)
	}
	return games, rows.Err()
}

func (r records) getGame(ctx context.Context, gameID string, lock bool) (*models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE user_id = ? AND id = ?`
	if lock {
		query += r.dialect.lockSuffix
	}

	g, err := scanGame(r.q.QueryRowContext(ctx, r.dialect.rebind(query), r.userID, gameID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, contracts.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get game: %w", err)
	}
	return g, nil
}

// expectOne maps a write that touched no row to ErrNotFound
func expectOne(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return contracts.ErrNotFound
	}
	return nil
}

// ListPlayers returns a user's roster in creation order
func (s *Store) ListPlayers(ctx context.Context, userID string) ([]models.Player, error) {
	return records{q: s.db, dialect: s.dialect, userID: userID}.listPlayers(ctx)
}

// GetPlayer returns one player or contracts.ErrNotFound
func (s *Store) GetPlayer(ctx context.Context, userID, playerID string) (*models.Player, error) {
	return records{q: s.db, dialect: s.dialect, userID: userID}.getPlayer(ctx, playerID, false)
}

// ListGames returns a user's games, newest first
func (s *Store) ListGames(ctx context.Context, userID string, filters models.GameFilters) ([]models.Game, error) {
	return records{q: s.db, dialect: s.dialect, userID: userID}.listGames(ctx, filters)
}

// GetGame returns one game or contracts.ErrNotFound
func (s *Store) GetGame(ctx context.Context, userID, gameID string) (*models.Game, error) {
	return records{q: s.db, dialect: s.dialect, userID: userID}.getGame(ctx, gameID, false)
}

// InTx runs fn in a database transaction
func (s *Store) InTx(ctx context.Context, userID string, fn func(tx contracts.RecordTx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&sqlTx{records{q: tx, dialect: s.dialect, userID: userID}}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// sqlTx implements contracts.RecordTx
type sqlTx struct {
	records
}

func (t *sqlTx) ListPlayers(ctx context.Context) ([]models.Player, error) {
	return t.listPlayers(ctx)
}

func (t *sqlTx) CreatePlayer(ctx context.Context, p *models.Player) error {
	query := `INSERT INTO players (` + playerColumns + `) VALUES (` + placeholders(7+models.NumStatFields) + `)`

	args := []interface{}{p.ID, t.userID, p.Name, p.JerseyNumber, p.Position, p.GamesPlayed}
	args = append(args, counterArgs(p.Totals)...)
	args = append(args, toMillis(p.CreatedAt))

	if _, err := t.q.ExecContext(ctx, t.dialect.rebind(query), args...); err != nil {
		return fmt.Errorf("insert player: %w", err)
	}
	p.UserID = t.userID
	return nil
}

func (t *sqlTx) LockPlayer(ctx context.Context, playerID string) (*models.Player, error) {
	return t.getPlayer(ctx, playerID, true)
}

func (t *sqlTx) SavePlayerTotals(ctx context.Context, p *models.Player) error {
	query := `UPDATE players SET games_played = ?, ` + counterAssignments() + ` WHERE user_id = ? AND id = ?`

	args := []interface{}{p.GamesPlayed}
	args = append(args, counterArgs(p.Totals)...)
	args = append(args, t.userID, p.ID)

	if err := expectOne(t.q.ExecContext(ctx, t.dialect.rebind(query), args...)); err != nil {
		return fmt.Errorf("update player totals: %w", err)
	}
	return nil
}

func (t *sqlTx) DeletePlayer(ctx context.Context, playerID string) error {
	query := t.dialect.rebind(`DELETE FROM players WHERE user_id = ? AND id = ?`)
	if err := expectOne(t.q.ExecContext(ctx, query, t.userID, playerID)); err != nil {
		return fmt.Errorf("delete player: %w", err)
	}
	return nil
}

func (t *sqlTx) InsertGame(ctx context.Context, g *models.Game) error {
	query := `INSERT INTO games (` + gameColumns + `) VALUES (` + placeholders(7+models.NumStatFields) + `)`

	args := []interface{}{g.ID, t.userID, g.PlayerID, g.Date, g.Opponent, g.BatchID}
	args = append(args, counterArgs(g.Stats)...)
	args = append(args, toMillis(g.CreatedAt))

	if _, err := t.q.ExecContext(ctx, t.dialect.rebind(query), args...); err != nil {
		return fmt.Errorf("insert game: %w", err)
	}
	g.UserID = t.userID
	return nil
}

func (t *sqlTx) LockGame(ctx context.Context, gameID string) (*models.Game, error) {
	return t.getGame(ctx, gameID, true)
}

func (t *sqlTx) UpdateGame(ctx context.Context, g *models.Game) error {
	query := `UPDATE games SET date = ?, opponent = ?, ` + counterAssignments() + ` WHERE user_id = ? AND id = ?`

	args := []interface{}{g.Date, g.Opponent}
	args = append(args, counterArgs(g.Stats)...)
	args = append(args, t.userID, g.ID)

	if err := expectOne(t.q.ExecContext(ctx, t.dialect.rebind(query), args...)); err != nil {
		return fmt.Errorf("update game: %w", err)
	}
	return nil
}

func (t *sqlTx) DeleteGame(ctx context.Context, gameID string) error {
	query := t.dialect.rebind(`DELETE FROM games WHERE user_id = ? AND id = ?`)
	if err := expectOne(t.q.ExecContext(ctx, query, t.userID, gameID)); err != nil {
		return fmt.Errorf("delete game: %w", err)
	}
	return nil
}

func (t *sqlTx) GamesInBatch(ctx context.Context, batchID string) ([]models.Game, error) {
	if batchID == "" {
		return nil, nil
	}
	query := `SELECT ` + gameColumns + ` FROM games WHERE user_id = ? AND batch_id = ? ORDER BY created_at, ` +
		t.dialect.seqColumn + t.dialect.lockSuffix

	rows, err := t.q.QueryContext(ctx, t.dialect.rebind(query), t.userID, batchID)
	if err != nil {
		return nil, fmt.Errorf("query batch: %w", err)
	}
	defer rows.Close()

	var games []models.Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		games = append(games, *g)
	}
	return games, rows.Err()
}
