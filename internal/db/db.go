// Package db implements contracts.RecordStore on database/sql for PostgreSQL and SQLite.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/PraneetTulluri/Stats-Tracker/pkg/models"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// dialect carries the SQL differences between the two engines
type dialect struct {
	name       string
	numbered   bool   // $1 placeholders instead of ?
	lockSuffix string // appended to row-locking selects
	seqColumn  string // insertion order of games
	schema     []string
}

var postgres = dialect{
	name:       "postgres",
	numbered:   true,
	lockSuffix: " FOR UPDATE",
	seqColumn:  "seq",
	schema: []string{
		`CREATE TABLE IF NOT EXISTS players (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			name TEXT NOT NULL,
			jersey_number TEXT NOT NULL DEFAULT '',
			position TEXT NOT NULL DEFAULT '',
			games_played INTEGER NOT NULL DEFAULT 0,
			` + counterDDL() + `,
			created_at BIGINT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_players_user ON players (user_id, created_at)`,
		`CREATE TABLE IF NOT EXISTS games (
			seq BIGSERIAL,
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			player_id TEXT NOT NULL,
			date TEXT NOT NULL DEFAULT '',
			opponent TEXT NOT NULL DEFAULT '',
			batch_id TEXT NOT NULL DEFAULT '',
			` + counterDDL() + `,
			created_at BIGINT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_games_user ON games (user_id, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_games_batch ON games (user_id, batch_id)`,
	},
}

// SQLite has no row locks; immediate transactions on a single connection serialize writers
var sqlite = dialect{
	name:      "sqlite",
	seqColumn: "rowid",
	schema: []string{
		`CREATE TABLE IF NOT EXISTS players (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			name TEXT NOT NULL,
			jersey_number TEXT NOT NULL DEFAULT '',
			position TEXT NOT NULL DEFAULT '',
			games_played INTEGER NOT NULL DEFAULT 0,
			` + counterDDL() + `,
			created_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_players_user ON players (user_id, created_at)`,
		`CREATE TABLE IF NOT EXISTS games (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			player_id TEXT NOT NULL,
			date TEXT NOT NULL DEFAULT '',
			opponent TEXT NOT NULL DEFAULT '',
			batch_id TEXT NOT NULL DEFAULT '',
			` + counterDDL() + `,
			created_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_games_user ON games (user_id, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_games_batch ON games (user_id, batch_id)`,
	},
}

func counterDDL() string {
	cols := make([]string, len(models.StatFields))
	for i, f := range models.StatFields {
		cols[i] = f.Key + " INTEGER NOT NULL DEFAULT 0"
	}
	return strings.Join(cols, ",\n\t\t\t")
}

// rebind rewrites ? placeholders for dialects that number them
func (d dialect) rebind(query string) string {
	if !d.numbered {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Store implements contracts.RecordStore over database/sql
type Store struct {
	db      *sql.DB
	dialect dialect
}

// OpenPostgres connects to PostgreSQL and ensures the schema exists
func OpenPostgres(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return open(ctx, db, postgres)
}

// OpenSQLite opens (creating if needed) a SQLite database file and ensures the schema exists
func OpenSQLite(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	dsn := "file:" + filepath.Clean(path) +
		"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_txlock=immediate"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)

	return open(ctx, db, sqlite)
}

func open(ctx context.Context, db *sql.DB, d dialect) (*Store, error) {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	for _, stmt := range d.schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply schema: %w", err)
		}
	}

	return &Store{db: db, dialect: d}, nil
}

// Driver names the SQL dialect in use
func (s *Store) Driver() string {
	return s.dialect.name
}

// Ping checks database connectivity
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the connection pool
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
