package contracts

import (
	"context"
	"errors"

	"github.com/PraneetTulluri/Stats-Tracker/pkg/models"
)

// ErrNotFound is returned by stores when a player or game does not exist
var ErrNotFound = errors.New("record not found")

// RecordStore holds the players and games collections of every user.
// All reads and writes are scoped to one user id.
type RecordStore interface {
	Ping(ctx context.Context) error

	// Reads
	ListPlayers(ctx context.Context, userID string) ([]models.Player, error)
	GetPlayer(ctx context.Context, userID, playerID string) (*models.Player, error)
	ListGames(ctx context.Context, userID string, filters models.GameFilters) ([]models.Game, error) // newest first
	GetGame(ctx context.Context, userID, gameID string) (*models.Game, error)

	// InTx runs fn in a transaction scoped to userID.
	// Rows returned by the Lock* methods stay locked until fn returns;
	// fn's writes are committed only if it returns nil.
	InTx(ctx context.Context, userID string, fn func(tx RecordTx) error) error

	Close() error
}

// RecordTx is the write side of a RecordStore transaction
type RecordTx interface {
	ListPlayers(ctx context.Context) ([]models.Player, error)
	CreatePlayer(ctx context.Context, p *models.Player) error
	LockPlayer(ctx context.Context, playerID string) (*models.Player, error)
	SavePlayerTotals(ctx context.Context, p *models.Player) error
	DeletePlayer(ctx context.Context, playerID string) error

	InsertGame(ctx context.Context, g *models.Game) error
	LockGame(ctx context.Context, gameID string) (*models.Game, error)
	UpdateGame(ctx context.Context, g *models.Game) error
	DeleteGame(ctx context.Context, gameID string) error
	GamesInBatch(ctx context.Context, batchID string) ([]models.Game, error)
}
