// Package engine folds game records into player season totals and reverses that fold.
//
// Every change to a player's totals runs inside a RecordStore transaction that
// locks the player, so concurrent undo/edit/record calls cannot lose updates.
package engine

import (
	"context"
	"time"

	"github.com/PraneetTulluri/Stats-Tracker/pkg/contracts"
	"github.com/PraneetTulluri/Stats-Tracker/pkg/models"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Engine owns the aggregation rules for one RecordStore
type Engine struct {
	store     contracts.RecordStore
	publisher contracts.ChangePublisher
	logger    *log.Logger
	now       func() time.Time
	newID     func() string

	importTimeout time.Duration
}

// DefaultImportTimeout bounds one batch import, which outlives the request that started it
const DefaultImportTimeout = 30 * time.Second

// NewEngine creates an engine. publisher may be nil.
func NewEngine(store contracts.RecordStore, publisher contracts.ChangePublisher, logger *log.Logger) *Engine {
	return &Engine{
		store:     store,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
		newID:     func() string { return uuid.New().String() },

		importTimeout: DefaultImportTimeout,
	}
}

// SetClock replaces the time source
func (e *Engine) SetClock(now func() time.Time) {
	e.now = now
}

// SetImportTimeout replaces the bound on one batch import
func (e *Engine) SetImportTimeout(d time.Duration) {
	e.importTimeout = d
}

// SetPublisher replaces the change publisher
func (e *Engine) SetPublisher(p contracts.ChangePublisher) {
	e.publisher = p
}

// notify tells subscribers which collections changed. Failures are logged, not returned:
// the write already committed.
func (e *Engine) notify(ctx context.Context, userID, operation string, collections ...string) {
	if e.publisher == nil {
		return
	}
	for _, c := range collections {
		event := models.ChangeEvent{
			UserID:     userID,
			Collection: c,
			Operation:  operation,
			OccurredAt: e.now(),
		}
		if err := e.publisher.Publish(ctx, event); err != nil {
			e.logger.Warn("Failed to publish change", "user_id", userID, "collection", c, "operation", operation, "error", err)
		}
	}
}

func (e *Engine) warn(userID, operation string, warnings []string) {
	for _, w := range warnings {
		e.logger.Warn("Referential inconsistency", "user_id", userID, "operation", operation, "detail", w)
	}
}

func clampGames(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
