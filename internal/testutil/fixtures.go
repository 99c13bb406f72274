package testutil

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/PraneetTulluri/Stats-Tracker/pkg/models"
	"github.com/charmbracelet/log"
)

// DiscardLogger returns a logger that writes nowhere
func DiscardLogger() *log.Logger {
	return log.New(io.Discard)
}

// MockClock returns a time source that advances one second per call
func MockClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	current := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		current = current.Add(time.Second)
		return current
	}
}

// MockLine creates the reference stat line: 4 AB, 2 H (1B + 2B), 1 BB
func MockLine() models.StatVector {
	return models.StatVector{
		PlateAppearances: 5,
		AtBats:           4,
		Hits:             2,
		Singles:          1,
		Doubles:          1,
		Runs:             1,
		RBIs:             2,
		Walks:            1,
		Strikeouts:       1,
	}
}

// MockHomerLine creates a one-home-run stat line
func MockHomerLine() models.StatVector {
	return models.StatVector{
		PlateAppearances: 4,
		AtBats:           4,
		Hits:             1,
		HomeRuns:         1,
		Runs:             1,
		RBIs:             1,
		Strikeouts:       2,
	}
}

// MockImportRow creates a parsed spreadsheet row
func MockImportRow(line int, name, jersey, opponent string, stats models.StatVector) models.ImportRow {
	return models.ImportRow{
		Line:         line,
		PlayerName:   name,
		JerseyNumber: jersey,
		Position:     "Shortstop",
		Date:         "2024-10-15",
		Opponent:     opponent,
		Stats:        stats,
	}
}

// RecordingPublisher captures published change events
type RecordingPublisher struct {
	mu     sync.Mutex
	Events []models.ChangeEvent
	Err    error
}

// Publish records the event
func (p *RecordingPublisher) Publish(ctx context.Context, event models.ChangeEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Events = append(p.Events, event)
	return p.Err
}

// Collections returns the collections of every recorded event, in order
func (p *RecordingPublisher) Collections() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.Events))
	for i, e := range p.Events {
		out[i] = e.Collection
	}
	return out
}
