package retry

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

// Policy retries startup dependencies with exponential backoff
type Policy struct {
	maxAttempts  int
	initialDelay time.Duration
	maxDelay     time.Duration
	logger       *log.Logger
}

// NewPolicy creates a new retry policy. A non-positive maxAttempts means a single attempt.
func NewPolicy(maxAttempts int, initialDelay time.Duration, logger *log.Logger) *Policy {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Policy{
		maxAttempts:  maxAttempts,
		initialDelay: initialDelay,
		maxDelay:     30 * time.Second, // Cap at 30 seconds
		logger:       logger,
	}
}

// Execute runs fn until it succeeds, attempts run out, or ctx is cancelled
func (p *Policy) Execute(ctx context.Context, what string, fn func(ctx context.Context) error) error {
	var lastErr error
	delay := p.initialDelay

	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if attempt == p.maxAttempts {
			break
		}

		p.logger.Warn("Dependency not ready, retrying", "dependency", what, "attempt", attempt, "delay", delay, "error", err)

		select {
		case <-ctx.Done():
			return fmt.Errorf("%s: %w", what, ctx.Err())
		case <-time.After(delay):
		}

		delay = time.Duration(float64(delay) * 1.5)
		if delay > p.maxDelay {
			delay = p.maxDelay
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", what, p.maxAttempts, lastErr)
}
