package publisher

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/PraneetTulluri/Stats-Tracker/pkg/models"
	"github.com/redis/go-redis/v9"
)

// DefaultMaxLen caps the change stream so it never grows unbounded
const DefaultMaxLen = 10000

// StreamPublisher publishes collection change events to a Redis Stream
type StreamPublisher struct {
	redis  *redis.Client
	stream string
	maxLen int64
}

// NewStreamPublisher creates a new stream publisher
func NewStreamPublisher(redisClient *redis.Client, stream string) *StreamPublisher {
	return &StreamPublisher{
		redis:  redisClient,
		stream: stream,
		maxLen: DefaultMaxLen,
	}
}

// Publish appends a change event to the stream
func (p *StreamPublisher) Publish(ctx context.Context, event models.ChangeEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("error marshaling change event: %w", err)
	}

	_, err = p.redis.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: p.maxLen,
		Approx: true,
		Values: map[string]interface{}{
			"data":    string(data),
			"user_id": event.UserID,
		},
	}).Result()

	if err != nil {
		return fmt.Errorf("error publishing to stream %s: %w", p.stream, err)
	}

	return nil
}
