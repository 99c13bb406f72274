package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/PraneetTulluri/Stats-Tracker/internal/config"
	"github.com/PraneetTulluri/Stats-Tracker/pkg/models"
	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"
)

const (
	// Batch size for reading messages
	batchSize = 100

	// Block duration when waiting for new messages
	blockDuration = 1 * time.Second
)

// Broadcaster receives decoded change events
type Broadcaster interface {
	Broadcast(event models.ChangeEvent) bool
}

// StreamConsumer fans change events from a Redis Stream out to the local hub
type StreamConsumer struct {
	redis        *redis.Client
	hub          Broadcaster
	streamConfig config.StreamConfig
	logger       *log.Logger
}

// NewStreamConsumer creates a new stream consumer
func NewStreamConsumer(redisClient *redis.Client, hub Broadcaster, streamConfig config.StreamConfig, logger *log.Logger) *StreamConsumer {
	return &StreamConsumer{
		redis:        redisClient,
		hub:          hub,
		streamConfig: streamConfig,
		logger:       logger,
	}
}

// Start consumes the change stream until ctx is cancelled
func (sc *StreamConsumer) Start(ctx context.Context) error {
	stream := sc.streamConfig.ChangesStream
	sc.logger.Info("Stream consumer started", "stream", stream, "group", sc.streamConfig.ConsumerGroup, "consumer", sc.streamConfig.ConsumerID)

	if err := sc.createConsumerGroup(ctx, stream); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		streams, err := sc.redis.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    sc.streamConfig.ConsumerGroup,
			Consumer: sc.streamConfig.ConsumerID,
			Streams:  []string{stream, ">"},
			Count:    batchSize,
			Block:    blockDuration,
		}).Result()

		if err != nil {
			if errors.Is(err, redis.Nil) {
				// No new messages - continue
				continue
			}
			if ctx.Err() != nil {
				return nil
			}
			sc.logger.Warn("Stream read error", "stream", stream, "error", err)
			time.Sleep(1 * time.Second)
			continue
		}

		for _, s := range streams {
			for _, message := range s.Messages {
				sc.processMessage(ctx, s.Stream, message)
			}
		}
	}
}

// createConsumerGroup creates the consumer group, tolerating one that already exists
func (sc *StreamConsumer) createConsumerGroup(ctx context.Context, stream string) error {
	err := sc.redis.XGroupCreateMkStream(ctx, stream, sc.streamConfig.ConsumerGroup, "$").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return err
	}
	return nil
}

// processMessage decodes one stream entry and hands it to the hub
func (sc *StreamConsumer) processMessage(ctx context.Context, stream string, msg redis.XMessage) {
	defer sc.ackMessage(ctx, stream, msg.ID)

	dataStr, ok := msg.Values["data"].(string)
	if !ok {
		sc.logger.Warn("Invalid message format", "stream", stream, "id", msg.ID)
		return
	}

	var event models.ChangeEvent
	if err := json.Unmarshal([]byte(dataStr), &event); err != nil {
		sc.logger.Warn("Failed to parse change event", "stream", stream, "id", msg.ID, "error", err)
		return
	}

	sc.logger.Debug("Broadcasting change", "user_id", event.UserID, "collection", event.Collection, "operation", event.Operation)
	sc.hub.Broadcast(event)
}

// ackMessage acknowledges a message in the stream
func (sc *StreamConsumer) ackMessage(ctx context.Context, stream string, messageID string) {
	err := sc.redis.XAck(ctx, stream, sc.streamConfig.ConsumerGroup, messageID).Err()
	if err != nil {
		sc.logger.Warn("Failed to ack message", "id", messageID, "stream", stream, "error", err)
	}
}
