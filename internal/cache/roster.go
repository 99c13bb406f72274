// Package cache keeps each user's roster in Redis in front of a RecordStore.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/PraneetTulluri/Stats-Tracker/pkg/contracts"
	"github.com/PraneetTulluri/Stats-Tracker/pkg/models"
	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"
)

// DefaultRosterTTL bounds how long a cached roster may be served
const DefaultRosterTTL = 30 * time.Second

// RosterCache serves ListPlayers from Redis and drops the entry after every committed transaction.
// Redis failures fall back to the underlying store.
type RosterCache struct {
	contracts.RecordStore
	client *redis.Client
	ttl    time.Duration
	logger *log.Logger
}

// NewRosterCache wraps store with a Redis roster cache
func NewRosterCache(store contracts.RecordStore, client *redis.Client, ttl time.Duration, logger *log.Logger) *RosterCache {
	if ttl <= 0 {
		ttl = DefaultRosterTTL
	}
	return &RosterCache{
		RecordStore: store,
		client:      client,
		ttl:         ttl,
		logger:      logger,
	}
}

func rosterKey(userID string) string {
	return fmt.Sprintf("roster:%s", userID)
}

// ListPlayers returns the cached roster, loading it from the store on a miss
func (c *RosterCache) ListPlayers(ctx context.Context, userID string) ([]models.Player, error) {
	key := rosterKey(userID)

	data, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var players []models.Player
		decodeErr := msgpack.Unmarshal(data, &players)
		if decodeErr == nil {
			return players, nil
		}
		c.logger.Warn("Discarding unreadable roster cache entry", "user_id", userID, "error", decodeErr)
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("Roster cache read failed", "user_id", userID, "error", err)
	}

	players, err := c.RecordStore.ListPlayers(ctx, userID)
	if err != nil {
		return nil, err
	}

	blob, err := msgpack.Marshal(players)
	if err != nil {
		return nil, fmt.Errorf("marshal roster: %w", err)
	}
	if err := c.client.Set(ctx, key, blob, c.ttl).Err(); err != nil {
		c.logger.Warn("Roster cache write failed", "user_id", userID, "error", err)
	}

	return players, nil
}

// InTx runs the transaction on the store and invalidates the user's roster once it commits
func (c *RosterCache) InTx(ctx context.Context, userID string, fn func(tx contracts.RecordTx) error) error {
	if err := c.RecordStore.InTx(ctx, userID, fn); err != nil {
		return err
	}
	c.Invalidate(ctx, userID)
	return nil
}

// Invalidate drops the cached roster for a user
func (c *RosterCache) Invalidate(ctx context.Context, userID string) {
	if err := c.client.Del(context.WithoutCancel(ctx), rosterKey(userID)).Err(); err != nil {
		c.logger.Warn("Roster cache invalidation failed", "user_id", userID, "error", err)
	}
}
