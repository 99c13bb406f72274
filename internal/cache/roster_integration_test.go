//go:build integration

package cache_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/PraneetTulluri/Stats-Tracker/internal/cache"
	"github.com/PraneetTulluri/Stats-Tracker/internal/memstore"
	"github.com/PraneetTulluri/Stats-Tracker/internal/testutil"
	"github.com/PraneetTulluri/Stats-Tracker/pkg/contracts"
	"github.com/PraneetTulluri/Stats-Tracker/pkg/models"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func getTestRedisClient(t *testing.T) *redis.Client {
	addr := os.Getenv("REDIS_URL")
	if addr == "" {
		addr = "localhost:6380"
	}

	client := redis.NewClient(&redis.Options{Addr: addr, Password: os.Getenv("REDIS_PASSWORD")})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Fatalf("Failed to connect to Redis: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestRosterCache_InvalidatesOnCommit(t *testing.T) {
	client := getTestRedisClient(t)
	ctx := context.Background()
	userID := "cache-test-" + uuid.New().String()

	c := cache.NewRosterCache(memstore.New(), client, time.Minute, testutil.DiscardLogger())

	players, err := c.ListPlayers(ctx, userID)
	if err != nil {
		t.Fatal(err)
	}
	if len(players) != 0 {
		t.Fatalf("expected empty roster, got %d", len(players))
	}

	if exists := client.Exists(ctx, "roster:"+userID).Val(); exists != 1 {
		t.Errorf("expected roster to be cached after a miss")
	}

	err = c.InTx(ctx, userID, func(tx contracts.RecordTx) error {
		return tx.CreatePlayer(ctx, &models.Player{ID: "p1", Name: "Jane Doe", CreatedAt: time.Now()})
	})
	if err != nil {
		t.Fatal(err)
	}

	players, err = c.ListPlayers(ctx, userID)
	if err != nil {
		t.Fatal(err)
	}
	if len(players) != 1 || players[0].Name != "Jane Doe" {
		t.Errorf("expected fresh roster after commit, got %+v", players)
	}

	client.Del(ctx, "roster:"+userID)
}
