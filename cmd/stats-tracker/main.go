package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/PraneetTulluri/Stats-Tracker/internal/auth"
	"github.com/PraneetTulluri/Stats-Tracker/internal/cache"
	"github.com/PraneetTulluri/Stats-Tracker/internal/config"
	"github.com/PraneetTulluri/Stats-Tracker/internal/consumer"
	"github.com/PraneetTulluri/Stats-Tracker/internal/db"
	"github.com/PraneetTulluri/Stats-Tracker/internal/engine"
	"github.com/PraneetTulluri/Stats-Tracker/internal/handlers"
	"github.com/PraneetTulluri/Stats-Tracker/internal/hub"
	"github.com/PraneetTulluri/Stats-Tracker/internal/logging"
	"github.com/PraneetTulluri/Stats-Tracker/internal/memstore"
	"github.com/PraneetTulluri/Stats-Tracker/internal/publisher"
	"github.com/PraneetTulluri/Stats-Tracker/internal/retry"
	"github.com/PraneetTulluri/Stats-Tracker/pkg/contracts"
	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.LoadConfig(".env")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel, os.Stderr)
	log.SetDefault(logger)
	logger.Info("Starting Stats Tracker", "store", cfg.Store.Driver, "redis", cfg.Redis.Enabled())

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	startup := retry.NewPolicy(cfg.StartupRetries, time.Second, logger)

	store, err := openStore(ctx, cfg.Store, startup)
	if err != nil {
		logger.Fatal("Failed to open record store", "error", err)
	}
	defer store.Close()
	logger.Info("Connected to record store", "driver", cfg.Store.Driver)

	var records contracts.RecordStore = store
	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = connectRedis(ctx, cfg.Redis, startup)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", "error", err)
		}
		defer redisClient.Close()
		logger.Info("Connected to Redis")

		records = cache.NewRosterCache(store, redisClient, cfg.Redis.RosterCacheTTL, logger)
	}

	eng := engine.NewEngine(records, nil, logger)

	// Create hub
	h := hub.NewHub(eng, logger)
	go h.Run(ctx)

	if redisClient != nil {
		// Changes fan out through the stream so every instance's sockets see them
		eng.SetPublisher(publisher.NewStreamPublisher(redisClient, cfg.Stream.ChangesStream))

		streamConsumer := consumer.NewStreamConsumer(redisClient, h, cfg.Stream, logger)
		go func() {
			if err := streamConsumer.Start(ctx); err != nil {
				logger.Error("Stream consumer stopped", "error", err)
			}
		}()
	} else {
		eng.SetPublisher(h)
	}

	router := handlers.NewRouter(handlers.RouterConfig{
		API:         handlers.NewHandler(eng, store),
		Stream:      handlers.NewStreamHandler(ctx, h, logger),
		Verifier:    auth.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.Issuer),
		CORSOrigins: cfg.Server.CORSOrigins,
		Logger:      logger,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("Stats Tracker listening", "addr", cfg.Server.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	// Wait for interrupt signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		logger.Error("Server error", "error", err)

	case sig := <-shutdown:
		logger.Info("Received signal", "signal", sig)

		// Give outstanding requests a deadline for completion
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Graceful shutdown failed", "error", err)
			if err := srv.Close(); err != nil {
				logger.Error("Could not stop server", "error", err)
			}
		}
	}

	// Stop the hub, sockets and consumer
	cancel()

	logger.Info("Shutdown complete")
}

// openStore opens the configured record store, retrying while the database comes up
func openStore(ctx context.Context, cfg config.StoreConfig, policy *retry.Policy) (contracts.RecordStore, error) {
	if cfg.Driver == config.DriverMemory {
		return memstore.New(), nil
	}

	var store *db.Store
	err := policy.Execute(ctx, cfg.Driver, func(ctx context.Context) error {
		var err error
		if cfg.Driver == config.DriverPostgres {
			store, err = db.OpenPostgres(ctx, cfg.DatabaseURL)
		} else {
			store, err = db.OpenSQLite(ctx, cfg.SQLitePath)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

// connectRedis accepts a redis:// URL or a bare host:port address
func connectRedis(ctx context.Context, cfg config.RedisConfig, policy *retry.Policy) (*redis.Client, error) {
	opts := &redis.Options{Addr: cfg.URL, Password: cfg.Password}
	if strings.Contains(cfg.URL, "://") {
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
		}
		if parsed.Password == "" {
			parsed.Password = cfg.Password
		}
		opts = parsed
	}

	client := redis.NewClient(opts)
	err := policy.Execute(ctx, "redis", func(ctx context.Context) error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return client.Ping(pingCtx).Err()
	})
	if err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}
