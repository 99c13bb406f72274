package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Store drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr        string   `env:"SERVER_ADDR" envDefault:":8080"`
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
}

// StoreConfig selects and locates the record store
type StoreConfig struct {
	Driver      string `env:"STORE_DRIVER" envDefault:"sqlite"`
	DatabaseURL string `env:"DATABASE_URL"`
	SQLitePath  string `env:"SQLITE_PATH" envDefault:"stats.db"`
}

// RedisConfig holds Redis connection configuration. An empty URL disables Redis.
type RedisConfig struct {
	URL            string        `env:"REDIS_URL"`
	Password       string        `env:"REDIS_PASSWORD"`
	RosterCacheTTL time.Duration `env:"ROSTER_CACHE_TTL" envDefault:"30s"`
}

// Enabled reports whether a Redis server is configured
func (r RedisConfig) Enabled() bool {
	return r.URL != ""
}

// StreamConfig names the change stream and this instance's consumer.
// Every instance must read the stream in its own group to see every change.
type StreamConfig struct {
	ChangesStream string `env:"CHANGES_STREAM" envDefault:"stats.changes"`
	ConsumerGroup string `env:"CONSUMER_GROUP"`
	ConsumerID    string `env:"CONSUMER_ID"`
}

// AuthConfig holds identity token verification settings
type AuthConfig struct {
	JWTSecret string `env:"AUTH_JWT_SECRET"`
	Issuer    string `env:"AUTH_ISSUER"`
}

// Config holds all application configuration
type Config struct {
	Server         ServerConfig
	Store          StoreConfig
	Redis          RedisConfig
	Stream         StreamConfig
	Auth           AuthConfig
	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`
	StartupRetries int    `env:"STARTUP_RETRIES" envDefault:"5"`
}

// LoadConfig loads optional .env files and then the environment.
// Variables already set in the environment win over .env values.
func LoadConfig(envFiles ...string) (*Config, error) {
	for _, path := range envFiles {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.Stream.ConsumerID == "" {
		host, err := os.Hostname()
		if err != nil || host == "" {
			host = "stats-tracker-1"
		}
		cfg.Stream.ConsumerID = host
	}
	if cfg.Stream.ConsumerGroup == "" {
		cfg.Stream.ConsumerGroup = "stats-tracker-" + cfg.Stream.ConsumerID
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks settings that have no usable default
func (c *Config) Validate() error {
	c.Store.Driver = strings.ToLower(strings.TrimSpace(c.Store.Driver))
	switch c.Store.Driver {
	case DriverPostgres:
		if c.Store.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres store")
		}
	case DriverSQLite:
		if c.Store.SQLitePath == "" {
			return errors.New("SQLITE_PATH is required for the sqlite store")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver)
	}

	if c.Auth.JWTSecret == "" {
		return errors.New("AUTH_JWT_SECRET is required")
	}
	return nil
}
