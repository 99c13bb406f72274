package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/PraneetTulluri/Stats-Tracker/internal/config"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "secret")
	t.Setenv("CONSUMER_ID", "node-a")

	cfg, err := config.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Server.Addr != ":8080" {
		t.Errorf("Expected :8080, got %s", cfg.Server.Addr)
	}
	if cfg.Store.Driver != config.DriverSQLite {
		t.Errorf("Expected sqlite driver, got %s", cfg.Store.Driver)
	}
	if cfg.Redis.Enabled() {
		t.Error("Expected Redis disabled by default")
	}
	if cfg.Redis.RosterCacheTTL != 30*time.Second {
		t.Errorf("Expected 30s roster TTL, got %s", cfg.Redis.RosterCacheTTL)
	}
	if cfg.Stream.ChangesStream != "stats.changes" {
		t.Errorf("Expected stats.changes, got %s", cfg.Stream.ChangesStream)
	}
	if cfg.Stream.ConsumerGroup != "stats-tracker-node-a" {
		t.Errorf("Expected per-instance group, got %s", cfg.Stream.ConsumerGroup)
	}
	if cfg.StartupRetries != 5 {
		t.Errorf("Expected 5 retries, got %d", cfg.StartupRetries)
	}
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "secret")
	t.Setenv("STORE_DRIVER", "Postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/stats")
	t.Setenv("REDIS_URL", "localhost:6380")
	t.Setenv("CORS_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("ROSTER_CACHE_TTL", "1m")

	cfg, err := config.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Store.Driver != config.DriverPostgres {
		t.Errorf("Expected postgres driver, got %s", cfg.Store.Driver)
	}
	if !cfg.Redis.Enabled() {
		t.Error("Expected Redis enabled")
	}
	if len(cfg.Server.CORSOrigins) != 2 || cfg.Server.CORSOrigins[1] != "http://b.test" {
		t.Errorf("Unexpected CORS origins: %v", cfg.Server.CORSOrigins)
	}
	if cfg.Redis.RosterCacheTTL != time.Minute {
		t.Errorf("Expected 1m roster TTL, got %s", cfg.Redis.RosterCacheTTL)
	}
}

func TestLoadConfig_DotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("AUTH_JWT_SECRET=from-file\nSTORE_DRIVER=memory\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		os.Unsetenv("AUTH_JWT_SECRET")
		os.Unsetenv("STORE_DRIVER")
	})

	cfg, err := config.LoadConfig(path, filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Auth.JWTSecret != "from-file" || cfg.Store.Driver != config.DriverMemory {
		t.Errorf("Expected values from .env, got %+v", cfg.Auth)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing secret", map[string]string{"STORE_DRIVER": "memory"}},
		{"postgres without url", map[string]string{"AUTH_JWT_SECRET": "s", "STORE_DRIVER": "postgres"}},
		{"unknown driver", map[string]string{"AUTH_JWT_SECRET": "s", "STORE_DRIVER": "mongo"}},
		{"bad ttl", map[string]string{"AUTH_JWT_SECRET": "s", "ROSTER_CACHE_TTL": "soon"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("AUTH_JWT_SECRET", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := config.LoadConfig(); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}
