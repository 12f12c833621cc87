package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "")
	t.Setenv("STORE_BACKEND", "")
	t.Setenv("APP_PORT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Store.Backend != StoreBackendMemory {
		t.Fatalf("expected memory backend without DSN, got %s", cfg.Store.Backend)
	}
	if cfg.App.Addr() != "0.0.0.0:8080" {
		t.Fatalf("unexpected addr %s", cfg.App.Addr())
	}
	if cfg.Cache.SnapshotTTL() != 5*time.Minute {
		t.Fatalf("expected 5m snapshot ttl, got %s", cfg.Cache.SnapshotTTL())
	}
}

func TestLoadBackendSelection(t *testing.T) {
	t.Run("dsn implies postgres", func(t *testing.T) {
		t.Setenv("STORE_BACKEND", "")
		t.Setenv("POSTGRES_DSN", "postgres://localhost/complaints")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if cfg.Store.Backend != StoreBackendPostgres {
			t.Fatalf("expected postgres, got %s", cfg.Store.Backend)
		}
	})

	t.Run("mongo needs uri", func(t *testing.T) {
		t.Setenv("STORE_BACKEND", "mongo")
		t.Setenv("MONGO_URI", "")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for mongo backend without uri")
		}
	})

	t.Run("rejects unknown backend", func(t *testing.T) {
		t.Setenv("STORE_BACKEND", "sqlite")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for unknown backend")
		}
	})
}

func TestWarmCronCanBeDisabled(t *testing.T) {
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("CACHE_WARM_CRON", "")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Cache.WarmCron != "" {
		t.Fatalf("expected empty cron spec, got %q", cfg.Cache.WarmCron)
	}
}

func TestRequestTimeout(t *testing.T) {
	if got := (AppConfig{RequestTimeoutSeconds: 0}).RequestTimeout(); got != 0 {
		t.Fatalf("expected no timeout, got %s", got)
	}
	if got := (AppConfig{RequestTimeoutSeconds: 3}).RequestTimeout(); got != 3*time.Second {
		t.Fatalf("expected 3s, got %s", got)
	}
}
