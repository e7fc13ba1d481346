package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.App.Name != "helpdesk-service" {
		t.Errorf("app name = %q", cfg.App.Name)
	}
	if cfg.App.Addr() != "0.0.0.0:8080" {
		t.Errorf("addr = %q", cfg.App.Addr())
	}
	if cfg.App.RequestTimeout() != 30*time.Second {
		t.Errorf("request timeout = %v", cfg.App.RequestTimeout())
	}
	if !cfg.Postgres.RunMigrations {
		t.Error("migrations should default to enabled")
	}
	if cfg.Auth.AccessTokenTTLMinutes != 60 {
		t.Errorf("token ttl = %d", cfg.Auth.AccessTokenTTLMinutes)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("HTTP_REQUEST_TIMEOUT_SECONDS", "5")
	t.Setenv("POSTGRES_RUN_MIGRATIONS", "false")
	t.Setenv("REDIS_DB", "3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.App.Port != "9090" {
		t.Errorf("port = %q", cfg.App.Port)
	}
	if cfg.App.RequestTimeout() != 5*time.Second {
		t.Errorf("request timeout = %v", cfg.App.RequestTimeout())
	}
	if cfg.Postgres.RunMigrations {
		t.Error("migrations should be disabled")
	}
	if cfg.Redis.DB != 3 {
		t.Errorf("redis db = %d", cfg.Redis.DB)
	}
}

func TestGetEnvAsIntBadValue(t *testing.T) {
	t.Setenv("SOME_INT", "not-a-number")
	if got := getEnvAsInt("SOME_INT", 7); got != 7 {
		t.Errorf("getEnvAsInt = %d, want fallback 7", got)
	}
}

func TestLoadBadRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")
	if _, err := Load(); err == nil {
		t.Error("invalid REDIS_DB must fail loading")
	}
}
