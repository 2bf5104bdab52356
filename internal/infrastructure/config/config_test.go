package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/iho/ledgerdash/internal/infrastructure/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SESSION_BACKEND", "")
	t.Setenv("DASHBOARD_PROFILE", "")

	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.SessionBackend != config.SessionBackendMemory || cfg.RedisSessions() {
		t.Fatalf("expected memory sessions by default, got %q", cfg.SessionBackend)
	}

	if cfg.SessionTTL != 2*time.Hour {
		t.Fatalf("expected default session TTL 2h, got %s", cfg.SessionTTL)
	}

	if cfg.MaxUploadBytes != 32<<20 {
		t.Fatalf("expected 32 MiB upload limit, got %d", cfg.MaxUploadBytes)
	}

	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default HTTP port 8080, got %s", cfg.HTTPPort)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SESSION_BACKEND", "redis")
	t.Setenv("REDIS_URL", "redis://example")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("SESSION_TTL", "45m")
	t.Setenv("RATE_LIMIT_RPS", "0")
	t.Setenv("CLEANUP_SCHEDULE", "*/10 * * * *")

	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if !cfg.RedisSessions() || cfg.RedisURL != "redis://example" {
		t.Fatalf("expected redis sessions at redis://example, got %s %s", cfg.SessionBackend, cfg.RedisURL)
	}

	if cfg.HTTPPort != "9090" {
		t.Fatalf("expected HTTP port override, got %s", cfg.HTTPPort)
	}

	if cfg.SessionTTL != 45*time.Minute {
		t.Fatalf("expected session TTL override, got %s", cfg.SessionTTL)
	}

	if cfg.RateLimitRPS != 0 || cfg.CleanupSchedule != "*/10 * * * *" {
		t.Fatalf("unexpected overrides: rps=%v schedule=%q", cfg.RateLimitRPS, cfg.CleanupSchedule)
	}
}

func TestLoadDotEnvDoesNotOverrideEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("LOG_LEVEL=debug\nHTTP_PORT=7070\n"), 0o600); err != nil {
		t.Fatalf("failed to write env file: %v", err)
	}
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("LOG_LEVEL", "")
	os.Unsetenv("LOG_LEVEL")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.LogLevel != "debug" {
		t.Fatalf("expected LOG_LEVEL from env file, got %s", cfg.LogLevel)
	}
	if cfg.HTTPPort != "9090" {
		t.Fatalf("expected real environment to win, got %s", cfg.HTTPPort)
	}
}

func TestLoadInvalidDuration(t *testing.T) {
	t.Setenv("HTTP_READ_TIMEOUT", "not-a-duration")

	if _, err := config.Load(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Fatalf("expected error for invalid duration")
	}
}
