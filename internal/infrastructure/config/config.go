package config

import (
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Session backends.
const (
	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
)

// Config holds all application configuration.
type Config struct {
	// Sessions
	SessionBackend string        `env:"SESSION_BACKEND" envDefault:"memory"`
	SessionTTL     time.Duration `env:"SESSION_TTL"     envDefault:"2h"`
	CookieSecure   bool          `env:"COOKIE_SECURE"   envDefault:"false"`

	// Redis
	RedisURL         string        `env:"REDIS_URL"          envDefault:"redis://localhost:6379"`
	RedisConnectWait time.Duration `env:"REDIS_CONNECT_WAIT" envDefault:"30s"`

	// HTTP Server
	HTTPPort            string        `env:"HTTP_PORT"             envDefault:"8080"`
	HTTPReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT"     envDefault:"30s"`
	HTTPWriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT"    envDefault:"30s"`
	HTTPIdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT"     envDefault:"60s"`
	HTTPShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	MaxUploadBytes      int64         `env:"MAX_UPLOAD_BYTES"      envDefault:"33554432"`

	// Rate limiting (RATE_LIMIT_RPS=0 disables it)
	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS"   envDefault:"20"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"40"`

	// Housekeeping
	CleanupSchedule string        `env:"CLEANUP_SCHEDULE" envDefault:"@every 5m"`
	LimiterIdle     time.Duration `env:"LIMITER_IDLE"     envDefault:"10m"`

	// Dashboard profile (YAML with aliases and named accounts)
	DashboardProfile string `env:"DASHBOARD_PROFILE" envDefault:""`

	// Logging
	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
}

// Load loads configuration from environment variables. Variables from the
// given .env files (default ".env") are applied first without overriding
// the real environment; missing files are ignored.
func Load(envFiles ...string) (*Config, error) {
	_ = godotenv.Load(envFiles...)

	cfg := &Config{}
	err := env.Parse(cfg)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// RedisSessions reports whether sessions are kept in redis.
func (c *Config) RedisSessions() bool {
	return c.SessionBackend == SessionBackendRedis
}
