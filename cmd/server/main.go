package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	httpAdapter "github.com/iho/ledgerdash/internal/adapter/http"
	"github.com/iho/ledgerdash/internal/adapter/http/handler"
	"github.com/iho/ledgerdash/internal/adapter/http/middleware"
	"github.com/iho/ledgerdash/internal/adapter/repository/memory"
	redisRepo "github.com/iho/ledgerdash/internal/adapter/repository/redis"
	"github.com/iho/ledgerdash/internal/adapter/spreadsheet"
	"github.com/iho/ledgerdash/internal/infrastructure/config"
	"github.com/iho/ledgerdash/internal/infrastructure/logger"
	"github.com/iho/ledgerdash/internal/infrastructure/metrics"
	"github.com/iho/ledgerdash/internal/infrastructure/redis"
	"github.com/iho/ledgerdash/internal/usecase"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	log.Logger = logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log.Logger); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}

	log.Info().Msg("server stopped")
}

// sessionBackend is the configured session store with its housekeeping hooks.
type sessionBackend struct {
	store  usecase.SessionStore
	pinger handler.Pinger
	sweep  func() int
	close  func() error
}

func newSessionBackend(ctx context.Context, cfg *config.Config, logger zerolog.Logger, m *metrics.Metrics) (*sessionBackend, error) {
	switch cfg.SessionBackend {
	case config.SessionBackendMemory:
		store := memory.NewSessionStore(cfg.SessionTTL, m)
		return &sessionBackend{
			store: store,
			sweep: store.Sweep,
			close: func() error { return nil },
		}, nil

	case config.SessionBackendRedis:
		client, err := redis.NewClient(ctx, cfg.RedisURL, cfg.RedisConnectWait, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		logger.Info().Msg("connected to redis")

		store := redisRepo.NewSessionStore(client, cfg.SessionTTL, redisRepo.NewRetrier(logger), m)
		return &sessionBackend{
			store:  store,
			pinger: store,
			close:  client.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.SessionBackend)
	}
}

// newScheduler registers the housekeeping jobs on schedule. Redis expires
// sessions itself, so only the memory store is swept.
func newScheduler(schedule string, logger zerolog.Logger, sweep func() int, limiter *middleware.RateLimiter, limiterIdle time.Duration) (*cron.Cron, error) {
	c := cron.New()

	_, err := c.AddFunc(schedule, func() {
		if sweep != nil {
			if n := sweep(); n > 0 {
				logger.Info().Int("sessions", n).Msg("expired sessions swept")
			}
		}
		if limiter != nil {
			if n := limiter.CleanupLimiters(limiterIdle); n > 0 {
				logger.Debug().Int("visitors", n).Msg("idle rate limiters removed")
			}
		}
	})
	if err != nil {
		return nil, fmt.Errorf("unable to schedule cleanup %q: %w", schedule, err)
	}

	return c, nil
}

func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	profile, err := config.LoadProfile(cfg.DashboardProfile)
	if err != nil {
		return err
	}

	m := metrics.New(nil)

	sessions, err := newSessionBackend(ctx, cfg, logger, m)
	if err != nil {
		return err
	}
	defer sessions.close()

	// Initialize use cases
	parser := spreadsheet.NewParser(spreadsheet.DefaultAliases().Merge(profile.Aliases))
	dashboardUC := usecase.NewDashboardUseCase(sessions.store, parser, profile.Accounts, m)

	var limiter *middleware.RateLimiter
	if cfg.RateLimitRPS > 0 {
		limiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, m)
	}

	scheduler, err := newScheduler(cfg.CleanupSchedule, logger, sessions.sweep, limiter, cfg.LimiterIdle)
	if err != nil {
		return err
	}

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		DashboardHandler: handler.NewDashboardHandler(dashboardUC, cfg.MaxUploadBytes),
		PageHandler:      handler.NewPageHandler(dashboardUC),
		HealthHandler:    handler.NewHealthHandler(sessions.pinger),
		Sessions:         middleware.NewSessionMiddleware(memory.NewULIDGenerator(), cfg.SessionTTL, cfg.CookieSecure),
		Logging:          middleware.NewLoggingMiddleware(logger),
		RateLimiter:      limiter,
		MetricsHandler:   promhttp.Handler(),
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info().Str("port", cfg.HTTPPort).Str("sessions", cfg.SessionBackend).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		scheduler.Start()
		<-gctx.Done()

		logger.Info().Msg("shutting down server...")

		// Graceful shutdown
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
		defer cancel()

		<-scheduler.Stop().Done()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
