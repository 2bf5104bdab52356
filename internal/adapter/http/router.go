package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/iho/ledgerdash/internal/adapter/http/handler"
	"github.com/iho/ledgerdash/internal/adapter/http/middleware"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	DashboardHandler *handler.DashboardHandler
	PageHandler      *handler.PageHandler
	HealthHandler    *handler.HealthHandler
	Sessions         *middleware.SessionMiddleware
	Logging          *middleware.LoggingMiddleware
	RateLimiter      *middleware.RateLimiter
	MetricsHandler   http.Handler
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	if cfg.Sessions != nil {
		r.Use(cfg.Sessions.Wrap)
	}
	if cfg.Logging != nil {
		r.Use(cfg.Logging.Wrap)
	}
	r.Use(middleware.Recovery)
	r.Use(middleware.Metrics)
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	r.Get("/", cfg.PageHandler.Index)

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/ledger", cfg.DashboardHandler.Upload)
		r.Delete("/ledger", cfg.DashboardHandler.Discard)
		r.Post("/chart-of-accounts", cfg.DashboardHandler.UploadChart)

		r.Get("/filters", cfg.DashboardHandler.Filters)
		r.Get("/dashboard", cfg.DashboardHandler.Dashboard)
		r.Get("/pivot", cfg.DashboardHandler.Pivot)
		r.Get("/rows", cfg.DashboardHandler.Rows)
		r.Get("/export", cfg.DashboardHandler.Export)
	})

	return r
}
