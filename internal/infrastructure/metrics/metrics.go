package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics of the ledger pipeline.
type Metrics struct {
	// Upload metrics
	Uploads       *prometheus.CounterVec
	RowsLoaded    prometheus.Counter
	RowsDropped   prometheus.Counter
	UploadBytes   prometheus.Histogram
	ChartAccounts prometheus.Counter

	// Pipeline metrics
	PipelineDuration *prometheus.HistogramVec
	Exports          *prometheus.CounterVec

	// Session metrics
	ActiveSessions  prometheus.Gauge
	SessionsExpired prometheus.Counter

	// Redis metrics
	RedisOperations *prometheus.CounterVec
	RedisErrors     *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec
}

// New creates the metrics and registers them with reg.
// A nil reg registers with the default registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		Uploads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerdash_uploads_total",
				Help: "Total number of ledger uploads by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		RowsLoaded: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledgerdash_rows_loaded_total",
			Help: "Total number of ledger rows normalized",
		}),
		RowsDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledgerdash_rows_dropped_total",
			Help: "Total number of ledger rows dropped for unparseable dates",
		}),
		UploadBytes: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "ledgerdash_upload_bytes",
			Help:    "Size of uploaded spreadsheets",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
		}),
		ChartAccounts: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledgerdash_chart_accounts_loaded_total",
			Help: "Total number of chart-of-accounts codes loaded",
		}),

		PipelineDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledgerdash_pipeline_duration_seconds",
				Help:    "Duration of pipeline operations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		Exports: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerdash_exports_total",
				Help: "Total number of pivot exports by format",
			},
			[]string{"format"},
		),

		ActiveSessions: factory.NewGauge(prometheus.GaugeOpts{
			Name: "ledgerdash_active_sessions",
			Help: "Number of sessions held by the in-memory store",
		}),
		SessionsExpired: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledgerdash_sessions_expired_total",
			Help: "Total number of sessions removed by the expiry sweep",
		}),

		RedisOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerdash_redis_operations_total",
				Help: "Total Redis operations",
			},
			[]string{"operation"},
		),
		RedisErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerdash_redis_errors_total",
				Help: "Total Redis errors",
			},
			[]string{"operation"},
		),

		RateLimitHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledgerdash_rate_limit_hits_total",
				Help: "Total rate limit hits",
			},
			[]string{"endpoint"},
		),
	}
}
