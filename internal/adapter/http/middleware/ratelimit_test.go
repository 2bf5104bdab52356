package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/iho/ledgerdash/internal/infrastructure/metrics"
)

func TestRateLimiterBlocksPerIP(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	rl := NewRateLimiter(1, 1, m)
	handler := rl.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	do := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := do("1.2.3.4:1111"); code != http.StatusOK {
		t.Fatalf("expected first request to pass, got %d", code)
	}
	if code := do("1.2.3.4:2222"); code != http.StatusTooManyRequests {
		t.Fatalf("expected same IP on another port to be throttled, got %d", code)
	}
	if code := do("5.6.7.8:1111"); code != http.StatusOK {
		t.Fatalf("expected other IP to pass, got %d", code)
	}

	if got := testutil.ToFloat64(m.RateLimitHits.WithLabelValues("unmatched")); got != 1 {
		t.Fatalf("expected one rate limit hit, got %v", got)
	}
}

func TestRateLimiterCleanupRemovesIdleVisitors(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(10, 10, nil)
	rl.now = func() time.Time { return now }

	rl.getLimiter("a")
	now = now.Add(30 * time.Minute)
	rl.getLimiter("b")
	now = now.Add(40 * time.Minute)

	if removed := rl.CleanupLimiters(time.Hour); removed != 1 {
		t.Fatalf("expected 1 idle limiter removed, got %d", removed)
	}
	if _, ok := rl.visitors["b"]; !ok {
		t.Fatalf("expected recent visitor to be kept")
	}
}
