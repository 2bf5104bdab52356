package http

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/ledgerdash/internal/adapter/http/dto"
	"github.com/iho/ledgerdash/internal/adapter/http/handler"
	apimiddleware "github.com/iho/ledgerdash/internal/adapter/http/middleware"
	"github.com/iho/ledgerdash/internal/adapter/repository/memory"
	"github.com/iho/ledgerdash/internal/adapter/spreadsheet"
	"github.com/iho/ledgerdash/internal/domain"
	"github.com/iho/ledgerdash/internal/usecase"
)

const ledgerCSV = "Data;Valor;ContaContabil;GrupoDeConta\n" +
	"01/02/2024;1.000,00;Receita Vendas ML;Receitas\n" +
	"05/02/2024;-300,00;Compras de Mercadoria para Revenda;Custos\n" +
	"10/03/2024;500,00;Receita Vendas ML;Receitas\n"

func TestNewRouter_HealthEndpointAvailable(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /health to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_RateLimiterBlocksExcessRequests(t *testing.T) {
	rl := apimiddleware.NewRateLimiter(1, 1, nil)
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.RateLimiter = rl
	}))

	req1 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req1.RemoteAddr = "1.2.3.4:1234"
	rec1 := httptest.NewRecorder()
	router.ServeHTTP(rec1, req1)
	if rec1.Code != http.StatusOK {
		t.Fatalf("expected first request to succeed, got %d", rec1.Code)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req2.RemoteAddr = "1.2.3.4:1234"
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be throttled, got %d", rec2.Code)
	}
}

func TestNewRouter_RegistersKeyRoutes(t *testing.T) {
	router := NewRouter(newRouterConfig())

	chiRoutes, ok := router.(chi.Router)
	if !ok {
		t.Fatal("router does not implement chi.Routes")
	}

	seen := map[string]bool{}
	if err := chi.Walk(chiRoutes, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		seen[method+" "+route] = true
		return nil
	}); err != nil {
		t.Fatalf("walk failed: %v", err)
	}

	expected := []string{
		"GET /health",
		"GET /ready",
		"GET /metrics",
		"GET /",
		"POST /api/v1/ledger",
		"DELETE /api/v1/ledger",
		"POST /api/v1/chart-of-accounts",
		"GET /api/v1/filters",
		"GET /api/v1/dashboard",
		"GET /api/v1/pivot",
		"GET /api/v1/rows",
		"GET /api/v1/export",
	}

	for _, route := range expected {
		if !seen[route] {
			t.Fatalf("expected route %s to be registered", route)
		}
	}
}

func TestNewRouter_UploadThenQuery(t *testing.T) {
	router := NewRouter(newRouterConfig())

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "razao.csv")
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	_, _ = fw.Write([]byte(ledgerCSV))
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/ledger", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	sessionID := rec.Header().Get(apimiddleware.SessionHeader)
	if sessionID == "" {
		t.Fatal("expected a session ID to be issued")
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/pivot?grand_total=true", nil)
	req.Header.Set(apimiddleware.SessionHeader, sessionID)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var pivot dto.PivotResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &pivot); err != nil {
		t.Fatalf("failed to decode pivot: %v", err)
	}
	if len(pivot.Months) != 2 || pivot.GrandTotal == nil {
		t.Fatalf("unexpected pivot: %+v", pivot)
	}
	if pivot.GrandTotal.TotalDisplay != "1.200,00" {
		t.Fatalf("expected grand total 1.200,00, got %s", pivot.GrandTotal.TotalDisplay)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/pivot", nil)
	req.Header.Set(apimiddleware.SessionHeader, "01HOTHERSESSION0000000000")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for a session without ledger, got %d", rec.Code)
	}
}

func newRouterConfig(opts ...func(*RouterConfig)) RouterConfig {
	store := memory.NewSessionStore(time.Hour, nil)
	uc := usecase.NewDashboardUseCase(store, spreadsheet.NewParser(spreadsheet.DefaultAliases()), domain.DefaultNamedAccounts(), nil)

	cfg := RouterConfig{
		DashboardHandler: handler.NewDashboardHandler(uc, 0),
		PageHandler:      handler.NewPageHandler(uc),
		HealthHandler:    handler.NewHealthHandler(nil),
		Sessions:         apimiddleware.NewSessionMiddleware(memory.NewULIDGenerator(), time.Hour, false),
		Logging:          apimiddleware.NewLoggingMiddleware(zerolog.Nop()),
		MetricsHandler:   promhttp.HandlerFor(prometheus.NewRegistry(), promhttp.HandlerOpts{}),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}
