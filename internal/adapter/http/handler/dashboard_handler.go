package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/iho/ledgerdash/internal/adapter/http/dto"
	"github.com/iho/ledgerdash/internal/adapter/http/middleware"
	"github.com/iho/ledgerdash/internal/domain"
	"github.com/iho/ledgerdash/internal/presenter"
	"github.com/iho/ledgerdash/internal/usecase"
)

// uploadField is the multipart form field carrying the file.
const uploadField = "file"

var errMissingFile = errors.New(`multipart field "file" is required`)

// DashboardService is the pipeline behind the dashboard endpoints.
type DashboardService interface {
	Upload(ctx context.Context, input usecase.UploadInput) (*usecase.UploadResult, error)
	UploadChartOfAccounts(ctx context.Context, input usecase.UploadInput) (*usecase.ChartResult, error)
	Discard(ctx context.Context, sessionID string) error
	Options(ctx context.Context, sessionID string) (*domain.FilterOptions, error)
	Dashboard(ctx context.Context, sessionID string, filter domain.Filter) (*presenter.Dashboard, error)
	Pivot(ctx context.Context, sessionID string, filter domain.Filter, withGrandTotal bool) (*domain.Pivot, error)
	Rows(ctx context.Context, sessionID string, input usecase.RowsInput) (*usecase.RowsPage, error)
	Export(ctx context.Context, sessionID string, input usecase.ExportInput) (*usecase.ExportResult, error)
}

// DashboardHandler handles ledger upload and dashboard requests.
type DashboardHandler struct {
	service        DashboardService
	maxUploadBytes int64
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(service DashboardService, maxUploadBytes int64) *DashboardHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = usecase.DefaultMaxUploadBytes
	}
	return &DashboardHandler{service: service, maxUploadBytes: maxUploadBytes}
}

// Upload handles POST /api/v1/ledger.
func (h *DashboardHandler) Upload(w http.ResponseWriter, r *http.Request) {
	input, err := h.readUpload(w, r)
	if err != nil {
		writeDomainError(w, r, "failed to read upload", err)
		return
	}

	result, err := h.service.Upload(r.Context(), input)
	if err != nil {
		writeDomainError(w, r, "failed to load ledger", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.UploadResponse{
		SessionID: result.SessionID,
		FileName:  result.FileName,
		Rows:      result.Rows,
		Dropped:   result.Dropped,
		Schema:    result.Schema,
		Filters:   dto.FiltersFromDomain(&result.Options),
	})
}

// UploadChart handles POST /api/v1/chart-of-accounts.
func (h *DashboardHandler) UploadChart(w http.ResponseWriter, r *http.Request) {
	input, err := h.readUpload(w, r)
	if err != nil {
		writeDomainError(w, r, "failed to read upload", err)
		return
	}

	result, err := h.service.UploadChartOfAccounts(r.Context(), input)
	if err != nil {
		writeDomainError(w, r, "failed to load chart of accounts", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ChartUploadResponse{
		SessionID: result.SessionID,
		Codes:     result.Codes,
	})
}

// Discard handles DELETE /api/v1/ledger.
func (h *DashboardHandler) Discard(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Discard(r.Context(), middleware.SessionIDFromContext(r.Context())); err != nil {
		writeDomainError(w, r, "failed to discard session", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Filters handles GET /api/v1/filters.
func (h *DashboardHandler) Filters(w http.ResponseWriter, r *http.Request) {
	opts, err := h.service.Options(r.Context(), middleware.SessionIDFromContext(r.Context()))
	if err != nil {
		writeDomainError(w, r, "failed to get filters", err)
		return
	}
	writeJSON(w, http.StatusOK, dto.FiltersFromDomain(opts))
}

// Dashboard handles GET /api/v1/dashboard.
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	filter, err := dto.ParseFilter(r)
	if err != nil {
		writeDomainError(w, r, "invalid filter", err)
		return
	}

	dashboard, err := h.service.Dashboard(r.Context(), middleware.SessionIDFromContext(r.Context()), filter)
	if err != nil {
		writeDomainError(w, r, "failed to build dashboard", err)
		return
	}
	writeJSON(w, http.StatusOK, dashboard)
}

// Pivot handles GET /api/v1/pivot.
func (h *DashboardHandler) Pivot(w http.ResponseWriter, r *http.Request) {
	filter, err := dto.ParseFilter(r)
	if err != nil {
		writeDomainError(w, r, "invalid filter", err)
		return
	}

	pivot, err := h.service.Pivot(r.Context(), middleware.SessionIDFromContext(r.Context()), filter,
		dto.ParseBool(r, dto.ParamGrandTotal, false))
	if err != nil {
		writeDomainError(w, r, "failed to build pivot", err)
		return
	}
	writeJSON(w, http.StatusOK, dto.PivotFromDomain(pivot))
}

// Rows handles GET /api/v1/rows.
func (h *DashboardHandler) Rows(w http.ResponseWriter, r *http.Request) {
	filter, err := dto.ParseFilter(r)
	if err != nil {
		writeDomainError(w, r, "invalid filter", err)
		return
	}

	page, err := h.service.Rows(r.Context(), middleware.SessionIDFromContext(r.Context()), usecase.RowsInput{
		Filter: filter,
		Limit:  parseIntQuery(r, "limit", domain.DefaultPageSize),
		Offset: parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeDomainError(w, r, "failed to list rows", err)
		return
	}
	writeJSON(w, http.StatusOK, dto.RowsFromDomain(page.Rows, page.Total, page.Limit, page.Offset))
}

// Export handles GET /api/v1/export.
func (h *DashboardHandler) Export(w http.ResponseWriter, r *http.Request) {
	filter, err := dto.ParseFilter(r)
	if err != nil {
		writeDomainError(w, r, "invalid filter", err)
		return
	}
	format, err := presenter.ParseExportFormat(r.URL.Query().Get(dto.ParamFormat))
	if err != nil {
		writeDomainError(w, r, "invalid export format", err)
		return
	}

	result, err := h.service.Export(r.Context(), middleware.SessionIDFromContext(r.Context()), usecase.ExportInput{
		Filter:         filter,
		Format:         format,
		WithGrandTotal: dto.ParseBool(r, dto.ParamGrandTotal, true),
	})
	if err != nil {
		writeDomainError(w, r, "failed to export pivot", err)
		return
	}

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(result.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Data)
}

func (h *DashboardHandler) readUpload(w http.ResponseWriter, r *http.Request) (usecase.UploadInput, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		return usecase.UploadInput{}, fmt.Errorf("%w: %w", errMissingFile, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return usecase.UploadInput{}, err
	}

	return usecase.UploadInput{
		SessionID: middleware.SessionIDFromContext(r.Context()),
		FileName:  header.Filename,
		Data:      data,
	}, nil
}
