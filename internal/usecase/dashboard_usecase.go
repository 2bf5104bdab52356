package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iho/ledgerdash/internal/domain"
	"github.com/iho/ledgerdash/internal/infrastructure/metrics"
	"github.com/iho/ledgerdash/internal/presenter"
)

// DashboardUseCase runs the filter and aggregation pipeline over the
// ledger cached in a session.
type DashboardUseCase struct {
	sessions SessionStore
	parser   LedgerParser
	accounts domain.NamedAccounts
	metrics  *metrics.Metrics
	now      func() time.Time
}

// NewDashboardUseCase creates a new DashboardUseCase. m may be nil.
func NewDashboardUseCase(sessions SessionStore, parser LedgerParser, accounts domain.NamedAccounts, m *metrics.Metrics) *DashboardUseCase {
	if accounts.TopN <= 0 {
		accounts.TopN = domain.DefaultTopN
	}
	return &DashboardUseCase{
		sessions: sessions,
		parser:   parser,
		accounts: accounts,
		metrics:  m,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Accounts returns the named accounts the dashboard highlights.
func (uc *DashboardUseCase) Accounts() domain.NamedAccounts {
	return uc.accounts
}

// UploadInput represents an uploaded file.
type UploadInput struct {
	SessionID string
	FileName  string
	Data      []byte
}

// UploadResult summarizes a ledger upload.
type UploadResult struct {
	SessionID string               `json:"session_id"`
	FileName  string               `json:"file_name"`
	Rows      int                  `json:"rows"`
	Dropped   int                  `json:"dropped"`
	Schema    domain.Schema        `json:"schema"`
	Options   domain.FilterOptions `json:"options"`
}

// Upload parses a ledger and makes it the session's current ledger.
// A chart of accounts already attached to the session is kept.
func (uc *DashboardUseCase) Upload(ctx context.Context, input UploadInput) (*UploadResult, error) {
	start := time.Now()

	table, err := uc.parser.ParseLedger(input.FileName, input.Data)
	if err != nil {
		uc.countUpload("ledger", err)
		return nil, err
	}

	session, err := uc.sessionOrNew(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}
	session.FileName = strings.TrimSpace(input.FileName)
	session.UploadedAt = uc.now()
	session.Ledger = table

	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	uc.countUpload("ledger", nil)
	if uc.metrics != nil {
		uc.metrics.RowsLoaded.Add(float64(len(table.Rows)))
		uc.metrics.RowsDropped.Add(float64(table.Dropped))
		uc.metrics.UploadBytes.Observe(float64(len(input.Data)))
		uc.metrics.PipelineDuration.WithLabelValues("upload").Observe(time.Since(start).Seconds())
	}

	return &UploadResult{
		SessionID: session.ID,
		FileName:  session.FileName,
		Rows:      len(table.Rows),
		Dropped:   table.Dropped,
		Schema:    table.Schema,
		Options:   domain.Options(uc.resolve(session)),
	}, nil
}

// ChartResult summarizes a chart-of-accounts upload.
type ChartResult struct {
	SessionID string `json:"session_id"`
	Codes     int    `json:"codes"`
}

// UploadChartOfAccounts attaches a code-to-name chart to the session.
// It may be sent before or after the ledger.
func (uc *DashboardUseCase) UploadChartOfAccounts(ctx context.Context, input UploadInput) (*ChartResult, error) {
	chart, err := uc.parser.ParseChart(input.FileName, input.Data)
	if err != nil {
		uc.countUpload("chart", err)
		return nil, err
	}

	session, err := uc.sessionOrNew(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}
	session.Chart = chart

	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	uc.countUpload("chart", nil)
	if uc.metrics != nil {
		uc.metrics.ChartAccounts.Add(float64(chart.Len()))
	}

	return &ChartResult{SessionID: session.ID, Codes: chart.Len()}, nil
}

// Discard forgets everything uploaded in a session.
func (uc *DashboardUseCase) Discard(ctx context.Context, sessionID string) error {
	return uc.sessions.Delete(ctx, sessionID)
}

// Options returns the filter choices for the session's ledger.
func (uc *DashboardUseCase) Options(ctx context.Context, sessionID string) (*domain.FilterOptions, error) {
	session, err := uc.ledgerSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	opts := domain.Options(uc.resolve(session))
	return &opts, nil
}

// Dashboard computes the metrics and chart series of a filtered view.
func (uc *DashboardUseCase) Dashboard(ctx context.Context, sessionID string, filter domain.Filter) (*presenter.Dashboard, error) {
	defer uc.observe("dashboard", time.Now())

	table, rows, err := uc.view(ctx, sessionID, filter)
	if err != nil {
		return nil, err
	}
	report := domain.BuildReport(rows, uc.accounts, table.Schema.HasGroup)
	return presenter.NewDashboard(report, uc.accounts), nil
}

// Report computes the raw aggregates of a filtered view.
func (uc *DashboardUseCase) Report(ctx context.Context, sessionID string, filter domain.Filter) (*domain.Report, error) {
	table, rows, err := uc.view(ctx, sessionID, filter)
	if err != nil {
		return nil, err
	}
	return domain.BuildReport(rows, uc.accounts, table.Schema.HasGroup), nil
}

// Pivot builds the account-by-month table of a filtered view.
func (uc *DashboardUseCase) Pivot(ctx context.Context, sessionID string, filter domain.Filter, withGrandTotal bool) (*domain.Pivot, error) {
	defer uc.observe("pivot", time.Now())

	_, rows, err := uc.view(ctx, sessionID, filter)
	if err != nil {
		return nil, err
	}
	return domain.BuildPivot(rows, withGrandTotal), nil
}

// RowsInput represents a page request over the filtered rows.
type RowsInput struct {
	Filter domain.Filter
	Limit  int
	Offset int
}

// RowsPage is one page of filtered rows ordered by amount descending.
type RowsPage struct {
	Rows   []domain.Row `json:"rows"`
	Total  int          `json:"total"`
	Limit  int          `json:"limit"`
	Offset int          `json:"offset"`
}

// Rows lists filtered rows, largest amount first.
func (uc *DashboardUseCase) Rows(ctx context.Context, sessionID string, input RowsInput) (*RowsPage, error) {
	_, rows, err := uc.view(ctx, sessionID, input.Filter)
	if err != nil {
		return nil, err
	}

	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)
	sorted := domain.SortByAmountDesc(rows)

	page := &RowsPage{Rows: []domain.Row{}, Total: len(sorted), Limit: limit, Offset: offset}
	if offset < len(sorted) {
		end := offset + limit
		if end > len(sorted) {
			end = len(sorted)
		}
		page.Rows = sorted[offset:end]
	}
	return page, nil
}

// ExportInput represents a pivot download request.
type ExportInput struct {
	Filter         domain.Filter
	Format         presenter.ExportFormat
	WithGrandTotal bool
}

// ExportResult is a rendered pivot file.
type ExportResult struct {
	FileName    string
	ContentType string
	Data        []byte
}

// Export renders the pivot of a filtered view as a downloadable file.
func (uc *DashboardUseCase) Export(ctx context.Context, sessionID string, input ExportInput) (*ExportResult, error) {
	defer uc.observe("export", time.Now())

	pivot, err := uc.Pivot(ctx, sessionID, input.Filter, input.WithGrandTotal)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := presenter.WritePivot(&buf, pivot, input.Format); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.Exports.WithLabelValues(string(input.Format)).Inc()
	}

	return &ExportResult{
		FileName:    "pivot" + input.Format.Extension(),
		ContentType: input.Format.ContentType(),
		Data:        buf.Bytes(),
	}, nil
}

// Check verifies that the aggregates of a filtered view agree.
func (uc *DashboardUseCase) Check(ctx context.Context, sessionID string, filter domain.Filter) (*ConsistencyReport, error) {
	_, rows, err := uc.view(ctx, sessionID, filter)
	if err != nil {
		return nil, err
	}
	return CheckConsistency(rows)
}

// view loads the session's ledger, joins the chart and applies filter.
func (uc *DashboardUseCase) view(ctx context.Context, sessionID string, filter domain.Filter) (*domain.Table, []domain.Row, error) {
	if err := filter.Validate(); err != nil {
		return nil, nil, err
	}
	if err := domain.ValidateSearchText(filter.Account); err != nil {
		return nil, nil, err
	}

	session, err := uc.ledgerSession(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}

	table := uc.resolve(session)
	return table, filter.WithDefaults(table).Apply(table), nil
}

// resolve returns the session's ledger with account names joined from the chart.
func (uc *DashboardUseCase) resolve(session *domain.Session) *domain.Table {
	if !session.Ledger.Schema.HasCode {
		return session.Ledger
	}
	resolved := *session.Ledger
	resolved.Rows = session.Chart.Resolve(session.Ledger.Rows)
	return &resolved
}

func (uc *DashboardUseCase) ledgerSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	if sessionID == "" {
		return nil, domain.ErrSessionNotFound
	}
	session, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.HasLedger() {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

func (uc *DashboardUseCase) sessionOrNew(ctx context.Context, sessionID string) (*domain.Session, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("%w: missing session id", domain.ErrSessionNotFound)
	}
	session, err := uc.sessions.Get(ctx, sessionID)
	switch {
	case err == nil:
		return session, nil
	case errors.Is(err, domain.ErrSessionNotFound):
		return &domain.Session{ID: sessionID}, nil
	default:
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
}

func (uc *DashboardUseCase) countUpload(kind string, err error) {
	if uc.metrics == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "rejected"
	}
	uc.metrics.Uploads.WithLabelValues(kind, outcome).Inc()
}

func (uc *DashboardUseCase) observe(operation string, start time.Time) {
	if uc.metrics != nil {
		uc.metrics.PipelineDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}
}
