package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/ledgerdash/internal/domain"
	"github.com/iho/ledgerdash/internal/presenter"
)

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// FiltersResponse represents the filter controls of a ledger.
type FiltersResponse struct {
	MinDate      string   `json:"min_date"`
	MaxDate      string   `json:"max_date"`
	Groups       []string `json:"groups"`
	GroupEnabled bool     `json:"group_enabled"`
	Default      string   `json:"default_group"`
}

// FiltersFromDomain converts filter options to a response. The all-groups
// choice is listed first.
func FiltersFromDomain(o *domain.FilterOptions) *FiltersResponse {
	resp := &FiltersResponse{
		MinDate:      formatDay(o.MinDate),
		MaxDate:      formatDay(o.MaxDate),
		Groups:       []string{},
		GroupEnabled: o.GroupEnabled,
		Default:      domain.AllGroups,
	}
	if o.GroupEnabled {
		resp.Groups = append([]string{domain.AllGroups}, o.Groups...)
	}
	return resp
}

// PivotRowResponse represents one account line of the pivot.
type PivotRowResponse struct {
	Account      string            `json:"account"`
	Values       []decimal.Decimal `json:"values"`
	Display      []string          `json:"display"`
	Total        decimal.Decimal   `json:"total"`
	TotalDisplay string            `json:"total_display"`
}

// PivotResponse represents the account-by-month table.
type PivotResponse struct {
	HasData    bool               `json:"has_data"`
	Months     []string           `json:"months"`
	Rows       []PivotRowResponse `json:"rows"`
	GrandTotal *PivotRowResponse  `json:"grand_total,omitempty"`
}

func pivotRowFromDomain(r domain.PivotRow) PivotRowResponse {
	resp := PivotRowResponse{
		Account:      r.Account,
		Values:       r.Values,
		Display:      make([]string, len(r.Values)),
		Total:        r.Total,
		TotalDisplay: presenter.FormatBRL(r.Total),
	}
	for i, v := range r.Values {
		resp.Display[i] = presenter.FormatBRL(v)
	}
	return resp
}

// PivotFromDomain converts a pivot to a response.
func PivotFromDomain(p *domain.Pivot) *PivotResponse {
	resp := &PivotResponse{
		HasData: !p.Empty(),
		Months:  p.Months,
		Rows:    make([]PivotRowResponse, len(p.Rows)),
	}
	if resp.Months == nil {
		resp.Months = []string{}
	}
	for i, r := range p.Rows {
		resp.Rows[i] = pivotRowFromDomain(r)
	}
	if p.GrandTotal != nil && resp.HasData {
		gt := pivotRowFromDomain(*p.GrandTotal)
		resp.GrandTotal = &gt
	}
	return resp
}

// RowResponse represents one ledger entry.
type RowResponse struct {
	Date          string           `json:"date"`
	Month         string           `json:"month"`
	Amount        *decimal.Decimal `json:"amount"`
	AmountDisplay string           `json:"amount_display"`
	AccountName   string           `json:"account_name"`
	AccountGroup  string           `json:"account_group,omitempty"`
	AccountCode   string           `json:"account_code,omitempty"`
	Description   string           `json:"description,omitempty"`
	Line          int              `json:"line"`
}

// RowsResponse represents a page of ledger entries.
type RowsResponse struct {
	HasData bool          `json:"has_data"`
	Rows    []RowResponse `json:"rows"`
	Total   int           `json:"total"`
	Limit   int           `json:"limit"`
	Offset  int           `json:"offset"`
}

// RowFromDomain converts a ledger row to a response.
func RowFromDomain(r domain.Row) RowResponse {
	resp := RowResponse{
		Date:         presenter.FormatDate(r.Date),
		Month:        r.Month,
		AccountName:  r.AccountName,
		AccountGroup: r.AccountGroup,
		AccountCode:  r.AccountCode,
		Description:  r.Description,
		Line:         r.Line,
	}
	if r.HasAmount() {
		amount := r.Amount.Decimal
		resp.Amount = &amount
		resp.AmountDisplay = presenter.FormatBRL(amount)
	}
	return resp
}

// RowsFromDomain converts a rows page to a response.
func RowsFromDomain(rows []domain.Row, total, limit, offset int) *RowsResponse {
	resp := &RowsResponse{
		HasData: total > 0,
		Rows:    make([]RowResponse, len(rows)),
		Total:   total,
		Limit:   limit,
		Offset:  offset,
	}
	for i, r := range rows {
		resp.Rows[i] = RowFromDomain(r)
	}
	return resp
}

// UploadResponse represents the outcome of a ledger upload.
type UploadResponse struct {
	SessionID string           `json:"session_id"`
	FileName  string           `json:"file_name"`
	Rows      int              `json:"rows"`
	Dropped   int              `json:"dropped"`
	Schema    domain.Schema    `json:"schema"`
	Filters   *FiltersResponse `json:"filters"`
}

// ChartUploadResponse represents the outcome of a chart-of-accounts upload.
type ChartUploadResponse struct {
	SessionID string `json:"session_id"`
	Codes     int    `json:"codes"`
}

func formatDay(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.DateOnly)
}
