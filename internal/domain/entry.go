package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// UnknownAccountLabel names rows whose account code has no match in the chart of accounts.
const UnknownAccountLabel = "Conta não encontrada"

// Row represents a single normalized ledger entry.
type Row struct {
	Date         time.Time           `json:"date"`
	Month        string              `json:"month"`
	Amount       decimal.NullDecimal `json:"amount"`
	AccountName  string              `json:"account_name"`
	AccountGroup string              `json:"account_group,omitempty"`
	AccountCode  string              `json:"account_code,omitempty"`
	Description  string              `json:"description,omitempty"`
	Line         int                 `json:"line"`
}

// HasAmount reports whether the row carries a parsed amount.
func (r Row) HasAmount() bool {
	return r.Amount.Valid
}

// Schema records which optional logical columns were present in the upload.
type Schema struct {
	HasGroup       bool `json:"has_group"`
	HasCode        bool `json:"has_code"`
	HasType        bool `json:"has_type"`
	HasDescription bool `json:"has_description"`
}

// Table is a normalized ledger.
type Table struct {
	Rows    []Row  `json:"rows"`
	Schema  Schema `json:"schema"`
	Dropped int    `json:"dropped"`
}

// DateRange returns the earliest and latest row dates.
// ok is false for an empty table.
func (t *Table) DateRange() (minDate, maxDate time.Time, ok bool) {
	for i, row := range t.Rows {
		if i == 0 || row.Date.Before(minDate) {
			minDate = row.Date
		}
		if i == 0 || row.Date.After(maxDate) {
			maxDate = row.Date
		}
	}
	return minDate, maxDate, len(t.Rows) > 0
}

// MonthKey returns the "YYYY-MM" grouping key for a date.
func MonthKey(t time.Time) string {
	return fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))
}

// TruncateDay drops the clock part of t, keeping the calendar date in UTC.
func TruncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
