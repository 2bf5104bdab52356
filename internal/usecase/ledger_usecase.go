package usecase

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/iho/ledgerdash/internal/domain"
)

var (
	// ErrInconsistentLedger is returned when aggregates of one view disagree.
	ErrInconsistentLedger = errors.New("ledger aggregates are inconsistent")
)

// ConsistencyReport holds the totals compared by CheckConsistency.
type ConsistencyReport struct {
	Total      decimal.Decimal `json:"total"`
	Saldo      decimal.Decimal `json:"saldo"`
	PivotTotal decimal.Decimal `json:"pivot_total"`
	Accounts   decimal.Decimal `json:"accounts_total"`
	Waterfall  decimal.Decimal `json:"waterfall_end"`
}

// CheckConsistency verifies that every aggregate of rows sums to the same total.
func CheckConsistency(rows []domain.Row) (*ConsistencyReport, error) {
	report := &ConsistencyReport{
		Total: domain.Total(rows),
		Saldo: domain.SignedSplit(rows).Saldo,
	}

	pivot := domain.BuildPivot(rows, true)
	if pivot.GrandTotal != nil {
		report.PivotTotal = pivot.GrandTotal.Total
	}
	for _, t := range domain.SumByAccount(rows) {
		report.Accounts = report.Accounts.Add(t.Amount)
	}
	if steps := domain.Waterfall(rows); len(steps) > 0 {
		report.Waterfall = steps[len(steps)-1].End
	}

	checks := []struct {
		name  string
		value decimal.Decimal
	}{
		{"saldo", report.Saldo},
		{"pivot grand total", report.PivotTotal},
		{"account totals", report.Accounts},
		{"waterfall end", report.Waterfall},
	}
	for _, c := range checks {
		if !c.value.Equal(report.Total) {
			return report, fmt.Errorf("%w: %s %s != total %s", ErrInconsistentLedger, c.name, c.value, report.Total)
		}
	}

	return report, nil
}
