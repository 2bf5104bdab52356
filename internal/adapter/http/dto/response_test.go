package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/ledgerdash/internal/domain"
)

func TestFiltersFromDomain(t *testing.T) {
	resp := FiltersFromDomain(&domain.FilterOptions{
		MinDate:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		MaxDate:      time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
		Groups:       []string{"Custos", "Receitas"},
		GroupEnabled: true,
	})

	if resp.MinDate != "2024-01-01" || resp.MaxDate != "2024-03-31" {
		t.Fatalf("unexpected dates %s..%s", resp.MinDate, resp.MaxDate)
	}
	if len(resp.Groups) != 3 || resp.Groups[0] != domain.AllGroups {
		t.Fatalf("expected all-groups choice first, got %v", resp.Groups)
	}

	disabled := FiltersFromDomain(&domain.FilterOptions{})
	if disabled.GroupEnabled || len(disabled.Groups) != 0 {
		t.Fatalf("expected disabled group control, got %+v", disabled)
	}
}

func TestPivotFromDomain(t *testing.T) {
	pivot := &domain.Pivot{
		Months: []string{"2024-02"},
		Rows: []domain.PivotRow{
			{Account: "A", Values: []decimal.Decimal{decimal.NewFromInt(1234)}, Total: decimal.NewFromInt(1234)},
		},
		GrandTotal: &domain.PivotRow{Account: domain.GrandTotalLabel, Values: []decimal.Decimal{decimal.NewFromInt(1234)}, Total: decimal.NewFromInt(1234)},
	}

	resp := PivotFromDomain(pivot)

	if !resp.HasData || resp.Rows[0].Display[0] != "1.234,00" || resp.Rows[0].TotalDisplay != "1.234,00" {
		t.Fatalf("unexpected response %+v", resp)
	}
	if resp.GrandTotal == nil || resp.GrandTotal.Account != domain.GrandTotalLabel {
		t.Fatalf("expected grand total row")
	}

	empty := PivotFromDomain(&domain.Pivot{GrandTotal: &domain.PivotRow{Account: domain.GrandTotalLabel}})
	if empty.HasData || empty.GrandTotal != nil || empty.Months == nil {
		t.Fatalf("expected empty pivot without grand total, got %+v", empty)
	}
}

func TestRowFromDomainMissingAmount(t *testing.T) {
	resp := RowFromDomain(domain.Row{
		Date:        time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC),
		Month:       "2024-02",
		AccountName: "Sem valor",
	})

	if resp.Amount != nil || resp.AmountDisplay != "" {
		t.Fatalf("expected missing amount, got %+v", resp)
	}
	if resp.Date != "05/02/2024" {
		t.Fatalf("unexpected date %s", resp.Date)
	}

	raw, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded["amount"] != nil {
		t.Fatalf("expected null amount, got %v", decoded["amount"])
	}
}
