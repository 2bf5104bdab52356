package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// GrandTotalLabel is the account label of the column-sum row.
const GrandTotalLabel = "Total Geral"

// PivotRow is one account's month-by-month sums.
// Values is aligned with Pivot.Months.
type PivotRow struct {
	Account string            `json:"account"`
	Values  []decimal.Decimal `json:"values"`
	Total   decimal.Decimal   `json:"total"`
}

// Pivot is an account × month matrix of summed amounts.
type Pivot struct {
	Months     []string   `json:"months"`
	Rows       []PivotRow `json:"rows"`
	GrandTotal *PivotRow  `json:"grand_total,omitempty"`
}

// Empty reports whether the pivot has no accounts.
func (p *Pivot) Empty() bool {
	return len(p.Rows) == 0
}

// BuildPivot reshapes rows into one row per account and one column per month.
// Missing combinations are zero. Rows are ordered by Total descending, ties by
// account name. When withGrandTotal is set a column-sum row is attached.
func BuildPivot(rows []Row, withGrandTotal bool) *Pivot {
	cells := make(map[string]map[string]decimal.Decimal)
	months := make(map[string]struct{})
	for _, r := range rows {
		if !r.HasAmount() {
			continue
		}
		byMonth, ok := cells[r.AccountName]
		if !ok {
			byMonth = make(map[string]decimal.Decimal)
			cells[r.AccountName] = byMonth
		}
		byMonth[r.Month] = byMonth[r.Month].Add(r.Amount.Decimal)
		months[r.Month] = struct{}{}
	}

	p := &Pivot{Months: sortedKeys(months)}
	for _, account := range sortedKeys(cells) {
		row := PivotRow{Account: account, Values: make([]decimal.Decimal, len(p.Months)), Total: decimal.Zero}
		for i, m := range p.Months {
			v := cells[account][m]
			row.Values[i] = v
			row.Total = row.Total.Add(v)
		}
		p.Rows = append(p.Rows, row)
	}

	sort.SliceStable(p.Rows, func(i, j int) bool {
		if c := p.Rows[i].Total.Cmp(p.Rows[j].Total); c != 0 {
			return c > 0
		}
		return p.Rows[i].Account < p.Rows[j].Account
	})

	if withGrandTotal {
		p.GrandTotal = p.columnSums()
	}
	return p
}

func (p *Pivot) columnSums() *PivotRow {
	grand := &PivotRow{Account: GrandTotalLabel, Values: make([]decimal.Decimal, len(p.Months)), Total: decimal.Zero}
	for i := range grand.Values {
		grand.Values[i] = decimal.Zero
	}
	for _, row := range p.Rows {
		for i, v := range row.Values {
			grand.Values[i] = grand.Values[i].Add(v)
		}
		grand.Total = grand.Total.Add(row.Total)
	}
	return grand
}
