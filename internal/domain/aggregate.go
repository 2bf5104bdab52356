package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// DefaultTopN is the number of outflow accounts ranked on the dashboard.
const DefaultTopN = 5

// AccountTotal is the summed amount of one account.
type AccountTotal struct {
	Account string          `json:"account"`
	Amount  decimal.Decimal `json:"amount"`
}

// Split holds the signed totals of a ledger.
// Saidas is reported as a magnitude.
type Split struct {
	Entradas decimal.Decimal `json:"entradas"`
	Saidas   decimal.Decimal `json:"saidas"`
	Saldo    decimal.Decimal `json:"saldo"`
}

// MonthlyFlow holds inflow and outflow magnitudes for one month.
type MonthlyFlow struct {
	Month    string          `json:"month"`
	Entradas decimal.Decimal `json:"entradas"`
	Saidas   decimal.Decimal `json:"saidas"`
}

// WaterfallStep is one month of net movement on top of the running balance.
type WaterfallStep struct {
	Month string          `json:"month"`
	Delta decimal.Decimal `json:"delta"`
	Start decimal.Decimal `json:"start"`
	End   decimal.Decimal `json:"end"`
}

// Share is one slice of a pie chart.
type Share struct {
	Label   string          `json:"label"`
	Amount  decimal.Decimal `json:"amount"`
	Percent decimal.Decimal `json:"percent"`
}

// Total sums every row amount. Rows without an amount are skipped.
func Total(rows []Row) decimal.Decimal {
	sum := decimal.Zero
	for _, r := range rows {
		if r.HasAmount() {
			sum = sum.Add(r.Amount.Decimal)
		}
	}
	return sum
}

// SignedSplit computes Entradas, Saídas and Saldo.
// Saldo equals the signed sum of every row.
func SignedSplit(rows []Row) Split {
	var s Split
	saidas := decimal.Zero
	for _, r := range rows {
		if !r.HasAmount() {
			continue
		}
		switch amt := r.Amount.Decimal; {
		case amt.IsPositive():
			s.Entradas = s.Entradas.Add(amt)
		case amt.IsNegative():
			saidas = saidas.Add(amt)
		}
	}
	s.Saldo = s.Entradas.Add(saidas)
	s.Saidas = saidas.Abs()
	return s
}

// SumByAccount groups rows by account name and sums amounts.
// The result is ordered by account name.
func SumByAccount(rows []Row) []AccountTotal {
	return sumBy(rows, func(r Row) string { return r.AccountName }, nil)
}

// InflowsByAccount sums positive amounts per account.
func InflowsByAccount(rows []Row) []AccountTotal {
	return sumBy(rows, func(r Row) string { return r.AccountName }, decimal.Decimal.IsPositive)
}

// AccountSum sums the amounts booked to a single account.
func AccountSum(rows []Row, account string) decimal.Decimal {
	sum := decimal.Zero
	for _, r := range rows {
		if r.HasAmount() && r.AccountName == account {
			sum = sum.Add(r.Amount.Decimal)
		}
	}
	return sum
}

// TopOutflows ranks accounts by outflow magnitude and keeps the n largest.
// The result is ordered ascending, smallest of the selection first, with
// ties broken by account name.
func TopOutflows(rows []Row, n int) []AccountTotal {
	if n <= 0 {
		n = DefaultTopN
	}
	totals := sumBy(rows, func(r Row) string { return r.AccountName }, decimal.Decimal.IsNegative)
	for i := range totals {
		totals[i].Amount = totals[i].Amount.Abs()
	}

	sort.SliceStable(totals, func(i, j int) bool {
		if c := totals[i].Amount.Cmp(totals[j].Amount); c != 0 {
			return c > 0
		}
		return totals[i].Account < totals[j].Account
	})
	if len(totals) > n {
		totals = totals[:n]
	}

	for i, j := 0, len(totals)-1; i < j; i, j = i+1, j-1 {
		totals[i], totals[j] = totals[j], totals[i]
	}
	return totals
}

// MonthlyFlows returns inflow and outflow magnitudes per month, ascending.
func MonthlyFlows(rows []Row) []MonthlyFlow {
	byMonth := make(map[string]*MonthlyFlow)
	for _, r := range rows {
		if !r.HasAmount() || r.Amount.Decimal.IsZero() {
			continue
		}
		f, ok := byMonth[r.Month]
		if !ok {
			f = &MonthlyFlow{Month: r.Month}
			byMonth[r.Month] = f
		}
		if r.Amount.Decimal.IsPositive() {
			f.Entradas = f.Entradas.Add(r.Amount.Decimal)
		} else {
			f.Saidas = f.Saidas.Add(r.Amount.Decimal.Abs())
		}
	}

	out := make([]MonthlyFlow, 0, len(byMonth))
	for _, month := range sortedKeys(byMonth) {
		out = append(out, *byMonth[month])
	}
	return out
}

// Waterfall returns the monthly net movement stacked on a running balance.
func Waterfall(rows []Row) []WaterfallStep {
	net := make(map[string]decimal.Decimal)
	for _, r := range rows {
		if r.HasAmount() {
			net[r.Month] = net[r.Month].Add(r.Amount.Decimal)
		}
	}

	steps := make([]WaterfallStep, 0, len(net))
	running := decimal.Zero
	for _, month := range sortedKeys(net) {
		delta := net[month]
		steps = append(steps, WaterfallStep{
			Month: month,
			Delta: delta,
			Start: running,
			End:   running.Add(delta),
		})
		running = running.Add(delta)
	}
	return steps
}

// OutflowShares splits outflow magnitude by account group, or by account
// name when the ledger has no group column. Ordered by amount descending.
func OutflowShares(rows []Row, byGroup bool) []Share {
	label := func(r Row) string { return r.AccountName }
	if byGroup {
		label = func(r Row) string { return r.AccountGroup }
	}
	totals := sumBy(rows, label, decimal.Decimal.IsNegative)

	grand := decimal.Zero
	for i := range totals {
		totals[i].Amount = totals[i].Amount.Abs()
		grand = grand.Add(totals[i].Amount)
	}

	shares := make([]Share, 0, len(totals))
	for _, t := range totals {
		pct := decimal.Zero
		if !grand.IsZero() {
			pct = t.Amount.Div(grand).Mul(decimal.NewFromInt(100))
		}
		shares = append(shares, Share{Label: t.Account, Amount: t.Amount, Percent: pct})
	}
	sort.SliceStable(shares, func(i, j int) bool {
		return shares[i].Amount.GreaterThan(shares[j].Amount)
	})
	return shares
}

// SortByAmountDesc returns a copy of rows ordered by amount, largest first.
// Rows without an amount go last.
func SortByAmountDesc(rows []Row) []Row {
	out := make([]Row, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.HasAmount() != b.HasAmount() {
			return a.HasAmount()
		}
		return a.Amount.Decimal.GreaterThan(b.Amount.Decimal)
	})
	return out
}

// sumBy groups rows by key and sums amounts accepted by sign (nil accepts all).
func sumBy(rows []Row, key func(Row) string, sign func(decimal.Decimal) bool) []AccountTotal {
	sums := make(map[string]decimal.Decimal)
	for _, r := range rows {
		if !r.HasAmount() {
			continue
		}
		if sign != nil && !sign(r.Amount.Decimal) {
			continue
		}
		k := key(r)
		sums[k] = sums[k].Add(r.Amount.Decimal)
	}

	out := make([]AccountTotal, 0, len(sums))
	for _, k := range sortedKeys(sums) {
		out = append(out, AccountTotal{Account: k, Amount: sums[k]})
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func distinctSorted(rows []Row, key func(Row) string) []string {
	seen := make(map[string]struct{})
	for _, r := range rows {
		if k := key(r); k != "" {
			seen[k] = struct{}{}
		}
	}
	return sortedKeys(seen)
}
