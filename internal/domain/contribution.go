package domain

import "github.com/shopspring/decimal"

// ContributionPoint is the adjusted contribution margin of one month.
type ContributionPoint struct {
	Month        string          `json:"month"`
	Revenue      decimal.Decimal `json:"revenue"`
	Costs        decimal.Decimal `json:"costs"`
	Contribution decimal.Decimal `json:"contribution"`
}

// RevenueTaxPoint compares revenue against the magnitude of a tax account.
type RevenueTaxPoint struct {
	Month   string          `json:"month"`
	Revenue decimal.Decimal `json:"revenue"`
	Tax     decimal.Decimal `json:"tax"`
}

// Contribution computes, per month present in rows,
//
//	sum(revenue accounts) - (|sum(cost_1)| + ... + |sum(cost_n)|)
//
// Each cost account is summed for the month first and its magnitude taken,
// so costs booked with either sign reduce the margin. Accounts absent from
// the ledger contribute zero.
func Contribution(rows []Row, revenueAccounts, costAccounts []string) []ContributionPoint {
	revenue := toSet(revenueAccounts)
	cost := toSet(costAccounts)

	revByMonth := make(map[string]decimal.Decimal)
	costByMonth := make(map[string]map[string]decimal.Decimal)
	months := make(map[string]struct{})
	for _, r := range rows {
		if !r.HasAmount() {
			continue
		}
		months[r.Month] = struct{}{}
		if _, ok := revenue[r.AccountName]; ok {
			revByMonth[r.Month] = revByMonth[r.Month].Add(r.Amount.Decimal)
		}
		if _, ok := cost[r.AccountName]; ok {
			if costByMonth[r.Month] == nil {
				costByMonth[r.Month] = make(map[string]decimal.Decimal)
			}
			costByMonth[r.Month][r.AccountName] = costByMonth[r.Month][r.AccountName].Add(r.Amount.Decimal)
		}
	}

	out := make([]ContributionPoint, 0, len(months))
	for _, m := range sortedKeys(months) {
		costs := decimal.Zero
		for _, sum := range costByMonth[m] {
			costs = costs.Add(sum.Abs())
		}
		rev := revByMonth[m]
		out = append(out, ContributionPoint{
			Month:        m,
			Revenue:      rev,
			Costs:        costs,
			Contribution: rev.Sub(costs),
		})
	}
	return out
}

// RevenueVsTax pairs monthly revenue with the monthly tax magnitude. Months
// where only one side has activity get zero on the other.
func RevenueVsTax(rows []Row, revenueAccounts []string, taxAccount string) []RevenueTaxPoint {
	revenue := toSet(revenueAccounts)
	points := make(map[string]*RevenueTaxPoint)
	get := func(month string) *RevenueTaxPoint {
		p, ok := points[month]
		if !ok {
			p = &RevenueTaxPoint{Month: month, Revenue: decimal.Zero, Tax: decimal.Zero}
			points[month] = p
		}
		return p
	}

	for _, r := range rows {
		if !r.HasAmount() {
			continue
		}
		if _, ok := revenue[r.AccountName]; ok {
			p := get(r.Month)
			p.Revenue = p.Revenue.Add(r.Amount.Decimal)
		}
		if r.AccountName == taxAccount {
			p := get(r.Month)
			p.Tax = p.Tax.Add(r.Amount.Decimal.Abs())
		}
	}

	out := make([]RevenueTaxPoint, 0, len(points))
	for _, m := range sortedKeys(points) {
		out = append(out, *points[m])
	}
	return out
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
