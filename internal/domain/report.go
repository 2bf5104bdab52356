package domain

import "github.com/shopspring/decimal"

// NamedAccounts lists the accounts the dashboard singles out by name.
type NamedAccounts struct {
	Revenue   []string `yaml:"revenue" json:"revenue"`
	Costs     []string `yaml:"costs" json:"costs"`
	Purchases string   `yaml:"purchases" json:"purchases"`
	Tax       string   `yaml:"tax" json:"tax"`
	TopN      int      `yaml:"top_n" json:"top_n"`
}

// DefaultNamedAccounts returns the accounts of the reference chart.
func DefaultNamedAccounts() NamedAccounts {
	return NamedAccounts{
		Revenue: []string{"Receita Vendas ML", "Receita Vendas SH"},
		Costs: []string{
			"Compras de Mercadoria para Revenda",
			"Impostos - DAS Simples Nacional",
			"Tarifas Marketplace",
		},
		Purchases: "Compras de Mercadoria para Revenda",
		Tax:       "Impostos - DAS Simples Nacional",
		TopN:      DefaultTopN,
	}
}

// Report is every aggregate shown on the dashboard for one filtered view.
type Report struct {
	RowCount     int                 `json:"row_count"`
	Split        Split               `json:"split"`
	Purchases    decimal.Decimal     `json:"purchases"`
	Tax          decimal.Decimal     `json:"tax"`
	TopOutflows  []AccountTotal      `json:"top_outflows"`
	Inflows      []AccountTotal      `json:"inflows"`
	MonthlyFlows []MonthlyFlow       `json:"monthly_flows"`
	Contribution []ContributionPoint `json:"contribution"`
	RevenueTax   []RevenueTaxPoint   `json:"revenue_tax"`
	Waterfall    []WaterfallStep     `json:"waterfall"`
	Shares       []Share             `json:"shares"`
}

// HasData reports whether the filtered view kept any row.
func (r *Report) HasData() bool {
	return r.RowCount > 0
}

// BuildReport aggregates filtered rows. byGroup selects group-level shares.
func BuildReport(rows []Row, accounts NamedAccounts, byGroup bool) *Report {
	return &Report{
		RowCount:     len(rows),
		Split:        SignedSplit(rows),
		Purchases:    AccountSum(rows, accounts.Purchases),
		Tax:          AccountSum(rows, accounts.Tax),
		TopOutflows:  TopOutflows(rows, accounts.TopN),
		Inflows:      InflowsByAccount(rows),
		MonthlyFlows: MonthlyFlows(rows),
		Contribution: Contribution(rows, accounts.Revenue, accounts.Costs),
		RevenueTax:   RevenueVsTax(rows, accounts.Revenue, accounts.Tax),
		Waterfall:    Waterfall(rows),
		Shares:       OutflowShares(rows, byGroup),
	}
}
