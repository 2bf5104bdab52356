package presenter

import (
	"github.com/shopspring/decimal"

	"github.com/iho/ledgerdash/internal/domain"
)

// Metric is a headline number with its display string.
type Metric struct {
	Label   string          `json:"label"`
	Value   decimal.Decimal `json:"value"`
	Display string          `json:"display"`
}

func newMetric(label string, v decimal.Decimal) Metric {
	return Metric{Label: label, Value: v, Display: FormatCurrency(v)}
}

// Dashboard is the complete view model of the dashboard page.
type Dashboard struct {
	HasData bool     `json:"has_data"`
	Rows    int      `json:"rows"`
	Metrics []Metric `json:"metrics"`
	Charts  []Chart  `json:"charts"`
}

// NewDashboard builds the dashboard view of a report.
func NewDashboard(r *domain.Report, accounts domain.NamedAccounts) *Dashboard {
	d := &Dashboard{
		HasData: r.HasData(),
		Rows:    r.RowCount,
		Metrics: []Metric{
			newMetric("Entradas", r.Split.Entradas),
			newMetric("Saídas", r.Split.Saidas),
			newMetric("Saldo", r.Split.Saldo),
			newMetric(accounts.Purchases, r.Purchases),
			newMetric(accounts.Tax, r.Tax),
		},
	}
	if !d.HasData {
		return d
	}

	d.Charts = []Chart{
		AccountBars("Maiores Saídas por Conta", KindHorizontal, r.TopOutflows),
		AccountBars("Entradas por Conta", KindBar, r.Inflows),
		MonthlyFlowChart(r.MonthlyFlows),
		ContributionChart(r.Contribution),
		RevenueTaxChart(r.RevenueTax),
		WaterfallChart(r.Waterfall),
		ShareChart(r.Shares),
	}
	return d
}
