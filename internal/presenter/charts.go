package presenter

import (
	"github.com/shopspring/decimal"

	"github.com/iho/ledgerdash/internal/domain"
)

// Series is one named line, bar set or pie of a chart.
type Series struct {
	Name   string            `json:"name"`
	Values []decimal.Decimal `json:"values"`
}

// Chart is a chart-ready dataset: one label per point, one or more series.
type Chart struct {
	Title  string   `json:"title"`
	Kind   string   `json:"kind"`
	Labels []string `json:"labels"`
	Series []Series `json:"series"`
}

// Empty reports whether the chart has nothing to draw.
func (c Chart) Empty() bool {
	return len(c.Labels) == 0
}

// Chart kinds.
const (
	KindBar          = "bar"
	KindHorizontal   = "horizontal_bar"
	KindLine         = "line"
	KindPie          = "pie"
	KindWaterfall    = "waterfall"
	KindGroupedBar   = "grouped_bar"
	KindCombinedLine = "bar_line"
)

// AccountBars charts one bar per account.
func AccountBars(title, kind string, totals []domain.AccountTotal) Chart {
	c := Chart{Title: title, Kind: kind}
	values := make([]decimal.Decimal, 0, len(totals))
	for _, t := range totals {
		c.Labels = append(c.Labels, t.Account)
		values = append(values, t.Amount)
	}
	c.Series = []Series{{Name: "Valor", Values: values}}
	return c
}

// MonthlyFlowChart charts Entradas and Saídas side by side per month.
func MonthlyFlowChart(flows []domain.MonthlyFlow) Chart {
	c := Chart{Title: "Entradas vs Saídas por Mês", Kind: KindGroupedBar}
	in := Series{Name: "Entradas"}
	out := Series{Name: "Saídas"}
	for _, f := range flows {
		c.Labels = append(c.Labels, f.Month)
		in.Values = append(in.Values, f.Entradas)
		out.Values = append(out.Values, f.Saidas)
	}
	c.Series = []Series{in, out}
	return c
}

// ContributionChart charts the monthly adjusted contribution margin.
func ContributionChart(points []domain.ContributionPoint) Chart {
	c := Chart{Title: "Margem de Contribuição Ajustada", Kind: KindLine}
	s := Series{Name: "Margem"}
	for _, p := range points {
		c.Labels = append(c.Labels, p.Month)
		s.Values = append(s.Values, p.Contribution)
	}
	c.Series = []Series{s}
	return c
}

// RevenueTaxChart charts revenue as bars against tax as a line.
func RevenueTaxChart(points []domain.RevenueTaxPoint) Chart {
	c := Chart{Title: "Receita vs Impostos", Kind: KindCombinedLine}
	rev := Series{Name: "Receita"}
	tax := Series{Name: "Impostos"}
	for _, p := range points {
		c.Labels = append(c.Labels, p.Month)
		rev.Values = append(rev.Values, p.Revenue)
		tax.Values = append(tax.Values, p.Tax)
	}
	c.Series = []Series{rev, tax}
	return c
}

// WaterfallChart charts monthly deltas with their starting offsets.
func WaterfallChart(steps []domain.WaterfallStep) Chart {
	c := Chart{Title: "Evolução do Saldo", Kind: KindWaterfall}
	base := Series{Name: "Início"}
	delta := Series{Name: "Variação"}
	for _, s := range steps {
		c.Labels = append(c.Labels, s.Month)
		base.Values = append(base.Values, s.Start)
		delta.Values = append(delta.Values, s.Delta)
	}
	c.Series = []Series{base, delta}
	return c
}

// ShareChart charts a pie of outflow shares, in percent.
func ShareChart(shares []domain.Share) Chart {
	c := Chart{Title: "Distribuição das Saídas", Kind: KindPie}
	s := Series{Name: "Percentual"}
	for _, sh := range shares {
		c.Labels = append(c.Labels, sh.Label)
		s.Values = append(s.Values, sh.Percent.Round(2))
	}
	c.Series = []Series{s}
	return c
}
