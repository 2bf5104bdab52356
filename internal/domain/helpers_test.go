package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

func mustDate(s string) time.Time {
	t, err := time.Parse("02/01/2006", s)
	if err != nil {
		panic(err)
	}
	return t
}

func newRow(date, amount, account, group string) Row {
	d := mustDate(date)
	r := Row{
		Date:         d,
		Month:        MonthKey(d),
		AccountName:  account,
		AccountGroup: group,
	}
	if amount != "" {
		r.Amount = decimal.NewNullDecimal(decimal.RequireFromString(amount))
	}
	return r
}

// scenarioRows is the three-row example used across the aggregate tests.
func scenarioRows() []Row {
	return []Row{
		newRow("01/02/2024", "1000.00", "Receita Vendas ML", "Receitas"),
		newRow("05/02/2024", "-300.00", "Compras de Mercadoria para Revenda", "Custos"),
		newRow("10/03/2024", "500.00", "Receita Vendas ML", "Receitas"),
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
