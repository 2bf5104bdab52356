package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChartOfAccounts_Resolve(t *testing.T) {
	chart := NewChartOfAccounts()
	chart.Add("101", "Receita Vendas ML")
	chart.Add("101", "ignored duplicate")
	chart.Add("", "no code")

	rows := []Row{
		{AccountCode: "101"},
		{AccountCode: "999"},
		{AccountCode: "998", AccountName: "Nome Original"},
		{AccountName: "Sem Código"},
	}

	resolved := chart.Resolve(rows)

	require.Len(t, resolved, 4)
	assert.Equal(t, 1, chart.Len())
	assert.Equal(t, "Receita Vendas ML", resolved[0].AccountName)
	assert.Equal(t, UnknownAccountLabel, resolved[1].AccountName)
	assert.Equal(t, "Nome Original", resolved[2].AccountName)
	assert.Equal(t, "Sem Código", resolved[3].AccountName)
	assert.Empty(t, rows[0].AccountName, "input must not be modified")
}

func TestChartOfAccounts_NilChart(t *testing.T) {
	var chart *ChartOfAccounts

	resolved := chart.Resolve([]Row{{AccountCode: "1"}})

	assert.Equal(t, 0, chart.Len())
	assert.Equal(t, UnknownAccountLabel, resolved[0].AccountName)
}
