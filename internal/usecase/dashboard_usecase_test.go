package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/iho/ledgerdash/internal/adapter/repository/memory"
	"github.com/iho/ledgerdash/internal/domain"
	"github.com/iho/ledgerdash/internal/infrastructure/metrics"
	"github.com/iho/ledgerdash/internal/presenter"
	"github.com/iho/ledgerdash/internal/usecase"
	"github.com/iho/ledgerdash/internal/usecase/mocks"
)

func ledgerRow(date, amount, account, group string) domain.Row {
	d, err := time.Parse("02/01/2006", date)
	if err != nil {
		panic(err)
	}
	r := domain.Row{Date: d, Month: domain.MonthKey(d), AccountName: account, AccountGroup: group}
	if amount != "" {
		r.Amount = decimal.NewNullDecimal(decimal.RequireFromString(amount))
	}
	return r
}

func scenarioTable() *domain.Table {
	return &domain.Table{
		Schema: domain.Schema{HasGroup: true},
		Rows: []domain.Row{
			ledgerRow("01/02/2024", "1000.00", "Receita Vendas ML", "Receitas"),
			ledgerRow("05/02/2024", "-300.00", "Compras de Mercadoria para Revenda", "Custos"),
			ledgerRow("10/03/2024", "500.00", "Receita Vendas ML", "Receitas"),
		},
	}
}

func newUseCase(t *testing.T, table *domain.Table) (*usecase.DashboardUseCase, *memory.SessionStore) {
	t.Helper()
	store := memory.NewSessionStore(time.Hour, nil)
	parser := &mocks.StubParser{
		ParseLedgerFunc: func(string, []byte) (*domain.Table, error) { return table, nil },
	}
	return usecase.NewDashboardUseCase(store, parser, domain.DefaultNamedAccounts(), nil), store
}

func ptr[T any](v T) *T { return &v }

func TestDashboardUseCase_UploadAndDashboard(t *testing.T) {
	uc, _ := newUseCase(t, scenarioTable())
	ctx := context.Background()

	res, err := uc.Upload(ctx, usecase.UploadInput{SessionID: "s1", FileName: "razao.xlsx", Data: []byte("x")})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Rows)
	assert.Equal(t, []string{"Custos", "Receitas"}, res.Options.Groups)
	assert.True(t, res.Options.GroupEnabled)

	d, err := uc.Dashboard(ctx, "s1", domain.Filter{})
	require.NoError(t, err)
	require.True(t, d.HasData)
	assert.Equal(t, "R$ 1.200,00", d.Metrics[2].Display)

	d, err = uc.Dashboard(ctx, "s1", domain.Filter{Group: "Custos"})
	require.NoError(t, err)
	assert.Equal(t, "R$ -300,00", d.Metrics[2].Display)
}

func TestDashboardUseCase_EmptyFilterResultIsNotAnError(t *testing.T) {
	uc, _ := newUseCase(t, scenarioTable())
	ctx := context.Background()
	_, err := uc.Upload(ctx, usecase.UploadInput{SessionID: "s1", FileName: "razao.csv"})
	require.NoError(t, err)

	d, err := uc.Dashboard(ctx, "s1", domain.Filter{Account: "inexistente"})

	require.NoError(t, err)
	assert.False(t, d.HasData)
	assert.Empty(t, d.Charts)
}

func TestDashboardUseCase_NoSession(t *testing.T) {
	uc, _ := newUseCase(t, scenarioTable())
	ctx := context.Background()

	_, err := uc.Dashboard(ctx, "unknown", domain.Filter{})
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	_, err = uc.Options(ctx, "")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestDashboardUseCase_InvalidFilter(t *testing.T) {
	uc, _ := newUseCase(t, scenarioTable())
	ctx := context.Background()
	_, err := uc.Upload(ctx, usecase.UploadInput{SessionID: "s1", FileName: "razao.csv"})
	require.NoError(t, err)

	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	_, err = uc.Pivot(ctx, "s1", domain.Filter{Start: &start, End: &end}, false)

	assert.ErrorIs(t, err, domain.ErrInvalidFilter)
}

func TestDashboardUseCase_ParseErrorLeavesSessionUntouched(t *testing.T) {
	store := memory.NewSessionStore(time.Hour, nil)
	calls := 0
	parser := &mocks.StubParser{
		ParseLedgerFunc: func(string, []byte) (*domain.Table, error) {
			calls++
			if calls > 1 {
				return nil, domain.ErrSchema
			}
			return scenarioTable(), nil
		},
	}
	m := metrics.New(prometheus.NewRegistry())
	uc := usecase.NewDashboardUseCase(store, parser, domain.DefaultNamedAccounts(), m)
	ctx := context.Background()

	_, err := uc.Upload(ctx, usecase.UploadInput{SessionID: "s1", FileName: "a.csv"})
	require.NoError(t, err)
	_, err = uc.Upload(ctx, usecase.UploadInput{SessionID: "s1", FileName: "b.csv"})
	require.ErrorIs(t, err, domain.ErrSchema)

	opts, err := uc.Options(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, opts.Groups, 2)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.Uploads.WithLabelValues("ledger", "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Uploads.WithLabelValues("ledger", "rejected")))
	assert.Equal(t, float64(3), testutil.ToFloat64(m.RowsLoaded))
}

func TestDashboardUseCase_ChartOfAccountsJoin(t *testing.T) {
	table := &domain.Table{
		Schema: domain.Schema{HasCode: true},
		Rows: []domain.Row{
			{Date: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), Month: "2024-01", AccountCode: "101",
				Amount: decimal.NewNullDecimal(decimal.NewFromInt(100))},
			{Date: time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC), Month: "2024-01", AccountCode: "999",
				Amount: decimal.NewNullDecimal(decimal.NewFromInt(-40))},
		},
	}
	chart := domain.NewChartOfAccounts()
	chart.Add("101", "Receita Vendas ML")

	store := memory.NewSessionStore(time.Hour, nil)
	parser := &mocks.StubParser{
		ParseLedgerFunc: func(string, []byte) (*domain.Table, error) { return table, nil },
		ParseChartFunc:  func(string, []byte) (*domain.ChartOfAccounts, error) { return chart, nil },
	}
	uc := usecase.NewDashboardUseCase(store, parser, domain.DefaultNamedAccounts(), nil)
	ctx := context.Background()

	// Chart first, ledger second: both orders must join.
	res, err := uc.UploadChartOfAccounts(ctx, usecase.UploadInput{SessionID: "s1", FileName: "plano.csv"})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Codes)

	_, err = uc.Options(ctx, "s1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound, "a chart alone is not a ledger")

	_, err = uc.Upload(ctx, usecase.UploadInput{SessionID: "s1", FileName: "razao.csv"})
	require.NoError(t, err)

	pivot, err := uc.Pivot(ctx, "s1", domain.Filter{}, false)
	require.NoError(t, err)
	require.Len(t, pivot.Rows, 2)
	assert.Equal(t, "Receita Vendas ML", pivot.Rows[0].Account)
	assert.Equal(t, domain.UnknownAccountLabel, pivot.Rows[1].Account)

	page, err := uc.Rows(ctx, "s1", usecase.RowsInput{Filter: domain.Filter{Account: "receita"}})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
}

func TestDashboardUseCase_RowsPagination(t *testing.T) {
	uc, _ := newUseCase(t, scenarioTable())
	ctx := context.Background()
	_, err := uc.Upload(ctx, usecase.UploadInput{SessionID: "s1", FileName: "razao.csv"})
	require.NoError(t, err)

	page, err := uc.Rows(ctx, "s1", usecase.RowsInput{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	require.Len(t, page.Rows, 2)
	assert.True(t, page.Rows[0].Amount.Decimal.Equal(decimal.NewFromInt(1000)))
	assert.True(t, page.Rows[1].Amount.Decimal.Equal(decimal.NewFromInt(500)))

	page, err = uc.Rows(ctx, "s1", usecase.RowsInput{Limit: 2, Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, page.Rows)
}

func TestDashboardUseCase_ExportAndCheck(t *testing.T) {
	uc, _ := newUseCase(t, scenarioTable())
	ctx := context.Background()
	_, err := uc.Upload(ctx, usecase.UploadInput{SessionID: "s1", FileName: "razao.csv"})
	require.NoError(t, err)

	res, err := uc.Export(ctx, "s1", usecase.ExportInput{
		Filter:         domain.Filter{End: ptr(time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC))},
		Format:         presenter.ExportCSV,
		WithGrandTotal: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "pivot.csv", res.FileName)

	pivot, err := presenter.ParseExport(res.Data, presenter.ExportCSV)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-02"}, pivot.Months)
	require.NotNil(t, pivot.GrandTotal)
	assert.True(t, pivot.GrandTotal.Total.Equal(decimal.NewFromInt(700)))

	report, err := uc.Check(ctx, "s1", domain.Filter{})
	require.NoError(t, err)
	assert.True(t, report.Total.Equal(decimal.NewFromInt(1200)))
}

func TestDashboardUseCase_Discard(t *testing.T) {
	uc, _ := newUseCase(t, scenarioTable())
	ctx := context.Background()
	_, err := uc.Upload(ctx, usecase.UploadInput{SessionID: "s1", FileName: "razao.csv"})
	require.NoError(t, err)

	require.NoError(t, uc.Discard(ctx, "s1"))

	_, err = uc.Dashboard(ctx, "s1", domain.Filter{})
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestDashboardUseCase_StoreFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	storeErr := errors.New("redis down")
	store := mocks.NewMockSessionStore(ctrl)
	store.EXPECT().Get(gomock.Any(), "s1").Return(nil, domain.ErrSessionNotFound)
	store.EXPECT().Save(gomock.Any(), gomock.Any()).Return(storeErr)

	parser := &mocks.StubParser{
		ParseLedgerFunc: func(string, []byte) (*domain.Table, error) { return scenarioTable(), nil },
	}
	uc := usecase.NewDashboardUseCase(store, parser, domain.DefaultNamedAccounts(), nil)

	_, err := uc.Upload(context.Background(), usecase.UploadInput{SessionID: "s1", FileName: "a.csv"})

	assert.ErrorIs(t, err, storeErr)
}

func TestDashboardUseCase_GetFailureIsNotNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockSessionStore(ctrl)
	store.EXPECT().Get(gomock.Any(), "s1").Return(nil, errors.New("timeout"))

	uc := usecase.NewDashboardUseCase(store, &mocks.StubParser{}, domain.DefaultNamedAccounts(), nil)

	_, err := uc.Dashboard(context.Background(), "s1", domain.Filter{})

	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrSessionNotFound)
}
