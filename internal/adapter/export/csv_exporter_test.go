package export

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"wager-ledger-analytics/internal/core/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVExporter_Export(t *testing.T) {
	dir := t.TempDir()
	e := NewCSVExporter(dir)

	computedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	customers := []domain.CustomerResult{
		{CustomerID: "cust_a", Balance: decimal.RequireFromString("130"), ComputedAt: computedAt},
		{CustomerID: "cust_b", Balance: decimal.RequireFromString("0.5"), ComputedAt: computedAt},
	}
	countries := []domain.CountryResult{
		{Country: "SE", NetProfit: decimal.RequireFromString("49.505"), ComputedAt: computedAt},
	}

	require.NoError(t, e.Export(context.Background(), nil, customers, countries))

	balances, err := os.ReadFile(filepath.Join(dir, CustomerBalancesFile))
	require.NoError(t, err)
	assert.Equal(t,
		"customer_id,balance,computed_at\n"+
			"cust_a,130.00,2026-03-01T12:00:00Z\n"+
			"cust_b,0.50,2026-03-01T12:00:00Z\n",
		string(balances))

	profits, err := os.ReadFile(filepath.Join(dir, CountryProfitFile))
	require.NoError(t, err)
	assert.Equal(t,
		"country,net_profit,computed_at\n"+
			"SE,49.51,2026-03-01T12:00:00Z\n",
		string(profits))
}

func TestCSVExporter_Export_EmptyResults(t *testing.T) {
	dir := t.TempDir()
	e := NewCSVExporter(dir)

	require.NoError(t, e.Export(context.Background(), nil, nil, nil))

	balances, err := os.ReadFile(filepath.Join(dir, CustomerBalancesFile))
	require.NoError(t, err)
	assert.Equal(t, "customer_id,balance,computed_at\n", string(balances))
}

func TestCSVExporter_Export_CreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	e := NewCSVExporter(dir)

	require.NoError(t, e.Export(context.Background(), nil, nil, nil))
	assert.DirExists(t, dir)
}

func TestCSVExporter_Export_OverwritesPrevious(t *testing.T) {
	dir := t.TempDir()
	e := NewCSVExporter(dir)

	computedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	first := []domain.CustomerResult{
		{CustomerID: "cust_a", Balance: decimal.NewFromInt(1), ComputedAt: computedAt},
		{CustomerID: "cust_b", Balance: decimal.NewFromInt(2), ComputedAt: computedAt},
	}
	second := []domain.CustomerResult{
		{CustomerID: "cust_c", Balance: decimal.NewFromInt(3), ComputedAt: computedAt},
	}

	require.NoError(t, e.Export(context.Background(), nil, first, nil))
	require.NoError(t, e.Export(context.Background(), nil, second, nil))

	balances, err := os.ReadFile(filepath.Join(dir, CustomerBalancesFile))
	require.NoError(t, err)
	assert.Equal(t,
		"customer_id,balance,computed_at\n"+
			"cust_c,3.00,2026-03-01T12:00:00Z\n",
		string(balances))
}

func TestCSVExporter_Export_ContextCancelled(t *testing.T) {
	e := NewCSVExporter(t.TempDir())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, e.Export(ctx, nil, nil, nil), context.Canceled)
}
