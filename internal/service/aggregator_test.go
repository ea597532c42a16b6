package service

import (
	"errors"
	"testing"
	"time"

	"wager-ledger-analytics/config"
	"wager-ledger-analytics/internal/core/domain"
	"wager-ledger-analytics/pkg/apperror"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateByCountry_SumsPerCountry(t *testing.T) {
	computedAt := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	customers := []domain.Customer{
		{ID: "cust_a", Country: "SE"},
		{ID: "cust_b", Country: "SE"},
		{ID: "cust_c", Country: "FI"},
	}
	results := map[string]domain.LedgerState{
		"cust_a": {ProfitLoss: decimal.RequireFromString("10.5")},
		"cust_b": {ProfitLoss: decimal.RequireFromString("-3")},
		"cust_c": {ProfitLoss: decimal.RequireFromString("7")},
	}

	aggregates, err := AggregateByCountry(customers, results, config.PolicyDrop, computedAt)
	require.NoError(t, err)

	require.Len(t, aggregates, 2)
	assert.Equal(t, "FI", aggregates[0].Country)
	assert.True(t, aggregates[0].NetProfit.Equal(decimal.RequireFromString("7")))
	assert.Equal(t, "SE", aggregates[1].Country)
	assert.True(t, aggregates[1].NetProfit.Equal(decimal.RequireFromString("7.5")))
	assert.Equal(t, computedAt, aggregates[0].ComputedAt)
}

func TestAggregateByCountry_CustomerWithoutTransactionsContributesZero(t *testing.T) {
	customers := []domain.Customer{
		{ID: "cust_a", Country: "NO"},
	}

	aggregates, err := AggregateByCountry(customers, nil, config.PolicyDrop, time.Now())
	require.NoError(t, err)

	require.Len(t, aggregates, 1)
	assert.Equal(t, "NO", aggregates[0].Country)
	assert.True(t, aggregates[0].NetProfit.IsZero())
}

func TestAggregateByCountry_UnknownCustomerDropped(t *testing.T) {
	customers := []domain.Customer{
		{ID: "cust_a", Country: "SE"},
	}
	results := map[string]domain.LedgerState{
		"cust_a":  {ProfitLoss: decimal.NewFromInt(5)},
		"cust_gh": {ProfitLoss: decimal.NewFromInt(100)},
	}

	aggregates, err := AggregateByCountry(customers, results, config.PolicyDrop, time.Now())
	require.NoError(t, err)

	require.Len(t, aggregates, 1)
	assert.True(t, aggregates[0].NetProfit.Equal(decimal.NewFromInt(5)))
}

func TestAggregateByCountry_UnknownCustomerErrorPolicy(t *testing.T) {
	customers := []domain.Customer{
		{ID: "cust_a", Country: "SE"},
	}
	results := map[string]domain.LedgerState{
		"cust_a":  {},
		"cust_gh": {},
	}

	_, err := AggregateByCountry(customers, results, config.PolicyError, time.Now())
	require.Error(t, err)

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "LED_001", appErr.Code)
}

func TestAggregateByCountry_Empty(t *testing.T) {
	aggregates, err := AggregateByCountry(nil, nil, config.PolicyDrop, time.Now())
	require.NoError(t, err)
	assert.Empty(t, aggregates)
}
