package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"wager-ledger-analytics/internal/core/domain"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSummary() *domain.RunSummary {
	return &domain.RunSummary{
		RunID:          uuid.New(),
		ComputedAt:     time.Now().UTC().Truncate(time.Microsecond),
		Customers:      2,
		Countries:      1,
		Transactions:   5,
		SkippedRecords: 0,
	}
}

func summaryColumns() []string {
	return []string{"run_id", "computed_at", "customers", "countries", "transactions", "skipped_records"}
}

func summaryRow(s *domain.RunSummary) *pgxmock.Rows {
	return pgxmock.NewRows(summaryColumns()).AddRow(
		s.RunID, s.ComputedAt, s.Customers, s.Countries, s.Transactions, s.SkippedRecords,
	)
}

func TestResultRepo_SaveRun(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewResultRepo(mock)
	summary := newTestSummary()

	customers := []domain.CustomerResult{
		{CustomerID: "cust_a", Balance: decimal.NewFromInt(130), ProfitLoss: decimal.RequireFromString("-30.5"), ComputedAt: summary.ComputedAt},
	}
	countries := []domain.CountryResult{
		{Country: "SE", NetProfit: decimal.RequireFromString("-30.5"), ComputedAt: summary.ComputedAt},
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO runs").
		WithArgs(summary.RunID, summary.ComputedAt, summary.Customers,
			summary.Countries, summary.Transactions, summary.SkippedRecords).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO customer_results").
		WithArgs(summary.RunID, "cust_a", customers[0].Balance, customers[0].ProfitLoss, summary.ComputedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO country_results").
		WithArgs(summary.RunID, "SE", countries[0].NetProfit, summary.ComputedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	err = repo.SaveRun(context.Background(), summary, customers, countries)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResultRepo_SaveRun_RollbackOnInsertFailure(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewResultRepo(mock)
	summary := newTestSummary()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO runs").
		WithArgs(summary.RunID, summary.ComputedAt, summary.Customers,
			summary.Countries, summary.Transactions, summary.SkippedRecords).
		WillReturnError(errors.New("duplicate key"))
	mock.ExpectRollback()

	err = repo.SaveRun(context.Background(), summary, nil, nil)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResultRepo_LatestRun(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewResultRepo(mock)
	summary := newTestSummary()

	mock.ExpectQuery("SELECT .+ FROM runs ORDER BY computed_at DESC LIMIT 1").
		WillReturnRows(summaryRow(summary))

	result, err := repo.LatestRun(context.Background())
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, summary.RunID, result.RunID)
	assert.Equal(t, summary.Transactions, result.Transactions)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResultRepo_LatestRun_Empty(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewResultRepo(mock)

	mock.ExpectQuery("SELECT .+ FROM runs ORDER BY computed_at DESC LIMIT 1").
		WillReturnRows(pgxmock.NewRows(summaryColumns()))

	result, err := repo.LatestRun(context.Background())
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResultRepo_GetRun(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewResultRepo(mock)
	summary := newTestSummary()

	mock.ExpectQuery("SELECT .+ FROM runs WHERE run_id").
		WithArgs(summary.RunID).
		WillReturnRows(summaryRow(summary))

	result, err := repo.GetRun(context.Background(), summary.RunID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, summary.RunID, result.RunID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResultRepo_GetRun_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewResultRepo(mock)
	runID := uuid.New()

	mock.ExpectQuery("SELECT .+ FROM runs WHERE run_id").
		WithArgs(runID).
		WillReturnRows(pgxmock.NewRows(summaryColumns()))

	result, err := repo.GetRun(context.Background(), runID)
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResultRepo_CustomerResults(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewResultRepo(mock)
	runID := uuid.New()
	computedAt := time.Now().UTC().Truncate(time.Microsecond)

	rows := pgxmock.NewRows([]string{"customer_id", "balance", "profit_loss", "computed_at"}).
		AddRow("cust_a", decimal.NewFromInt(130), decimal.RequireFromString("-30.5"), computedAt).
		AddRow("cust_b", decimal.NewFromInt(30), decimal.Zero, computedAt)

	mock.ExpectQuery("SELECT .+ FROM customer_results WHERE run_id").
		WithArgs(runID).
		WillReturnRows(rows)

	results, err := repo.CustomerResults(context.Background(), runID)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "cust_a", results[0].CustomerID)
	assert.True(t, results[0].Balance.Equal(decimal.NewFromInt(130)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResultRepo_CountryResults(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewResultRepo(mock)
	runID := uuid.New()
	computedAt := time.Now().UTC().Truncate(time.Microsecond)

	rows := pgxmock.NewRows([]string{"country", "net_profit", "computed_at"}).
		AddRow("FI", decimal.Zero, computedAt).
		AddRow("SE", decimal.RequireFromString("49.5"), computedAt)

	mock.ExpectQuery("SELECT .+ FROM country_results WHERE run_id").
		WithArgs(runID).
		WillReturnRows(rows)

	results, err := repo.CountryResults(context.Background(), runID)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "FI", results[0].Country)
	assert.True(t, results[1].NetProfit.Equal(decimal.RequireFromString("49.5")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResultRepo_EnsureSchema(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewResultRepo(mock)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS runs").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS customer_results").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS country_results").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	err = repo.EnsureSchema(context.Background())
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
