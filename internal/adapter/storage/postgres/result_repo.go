package postgres

import (
	"context"
	"errors"
	"fmt"

	"wager-ledger-analytics/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ResultRepo implements ports.ResultRepository.
type ResultRepo struct {
	pool Pool
}

// NewResultRepo creates a new ResultRepo.
func NewResultRepo(pool Pool) *ResultRepo {
	return &ResultRepo{pool: pool}
}

// EnsureSchema creates the result tables when they do not exist yet.
func (r *ResultRepo) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			run_id UUID PRIMARY KEY,
			computed_at TIMESTAMPTZ NOT NULL,
			customers INT NOT NULL,
			countries INT NOT NULL,
			transactions INT NOT NULL,
			skipped_records INT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS customer_results (
			run_id UUID NOT NULL REFERENCES runs(run_id) ON DELETE CASCADE,
			customer_id TEXT NOT NULL,
			balance NUMERIC NOT NULL,
			profit_loss NUMERIC NOT NULL,
			computed_at TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (run_id, customer_id)
		)`,
		`CREATE TABLE IF NOT EXISTS country_results (
			run_id UUID NOT NULL REFERENCES runs(run_id) ON DELETE CASCADE,
			country TEXT NOT NULL,
			net_profit NUMERIC NOT NULL,
			computed_at TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (run_id, country)
		)`,
	}

	for _, stmt := range statements {
		if _, err := r.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// SaveRun stores the run summary and both result sets in one transaction:
// a run is either fully queryable or absent.
func (r *ResultRepo) SaveRun(ctx context.Context, summary *domain.RunSummary, customers []domain.CustomerResult, countries []domain.CountryResult) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin save run: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO runs (run_id, computed_at, customers, countries, transactions, skipped_records)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		summary.RunID, summary.ComputedAt, summary.Customers,
		summary.Countries, summary.Transactions, summary.SkippedRecords,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, c := range customers {
		_, err = tx.Exec(ctx,
			`INSERT INTO customer_results (run_id, customer_id, balance, profit_loss, computed_at)
			VALUES ($1, $2, $3, $4, $5)`,
			summary.RunID, c.CustomerID, c.Balance, c.ProfitLoss, c.ComputedAt,
		)
		if err != nil {
			return fmt.Errorf("insert customer result %s: %w", c.CustomerID, err)
		}
	}

	for _, c := range countries {
		_, err = tx.Exec(ctx,
			`INSERT INTO country_results (run_id, country, net_profit, computed_at)
			VALUES ($1, $2, $3, $4)`,
			summary.RunID, c.Country, c.NetProfit, c.ComputedAt,
		)
		if err != nil {
			return fmt.Errorf("insert country result %s: %w", c.Country, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit save run: %w", err)
	}
	return nil
}

// LatestRun returns the most recent run summary, or nil when no run exists.
func (r *ResultRepo) LatestRun(ctx context.Context) (*domain.RunSummary, error) {
	query := `SELECT run_id, computed_at, customers, countries, transactions, skipped_records
		FROM runs ORDER BY computed_at DESC LIMIT 1`

	s := &domain.RunSummary{}
	err := r.pool.QueryRow(ctx, query).Scan(
		&s.RunID, &s.ComputedAt, &s.Customers,
		&s.Countries, &s.Transactions, &s.SkippedRecords,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get latest run: %w", err)
	}
	return s, nil
}

// GetRun returns one run summary by ID, or nil when absent.
func (r *ResultRepo) GetRun(ctx context.Context, runID uuid.UUID) (*domain.RunSummary, error) {
	query := `SELECT run_id, computed_at, customers, countries, transactions, skipped_records
		FROM runs WHERE run_id = $1`

	s := &domain.RunSummary{}
	err := r.pool.QueryRow(ctx, query, runID).Scan(
		&s.RunID, &s.ComputedAt, &s.Customers,
		&s.Countries, &s.Transactions, &s.SkippedRecords,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get run by id: %w", err)
	}
	return s, nil
}

// CustomerResults returns a run's per-customer results sorted by customer ID.
func (r *ResultRepo) CustomerResults(ctx context.Context, runID uuid.UUID) ([]domain.CustomerResult, error) {
	query := `SELECT customer_id, balance, profit_loss, computed_at
		FROM customer_results WHERE run_id = $1 ORDER BY customer_id`

	rows, err := r.pool.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("query customer results: %w", err)
	}
	defer rows.Close()

	var results []domain.CustomerResult
	for rows.Next() {
		var c domain.CustomerResult
		if err := rows.Scan(&c.CustomerID, &c.Balance, &c.ProfitLoss, &c.ComputedAt); err != nil {
			return nil, fmt.Errorf("scan customer result: %w", err)
		}
		results = append(results, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate customer results: %w", err)
	}
	return results, nil
}

// CountryResults returns a run's per-country results sorted by country code.
func (r *ResultRepo) CountryResults(ctx context.Context, runID uuid.UUID) ([]domain.CountryResult, error) {
	query := `SELECT country, net_profit, computed_at
		FROM country_results WHERE run_id = $1 ORDER BY country`

	rows, err := r.pool.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("query country results: %w", err)
	}
	defer rows.Close()

	var results []domain.CountryResult
	for rows.Next() {
		var c domain.CountryResult
		if err := rows.Scan(&c.Country, &c.NetProfit, &c.ComputedAt); err != nil {
			return nil, fmt.Errorf("scan country result: %w", err)
		}
		results = append(results, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate country results: %w", err)
	}
	return results, nil
}
