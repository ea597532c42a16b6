package ports

import (
	"context"

	"wager-ledger-analytics/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerSource supplies the raw inputs of a run: customer reference data,
// the transaction multiset, and the currency-to-base conversion rates.
type LedgerSource interface {
	Customers(ctx context.Context) ([]domain.Customer, error)
	Transactions(ctx context.Context) ([]domain.Transaction, error)
	Rates(ctx context.Context) (map[string]decimal.Decimal, error)
}

// ResultRepository persists completed run output.
type ResultRepository interface {
	// SaveRun atomically stores the summary and both result sets.
	SaveRun(ctx context.Context, summary *domain.RunSummary, customers []domain.CustomerResult, countries []domain.CountryResult) error
	LatestRun(ctx context.Context) (*domain.RunSummary, error)
	GetRun(ctx context.Context, runID uuid.UUID) (*domain.RunSummary, error)
	CustomerResults(ctx context.Context, runID uuid.UUID) ([]domain.CustomerResult, error)
	CountryResults(ctx context.Context, runID uuid.UUID) ([]domain.CountryResult, error)
}

// ResultExporter writes run output to an external sink (CSV files).
type ResultExporter interface {
	Export(ctx context.Context, summary *domain.RunSummary, customers []domain.CustomerResult, countries []domain.CountryResult) error
}
