package ports

import (
	"context"
	"time"

	"wager-ledger-analytics/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PipelineService runs the full batch: order, fold, aggregate, persist, export.
type PipelineService interface {
	Run(ctx context.Context) (*domain.RunSummary, error)
}

// ReportingService serves the output of completed runs.
type ReportingService interface {
	LatestSummary(ctx context.Context) (*domain.RunSummary, error)
	CustomerReport(ctx context.Context, runID *uuid.UUID) ([]domain.CustomerResult, error)
	CountryReport(ctx context.Context, runID *uuid.UUID) ([]domain.CountryResult, error)
}

// TokenService handles JWT token operations for the report API.
type TokenService interface {
	Issue(subject string) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	Subject string
}

// RateCache is the Redis-layer cache of currency conversion rates, keyed by
// currency code, against the base currency.
type RateCache interface {
	// GetAll returns the cached rate set, or nil if absent/expired.
	GetAll(ctx context.Context) (map[string]decimal.Decimal, error)
	SetAll(ctx context.Context, rates map[string]decimal.Decimal, ttl time.Duration) error
}

// SummaryCache caches the latest run summary for the report API (fast path).
type SummaryCache interface {
	Get(ctx context.Context) (*domain.RunSummary, error)
	Set(ctx context.Context, summary *domain.RunSummary, ttl time.Duration) error
}
