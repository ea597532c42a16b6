package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CustomerResult is the per-customer output of a completed run.
type CustomerResult struct {
	CustomerID string          `json:"customer_id"`
	Balance    decimal.Decimal `json:"balance"`
	ProfitLoss decimal.Decimal `json:"profit_loss"`
	ComputedAt time.Time       `json:"computed_at"`
}

// CountryResult is the per-country profit/loss output of a completed run,
// in base currency.
type CountryResult struct {
	Country    string          `json:"country"`
	NetProfit  decimal.Decimal `json:"net_profit"`
	ComputedAt time.Time       `json:"computed_at"`
}

// RunSummary describes one completed pipeline run.
type RunSummary struct {
	RunID          uuid.UUID `json:"run_id"`
	ComputedAt     time.Time `json:"computed_at"`
	Customers      int       `json:"customers"`
	Countries      int       `json:"countries"`
	Transactions   int       `json:"transactions"`
	SkippedRecords int       `json:"skipped_records"`
}
