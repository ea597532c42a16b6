package dto

import (
	"time"

	"wager-ledger-analytics/internal/core/domain"
)

// TokenRequest is the request body for exchanging the admin key for a JWT.
type TokenRequest struct {
	AdminKey string `json:"admin_key" binding:"required"`
}

// TokenResponse is the response body for a successful token exchange.
type TokenResponse struct {
	Token  string `json:"token"`
	Expiry int64  `json:"expiry"` // Unix timestamp
}

// RunSummaryResponse describes one completed pipeline run.
type RunSummaryResponse struct {
	RunID          string `json:"run_id"`
	ComputedAt     string `json:"computed_at"`
	Customers      int    `json:"customers"`
	Countries      int    `json:"countries"`
	Transactions   int    `json:"transactions"`
	SkippedRecords int    `json:"skipped_records"`
}

// CustomerResultResponse is one per-customer row of a run report.
// Monetary values are fixed to two decimal places.
type CustomerResultResponse struct {
	CustomerID string `json:"customer_id"`
	Balance    string `json:"balance"`
	ProfitLoss string `json:"profit_loss"`
}

// CountryResultResponse is one per-country row of a run report, in base
// currency.
type CountryResultResponse struct {
	Country   string `json:"country"`
	NetProfit string `json:"net_profit"`
}

// CustomerReportResponse wraps the per-customer report.
type CustomerReportResponse struct {
	Items []CustomerResultResponse `json:"items"`
	Total int                      `json:"total"`
}

// CountryReportResponse wraps the per-country report.
type CountryReportResponse struct {
	Items []CountryResultResponse `json:"items"`
	Total int                     `json:"total"`
}

// FromRunSummary converts a domain summary to its DTO.
func FromRunSummary(s *domain.RunSummary) RunSummaryResponse {
	return RunSummaryResponse{
		RunID:          s.RunID.String(),
		ComputedAt:     s.ComputedAt.UTC().Format(time.RFC3339),
		Customers:      s.Customers,
		Countries:      s.Countries,
		Transactions:   s.Transactions,
		SkippedRecords: s.SkippedRecords,
	}
}

// FromCustomerResults converts domain customer results to the report DTO.
func FromCustomerResults(results []domain.CustomerResult) CustomerReportResponse {
	items := make([]CustomerResultResponse, 0, len(results))
	for _, r := range results {
		items = append(items, CustomerResultResponse{
			CustomerID: r.CustomerID,
			Balance:    r.Balance.StringFixed(2),
			ProfitLoss: r.ProfitLoss.StringFixed(2),
		})
	}
	return CustomerReportResponse{Items: items, Total: len(items)}
}

// FromCountryResults converts domain country results to the report DTO.
func FromCountryResults(results []domain.CountryResult) CountryReportResponse {
	items := make([]CountryResultResponse, 0, len(results))
	for _, r := range results {
		items = append(items, CountryResultResponse{
			Country:   r.Country,
			NetProfit: r.NetProfit.StringFixed(2),
		})
	}
	return CountryReportResponse{Items: items, Total: len(items)}
}
