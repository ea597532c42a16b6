package service

import (
	"sort"
	"time"

	"wager-ledger-analytics/config"
	"wager-ledger-analytics/internal/core/domain"
	"wager-ledger-analytics/pkg/apperror"

	"github.com/shopspring/decimal"
)

// AggregateByCountry joins each customer's fold result with the customer's
// registered country and sums profit/loss per country, in base currency.
//
// The join is customer-driven: every customer in the reference table
// contributes, defaulting to a zero result when absent from the ledger.
// A ledger result whose customer is missing from the reference table is
// dropped under config.PolicyDrop or fails the run under config.PolicyError.
// Results come back sorted by country code.
func AggregateByCountry(
	customers []domain.Customer,
	results map[string]domain.LedgerState,
	onUnknownCustomer string,
	computedAt time.Time,
) ([]domain.CountryResult, error) {
	known := make(map[string]struct{}, len(customers))
	totals := make(map[string]decimal.Decimal)

	for _, c := range customers {
		known[c.ID] = struct{}{}
		state := results[c.ID] // zero pair when the customer has no transactions
		totals[c.Country] = totals[c.Country].Add(state.ProfitLoss)
	}

	if onUnknownCustomer == config.PolicyError {
		for customerID := range results {
			if _, ok := known[customerID]; !ok {
				return nil, apperror.ErrUnknownCustomer(customerID)
			}
		}
	}

	aggregates := make([]domain.CountryResult, 0, len(totals))
	for country, net := range totals {
		aggregates = append(aggregates, domain.CountryResult{
			Country:    country,
			NetProfit:  net,
			ComputedAt: computedAt,
		})
	}
	sort.Slice(aggregates, func(i, j int) bool {
		return aggregates[i].Country < aggregates[j].Country
	})

	return aggregates, nil
}
