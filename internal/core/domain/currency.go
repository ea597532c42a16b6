package domain

import (
	"github.com/shopspring/decimal"

	"wager-ledger-analytics/pkg/apperror"
)

// BaseCurrency is the currency all profit/loss figures are reported in.
const BaseCurrency = "EUR"

// CurrencyTable is an immutable mapping from currency code to its conversion
// rate against the base currency. A rate expresses how many units of the
// currency equal one unit of base, so amount/rate converts to base.
// Safe for concurrent reads after construction.
type CurrencyTable struct {
	base  string
	rates map[string]decimal.Decimal
}

// NewCurrencyTable builds a table from code->rate pairs. Rates must be
// strictly positive. The base currency itself does not need an entry; it is
// implied at rate 1.
func NewCurrencyTable(base string, rates map[string]decimal.Decimal) (*CurrencyTable, error) {
	t := &CurrencyTable{
		base:  base,
		rates: make(map[string]decimal.Decimal, len(rates)+1),
	}
	t.rates[base] = decimal.NewFromInt(1)
	for code, rate := range rates {
		if rate.LessThanOrEqual(decimal.Zero) {
			return nil, apperror.ErrInvalidRate(code, rate.String())
		}
		t.rates[code] = rate
	}
	return t, nil
}

// Base returns the base currency code.
func (t *CurrencyTable) Base() string {
	return t.base
}

// Rate returns the conversion rate for a currency code.
func (t *CurrencyTable) Rate(code string) (decimal.Decimal, error) {
	rate, ok := t.rates[code]
	if !ok {
		return decimal.Decimal{}, apperror.ErrUnknownCurrency(code)
	}
	return rate, nil
}

// ToBase converts an amount in the given currency to the base currency.
// A zero amount converts to zero without a rate lookup, so zero-value
// records never trip an unknown-currency failure.
func (t *CurrencyTable) ToBase(amount decimal.Decimal, code string) (decimal.Decimal, error) {
	if amount.IsZero() {
		return decimal.Zero, nil
	}
	rate, err := t.Rate(code)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return amount.Div(rate), nil
}
