package service

import (
	"context"
	"fmt"

	"wager-ledger-analytics/config"
	"wager-ledger-analytics/internal/core/domain"

	"github.com/rs/zerolog"
)

// LedgerFolder reduces one customer's ordered transaction sequence into a
// final (balance, profit/loss) pair. The fold is strictly sequential within
// a customer; separate customers can be folded on separate workers because
// the currency table is read-only shared state.
type LedgerFolder struct {
	table  *domain.CurrencyTable
	rules  domain.FoldRules
	policy string // config.PolicyAbort or config.PolicySkip for unknown currencies
	log    zerolog.Logger
}

// NewLedgerFolder creates a folder over an immutable currency table.
func NewLedgerFolder(table *domain.CurrencyTable, rules domain.FoldRules, onUnknownCurrency string, log zerolog.Logger) *LedgerFolder {
	return &LedgerFolder{
		table:  table,
		rules:  rules,
		policy: onUnknownCurrency,
		log:    log,
	}
}

// Fold applies the sequence in order and returns the terminal state plus the
// number of records skipped under the skip policy. Under the abort policy the
// first unknown currency fails the fold.
func (f *LedgerFolder) Fold(ctx context.Context, seq CustomerSequence) (domain.LedgerState, int, error) {
	state := domain.LedgerState{}
	skipped := 0

	for _, tx := range seq.Transactions {
		if err := ctx.Err(); err != nil {
			return state, skipped, err
		}

		next, err := state.Apply(tx, f.table, f.rules)
		if err != nil {
			if f.policy == config.PolicySkip {
				skipped++
				f.log.Warn().
					Str("customer_id", seq.CustomerID).
					Str("tx_id", tx.ID).
					Str("currency", tx.Currency).
					Msg("skipping record with unknown currency")
				continue
			}
			return state, skipped, fmt.Errorf("fold customer %s, tx %s: %w", seq.CustomerID, tx.ID, err)
		}
		state = next
	}

	return state, skipped, nil
}
