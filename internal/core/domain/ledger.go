package domain

import "github.com/shopspring/decimal"

// FoldRules are the business parameters of the ledger fold.
type FoldRules struct {
	// BonusMarker is the transaction-ID suffix that marks a bonus bet.
	BonusMarker string
	// TaxRate is the fraction of a non-bonus bet withheld as tax before the
	// stake is converted to base currency and booked as profit.
	TaxRate decimal.Decimal
}

// DefaultFoldRules returns the standard rules: "_BONUS" suffix, 1% bet tax.
func DefaultFoldRules() FoldRules {
	return FoldRules{
		BonusMarker: BonusMarker,
		TaxRate:     decimal.NewFromFloat(0.01),
	}
}

// retention is the fraction of a taxed bet that counts toward profit.
func (r FoldRules) retention() decimal.Decimal {
	return decimal.NewFromInt(1).Sub(r.TaxRate)
}

// LedgerState is the running accumulator of one customer's fold: the wallet
// balance in the transactions' native currency and the company profit/loss in
// base currency. The zero value is the initial state at registration.
type LedgerState struct {
	Balance    decimal.Decimal
	ProfitLoss decimal.Decimal
}

// Apply folds one transaction into the state and returns the next state.
// Transactions must be applied in (timestamp, ID) order: withdrawals and
// non-bonus bets are gated on the balance accumulated so far, so the
// transition is order-dependent and non-commutative.
//
// Insufficient funds is not an error: the gated transaction is silently
// rejected and the state returned unchanged. The only failure is an unknown
// currency on a bet or win that needs conversion; in that case the input
// state is returned untouched alongside the error.
func (s LedgerState) Apply(tx Transaction, table *CurrencyTable, rules FoldRules) (LedgerState, error) {
	switch tx.Type {
	case TransactionTypeDeposit:
		s.Balance = s.Balance.Add(tx.Amount)

	case TransactionTypeWin:
		base, err := table.ToBase(tx.Amount, tx.Currency)
		if err != nil {
			return s, err
		}
		s.Balance = s.Balance.Add(tx.Amount)
		s.ProfitLoss = s.ProfitLoss.Sub(base)

	case TransactionTypeWithdraw:
		if s.Balance.GreaterThanOrEqual(tx.Amount) {
			s.Balance = s.Balance.Sub(tx.Amount)
		}

	case TransactionTypeBet:
		if tx.IsBonus(rules.BonusMarker) {
			// Bonus bets ride on promotional credit: the wallet is never
			// touched and no tax is withheld.
			base, err := table.ToBase(tx.Amount, tx.Currency)
			if err != nil {
				return s, err
			}
			s.ProfitLoss = s.ProfitLoss.Add(base)
		} else if s.Balance.GreaterThanOrEqual(tx.Amount) {
			staked := tx.Amount.Mul(rules.retention())
			base, err := table.ToBase(staked, tx.Currency)
			if err != nil {
				return s, err
			}
			s.Balance = s.Balance.Sub(tx.Amount)
			s.ProfitLoss = s.ProfitLoss.Add(base)
		}

	default:
		// Unknown types pass through without effect.
	}

	return s, nil
}
