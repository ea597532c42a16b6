package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType represents the kind of wallet movement in the ledger.
type TransactionType string

const (
	TransactionTypeDeposit  TransactionType = "deposit"
	TransactionTypeWithdraw TransactionType = "withdraw"
	TransactionTypeBet      TransactionType = "bet"
	TransactionTypeWin      TransactionType = "win"
)

// BonusMarker is the default transaction-ID suffix that flags a bet as
// funded by promotional credit rather than wallet balance.
const BonusMarker = "_BONUS"

// Transaction is one immutable ledger record for a customer.
// Amount is always non-negative; the type decides the direction.
type Transaction struct {
	ID         string          `json:"id"`
	CustomerID string          `json:"customer_id"`
	Timestamp  time.Time       `json:"timestamp"`
	Currency   string          `json:"currency"`
	Amount     decimal.Decimal `json:"amount"`
	Type       TransactionType `json:"type"`
}

// IsBonus reports whether this transaction is a bonus bet: a bet whose
// identifier carries the given marker suffix. Only bets can be bonuses.
func (t Transaction) IsBonus(marker string) bool {
	return t.Type == TransactionTypeBet && marker != "" && strings.HasSuffix(t.ID, marker)
}
