package service

import (
	"testing"
	"time"

	"wager-ledger-analytics/internal/core/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tx(id, customerID string, ts time.Time, txType domain.TransactionType, amount string) domain.Transaction {
	return domain.Transaction{
		ID:         id,
		CustomerID: customerID,
		Timestamp:  ts,
		Currency:   "EUR",
		Amount:     decimal.RequireFromString(amount),
		Type:       txType,
	}
}

func TestOrderTransactions_GroupsAndSorts(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	records := []domain.Transaction{
		tx("t3", "cust_b", base.Add(2*time.Hour), domain.TransactionTypeBet, "10"),
		tx("t1", "cust_a", base.Add(time.Hour), domain.TransactionTypeDeposit, "100"),
		tx("t2", "cust_a", base, domain.TransactionTypeDeposit, "50"),
	}

	sequences := OrderTransactions(records)

	require.Len(t, sequences, 2)
	assert.Equal(t, "cust_a", sequences[0].CustomerID)
	assert.Equal(t, "cust_b", sequences[1].CustomerID)

	require.Len(t, sequences[0].Transactions, 2)
	assert.Equal(t, "t2", sequences[0].Transactions[0].ID)
	assert.Equal(t, "t1", sequences[0].Transactions[1].ID)
}

func TestOrderTransactions_TimestampTieBreaksOnID(t *testing.T) {
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	records := []domain.Transaction{
		tx("t_b", "cust_a", ts, domain.TransactionTypeDeposit, "1"),
		tx("t_a", "cust_a", ts, domain.TransactionTypeDeposit, "2"),
	}

	sequences := OrderTransactions(records)

	require.Len(t, sequences, 1)
	require.Len(t, sequences[0].Transactions, 2)
	assert.Equal(t, "t_a", sequences[0].Transactions[0].ID)
	assert.Equal(t, "t_b", sequences[0].Transactions[1].ID)
}

func TestOrderTransactions_DuplicateIDLastOccurrenceWins(t *testing.T) {
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	records := []domain.Transaction{
		tx("t1", "cust_a", ts, domain.TransactionTypeDeposit, "100"),
		tx("t2", "cust_a", ts.Add(time.Minute), domain.TransactionTypeBet, "10"),
		// Corrected re-submission of t1: the later record replaces the earlier.
		tx("t1", "cust_a", ts, domain.TransactionTypeDeposit, "150"),
	}

	sequences := OrderTransactions(records)

	require.Len(t, sequences, 1)
	require.Len(t, sequences[0].Transactions, 2)
	assert.True(t, sequences[0].Transactions[0].Amount.Equal(decimal.RequireFromString("150")))
}

func TestOrderTransactions_DuplicateCanReassignCustomer(t *testing.T) {
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	records := []domain.Transaction{
		tx("t1", "cust_a", ts, domain.TransactionTypeDeposit, "100"),
		tx("t1", "cust_b", ts, domain.TransactionTypeDeposit, "100"),
	}

	sequences := OrderTransactions(records)

	require.Len(t, sequences, 1)
	assert.Equal(t, "cust_b", sequences[0].CustomerID)
}

func TestOrderTransactions_Deterministic(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	forward := []domain.Transaction{
		tx("t1", "cust_a", base, domain.TransactionTypeDeposit, "10"),
		tx("t2", "cust_b", base.Add(time.Hour), domain.TransactionTypeDeposit, "20"),
		tx("t3", "cust_a", base.Add(2*time.Hour), domain.TransactionTypeWithdraw, "5"),
	}
	reversed := []domain.Transaction{forward[2], forward[1], forward[0]}

	assert.Equal(t, OrderTransactions(forward), OrderTransactions(reversed))
}

func TestOrderTransactions_Empty(t *testing.T) {
	assert.Empty(t, OrderTransactions(nil))
}
