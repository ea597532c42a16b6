package service

import (
	"sort"

	"wager-ledger-analytics/internal/core/domain"
)

// CustomerSequence is one customer's transactions in fold order.
type CustomerSequence struct {
	CustomerID   string
	Transactions []domain.Transaction
}

// OrderTransactions turns the raw transaction multiset into per-customer
// fold-ready sequences:
//
//  1. deduplicate by transaction ID — when the same ID appears more than
//     once, the last occurrence in input order wins;
//  2. group by customer ID;
//  3. within each group, sort by (timestamp asc, transaction ID asc).
//
// Groups come back sorted by customer ID, so the output is a deterministic,
// restartable function of the input.
func OrderTransactions(records []domain.Transaction) []CustomerSequence {
	// Later duplicates replace earlier ones but keep the original slot, so
	// "last occurrence wins" holds regardless of input order.
	seen := make(map[string]int, len(records))
	deduped := make([]domain.Transaction, 0, len(records))
	for _, tx := range records {
		if i, ok := seen[tx.ID]; ok {
			deduped[i] = tx
			continue
		}
		seen[tx.ID] = len(deduped)
		deduped = append(deduped, tx)
	}

	groups := make(map[string][]domain.Transaction)
	for _, tx := range deduped {
		groups[tx.CustomerID] = append(groups[tx.CustomerID], tx)
	}

	sequences := make([]CustomerSequence, 0, len(groups))
	for customerID, txs := range groups {
		sort.Slice(txs, func(i, j int) bool {
			if !txs[i].Timestamp.Equal(txs[j].Timestamp) {
				return txs[i].Timestamp.Before(txs[j].Timestamp)
			}
			return txs[i].ID < txs[j].ID
		})
		sequences = append(sequences, CustomerSequence{CustomerID: customerID, Transactions: txs})
	}

	sort.Slice(sequences, func(i, j int) bool {
		return sequences[i].CustomerID < sequences[j].CustomerID
	})

	return sequences
}
