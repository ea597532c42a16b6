// Package ingest loads run inputs from CSV files.
package ingest

import (
	"context"
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"wager-ledger-analytics/config"
	"wager-ledger-analytics/internal/core/domain"
	"wager-ledger-analytics/pkg/apperror"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/blake2b"
)

// Expected header rows. Column order is fixed.
var (
	customerHeader    = []string{"id", "name", "registered_at", "country"}
	transactionHeader = []string{"id", "customer_id", "timestamp", "currency", "amount", "type"}
	currencyHeader    = []string{"currency", "rate"}
)

// CSVSource implements ports.LedgerSource over three CSV files:
// customer reference data, the transaction ledger, and conversion rates.
type CSVSource struct {
	customersPath    string
	transactionsPath string
	currenciesPath   string
}

// NewCSVSource creates a source over the batch input files.
func NewCSVSource(batch config.BatchConfig) *CSVSource {
	return &CSVSource{
		customersPath:    batch.CustomersFile,
		transactionsPath: batch.TransactionsFile,
		currenciesPath:   batch.CurrenciesFile,
	}
}

// HashName returns the blake2b-256 hex digest of a customer display name.
// Raw names are hashed at the ingestion boundary and never stored.
func HashName(name string) string {
	sum := blake2b.Sum256([]byte(name))
	return hex.EncodeToString(sum[:])
}

// Customers reads and validates the customer reference file.
func (s *CSVSource) Customers(ctx context.Context) ([]domain.Customer, error) {
	var customers []domain.Customer
	err := s.readAll(ctx, s.customersPath, customerHeader, func(row int, record []string) error {
		id := strings.TrimSpace(record[0])
		if id == "" {
			return fmt.Errorf("empty customer id")
		}
		registeredAt, err := time.Parse(time.RFC3339, strings.TrimSpace(record[2]))
		if err != nil {
			return fmt.Errorf("registered_at: %w", err)
		}
		country := strings.ToUpper(strings.TrimSpace(record[3]))
		if country == "" {
			return fmt.Errorf("empty country")
		}
		customers = append(customers, domain.Customer{
			ID:           id,
			NameHash:     HashName(record[1]),
			RegisteredAt: registeredAt.UTC(),
			Country:      country,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return customers, nil
}

// Transactions reads the raw transaction ledger. No ordering or
// deduplication happens here; the records come back as they appear on disk.
func (s *CSVSource) Transactions(ctx context.Context) ([]domain.Transaction, error) {
	var transactions []domain.Transaction
	err := s.readAll(ctx, s.transactionsPath, transactionHeader, func(row int, record []string) error {
		id := strings.TrimSpace(record[0])
		if id == "" {
			return fmt.Errorf("empty transaction id")
		}
		customerID := strings.TrimSpace(record[1])
		if customerID == "" {
			return fmt.Errorf("empty customer id")
		}
		timestamp, err := time.Parse(time.RFC3339, strings.TrimSpace(record[2]))
		if err != nil {
			return fmt.Errorf("timestamp: %w", err)
		}
		amount, err := decimal.NewFromString(strings.TrimSpace(record[4]))
		if err != nil {
			return fmt.Errorf("amount: %w", err)
		}
		if amount.IsNegative() {
			return fmt.Errorf("negative amount %s", amount)
		}
		transactions = append(transactions, domain.Transaction{
			ID:         id,
			CustomerID: customerID,
			Timestamp:  timestamp.UTC(),
			Currency:   strings.ToUpper(strings.TrimSpace(record[3])),
			Amount:     amount,
			Type:       domain.TransactionType(strings.ToLower(strings.TrimSpace(record[5]))),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return transactions, nil
}

// Rates reads the currency conversion table. A currency listed twice keeps
// its last rate. Rate positivity is enforced later by the currency table.
func (s *CSVSource) Rates(ctx context.Context) (map[string]decimal.Decimal, error) {
	rates := make(map[string]decimal.Decimal)
	err := s.readAll(ctx, s.currenciesPath, currencyHeader, func(row int, record []string) error {
		code := strings.ToUpper(strings.TrimSpace(record[0]))
		if code == "" {
			return fmt.Errorf("empty currency code")
		}
		rate, err := decimal.NewFromString(strings.TrimSpace(record[1]))
		if err != nil {
			return fmt.Errorf("rate: %w", err)
		}
		rates[code] = rate
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rates, nil
}

// readAll streams one CSV file record by record: header validation first,
// then parse applied to each data row. Row numbers in errors are 1-based
// and include the header.
func (s *CSVSource) readAll(ctx context.Context, path string, header []string, parse func(row int, record []string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return apperror.ErrIngestOpen(path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	first, err := r.Read()
	if err == io.EOF {
		return apperror.ErrIngestRow(path, 1, fmt.Errorf("missing header row"))
	}
	if err != nil {
		return apperror.ErrIngestRow(path, 1, err)
	}
	if err := matchHeader(first, header); err != nil {
		return apperror.ErrIngestRow(path, 1, err)
	}

	for row := 2; ; row++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		record, err := r.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return apperror.ErrIngestRow(path, row, err)
		}
		if err := parse(row, record); err != nil {
			return apperror.ErrIngestRow(path, row, err)
		}
	}
}

func matchHeader(got, want []string) error {
	if len(got) != len(want) {
		return fmt.Errorf("expected header %v, got %v", want, got)
	}
	for i, col := range want {
		if strings.ToLower(strings.TrimSpace(got[i])) != col {
			return fmt.Errorf("expected header %v, got %v", want, got)
		}
	}
	return nil
}
