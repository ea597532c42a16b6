// Package export writes run results to CSV files.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"wager-ledger-analytics/internal/core/domain"
)

// Output file names inside the export directory.
const (
	CustomerBalancesFile = "customer_balances.csv"
	CountryProfitFile    = "country_profit.csv"
)

// CSVExporter implements ports.ResultExporter. Each run overwrites the
// previous files; history lives in postgres, not on disk.
type CSVExporter struct {
	dir string
}

// NewCSVExporter creates an exporter writing into dir.
func NewCSVExporter(dir string) *CSVExporter {
	return &CSVExporter{dir: dir}
}

// Export writes the per-customer and per-country result files. Monetary
// values are formatted with two decimal places.
func (e *CSVExporter) Export(ctx context.Context, _ *domain.RunSummary, customers []domain.CustomerResult, countries []domain.CountryResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return fmt.Errorf("create output dir %q: %w", e.dir, err)
	}

	customerRows := make([][]string, 0, len(customers))
	for _, c := range customers {
		customerRows = append(customerRows, []string{
			c.CustomerID,
			c.Balance.StringFixed(2),
			c.ComputedAt.UTC().Format(time.RFC3339),
		})
	}
	if err := e.writeFile(CustomerBalancesFile, []string{"customer_id", "balance", "computed_at"}, customerRows); err != nil {
		return err
	}

	countryRows := make([][]string, 0, len(countries))
	for _, c := range countries {
		countryRows = append(countryRows, []string{
			c.Country,
			c.NetProfit.StringFixed(2),
			c.ComputedAt.UTC().Format(time.RFC3339),
		})
	}
	return e.writeFile(CountryProfitFile, []string{"country", "net_profit", "computed_at"}, countryRows)
}

// writeFile writes atomically: a temp file in the same directory renamed
// over the target, so readers never see a half-written report.
func (e *CSVExporter) writeFile(name string, header []string, rows [][]string) error {
	tmp, err := os.CreateTemp(e.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file for %q: %w", name, err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(header); err != nil {
		tmp.Close()
		return fmt.Errorf("write %q: %w", name, err)
	}
	if err := w.WriteAll(rows); err != nil {
		tmp.Close()
		return fmt.Errorf("write %q: %w", name, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("write %q: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %q: %w", name, err)
	}

	target := filepath.Join(e.dir, name)
	if err := os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("rename %q: %w", name, err)
	}
	return nil
}
