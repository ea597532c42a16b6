package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"wager-ledger-analytics/config"
	"wager-ledger-analytics/internal/core/domain"
	"wager-ledger-analytics/internal/core/ports"
	"wager-ledger-analytics/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const summaryCacheTTL = time.Hour

// PipelineServiceImpl implements ports.PipelineService: one batch run from
// raw records to persisted, exported per-customer and per-country results.
type PipelineServiceImpl struct {
	source       ports.LedgerSource
	rateCache    ports.RateCache        // nil = no rate caching
	results      ports.ResultRepository // nil = no persistence
	exporter     ports.ResultExporter   // nil = no file export
	summaryCache ports.SummaryCache     // nil = no summary caching
	batch        config.BatchConfig
	log          zerolog.Logger
}

// NewPipelineService creates a new PipelineServiceImpl. The cache, repository
// and exporter are optional collaborators.
func NewPipelineService(
	source ports.LedgerSource,
	rateCache ports.RateCache,
	results ports.ResultRepository,
	exporter ports.ResultExporter,
	summaryCache ports.SummaryCache,
	batch config.BatchConfig,
	log zerolog.Logger,
) *PipelineServiceImpl {
	return &PipelineServiceImpl{
		source:       source,
		rateCache:    rateCache,
		results:      results,
		exporter:     exporter,
		summaryCache: summaryCache,
		batch:        batch,
		log:          log,
	}
}

// Run executes the full pipeline. Folds for different customers run on a
// worker pool; within one customer the fold stays strictly sequential.
func (s *PipelineServiceImpl) Run(ctx context.Context) (*domain.RunSummary, error) {
	started := time.Now().UTC()

	customers, err := s.source.Customers(ctx)
	if err != nil {
		return nil, fmt.Errorf("load customers: %w", err)
	}

	transactions, err := s.source.Transactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}

	table, err := s.loadCurrencyTable(ctx)
	if err != nil {
		return nil, err
	}

	sequences := OrderTransactions(transactions)

	rules := domain.FoldRules{
		BonusMarker: s.batch.BonusMarker,
		TaxRate:     decimal.NewFromFloat(s.batch.TaxRate),
	}
	folder := NewLedgerFolder(table, rules, s.batch.OnUnknownCurrency, s.log)

	states, skipped, err := s.foldAll(ctx, folder, sequences)
	if err != nil {
		return nil, err
	}

	computedAt := time.Now().UTC()

	countryResults, err := AggregateByCountry(customers, states, s.batch.OnUnknownCustomer, computedAt)
	if err != nil {
		return nil, err
	}

	customerResults := make([]domain.CustomerResult, 0, len(states))
	for customerID, state := range states {
		customerResults = append(customerResults, domain.CustomerResult{
			CustomerID: customerID,
			Balance:    state.Balance,
			ProfitLoss: state.ProfitLoss,
			ComputedAt: computedAt,
		})
	}
	sort.Slice(customerResults, func(i, j int) bool {
		return customerResults[i].CustomerID < customerResults[j].CustomerID
	})

	summary := &domain.RunSummary{
		RunID:          uuid.New(),
		ComputedAt:     computedAt,
		Customers:      len(customerResults),
		Countries:      len(countryResults),
		Transactions:   len(transactions),
		SkippedRecords: skipped,
	}

	if s.results != nil {
		if err := s.results.SaveRun(ctx, summary, customerResults, countryResults); err != nil {
			return nil, apperror.ErrDatabaseError(fmt.Errorf("save run %s: %w", summary.RunID, err))
		}
	}

	if s.exporter != nil {
		if err := s.exporter.Export(ctx, summary, customerResults, countryResults); err != nil {
			return nil, fmt.Errorf("export run %s: %w", summary.RunID, err)
		}
	}

	// Best-effort: the report API serves stale summaries rather than failing
	// the run on a cache outage.
	if s.summaryCache != nil {
		if err := s.summaryCache.Set(ctx, summary, summaryCacheTTL); err != nil {
			s.log.Warn().Err(err).Msg("failed to cache run summary")
		}
	}

	s.log.Info().
		Str("run_id", summary.RunID.String()).
		Int("customers", summary.Customers).
		Int("countries", summary.Countries).
		Int("transactions", summary.Transactions).
		Int("skipped_records", summary.SkippedRecords).
		Dur("elapsed", time.Since(started)).
		Msg("pipeline run completed")

	return summary, nil
}

// loadCurrencyTable builds the immutable rate table, preferring cached rates
// and falling back to the source on a miss.
func (s *PipelineServiceImpl) loadCurrencyTable(ctx context.Context) (*domain.CurrencyTable, error) {
	var rates map[string]decimal.Decimal

	if s.rateCache != nil {
		cached, err := s.rateCache.GetAll(ctx)
		if err != nil {
			s.log.Warn().Err(err).Msg("rate cache read failed, falling through to source")
		}
		rates = cached
	}

	if rates == nil {
		loaded, err := s.source.Rates(ctx)
		if err != nil {
			return nil, fmt.Errorf("load currency rates: %w", err)
		}
		rates = loaded

		if s.rateCache != nil {
			if err := s.rateCache.SetAll(ctx, rates, s.batch.RateCacheTTL); err != nil {
				s.log.Warn().Err(err).Msg("failed to cache currency rates")
			}
		}
	}

	return domain.NewCurrencyTable(s.batch.BaseCurrency, rates)
}

type foldOutcome struct {
	customerID string
	state      domain.LedgerState
	skipped    int
	err        error
}

// foldAll folds every customer sequence on a pool of workers and collects the
// terminal states. The first fold error cancels the remaining work.
func (s *PipelineServiceImpl) foldAll(ctx context.Context, folder *LedgerFolder, sequences []CustomerSequence) (map[string]domain.LedgerState, int, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	workers := s.batch.Workers
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan CustomerSequence)
	out := make(chan foldOutcome)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for seq := range jobs {
				state, skipped, err := folder.Fold(ctx, seq)
				select {
				case out <- foldOutcome{customerID: seq.CustomerID, state: state, skipped: skipped, err: err}:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, seq := range sequences {
			select {
			case jobs <- seq:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(out)
	}()

	states := make(map[string]domain.LedgerState, len(sequences))
	skipped := 0
	var firstErr error

	for outcome := range out {
		if outcome.err != nil {
			if firstErr == nil {
				firstErr = outcome.err
				cancel()
			}
			continue
		}
		states[outcome.customerID] = outcome.state
		skipped += outcome.skipped
	}

	if firstErr != nil {
		return nil, 0, firstErr
	}
	return states, skipped, nil
}
