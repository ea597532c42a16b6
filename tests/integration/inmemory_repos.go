package integration

import (
	"context"
	"sort"
	"sync"

	"wager-ledger-analytics/internal/core/domain"

	"github.com/google/uuid"
)

// --- In-Memory Result Repo ---

// inMemoryResultRepo implements ports.ResultRepository for end-to-end tests
// without a PostgreSQL instance.
type inMemoryResultRepo struct {
	mu        sync.RWMutex
	runs      []domain.RunSummary
	customers map[uuid.UUID][]domain.CustomerResult
	countries map[uuid.UUID][]domain.CountryResult
}

func newInMemoryResultRepo() *inMemoryResultRepo {
	return &inMemoryResultRepo{
		customers: make(map[uuid.UUID][]domain.CustomerResult),
		countries: make(map[uuid.UUID][]domain.CountryResult),
	}
}

func (r *inMemoryResultRepo) SaveRun(ctx context.Context, summary *domain.RunSummary, customers []domain.CustomerResult, countries []domain.CountryResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs = append(r.runs, *summary)
	r.customers[summary.RunID] = append([]domain.CustomerResult(nil), customers...)
	r.countries[summary.RunID] = append([]domain.CountryResult(nil), countries...)
	return nil
}

func (r *inMemoryResultRepo) LatestRun(ctx context.Context) (*domain.RunSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.runs) == 0 {
		return nil, nil
	}
	latest := r.runs[0]
	for _, run := range r.runs[1:] {
		if run.ComputedAt.After(latest.ComputedAt) {
			latest = run
		}
	}
	return &latest, nil
}

func (r *inMemoryResultRepo) GetRun(ctx context.Context, runID uuid.UUID) (*domain.RunSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, run := range r.runs {
		if run.RunID == runID {
			run := run
			return &run, nil
		}
	}
	return nil, nil
}

func (r *inMemoryResultRepo) CustomerResults(ctx context.Context, runID uuid.UUID) ([]domain.CustomerResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	results := append([]domain.CustomerResult(nil), r.customers[runID]...)
	sort.Slice(results, func(i, j int) bool { return results[i].CustomerID < results[j].CustomerID })
	return results, nil
}

func (r *inMemoryResultRepo) CountryResults(ctx context.Context, runID uuid.UUID) ([]domain.CountryResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	results := append([]domain.CountryResult(nil), r.countries[runID]...)
	sort.Slice(results, func(i, j int) bool { return results[i].Country < results[j].Country })
	return results, nil
}
