package service

import (
	"context"

	"wager-ledger-analytics/internal/core/domain"
	"wager-ledger-analytics/internal/core/ports"
	"wager-ledger-analytics/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// reportingService implements ports.ReportingService over persisted runs.
type reportingService struct {
	results      ports.ResultRepository
	summaryCache ports.SummaryCache // nil = no caching
	log          zerolog.Logger
}

// NewReportingService creates a new reporting service.
func NewReportingService(results ports.ResultRepository, summaryCache ports.SummaryCache, log zerolog.Logger) ports.ReportingService {
	return &reportingService{
		results:      results,
		summaryCache: summaryCache,
		log:          log,
	}
}

// LatestSummary returns the most recent completed run, preferring the cache.
func (s *reportingService) LatestSummary(ctx context.Context) (*domain.RunSummary, error) {
	if s.summaryCache != nil {
		cached, err := s.summaryCache.Get(ctx)
		if err != nil {
			s.log.Warn().Err(err).Msg("summary cache read failed, falling through to DB")
		}
		if cached != nil {
			return cached, nil
		}
	}

	summary, err := s.results.LatestRun(ctx)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if summary == nil {
		return nil, apperror.ErrNoCompletedRun()
	}
	return summary, nil
}

// CustomerReport returns per-customer balances for a run (latest when nil).
func (s *reportingService) CustomerReport(ctx context.Context, runID *uuid.UUID) ([]domain.CustomerResult, error) {
	id, err := s.resolveRun(ctx, runID)
	if err != nil {
		return nil, err
	}

	results, err := s.results.CustomerResults(ctx, id)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	return results, nil
}

// CountryReport returns per-country net profit for a run (latest when nil).
func (s *reportingService) CountryReport(ctx context.Context, runID *uuid.UUID) ([]domain.CountryResult, error) {
	id, err := s.resolveRun(ctx, runID)
	if err != nil {
		return nil, err
	}

	results, err := s.results.CountryResults(ctx, id)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	return results, nil
}

func (s *reportingService) resolveRun(ctx context.Context, runID *uuid.UUID) (uuid.UUID, error) {
	if runID == nil {
		latest, err := s.LatestSummary(ctx)
		if err != nil {
			return uuid.Nil, err
		}
		return latest.RunID, nil
	}

	run, err := s.results.GetRun(ctx, *runID)
	if err != nil {
		return uuid.Nil, apperror.ErrDatabaseError(err)
	}
	if run == nil {
		return uuid.Nil, apperror.ErrRunNotFound(runID.String())
	}
	return run.RunID, nil
}
