package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"wager-ledger-analytics/config"
	"wager-ledger-analytics/internal/adapter/export"
	"wager-ledger-analytics/internal/adapter/ingest"
	pgStorage "wager-ledger-analytics/internal/adapter/storage/postgres"
	redisStorage "wager-ledger-analytics/internal/adapter/storage/redis"
	"wager-ledger-analytics/internal/core/ports"
	"wager-ledger-analytics/internal/service"
	"wager-ledger-analytics/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to config file (optional, env vars override)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info().
		Str("customers", cfg.Batch.CustomersFile).
		Str("transactions", cfg.Batch.TransactionsFile).
		Str("currencies", cfg.Batch.CurrenciesFile).
		Int("workers", cfg.Batch.Workers).
		Msg("Starting batch analytics run")

	source := ingest.NewCSVSource(cfg.Batch)
	exporter := export.NewCSVExporter(cfg.Batch.OutputDir)

	var (
		results      ports.ResultRepository
		rateCache    ports.RateCache
		summaryCache ports.SummaryCache
	)

	if cfg.Batch.Persist {
		pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
		}
		defer pool.Close()

		resultRepo := pgStorage.NewResultRepo(pool)
		if err := resultRepo.EnsureSchema(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to ensure result schema")
		}
		results = resultRepo

		// Caches ride along with persistence; a missing Redis only costs
		// the warm rate lookup, never the run.
		if rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log); err != nil {
			log.Warn().Err(err).Msg("Redis unavailable, running without caches")
		} else {
			defer rdb.Close()
			rateCache = redisStorage.NewRateCache(rdb)
			summaryCache = redisStorage.NewSummaryCache(rdb)
		}
	}

	pipeline := service.NewPipelineService(
		source, rateCache, results, exporter, summaryCache, cfg.Batch, log,
	)

	summary, err := pipeline.Run(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Batch run failed")
		os.Exit(1)
	}

	fmt.Printf("run %s completed: %d customers, %d countries, %d transactions, %d skipped\n",
		summary.RunID, summary.Customers, summary.Countries,
		summary.Transactions, summary.SkippedRecords)
}
