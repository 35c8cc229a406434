// Command seed loads the historical baseline into an empty marketplace database:
// synthetic drivers and customers plus completed rides derived from public trip records.
//
// It exits 0 after a successful load or when rides already exist, and 1 on any error.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/AntonStoeckl/ridehail-seeder/config"
	"github.com/AntonStoeckl/ridehail-seeder/marketplace"
	"github.com/AntonStoeckl/ridehail-seeder/marketplace/postgresengine"
	"github.com/AntonStoeckl/ridehail-seeder/metrics"
	"github.com/AntonStoeckl/ridehail-seeder/retry"
	"github.com/AntonStoeckl/ridehail-seeder/seeding"
	"github.com/AntonStoeckl/ridehail-seeder/synth"
	"github.com/AntonStoeckl/ridehail-seeder/tripdata"
)

const operationConnect = "database_connect"

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("loading configuration failed", "error", err.Error())
		return err
	}

	logger := config.NewLogger(cfg.Log, os.Stderr).With("process", "seed", "run_id", config.NewRunID())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var metricsCollector marketplace.MetricsCollector
	if cfg.MetricsAddr != "" {
		registry := prometheus.NewRegistry()
		metricsCollector = metrics.NewCollector(registry)

		go func() {
			if serveErr := metrics.Serve(ctx, cfg.MetricsAddr, registry, logger); serveErr != nil {
				logger.Warn("metrics server stopped", "error", serveErr.Error())
			}
		}()
	}

	report, err := seed(ctx, cfg, logger, metricsCollector)
	if err != nil {
		logger.Error("seeding failed", "error", err.Error())
		return err
	}

	if report.Skipped {
		logger.Info("rides already present, nothing to seed")
		return nil
	}

	logger.Info("seeding completed",
		"drivers_created", report.DriversCreated,
		"customers_created", report.CustomersCreated,
		"trips_downloaded", report.TripsDownloaded,
		"trips_kept", report.TripsKept,
		"rides_inserted", report.RidesInserted,
		"batches", report.Batches,
	)

	return nil
}

func seed(
	ctx context.Context,
	cfg config.Config,
	logger *slog.Logger,
	metricsCollector marketplace.MetricsCollector,
) (seeding.Report, error) {
	storeOptions := []postgresengine.Option{postgresengine.WithLogger(logger)}
	fetcherOptions := []tripdata.Option{tripdata.WithTimeout(cfg.Seed.DownloadTimeout), tripdata.WithLogger(logger)}
	loaderOptions := []seeding.Option{
		seeding.WithSources(cfg.Seed.Sources),
		seeding.WithDriverCount(cfg.Seed.Drivers),
		seeding.WithCustomerCount(cfg.Seed.Customers),
		seeding.WithBatchSize(cfg.Seed.BatchSize),
		seeding.WithLogger(logger),
	}
	retryOptions := []retry.Option{retry.WithLogger(logger)}

	if metricsCollector != nil {
		storeOptions = append(storeOptions, postgresengine.WithMetrics(metricsCollector))
		fetcherOptions = append(fetcherOptions, tripdata.WithMetrics(metricsCollector))
		loaderOptions = append(loaderOptions, seeding.WithMetrics(metricsCollector))
		retryOptions = append(retryOptions, retry.WithMetrics(metricsCollector))
	}

	var store *config.StoreHandle
	err := retry.WithExponentialBackoff(ctx, operationConnect, func(ctx context.Context) error {
		var openErr error
		store, openErr = config.OpenStore(ctx, cfg.DB, storeOptions...)

		return openErr
	}, retryOptions...)
	if err != nil {
		return seeding.Report{}, fmt.Errorf("connect to database: %w", err)
	}
	defer func() { _ = store.Close() }()

	fetcher, err := tripdata.NewFetcher(fetcherOptions...)
	if err != nil {
		return seeding.Report{}, err
	}

	src := synth.NewSource(cfg.Seed.RandomSeed)
	entities := synth.NewEntityGenerator(gofakeit.New(cfg.Seed.RandomSeed), src)

	loader, err := seeding.NewLoader(store, fetcher, entities, src, loaderOptions...)
	if err != nil {
		return seeding.Report{}, err
	}

	return loader.Run(ctx)
}
