// Command live-traffic inserts a small batch of freshly requested rides, each with its
// "requested" event, at a fixed interval until it receives SIGINT or SIGTERM.
//
// It exits 1 when it cannot start (configuration, first connection, empty id pools)
// and 0 after a shutdown signal.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/AntonStoeckl/ridehail-seeder/config"
	"github.com/AntonStoeckl/ridehail-seeder/livetraffic"
	"github.com/AntonStoeckl/ridehail-seeder/marketplace"
	"github.com/AntonStoeckl/ridehail-seeder/marketplace/postgresengine"
	"github.com/AntonStoeckl/ridehail-seeder/metrics"
	"github.com/AntonStoeckl/ridehail-seeder/notify"
	"github.com/AntonStoeckl/ridehail-seeder/synth"
)

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

	logger := config.NewLogger(cfg.Log, os.Stderr).With("process", "live-traffic", "run_id", config.NewRunID())

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

	producerOptions := []livetraffic.Option{
		livetraffic.WithBatchSize(cfg.Live.BatchSize),
		livetraffic.WithInterval(cfg.Live.Interval),
		livetraffic.WithMaxCycles(cfg.Live.MaxCycles),
		livetraffic.WithLogger(logger),
	}
	if metricsCollector != nil {
		producerOptions = append(producerOptions, livetraffic.WithMetrics(metricsCollector))
	}

	notifyOptions, closePublisher := rideNotifications(ctx, cfg.RabbitMQURL, logger)
	defer closePublisher()
	producerOptions = append(producerOptions, notifyOptions...)

	producer, err := livetraffic.NewProducer(connector(cfg.DB, logger, metricsCollector), synth.NewSource(cfg.Live.RandomSeed), producerOptions...)
	if err != nil {
		logger.Error("creating producer failed", "error", err.Error())
		return err
	}

	if err := producer.Run(ctx); err != nil {
		logger.Error("live traffic failed to start", "error", err.Error())
		return err
	}

	return nil
}

// rideNotifications dials RabbitMQ when url is set. Notifications are optional:
// a failed dial is logged and live traffic runs without them.
func rideNotifications(ctx context.Context, url string, logger *slog.Logger) ([]livetraffic.Option, func()) {
	if url == "" {
		return nil, func() {}
	}

	publisher, err := notify.Dial(ctx, url, notify.WithLogger(logger))
	if err != nil {
		logger.Warn("connecting to rabbitmq failed, running without ride notifications", "error", err.Error())
		return nil, func() {}
	}

	return []livetraffic.Option{livetraffic.WithPublisher(publisher)}, func() { _ = publisher.Close() }
}

// connector opens a fresh store handle on every call.
func connector(
	dbConfig config.DBConfig,
	logger *slog.Logger,
	metricsCollector marketplace.MetricsCollector,
) livetraffic.Connector {
	storeOptions := []postgresengine.Option{postgresengine.WithLogger(logger)}
	if metricsCollector != nil {
		storeOptions = append(storeOptions, postgresengine.WithMetrics(metricsCollector))
	}

	return livetraffic.ConnectorFunc(func(ctx context.Context) (livetraffic.LiveStore, error) {
		store, err := config.OpenStore(ctx, dbConfig, storeOptions...)
		if err != nil {
			return nil, err
		}

		return store, nil
	})
}
