package seeding

import (
	"errors"

	"github.com/AntonStoeckl/ridehail-seeder/marketplace"
	"github.com/AntonStoeckl/ridehail-seeder/tripdata"
)

var (
	// ErrInvalidBatchSize is returned when the ride batch size is not positive.
	ErrInvalidBatchSize = errors.New("batch size must be positive")

	// ErrNegativePopulation is returned when a negative driver or customer count is supplied.
	ErrNegativePopulation = errors.New("population size must not be negative")

	// ErrNoSources is returned when an empty source list is supplied.
	ErrNoSources = errors.New("at least one trip source is required")
)

// Option defines a functional option for configuring Loader.
type Option func(*Loader) error

// WithSources sets the trip datasets to load, in order.
func WithSources(sources []tripdata.Source) Option {
	return func(l *Loader) error {
		if len(sources) == 0 {
			return ErrNoSources
		}

		l.sources = sources

		return nil
	}
}

// WithDriverCount sets how many drivers are generated.
func WithDriverCount(n int) Option {
	return func(l *Loader) error {
		if n < 0 {
			return ErrNegativePopulation
		}

		l.driverCount = n

		return nil
	}
}

// WithCustomerCount sets how many customers are generated.
func WithCustomerCount(n int) Option {
	return func(l *Loader) error {
		if n < 0 {
			return ErrNegativePopulation
		}

		l.customerCount = n

		return nil
	}
}

// WithBatchSize sets how many rides are written per transaction.
func WithBatchSize(n int) Option {
	return func(l *Loader) error {
		if n <= 0 {
			return ErrInvalidBatchSize
		}

		l.batchSize = n

		return nil
	}
}

// WithLogger sets the logger for the Loader.
func WithLogger(logger marketplace.Logger) Option {
	return func(l *Loader) error {
		if logger == nil {
			return marketplace.ErrNilLogger
		}

		l.logger = logger

		return nil
	}
}

// WithMetrics sets the metrics collector for the Loader.
func WithMetrics(collector marketplace.MetricsCollector) Option {
	return func(l *Loader) error {
		if collector == nil {
			return marketplace.ErrNilMetricsCollector
		}

		l.metricsCollector = collector

		return nil
	}
}
