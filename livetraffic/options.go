package livetraffic

import (
	"errors"
	"time"

	"github.com/AntonStoeckl/ridehail-seeder/marketplace"
)

var (
	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("batch size must be positive")

	// ErrNegativeInterval is returned when the interval between cycles is negative.
	ErrNegativeInterval = errors.New("interval must not be negative")

	// ErrNegativeMaxCycles is returned when a negative cycle bound is supplied.
	ErrNegativeMaxCycles = errors.New("max cycles must not be negative")

	// ErrNilConnector is returned when no connector is supplied.
	ErrNilConnector = errors.New("connector must not be nil")

	// ErrNilClock is returned when a nil clock is supplied.
	ErrNilClock = errors.New("clock must not be nil")

	// ErrNilPublisher is returned when a nil publisher is supplied.
	ErrNilPublisher = errors.New("publisher must not be nil")
)

// Option defines a functional option for configuring Producer.
type Option func(*Producer) error

// WithBatchSize sets the number of rides inserted per cycle.
func WithBatchSize(n int) Option {
	return func(p *Producer) error {
		if n <= 0 {
			return ErrInvalidBatchSize
		}

		p.batchSize = n

		return nil
	}
}

// WithInterval sets the pause after every cycle.
func WithInterval(d time.Duration) Option {
	return func(p *Producer) error {
		if d < 0 {
			return ErrNegativeInterval
		}

		p.interval = d

		return nil
	}
}

// WithMaxCycles makes Run return after n cycles. Zero means run until the context ends.
func WithMaxCycles(n int) Option {
	return func(p *Producer) error {
		if n < 0 {
			return ErrNegativeMaxCycles
		}

		p.maxCycles = n

		return nil
	}
}

// WithClock replaces the wall clock.
func WithClock(clock Clock) Option {
	return func(p *Producer) error {
		if clock == nil {
			return ErrNilClock
		}

		p.clock = clock

		return nil
	}
}

// WithPublisher announces every committed batch. Publish failures are logged and otherwise ignored.
func WithPublisher(publisher Publisher) Option {
	return func(p *Producer) error {
		if publisher == nil {
			return ErrNilPublisher
		}

		p.publisher = publisher

		return nil
	}
}

// WithLogger sets the logger for the Producer.
func WithLogger(logger marketplace.Logger) Option {
	return func(p *Producer) error {
		if logger == nil {
			return marketplace.ErrNilLogger
		}

		p.logger = logger

		return nil
	}
}

// WithMetrics sets the metrics collector for the Producer.
func WithMetrics(collector marketplace.MetricsCollector) Option {
	return func(p *Producer) error {
		if collector == nil {
			return marketplace.ErrNilMetricsCollector
		}

		p.metricsCollector = collector

		return nil
	}
}
