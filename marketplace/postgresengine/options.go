package postgresengine

import (
	"github.com/AntonStoeckl/ridehail-seeder/marketplace"
)

// Option defines a functional option for configuring Store.
type Option func(*Store) error

// WithSchema qualifies all table names with the given schema.
func WithSchema(schema string) Option {
	return func(s *Store) error {
		if schema == "" {
			return ErrEmptySchemaName
		}

		s.schema = schema

		return nil
	}
}

// WithLogger sets the logger for the Store.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: SQL statements with execution timing
// Info level: row counts and durations per operation
// Warn level: failed cleanup like closing rows or rolling back
// Error level: failures that abort an operation.
func WithLogger(logger marketplace.Logger) Option {
	return func(s *Store) error {
		if logger == nil {
			return marketplace.ErrNilLogger
		}

		s.logger = logger

		return nil
	}
}

// WithMetrics sets the metrics collector for the Store.
// It receives statement durations, written row counts and database errors.
func WithMetrics(collector marketplace.MetricsCollector) Option {
	return func(s *Store) error {
		if collector == nil {
			return marketplace.ErrNilMetricsCollector
		}

		s.metricsCollector = collector

		return nil
	}
}
