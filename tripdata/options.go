package tripdata

import (
	"errors"
	"net/http"
	"time"

	"github.com/AntonStoeckl/ridehail-seeder/marketplace"
)

var (
	// ErrInvalidTimeout is returned when a non-positive download timeout is supplied.
	ErrInvalidTimeout = errors.New("download timeout must be positive")

	// ErrNilHTTPClient is returned when a nil http client is supplied.
	ErrNilHTTPClient = errors.New("http client must not be nil")
)

// Option defines a functional option for configuring Fetcher.
type Option func(*Fetcher) error

// WithTimeout sets the overall deadline for downloading one dataset.
func WithTimeout(timeout time.Duration) Option {
	return func(f *Fetcher) error {
		if timeout <= 0 {
			return ErrInvalidTimeout
		}

		f.timeout = timeout

		return nil
	}
}

// WithHTTPClient replaces the http client. Its own Timeout is overridden by WithTimeout.
func WithHTTPClient(client *http.Client) Option {
	return func(f *Fetcher) error {
		if client == nil {
			return ErrNilHTTPClient
		}

		f.client = client

		return nil
	}
}

// WithLogger sets the logger for the Fetcher.
func WithLogger(logger marketplace.Logger) Option {
	return func(f *Fetcher) error {
		if logger == nil {
			return marketplace.ErrNilLogger
		}

		f.logger = logger

		return nil
	}
}

// WithMetrics sets the metrics collector for the Fetcher.
func WithMetrics(collector marketplace.MetricsCollector) Option {
	return func(f *Fetcher) error {
		if collector == nil {
			return marketplace.ErrNilMetricsCollector
		}

		f.metricsCollector = collector

		return nil
	}
}
