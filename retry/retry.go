// Package retry runs connection attempts with exponential backoff.
package retry

import (
	"context"
	"errors"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/AntonStoeckl/ridehail-seeder/marketplace"
)

const (
	defaultMaxAttempts  = 10
	defaultBaseDelay    = time.Second
	defaultMaxDelay     = 30 * time.Second
	defaultJitterFactor = 0.3

	logMsgAttemptFailed = "attempt failed, retrying"
	logAttrOperation    = "operation"
	logAttrAttempt      = "attempt"
	logAttrMaxAttempts  = "max_attempts"
	logAttrRetryInMS    = "retry_in_ms"
	logAttrError        = "error"

	// MetricRetries counts failed attempts that will be retried.
	MetricRetries = "marketplace_retries_total"
)

var (
	// ErrInvalidMaxAttempts is returned when max attempts are not positive.
	ErrInvalidMaxAttempts = errors.New("max attempts must be positive")

	// ErrNegativeBaseDelay is returned when the base delay is negative.
	ErrNegativeBaseDelay = errors.New("base delay must not be negative")

	// ErrInvalidMaxDelay is returned when the max delay is smaller than the base delay.
	ErrInvalidMaxDelay = errors.New("max delay must not be smaller than base delay")

	// ErrInvalidJitterFactor is returned when the jitter factor is not between 0.0 and 1.0.
	ErrInvalidJitterFactor = errors.New("jitter factor must be between 0.0 and 1.0")

	// ErrEmptyOperation is returned when an empty operation name is supplied.
	ErrEmptyOperation = errors.New("operation must not be empty")
)

// RetryableFunc represents a function that can be retried.
type RetryableFunc func(ctx context.Context) error

type config struct {
	operation        string
	maxAttempts      int
	baseDelay        time.Duration
	maxDelay         time.Duration
	jitterFactor     float64
	logger           marketplace.Logger
	metricsCollector marketplace.MetricsCollector
}

// Option configures retry behavior using the functional options pattern.
type Option func(*config) error

// WithExponentialBackoff calls fn until it succeeds, the attempts are used up, or ctx ends.
//
// Retry schedule (default): 1 s, 2 s, 4 s, 8 s, 16 s, then 30 s capped, each with 30% jitter.
// Context cancellation and deadline errors returned by fn are not retried.
func WithExponentialBackoff(ctx context.Context, operation string, fn RetryableFunc, options ...Option) error {
	if operation == "" {
		return ErrEmptyOperation
	}

	cfg := &config{
		operation:    operation,
		maxAttempts:  defaultMaxAttempts,
		baseDelay:    defaultBaseDelay,
		maxDelay:     defaultMaxDelay,
		jitterFactor: defaultJitterFactor,
	}

	for _, option := range options {
		if err := option(cfg); err != nil {
			return err
		}
	}

	if cfg.maxDelay < cfg.baseDelay {
		return ErrInvalidMaxDelay
	}

	var lastErr error

	for attempt := 1; attempt <= cfg.maxAttempts; attempt++ {
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}

		if !isRetryable(lastErr) || attempt == cfg.maxAttempts {
			return lastErr
		}

		delay := cfg.backoff(attempt)
		cfg.recordRetry(attempt, delay, lastErr)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return errors.Join(ctx.Err(), lastErr)
		}
	}

	return lastErr
}

// backoff returns the delay after the given failed attempt: baseDelay * 2^(attempt-1), capped, plus jitter.
func (c *config) backoff(attempt int) time.Duration {
	delay := c.baseDelay
	for i := 1; i < attempt && delay < c.maxDelay; i++ {
		delay *= 2
	}

	if delay > c.maxDelay {
		delay = c.maxDelay
	}

	jitter := rand.Float64() * float64(delay) * c.jitterFactor //nolint:gosec // jitter only

	return delay + time.Duration(jitter)
}

func (c *config) recordRetry(attempt int, delay time.Duration, err error) {
	if c.logger != nil {
		c.logger.Warn(
			logMsgAttemptFailed,
			logAttrOperation, c.operation,
			logAttrAttempt, attempt,
			logAttrMaxAttempts, c.maxAttempts,
			logAttrRetryInMS, delay.Milliseconds(),
			logAttrError, err.Error(),
		)
	}

	if c.metricsCollector != nil {
		c.metricsCollector.IncrementCounter(MetricRetries, map[string]string{
			marketplace.LabelOperation: c.operation,
			logAttrAttempt:             strconv.Itoa(attempt),
		})
	}
}

func isRetryable(err error) bool {
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// WithMaxAttempts sets the maximum number of attempts.
func WithMaxAttempts(attempts int) Option {
	return func(c *config) error {
		if attempts <= 0 {
			return ErrInvalidMaxAttempts
		}

		c.maxAttempts = attempts

		return nil
	}
}

// WithBaseDelay sets the base delay for exponential backoff.
// Actual delays: baseDelay, baseDelay*2, baseDelay*4, baseDelay*8, etc.
func WithBaseDelay(delay time.Duration) Option {
	return func(c *config) error {
		if delay < 0 {
			return ErrNegativeBaseDelay
		}

		c.baseDelay = delay

		return nil
	}
}

// WithMaxDelay caps the delay between two attempts, jitter excluded.
func WithMaxDelay(delay time.Duration) Option {
	return func(c *config) error {
		if delay < 0 {
			return ErrInvalidMaxDelay
		}

		c.maxDelay = delay

		return nil
	}
}

// WithJitterFactor sets the jitter added as a fraction of the calculated delay.
// Valid range: 0.0 (no jitter) to 1.0 (100% jitter).
func WithJitterFactor(factor float64) Option {
	return func(c *config) error {
		if factor < 0.0 || factor > 1.0 {
			return ErrInvalidJitterFactor
		}

		c.jitterFactor = factor

		return nil
	}
}

// WithLogger logs every failed attempt that will be retried at warn level.
func WithLogger(logger marketplace.Logger) Option {
	return func(c *config) error {
		if logger == nil {
			return marketplace.ErrNilLogger
		}

		c.logger = logger

		return nil
	}
}

// WithMetrics counts retried attempts per operation.
func WithMetrics(collector marketplace.MetricsCollector) Option {
	return func(c *config) error {
		if collector == nil {
			return marketplace.ErrNilMetricsCollector
		}

		c.metricsCollector = collector

		return nil
	}
}
