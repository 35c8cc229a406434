package retry

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/ridehail-seeder/marketplace"
	. "github.com/AntonStoeckl/ridehail-seeder/testutil/observability" //nolint:revive
)

var errConnectionRefused = errors.New("connection refused")

func Test_WithExponentialBackoff_Success_NoRetries(t *testing.T) {
	callCount := 0

	fn := func(_ context.Context) error {
		callCount++
		return nil
	}

	err := WithExponentialBackoff(context.Background(), "database_connect", fn)

	assert.NoError(t, err)
	assert.Equal(t, 1, callCount)
}

func Test_WithExponentialBackoff_RetriesUntilSuccess(t *testing.T) {
	callCount := 0
	logger, logSpy := NewLogger()
	metricsSpy := NewMetricsCollectorSpy()

	fn := func(_ context.Context) error {
		callCount++
		if callCount < 3 {
			return errConnectionRefused
		}
		return nil
	}

	err := WithExponentialBackoff(context.Background(), "database_connect", fn,
		WithBaseDelay(time.Millisecond),
		WithMaxDelay(5*time.Millisecond),
		WithLogger(logger),
		WithMetrics(metricsSpy),
	)

	assert.NoError(t, err)
	assert.Equal(t, 3, callCount)
	assert.Equal(t, 2, logSpy.CountMessages(slog.LevelWarn, "attempt failed, retrying"))
	assert.True(t, logSpy.HasWarnLogWithMessage("attempt failed, retrying").
		WithAttr("operation", "database_connect").
		WithAttr("attempt", "2").
		WithAttr("error", "connection refused").
		WithAttrKey("retry_in_ms").
		Assert())
	assert.Equal(t, 2, metricsSpy.CountCounterRecordsForMetric(MetricRetries))
	assert.True(t, metricsSpy.HasCounterRecordForMetric(MetricRetries).
		WithLabel(marketplace.LabelOperation, "database_connect").
		Assert())
}

func Test_WithExponentialBackoff_ReturnsLastErrorWhenAttemptsAreUsedUp(t *testing.T) {
	callCount := 0

	fn := func(_ context.Context) error {
		callCount++
		return errConnectionRefused
	}

	err := WithExponentialBackoff(context.Background(), "rabbitmq_dial", fn,
		WithMaxAttempts(3),
		WithBaseDelay(time.Millisecond),
		WithMaxDelay(time.Millisecond),
	)

	assert.ErrorIs(t, err, errConnectionRefused)
	assert.Equal(t, 3, callCount)
}

func Test_WithExponentialBackoff_DoesNotRetryContextErrors(t *testing.T) {
	callCount := 0

	fn := func(_ context.Context) error {
		callCount++
		return context.DeadlineExceeded
	}

	err := WithExponentialBackoff(context.Background(), "database_connect", fn, WithBaseDelay(time.Millisecond))

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, callCount)
}

func Test_WithExponentialBackoff_StopsWaitingWhenContextEnds(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	callCount := 0

	fn := func(_ context.Context) error {
		callCount++
		cancel()
		return errConnectionRefused
	}

	err := WithExponentialBackoff(ctx, "database_connect", fn, WithBaseDelay(time.Hour), WithMaxDelay(time.Hour))

	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, errConnectionRefused)
	assert.Equal(t, 1, callCount)
}

func Test_Backoff_DoublesAndCaps(t *testing.T) {
	cfg := &config{baseDelay: time.Second, maxDelay: 5 * time.Second}

	assert.Equal(t, time.Second, cfg.backoff(1))
	assert.Equal(t, 2*time.Second, cfg.backoff(2))
	assert.Equal(t, 4*time.Second, cfg.backoff(3))
	assert.Equal(t, 5*time.Second, cfg.backoff(4))
	assert.Equal(t, 5*time.Second, cfg.backoff(10))
}

func Test_Backoff_AddsBoundedJitter(t *testing.T) {
	cfg := &config{baseDelay: time.Second, maxDelay: 30 * time.Second, jitterFactor: 0.3}

	for range 50 {
		delay := cfg.backoff(2)
		assert.GreaterOrEqual(t, delay, 2*time.Second)
		assert.LessOrEqual(t, delay, 2600*time.Millisecond)
	}
}

func Test_WithExponentialBackoff_InvalidOptions(t *testing.T) {
	ctx := context.Background()
	fn := func(_ context.Context) error { return nil }

	tests := []struct {
		name        string
		operation   string
		options     []Option
		expectedErr error
	}{
		{name: "empty operation", operation: "", expectedErr: ErrEmptyOperation},
		{name: "zero attempts", operation: "op", options: []Option{WithMaxAttempts(0)}, expectedErr: ErrInvalidMaxAttempts},
		{name: "negative base delay", operation: "op", options: []Option{WithBaseDelay(-time.Second)}, expectedErr: ErrNegativeBaseDelay},
		{name: "max below base", operation: "op", options: []Option{WithBaseDelay(time.Minute), WithMaxDelay(time.Second)}, expectedErr: ErrInvalidMaxDelay},
		{name: "jitter too large", operation: "op", options: []Option{WithJitterFactor(1.5)}, expectedErr: ErrInvalidJitterFactor},
		{name: "nil logger", operation: "op", options: []Option{WithLogger(nil)}, expectedErr: marketplace.ErrNilLogger},
		{name: "nil metrics", operation: "op", options: []Option{WithMetrics(nil)}, expectedErr: marketplace.ErrNilMetricsCollector},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := WithExponentialBackoff(ctx, tc.operation, fn, tc.options...)

			assert.ErrorIs(t, err, tc.expectedErr)
		})
	}
}
