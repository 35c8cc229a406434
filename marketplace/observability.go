package marketplace

import (
	"time"
)

// Logger interface for operational logging, warnings, and error reporting.
// *slog.Logger satisfies it.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// MetricsCollector interface for collecting pipeline performance and operational metrics.
// RecordValue reports quantities that accumulate over a run, like written rows.
type MetricsCollector interface {
	RecordDuration(metric string, duration time.Duration, labels map[string]string)
	IncrementCounter(metric string, labels map[string]string)
	RecordValue(metric string, value float64, labels map[string]string)
}

// Metric names shared by the store, the loader and the producer.
const (
	MetricStoreDuration     = "marketplace_store_duration_seconds"
	MetricStoreErrors       = "marketplace_store_errors_total"
	MetricRowsWritten       = "marketplace_rows_written_total"
	MetricTripsDownloaded   = "marketplace_trips_downloaded_total"
	MetricTripsDropped      = "marketplace_trips_dropped_total"
	MetricLiveCycles        = "marketplace_live_cycles_total"
	MetricLiveCycleFailures = "marketplace_live_cycle_failures_total"
	MetricReconnects        = "marketplace_reconnects_total"

	LabelOperation = "operation"
	LabelTable     = "table"
	LabelStatus    = "status"
	LabelReason    = "reason"

	StatusSuccess = "success"
	StatusError   = "error"
)
