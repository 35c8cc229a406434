package postgresengine

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/AntonStoeckl/ridehail-seeder/marketplace"
	"github.com/AntonStoeckl/ridehail-seeder/marketplace/postgresengine/internal/adapters"
)

// logQueryWithDuration logs SQL statements with execution time at debug level if the logger is configured.
func (s Store) logQueryWithDuration(sqlQuery string, action string, duration time.Duration) {
	if s.logger != nil {
		s.logger.Debug(logMsgSQLExecuted+action, logAttrDurationMS, s.toMilliseconds(duration), logAttrQuery, sqlQuery)
	}
}

// logOperation logs operational information at info level if the logger is configured.
func (s Store) logOperation(action string, args ...any) {
	if s.logger != nil {
		s.logger.Info(logMsgOperation+action, args...)
	}
}

// logError logs error information at the error level if the logger is configured.
func (s Store) logError(message string, err error, args ...any) {
	if s.logger != nil {
		allArgs := []any{logAttrError, err.Error()}
		allArgs = append(allArgs, args...)
		s.logger.Error(message, allArgs...)
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func (s Store) toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

// recordDuration records the duration of an operation if the metrics collector is configured.
func (s Store) recordDuration(operation string, duration time.Duration, status string) {
	if s.metricsCollector != nil {
		s.metricsCollector.RecordDuration(marketplace.MetricStoreDuration, duration, map[string]string{
			marketplace.LabelOperation: operation,
			marketplace.LabelStatus:    status,
		})
	}
}

// recordError counts a failed operation if the metrics collector is configured.
func (s Store) recordError(operation string) {
	if s.metricsCollector != nil {
		s.metricsCollector.IncrementCounter(marketplace.MetricStoreErrors, map[string]string{
			marketplace.LabelOperation: operation,
		})
	}
}

// recordRowsWritten records how many rows an insert created if the metrics collector is configured.
func (s Store) recordRowsWritten(table string, rows int) {
	if s.metricsCollector != nil {
		s.metricsCollector.RecordValue(marketplace.MetricRowsWritten, float64(rows), map[string]string{
			marketplace.LabelTable: table,
		})
	}
}

// closeRows closes database rows and logs any errors.
func (s Store) closeRows(rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		if s.logger != nil {
			s.logger.Warn(logMsgCloseRowsFailed, logAttrError, closeErr.Error())
		}
	}
}

// rollback aborts tx unless it was already committed and logs unexpected failures.
func (s Store) rollback(ctx context.Context, tx adapters.DBTx) {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, adapters.ErrTxDone) {
		if s.logger != nil {
			s.logger.Warn(logMsgRollbackFailed, logAttrError, err.Error())
		}
	}
}
