package marketplace

import (
	"errors"
)

var (
	// ErrTransferFailed is returned when a trip dataset could not be downloaded or decoded.
	ErrTransferFailed = errors.New("transferring trip dataset failed")

	// ErrPersistenceFailed is returned when writing to the marketplace store failed.
	ErrPersistenceFailed = errors.New("persisting marketplace data failed")

	// ErrQueryingFailed is returned when reading from the marketplace store failed.
	ErrQueryingFailed = errors.New("querying marketplace data failed")

	// ErrEmptyEntityPool is returned when rides should be built but no driver or customer ids are available.
	ErrEmptyEntityPool = errors.New("driver or customer pool is empty")

	// ErrNilDatabaseConnection is returned when a nil database connection is supplied.
	ErrNilDatabaseConnection = errors.New("database connection must not be nil")

	// ErrNilLogger is returned when a nil logger is supplied to an option.
	ErrNilLogger = errors.New("logger must not be nil")

	// ErrNilMetricsCollector is returned when a nil metrics collector is supplied to an option.
	ErrNilMetricsCollector = errors.New("metrics collector must not be nil")
)
