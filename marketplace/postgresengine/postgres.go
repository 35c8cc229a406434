package postgresengine

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/AntonStoeckl/ridehail-seeder/marketplace"
	"github.com/AntonStoeckl/ridehail-seeder/marketplace/postgresengine/internal/adapters"
)

const (
	logMsgBuildQueryFailed   = "failed to build sql statement"
	logMsgDBQueryFailed      = "database query execution failed"
	logMsgDBExecFailed       = "database execution failed"
	logMsgBeginTxFailed      = "failed to begin transaction"
	logMsgCommitFailed       = "failed to commit transaction"
	logMsgRollbackFailed     = "failed to roll back transaction"
	logMsgCloseRowsFailed    = "failed to close database rows"
	logMsgScanRowFailed      = "failed to scan database row"
	logMsgRowsAffectedFailed = "failed to get rows affected count"
	logMsgIDCountMismatch    = "returned ride ids do not match inserted rides"
	logMsgRidesCounted       = "rides counted"
	logMsgDriversInserted    = "drivers inserted"
	logMsgCustomersInserted  = "customers inserted"
	logMsgIDsLoaded          = "ids loaded"
	logMsgCompletedInserted  = "completed rides inserted"
	logMsgRequestedInserted  = "requested rides inserted"
	logMsgSQLExecuted        = "executed sql for: "
	logMsgOperation          = "store operation: "
	logAttrError             = "error"
	logAttrQuery             = "query"
	logAttrTable             = "table"
	logAttrRowCount          = "row_count"
	logAttrCreated           = "created"
	logAttrSkipped           = "skipped"
	logAttrDurationMS        = "duration_ms"
	opCountRides             = "count_rides"
	opInsertDrivers          = "insert_drivers"
	opInsertCustomers        = "insert_customers"
	opLoadIDs                = "load_ids"
	opInsertCompleted        = "insert_completed_rides"
	opInsertRequested        = "insert_requested_rides"
	opPing                   = "ping"
)

var (
	// ErrEmptySchemaName is returned when an empty schema name is supplied to WithSchema.
	ErrEmptySchemaName = errors.New("empty schema name supplied")

	// ErrRideIDCountMismatch is returned when the database returned fewer ride ids than rides were inserted.
	ErrRideIDCountMismatch = errors.New("number of returned ride ids does not match inserted rides")
)

// Store persists marketplace entities into PostgreSQL.
type Store struct {
	db               adapters.DBAdapter
	schema           string
	logger           marketplace.Logger
	metricsCollector marketplace.MetricsCollector
}

// NewStoreFromPGXPool creates a new Store using a pgx Pool with optional configuration.
func NewStoreFromPGXPool(db *pgxpool.Pool, options ...Option) (Store, error) {
	if db == nil {
		return Store{}, marketplace.ErrNilDatabaseConnection
	}

	return newStore(adapters.NewPGXAdapter(db), options...)
}

// NewStoreFromSQLDB creates a new Store using a sql.DB with optional configuration.
func NewStoreFromSQLDB(db *sql.DB, options ...Option) (Store, error) {
	if db == nil {
		return Store{}, marketplace.ErrNilDatabaseConnection
	}

	return newStore(adapters.NewSQLAdapter(db), options...)
}

// NewStoreFromSQLX creates a new Store using a sqlx.DB with optional configuration.
func NewStoreFromSQLX(db *sqlx.DB, options ...Option) (Store, error) {
	if db == nil {
		return Store{}, marketplace.ErrNilDatabaseConnection
	}

	return newStore(adapters.NewSQLXAdapter(db), options...)
}

func newStore(db adapters.DBAdapter, options ...Option) (Store, error) {
	s := Store{db: db}

	for _, option := range options {
		if err := option(&s); err != nil {
			return Store{}, err
		}
	}

	return s, nil
}

// Ping checks that the database answers a trivial query.
func (s Store) Ping(ctx context.Context) error {
	sqlQuery, buildErr := s.buildPingQuery()
	if buildErr != nil {
		return s.buildFailed(opPing, buildErr)
	}

	rows, _, queryErr := s.query(ctx, s.db, sqlQuery, opPing)
	if queryErr != nil {
		return queryErr
	}
	s.closeRows(rows)

	return nil
}

// CountRides returns the number of rows in the rides table.
func (s Store) CountRides(ctx context.Context) (int64, error) {
	sqlQuery, buildErr := s.buildCountRidesQuery()
	if buildErr != nil {
		return 0, s.buildFailed(opCountRides, buildErr)
	}

	rows, duration, queryErr := s.query(ctx, s.db, sqlQuery, opCountRides)
	if queryErr != nil {
		return 0, queryErr
	}
	defer s.closeRows(rows)

	var count int64
	for rows.Next() {
		if scanErr := rows.Scan(&count); scanErr != nil {
			return 0, s.scanFailed(opCountRides, scanErr)
		}
	}

	if iterErr := rows.Err(); iterErr != nil {
		return 0, s.scanFailed(opCountRides, iterErr)
	}

	s.logOperation(logMsgRidesCounted, logAttrRowCount, count, logAttrDurationMS, s.toMilliseconds(duration))

	return count, nil
}

// InsertDrivers inserts drivers in one statement. Drivers whose license number already exists are skipped.
func (s Store) InsertDrivers(ctx context.Context, drivers []marketplace.Driver) (marketplace.InsertResult, error) {
	if len(drivers) == 0 {
		return marketplace.InsertResult{Created: []int64{}}, nil
	}

	sqlQuery, buildErr := s.buildInsertDriversQuery(drivers)
	if buildErr != nil {
		return marketplace.InsertResult{}, s.buildFailed(opInsertDrivers, buildErr)
	}

	created, duration, err := s.insertReturningIDs(ctx, s.db, sqlQuery, opInsertDrivers)
	if err != nil {
		return marketplace.InsertResult{}, err
	}

	result := marketplace.InsertResult{Created: created, Skipped: len(drivers) - len(created)}
	s.recordRowsWritten(tableDrivers, len(created))
	s.logOperation(
		logMsgDriversInserted,
		logAttrCreated, len(result.Created),
		logAttrSkipped, result.Skipped,
		logAttrDurationMS, s.toMilliseconds(duration),
	)

	return result, nil
}

// InsertCustomers inserts customers in one statement. Customers whose email already exists are skipped.
func (s Store) InsertCustomers(ctx context.Context, customers []marketplace.Customer) (marketplace.InsertResult, error) {
	if len(customers) == 0 {
		return marketplace.InsertResult{Created: []int64{}}, nil
	}

	sqlQuery, buildErr := s.buildInsertCustomersQuery(customers)
	if buildErr != nil {
		return marketplace.InsertResult{}, s.buildFailed(opInsertCustomers, buildErr)
	}

	created, duration, err := s.insertReturningIDs(ctx, s.db, sqlQuery, opInsertCustomers)
	if err != nil {
		return marketplace.InsertResult{}, err
	}

	result := marketplace.InsertResult{Created: created, Skipped: len(customers) - len(created)}
	s.recordRowsWritten(tableCustomers, len(created))
	s.logOperation(
		logMsgCustomersInserted,
		logAttrCreated, len(result.Created),
		logAttrSkipped, result.Skipped,
		logAttrDurationMS, s.toMilliseconds(duration),
	)

	return result, nil
}

// DriverIDs returns the ids of all drivers in ascending order.
func (s Store) DriverIDs(ctx context.Context) ([]int64, error) {
	return s.loadIDs(ctx, tableDrivers)
}

// CustomerIDs returns the ids of all customers in ascending order.
func (s Store) CustomerIDs(ctx context.Context) ([]int64, error) {
	return s.loadIDs(ctx, tableCustomers)
}

func (s Store) loadIDs(ctx context.Context, table string) ([]int64, error) {
	sqlQuery, buildErr := s.buildSelectIDsQuery(table)
	if buildErr != nil {
		return nil, s.buildFailed(opLoadIDs, buildErr)
	}

	rows, duration, queryErr := s.query(ctx, s.db, sqlQuery, opLoadIDs)
	if queryErr != nil {
		return nil, queryErr
	}
	defer s.closeRows(rows)

	ids, scanErr := s.scanIDs(rows, opLoadIDs)
	if scanErr != nil {
		return nil, scanErr
	}

	s.logOperation(logMsgIDsLoaded, logAttrTable, table, logAttrRowCount, len(ids), logAttrDurationMS, s.toMilliseconds(duration))

	return ids, nil
}

// InsertCompletedRides inserts historical rides in a single transaction and returns the number of rows written.
// No ride events are written for completed rides.
func (s Store) InsertCompletedRides(ctx context.Context, rides marketplace.Rides) (int64, error) {
	if len(rides) == 0 {
		return 0, nil
	}

	sqlQuery, buildErr := s.buildInsertRidesQuery(rides, false)
	if buildErr != nil {
		return 0, s.buildFailed(opInsertCompleted, buildErr)
	}

	start := time.Now()

	tx, beginErr := s.begin(ctx, opInsertCompleted)
	if beginErr != nil {
		return 0, beginErr
	}
	defer s.rollback(ctx, tx)

	result, _, execErr := s.exec(ctx, tx, sqlQuery, opInsertCompleted)
	if execErr != nil {
		return 0, execErr
	}

	rowsAffected, rowsAffectedErr := result.RowsAffected()
	if rowsAffectedErr != nil {
		s.logError(logMsgRowsAffectedFailed, rowsAffectedErr)
		s.recordError(opInsertCompleted)

		return 0, errors.Join(marketplace.ErrPersistenceFailed, rowsAffectedErr)
	}

	if commitErr := s.commit(ctx, tx, opInsertCompleted); commitErr != nil {
		return 0, commitErr
	}

	duration := time.Since(start)
	s.recordRowsWritten(tableRides, int(rowsAffected))
	s.logOperation(logMsgCompletedInserted, logAttrRowCount, rowsAffected, logAttrDurationMS, s.toMilliseconds(duration))

	return rowsAffected, nil
}

// InsertRequestedRides inserts live rides and one "requested" ride event per ride in a single transaction.
// The returned rides carry their generated ids. Each event is stamped with its ride's RequestedAt.
func (s Store) InsertRequestedRides(ctx context.Context, rides marketplace.Rides) (marketplace.Rides, error) {
	if len(rides) == 0 {
		return marketplace.Rides{}, nil
	}

	ridesQuery, buildErr := s.buildInsertRidesQuery(rides, true)
	if buildErr != nil {
		return nil, s.buildFailed(opInsertRequested, buildErr)
	}

	start := time.Now()

	tx, beginErr := s.begin(ctx, opInsertRequested)
	if beginErr != nil {
		return nil, beginErr
	}
	defer s.rollback(ctx, tx)

	rideIDs, _, insertErr := s.insertReturningIDs(ctx, tx, ridesQuery, opInsertRequested)
	if insertErr != nil {
		return nil, insertErr
	}

	if len(rideIDs) != len(rides) {
		s.logError(logMsgIDCountMismatch, ErrRideIDCountMismatch, logAttrRowCount, len(rideIDs))
		s.recordError(opInsertRequested)

		return nil, errors.Join(marketplace.ErrPersistenceFailed, ErrRideIDCountMismatch)
	}

	stored := make(marketplace.Rides, len(rides))
	events := make([]marketplace.RideEvent, len(rides))
	for i, ride := range rides {
		ride.ID = rideIDs[i]
		stored[i] = ride
		events[i] = marketplace.RideEvent{
			RideID:    ride.ID,
			EventType: marketplace.EventTypeRequested,
			CreatedAt: ride.RequestedAt,
		}
	}

	eventsQuery, buildEventsErr := s.buildInsertRideEventsQuery(events)
	if buildEventsErr != nil {
		return nil, s.buildFailed(opInsertRequested, buildEventsErr)
	}

	if _, _, execErr := s.exec(ctx, tx, eventsQuery, opInsertRequested); execErr != nil {
		return nil, execErr
	}

	if commitErr := s.commit(ctx, tx, opInsertRequested); commitErr != nil {
		return nil, commitErr
	}

	duration := time.Since(start)
	s.recordRowsWritten(tableRides, len(stored))
	s.recordRowsWritten(tableRideEvents, len(events))
	s.logOperation(logMsgRequestedInserted, logAttrRowCount, len(stored), logAttrDurationMS, s.toMilliseconds(duration))

	return stored, nil
}

// queryRunner is satisfied by both the adapter and an open transaction.
type queryRunner interface {
	Query(ctx context.Context, query string) (adapters.DBRows, error)
	Exec(ctx context.Context, query string) (adapters.DBResult, error)
}

// query executes sqlQuery and returns rows with timing information.
func (s Store) query(ctx context.Context, runner queryRunner, sqlQuery string, operation string) (
	adapters.DBRows,
	time.Duration,
	error,
) {
	start := time.Now()
	rows, queryErr := runner.Query(ctx, sqlQuery)
	duration := time.Since(start)
	s.logQueryWithDuration(sqlQuery, operation, duration)

	if queryErr != nil {
		s.logError(logMsgDBQueryFailed, queryErr, logAttrQuery, sqlQuery)
		s.recordError(operation)
		s.recordDuration(operation, duration, marketplace.StatusError)

		return nil, duration, errors.Join(s.failureFor(operation), queryErr)
	}

	s.recordDuration(operation, duration, marketplace.StatusSuccess)

	return rows, duration, nil
}

// exec executes sqlQuery and returns the result with timing information.
func (s Store) exec(ctx context.Context, runner queryRunner, sqlQuery string, operation string) (
	adapters.DBResult,
	time.Duration,
	error,
) {
	start := time.Now()
	result, execErr := runner.Exec(ctx, sqlQuery)
	duration := time.Since(start)
	s.logQueryWithDuration(sqlQuery, operation, duration)

	if execErr != nil {
		s.logError(logMsgDBExecFailed, execErr, logAttrQuery, sqlQuery)
		s.recordError(operation)
		s.recordDuration(operation, duration, marketplace.StatusError)

		return nil, duration, errors.Join(marketplace.ErrPersistenceFailed, execErr)
	}

	s.recordDuration(operation, duration, marketplace.StatusSuccess)

	return result, duration, nil
}

// insertReturningIDs runs an INSERT ... RETURNING id statement and collects the ids.
func (s Store) insertReturningIDs(ctx context.Context, runner queryRunner, sqlQuery string, operation string) (
	[]int64,
	time.Duration,
	error,
) {
	rows, duration, queryErr := s.query(ctx, runner, sqlQuery, operation)
	if queryErr != nil {
		return nil, duration, queryErr
	}
	defer s.closeRows(rows)

	ids, scanErr := s.scanIDs(rows, operation)
	if scanErr != nil {
		return nil, duration, scanErr
	}

	return ids, duration, nil
}

func (s Store) scanIDs(rows adapters.DBRows, operation string) ([]int64, error) {
	ids := make([]int64, 0)

	for rows.Next() {
		var id int64
		if scanErr := rows.Scan(&id); scanErr != nil {
			return nil, s.scanFailed(operation, scanErr)
		}

		ids = append(ids, id)
	}

	if iterErr := rows.Err(); iterErr != nil {
		return nil, s.scanFailed(operation, iterErr)
	}

	return ids, nil
}

func (s Store) begin(ctx context.Context, operation string) (adapters.DBTx, error) {
	tx, beginErr := s.db.Begin(ctx)
	if beginErr != nil {
		s.logError(logMsgBeginTxFailed, beginErr)
		s.recordError(operation)

		return nil, errors.Join(marketplace.ErrPersistenceFailed, beginErr)
	}

	return tx, nil
}

func (s Store) commit(ctx context.Context, tx adapters.DBTx, operation string) error {
	if commitErr := tx.Commit(ctx); commitErr != nil {
		s.logError(logMsgCommitFailed, commitErr)
		s.recordError(operation)

		return errors.Join(marketplace.ErrPersistenceFailed, commitErr)
	}

	return nil
}

func (s Store) buildFailed(operation string, err error) error {
	s.logError(logMsgBuildQueryFailed, err)
	s.recordError(operation)

	return errors.Join(s.failureFor(operation), err)
}

func (s Store) scanFailed(operation string, err error) error {
	s.logError(logMsgScanRowFailed, err)
	s.recordError(operation)

	return errors.Join(s.failureFor(operation), err)
}

// failureFor maps an operation to the sentinel callers classify it by.
func (s Store) failureFor(operation string) error {
	switch operation {
	case opCountRides, opLoadIDs, opPing:
		return marketplace.ErrQueryingFailed
	default:
		return marketplace.ErrPersistenceFailed
	}
}
