package postgreswrapper

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/ridehail-seeder/marketplace/postgresengine"
	"github.com/AntonStoeckl/ridehail-seeder/testutil/pgtest/config"
)

// Engine type constants
const (
	typePGXPool = "pgx.pool"
	typeSQLDB   = "sql.db"
	typeSQLXDB  = "sqlx.db"
)

//go:embed schema.sql
var schemaSQL string

// Wrapper abstracts over the different connection types.
type Wrapper interface {
	GetStore() postgresengine.Store
	exec(ctx context.Context, query string) error
	queryInt(ctx context.Context, query string) (int64, error)
	Close()
}

// PGXPoolWrapper wraps pgxpool-based testing
type PGXPoolWrapper struct {
	pool  *pgxpool.Pool
	store postgresengine.Store
}

func (w *PGXPoolWrapper) GetStore() postgresengine.Store { return w.store }

func (w *PGXPoolWrapper) Close() { w.pool.Close() }

func (w *PGXPoolWrapper) exec(ctx context.Context, query string) error {
	_, err := w.pool.Exec(ctx, query)
	return err
}

func (w *PGXPoolWrapper) queryInt(ctx context.Context, query string) (int64, error) {
	var n int64
	err := w.pool.QueryRow(ctx, query).Scan(&n)

	return n, err
}

// SQLDBWrapper wraps sql.DB-based testing
type SQLDBWrapper struct {
	db    *sql.DB
	store postgresengine.Store
}

func (w *SQLDBWrapper) GetStore() postgresengine.Store { return w.store }

func (w *SQLDBWrapper) Close() { _ = w.db.Close() }

func (w *SQLDBWrapper) exec(ctx context.Context, query string) error {
	_, err := w.db.ExecContext(ctx, query)
	return err
}

func (w *SQLDBWrapper) queryInt(ctx context.Context, query string) (int64, error) {
	var n int64
	err := w.db.QueryRowContext(ctx, query).Scan(&n)

	return n, err
}

// SQLXWrapper wraps sqlx.DB-based testing
type SQLXWrapper struct {
	db    *sqlx.DB
	store postgresengine.Store
}

func (w *SQLXWrapper) GetStore() postgresengine.Store { return w.store }

func (w *SQLXWrapper) Close() { _ = w.db.Close() }

func (w *SQLXWrapper) exec(ctx context.Context, query string) error {
	_, err := w.db.ExecContext(ctx, query)
	return err
}

func (w *SQLXWrapper) queryInt(ctx context.Context, query string) (int64, error) {
	var n int64
	err := w.db.GetContext(ctx, &n, query)

	return n, err
}

// CreateWrapperWithTestConfig connects with the adapter named by ADAPTER_TYPE, creates the
// schema if needed and empties all tables. It skips t when the database is not reachable.
func CreateWrapperWithTestConfig(t testing.TB, options ...postgresengine.Option) Wrapper {
	t.Helper()

	wrapper := connect(t, options...)
	t.Cleanup(wrapper.Close)

	ctx := context.Background()
	for _, statement := range strings.Split(schemaSQL, ";") {
		if strings.TrimSpace(statement) == "" {
			continue
		}

		require.NoError(t, wrapper.exec(ctx, statement), "error creating the test schema")
	}

	CleanUp(t, wrapper)

	return wrapper
}

func connect(t testing.TB, options ...postgresengine.Option) Wrapper {
	engineTypeFromEnv := strings.ToLower(os.Getenv("ADAPTER_TYPE"))

	switch engineTypeFromEnv {
	case typePGXPool, "":
		pool, err := config.PostgresPGXPoolTestConfig()
		if err != nil {
			t.Skipf("postgres not reachable: %v", err)
		}

		store, err := postgresengine.NewStoreFromPGXPool(pool, options...)
		require.NoError(t, err, "error creating store")

		return &PGXPoolWrapper{pool: pool, store: store}

	case typeSQLDB:
		db, err := config.PostgresSQLDBTestConfig()
		if err != nil {
			t.Skipf("postgres not reachable: %v", err)
		}

		store, err := postgresengine.NewStoreFromSQLDB(db, options...)
		require.NoError(t, err, "error creating store")

		return &SQLDBWrapper{db: db, store: store}

	case typeSQLXDB:
		db, err := config.PostgresSQLXTestConfig()
		if err != nil {
			t.Skipf("postgres not reachable: %v", err)
		}

		store, err := postgresengine.NewStoreFromSQLX(db, options...)
		require.NoError(t, err, "error creating store")

		return &SQLXWrapper{db: db, store: store}

	default: // neither one of the known types nor empty
		panic(fmt.Sprintf("unsupported wrapper type from env: %s", engineTypeFromEnv))
	}
}

// CleanUp empties all marketplace tables and resets their id sequences.
func CleanUp(t testing.TB, wrapper Wrapper) {
	t.Helper()

	err := wrapper.exec(context.Background(), "TRUNCATE TABLE ride_events, rides, customers, drivers RESTART IDENTITY CASCADE")
	require.NoError(t, err, "error cleaning up the marketplace tables")
}

// CountRows returns the number of rows in table.
func CountRows(t testing.TB, wrapper Wrapper, table string) int64 {
	t.Helper()

	n, err := wrapper.queryInt(context.Background(), "SELECT count(*) FROM "+table)
	require.NoError(t, err, "error counting rows in %s", table)

	return n
}

// CountRidesWithoutEvent returns the number of requested rides lacking a requested event
// with the same timestamp.
func CountRidesWithoutEvent(t testing.TB, wrapper Wrapper) int64 {
	t.Helper()

	n, err := wrapper.queryInt(context.Background(), `
		SELECT count(*) FROM rides r
		WHERE r.status = 'requested' AND NOT EXISTS (
			SELECT 1 FROM ride_events e
			WHERE e.ride_id = r.id AND e.event_type = 'requested' AND e.created_at = r.requested_at
		)`)
	require.NoError(t, err, "error counting rides without event")

	return n
}
