// Package postgreswrapper hides the three supported connection types behind one Wrapper,
// so integration tests run unchanged against pgx, database/sql and sqlx.
//
// The connection type comes from the ADAPTER_TYPE environment variable:
// "pgx.pool" (default), "sql.db" or "sqlx.db".
// Tests are skipped when the database is not reachable.
package postgreswrapper
