// Package adapters provide database adapter implementations for the PostgreSQL marketplace store.
//
// Three connection types are supported: pgxpool.Pool, sql.DB, and sqlx.DB.
// Each adapter exposes plain query execution and explicit transactions through
// the DBAdapter and DBTx interfaces, so the store builds its SQL once and runs it
// on whichever connection the caller configured.
package adapters
