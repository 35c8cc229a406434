// Package postgresengine provides the PostgreSQL implementation of the marketplace store.
//
// The store writes drivers, customers, rides and ride events into pre-existing tables
// and reads back the id pools needed to assign rides. It supports multiple database
// adapters (pgx, sql.DB, sqlx) and builds every statement with goqu's postgres dialect.
//
// Key features:
//   - Conflict-tolerant bulk inserts for drivers and customers (ON CONFLICT DO NOTHING RETURNING id)
//   - One transaction per ride batch
//   - Requested rides and their "requested" ride events committed atomically
//   - Optional logging and metrics through dependency-free interfaces
//
// Usage examples:
//
//	pool, _ := pgxpool.NewWithConfig(ctx, pgxConfig)
//	store, _ := postgresengine.NewStoreFromPGXPool(pool)
//
//	// With logging, metrics and a non-default schema
//	store, _ := postgresengine.NewStoreFromPGXPool(
//		pool,
//		postgresengine.WithLogger(slogLogger),
//		postgresengine.WithMetrics(collector),
//		postgresengine.WithSchema("marketplace"),
//	)
//
//	seeded, _ := store.CountRides(ctx)
package postgresengine
