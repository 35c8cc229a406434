package adapters

import (
	"context"
	"database/sql"
)

var (
	_ DBAdapter = (*SQLAdapter)(nil)
	_ DBAdapter = (*SQLXAdapter)(nil)
	_ DBTx      = (*stdTx)(nil)
)

// SQLAdapter runs marketplace statements through a database/sql handle opened with lib/pq.
type SQLAdapter struct {
	db *sql.DB
}

// NewSQLAdapter wraps db.
func NewSQLAdapter(db *sql.DB) *SQLAdapter {
	return &SQLAdapter{db: db}
}

// Query runs a statement that returns rows, such as INSERT ... RETURNING.
func (a *SQLAdapter) Query(ctx context.Context, query string) (DBRows, error) {
	rows, err := a.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}

	return &stdRows{rows: rows}, nil
}

// Exec runs a statement that returns no rows.
func (a *SQLAdapter) Exec(ctx context.Context, query string) (DBResult, error) {
	result, err := a.db.ExecContext(ctx, query)
	if err != nil {
		return nil, err
	}

	return &stdResult{result: result}, nil
}

// Begin opens a transaction with the default isolation level.
func (a *SQLAdapter) Begin(ctx context.Context) (DBTx, error) {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	return &stdTx{tx: tx}, nil
}
