package config

import (
	"context"
	"fmt"

	"github.com/AntonStoeckl/ridehail-seeder/marketplace/postgresengine"
)

// StoreHandle is a Store together with the connection it owns.
type StoreHandle struct {
	postgresengine.Store
	close func() error
}

// Close releases the underlying connection.
func (h *StoreHandle) Close() error {
	if h.close == nil {
		return nil
	}

	return h.close()
}

// OpenStore connects with the adapter selected by c.Adapter and wraps the connection in a Store.
func OpenStore(ctx context.Context, c DBConfig, options ...postgresengine.Option) (*StoreHandle, error) {
	switch c.Adapter {
	case AdapterPGX, "":
		pool, err := OpenPGXPool(ctx, c)
		if err != nil {
			return nil, err
		}

		store, err := postgresengine.NewStoreFromPGXPool(pool, options...)
		if err != nil {
			pool.Close()
			return nil, err
		}

		return &StoreHandle{Store: store, close: func() error { pool.Close(); return nil }}, nil

	case AdapterSQL:
		db, err := OpenSQLDB(ctx, c)
		if err != nil {
			return nil, err
		}

		store, err := postgresengine.NewStoreFromSQLDB(db, options...)
		if err != nil {
			_ = db.Close()
			return nil, err
		}

		return &StoreHandle{Store: store, close: db.Close}, nil

	case AdapterSQLX:
		db, err := OpenSQLX(ctx, c)
		if err != nil {
			return nil, err
		}

		store, err := postgresengine.NewStoreFromSQLX(db, options...)
		if err != nil {
			_ = db.Close()
			return nil, err
		}

		return &StoreHandle{Store: store, close: db.Close}, nil

	default:
		return nil, fmt.Errorf("%w: DB_ADAPTER %q", ErrInvalidSetting, c.Adapter)
	}
}
