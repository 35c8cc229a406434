package livetraffic

import (
	"context"
	"time"

	"github.com/AntonStoeckl/ridehail-seeder/marketplace"
)

// LiveStore is an open handle to the marketplace store.
type LiveStore interface {
	DriverIDs(ctx context.Context) ([]int64, error)
	CustomerIDs(ctx context.Context) ([]int64, error)
	InsertRequestedRides(ctx context.Context, rides marketplace.Rides) (marketplace.Rides, error)
	Close() error
}

// Connector opens fresh store handles.
type Connector interface {
	Open(ctx context.Context) (LiveStore, error)
}

// ConnectorFunc adapts a function to the Connector interface.
type ConnectorFunc func(ctx context.Context) (LiveStore, error)

// Open calls f.
func (f ConnectorFunc) Open(ctx context.Context) (LiveStore, error) {
	return f(ctx)
}

// Publisher announces committed rides to other systems.
type Publisher interface {
	PublishRequested(ctx context.Context, rides marketplace.Rides) error
}

// Clock supplies the current time and waits between cycles.
type Clock interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration) error
}

// SystemClock is the wall clock.
type SystemClock struct{}

// Now returns the current UTC time.
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// Sleep waits for d or until ctx is done.
func (SystemClock) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
