package fakes

import (
	"context"
	"sync"

	"github.com/AntonStoeckl/ridehail-seeder/marketplace"
)

// Store is an in-memory marketplace store. It enforces unique license numbers and emails
// by skipping duplicates, and writes rides with their events atomically.
type Store struct {
	mu         sync.Mutex
	nextID     int64
	drivers    []marketplace.Driver
	customers  []marketplace.Customer
	rides      marketplace.Rides
	events     []marketplace.RideEvent
	closed     bool
	rideInsert int

	// FailRideInsertAt makes the n-th ride insert (1-based, completed or requested) fail with Err.
	FailRideInsertAt int
	// FailIDLoads makes DriverIDs and CustomerIDs fail with Err.
	FailIDLoads bool
	// Err is the error returned by scripted failures.
	Err error
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

// CountRides returns the number of stored rides.
func (s *Store) CountRides(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return int64(len(s.rides)), nil
}

// InsertDrivers stores drivers, skipping duplicate license numbers.
func (s *Store) InsertDrivers(_ context.Context, drivers []marketplace.Driver) (marketplace.InsertResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := marketplace.InsertResult{Created: []int64{}}
	for _, d := range drivers {
		if s.hasLicense(d.LicenseNumber) {
			result.Skipped++
			continue
		}

		d.ID = s.id()
		s.drivers = append(s.drivers, d)
		result.Created = append(result.Created, d.ID)
	}

	return result, nil
}

// InsertCustomers stores customers, skipping duplicate emails.
func (s *Store) InsertCustomers(_ context.Context, customers []marketplace.Customer) (marketplace.InsertResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := marketplace.InsertResult{Created: []int64{}}
	for _, c := range customers {
		if s.hasEmail(c.Email) {
			result.Skipped++
			continue
		}

		c.ID = s.id()
		s.customers = append(s.customers, c)
		result.Created = append(result.Created, c.ID)
	}

	return result, nil
}

// InsertCompletedRides stores rides without events.
func (s *Store) InsertCompletedRides(_ context.Context, rides marketplace.Rides) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.scriptedRideFailure(); err != nil {
		return 0, err
	}

	for _, r := range rides {
		r.ID = s.id()
		s.rides = append(s.rides, r)
	}

	return int64(len(rides)), nil
}

// InsertRequestedRides stores rides and one requested event each, all or nothing.
func (s *Store) InsertRequestedRides(_ context.Context, rides marketplace.Rides) (marketplace.Rides, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, marketplace.ErrPersistenceFailed
	}

	if err := s.scriptedRideFailure(); err != nil {
		return nil, err
	}

	inserted := make(marketplace.Rides, 0, len(rides))
	for _, r := range rides {
		r.ID = s.id()
		s.rides = append(s.rides, r)
		s.events = append(s.events, marketplace.RideEvent{
			ID:        s.id(),
			RideID:    r.ID,
			EventType: marketplace.EventTypeRequested,
			CreatedAt: r.RequestedAt,
		})
		inserted = append(inserted, r)
	}

	return inserted, nil
}

// DriverIDs returns all driver ids in insertion order.
func (s *Store) DriverIDs(_ context.Context) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailIDLoads {
		return nil, s.Err
	}

	ids := make([]int64, 0, len(s.drivers))
	for _, d := range s.drivers {
		ids = append(ids, d.ID)
	}

	return ids, nil
}

// CustomerIDs returns all customer ids in insertion order.
func (s *Store) CustomerIDs(_ context.Context) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailIDLoads {
		return nil, s.Err
	}

	ids := make([]int64, 0, len(s.customers))
	for _, c := range s.customers {
		ids = append(ids, c.ID)
	}

	return ids, nil
}

// Close marks the handle closed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true

	return nil
}

// Closed reports whether Close was called.
func (s *Store) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.closed
}

// Drivers returns a copy of the stored drivers.
func (s *Store) Drivers() []marketplace.Driver {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]marketplace.Driver(nil), s.drivers...)
}

// Customers returns a copy of the stored customers.
func (s *Store) Customers() []marketplace.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]marketplace.Customer(nil), s.customers...)
}

// Rides returns a copy of the stored rides.
func (s *Store) Rides() marketplace.Rides {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append(marketplace.Rides(nil), s.rides...)
}

// Events returns a copy of the stored ride events.
func (s *Store) Events() []marketplace.RideEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]marketplace.RideEvent(nil), s.events...)
}

func (s *Store) scriptedRideFailure() error {
	s.rideInsert++
	if s.FailRideInsertAt != 0 && s.rideInsert == s.FailRideInsertAt {
		return s.Err
	}

	return nil
}

func (s *Store) hasLicense(license string) bool {
	for _, d := range s.drivers {
		if d.LicenseNumber == license {
			return true
		}
	}

	return false
}

func (s *Store) hasEmail(email string) bool {
	for _, c := range s.customers {
		if c.Email == email {
			return true
		}
	}

	return false
}
