package marketplace

import (
	"time"
)

// RideStatus is the lifecycle state of a ride.
type RideStatus string

// PaymentType is the way a customer paid for a ride.
type PaymentType string

// EventType is the kind of lifecycle event recorded for a ride.
type EventType string

const (
	RideStatusRequested RideStatus = "requested"
	RideStatusCompleted RideStatus = "completed"

	PaymentCreditCard PaymentType = "credit_card"
	PaymentCash       PaymentType = "cash"
	PaymentAppWallet  PaymentType = "app_wallet"

	EventTypeRequested EventType = "requested"

	// DriverStatusOffline is the only status synthetic drivers are created with.
	DriverStatusOffline = "offline"
)

// PaymentTypes lists every payment type in a stable order.
var PaymentTypes = []PaymentType{PaymentCreditCard, PaymentCash, PaymentAppWallet}

// Driver is a synthetic driver. LicenseNumber is unique within the store.
type Driver struct {
	ID            int64
	FirstName     string
	LastName      string
	LicenseNumber string
	CarModel      string
	CarYear       int
	Rating        float64
	Status        string
}

// Customer is a synthetic rider. Email is unique within the store.
type Customer struct {
	ID        int64
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Rating    float64
}

// Ride is a single trip between two taxi zones.
//
// Completed rides carry all four timestamps, requested rides only RequestedAt.
type Ride struct {
	ID              int64
	CustomerID      int64
	DriverID        int64
	PickupZoneID    int
	DropoffZoneID   int
	Status          RideStatus
	BasePrice       float64
	SurgeMultiplier float64
	FinalPrice      float64
	PassengerCount  int
	PaymentType     PaymentType
	RequestedAt     time.Time
	AcceptedAt      *time.Time
	StartedAt       *time.Time
	CompletedAt     *time.Time
}

// Rides is a collection of Ride.
type Rides []Ride

// RideEvent records a lifecycle transition of a ride.
type RideEvent struct {
	ID        int64
	RideID    int64
	EventType EventType
	CreatedAt time.Time
}

// InsertResult reports the outcome of a bulk insert that skips rows violating a uniqueness constraint.
type InsertResult struct {
	Created []int64
	Skipped int
}
