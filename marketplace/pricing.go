package marketplace

import (
	"math"
	"time"
)

// Round2 rounds v to two decimal places, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// FinalPrice computes the amount charged for a ride: base times surge plus tip, rounded to cents.
func FinalPrice(base, surge, tip float64) float64 {
	return Round2(base*surge + tip)
}

// BuildCompletedRide assembles a historical ride. Requested, accepted and started all share the pickup time.
// A missing dropoff time leaves CompletedAt empty.
func BuildCompletedRide(
	customerID int64,
	driverID int64,
	pickupZoneID int,
	dropoffZoneID int,
	fare float64,
	surge float64,
	tip float64,
	passengerCount int,
	paymentType PaymentType,
	pickupAt time.Time,
	dropoffAt *time.Time,
) Ride {
	accepted := pickupAt
	started := pickupAt

	var completed *time.Time
	if dropoffAt != nil {
		at := *dropoffAt
		completed = &at
	}

	return Ride{
		CustomerID:      customerID,
		DriverID:        driverID,
		PickupZoneID:    pickupZoneID,
		DropoffZoneID:   dropoffZoneID,
		Status:          RideStatusCompleted,
		BasePrice:       Round2(fare),
		SurgeMultiplier: surge,
		FinalPrice:      Round2(fare*surge + tip),
		PassengerCount:  passengerCount,
		PaymentType:     paymentType,
		RequestedAt:     pickupAt,
		AcceptedAt:      &accepted,
		StartedAt:       &started,
		CompletedAt:     completed,
	}
}

// BuildRequestedRide assembles a live ride that was just requested and has no driver progress yet.
func BuildRequestedRide(
	customerID int64,
	driverID int64,
	pickupZoneID int,
	dropoffZoneID int,
	base float64,
	surge float64,
	passengerCount int,
	paymentType PaymentType,
	requestedAt time.Time,
) Ride {
	return Ride{
		CustomerID:      customerID,
		DriverID:        driverID,
		PickupZoneID:    pickupZoneID,
		DropoffZoneID:   dropoffZoneID,
		Status:          RideStatusRequested,
		BasePrice:       base,
		SurgeMultiplier: surge,
		FinalPrice:      FinalPrice(base, surge, 0),
		PassengerCount:  passengerCount,
		PaymentType:     paymentType,
		RequestedAt:     requestedAt,
	}
}
