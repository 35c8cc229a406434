package synth

import (
	"time"

	"github.com/AntonStoeckl/ridehail-seeder/marketplace"
	"github.com/AntonStoeckl/ridehail-seeder/tripdata"
)

const (
	historicalMinSurge = 1.0
	historicalMaxSurge = 1.5
	liveMinBase        = 5.0
	liveMaxBase        = 60.0
	liveMinSurge       = 1.0
	liveMaxSurge       = 2.5
	liveMinPassengers  = 1
	liveMaxPassengers  = 4
)

// RideBuilder assigns drivers and customers to rides and prices them.
type RideBuilder struct {
	src         Source
	driverIDs   []int64
	customerIDs []int64
}

// NewRideBuilder creates a RideBuilder. Both id pools must be non-empty.
func NewRideBuilder(src Source, driverIDs []int64, customerIDs []int64) (RideBuilder, error) {
	if len(driverIDs) == 0 || len(customerIDs) == 0 {
		return RideBuilder{}, marketplace.ErrEmptyEntityPool
	}

	return RideBuilder{src: src, driverIDs: driverIDs, customerIDs: customerIDs}, nil
}

// Completed turns a cleaned trip into a completed ride with a surge between 1.0 and 1.5.
func (b RideBuilder) Completed(trip tripdata.CleanTrip) marketplace.Ride {
	surge := marketplace.Round2(Uniform(b.src, historicalMinSurge, historicalMaxSurge))

	return marketplace.BuildCompletedRide(
		Pick(b.src, b.customerIDs),
		Pick(b.src, b.driverIDs),
		trip.PickupZoneID,
		trip.DropoffZoneID,
		trip.Fare,
		surge,
		trip.Tip,
		trip.PassengerCount,
		trip.PaymentType,
		trip.PickupAt,
		trip.DropoffAt,
	)
}

// CompletedFrom converts trips in order.
func (b RideBuilder) CompletedFrom(trips []tripdata.CleanTrip) marketplace.Rides {
	rides := make(marketplace.Rides, 0, len(trips))
	for _, trip := range trips {
		rides = append(rides, b.Completed(trip))
	}

	return rides
}

// Requested draws n live rides, all requested at now.
func (b RideBuilder) Requested(n int, now time.Time) marketplace.Rides {
	rides := make(marketplace.Rides, 0, n)

	for range n {
		pickup := IntBetween(b.src, marketplace.MinZoneID, marketplace.MaxZoneID)
		dropoff := IntBetween(b.src, marketplace.MinZoneID, marketplace.MaxZoneID)
		base := marketplace.Round2(Uniform(b.src, liveMinBase, liveMaxBase))
		surge := marketplace.Round2(Uniform(b.src, liveMinSurge, liveMaxSurge))

		rides = append(rides, marketplace.BuildRequestedRide(
			Pick(b.src, b.customerIDs),
			Pick(b.src, b.driverIDs),
			pickup,
			dropoff,
			base,
			surge,
			IntBetween(b.src, liveMinPassengers, liveMaxPassengers),
			Pick(b.src, marketplace.PaymentTypes),
			now,
		))
	}

	return rides
}
