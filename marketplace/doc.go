// Package marketplace provides the core types of the ride-hailing marketplace that is seeded
// and continuously fed by this module.
//
// This package defines the entities persisted by the store implementations
// (drivers, customers, rides, ride events), the closed vocabularies used by them
// (ride status, payment type, event type, zone range), pricing helpers,
// and the common error definitions shared by all pipelines.
//
// Key types:
//   - Driver, Customer: synthetic participants referenced by rides
//   - Ride: one trip, either a completed historical ride or a freshly requested live ride
//   - RideEvent: lifecycle record written together with every live ride
//   - InsertResult: outcome of a conflict-tolerant bulk insert
//
// Common usage pattern:
//
//	ride := marketplace.BuildCompletedRide(
//		customerID, driverID, trip.PickupZoneID, trip.DropoffZoneID,
//		trip.Fare, surge, trip.Tip, trip.PassengerCount, trip.PaymentType,
//		trip.PickupAt, trip.DropoffAt,
//	)
//	// ride.FinalPrice == marketplace.Round2(trip.Fare*surge + trip.Tip)
package marketplace
