package fixtures

import (
	"fmt"
	"time"

	"github.com/AntonStoeckl/ridehail-seeder/marketplace"
	"github.com/AntonStoeckl/ridehail-seeder/tripdata"
)

// FixedTime is a stable reference instant for tests.
var FixedTime = time.Date(2024, time.January, 15, 8, 30, 0, 0, time.UTC)

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}

// Time returns a pointer to t.
func Time(t time.Time) *time.Time {
	return &t
}

// RawTripOption modifies a RawTrip built by GivenRawTrip.
type RawTripOption func(*tripdata.RawTrip)

// GivenRawTrip returns a complete, valid TLC trip: zone 100 to 200, fare 12.5, tip 2,
// one passenger, credit card, picked up at FixedTime and dropped off 15 minutes later.
func GivenRawTrip(options ...RawTripOption) tripdata.RawTrip {
	trip := tripdata.RawTrip{
		PickupZoneID:   Float(100),
		DropoffZoneID:  Float(200),
		PassengerCount: Float(1),
		FareAmount:     Float(12.5),
		TipAmount:      Float(2),
		PaymentType:    Float(1),
		PickupAt:       Time(FixedTime),
		DropoffAt:      Time(FixedTime.Add(15 * time.Minute)),
	}

	for _, option := range options {
		option(&trip)
	}

	return trip
}

// WithZones sets pickup and dropoff zones.
func WithZones(pickup, dropoff *float64) RawTripOption {
	return func(t *tripdata.RawTrip) {
		t.PickupZoneID = pickup
		t.DropoffZoneID = dropoff
	}
}

// WithFare sets the fare.
func WithFare(fare *float64) RawTripOption {
	return func(t *tripdata.RawTrip) { t.FareAmount = fare }
}

// WithTip sets the tip.
func WithTip(tip *float64) RawTripOption {
	return func(t *tripdata.RawTrip) { t.TipAmount = tip }
}

// WithPassengers sets the passenger count.
func WithPassengers(n *float64) RawTripOption {
	return func(t *tripdata.RawTrip) { t.PassengerCount = n }
}

// WithPaymentCode sets the TLC payment code.
func WithPaymentCode(code *float64) RawTripOption {
	return func(t *tripdata.RawTrip) { t.PaymentType = code }
}

// WithPickupAt sets the pickup time.
func WithPickupAt(at *time.Time) RawTripOption {
	return func(t *tripdata.RawTrip) { t.PickupAt = at }
}

// WithDropoffAt sets the dropoff time.
func WithDropoffAt(at *time.Time) RawTripOption {
	return func(t *tripdata.RawTrip) { t.DropoffAt = at }
}

// GivenRawTrips returns n valid trips picked up one minute apart.
func GivenRawTrips(n int) []tripdata.RawTrip {
	trips := make([]tripdata.RawTrip, 0, n)
	for i := range n {
		pickup := FixedTime.Add(time.Duration(i) * time.Minute)
		trips = append(trips, GivenRawTrip(
			WithPickupAt(Time(pickup)),
			WithDropoffAt(Time(pickup.Add(10*time.Minute))),
		))
	}

	return trips
}

// GivenCleanTrip returns the cleaned form of GivenRawTrip().
func GivenCleanTrip() tripdata.CleanTrip {
	return tripdata.CleanTrip{
		PickupZoneID:   100,
		DropoffZoneID:  200,
		PassengerCount: 1,
		Fare:           12.5,
		Tip:            2,
		PaymentType:    marketplace.PaymentCreditCard,
		PickupAt:       FixedTime,
		DropoffAt:      Time(FixedTime.Add(15 * time.Minute)),
	}
}

// GivenDrivers returns n drivers with distinct license numbers.
func GivenDrivers(n int) []marketplace.Driver {
	drivers := make([]marketplace.Driver, 0, n)
	for i := range n {
		drivers = append(drivers, marketplace.Driver{
			FirstName:     "Driver",
			LastName:      fmt.Sprintf("No%d", i),
			LicenseNumber: fmt.Sprintf("TLC-%05dAB", i),
			CarModel:      "Toyota Camry",
			CarYear:       2020,
			Rating:        4.5,
			Status:        marketplace.DriverStatusOffline,
		})
	}

	return drivers
}

// GivenCustomers returns n customers with distinct emails.
func GivenCustomers(n int) []marketplace.Customer {
	customers := make([]marketplace.Customer, 0, n)
	for i := range n {
		customers = append(customers, marketplace.Customer{
			FirstName: "Customer",
			LastName:  fmt.Sprintf("No%d", i),
			Email:     fmt.Sprintf("customer%d@example.com", i),
			Phone:     "555-010-0000",
			Rating:    4.2,
		})
	}

	return customers
}
