package notify

import (
	"time"

	"github.com/AntonStoeckl/ridehail-seeder/marketplace"
)

// RequestedMessage is the json body of a ride.requested message.
type RequestedMessage struct {
	RideID          int64     `json:"ride_id"`
	CustomerID      int64     `json:"customer_id"`
	DriverID        int64     `json:"driver_id"`
	PickupZoneID    int       `json:"pickup_zone_id"`
	DropoffZoneID   int       `json:"dropoff_zone_id"`
	Status          string    `json:"status"`
	BasePrice       float64   `json:"base_price"`
	SurgeMultiplier float64   `json:"surge_multiplier"`
	FinalPrice      float64   `json:"final_price"`
	PassengerCount  int       `json:"passenger_count"`
	PaymentType     string    `json:"payment_type"`
	RequestedAt     time.Time `json:"requested_at"`
}

// NewRequestedMessage maps a committed ride to its message body.
func NewRequestedMessage(ride marketplace.Ride) RequestedMessage {
	return RequestedMessage{
		RideID:          ride.ID,
		CustomerID:      ride.CustomerID,
		DriverID:        ride.DriverID,
		PickupZoneID:    ride.PickupZoneID,
		DropoffZoneID:   ride.DropoffZoneID,
		Status:          string(ride.Status),
		BasePrice:       ride.BasePrice,
		SurgeMultiplier: ride.SurgeMultiplier,
		FinalPrice:      ride.FinalPrice,
		PassengerCount:  ride.PassengerCount,
		PaymentType:     string(ride.PaymentType),
		RequestedAt:     ride.RequestedAt.UTC(),
	}
}
