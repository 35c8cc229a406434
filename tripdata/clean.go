package tripdata

import (
	"math"

	"github.com/AntonStoeckl/ridehail-seeder/marketplace"
)

const (
	minPassengers     = 1
	maxPassengers     = 6
	defaultPassengers = 1
)

// paymentTypes maps TLC payment codes. Codes not listed here become cash.
var paymentTypes = map[int]marketplace.PaymentType{
	1: marketplace.PaymentCreditCard,
	2: marketplace.PaymentCash,
	3: marketplace.PaymentAppWallet,
	4: marketplace.PaymentAppWallet,
}

// CleanStats counts why raw trips were dropped.
type CleanStats struct {
	Input           int
	MissingRequired int
	ZoneOutOfRange  int
	NonPositiveFare int
	Kept            int
}

// Dropped returns the number of trips that did not survive cleaning.
func (s CleanStats) Dropped() int {
	return s.Input - s.Kept
}

// Clean filters and normalizes raw trips. It keeps the input order.
//
// A trip is dropped when its pickup zone, dropoff zone or pickup time is missing,
// when either zone lies outside 1..265, or when its fare is missing or not positive.
// Missing passenger counts become 1, counts are clamped to 1..6 and truncated.
// Payment codes 1..4 are mapped, anything else is treated as cash.
func Clean(raw []RawTrip) ([]CleanTrip, CleanStats) {
	stats := CleanStats{Input: len(raw)}
	trips := make([]CleanTrip, 0, len(raw))

	for _, r := range raw {
		if r.PickupZoneID == nil || r.DropoffZoneID == nil || r.PickupAt == nil {
			stats.MissingRequired++
			continue
		}

		if !zoneInRange(*r.PickupZoneID) || !zoneInRange(*r.DropoffZoneID) {
			stats.ZoneOutOfRange++
			continue
		}

		if r.FareAmount == nil || !(*r.FareAmount > 0) {
			stats.NonPositiveFare++
			continue
		}

		trips = append(trips, CleanTrip{
			PickupZoneID:   int(*r.PickupZoneID),
			DropoffZoneID:  int(*r.DropoffZoneID),
			PassengerCount: passengers(r.PassengerCount),
			Fare:           *r.FareAmount,
			Tip:            tip(r.TipAmount),
			PaymentType:    payment(r.PaymentType),
			PickupAt:       *r.PickupAt,
			DropoffAt:      r.DropoffAt,
		})
	}

	stats.Kept = len(trips)

	return trips, stats
}

func zoneInRange(v float64) bool {
	return v >= marketplace.MinZoneID && v <= marketplace.MaxZoneID
}

func passengers(v *float64) int {
	if v == nil || math.IsNaN(*v) {
		return defaultPassengers
	}

	return int(math.Min(math.Max(*v, minPassengers), maxPassengers))
}

func tip(v *float64) float64 {
	if v == nil || math.IsNaN(*v) {
		return 0
	}

	return *v
}

func payment(v *float64) marketplace.PaymentType {
	if v == nil || *v != math.Trunc(*v) {
		return marketplace.PaymentCash
	}

	if mapped, ok := paymentTypes[int(*v)]; ok {
		return mapped
	}

	return marketplace.PaymentCash
}
