package tripdata

import (
	"strings"
	"time"

	"github.com/AntonStoeckl/ridehail-seeder/marketplace"
)

// RawTrip is one decoded trip record. Nil fields were missing or null in the source.
type RawTrip struct {
	PickupZoneID   *float64
	DropoffZoneID  *float64
	PassengerCount *float64
	FareAmount     *float64
	TipAmount      *float64
	PaymentType    *float64
	PickupAt       *time.Time
	DropoffAt      *time.Time
}

// CleanTrip is a trip that passed cleaning. Tip is zero when the source had none.
type CleanTrip struct {
	PickupZoneID   int
	DropoffZoneID  int
	PassengerCount int
	Fare           float64
	Tip            float64
	PaymentType    marketplace.PaymentType
	PickupAt       time.Time
	DropoffAt      *time.Time
}

// Dataset is the decoded content of one Source.
type Dataset struct {
	Source Source
	Trips  []RawTrip
}

type column int

const (
	colUnknown column = iota
	colPickupZone
	colDropoffZone
	colPassengers
	colFare
	colTip
	colPayment
	colPickupAt
	colDropoffAt
)

// columnAliases maps lower-cased column names of the TLC yellow, green and open data exports.
var columnAliases = map[string]column{
	"pulocationid":          colPickupZone,
	"dolocationid":          colDropoffZone,
	"passenger_count":       colPassengers,
	"fare_amount":           colFare,
	"tip_amount":            colTip,
	"payment_type":          colPayment,
	"tpep_pickup_datetime":  colPickupAt,
	"lpep_pickup_datetime":  colPickupAt,
	"pickup_datetime":       colPickupAt,
	"tpep_dropoff_datetime": colDropoffAt,
	"lpep_dropoff_datetime": colDropoffAt,
	"dropoff_datetime":      colDropoffAt,
}

func lookupColumn(name string) column {
	return columnAliases[strings.ToLower(strings.TrimSpace(name))]
}

func (c column) isTime() bool {
	return c == colPickupAt || c == colDropoffAt
}

func (t *RawTrip) setNumber(c column, v float64) {
	switch c {
	case colPickupZone:
		t.PickupZoneID = &v
	case colDropoffZone:
		t.DropoffZoneID = &v
	case colPassengers:
		t.PassengerCount = &v
	case colFare:
		t.FareAmount = &v
	case colTip:
		t.TipAmount = &v
	case colPayment:
		t.PaymentType = &v
	default:
	}
}

func (t *RawTrip) setTime(c column, v time.Time) {
	switch c {
	case colPickupAt:
		t.PickupAt = &v
	case colDropoffAt:
		t.DropoffAt = &v
	default:
	}
}
