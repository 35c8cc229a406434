package postgresengine

import (
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // driver import
	"github.com/doug-martin/goqu/v9/exp"

	"github.com/AntonStoeckl/ridehail-seeder/marketplace"
)

const (
	dialectPostgres = "postgres"
	tableDrivers    = "drivers"
	tableCustomers  = "customers"
	tableRides      = "rides"
	tableRideEvents = "ride_events"
	colID           = "id"
	colFirstName    = "first_name"
	colLastName     = "last_name"
	colLicense      = "license_number"
	colCarModel     = "car_model"
	colCarYear      = "car_year"
	colRating       = "rating"
	colStatus       = "status"
	colEmail        = "email"
	colPhone        = "phone"
	colCustomerID   = "customer_id"
	colDriverID     = "driver_id"
	colPickupZone   = "pickup_zone_id"
	colDropoffZone  = "dropoff_zone_id"
	colBasePrice    = "base_price"
	colSurge        = "surge_multiplier"
	colFinalPrice   = "final_price"
	colPassengers   = "passenger_count"
	colPaymentType  = "payment_type"
	colRequestedAt  = "requested_at"
	colAcceptedAt   = "accepted_at"
	colStartedAt    = "started_at"
	colCompletedAt  = "completed_at"
	colRideID       = "ride_id"
	colEventType    = "event_type"
	colCreatedAt    = "created_at"
)

type sqlQueryString = string

// table returns the identifier for name, qualified with the configured schema if any.
func (s Store) table(name string) exp.IdentifierExpression {
	if s.schema == "" {
		return goqu.T(name)
	}

	return goqu.S(s.schema).Table(name)
}

func (s Store) buildPingQuery() (sqlQueryString, error) {
	sqlQuery, _, err := goqu.Dialect(dialectPostgres).
		Select(goqu.L("1")).
		ToSQL()

	return sqlQuery, err
}

func (s Store) buildCountRidesQuery() (sqlQueryString, error) {
	sqlQuery, _, err := goqu.Dialect(dialectPostgres).
		From(s.table(tableRides)).
		Select(goqu.COUNT(goqu.Star())).
		ToSQL()

	return sqlQuery, err
}

func (s Store) buildSelectIDsQuery(table string) (sqlQueryString, error) {
	sqlQuery, _, err := goqu.Dialect(dialectPostgres).
		From(s.table(table)).
		Select(goqu.C(colID)).
		Order(goqu.C(colID).Asc()).
		ToSQL()

	return sqlQuery, err
}

func (s Store) buildInsertDriversQuery(drivers []marketplace.Driver) (sqlQueryString, error) {
	rows := make([]any, 0, len(drivers))
	for _, d := range drivers {
		rows = append(rows, goqu.Record{
			colFirstName: d.FirstName,
			colLastName:  d.LastName,
			colLicense:   d.LicenseNumber,
			colCarModel:  d.CarModel,
			colCarYear:   d.CarYear,
			colRating:    d.Rating,
			colStatus:    d.Status,
		})
	}

	sqlQuery, _, err := goqu.Dialect(dialectPostgres).
		Insert(s.table(tableDrivers)).
		Rows(rows...).
		OnConflict(goqu.DoNothing()).
		Returning(goqu.C(colID)).
		ToSQL()

	return sqlQuery, err
}

func (s Store) buildInsertCustomersQuery(customers []marketplace.Customer) (sqlQueryString, error) {
	rows := make([]any, 0, len(customers))
	for _, c := range customers {
		rows = append(rows, goqu.Record{
			colFirstName: c.FirstName,
			colLastName:  c.LastName,
			colEmail:     c.Email,
			colPhone:     c.Phone,
			colRating:    c.Rating,
		})
	}

	sqlQuery, _, err := goqu.Dialect(dialectPostgres).
		Insert(s.table(tableCustomers)).
		Rows(rows...).
		OnConflict(goqu.DoNothing()).
		Returning(goqu.C(colID)).
		ToSQL()

	return sqlQuery, err
}

// buildInsertRidesQuery builds a multi-row ride insert, optionally returning the generated ids.
func (s Store) buildInsertRidesQuery(rides marketplace.Rides, returningIDs bool) (sqlQueryString, error) {
	rows := make([]any, 0, len(rides))
	for _, r := range rides {
		rows = append(rows, goqu.Record{
			colCustomerID:  r.CustomerID,
			colDriverID:    r.DriverID,
			colPickupZone:  r.PickupZoneID,
			colDropoffZone: r.DropoffZoneID,
			colStatus:      string(r.Status),
			colBasePrice:   r.BasePrice,
			colSurge:       r.SurgeMultiplier,
			colFinalPrice:  r.FinalPrice,
			colPassengers:  r.PassengerCount,
			colPaymentType: string(r.PaymentType),
			colRequestedAt: r.RequestedAt.UTC(),
			colAcceptedAt:  nullableTime(r.AcceptedAt),
			colStartedAt:   nullableTime(r.StartedAt),
			colCompletedAt: nullableTime(r.CompletedAt),
		})
	}

	insertStmt := goqu.Dialect(dialectPostgres).
		Insert(s.table(tableRides)).
		Rows(rows...)

	if returningIDs {
		insertStmt = insertStmt.Returning(goqu.C(colID))
	}

	sqlQuery, _, err := insertStmt.ToSQL()

	return sqlQuery, err
}

func (s Store) buildInsertRideEventsQuery(events []marketplace.RideEvent) (sqlQueryString, error) {
	rows := make([]any, 0, len(events))
	for _, e := range events {
		rows = append(rows, goqu.Record{
			colRideID:    e.RideID,
			colEventType: string(e.EventType),
			colCreatedAt: e.CreatedAt.UTC(),
		})
	}

	sqlQuery, _, err := goqu.Dialect(dialectPostgres).
		Insert(s.table(tableRideEvents)).
		Rows(rows...).
		ToSQL()

	return sqlQuery, err
}

// nullableTime renders a missing timestamp as SQL NULL.
func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}

	return t.UTC()
}
