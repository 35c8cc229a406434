package postgresengine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/ridehail-seeder/marketplace"
)

var queryTime = time.Date(2024, time.January, 15, 8, 30, 0, 0, time.UTC)

func givenCompletedRide() marketplace.Ride {
	return marketplace.BuildCompletedRide(7, 3, 100, 200, 12.5, 1.2, 2, 2, marketplace.PaymentCreditCard, queryTime, &queryTime)
}

func Test_BuildInsertDriversQuery_SkipsConflicts(t *testing.T) {
	s := Store{}

	sqlQuery, err := s.buildInsertDriversQuery([]marketplace.Driver{
		{FirstName: "Ada", LastName: "Lovelace", LicenseNumber: "TLC-00001AB", CarModel: "Toyota Camry", CarYear: 2020, Rating: 4.5, Status: marketplace.DriverStatusOffline},
		{FirstName: "Alan", LastName: "Turing", LicenseNumber: "TLC-00002AB", CarModel: "Tesla Model 3", CarYear: 2022, Rating: 4.9, Status: marketplace.DriverStatusOffline},
	})

	require.NoError(t, err)
	assert.Contains(t, sqlQuery, `INSERT INTO "drivers"`)
	assert.Contains(t, sqlQuery, `'TLC-00001AB'`)
	assert.Contains(t, sqlQuery, `'TLC-00002AB'`)
	assert.Contains(t, sqlQuery, `ON CONFLICT DO NOTHING RETURNING "id"`)
}

func Test_BuildInsertCustomersQuery_SkipsConflicts(t *testing.T) {
	s := Store{}

	sqlQuery, err := s.buildInsertCustomersQuery([]marketplace.Customer{
		{FirstName: "Grace", LastName: "Hopper", Email: "grace@example.com", Phone: "555-123-4567", Rating: 4.2},
	})

	require.NoError(t, err)
	assert.Contains(t, sqlQuery, `INSERT INTO "customers"`)
	assert.Contains(t, sqlQuery, `'grace@example.com'`)
	assert.Contains(t, sqlQuery, `ON CONFLICT DO NOTHING RETURNING "id"`)
}

func Test_BuildInsertRidesQuery(t *testing.T) {
	s := Store{}
	requested := marketplace.BuildRequestedRide(1, 2, 4, 264, 10, 1.5, 1, marketplace.PaymentCash, queryTime)

	completedQuery, err := s.buildInsertRidesQuery(marketplace.Rides{givenCompletedRide()}, false)
	require.NoError(t, err)

	requestedQuery, err := s.buildInsertRidesQuery(marketplace.Rides{requested}, true)
	require.NoError(t, err)

	assert.Contains(t, completedQuery, `INSERT INTO "rides"`)
	assert.Contains(t, completedQuery, `'completed'`)
	assert.Contains(t, completedQuery, `'2024-01-15T08:30:00Z'`)
	assert.NotContains(t, completedQuery, "RETURNING")
	assert.NotContains(t, completedQuery, "ON CONFLICT")

	assert.Contains(t, requestedQuery, `'requested'`)
	assert.Contains(t, requestedQuery, `NULL`)
	assert.Contains(t, requestedQuery, `RETURNING "id"`)
}

func Test_BuildInsertRidesQuery_WritesTimestampsAsUTC(t *testing.T) {
	s := Store{}
	berlin := time.FixedZone("CET", 3600)
	ride := marketplace.BuildRequestedRide(1, 2, 4, 5, 10, 1, 1, marketplace.PaymentCash, queryTime.In(berlin))

	sqlQuery, err := s.buildInsertRidesQuery(marketplace.Rides{ride}, true)

	require.NoError(t, err)
	assert.Contains(t, sqlQuery, `'2024-01-15T08:30:00Z'`)
}

func Test_BuildInsertRideEventsQuery(t *testing.T) {
	s := Store{}

	sqlQuery, err := s.buildInsertRideEventsQuery([]marketplace.RideEvent{
		{RideID: 41, EventType: marketplace.EventTypeRequested, CreatedAt: queryTime},
		{RideID: 42, EventType: marketplace.EventTypeRequested, CreatedAt: queryTime},
	})

	require.NoError(t, err)
	assert.Contains(t, sqlQuery, `INSERT INTO "ride_events"`)
	assert.Contains(t, sqlQuery, `41`)
	assert.Contains(t, sqlQuery, `42`)
	assert.Contains(t, sqlQuery, `'requested'`)
}

func Test_Queries_UseConfiguredSchema(t *testing.T) {
	s := Store{schema: "marketplace"}

	countQuery, err := s.buildCountRidesQuery()
	require.NoError(t, err)

	idsQuery, err := s.buildSelectIDsQuery(tableDrivers)
	require.NoError(t, err)

	assert.Equal(t, `SELECT COUNT(*) FROM "marketplace"."rides"`, countQuery)
	assert.Equal(t, `SELECT "id" FROM "marketplace"."drivers" ORDER BY "id" ASC`, idsQuery)
}

func Test_FailureFor(t *testing.T) {
	s := Store{}

	assert.Equal(t, marketplace.ErrQueryingFailed, s.failureFor(opCountRides))
	assert.Equal(t, marketplace.ErrQueryingFailed, s.failureFor(opLoadIDs))
	assert.Equal(t, marketplace.ErrPersistenceFailed, s.failureFor(opInsertRequested))
}
