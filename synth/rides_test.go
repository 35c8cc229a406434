package synth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/ridehail-seeder/marketplace"
	"github.com/AntonStoeckl/ridehail-seeder/synth"
	. "github.com/AntonStoeckl/ridehail-seeder/testutil/fixtures" //nolint:revive
	"github.com/AntonStoeckl/ridehail-seeder/tripdata"
)

func givenRideBuilder(t *testing.T, driverIDs, customerIDs []int64) synth.RideBuilder {
	t.Helper()

	builder, err := synth.NewRideBuilder(synth.NewSource(11), driverIDs, customerIDs)
	require.NoError(t, err, "error in arranging test data")

	return builder
}

func Test_NewRideBuilder_EmptyPools(t *testing.T) {
	_, err := synth.NewRideBuilder(synth.NewSource(1), nil, []int64{1})
	assert.ErrorIs(t, err, marketplace.ErrEmptyEntityPool)

	_, err = synth.NewRideBuilder(synth.NewSource(1), []int64{1}, []int64{})
	assert.ErrorIs(t, err, marketplace.ErrEmptyEntityPool)
}

func Test_RideBuilder_Completed(t *testing.T) {
	// arrange
	driverIDs := []int64{10, 11, 12}
	customerIDs := []int64{20, 21}
	builder := givenRideBuilder(t, driverIDs, customerIDs)
	trip := GivenCleanTrip()

	// act
	ride := builder.Completed(trip)

	// assert
	assert.Contains(t, driverIDs, ride.DriverID)
	assert.Contains(t, customerIDs, ride.CustomerID)
	assert.Equal(t, marketplace.RideStatusCompleted, ride.Status)
	assert.Equal(t, trip.PickupZoneID, ride.PickupZoneID)
	assert.Equal(t, trip.DropoffZoneID, ride.DropoffZoneID)
	assert.Equal(t, marketplace.Round2(trip.Fare), ride.BasePrice)
	assert.GreaterOrEqual(t, ride.SurgeMultiplier, 1.0)
	assert.LessOrEqual(t, ride.SurgeMultiplier, 1.5)
	assert.InDelta(t, marketplace.FinalPrice(trip.Fare, ride.SurgeMultiplier, trip.Tip), ride.FinalPrice, 1e-9)
	assert.Equal(t, trip.PassengerCount, ride.PassengerCount)
	assert.Equal(t, trip.PaymentType, ride.PaymentType)
	assert.Equal(t, trip.PickupAt, ride.RequestedAt)
	require.NotNil(t, ride.CompletedAt)
	assert.Equal(t, *trip.DropoffAt, *ride.CompletedAt)
}

func Test_RideBuilder_CompletedFrom_KeepsOrder(t *testing.T) {
	// arrange
	builder := givenRideBuilder(t, []int64{1}, []int64{2})
	first := GivenCleanTrip()
	second := GivenCleanTrip()
	second.PickupAt = first.PickupAt.Add(time.Hour)

	// act
	rides := builder.CompletedFrom([]tripdata.CleanTrip{first, second})

	// assert
	require.Len(t, rides, 2)
	assert.Equal(t, first.PickupAt, rides[0].RequestedAt)
	assert.Equal(t, second.PickupAt, rides[1].RequestedAt)
	assert.Equal(t, int64(1), rides[0].DriverID)
	assert.Equal(t, int64(2), rides[0].CustomerID)
}

func Test_RideBuilder_Requested(t *testing.T) {
	// arrange
	driverIDs := []int64{1, 2, 3, 4, 5}
	customerIDs := []int64{6, 7, 8}
	builder := givenRideBuilder(t, driverIDs, customerIDs)

	// act
	rides := builder.Requested(200, FixedTime)

	// assert
	require.Len(t, rides, 200)

	for _, r := range rides {
		assert.Equal(t, marketplace.RideStatusRequested, r.Status)
		assert.Contains(t, driverIDs, r.DriverID)
		assert.Contains(t, customerIDs, r.CustomerID)
		assert.True(t, marketplace.ValidZone(r.PickupZoneID))
		assert.True(t, marketplace.ValidZone(r.DropoffZoneID))
		assert.GreaterOrEqual(t, r.BasePrice, 5.0)
		assert.LessOrEqual(t, r.BasePrice, 60.0)
		assert.Equal(t, marketplace.Round2(r.BasePrice), r.BasePrice)
		assert.GreaterOrEqual(t, r.SurgeMultiplier, 1.0)
		assert.LessOrEqual(t, r.SurgeMultiplier, 2.5)
		assert.InDelta(t, marketplace.Round2(r.BasePrice*r.SurgeMultiplier), r.FinalPrice, 1e-9)
		assert.GreaterOrEqual(t, r.PassengerCount, 1)
		assert.LessOrEqual(t, r.PassengerCount, 4)
		assert.Contains(t, marketplace.PaymentTypes, r.PaymentType)
		assert.Equal(t, FixedTime, r.RequestedAt)
		assert.Nil(t, r.AcceptedAt)
		assert.Nil(t, r.StartedAt)
		assert.Nil(t, r.CompletedAt)
	}
}

func Test_RideBuilder_Requested_Zero(t *testing.T) {
	builder := givenRideBuilder(t, []int64{1}, []int64{2})

	assert.Empty(t, builder.Requested(0, FixedTime))
}
