package livetraffic_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/ridehail-seeder/livetraffic"
	"github.com/AntonStoeckl/ridehail-seeder/marketplace"
	"github.com/AntonStoeckl/ridehail-seeder/synth"
	"github.com/AntonStoeckl/ridehail-seeder/testutil/fakes"
	. "github.com/AntonStoeckl/ridehail-seeder/testutil/fixtures"      //nolint:revive
	. "github.com/AntonStoeckl/ridehail-seeder/testutil/observability" //nolint:revive
)

func givenSeededStore(t *testing.T) *fakes.Store {
	t.Helper()

	ctx := context.Background()
	store := fakes.NewStore()

	_, err := store.InsertDrivers(ctx, GivenDrivers(5))
	require.NoError(t, err, "error in arranging test data")

	_, err = store.InsertCustomers(ctx, GivenCustomers(5))
	require.NoError(t, err, "error in arranging test data")

	return store
}

func givenProducer(t *testing.T, connector livetraffic.Connector, options ...livetraffic.Option) *livetraffic.Producer {
	t.Helper()

	producer, err := livetraffic.NewProducer(connector, synth.NewSource(7), options...)
	require.NoError(t, err, "error in arranging test data")

	return producer
}

func Test_Producer_Run_InsertsBatchWithEvents(t *testing.T) {
	// setup
	store := givenSeededStore(t)
	clock := fakes.NewClock(FixedTime)
	logger, logSpy := NewLogger()

	producer := givenProducer(t, fakes.NewConnector(store),
		livetraffic.WithMaxCycles(1),
		livetraffic.WithClock(clock),
		livetraffic.WithLogger(logger),
	)

	// act
	err := producer.Run(context.Background())

	// assert
	require.NoError(t, err)

	rides := store.Rides()
	events := store.Events()
	require.Len(t, rides, 10)
	require.Len(t, events, 10)

	driverIDs, _ := store.DriverIDs(context.Background())
	customerIDs, _ := store.CustomerIDs(context.Background())

	for i, ride := range rides {
		assert.Equal(t, marketplace.RideStatusRequested, ride.Status)
		assert.True(t, ride.RequestedAt.Equal(FixedTime))
		assert.Nil(t, ride.CompletedAt)
		assert.Contains(t, driverIDs, ride.DriverID)
		assert.Contains(t, customerIDs, ride.CustomerID)
		assert.True(t, marketplace.ValidZone(ride.PickupZoneID))
		assert.True(t, marketplace.ValidZone(ride.DropoffZoneID))

		assert.Equal(t, ride.ID, events[i].RideID)
		assert.Equal(t, marketplace.EventTypeRequested, events[i].EventType)
		assert.True(t, events[i].CreatedAt.Equal(ride.RequestedAt))
	}

	assert.True(t, store.Closed(), "handle must be closed when the producer stops")
	assert.True(t, logSpy.HasInfoLogWithMessage("inserted new rides").
		WithAttr("count", "10").
		WithAttr("status", "requested").
		WithDurationMS().
		Assert())
	assert.True(t, logSpy.HasInfoLogWithMessage("live traffic producer stopped").Assert())
}

func Test_Producer_Run_SleepsBetweenCycles(t *testing.T) {
	// setup
	store := givenSeededStore(t)
	clock := fakes.NewClock(FixedTime)

	producer := givenProducer(t, fakes.NewConnector(store),
		livetraffic.WithBatchSize(2),
		livetraffic.WithInterval(30*time.Second),
		livetraffic.WithMaxCycles(3),
		livetraffic.WithClock(clock),
	)

	// act
	err := producer.Run(context.Background())

	// assert
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{30 * time.Second, 30 * time.Second}, clock.Sleeps())

	rides := store.Rides()
	require.Len(t, rides, 6)
	assert.True(t, rides[0].RequestedAt.Equal(FixedTime))
	assert.True(t, rides[2].RequestedAt.Equal(FixedTime.Add(30*time.Second)))
	assert.True(t, rides[4].RequestedAt.Equal(FixedTime.Add(time.Minute)))
}

func Test_Producer_Run_RecoversWithFreshHandle(t *testing.T) {
	// setup
	broken := givenSeededStore(t)
	broken.FailRideInsertAt = 1
	broken.Err = marketplace.ErrPersistenceFailed
	fresh := fakes.NewStore()

	connector := fakes.NewConnector(broken).ThenSucceed(fresh)
	logger, logSpy := NewLogger()
	metricsSpy := NewMetricsCollectorSpy()

	producer := givenProducer(t, connector,
		livetraffic.WithMaxCycles(2),
		livetraffic.WithClock(fakes.NewClock(FixedTime)),
		livetraffic.WithLogger(logger),
		livetraffic.WithMetrics(metricsSpy),
	)

	// act
	err := producer.Run(context.Background())

	// assert
	require.NoError(t, err)
	assert.Empty(t, broken.Rides(), "the failed batch must be dropped")
	assert.True(t, broken.Closed())
	assert.Len(t, fresh.Rides(), 10)
	assert.Len(t, fresh.Events(), 10)
	assert.Equal(t, 2, connector.Opens())

	assert.True(t, logSpy.HasErrorLogWithMessage("inserting rides failed").WithAttr("cycle", "1").WithAttrKey("error").Assert())
	assert.True(t, logSpy.HasInfoLogWithMessage("store handle reopened").Assert())
	assert.True(t, metricsSpy.HasCounterRecordForMetric(marketplace.MetricLiveCycleFailures).Assert())
	assert.True(t, metricsSpy.HasCounterRecordForMetric(marketplace.MetricReconnects).Assert())
	assert.True(t, metricsSpy.HasCounterRecordForMetric(marketplace.MetricLiveCycles).
		WithLabel(marketplace.LabelStatus, marketplace.StatusSuccess).
		Assert())
}

func Test_Producer_Run_RetriesFailedReopenOnNextCycle(t *testing.T) {
	// setup
	broken := givenSeededStore(t)
	broken.FailRideInsertAt = 1
	broken.Err = marketplace.ErrPersistenceFailed
	fresh := fakes.NewStore()

	connector := fakes.NewConnector(broken).
		ThenFail(errors.New("connection refused")).
		ThenSucceed(fresh)
	logger, logSpy := NewLogger()

	producer := givenProducer(t, connector,
		livetraffic.WithMaxCycles(3),
		livetraffic.WithClock(fakes.NewClock(FixedTime)),
		livetraffic.WithLogger(logger),
	)

	// act
	err := producer.Run(context.Background())

	// assert
	require.NoError(t, err)
	assert.Equal(t, 3, connector.Opens())
	assert.Len(t, fresh.Rides(), 20)
	assert.True(t, logSpy.HasErrorLogWithMessage("reopening store handle failed").WithAttr("error", "connection refused").Assert())
}

func Test_Producer_Run_FailsOnEmptyPools(t *testing.T) {
	// setup
	store := fakes.NewStore()
	_, err := store.InsertDrivers(context.Background(), GivenDrivers(3))
	require.NoError(t, err, "error in arranging test data")

	producer := givenProducer(t, fakes.NewConnector(store),
		livetraffic.WithMaxCycles(1),
		livetraffic.WithClock(fakes.NewClock(FixedTime)),
	)

	// act
	err = producer.Run(context.Background())

	// assert
	assert.ErrorIs(t, err, marketplace.ErrEmptyEntityPool)
	assert.Empty(t, store.Rides())
	assert.True(t, store.Closed())
}

func Test_Producer_Run_FailsWhenFirstOpenFails(t *testing.T) {
	// setup
	openErr := errors.New("connection refused")
	connector := fakes.NewConnector().ThenFail(openErr)

	producer := givenProducer(t, connector, livetraffic.WithClock(fakes.NewClock(FixedTime)))

	// act
	err := producer.Run(context.Background())

	// assert
	assert.ErrorIs(t, err, openErr)
}

func Test_Producer_Run_FailsWhenPoolsCannotBeLoaded(t *testing.T) {
	// setup
	store := givenSeededStore(t)
	store.FailIDLoads = true
	store.Err = marketplace.ErrQueryingFailed

	producer := givenProducer(t, fakes.NewConnector(store), livetraffic.WithClock(fakes.NewClock(FixedTime)))

	// act
	err := producer.Run(context.Background())

	// assert
	assert.ErrorIs(t, err, marketplace.ErrQueryingFailed)
	assert.True(t, store.Closed())
}

func Test_Producer_Run_IgnoresPublishFailures(t *testing.T) {
	// setup
	store := givenSeededStore(t)
	publisher := fakes.NewPublisherSpy()
	publisher.Err = errors.New("channel closed")
	logger, logSpy := NewLogger()

	producer := givenProducer(t, fakes.NewConnector(store),
		livetraffic.WithMaxCycles(2),
		livetraffic.WithClock(fakes.NewClock(FixedTime)),
		livetraffic.WithPublisher(publisher),
		livetraffic.WithLogger(logger),
	)

	// act
	err := producer.Run(context.Background())

	// assert
	require.NoError(t, err)
	assert.Len(t, store.Rides(), 20)
	assert.Equal(t, 2, logSpy.CountMessages(slog.LevelWarn, "publishing rides failed"))
	assert.True(t, logSpy.HasWarnLogWithMessage("publishing rides failed").WithAttr("error", "channel closed").Assert())
}

func Test_Producer_Run_PublishesCommittedRides(t *testing.T) {
	// setup
	store := givenSeededStore(t)
	publisher := fakes.NewPublisherSpy()

	producer := givenProducer(t, fakes.NewConnector(store),
		livetraffic.WithBatchSize(3),
		livetraffic.WithMaxCycles(1),
		livetraffic.WithClock(fakes.NewClock(FixedTime)),
		livetraffic.WithPublisher(publisher),
	)

	// act
	err := producer.Run(context.Background())

	// assert
	require.NoError(t, err)
	assert.Equal(t, store.Rides(), publisher.Published())
}

func Test_Producer_Run_StopsOnCancel(t *testing.T) {
	// setup
	store := givenSeededStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	clock := &cancelingClock{Clock: fakes.NewClock(FixedTime), cancel: cancel}

	producer := givenProducer(t, fakes.NewConnector(store), livetraffic.WithClock(clock))

	// act
	err := producer.Run(ctx)

	// assert
	require.NoError(t, err)
	assert.Len(t, store.Rides(), 10, "only the cycle before the cancel runs")
	assert.True(t, store.Closed())
}

// cancelingClock cancels the run when the producer starts to wait.
type cancelingClock struct {
	*fakes.Clock
	cancel context.CancelFunc
}

func (c *cancelingClock) Sleep(ctx context.Context, d time.Duration) error {
	c.cancel()
	return c.Clock.Sleep(ctx, d)
}

func Test_NewProducer_InvalidOptions(t *testing.T) {
	tests := []struct {
		name        string
		option      livetraffic.Option
		expectedErr error
	}{
		{name: "zero batch size", option: livetraffic.WithBatchSize(0), expectedErr: livetraffic.ErrInvalidBatchSize},
		{name: "negative interval", option: livetraffic.WithInterval(-time.Second), expectedErr: livetraffic.ErrNegativeInterval},
		{name: "negative max cycles", option: livetraffic.WithMaxCycles(-1), expectedErr: livetraffic.ErrNegativeMaxCycles},
		{name: "nil clock", option: livetraffic.WithClock(nil), expectedErr: livetraffic.ErrNilClock},
		{name: "nil publisher", option: livetraffic.WithPublisher(nil), expectedErr: livetraffic.ErrNilPublisher},
		{name: "nil logger", option: livetraffic.WithLogger(nil), expectedErr: marketplace.ErrNilLogger},
		{name: "nil metrics", option: livetraffic.WithMetrics(nil), expectedErr: marketplace.ErrNilMetricsCollector},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := livetraffic.NewProducer(fakes.NewConnector(), synth.NewSource(1), tc.option)

			assert.ErrorIs(t, err, tc.expectedErr)
		})
	}
}

func Test_NewProducer_NilConnector(t *testing.T) {
	_, err := livetraffic.NewProducer(nil, synth.NewSource(1))

	assert.ErrorIs(t, err, livetraffic.ErrNilConnector)
}
