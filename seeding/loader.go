package seeding

import (
	"context"
	"fmt"
	"time"

	"github.com/AntonStoeckl/ridehail-seeder/marketplace"
	"github.com/AntonStoeckl/ridehail-seeder/synth"
	"github.com/AntonStoeckl/ridehail-seeder/tripdata"
)

const (
	// DefaultBatchSize is the number of rides written per transaction.
	DefaultBatchSize = 5000

	logMsgAlreadySeeded   = "database already seeded, skipping"
	logMsgSeedingDrivers  = "generating drivers"
	logMsgSeedingCustomer = "generating customers"
	logMsgEntitiesSeeded  = "entities inserted"
	logMsgTripsCleaned    = "trips cleaned"
	logMsgInsertingRides  = "inserting rides"
	logMsgBatchInserted   = "rides batch inserted"
	logMsgSeedingComplete = "seeding complete"
	logAttrCount          = "count"
	logAttrEntity         = "entity"
	logAttrCreated        = "created"
	logAttrSkipped        = "skipped"
	logAttrURL            = "url"
	logAttrInput          = "input"
	logAttrKept           = "kept"
	logAttrMissing        = "dropped_missing"
	logAttrOutOfRange     = "dropped_zone_out_of_range"
	logAttrNonPositive    = "dropped_non_positive_fare"
	logAttrInserted       = "inserted"
	logAttrTotal          = "total"
	logAttrRides          = "rides"
	logAttrDurationMS     = "duration_ms"
	entityDrivers         = "drivers"
	entityCustomers       = "customers"
	reasonMissing         = "missing_required"
	reasonZone            = "zone_out_of_range"
	reasonFare            = "non_positive_fare"
)

// Store is the persistence the Loader needs.
type Store interface {
	CountRides(ctx context.Context) (int64, error)
	InsertDrivers(ctx context.Context, drivers []marketplace.Driver) (marketplace.InsertResult, error)
	InsertCustomers(ctx context.Context, customers []marketplace.Customer) (marketplace.InsertResult, error)
	InsertCompletedRides(ctx context.Context, rides marketplace.Rides) (int64, error)
}

// Fetcher acquires one trip dataset.
type Fetcher interface {
	Fetch(ctx context.Context, source tripdata.Source) (tripdata.Dataset, error)
}

// Report summarizes a Loader run.
type Report struct {
	Skipped          bool
	DriversCreated   int
	DriversSkipped   int
	CustomersCreated int
	CustomersSkipped int
	TripsDownloaded  int
	TripsKept        int
	RidesInserted    int64
	Batches          int
}

// Loader performs the historical seed.
type Loader struct {
	store            Store
	fetcher          Fetcher
	entities         synth.EntityGenerator
	src              synth.Source
	sources          []tripdata.Source
	driverCount      int
	customerCount    int
	batchSize        int
	logger           marketplace.Logger
	metricsCollector marketplace.MetricsCollector
}

// NewLoader creates a Loader seeding 500 drivers, 5000 customers and the default TLC sources
// in batches of 5000 unless configured otherwise.
func NewLoader(
	store Store,
	fetcher Fetcher,
	entities synth.EntityGenerator,
	src synth.Source,
	options ...Option,
) (*Loader, error) {
	l := &Loader{
		store:         store,
		fetcher:       fetcher,
		entities:      entities,
		src:           src,
		sources:       tripdata.DefaultSources(),
		driverCount:   synth.DefaultDriverCount,
		customerCount: synth.DefaultCustomerCount,
		batchSize:     DefaultBatchSize,
	}

	for _, option := range options {
		if err := option(l); err != nil {
			return nil, err
		}
	}

	return l, nil
}

// Run seeds the store unless it already holds rides. Any error aborts the run.
// Batches committed before a failure stay in the store.
func (l *Loader) Run(ctx context.Context) (Report, error) {
	start := time.Now()

	rideCount, countErr := l.store.CountRides(ctx)
	if countErr != nil {
		return Report{}, fmt.Errorf("check seed state: %w", countErr)
	}

	if rideCount > 0 {
		l.logInfo(logMsgAlreadySeeded, logAttrCount, rideCount)
		return Report{Skipped: true}, nil
	}

	report := Report{}

	builder, entitiesErr := l.seedEntities(ctx, &report)
	if entitiesErr != nil {
		return report, entitiesErr
	}

	for _, source := range l.sources {
		if err := l.loadSource(ctx, builder, source, &report); err != nil {
			return report, err
		}
	}

	l.logInfo(
		logMsgSeedingComplete,
		logAttrRides, report.RidesInserted,
		logAttrDurationMS, time.Since(start).Milliseconds(),
	)

	return report, nil
}

// seedEntities inserts drivers and customers and returns a builder over the created ids.
func (l *Loader) seedEntities(ctx context.Context, report *Report) (synth.RideBuilder, error) {
	l.logInfo(logMsgSeedingDrivers, logAttrCount, l.driverCount)

	drivers, driversErr := l.store.InsertDrivers(ctx, l.entities.Drivers(l.driverCount))
	if driversErr != nil {
		return synth.RideBuilder{}, fmt.Errorf("seed drivers: %w", driversErr)
	}

	report.DriversCreated = len(drivers.Created)
	report.DriversSkipped = drivers.Skipped
	l.logInfo(logMsgEntitiesSeeded, logAttrEntity, entityDrivers, logAttrCreated, len(drivers.Created), logAttrSkipped, drivers.Skipped)

	l.logInfo(logMsgSeedingCustomer, logAttrCount, l.customerCount)

	customers, customersErr := l.store.InsertCustomers(ctx, l.entities.Customers(l.customerCount))
	if customersErr != nil {
		return synth.RideBuilder{}, fmt.Errorf("seed customers: %w", customersErr)
	}

	report.CustomersCreated = len(customers.Created)
	report.CustomersSkipped = customers.Skipped
	l.logInfo(logMsgEntitiesSeeded, logAttrEntity, entityCustomers, logAttrCreated, len(customers.Created), logAttrSkipped, customers.Skipped)

	builder, builderErr := synth.NewRideBuilder(l.src, drivers.Created, customers.Created)
	if builderErr != nil {
		return synth.RideBuilder{}, fmt.Errorf("assign rides: %w", builderErr)
	}

	return builder, nil
}

// loadSource acquires, cleans and writes one dataset.
func (l *Loader) loadSource(ctx context.Context, builder synth.RideBuilder, source tripdata.Source, report *Report) error {
	dataset, fetchErr := l.fetcher.Fetch(ctx, source)
	if fetchErr != nil {
		return fmt.Errorf("acquire %s: %w", source.URL, fetchErr)
	}

	trips, stats := tripdata.Clean(dataset.Trips)
	report.TripsDownloaded += stats.Input
	report.TripsKept += stats.Kept

	l.logInfo(
		logMsgTripsCleaned,
		logAttrURL, source.URL,
		logAttrInput, stats.Input,
		logAttrKept, stats.Kept,
		logAttrMissing, stats.MissingRequired,
		logAttrOutOfRange, stats.ZoneOutOfRange,
		logAttrNonPositive, stats.NonPositiveFare,
	)
	l.recordDropped(stats)

	rides := builder.CompletedFrom(trips)
	l.logInfo(logMsgInsertingRides, logAttrTotal, len(rides))

	for from := 0; from < len(rides); from += l.batchSize {
		to := min(from+l.batchSize, len(rides))

		inserted, insertErr := l.store.InsertCompletedRides(ctx, rides[from:to])
		if insertErr != nil {
			return fmt.Errorf("insert rides %d to %d of %s: %w", from, to, source.URL, insertErr)
		}

		report.RidesInserted += inserted
		report.Batches++

		l.logInfo(logMsgBatchInserted, logAttrInserted, to, logAttrTotal, len(rides))
	}

	return nil
}

func (l *Loader) recordDropped(stats tripdata.CleanStats) {
	if l.metricsCollector == nil {
		return
	}

	for reason, dropped := range map[string]int{
		reasonMissing: stats.MissingRequired,
		reasonZone:    stats.ZoneOutOfRange,
		reasonFare:    stats.NonPositiveFare,
	} {
		l.metricsCollector.RecordValue(marketplace.MetricTripsDropped, float64(dropped), map[string]string{
			marketplace.LabelReason: reason,
		})
	}
}

func (l *Loader) logInfo(msg string, args ...any) {
	if l.logger != nil {
		l.logger.Info(msg, args...)
	}
}
