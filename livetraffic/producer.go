package livetraffic

import (
	"context"
	"fmt"
	"time"

	"github.com/AntonStoeckl/ridehail-seeder/marketplace"
	"github.com/AntonStoeckl/ridehail-seeder/synth"
)

const (
	// DefaultBatchSize is the number of rides per cycle.
	DefaultBatchSize = 10

	// DefaultInterval is the pause between two cycles.
	DefaultInterval = 30 * time.Second

	logMsgStarting       = "live traffic producer starting"
	logMsgPoolsLoaded    = "entity pools loaded"
	logMsgRidesInserted  = "inserted new rides"
	logMsgCycleFailed    = "inserting rides failed"
	logMsgCloseFailed    = "closing store handle failed"
	logMsgReopenFailed   = "reopening store handle failed"
	logMsgReopened       = "store handle reopened"
	logMsgPublishFailed  = "publishing rides failed"
	logMsgStopped        = "live traffic producer stopped"
	logAttrBatchSize     = "batch_size"
	logAttrIntervalSec   = "interval_sec"
	logAttrDrivers       = "drivers"
	logAttrCustomers     = "customers"
	logAttrCount         = "count"
	logAttrStatus        = "status"
	logAttrCycle         = "cycle"
	logAttrError         = "error"
	logAttrDurationMS    = "duration_ms"
	operationLiveCycle   = "live_cycle"
	operationReopenStore = "reopen_store"
)

// Producer inserts batches of requested rides on a fixed interval.
type Producer struct {
	connector        Connector
	src              synth.Source
	clock            Clock
	publisher        Publisher
	batchSize        int
	interval         time.Duration
	maxCycles        int
	logger           marketplace.Logger
	metricsCollector marketplace.MetricsCollector

	store   LiveStore
	builder synth.RideBuilder
}

// NewProducer creates a Producer with a batch size of 10 and an interval of 30 seconds
// unless configured otherwise.
func NewProducer(connector Connector, src synth.Source, options ...Option) (*Producer, error) {
	if connector == nil {
		return nil, ErrNilConnector
	}

	p := &Producer{
		connector: connector,
		src:       src,
		clock:     SystemClock{},
		batchSize: DefaultBatchSize,
		interval:  DefaultInterval,
	}

	for _, option := range options {
		if err := option(p); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// Run opens the store, loads the id pools and then cycles until ctx ends or the configured
// number of cycles is reached. Failures during startup are returned, failures inside a cycle
// are logged and recovered from. Run returns nil when ctx is cancelled.
func (p *Producer) Run(ctx context.Context) error {
	p.logInfo(logMsgStarting, logAttrBatchSize, p.batchSize, logAttrIntervalSec, p.interval.Seconds())

	if err := p.start(ctx); err != nil {
		return err
	}
	defer p.closeStore()

	for cycle := 1; p.maxCycles == 0 || cycle <= p.maxCycles; cycle++ {
		if ctx.Err() != nil {
			break
		}

		p.runCycle(ctx, cycle)

		if p.maxCycles != 0 && cycle == p.maxCycles {
			break
		}

		if err := p.clock.Sleep(ctx, p.interval); err != nil {
			break
		}
	}

	p.logInfo(logMsgStopped)

	return nil
}

// start opens the first handle and loads both id pools. Empty pools are fatal.
func (p *Producer) start(ctx context.Context) error {
	store, openErr := p.connector.Open(ctx)
	if openErr != nil {
		return fmt.Errorf("open store: %w", openErr)
	}

	p.store = store

	driverIDs, driversErr := store.DriverIDs(ctx)
	if driversErr != nil {
		p.closeStore()
		return fmt.Errorf("load driver ids: %w", driversErr)
	}

	customerIDs, customersErr := store.CustomerIDs(ctx)
	if customersErr != nil {
		p.closeStore()
		return fmt.Errorf("load customer ids: %w", customersErr)
	}

	p.logInfo(logMsgPoolsLoaded, logAttrDrivers, len(driverIDs), logAttrCustomers, len(customerIDs))

	builder, builderErr := synth.NewRideBuilder(p.src, driverIDs, customerIDs)
	if builderErr != nil {
		p.closeStore()
		return builderErr
	}

	p.builder = builder

	return nil
}

// runCycle inserts one batch. On failure the batch is dropped and the handle replaced.
func (p *Producer) runCycle(ctx context.Context, cycle int) {
	start := time.Now()

	if p.store == nil {
		p.reopen(ctx)

		if p.store == nil {
			p.countCycle(marketplace.StatusError)
			return
		}
	}

	rides, err := p.insertBatch(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}

		p.logError(logMsgCycleFailed, err, logAttrCycle, cycle)
		p.countCycle(marketplace.StatusError)
		p.reopen(ctx)

		return
	}

	p.countCycle(marketplace.StatusSuccess)
	p.logInfo(
		logMsgRidesInserted,
		logAttrCount, len(rides),
		logAttrStatus, string(marketplace.RideStatusRequested),
		logAttrDurationMS, time.Since(start).Milliseconds(),
	)

	p.publish(ctx, rides)
}

func (p *Producer) insertBatch(ctx context.Context) (marketplace.Rides, error) {
	batch := p.builder.Requested(p.batchSize, p.clock.Now())

	return p.store.InsertRequestedRides(ctx, batch)
}

// reopen is the recovery policy: close the current handle and open a fresh one.
// If opening fails the producer stays without a handle and the next cycle tries again
// before building its batch.
func (p *Producer) reopen(ctx context.Context) {
	p.closeStore()

	if p.metricsCollector != nil {
		p.metricsCollector.IncrementCounter(marketplace.MetricReconnects, map[string]string{
			marketplace.LabelOperation: operationReopenStore,
		})
	}

	store, openErr := p.connector.Open(ctx)
	if openErr != nil {
		p.logError(logMsgReopenFailed, openErr)
		return
	}

	p.store = store
	p.logInfo(logMsgReopened)
}

func (p *Producer) closeStore() {
	if p.store == nil {
		return
	}

	if closeErr := p.store.Close(); closeErr != nil && p.logger != nil {
		p.logger.Warn(logMsgCloseFailed, logAttrError, closeErr.Error())
	}

	p.store = nil
}

func (p *Producer) publish(ctx context.Context, rides marketplace.Rides) {
	if p.publisher == nil {
		return
	}

	if err := p.publisher.PublishRequested(ctx, rides); err != nil && p.logger != nil {
		p.logger.Warn(logMsgPublishFailed, logAttrError, err.Error(), logAttrCount, len(rides))
	}
}

func (p *Producer) countCycle(status string) {
	if p.metricsCollector == nil {
		return
	}

	labels := map[string]string{marketplace.LabelOperation: operationLiveCycle, marketplace.LabelStatus: status}
	p.metricsCollector.IncrementCounter(marketplace.MetricLiveCycles, labels)

	if status == marketplace.StatusError {
		p.metricsCollector.IncrementCounter(marketplace.MetricLiveCycleFailures, labels)
	}
}

func (p *Producer) logInfo(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}

func (p *Producer) logError(msg string, err error, args ...any) {
	if p.logger != nil {
		allArgs := []any{logAttrError, err.Error()}
		allArgs = append(allArgs, args...)
		p.logger.Error(msg, allArgs...)
	}
}
