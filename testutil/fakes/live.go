package fakes

import (
	"context"
	"sync"
	"time"

	"github.com/AntonStoeckl/ridehail-seeder/livetraffic"
	"github.com/AntonStoeckl/ridehail-seeder/marketplace"
)

// Connector hands out scripted store handles in order. A nil handle paired with an error
// simulates a failed open. After the script is used up, the last handle is returned again.
type Connector struct {
	mu     sync.Mutex
	script []connectResult
	opens  int
}

type connectResult struct {
	store *Store
	err   error
}

// NewConnector returns a connector whose opens succeed with stores in order.
func NewConnector(stores ...*Store) *Connector {
	c := &Connector{}
	for _, s := range stores {
		c.script = append(c.script, connectResult{store: s})
	}

	return c
}

// ThenFail appends an open that fails with err.
func (c *Connector) ThenFail(err error) *Connector {
	c.script = append(c.script, connectResult{err: err})
	return c
}

// ThenSucceed appends an open that returns store.
func (c *Connector) ThenSucceed(store *Store) *Connector {
	c.script = append(c.script, connectResult{store: store})
	return c
}

// Open implements livetraffic.Connector.
func (c *Connector) Open(_ context.Context) (livetraffic.LiveStore, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.opens
	if i >= len(c.script) {
		i = len(c.script) - 1
	}
	c.opens++

	result := c.script[i]
	if result.err != nil {
		return nil, result.err
	}

	return result.store, nil
}

// Opens returns how often Open was called.
func (c *Connector) Opens() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.opens
}

// Clock is a manual clock. Sleep advances it by the requested duration.
type Clock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration
}

// NewClock returns a clock standing at now.
func NewClock(now time.Time) *Clock {
	return &Clock{now: now}
}

// Now returns the current fake time.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

// Sleep records d and advances the clock, unless ctx is already done.
func (c *Clock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)

	return nil
}

// Sleeps returns the recorded sleep durations.
func (c *Clock) Sleeps() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]time.Duration(nil), c.sleeps...)
}

// PublisherSpy records published rides and can be scripted to fail.
type PublisherSpy struct {
	mu        sync.Mutex
	published marketplace.Rides
	Err       error
}

// NewPublisherSpy returns a spy that accepts everything.
func NewPublisherSpy() *PublisherSpy {
	return &PublisherSpy{}
}

// PublishRequested implements livetraffic.Publisher.
func (p *PublisherSpy) PublishRequested(_ context.Context, rides marketplace.Rides) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.Err != nil {
		return p.Err
	}

	p.published = append(p.published, rides...)

	return nil
}

// Published returns all published rides.
func (p *PublisherSpy) Published() marketplace.Rides {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append(marketplace.Rides(nil), p.published...)
}
