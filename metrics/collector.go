package metrics

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector implements marketplace.MetricsCollector with Prometheus instruments:
//   - RecordDuration -> HistogramVec (seconds)
//   - IncrementCounter -> CounterVec
//   - RecordValue -> CounterVec, added to
type Collector struct {
	registerer prometheus.Registerer
	mu         sync.Mutex
	histograms map[string]*prometheus.HistogramVec
	counters   map[string]*prometheus.CounterVec
}

// NewCollector creates a Collector that registers its instruments with registerer.
func NewCollector(registerer prometheus.Registerer) *Collector {
	return &Collector{
		registerer: registerer,
		histograms: make(map[string]*prometheus.HistogramVec),
		counters:   make(map[string]*prometheus.CounterVec),
	}
}

// RecordDuration observes duration in seconds.
func (c *Collector) RecordDuration(metric string, duration time.Duration, labels map[string]string) {
	histogram := c.histogram(metric, labels)
	if histogram == nil {
		return
	}

	observer, err := histogram.GetMetricWith(labels)
	if err != nil {
		return
	}

	observer.Observe(duration.Seconds())
}

// IncrementCounter adds one to the counter.
func (c *Collector) IncrementCounter(metric string, labels map[string]string) {
	c.add(metric, 1, labels)
}

// RecordValue adds value to the counter. Negative values are ignored.
func (c *Collector) RecordValue(metric string, value float64, labels map[string]string) {
	if value < 0 {
		return
	}

	c.add(metric, value, labels)
}

func (c *Collector) add(metric string, value float64, labels map[string]string) {
	counter := c.counter(metric, labels)
	if counter == nil {
		return
	}

	instrument, err := counter.GetMetricWith(labels)
	if err != nil {
		return
	}

	instrument.Add(value)
}

func (c *Collector) histogram(metric string, labels map[string]string) *prometheus.HistogramVec {
	c.mu.Lock()
	defer c.mu.Unlock()

	if histogram, exists := c.histograms[metric]; exists {
		return histogram
	}

	histogram := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    metric,
		Help:    helpText(metric),
		Buckets: prometheus.DefBuckets,
	}, labelNames(labels))

	if err := c.registerer.Register(histogram); err != nil {
		return nil
	}

	c.histograms[metric] = histogram

	return histogram
}

func (c *Collector) counter(metric string, labels map[string]string) *prometheus.CounterVec {
	c.mu.Lock()
	defer c.mu.Unlock()

	if counter, exists := c.counters[metric]; exists {
		return counter
	}

	counter := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: metric,
		Help: helpText(metric),
	}, labelNames(labels))

	if err := c.registerer.Register(counter); err != nil {
		return nil
	}

	c.counters[metric] = counter

	return counter
}

func labelNames(labels map[string]string) []string {
	names := make([]string, 0, len(labels))
	for name := range labels {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

func helpText(metric string) string {
	return strings.ReplaceAll(metric, "_", " ")
}
