package observability

import (
	"maps"
	"sync"
	"time"
)

// MetricsCollectorSpy is a marketplace.MetricsCollector that captures all calls for testing.
type MetricsCollectorSpy struct {
	durationRecords []SpyDurationRecord
	counterRecords  []SpyCounterRecord
	valueRecords    []SpyValueRecord
	mu              sync.Mutex
}

// SpyDurationRecord represents a recorded duration metric call.
type SpyDurationRecord struct {
	Metric   string
	Duration time.Duration
	Labels   map[string]string
}

// SpyCounterRecord represents a recorded counter increment call.
type SpyCounterRecord struct {
	Metric string
	Labels map[string]string
}

// SpyValueRecord represents a recorded value metric call.
type SpyValueRecord struct {
	Metric string
	Value  float64
	Labels map[string]string
}

// NewMetricsCollectorSpy creates a new MetricsCollectorSpy.
func NewMetricsCollectorSpy() *MetricsCollectorSpy {
	return &MetricsCollectorSpy{}
}

// RecordDuration implements marketplace.MetricsCollector.
func (s *MetricsCollectorSpy) RecordDuration(metric string, duration time.Duration, labels map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.durationRecords = append(s.durationRecords, SpyDurationRecord{
		Metric:   metric,
		Duration: duration,
		Labels:   maps.Clone(labels),
	})
}

// IncrementCounter implements marketplace.MetricsCollector.
func (s *MetricsCollectorSpy) IncrementCounter(metric string, labels map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counterRecords = append(s.counterRecords, SpyCounterRecord{
		Metric: metric,
		Labels: maps.Clone(labels),
	})
}

// RecordValue implements marketplace.MetricsCollector.
func (s *MetricsCollectorSpy) RecordValue(metric string, value float64, labels map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.valueRecords = append(s.valueRecords, SpyValueRecord{
		Metric: metric,
		Value:  value,
		Labels: maps.Clone(labels),
	})
}

// MetricRecordMatcher provides a fluent interface for checking metric labels.
type MetricRecordMatcher struct {
	candidates []map[string]string
}

// HasDurationRecordForMetric starts a fluent chain over all duration records of metric.
func (s *MetricsCollectorSpy) HasDurationRecordForMetric(metric string) *MetricRecordMatcher {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := &MetricRecordMatcher{}
	for _, r := range s.durationRecords {
		if r.Metric == metric {
			m.candidates = append(m.candidates, r.Labels)
		}
	}

	return m
}

// HasCounterRecordForMetric starts a fluent chain over all counter records of metric.
func (s *MetricsCollectorSpy) HasCounterRecordForMetric(metric string) *MetricRecordMatcher {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := &MetricRecordMatcher{}
	for _, r := range s.counterRecords {
		if r.Metric == metric {
			m.candidates = append(m.candidates, r.Labels)
		}
	}

	return m
}

// HasValueRecordForMetric starts a fluent chain over all value records of metric.
func (s *MetricsCollectorSpy) HasValueRecordForMetric(metric string) *MetricRecordMatcher {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := &MetricRecordMatcher{}
	for _, r := range s.valueRecords {
		if r.Metric == metric {
			m.candidates = append(m.candidates, r.Labels)
		}
	}

	return m
}

// WithLabel keeps only records carrying key=value.
func (m *MetricRecordMatcher) WithLabel(key, value string) *MetricRecordMatcher {
	kept := m.candidates[:0:0]
	for _, labels := range m.candidates {
		if labels[key] == value {
			kept = append(kept, labels)
		}
	}

	m.candidates = kept

	return m
}

// Assert returns true if at least one record satisfied the chain.
func (m *MetricRecordMatcher) Assert() bool {
	return len(m.candidates) > 0
}

// CountCounterRecordsForMetric returns the number of counter increments for metric.
func (s *MetricsCollectorSpy) CountCounterRecordsForMetric(metric string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, r := range s.counterRecords {
		if r.Metric == metric {
			count++
		}
	}

	return count
}

// SumValuesForMetric returns the sum of all recorded values for metric.
func (s *MetricsCollectorSpy) SumValuesForMetric(metric string) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	sum := 0.0
	for _, r := range s.valueRecords {
		if r.Metric == metric {
			sum += r.Value
		}
	}

	return sum
}
