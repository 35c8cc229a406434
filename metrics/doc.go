// Package metrics adapts marketplace.MetricsCollector to Prometheus and serves the
// registry over HTTP.
//
// Instruments are created on first use. The label names of an instrument are fixed by
// the first observation; later observations with a different label set are dropped.
package metrics
