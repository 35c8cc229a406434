// Package observability provides spies for slog and marketplace.MetricsCollector.
package observability
