// Package metrics provides Prometheus metrics registry and recording utilities.
//
// This package centralizes all application metrics including:
//   - HTTP request metrics (duration, count, size)
//   - Page fetch metrics (count, duration, errors by kind)
//   - Run metrics (stop reasons, pages per run, items returned)
//
// All metrics are automatically registered with the Prometheus default registry
// and exposed via the /metrics endpoint.
//
// Example usage:
//
//	import "ytplaylist/internal/observability/metrics"
//
//	start := time.Now()
//	// ... fetch a page ...
//	metrics.RecordPageFetch(metrics.PageFirst, time.Since(start))
package metrics
