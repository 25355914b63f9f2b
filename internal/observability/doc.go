// Package observability groups the logging, metrics and tracing support used
// by the playlist API and CLI.
//
// Subpackages:
//   - logging: slog constructors and request-scoped logger propagation
//   - metrics: Prometheus collectors for HTTP traffic and playlist walks
//   - tracing: OpenTelemetry provider setup and HTTP span middleware
//
// Example usage:
//
//	import (
//	    "ytplaylist/internal/observability/logging"
//	    "ytplaylist/internal/observability/metrics"
//	)
//
//	func main() {
//	    logger := logging.NewLogger("info")
//	    logger.Info("application started")
//
//	    metrics.RecordPageFetch("first", 120*time.Millisecond)
//	}
package observability
