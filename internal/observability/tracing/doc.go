// Package tracing provides OpenTelemetry tracing integration.
//
// Spans are created for every playlist run, continuation round, reference
// resolution and remote page exchange, and for each inbound HTTP request
// through Middleware.
//
// Example usage:
//
//	import "ytplaylist/internal/observability/tracing"
//
//	func main() {
//	    tp := tracing.InitProvider(1.0)
//	    defer func() { _ = tp.Shutdown(context.Background()) }()
//	}
//
//	func processRequest(ctx context.Context) {
//	    ctx, span := tracing.GetTracer().Start(ctx, "process-request")
//	    defer span.End()
//	}
package tracing
