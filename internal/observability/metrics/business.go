package metrics

import (
	"time"
)

// Page kinds used as metric labels.
const (
	PageFirst        = "first"
	PageContinuation = "continuation"
	PageProfile      = "profile"
)

// Resolution outcomes used as metric labels.
const (
	ResolutionOK     = "ok"
	ResolutionFailed = "failed"
)

// RecordPageFetch records a successful page exchange.
func RecordPageFetch(kind string, duration time.Duration) {
	PagesFetchedTotal.WithLabelValues(kind, "success").Inc()
	PageFetchDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// RecordPageFetchError records a failed page exchange.
// reason is a short classification such as "status", "transport" or "parse".
func RecordPageFetchError(kind, reason string, duration time.Duration) {
	PagesFetchedTotal.WithLabelValues(kind, "failure").Inc()
	PageFetchErrors.WithLabelValues(kind, reason).Inc()
	PageFetchDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// RecordPageParseError records a page whose exchange succeeded but whose
// content was rejected. It does not touch the exchange counters.
func RecordPageParseError(kind, reason string) {
	PageParseErrors.WithLabelValues(kind, reason).Inc()
}

// RecordRun records a finished run or continuation round.
func RecordRun(stopReason string, pages, items int) {
	RunsTotal.WithLabelValues(stopReason).Inc()
	RunPages.Observe(float64(pages))
	if items > 0 {
		ItemsFetchedTotal.Add(float64(items))
	}
}

// RecordResolution records the outcome of a reference resolution.
func RecordResolution(outcome string) {
	ResolutionsTotal.WithLabelValues(outcome).Inc()
}
