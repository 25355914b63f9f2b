// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics track HTTP request patterns and performance
var (
	// HTTPRequestsTotal counts total HTTP requests by method, path, and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration measures HTTP request duration in seconds
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// HTTPResponseSize measures HTTP response body size in bytes
	HTTPResponseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_response_size_bytes",
			Help:    "HTTP response size in bytes",
			Buckets: prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"method", "path"},
	)
)

// Playlist metrics track page fetching against the remote service
var (
	// PagesFetchedTotal counts fetched pages by kind (first, continuation, profile) and status
	PagesFetchedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "playlist_pages_fetched_total",
			Help: "Total number of pages fetched from the remote service",
		},
		[]string{"kind", "status"},
	)

	// PageFetchDuration measures the duration of a single page exchange
	PageFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "playlist_page_fetch_duration_seconds",
			Help:    "Time taken to fetch a single page",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		},
		[]string{"kind"},
	)

	// PageFetchErrors counts failed page exchanges by kind and reason
	PageFetchErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "playlist_page_fetch_errors_total",
			Help: "Total number of failed page fetches",
		},
		[]string{"kind", "reason"},
	)

	// PageParseErrors counts pages that downloaded fine but could not be
	// used, by kind and reason (parse, api_error)
	PageParseErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "playlist_page_parse_errors_total",
			Help: "Total number of fetched pages that failed to parse",
		},
		[]string{"kind", "reason"},
	)

	// ItemsFetchedTotal counts playlist items returned to callers
	ItemsFetchedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "playlist_items_fetched_total",
			Help: "Total number of playlist items returned",
		},
	)

	// RunsTotal counts completed runs by stop reason (limit, pages, end)
	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "playlist_runs_total",
			Help: "Total number of completed playlist runs",
		},
		[]string{"stop_reason"},
	)

	// RunPages measures how many pages a run fetched
	RunPages = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "playlist_run_pages",
			Help:    "Number of pages fetched per run",
			Buckets: prometheus.ExponentialBuckets(1, 2, 8),
		},
	)

	// ResolutionsTotal counts reference resolutions by outcome
	ResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "playlist_reference_resolutions_total",
			Help: "Total number of reference resolutions",
		},
		[]string{"outcome"},
	)
)
