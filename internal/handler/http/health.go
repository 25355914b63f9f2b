// Package http provides the HTTP handlers and middleware of the playlist API.
package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

// Health statuses.
const (
	statusHealthy   = "healthy"
	statusDegraded  = "degraded"
	statusUnhealthy = "unhealthy"
)

// HealthResponse represents the JSON response for health check endpoints.
type HealthResponse struct {
	Status    string                 `json:"status"`    // "healthy", "degraded" or "unhealthy"
	Timestamp string                 `json:"timestamp"` // ISO 8601 format
	Checks    map[string]CheckStatus `json:"checks"`
	Version   string                 `json:"version"`
}

// CheckStatus represents the status of a single health check.
type CheckStatus struct {
	Status  string         `json:"status"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// BreakerReporter exposes the state of the upstream circuit breaker.
type BreakerReporter interface {
	BreakerState() string
}

// HealthHandler reports whether the service can currently reach YouTube.
// An open breaker makes the service unhealthy; a half-open one degraded.
type HealthHandler struct {
	Upstream BreakerReporter
	Version  string
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]CheckStatus)
	status := statusHealthy
	statusCode := http.StatusOK

	if h.Upstream != nil {
		check := upstreamCheck(h.Upstream.BreakerState())
		checks["youtube"] = check
		status = check.Status
		if check.Status == statusUnhealthy {
			statusCode = http.StatusServiceUnavailable
		}
	}

	response := HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Version:   h.Version,
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		slog.Default().Error("health: failed to encode response", slog.Any("error", err))
	}
}

func upstreamCheck(state string) CheckStatus {
	details := map[string]any{"circuit_breaker": state}
	switch state {
	case "closed":
		return CheckStatus{Status: statusHealthy, Details: details}
	case "half-open":
		return CheckStatus{Status: statusDegraded, Message: "circuit breaker probing upstream", Details: details}
	default:
		return CheckStatus{Status: statusUnhealthy, Message: "circuit breaker open", Details: details}
	}
}

// LiveHandler answers liveness probes.
type LiveHandler struct{}

func (h *LiveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("alive")); err != nil {
		slog.Default().Error("alive: failed to write response", slog.Any("error", err))
	}
}
