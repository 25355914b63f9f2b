package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedBreaker string

func (b fixedBreaker) BreakerState() string { return string(b) }

func TestHealthHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		state          string
		expectedStatus int
		expectedHealth string
	}{
		{name: "closed breaker", state: "closed", expectedStatus: http.StatusOK, expectedHealth: "healthy"},
		{name: "half-open breaker", state: "half-open", expectedStatus: http.StatusOK, expectedHealth: "degraded"},
		{name: "open breaker", state: "open", expectedStatus: http.StatusServiceUnavailable, expectedHealth: "unhealthy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := &HealthHandler{Upstream: fixedBreaker(tt.state), Version: "test-version"}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Equal(t, "no-cache, no-store, must-revalidate", rec.Header().Get("Cache-Control"))

			var response HealthResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
			assert.Equal(t, tt.expectedHealth, response.Status)
			assert.Equal(t, "test-version", response.Version)
			assert.NotEmpty(t, response.Timestamp)
			require.Contains(t, response.Checks, "youtube")
			assert.Equal(t, tt.state, response.Checks["youtube"].Details["circuit_breaker"])
		})
	}
}

func TestHealthHandler_NoUpstream(t *testing.T) {
	rec := httptest.NewRecorder()
	(&HealthHandler{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLiveHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	(&LiveHandler{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/live", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alive", rec.Body.String())
}
