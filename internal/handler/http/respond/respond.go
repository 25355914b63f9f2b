// Package respond provides utilities for sending HTTP responses in JSON format.
// Playlist errors are mapped onto status codes, and anything that is not a
// caller mistake is logged with secrets masked.
package respond

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"ytplaylist/internal/observability/logging"
	"ytplaylist/internal/resilience/circuitbreaker"
	"ytplaylist/internal/resilience/retry"
	"ytplaylist/internal/usecase/playlist"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// JSON writes a JSON response with the given status code and data.
func JSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			// Headers are already sent.
			slog.Default().Error("failed to encode JSON response",
				slog.Int("status_code", code),
				slog.Any("error", err))
		}
	}
}

// Error writes a JSON error response with the given status code and error message.
func Error(w http.ResponseWriter, code int, err error) {
	JSON(w, code, ErrorBody{Error: err.Error()})
}

// StatusFor maps an error from the playlist use cases onto an HTTP status.
func StatusFor(err error) int {
	var httpErr *retry.HTTPError
	switch {
	case errors.Is(err, playlist.ErrPlaylistNotFound):
		return http.StatusNotFound
	case errors.Is(err, playlist.ErrPlaylistPrivate):
		return http.StatusForbidden
	case errors.Is(err, circuitbreaker.ErrOpenState), errors.Is(err, circuitbreaker.ErrTooManyRequests):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &httpErr):
		return http.StatusBadGateway
	}

	switch playlist.KindOf(err) {
	case playlist.KindInvalidInput, playlist.KindReference, playlist.KindContinuation:
		return http.StatusBadRequest
	case playlist.KindAPI:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}

// PlaylistError writes err with the status from StatusFor. Classified errors
// are returned verbatim; upstream failures are logged and replaced by a
// generic message.
func PlaylistError(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		return
	}
	code := StatusFor(err)
	kind := playlist.KindOf(err)

	if kind != 0 {
		JSON(w, code, ErrorBody{Error: err.Error(), Kind: kind.String()})
		return
	}

	logging.FromContext(ctx).Error("upstream failure",
		slog.Int("code", code),
		slog.String("error", SanitizeError(err)))
	JSON(w, code, ErrorBody{Error: http.StatusText(code)})
}
