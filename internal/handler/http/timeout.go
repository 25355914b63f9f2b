package http

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"ytplaylist/internal/handler/http/respond"
)

// Timeout returns middleware that bounds the handler with a deadline. When
// the deadline passes first, the client gets 504 and later writes by the
// handler are discarded. The handler sees the canceled context, which
// aborts any page fetch in flight.
func Timeout(duration time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), duration)
			defer cancel()

			guarded := &deadlineWriter{ResponseWriter: w}
			done := make(chan struct{})
			go func() {
				defer close(done)
				next.ServeHTTP(guarded, r.WithContext(ctx))
			}()

			select {
			case <-done:
			case <-ctx.Done():
				guarded.mu.Lock()
				guarded.expired = true
				if !guarded.written {
					respond.Error(w, http.StatusGatewayTimeout, errors.New("request timeout"))
				}
				guarded.mu.Unlock()
			}
		})
	}
}

// deadlineWriter drops writes once the request deadline has fired.
type deadlineWriter struct {
	http.ResponseWriter
	mu      sync.Mutex
	expired bool
	written bool
}

func (w *deadlineWriter) WriteHeader(statusCode int) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.expired && !w.written {
		w.written = true
		w.ResponseWriter.WriteHeader(statusCode)
	}
}

func (w *deadlineWriter) Write(data []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.expired {
		return 0, http.ErrHandlerTimeout
	}
	if !w.written {
		w.written = true
		w.ResponseWriter.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(data)
}
