package youtube

import (
	"context"

	"golang.org/x/time/rate"
)

// pacer spaces outbound requests with a token bucket.
// A nil pacer never blocks.
type pacer struct {
	limiter *rate.Limiter
}

// newPacer returns a pacer allowing requestsPerSecond sustained requests with
// the given burst. A non-positive rate disables pacing.
func newPacer(requestsPerSecond float64, burst int) *pacer {
	if requestsPerSecond <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return &pacer{limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst)}
}

// Wait blocks until a request may be sent or ctx is done.
func (p *pacer) Wait(ctx context.Context) error {
	if p == nil {
		return nil
	}
	return p.limiter.Wait(ctx)
}
