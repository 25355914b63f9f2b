// Package resilience groups the fault-tolerance helpers used around the
// YouTube page exchanges.
//
//   - circuitbreaker: a gobreaker wrapper. The YouTube client runs every
//     request through the breaker built from YouTubeConfig, and /health
//     reports its state.
//   - retry: exponential backoff with jitter. Nothing inside the playlist
//     core retries; callers re-issue a page from their last cursor with
//     PlaylistPageConfig, as `ytpl continue -retries` does.
//
// Usage Example:
//
//	cb := circuitbreaker.New(circuitbreaker.YouTubeConfig())
//	body, err := circuitbreaker.Do(cb, func() ([]byte, error) {
//	    return fetchPage(ctx)
//	})
//
//	err = retry.WithBackoff(ctx, retry.PlaylistPageConfig(3), func() error {
//	    page, err = svc.ContinueJSON(ctx, cursor)
//	    return err
//	})
package resilience
