package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ytplaylist/internal/domain/entity"
	"ytplaylist/internal/observability/metrics"
	"ytplaylist/internal/resilience/circuitbreaker"
	"ytplaylist/internal/resilience/retry"
	"ytplaylist/internal/usecase/playlist"
)

func TestClient_FetchPlaylistPage(t *testing.T) {
	fake := &fakeYouTube{first: firstPageHTML(t)}
	client, _ := newTestClient(t, fake)

	opts := entity.Options{
		RequestOptions: entity.RequestOptions{Headers: map[string]string{"X-Test": "yes", "User-Agent": "custom-agent"}},
	}.WithDefaults()
	body, err := client.FetchPlaylistPage(context.Background(), testPlaylistID, opts)
	if err != nil {
		t.Fatalf("FetchPlaylistPage() error = %v", err)
	}
	assert.NotEmpty(t, body)

	reqs := fake.recorded()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodGet, reqs[0].Method)
	assert.Equal(t, "/playlist", reqs[0].Path)
	assert.Equal(t, []string{"US"}, reqs[0].Query["gl"])
	assert.Equal(t, []string{"en"}, reqs[0].Query["hl"])
	assert.Equal(t, []string{testPlaylistID}, reqs[0].Query["list"])
	assert.Equal(t, "yes", reqs[0].Header.Get("X-Test"))
	assert.Equal(t, "custom-agent", reqs[0].Header.Get("User-Agent"))
}

func TestClient_FetchContinuation(t *testing.T) {
	fake := &fakeYouTube{byToken: map[string]string{"token": continuationJSON(t, 0, 100, secondToken)}}
	client, _ := newTestClient(t, fake)

	cursor := &entity.Cursor{
		APIKey:  "apiKey",
		Token:   "token",
		Context: json.RawMessage(`{"context":"context"}`),
		Options: &entity.Options{RequestOptions: entity.RequestOptions{Headers: map[string]string{"test": "test"}}},
	}
	_, err := client.FetchContinuation(context.Background(), cursor)
	if err != nil {
		t.Fatalf("FetchContinuation() error = %v", err)
	}

	reqs := fake.recorded()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodPost, reqs[0].Method)
	assert.Equal(t, browsePath, reqs[0].Path)
	assert.Equal(t, []string{"apiKey"}, reqs[0].Query["key"])
	assert.Equal(t, `{"context":{"context":"context"},"continuation":"token"}`, reqs[0].Body)
	assert.Equal(t, "test", reqs[0].Header.Get("test"))
	assert.Equal(t, "application/json", reqs[0].Header.Get("Content-Type"))
}

func TestClient_FetchContinuation_PreservesContextBytes(t *testing.T) {
	fake := &fakeYouTube{byToken: map[string]string{"t": continuationJSON(t, 0, 1, "")}}
	client, _ := newTestClient(t, fake)

	rawContext := `{ "client": {"clientVersion": "1.0", "hl":"en"}, "extra": [1, 2] }`
	cursor := &entity.Cursor{APIKey: "k", Token: "t", Context: json.RawMessage(rawContext), Options: &entity.Options{}}
	_, err := client.FetchContinuation(context.Background(), cursor)
	require.NoError(t, err)

	reqs := fake.recorded()
	require.Len(t, reqs, 1)
	assert.Equal(t, `{"context":`+rawContext+`,"continuation":"t"}`, reqs[0].Body)
	assert.Equal(t, "1.0", reqs[0].Header.Get("X-Youtube-Client-Version"))
}

func TestClient_FetchProfile(t *testing.T) {
	fake := &fakeYouTube{profiles: map[string]string{"/c/ASDF": userPageHTML()}}
	client, _ := newTestClient(t, fake)

	id, err := client.ChannelIDFromProfile(context.Background(), playlist.ProfileCustom, "ASDF")

	require.NoError(t, err)
	assert.Equal(t, testChannelID, id)
}

func TestClient_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(server.Client(), Config{BaseURL: server.URL})
	_, err := client.FetchPlaylistPage(context.Background(), testPlaylistID, defaultOptions())

	var httpErr *retry.HTTPError
	require.True(t, errors.As(err, &httpErr), "expected *retry.HTTPError, got %v", err)
	assert.Equal(t, http.StatusTooManyRequests, httpErr.StatusCode)
	assert.True(t, retry.IsRetryable(err))
}

func TestClient_BreakerOpensOnServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	breaker := circuitbreaker.YouTubeConfig()
	breaker.Name = "youtube-breaker-test"
	breaker.MinRequests = 2
	client := NewClient(server.Client(), Config{BaseURL: server.URL, Breaker: breaker})

	for i := 0; i < 2; i++ {
		_, _ = client.FetchPlaylistPage(context.Background(), testPlaylistID, defaultOptions())
	}
	_, err := client.FetchPlaylistPage(context.Background(), testPlaylistID, defaultOptions())

	assert.ErrorIs(t, err, circuitbreaker.ErrOpenState)
	assert.Contains(t, err.Error(), "youtube-breaker-test")
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, "open", client.BreakerState())
}

func TestClient_OpenBreakerDoesNotWaitForPacer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	breaker := circuitbreaker.YouTubeConfig()
	breaker.Name = "youtube-open-pacer-test"
	breaker.MinRequests = 1
	breaker.FailureThreshold = 0.5
	client := NewClient(server.Client(), Config{BaseURL: server.URL, Breaker: breaker, RequestsPerSecond: 0.001, Burst: 1})

	_, _ = client.FetchPlaylistPage(context.Background(), testPlaylistID, defaultOptions())
	require.Equal(t, "open", client.BreakerState())

	// The only pacer slot is spent; a paced call would block until the deadline.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	start := time.Now()
	_, err := client.FetchPlaylistPage(ctx, testPlaylistID, defaultOptions())

	assert.ErrorIs(t, err, circuitbreaker.ErrOpenState)
	assert.Less(t, time.Since(start), time.Second)
}

func TestClient_ResponseTooLarge(t *testing.T) {
	fake := &fakeYouTube{first: firstPageHTML(t)}
	client, _ := newTestClient(t, fake)
	client.maxBody = 64

	_, err := client.FetchPlaylistPage(context.Background(), testPlaylistID, defaultOptions())

	require.ErrorIs(t, err, ErrResponseTooLarge)
	assert.Equal(t, "too_large", failureReason(err))
}

func TestClient_BodyAtCapIsAccepted(t *testing.T) {
	page := firstPageHTML(t)
	fake := &fakeYouTube{first: page}
	client, _ := newTestClient(t, fake)
	client.maxBody = int64(len(page))

	body, err := client.FetchPlaylistPage(context.Background(), testPlaylistID, defaultOptions())

	require.NoError(t, err)
	assert.Len(t, body, len(page))
}

func TestClient_FirstPage_UnusablePageCountsAsParseError(t *testing.T) {
	fake := &fakeYouTube{first: pageHTML(t, alertData("This playlist is private."))}
	client, _ := newTestClient(t, fake)

	fetched := metrics.PagesFetchedTotal.WithLabelValues(metrics.PageFirst, "success")
	failed := metrics.PagesFetchedTotal.WithLabelValues(metrics.PageFirst, "failure")
	fetchErrs := metrics.PageFetchErrors.WithLabelValues(metrics.PageFirst, "api_error")
	parseErrs := metrics.PageParseErrors.WithLabelValues(metrics.PageFirst, "api_error")
	beforeFetched := testutil.ToFloat64(fetched)
	beforeFailed := testutil.ToFloat64(failed)
	beforeFetchErrs := testutil.ToFloat64(fetchErrs)
	beforeParseErrs := testutil.ToFloat64(parseErrs)

	_, err := client.FirstPage(context.Background(), testPlaylistID, defaultOptions())

	require.ErrorIs(t, err, playlist.ErrPlaylistPrivate)
	assert.Equal(t, beforeFetched+1, testutil.ToFloat64(fetched))
	assert.Equal(t, beforeFailed, testutil.ToFloat64(failed))
	assert.Equal(t, beforeFetchErrs, testutil.ToFloat64(fetchErrs))
	assert.Equal(t, beforeParseErrs+1, testutil.ToFloat64(parseErrs))
}

func TestClient_PacerHonorsContext(t *testing.T) {
	fake := &fakeYouTube{first: firstPageHTML(t)}
	server := httptest.NewServer(fake)
	defer server.Close()

	client := NewClient(server.Client(), Config{BaseURL: server.URL, RequestsPerSecond: 0.001, Burst: 1})
	_, err := client.FetchPlaylistPage(context.Background(), testPlaylistID, defaultOptions())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = client.FetchPlaylistPage(ctx, testPlaylistID, defaultOptions())

	require.Error(t, err)
	assert.Len(t, fake.recorded(), 1)
}

func TestCountsAsSuccess(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: true},
		{name: "canceled", err: fmt.Errorf("do: %w", context.Canceled), want: true},
		{name: "404", err: &retry.HTTPError{StatusCode: 404}, want: true},
		{name: "429", err: &retry.HTTPError{StatusCode: 429}, want: false},
		{name: "500", err: &retry.HTTPError{StatusCode: 500}, want: false},
		{name: "transport", err: errors.New("connection reset"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, countsAsSuccess(tt.err))
		})
	}
}

func TestRedactKey(t *testing.T) {
	assert.Equal(t,
		"https://www.youtube.com/youtubei/v1/browse?key=****",
		redactKey("https://www.youtube.com/youtubei/v1/browse?key=AIzaSyExample"))
	assert.Equal(t, "https://www.youtube.com/playlist?list=PL1", redactKey("https://www.youtube.com/playlist?list=PL1"))
}
