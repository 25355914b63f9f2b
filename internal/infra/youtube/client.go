// Package youtube fetches and parses playlist pages from the YouTube web
// frontend and its InnerTube browse endpoint.
package youtube

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"ytplaylist/internal/domain/entity"
	"ytplaylist/internal/observability/logging"
	"ytplaylist/internal/observability/metrics"
	"ytplaylist/internal/observability/tracing"
	"ytplaylist/internal/resilience/circuitbreaker"
	"ytplaylist/internal/resilience/retry"
	"ytplaylist/internal/usecase/playlist"
)

const (
	// DefaultBaseURL is the remote host for every request.
	DefaultBaseURL = "https://www.youtube.com"

	// DefaultUserAgent is sent unless the caller supplies one.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

	playlistPath = "/playlist"
	browsePath   = "/youtubei/v1/browse"

	// maxBodySize caps every response body (10 MiB).
	maxBodySize = 10 * 1024 * 1024
)

var apiKeyParam = regexp.MustCompile(`key=[^&\s"]+`)

// ErrResponseTooLarge is returned when a response body exceeds the size cap.
var ErrResponseTooLarge = errors.New("response too large")

// Config holds the client settings.
type Config struct {
	BaseURL           string
	UserAgent         string
	RequestsPerSecond float64
	Burst             int
	Breaker           circuitbreaker.Config
}

// DefaultConfig returns the settings used against the public host.
func DefaultConfig() Config {
	return Config{
		BaseURL:           DefaultBaseURL,
		UserAgent:         DefaultUserAgent,
		RequestsPerSecond: 2,
		Burst:             2,
		Breaker:           circuitbreaker.YouTubeConfig(),
	}
}

// Client performs the raw page exchanges. Every request is paced, passes
// through a circuit breaker and is traced; none is retried.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	breaker    *circuitbreaker.CircuitBreaker
	pacer      *pacer
	maxBody    int64
}

// NewClient creates a Client. A nil httpClient uses a client with a 30s timeout.
func NewClient(httpClient *http.Client, cfg Config) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Breaker.Name == "" {
		cfg.Breaker = circuitbreaker.YouTubeConfig()
	}
	if cfg.Breaker.IsSuccessful == nil {
		cfg.Breaker.IsSuccessful = countsAsSuccess
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		userAgent:  cfg.UserAgent,
		breaker:    circuitbreaker.New(cfg.Breaker),
		pacer:      newPacer(cfg.RequestsPerSecond, cfg.Burst),
		maxBody:    maxBodySize,
	}
}

// BreakerState reports the circuit breaker state for health checks.
func (c *Client) BreakerState() string {
	return c.breaker.State().String()
}

// countsAsSuccess keeps client-side failures from tripping the breaker.
func countsAsSuccess(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return true
	}
	var httpErr *retry.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode >= 400 && httpErr.StatusCode < 500 &&
			httpErr.StatusCode != http.StatusTooManyRequests &&
			httpErr.StatusCode != http.StatusRequestTimeout
	}
	return false
}

// FetchPlaylistPage downloads the HTML first page of a playlist.
func (c *Client) FetchPlaylistPage(ctx context.Context, playlistID string, opts entity.Options) ([]byte, error) {
	query := url.Values{}
	query.Set("gl", opts.GL)
	query.Set("hl", opts.HL)
	query.Set("list", playlistID)
	target := c.baseURL + playlistPath + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	c.setHeaders(req, opts)

	return c.do(ctx, metrics.PageFirst, req)
}

// FetchContinuation posts a continuation token to the browse endpoint.
// The cursor context is sent exactly as stored.
func (c *Client) FetchContinuation(ctx context.Context, cursor *entity.Cursor) ([]byte, error) {
	body, err := continuationBody(cursor)
	if err != nil {
		return nil, err
	}

	target := c.baseURL + browsePath + "?" + url.Values{"key": {cursor.APIKey}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	var opts entity.Options
	if cursor.Options != nil {
		opts = *cursor.Options
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", c.baseURL)
	req.Header.Set("X-Youtube-Client-Name", "1")
	if version := gjson.GetBytes(cursor.Context, "client.clientVersion").String(); version != "" {
		req.Header.Set("X-Youtube-Client-Version", version)
	}
	c.setHeaders(req, opts)

	return c.do(ctx, metrics.PageContinuation, req)
}

// FetchProfile downloads a vanity channel page (/user/<name> or /c/<name>).
func (c *Client) FetchProfile(ctx context.Context, kind playlist.ProfileKind, name string) ([]byte, error) {
	target := c.baseURL + "/" + string(kind) + "/" + url.PathEscape(name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	c.setHeaders(req, entity.Options{})

	return c.do(ctx, metrics.PageProfile, req)
}

// continuationBody renders {"context": <context>, "continuation": <token>}
// without re-encoding the context.
func continuationBody(cursor *entity.Cursor) ([]byte, error) {
	token, err := json.Marshal(cursor.Token)
	if err != nil {
		return nil, fmt.Errorf("encode token: %w", err)
	}
	var buf bytes.Buffer
	buf.Grow(len(cursor.Context) + len(token) + 32)
	buf.WriteString(`{"context":`)
	buf.Write(cursor.Context)
	buf.WriteString(`,"continuation":`)
	buf.Write(token)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// setHeaders applies defaults first so caller headers win.
func (c *Client) setHeaders(req *http.Request, opts entity.Options) {
	req.Header.Set("User-Agent", c.userAgent)
	if opts.HL != "" {
		req.Header.Set("Accept-Language", opts.HL)
	}
	for k, v := range opts.RequestOptions.Headers {
		req.Header.Set(k, v)
	}
}

// do executes req through the pacer and the breaker and returns the body.
func (c *Client) do(ctx context.Context, kind string, req *http.Request) ([]byte, error) {
	safeURL := redactKey(req.URL.String())
	ctx, span := tracing.GetTracer().Start(ctx, "youtube.fetch_"+kind,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", req.Method),
			attribute.String("http.url", safeURL),
		),
	)
	defer span.End()

	logger := logging.FromContext(ctx)
	start := time.Now()

	// An open breaker rejects the call anyway; fail before taking a pacer slot.
	if c.breaker.IsOpen() {
		err := fmt.Errorf("%s: %w", c.breaker.Name(), circuitbreaker.ErrOpenState)
		metrics.RecordPageFetchError(kind, "breaker_open", time.Since(start))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if err := c.pacer.Wait(ctx); err != nil {
		metrics.RecordPageFetchError(kind, "paced", time.Since(start))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("wait for request slot: %w", err)
	}

	body, err := circuitbreaker.Do(c.breaker, func() ([]byte, error) {
		return c.roundTrip(req.WithContext(ctx))
	})
	duration := time.Since(start)
	if err != nil {
		reason := failureReason(err)
		metrics.RecordPageFetchError(kind, reason, duration)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Warn("page fetch failed",
			slog.String("kind", kind),
			slog.String("url", safeURL),
			slog.String("reason", reason),
			slog.String("breaker", c.breaker.Name()),
			slog.String("breaker_state", c.breaker.State().String()),
			slog.Any("error", err),
		)
		return nil, err
	}

	metrics.RecordPageFetch(kind, duration)
	span.SetAttributes(attribute.Int("http.response_size", len(body)))
	logger.Debug("page fetched",
		slog.String("kind", kind),
		slog.String("url", safeURL),
		slog.Int("bytes", len(body)),
		slog.Duration("duration", duration),
	)
	return body, nil
}

func (c *Client) roundTrip(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &retry.HTTPError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("unexpected status: %s", resp.Status),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	if int64(len(body)) > c.maxBody {
		return nil, fmt.Errorf("%w: body exceeds %d bytes", ErrResponseTooLarge, c.maxBody)
	}
	return body, nil
}

func failureReason(err error) string {
	var httpErr *retry.HTTPError
	switch {
	case errors.Is(err, circuitbreaker.ErrOpenState), errors.Is(err, circuitbreaker.ErrTooManyRequests):
		return "breaker_open"
	case errors.As(err, &httpErr):
		return "status"
	case errors.Is(err, ErrResponseTooLarge):
		return "too_large"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "transport"
	}
}

// redactKey hides the API key in URLs written to logs and spans.
func redactKey(s string) string {
	return apiKeyParam.ReplaceAllString(s, "key=****")
}
