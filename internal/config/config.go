// Package config loads the service configuration from an optional YAML file
// and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"ytplaylist/internal/infra/youtube"
	"ytplaylist/internal/resilience/circuitbreaker"
	envconfig "ytplaylist/pkg/config"
)

// Config is the complete runtime configuration.
type Config struct {
	YouTube YouTubeConfig `yaml:"youtube"`
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
	Tracing TracingConfig `yaml:"tracing"`
}

// YouTubeConfig configures the remote client.
type YouTubeConfig struct {
	BaseURL   string        `yaml:"base_url"`
	GL        string        `yaml:"gl"`
	HL        string        `yaml:"hl"`
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"user_agent"`

	// RequestsPerSecond paces outbound requests. Zero disables pacing.
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`

	Breaker BreakerConfig `yaml:"breaker"`
}

// BreakerConfig mirrors circuitbreaker.Config for the YAML file.
type BreakerConfig struct {
	MaxRequests      uint32        `yaml:"max_requests"`
	Interval         time.Duration `yaml:"interval"`
	Timeout          time.Duration `yaml:"timeout"`
	FailureThreshold float64       `yaml:"failure_threshold"`
	MinRequests      uint32        `yaml:"min_requests"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	// RequestTimeout bounds a whole playlist walk triggered by one request.
	RequestTimeout time.Duration `yaml:"request_timeout"`
	// MaxBodyBytes caps request bodies on the continuation endpoint.
	MaxBodyBytes int64 `yaml:"max_body_bytes"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// TracingConfig configures the OpenTelemetry tracer provider.
type TracingConfig struct {
	Enabled     bool    `yaml:"enabled"`
	SampleRatio float64 `yaml:"sample_ratio"`
}

// Default returns the built-in configuration.
func Default() *Config {
	yt := youtube.DefaultConfig()
	breaker := yt.Breaker
	return &Config{
		YouTube: YouTubeConfig{
			BaseURL:           yt.BaseURL,
			GL:                "US",
			HL:                "en",
			Timeout:           30 * time.Second,
			UserAgent:         yt.UserAgent,
			RequestsPerSecond: yt.RequestsPerSecond,
			Burst:             yt.Burst,
			Breaker: BreakerConfig{
				MaxRequests:      breaker.MaxRequests,
				Interval:         breaker.Interval,
				Timeout:          breaker.Timeout,
				FailureThreshold: breaker.FailureThreshold,
				MinRequests:      breaker.MinRequests,
			},
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 10 * time.Second,
			RequestTimeout:  2 * time.Minute,
			MaxBodyBytes:    1 << 20,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Tracing: TracingConfig{
			Enabled:     false,
			SampleRatio: 1.0,
		},
	}
}

// Load builds the configuration from defaults, the YAML file at path (if
// path is non-empty) and YTPL_* environment variables, in that order.
// The path parameter is expected to come from a trusted source (command-line flag).
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		// #nosec G304 -- path is provided by the operator, not request input
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	yt := &c.YouTube
	yt.BaseURL = envconfig.GetEnvString("YTPL_YOUTUBE_BASE_URL", yt.BaseURL)
	yt.GL = envconfig.GetEnvString("YTPL_YOUTUBE_GL", yt.GL)
	yt.HL = envconfig.GetEnvString("YTPL_YOUTUBE_HL", yt.HL)
	yt.Timeout = envconfig.GetEnvDuration("YTPL_YOUTUBE_TIMEOUT", yt.Timeout)
	yt.UserAgent = envconfig.GetEnvString("YTPL_YOUTUBE_USER_AGENT", yt.UserAgent)
	yt.RequestsPerSecond = envconfig.GetEnvFloat("YTPL_YOUTUBE_REQUESTS_PER_SECOND", yt.RequestsPerSecond)
	yt.Burst = envconfig.GetEnvInt("YTPL_YOUTUBE_BURST", yt.Burst)
	yt.Breaker.Timeout = envconfig.GetEnvDuration("YTPL_YOUTUBE_BREAKER_TIMEOUT", yt.Breaker.Timeout)
	yt.Breaker.FailureThreshold = envconfig.GetEnvFloat("YTPL_YOUTUBE_BREAKER_FAILURE_THRESHOLD", yt.Breaker.FailureThreshold)

	c.Server.Addr = envconfig.GetEnvString("YTPL_SERVER_ADDR", c.Server.Addr)
	c.Server.ShutdownTimeout = envconfig.GetEnvDuration("YTPL_SERVER_SHUTDOWN_TIMEOUT", c.Server.ShutdownTimeout)
	c.Server.RequestTimeout = envconfig.GetEnvDuration("YTPL_SERVER_REQUEST_TIMEOUT", c.Server.RequestTimeout)

	c.Log.Level = envconfig.GetEnvString("YTPL_LOG_LEVEL", envconfig.GetEnvString("LOG_LEVEL", c.Log.Level))
	c.Log.Format = envconfig.GetEnvString("YTPL_LOG_FORMAT", c.Log.Format)

	c.Tracing.Enabled = envconfig.GetEnvBool("YTPL_TRACING_ENABLED", c.Tracing.Enabled)
	c.Tracing.SampleRatio = envconfig.GetEnvFloat("YTPL_TRACING_SAMPLE_RATIO", c.Tracing.SampleRatio)
}

// Validate checks configuration correctness.
func (c *Config) Validate() error {
	if c.YouTube.BaseURL == "" {
		return errors.New("youtube.base_url is required")
	}
	if !strings.HasPrefix(c.YouTube.BaseURL, "http://") && !strings.HasPrefix(c.YouTube.BaseURL, "https://") {
		return fmt.Errorf("youtube.base_url must be an http(s) URL, got %q", c.YouTube.BaseURL)
	}
	if err := envconfig.ValidateDurationRange(c.YouTube.Timeout, time.Second, 5*time.Minute); err != nil {
		return fmt.Errorf("youtube.timeout: %w", err)
	}
	if c.YouTube.RequestsPerSecond < 0 {
		return errors.New("youtube.requests_per_second must not be negative")
	}
	if c.YouTube.RequestsPerSecond > 0 && c.YouTube.Burst <= 0 {
		return errors.New("youtube.burst must be positive when pacing is enabled")
	}
	if c.YouTube.Breaker.MaxRequests == 0 {
		return errors.New("youtube.breaker.max_requests must be positive")
	}
	if err := envconfig.ValidatePositiveDuration(c.YouTube.Breaker.Interval); err != nil {
		return fmt.Errorf("youtube.breaker.interval: %w", err)
	}
	if err := envconfig.ValidatePositiveDuration(c.YouTube.Breaker.Timeout); err != nil {
		return fmt.Errorf("youtube.breaker.timeout: %w", err)
	}
	if err := envconfig.ValidateRatio(c.YouTube.Breaker.FailureThreshold); err != nil {
		return fmt.Errorf("youtube.breaker.failure_threshold: %w", err)
	}

	if c.Server.Addr == "" {
		return errors.New("server.addr is required")
	}
	if err := envconfig.ValidatePositiveDuration(c.Server.ShutdownTimeout); err != nil {
		return fmt.Errorf("server.shutdown_timeout: %w", err)
	}
	if err := envconfig.ValidatePositiveDuration(c.Server.RequestTimeout); err != nil {
		return fmt.Errorf("server.request_timeout: %w", err)
	}
	if c.Server.MaxBodyBytes <= 0 {
		return errors.New("server.max_body_bytes must be positive")
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("log.format %q is not json or text", c.Log.Format)
	}

	if err := envconfig.ValidateRatio(c.Tracing.SampleRatio); err != nil {
		return fmt.Errorf("tracing.sample_ratio: %w", err)
	}
	return nil
}

// BreakerSettings returns the circuit breaker configuration for the client.
func (c *Config) BreakerSettings() circuitbreaker.Config {
	cfg := circuitbreaker.YouTubeConfig()
	cfg.MaxRequests = c.YouTube.Breaker.MaxRequests
	cfg.Interval = c.YouTube.Breaker.Interval
	cfg.Timeout = c.YouTube.Breaker.Timeout
	cfg.FailureThreshold = c.YouTube.Breaker.FailureThreshold
	cfg.MinRequests = c.YouTube.Breaker.MinRequests
	return cfg
}
