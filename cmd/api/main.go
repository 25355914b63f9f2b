// Package main runs the playlist HTTP API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"ytplaylist/internal/config"
	"ytplaylist/internal/domain/entity"
	hhttp "ytplaylist/internal/handler/http"
	hplaylist "ytplaylist/internal/handler/http/playlist"
	"ytplaylist/internal/handler/http/requestid"
	"ytplaylist/internal/infra/youtube"
	"ytplaylist/internal/observability/logging"
	"ytplaylist/internal/observability/tracing"
	playlistUC "ytplaylist/internal/usecase/playlist"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)
	version := getVersion()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, version); err != nil {
		logger.Error("server failed", slog.Any("error", err))
		os.Exit(1)
	}
}

// initLogger initializes the process-wide structured logger.
func initLogger(cfg *config.Config) *slog.Logger {
	var logger *slog.Logger
	if cfg.Log.Format == "text" {
		logger = logging.NewTextLogger(os.Stdout, cfg.Log.Level)
	} else {
		logger = logging.NewLogger(cfg.Log.Level)
	}
	slog.SetDefault(logger)
	return logger
}

// getVersion returns the application version from environment or default.
func getVersion() string {
	version := os.Getenv("VERSION")
	if version == "" {
		version = "dev"
	}
	return version
}

// setupServer builds the handler with all routes and middleware.
func setupServer(cfg *config.Config, logger *slog.Logger, version string) http.Handler {
	client := youtube.NewClient(&http.Client{Timeout: cfg.YouTube.Timeout}, youtube.Config{
		BaseURL:           cfg.YouTube.BaseURL,
		UserAgent:         cfg.YouTube.UserAgent,
		RequestsPerSecond: cfg.YouTube.RequestsPerSecond,
		Burst:             cfg.YouTube.Burst,
		Breaker:           cfg.BreakerSettings(),
	})
	svc := playlistUC.NewService(client, client)

	mux := http.NewServeMux()
	hplaylist.Register(mux, svc, entity.Options{GL: cfg.YouTube.GL, HL: cfg.YouTube.HL})
	mux.Handle("GET /health", &hhttp.HealthHandler{Upstream: client, Version: version})
	mux.Handle("GET /live", &hhttp.LiveHandler{})
	mux.Handle("GET /metrics", hhttp.MetricsHandler())

	// Order: Request ID → Recovery → Tracing → Logging → Timeout → Body Limit → Metrics
	return hhttp.Chain(mux,
		requestid.Middleware,
		hhttp.Recover(logger),
		tracing.Middleware,
		hhttp.Logging(logger),
		hhttp.Timeout(cfg.Server.RequestTimeout),
		hhttp.LimitRequestBody(cfg.Server.MaxBodyBytes),
		hhttp.MetricsMiddleware,
	)
}

// run serves until ctx is canceled, then shuts down gracefully.
func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, version string) error {
	if cfg.Tracing.Enabled {
		tp := tracing.InitProvider(cfg.Tracing.SampleRatio)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			if err := tp.Shutdown(shutdownCtx); err != nil {
				logger.Error("tracer provider shutdown failed", slog.Any("error", err))
			}
		}()
		logger.Info("tracing enabled", slog.Float64("sample_ratio", cfg.Tracing.SampleRatio))
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           setupServer(cfg, logger, version),
		ReadHeaderTimeout: 10 * time.Second, // Prevent Slowloris attacks
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server starting",
			slog.String("addr", cfg.Server.Addr),
			slog.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		logger.Info("server stopped")
		return nil
	})

	return g.Wait()
}
