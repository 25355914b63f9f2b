// Package main provides the ytpl command line client.
// Usage: ytpl [-config file] [-output json|text] <command> [flags] <args>
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"ytplaylist/internal/config"
	"ytplaylist/internal/infra/youtube"
	"ytplaylist/internal/observability/logging"
	playlistUC "ytplaylist/internal/usecase/playlist"
)

// Exit codes.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// errUsage marks command line mistakes; the usage text has already been printed.
var errUsage = errors.New("usage error")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// app carries what every subcommand needs.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	output string
	logger *slog.Logger
	svc    *playlistUC.Service
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	global := flag.NewFlagSet("ytpl", flag.ContinueOnError)
	global.SetOutput(stderr)
	configPath := global.String("config", "", "Path to a YAML configuration file")
	output := global.String("output", "json", "Output format: json or text")
	global.Usage = func() { printUsage(stderr) }

	if err := global.Parse(args); err != nil {
		return exitUsage
	}
	if *output != "json" && *output != "text" {
		fmt.Fprintf(stderr, "Error: unknown output format %q\n", *output)
		return exitUsage
	}
	rest := global.Args()
	if len(rest) == 0 {
		printUsage(stderr)
		return exitUsage
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}

	logger := logging.NewTextLogger(stderr, cfg.Log.Level)
	ctx = logging.WithLogger(ctx, logger)

	a := &app{
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		output: *output,
		logger: logger,
		svc:    newService(cfg),
	}

	var cmdErr error
	switch rest[0] {
	case "resolve":
		cmdErr = a.resolve(ctx, rest[1:])
	case "validate":
		cmdErr = a.validate(rest[1:])
	case "fetch":
		cmdErr = a.fetch(ctx, cfg, rest[1:])
	case "continue":
		cmdErr = a.continueRun(ctx, rest[1:])
	case "help", "-h", "--help":
		printUsage(stdout)
		return exitOK
	default:
		fmt.Fprintf(stderr, "Error: unknown command %q\n\n", rest[0])
		printUsage(stderr)
		return exitUsage
	}

	switch {
	case cmdErr == nil:
		return exitOK
	case errors.Is(cmdErr, errUsage):
		return exitUsage
	case errors.Is(cmdErr, errInvalidReference):
		return exitError
	default:
		logger.Debug("command failed", slog.String("command", rest[0]), slog.Any("error", cmdErr))
		fmt.Fprintf(stderr, "Error: %v\n", cmdErr)
		return exitError
	}
}

func newService(cfg *config.Config) *playlistUC.Service {
	client := youtube.NewClient(&http.Client{Timeout: cfg.YouTube.Timeout}, youtube.Config{
		BaseURL:           cfg.YouTube.BaseURL,
		UserAgent:         cfg.YouTube.UserAgent,
		RequestsPerSecond: cfg.YouTube.RequestsPerSecond,
		Burst:             cfg.YouTube.Burst,
		Breaker:           cfg.BreakerSettings(),
	})
	return playlistUC.NewService(client, client)
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: ytpl [-config file] [-output json|text] <command> [flags] <args>")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  resolve <ref>                 Print the playlist ID a link or ID refers to")
	fmt.Fprintln(w, "  validate <ref>                Check a reference without fetching it")
	fmt.Fprintln(w, "  fetch [flags] <ref>           Collect playlist items")
	fmt.Fprintln(w, "  continue [flags] <file|->     Fetch one more page from a saved cursor")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  ytpl fetch -limit 50 https://www.youtube.com/playlist?list=PL...")
	fmt.Fprintln(w, "  ytpl fetch -pages 1 -o cursor.json UC...")
	fmt.Fprintln(w, "  ytpl continue -retries 3 -o cursor.json cursor.json")
}
