package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"ytplaylist/internal/config"
	"ytplaylist/internal/domain/entity"
	"ytplaylist/internal/resilience/retry"
	playlistUC "ytplaylist/internal/usecase/playlist"
)

// errInvalidReference is returned by validate after it printed its verdict.
var errInvalidReference = errors.New("invalid reference")

// headerFlags collects repeated -H 'Name: value' flags.
type headerFlags map[string]string

func (h headerFlags) String() string {
	parts := make([]string, 0, len(h))
	for k, v := range h {
		parts = append(parts, k+": "+v)
	}
	return strings.Join(parts, ", ")
}

func (h headerFlags) Set(value string) error {
	name, val, ok := strings.Cut(value, ":")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return fmt.Errorf("header must look like 'Name: value', got %q", value)
	}
	h[name] = strings.TrimSpace(val)
	return nil
}

// singleArg parses fs and requires exactly one positional argument.
func singleArg(fs *flag.FlagSet, args []string, what string) (string, error) {
	if err := fs.Parse(args); err != nil {
		return "", errUsage
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(fs.Output(), "Error: expected exactly one %s\n", what)
		fs.Usage()
		return "", errUsage
	}
	return fs.Arg(0), nil
}

func (a *app) newFlagSet(name, synopsis string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	fs.Usage = func() {
		fmt.Fprintf(a.stderr, "Usage: ytpl %s %s\n", name, synopsis)
		fs.PrintDefaults()
	}
	return fs
}

func (a *app) resolve(ctx context.Context, args []string) error {
	ref, err := singleArg(a.newFlagSet("resolve", "<ref>"), args, "reference")
	if err != nil {
		return err
	}

	id, err := a.svc.Resolve(ctx, ref)
	if err != nil {
		return err
	}
	if a.output == "json" {
		return writeJSON(a.stdout, map[string]string{"id": id})
	}
	_, err = fmt.Fprintln(a.stdout, id)
	return err
}

func (a *app) validate(args []string) error {
	ref, err := singleArg(a.newFlagSet("validate", "<ref>"), args, "reference")
	if err != nil {
		return err
	}

	valid := playlistUC.ValidateID(ref)
	if a.output == "json" {
		err = writeJSON(a.stdout, map[string]bool{"valid": valid})
	} else {
		_, err = fmt.Fprintln(a.stdout, valid)
	}
	if err != nil {
		return err
	}
	if !valid {
		return errInvalidReference
	}
	return nil
}

func (a *app) fetch(ctx context.Context, cfg *config.Config, args []string) error {
	fs := a.newFlagSet("fetch", "[-limit N] [-pages N] [-gl CC] [-hl LL] [-H 'Name: value'] [-o cursor.json] <ref>")
	limit := fs.Int("limit", 0, "Stop after this many items (0 = no limit)")
	pages := fs.Int("pages", 0, "Stop after this many pages (0 = no limit)")
	gl := fs.String("gl", cfg.YouTube.GL, "Country code")
	hl := fs.String("hl", cfg.YouTube.HL, "Interface language")
	cursorOut := fs.String("o", "", "Write the continuation cursor to this file")
	headers := headerFlags{}
	fs.Var(headers, "H", "Extra request header 'Name: value' (repeatable)")

	ref, err := singleArg(fs, args, "reference")
	if err != nil {
		return err
	}

	opts := entity.Options{Limit: *limit, Pages: *pages, GL: *gl, HL: *hl}
	if len(headers) > 0 {
		opts.RequestOptions.Headers = headers
	}

	result, err := a.svc.Run(ctx, ref, opts)
	if err != nil {
		return err
	}
	if err := a.saveCursor(*cursorOut, result.Continuation); err != nil {
		return err
	}
	return a.printPlaylist(result)
}

func (a *app) continueRun(ctx context.Context, args []string) error {
	fs := a.newFlagSet("continue", "[-retries N] [-o cursor.json] <cursor.json|->")
	retries := fs.Int("retries", 0, "Retry a failed page request this many times")
	cursorOut := fs.String("o", "", "Write the next continuation cursor to this file")

	source, err := singleArg(fs, args, "cursor file")
	if err != nil {
		return err
	}
	if *retries < 0 {
		fmt.Fprintln(a.stderr, "Error: -retries must not be negative")
		return errUsage
	}

	raw, err := a.readCursor(source)
	if err != nil {
		return err
	}

	// The cursor is not advanced until a page succeeds, so every attempt
	// re-issues the same request.
	var result *entity.Playlist
	err = retry.WithBackoff(ctx, retry.PlaylistPageConfig(*retries+1), func() error {
		var runErr error
		result, runErr = a.svc.ContinueJSON(ctx, raw)
		return runErr
	})
	if err != nil {
		return err
	}

	if err := a.saveCursor(*cursorOut, result.Continuation); err != nil {
		return err
	}
	return a.printPlaylist(result)
}

func (a *app) readCursor(source string) ([]byte, error) {
	var (
		raw []byte
		err error
	)
	if source == "-" {
		raw, err = io.ReadAll(a.stdin)
	} else {
		// #nosec G304 -- path is supplied by the operator on the command line
		raw, err = os.ReadFile(source)
	}
	if err != nil {
		return nil, fmt.Errorf("read cursor: %w", err)
	}
	return raw, nil
}

// saveCursor writes cursor to path. A finished walk removes a stale file so
// that it cannot be resumed by mistake.
func (a *app) saveCursor(path string, cursor *entity.Cursor) error {
	if path == "" {
		return nil
	}
	if cursor == nil {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove finished cursor: %w", err)
		}
		a.logger.Info("playlist finished, no cursor written", slog.String("path", path))
		return nil
	}

	data, err := json.Marshal(cursor)
	if err != nil {
		return fmt.Errorf("encode cursor: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write cursor: %w", err)
	}
	a.logger.Info("cursor saved", slog.String("path", path))
	return nil
}
