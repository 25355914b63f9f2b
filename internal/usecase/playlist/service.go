package playlist

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"ytplaylist/internal/domain/entity"
	"ytplaylist/internal/observability/logging"
	"ytplaylist/internal/observability/metrics"
	"ytplaylist/internal/observability/tracing"
)

// Page is one parsed page of a playlist.
type Page struct {
	// Playlist carries the metadata of a first page. It is nil for
	// continuation pages.
	Playlist *entity.Playlist
	Items    []entity.Item

	// APIKey and Context are only present on first pages. Continuation
	// pages reuse the values of the cursor they were fetched with.
	APIKey  string
	Context json.RawMessage

	// Token is the next continuation token; empty at the end of the list.
	Token string
}

// PageSource fetches and parses playlist pages.
type PageSource interface {
	FirstPage(ctx context.Context, playlistID string, opts entity.Options) (*Page, error)
	NextPage(ctx context.Context, cursor *entity.Cursor) (*Page, error)
}

// ProfileResolver looks up the channel ID behind a vanity channel link. It
// returns an empty string when the profile page carries no channel ID.
type ProfileResolver interface {
	ChannelIDFromProfile(ctx context.Context, kind ProfileKind, name string) (string, error)
}

// Stop reasons reported in logs and metrics.
const (
	stopLimit = "limit"
	stopPages = "pages"
	stopEnd   = "end"
)

// Service provides the playlist use cases.
// Pages are fetched strictly one after another and nothing is retried.
type Service struct {
	Source   PageSource
	Profiles ProfileResolver
}

// NewService creates a playlist Service.
func NewService(source PageSource, profiles ProfileResolver) *Service {
	return &Service{Source: source, Profiles: profiles}
}

// Resolve turns a reference into a canonical playlist ID. Vanity channel
// links cost one profile fetch; every other form is resolved locally.
func (s *Service) Resolve(ctx context.Context, ref string) (string, error) {
	ctx, span := tracing.GetTracer().Start(ctx, "playlist.resolve")
	defer span.End()

	id, err := s.resolve(ctx, ref)
	if err != nil {
		metrics.RecordResolution(metrics.ResolutionFailed)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	metrics.RecordResolution(metrics.ResolutionOK)
	span.SetAttributes(attribute.String("playlist.id", id))
	return id, nil
}

func (s *Service) resolve(ctx context.Context, ref string) (string, error) {
	parsed, err := parseReference(ref)
	if err != nil {
		return "", err
	}

	switch r := parsed.(type) {
	case playlistRef:
		return r.id, nil
	case channelRef:
		return UploadsPlaylistID(r.channelID), nil
	case profileRef:
		if s.Profiles == nil {
			return "", unresolvableError(r.raw)
		}
		channelID, err := s.Profiles.ChannelIDFromProfile(ctx, r.kind, r.name)
		if err != nil {
			return "", fmt.Errorf("fetch %s profile %q: %w", r.kind, r.name, err)
		}
		if !IsChannelID(channelID) {
			return "", unresolvableError(r.raw)
		}
		return UploadsPlaylistID(channelID), nil
	default:
		return "", fmt.Errorf("unhandled reference type %T", parsed)
	}
}

// Run resolves ref and collects items until the limit, the page budget or
// the end of the list is reached.
//
// A run that stops on its limit returns exactly Limit items and no
// continuation. A run that stops on its page budget returns the cursor of
// the next page so it can be resumed with Continue.
func (s *Service) Run(ctx context.Context, ref string, opts entity.Options) (*entity.Playlist, error) {
	if err := opts.Validate(); err != nil {
		return nil, invalidInput(err)
	}
	opts = opts.WithDefaults()

	ctx, span := tracing.GetTracer().Start(ctx, "playlist.run")
	defer span.End()
	span.SetAttributes(
		attribute.Int("playlist.limit", opts.Limit),
		attribute.Int("playlist.pages", opts.Pages),
	)

	id, err := s.Resolve(ctx, ref)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.String("playlist.id", id))

	logger := logging.FromContext(ctx)
	start := time.Now()

	first, err := s.Source.FirstPage(ctx, id, opts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	result := first.Playlist
	if result == nil {
		result = &entity.Playlist{ID: id}
	}
	items := append(make([]entity.Item, 0, len(first.Items)), first.Items...)
	cursor := firstCursor(first, opts)
	pages := 1
	stalled := false

	var reason string
	for {
		if opts.Limit > 0 && len(items) >= opts.Limit {
			items = items[:opts.Limit]
			cursor = nil
			reason = stopLimit
			break
		}
		if opts.Pages > 0 && pages >= opts.Pages {
			reason = stopPages
			break
		}
		// Without a page budget, a page that hands back its own token
		// would be fetched forever.
		if cursor == nil || (stalled && opts.Pages == 0) {
			cursor = nil
			reason = stopEnd
			break
		}

		page, err := s.Source.NextPage(ctx, cursor)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		pages++
		items = append(items, page.Items...)
		stalled = page.Token != "" && page.Token == cursor.Token
		cursor = cursor.Next(page.Token)
	}

	result.Items = items
	result.Continuation = cursor

	metrics.RecordRun(reason, pages, len(items))
	span.SetAttributes(
		attribute.Int("playlist.pages_fetched", pages),
		attribute.Int("playlist.items", len(items)),
		attribute.String("playlist.stop_reason", reason),
	)
	logger.Info("playlist run completed",
		slog.String("playlist_id", id),
		slog.Int("pages", pages),
		slog.Int("items", len(items)),
		slog.String("stop_reason", reason),
		slog.Bool("resumable", cursor != nil),
		slog.Duration("duration", time.Since(start)),
	)
	return result, nil
}

// Continue performs exactly one page round from cursor.
func (s *Service) Continue(ctx context.Context, cursor *entity.Cursor) (*entity.Playlist, error) {
	if err := validateCursor(cursor); err != nil {
		return nil, err
	}

	ctx, span := tracing.GetTracer().Start(ctx, "playlist.continue")
	defer span.End()

	page, err := s.Source.NextPage(ctx, cursor)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	items := page.Items
	if items == nil {
		items = []entity.Item{}
	}
	next := cursor.Next(page.Token)
	reason := stopPages
	if next == nil {
		reason = stopEnd
	}

	metrics.RecordRun(reason, 1, len(items))
	span.SetAttributes(
		attribute.Int("playlist.items", len(items)),
		attribute.Bool("playlist.resumable", next != nil),
	)
	logging.FromContext(ctx).Debug("playlist continuation fetched",
		slog.Int("items", len(items)),
		slog.Bool("resumable", next != nil),
	)
	return &entity.Playlist{Items: items, Continuation: next}, nil
}

// ContinueJSON decodes the external cursor form and continues from it.
func (s *Service) ContinueJSON(ctx context.Context, raw []byte) (*entity.Playlist, error) {
	cursor, err := DecodeCursor(raw)
	if err != nil {
		return nil, err
	}
	return s.Continue(ctx, cursor)
}

// firstCursor builds the cursor after a first page. A page without a token,
// API key or context cannot be continued.
func firstCursor(p *Page, opts entity.Options) *entity.Cursor {
	if p.Token == "" || p.APIKey == "" || len(p.Context) == 0 {
		return nil
	}
	stored := opts
	return &entity.Cursor{
		APIKey:  p.APIKey,
		Token:   p.Token,
		Context: p.Context,
		Options: &stored,
	}
}
