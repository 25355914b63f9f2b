package youtube

import (
	"context"

	"ytplaylist/internal/domain/entity"
	"ytplaylist/internal/observability/metrics"
	"ytplaylist/internal/usecase/playlist"
)

// FirstPage fetches and parses the first page of a playlist.
func (c *Client) FirstPage(ctx context.Context, playlistID string, opts entity.Options) (*playlist.Page, error) {
	body, err := c.FetchPlaylistPage(ctx, playlistID, opts)
	if err != nil {
		return nil, err
	}
	page, err := ParseFirstPage(body, playlistID, opts)
	if err != nil {
		recordParseError(metrics.PageFirst, err)
		return nil, err
	}
	return page, nil
}

// NextPage fetches and parses the page behind cursor.
func (c *Client) NextPage(ctx context.Context, cursor *entity.Cursor) (*playlist.Page, error) {
	body, err := c.FetchContinuation(ctx, cursor)
	if err != nil {
		return nil, err
	}
	page, err := ParseContinuationPage(body)
	if err != nil {
		recordParseError(metrics.PageContinuation, err)
		return nil, err
	}
	return page, nil
}

// ChannelIDFromProfile fetches a vanity channel page and returns the
// channel ID it embeds, or "" when none is present.
func (c *Client) ChannelIDFromProfile(ctx context.Context, kind playlist.ProfileKind, name string) (string, error) {
	body, err := c.FetchProfile(ctx, kind, name)
	if err != nil {
		return "", err
	}
	return channelIDFromProfile(body), nil
}

func recordParseError(kind string, err error) {
	reason := "parse"
	if playlist.KindOf(err) == playlist.KindAPI {
		reason = "api_error"
	}
	metrics.RecordPageParseError(kind, reason)
}

var (
	_ playlist.PageSource      = (*Client)(nil)
	_ playlist.ProfileResolver = (*Client)(nil)
)
