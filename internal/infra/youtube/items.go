package youtube

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/tidwall/gjson"

	"ytplaylist/internal/domain/entity"
)

const (
	canonicalHost = "https://www.youtube.com"
	watchURL      = canonicalHost + "/watch?v="
)

// parseItem maps a playlistVideoRenderer. Entries without a byline are
// deleted or private videos and are skipped.
func parseItem(v gjson.Result) (entity.Item, bool) {
	byline := v.Get("shortBylineText")
	id := v.Get("videoId").String()
	if !byline.Exists() || id == "" {
		return entity.Item{}, false
	}

	thumbs := parseThumbnails(v.Get("thumbnail.thumbnails"))
	item := entity.Item{
		Title:         textOf(v.Get("title")),
		Index:         parseCount(textOf(v.Get("index"))),
		ID:            id,
		ShortURL:      watchURL + id,
		URL:           absoluteURL(v.Get("navigationEndpoint.commandMetadata.webCommandMetadata.url").String()),
		Author:        parseAuthor(byline.Get("runs.0")),
		Thumbnails:    thumbs,
		BestThumbnail: entity.BestThumbnail(thumbs),
		IsLive:        isLive(v),
		Duration:      textOf(v.Get("lengthText")),
		DurationSec:   int(v.Get("lengthSeconds").Int()),
		IsPlayable:    v.Get("isPlayable").Bool(),
	}
	if item.URL == "" {
		item.URL = watchURL + id
	}
	return item, true
}

func parseAuthor(run gjson.Result) *entity.Author {
	endpoint := run.Get("navigationEndpoint")
	path := endpoint.Get("browseEndpoint.canonicalBaseUrl").String()
	if path == "" {
		path = endpoint.Get("commandMetadata.webCommandMetadata.url").String()
	}
	return &entity.Author{
		Name:      run.Get("text").String(),
		URL:       absoluteURL(path),
		ChannelID: endpoint.Get("browseEndpoint.browseId").String(),
	}
}

func isLive(v gjson.Result) bool {
	live := false
	v.Get("thumbnailOverlays").ForEach(func(_, overlay gjson.Result) bool {
		if overlay.Get("thumbnailOverlayTimeStatusRenderer.style").String() == "LIVE" {
			live = true
			return false
		}
		return true
	})
	return live
}

func parseThumbnails(r gjson.Result) []entity.Thumbnail {
	thumbs := []entity.Thumbnail{}
	r.ForEach(func(_, t gjson.Result) bool {
		u := t.Get("url").String()
		if strings.HasPrefix(u, "//") {
			u = "https:" + u
		}
		thumbs = append(thumbs, entity.Thumbnail{
			URL:    u,
			Width:  int(t.Get("width").Int()),
			Height: int(t.Get("height").Int()),
		})
		return true
	})
	return thumbs
}

// parseMetadata reads the playlist sidebar.
func parseMetadata(root gjson.Result, playlistID string) *entity.Playlist {
	var primary, secondary gjson.Result
	root.Get("sidebar.playlistSidebarRenderer.items").ForEach(func(_, item gjson.Result) bool {
		if r := item.Get("playlistSidebarPrimaryInfoRenderer"); r.Exists() {
			primary = r
		}
		if r := item.Get("playlistSidebarSecondaryInfoRenderer"); r.Exists() {
			secondary = r
		}
		return true
	})
	metadata := root.Get("metadata.playlistMetadataRenderer")

	p := &entity.Playlist{
		ID:          playlistID,
		URL:         canonicalHost + "/playlist?list=" + playlistID,
		Title:       textOf(primary.Get("title")),
		Description: textOf(primary.Get("description")),
		Visibility:  "everyone",
	}
	if p.Title == "" {
		p.Title = metadata.Get("title").String()
	}
	if p.Description == "" {
		p.Description = metadata.Get("description").String()
	}

	stats := primary.Get("stats").Array()
	if len(stats) > 0 {
		p.EstimatedItemCount = parseCount(textOf(stats[0]))
	}
	if len(stats) > 1 {
		p.Views = parseCount(textOf(stats[1]))
	}
	if len(stats) > 2 {
		p.LastUpdated = textOf(stats[2])
	}

	primary.Get("badges").ForEach(func(_, badge gjson.Result) bool {
		if label := badge.Get("metadataBadgeRenderer.label").String(); label != "" {
			p.Visibility = strings.ToLower(label)
			return false
		}
		return true
	})

	p.Thumbnails = parseThumbnails(findFirst(primary.Get("thumbnailRenderer"), "thumbnails", maxSearchDepth))
	p.BestThumbnail = entity.BestThumbnail(p.Thumbnails)

	if owner := secondary.Get("videoOwner.videoOwnerRenderer"); owner.Exists() {
		author := parseAuthor(owner.Get("title.runs.0"))
		author.Avatars = parseThumbnails(owner.Get("thumbnail.thumbnails"))
		author.BestAvatar = entity.BestThumbnail(author.Avatars)
		p.Author = author
	}
	return p
}

// parseCount reads the digits of a localized count such as "1,234 views".
// Text without digits ("No views") counts as zero.
func parseCount(s string) int {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return n
}

func absoluteURL(path string) string {
	switch {
	case path == "":
		return ""
	case strings.HasPrefix(path, "http://"), strings.HasPrefix(path, "https://"):
		return path
	case strings.HasPrefix(path, "/"):
		return canonicalHost + path
	default:
		return canonicalHost + "/" + path
	}
}
