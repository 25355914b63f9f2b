package youtube

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"ytplaylist/internal/domain/entity"
	"ytplaylist/internal/usecase/playlist"
)

// maxSearchDepth bounds the recursive renderer lookups.
const maxSearchDepth = 16

// ParseFirstPage parses the HTML first page of a playlist.
//
// Error pages surface as *playlist.Error of kind KindAPI. A page without a
// continuation token is the whole list.
func ParseFirstPage(body []byte, playlistID string, opts entity.Options) (*playlist.Page, error) {
	data, err := extractInitialData(body)
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: ytInitialData is not valid JSON", ErrUnsupportedLayout)
	}
	root := gjson.ParseBytes(data)

	contents := root.Get("contents")
	if !contents.Exists() {
		if text, ok := errorAlert(root.Get("alerts")); ok {
			return nil, playlist.NewAPIError(text)
		}
		return nil, fmt.Errorf("%w: no contents", ErrUnsupportedLayout)
	}

	list := findFirst(contents, "playlistVideoListRenderer", maxSearchDepth)
	items, token := parseEntries(list.Get("contents"))

	page := &playlist.Page{
		Playlist: parseMetadata(root, playlistID),
		Items:    items,
		Token:    token,
		APIKey:   firstMatch(body, apiKeyPatterns),
	}
	if version := firstMatch(body, clientVersionPatterns); version != "" {
		ctx, err := buildContext(version, opts.GL, opts.HL)
		if err != nil {
			return nil, err
		}
		page.Context = ctx
	}
	return page, nil
}

// ParseContinuationPage parses a browse endpoint response. A response
// without continuation items is an empty, final page.
func ParseContinuationPage(body []byte) (*playlist.Page, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: continuation response is not JSON", ErrUnsupportedLayout)
	}
	root := gjson.ParseBytes(body)

	page := &playlist.Page{Items: []entity.Item{}}
	root.Get("onResponseReceivedActions").ForEach(func(_, action gjson.Result) bool {
		entries := action.Get("appendContinuationItemsAction.continuationItems")
		if !entries.Exists() {
			entries = action.Get("reloadContinuationItemsCommand.continuationItems")
		}
		if !entries.Exists() {
			return true
		}
		items, token := parseEntries(entries)
		page.Items = append(page.Items, items...)
		if token != "" {
			page.Token = token
		}
		return true
	})
	return page, nil
}

// errorAlert returns the text of the first alert of type ERROR.
func errorAlert(alerts gjson.Result) (string, bool) {
	var text string
	alerts.ForEach(func(_, alert gjson.Result) bool {
		renderer := alert.Get("alertRenderer")
		if !renderer.Exists() {
			renderer = alert.Get("alertWithButtonRenderer")
		}
		if renderer.Get("type").String() != "ERROR" {
			return true
		}
		text = textOf(renderer.Get("text"))
		return false
	})
	return text, text != ""
}

// parseEntries maps a renderer list onto items and the trailing token.
func parseEntries(entries gjson.Result) ([]entity.Item, string) {
	items := []entity.Item{}
	var token string
	entries.ForEach(func(_, entry gjson.Result) bool {
		if v := entry.Get("playlistVideoRenderer"); v.Exists() {
			if item, ok := parseItem(v); ok {
				items = append(items, item)
			}
			return true
		}
		if c := entry.Get("continuationItemRenderer"); c.Exists() {
			token = continuationToken(c)
		}
		return true
	})
	return items, token
}

func continuationToken(renderer gjson.Result) string {
	if t := renderer.Get("continuationEndpoint.continuationCommand.token"); t.Exists() {
		return t.String()
	}
	return findFirst(renderer, "continuationCommand", maxSearchDepth).Get("token").String()
}

// findFirst does a depth-first search for the first value stored under key.
func findFirst(r gjson.Result, key string, depth int) gjson.Result {
	if depth < 0 || !(r.IsObject() || r.IsArray()) {
		return gjson.Result{}
	}
	if r.IsObject() {
		if v := r.Get(key); v.Exists() {
			return v
		}
	}
	var found gjson.Result
	r.ForEach(func(_, child gjson.Result) bool {
		found = findFirst(child, key, depth-1)
		return !found.Exists()
	})
	return found
}

// textOf flattens a simpleText or runs text node.
func textOf(r gjson.Result) string {
	if s := r.Get("simpleText"); s.Exists() {
		return s.String()
	}
	var b strings.Builder
	r.Get("runs").ForEach(func(_, run gjson.Result) bool {
		b.WriteString(run.Get("text").String())
		return true
	})
	return b.String()
}
