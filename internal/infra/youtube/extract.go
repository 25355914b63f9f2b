package youtube

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"ytplaylist/internal/usecase/playlist"
)

// ErrUnsupportedLayout is returned when a page does not carry the expected
// embedded state.
var ErrUnsupportedLayout = errors.New("unsupported page layout")

// initialDataMarkers precede the embedded state object in page scripts.
var initialDataMarkers = []string{
	"var ytInitialData = ",
	`window["ytInitialData"] = `,
	"window.ytInitialData = ",
	"ytInitialData = ",
}

var (
	apiKeyPatterns = []*regexp.Regexp{
		regexp.MustCompile(`"INNERTUBE_API_KEY"\s*:\s*"([^"]+)"`),
		regexp.MustCompile(`"innertubeApiKey"\s*:\s*"([^"]+)"`),
	}
	clientVersionPatterns = []*regexp.Regexp{
		regexp.MustCompile(`"INNERTUBE_CONTEXT_CLIENT_VERSION"\s*:\s*"([^"]+)"`),
		regexp.MustCompile(`"innertube_context_client_version"\s*:\s*"([^"]+)"`),
	}
	externalIDPattern = regexp.MustCompile(`"externalId"\s*:\s*"(.*?)"`)
	channelIDPattern  = regexp.MustCompile(`"channelId"\s*:\s*"(UC[^"]*)"`)
)

// extractInitialData returns the ytInitialData object embedded in an HTML page.
func extractInitialData(body []byte) ([]byte, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}

	var found string
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if obj, ok := cutInitialData(s.Text()); ok {
			found = obj
			return false
		}
		return true
	})
	if found == "" {
		return nil, fmt.Errorf("%w: ytInitialData not found", ErrUnsupportedLayout)
	}
	return []byte(found), nil
}

func cutInitialData(script string) (string, bool) {
	for _, marker := range initialDataMarkers {
		idx := strings.Index(script, marker)
		if idx < 0 {
			continue
		}
		if obj, ok := cutJSONObject(script[idx+len(marker):]); ok {
			return obj, true
		}
	}
	return "", false
}

// cutJSONObject returns the balanced JSON object at the start of s.
func cutJSONObject(s string) (string, bool) {
	s = strings.TrimLeft(s, " \t\r\n")
	if !strings.HasPrefix(s, "{") {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[:i+1], true
			}
		}
	}
	return "", false
}

// firstMatch returns the first capture of the first pattern that matches.
func firstMatch(body []byte, patterns []*regexp.Regexp) string {
	for _, p := range patterns {
		if m := p.FindSubmatch(body); m != nil {
			return string(m[1])
		}
	}
	return ""
}

// innertubeContext is the client context sent with continuation requests.
type innertubeContext struct {
	Client  innertubeClient `json:"client"`
	User    struct{}        `json:"user"`
	Request struct{}        `json:"request"`
}

type innertubeClient struct {
	UTCOffsetMinutes int    `json:"utcOffsetMinutes"`
	GL               string `json:"gl"`
	HL               string `json:"hl"`
	ClientName       string `json:"clientName"`
	ClientVersion    string `json:"clientVersion"`
}

// buildContext renders the continuation context for a WEB client.
func buildContext(clientVersion, gl, hl string) (json.RawMessage, error) {
	raw, err := json.Marshal(innertubeContext{
		Client: innertubeClient{
			GL:            gl,
			HL:            hl,
			ClientName:    "WEB",
			ClientVersion: clientVersion,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("encode context: %w", err)
	}
	return raw, nil
}

// channelIDFromProfile finds the channel ID on a profile page. It prefers
// the embedded externalId and falls back to the page's meta tags.
func channelIDFromProfile(body []byte) string {
	var candidates []string
	if m := externalIDPattern.FindSubmatch(body); m != nil {
		candidates = append(candidates, string(m[1]))
	}

	if doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body)); err == nil {
		doc.Find(`meta[itemprop="identifier"], meta[itemprop="channelId"]`).Each(func(_ int, s *goquery.Selection) {
			if content, ok := s.Attr("content"); ok {
				candidates = append(candidates, content)
			}
		})
	}

	if m := channelIDPattern.FindSubmatch(body); m != nil {
		candidates = append(candidates, string(m[1]))
	}

	for _, c := range candidates {
		if playlist.IsChannelID(c) {
			return c
		}
	}
	if len(candidates) > 0 {
		return candidates[0]
	}
	return ""
}
