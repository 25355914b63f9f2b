package youtube

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"ytplaylist/internal/resilience/circuitbreaker"
)

const (
	testPlaylistID  = "PL0123456789ABCDEFGHIJKLMNOPQRSTUV"
	testAPIKey      = "<apikey>"
	testVersion     = "<client_version>"
	firstToken      = "<firstContinuationToken>"
	secondToken     = "<secondContinuationToken>"
	testChannelID   = "UCqwGaUvq_l0RKszeHhZ5leA"
	testUploadsList = "UUqwGaUvq_l0RKszeHhZ5leA"
)

func videoRenderer(i int) map[string]any {
	id := fmt.Sprintf("vid%08d", i)
	return map[string]any{
		"playlistVideoRenderer": map[string]any{
			"videoId": id,
			"index":   map[string]any{"simpleText": fmt.Sprint(i + 1)},
			"title":   map[string]any{"runs": []any{map[string]any{"text": fmt.Sprintf("Video %d", i+1)}}},
			"thumbnail": map[string]any{"thumbnails": []any{
				map[string]any{"url": "https://i.ytimg.com/vi/" + id + "/default.jpg", "width": 120, "height": 90},
				map[string]any{"url": "//i.ytimg.com/vi/" + id + "/hqdefault.jpg", "width": 480, "height": 360},
			}},
			"shortBylineText": map[string]any{"runs": []any{map[string]any{
				"text": "Uploader",
				"navigationEndpoint": map[string]any{
					"browseEndpoint": map[string]any{
						"browseId":         testChannelID,
						"canonicalBaseUrl": "/@uploader",
					},
				},
			}}},
			"navigationEndpoint": map[string]any{"commandMetadata": map[string]any{"webCommandMetadata": map[string]any{
				"url": "/watch?v=" + id + "&list=" + testPlaylistID + fmt.Sprintf("&index=%d", i+1),
			}}},
			"lengthText":    map[string]any{"simpleText": "3:25"},
			"lengthSeconds": "205",
			"isPlayable":    true,
		},
	}
}

func continuationRenderer(token string) map[string]any {
	return map[string]any{
		"continuationItemRenderer": map[string]any{
			"continuationEndpoint": map[string]any{
				"continuationCommand": map[string]any{"token": token},
			},
		},
	}
}

func entries(start, n int, token string) []any {
	out := make([]any, 0, n+1)
	for i := start; i < start+n; i++ {
		out = append(out, videoRenderer(i))
	}
	if token != "" {
		out = append(out, continuationRenderer(token))
	}
	return out
}

func initialData(n int, token string) map[string]any {
	return map[string]any{
		"contents": map[string]any{"twoColumnBrowseResultsRenderer": map[string]any{"tabs": []any{
			map[string]any{"tabRenderer": map[string]any{"content": map[string]any{"sectionListRenderer": map[string]any{"contents": []any{
				map[string]any{"itemSectionRenderer": map[string]any{"contents": []any{
					map[string]any{"playlistVideoListRenderer": map[string]any{"contents": entries(0, n, token)}},
				}}},
			}}}}},
		}}},
		"sidebar": map[string]any{"playlistSidebarRenderer": map[string]any{"items": []any{
			map[string]any{"playlistSidebarPrimaryInfoRenderer": map[string]any{
				"title":       map[string]any{"runs": []any{map[string]any{"text": "Test Playlist"}}},
				"description": map[string]any{"simpleText": "A playlist used in tests"},
				"stats": []any{
					map[string]any{"runs": []any{map[string]any{"text": "1,234"}, map[string]any{"text": " videos"}}},
					map[string]any{"simpleText": "56,789 views"},
					map[string]any{"runs": []any{map[string]any{"text": "Last updated on "}, map[string]any{"text": "Jan 2, 2024"}}},
				},
				"thumbnailRenderer": map[string]any{"playlistVideoThumbnailRenderer": map[string]any{"thumbnail": map[string]any{"thumbnails": []any{
					map[string]any{"url": "https://i.ytimg.com/pl/small.jpg", "width": 168, "height": 94},
					map[string]any{"url": "https://i.ytimg.com/pl/large.jpg", "width": 336, "height": 188},
				}}}},
			}},
			map[string]any{"playlistSidebarSecondaryInfoRenderer": map[string]any{"videoOwner": map[string]any{"videoOwnerRenderer": map[string]any{
				"title": map[string]any{"runs": []any{map[string]any{
					"text": "Owner Channel",
					"navigationEndpoint": map[string]any{"browseEndpoint": map[string]any{
						"browseId":         testChannelID,
						"canonicalBaseUrl": "/@owner",
					}},
				}}},
				"thumbnail": map[string]any{"thumbnails": []any{
					map[string]any{"url": "https://yt3.ggpht.com/avatar=s48", "width": 48, "height": 48},
				}},
			}}}},
		}}},
	}
}

func alertData(text string) map[string]any {
	return map[string]any{
		"alerts": []any{
			map[string]any{"alertRenderer": map[string]any{"type": "INFO", "text": map[string]any{"simpleText": "ignored"}}},
			map[string]any{"alertRenderer": map[string]any{"type": "ERROR", "text": map[string]any{"runs": []any{map[string]any{"text": text}}}}},
		},
	}
}

func pageHTML(t *testing.T, data map[string]any) string {
	t.Helper()
	raw, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}
	return `<!DOCTYPE html><html><head>
<script nonce="abc">ytcfg.set({"INNERTUBE_API_KEY":"` + testAPIKey + `","INNERTUBE_CONTEXT_CLIENT_VERSION":"` + testVersion + `"});</script>
</head><body>
<script nonce="abc">var ytInitialData = ` + string(raw) + `;</script>
</body></html>`
}

func firstPageHTML(t *testing.T) string {
	return pageHTML(t, initialData(100, firstToken))
}

func continuationJSON(t *testing.T, start, n int, token string) string {
	t.Helper()
	raw, err := json.Marshal(map[string]any{
		"onResponseReceivedActions": []any{
			map[string]any{"appendContinuationItemsAction": map[string]any{"continuationItems": entries(start, n, token)}},
		},
	})
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}
	return string(raw)
}

func userPageHTML() string {
	return `<!DOCTYPE html><html><head>
<meta itemprop="identifier" content="` + testChannelID + `">
</head><body><script>var ytInitialData = {"metadata":{"channelMetadataRenderer":{"externalId":"` + testChannelID + `"}}};</script></body></html>`
}

// fakeYouTube routes requests like the remote host does.
type fakeYouTube struct {
	first    string
	byToken  map[string]string
	profiles map[string]string

	mu       sync.Mutex
	requests []recordedRequest
}

type recordedRequest struct {
	Method string
	Path   string
	Query  map[string][]string
	Header http.Header
	Body   string
}

func (f *fakeYouTube) recorded() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedRequest(nil), f.requests...)
}

func (f *fakeYouTube) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.Query(),
		Header: r.Header.Clone(),
		Body:   string(body),
	})
	f.mu.Unlock()

	switch {
	case r.Method == http.MethodGet && r.URL.Path == playlistPath:
		if f.first == "" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(f.first))
	case r.Method == http.MethodPost && r.URL.Path == browsePath:
		var req struct {
			Continuation string `json:"continuation"`
		}
		if err := json.Unmarshal(body, &req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		page, ok := f.byToken[req.Continuation]
		if !ok {
			http.Error(w, "unknown token", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(page))
	default:
		if page, ok := f.profiles[r.URL.Path]; ok {
			_, _ = w.Write([]byte(page))
			return
		}
		http.NotFound(w, r)
	}
}

// newTestClient starts f and returns a client pointed at it.
func newTestClient(t *testing.T, f http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(f)
	t.Cleanup(server.Close)

	breaker := circuitbreaker.YouTubeConfig()
	breaker.Name = "youtube-test"
	client := NewClient(&http.Client{Timeout: 5 * time.Second}, Config{
		BaseURL: server.URL,
		Breaker: breaker,
	})
	return client, server
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}
	return string(raw)
}
