package playlist

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"ytplaylist/internal/domain/entity"
	"ytplaylist/internal/handler/http/respond"
)

// ListHandler runs a playlist walk.
//
//	GET /playlists?ref=<link or id>&limit=<n>&pages=<n>&gl=<country>&hl=<language>
//
// A response carrying a non-null continuation can be resumed through
// POST /playlists/continue.
type ListHandler struct {
	Svc      Service
	Defaults entity.Options
}

func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	opts, err := optionsFromQuery(q)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err)
		return
	}
	if opts.GL == "" {
		opts.GL = h.Defaults.GL
	}
	if opts.HL == "" {
		opts.HL = h.Defaults.HL
	}

	result, err := h.Svc.Run(r.Context(), q.Get("ref"), opts)
	if err != nil {
		respond.PlaylistError(r.Context(), w, err)
		return
	}
	respond.JSON(w, http.StatusOK, result)
}

func optionsFromQuery(q url.Values) (entity.Options, error) {
	limit, err := nonNegativeInt(q, "limit")
	if err != nil {
		return entity.Options{}, err
	}
	pages, err := nonNegativeInt(q, "pages")
	if err != nil {
		return entity.Options{}, err
	}
	return entity.Options{
		Limit: limit,
		Pages: pages,
		GL:    q.Get("gl"),
		HL:    q.Get("hl"),
	}, nil
}

func nonNegativeInt(q url.Values, key string) (int, error) {
	raw := q.Get(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer", key)
	}
	return n, nil
}
