package playlist

import (
	"net/http"

	"ytplaylist/internal/handler/http/respond"
	playlistUC "ytplaylist/internal/usecase/playlist"
)

// ResolveResponse is returned by GET /playlists/resolve.
type ResolveResponse struct {
	ID string `json:"id"`
}

// ValidateResponse is returned by GET /playlists/validate.
type ValidateResponse struct {
	Valid bool `json:"valid"`
}

// ResolveHandler maps a reference onto its playlist ID.
type ResolveHandler struct{ Svc Service }

func (h ResolveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := h.Svc.Resolve(r.Context(), r.URL.Query().Get("ref"))
	if err != nil {
		respond.PlaylistError(r.Context(), w, err)
		return
	}
	respond.JSON(w, http.StatusOK, ResolveResponse{ID: id})
}

// ValidateHandler reports whether a reference could be resolved. It never
// touches the network.
type ValidateHandler struct{}

func (ValidateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, ValidateResponse{Valid: playlistUC.ValidateID(r.URL.Query().Get("ref"))})
}
