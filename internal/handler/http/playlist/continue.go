package playlist

import (
	"encoding/json"
	"errors"
	"net/http"

	"ytplaylist/internal/handler/http/respond"
)

// ContinueRequest is the body of POST /playlists/continue.
type ContinueRequest struct {
	// Continuation is the cursor from a previous response, passed back unchanged.
	Continuation json.RawMessage `json:"continuation"`
}

// ContinueHandler fetches exactly one more page from a cursor.
type ContinueHandler struct{ Svc Service }

func (h ContinueHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req ContinueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(w, http.StatusRequestEntityTooLarge, errors.New("request body too large"))
			return
		}
		respond.Error(w, http.StatusBadRequest, errors.New("invalid JSON body"))
		return
	}

	raw := req.Continuation
	if len(raw) == 0 {
		raw = json.RawMessage("null")
	}

	result, err := h.Svc.ContinueJSON(r.Context(), raw)
	if err != nil {
		respond.PlaylistError(r.Context(), w, err)
		return
	}
	respond.JSON(w, http.StatusOK, result)
}
