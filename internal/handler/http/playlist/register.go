// Package playlist exposes the playlist use cases over HTTP.
package playlist

import (
	"context"
	"net/http"

	"ytplaylist/internal/domain/entity"
)

// Service is the subset of the playlist use cases the handlers need.
type Service interface {
	Run(ctx context.Context, ref string, opts entity.Options) (*entity.Playlist, error)
	ContinueJSON(ctx context.Context, raw []byte) (*entity.Playlist, error)
	Resolve(ctx context.Context, ref string) (string, error)
}

// Register registers all playlist routes with the given mux. Only the GL and
// HL fields of defaults are used, for requests that leave them out.
func Register(mux *http.ServeMux, svc Service, defaults entity.Options) {
	mux.Handle("GET /playlists", ListHandler{Svc: svc, Defaults: defaults})
	mux.Handle("POST /playlists/continue", ContinueHandler{Svc: svc})
	mux.Handle("GET /playlists/resolve", ResolveHandler{Svc: svc})
	mux.Handle("GET /playlists/validate", ValidateHandler{})
}
