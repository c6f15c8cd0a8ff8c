package api

import (
	"net/http"

	"github.com/89534449434inside-eng/ai-platform/internal/session"
)

// healthResponse is the GET /api/health response body. Users reports the
// number of sessions currently held in memory.
type healthResponse struct {
	Status string `json:"status"`
	Users  int    `json:"users"`
}

// healthHandler reports liveness and the in-memory session count.
// It never creates sessions, so probing is side-effect free.
func healthHandler(store *session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, healthResponse{
			Status: "ok",
			Users:  store.Count(),
		})
	}
}
