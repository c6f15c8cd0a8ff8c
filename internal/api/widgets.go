package api

import (
	"net/http"

	"github.com/89534449434inside-eng/ai-platform/internal/log"
	"github.com/89534449434inside-eng/ai-platform/internal/session"
	"github.com/89534449434inside-eng/ai-platform/internal/widget"
)

// widgetHandler handles widget listing and removal.
type widgetHandler struct {
	store  *session.Store
	logger log.Logger
}

// widgetListResponse is the GET /api/widgets/{user_id} response body.
type widgetListResponse struct {
	Widgets []widget.Widget `json:"widgets"`
}

// deleteResponse is the DELETE /api/widgets/{user_id}/{widget_id} response body.
type deleteResponse struct {
	Success bool `json:"success"`
}

// list handles GET /api/widgets/{user_id}.
// An unseen user gets an empty list, and a session is provisioned so the
// frontend can poll before ever chatting.
func (h *widgetHandler) list(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("user_id")
	h.store.Ensure(userID)
	writeJSON(w, http.StatusOK, widgetListResponse{Widgets: h.store.Widgets(userID)})
}

// remove handles DELETE /api/widgets/{user_id}/{widget_id}.
// Removal is idempotent: deleting an unknown widget or user still succeeds.
func (h *widgetHandler) remove(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("user_id")
	widgetID := r.PathValue("widget_id")

	h.store.RemoveWidget(userID, widgetID)
	h.logger.Debug("widget removed", "user", userID, "widget", widgetID)

	writeJSON(w, http.StatusOK, deleteResponse{Success: true})
}
