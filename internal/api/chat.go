package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/89534449434inside-eng/ai-platform/internal/assistant"
	"github.com/89534449434inside-eng/ai-platform/internal/chat"
	"github.com/89534449434inside-eng/ai-platform/internal/log"
	"github.com/89534449434inside-eng/ai-platform/internal/widget"
)

// maxChatBodyBytes limits chat request bodies to 1MB.
const maxChatBodyBytes = 1024 * 1024

// chatHandler handles the synchronous chat endpoint.
type chatHandler struct {
	service *chat.Service
	logger  log.Logger
}

// chatRequest is the POST /api/chat request body.
type chatRequest struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
}

// chatResponse is the POST /api/chat response body: the assistant (or
// widget confirmation) text plus the user's full widget list.
type chatResponse struct {
	Response string          `json:"response"`
	Widgets  []widget.Widget `json:"widgets"`
}

// send handles POST /api/chat.
func (h *chatHandler) send(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxChatBodyBytes)

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	if strings.TrimSpace(req.UserID) == "" {
		writeError(w, http.StatusBadRequest, "missing_user_id", "user_id is required")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "missing_message", "message is required")
		return
	}

	reply, err := h.service.Handle(r.Context(), req.UserID, req.Message)
	if err != nil {
		var authErr *assistant.AuthError
		if errors.As(err, &authErr) {
			h.logger.Error("assistant authentication failed",
				"status", authErr.Status,
				"user", req.UserID,
			)
			writeError(w, http.StatusBadGateway, "assistant_auth_failed", "assistant authentication failed")
			return
		}

		h.logger.Error("chat request failed", "error", err, "user", req.UserID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{
		Response: reply.Response,
		Widgets:  reply.Widgets,
	})
}
