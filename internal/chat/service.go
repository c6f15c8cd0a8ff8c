// Package chat orchestrates incoming messages: widget-creation commands
// mutate the session's widget list directly, everything else goes to the
// remote assistant. Both paths append the exchange to the session history and
// return the reply together with the current widget list.
package chat

import (
	"context"
	"errors"
	"fmt"

	"github.com/89534449434inside-eng/ai-platform/internal/assistant"
	"github.com/89534449434inside-eng/ai-platform/internal/log"
	"github.com/89534449434inside-eng/ai-platform/internal/session"
	"github.com/89534449434inside-eng/ai-platform/internal/widget"
)

// Completer is the outbound boundary to the assistant. Satisfied by
// *assistant.Client; tests substitute their own.
type Completer interface {
	Complete(ctx context.Context, msg string, history []session.Turn) (string, error)
}

// Reply is the combined result of handling one message.
type Reply struct {
	Response string
	Widgets  []widget.Widget
}

// Service routes each incoming message and owns all session mutation.
type Service struct {
	store     *session.Store
	assistant Completer
	logger    log.Logger
}

// NewService creates the orchestrator.
func NewService(store *session.Store, completer Completer, logger log.Logger) *Service {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Service{store: store, assistant: completer, logger: logger}
}

// Handle processes one chat message for userID.
//
// A parsed widget command mints a widget and a localized confirmation; any
// other message is completed by the assistant against the pre-append history
// snapshot, taken so no session lock is held during the outbound call.
// Completion failures degrade to a diagnostic reply and the request still
// succeeds; only an auth failure escapes as an error. Both turns of the
// exchange are appended to history before returning.
func (s *Service) Handle(ctx context.Context, userID, msg string) (*Reply, error) {
	s.store.Ensure(userID)

	var response string
	if cmd, ok := widget.ParseCommand(msg); ok {
		w := widget.New(cmd)
		s.store.AddWidget(userID, w)
		response = confirmation(w)
		s.logger.Info("widget created",
			"user_id", userID,
			"widget_id", w.ID,
			"type", w.Type,
		)
	} else {
		history := s.store.History(userID)
		text, err := s.assistant.Complete(ctx, msg, history)
		if err != nil {
			var authErr *assistant.AuthError
			if errors.As(err, &authErr) {
				return nil, authErr
			}
			text = diagnostic(err)
			s.logger.Warn("assistant degraded", "user_id", userID, "error", err)
		}
		response = text
	}

	s.store.AppendExchange(userID, msg, response)

	return &Reply{
		Response: response,
		Widgets:  s.store.Widgets(userID),
	}, nil
}

// confirmation builds the localized widget-creation reply.
func confirmation(w widget.Widget) string {
	return fmt.Sprintf("✅ Отлично! Создал %s \"%s\".\n\nОн появился в левой панели. Попробуй кликнуть на него!",
		w.Type.Label(), w.Name)
}

// diagnostic converts a completion failure into display text. Upstream
// rejections surface the status code; everything else reads as a connection
// problem.
func diagnostic(err error) string {
	var upErr *assistant.UpstreamError
	if errors.As(err, &upErr) {
		return fmt.Sprintf("Ошибка GigaChat: %d", upErr.Status)
	}
	return fmt.Sprintf("Ошибка соединения с GigaChat: %v", err)
}
