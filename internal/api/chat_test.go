package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/89534449434inside-eng/ai-platform/internal/assistant"
	"github.com/89534449434inside-eng/ai-platform/internal/widget"
)

func postChat(t *testing.T, srv *Server, body string) *httptest.ResponseRecorder {
	t.Helper()

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")

	srv.Handler().ServeHTTP(w, r)
	return w
}

func TestChat_WidgetCommand(t *testing.T) {
	completer := &stubCompleter{reply: "unused"}
	srv, store := newTestServer(t, completer)

	w := postChat(t, srv, `{"message":"создай кнопку Старт","user_id":"u1"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("POST /api/chat status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp chatResponse
	decodeBody(t, w, &resp)

	if !strings.Contains(resp.Response, "Создал кнопку \"Старт\"") {
		t.Errorf("response = %q, want widget confirmation", resp.Response)
	}
	if len(resp.Widgets) != 1 {
		t.Fatalf("widgets count = %d, want 1", len(resp.Widgets))
	}
	if resp.Widgets[0].Type != widget.TypeButton {
		t.Errorf("widget type = %q, want %q", resp.Widgets[0].Type, widget.TypeButton)
	}

	if got := completer.calls.Load(); got != 0 {
		t.Errorf("assistant calls = %d, want 0 for widget command", got)
	}
	if got := len(store.History("u1")); got != 2 {
		t.Errorf("history length = %d, want 2", got)
	}
}

func TestChat_AssistantReply(t *testing.T) {
	srv, _ := newTestServer(t, &stubCompleter{reply: "Привет! Чем помочь?"})

	w := postChat(t, srv, `{"message":"привет","user_id":"u1"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("POST /api/chat status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp chatResponse
	decodeBody(t, w, &resp)

	if resp.Response != "Привет! Чем помочь?" {
		t.Errorf("response = %q, want assistant reply", resp.Response)
	}
	if len(resp.Widgets) != 0 {
		t.Errorf("widgets count = %d, want 0", len(resp.Widgets))
	}
}

// The widget list must serialize as [] rather than null so the frontend can
// iterate it unconditionally.
func TestChat_EmptyWidgetsSerializesAsArray(t *testing.T) {
	srv, _ := newTestServer(t, &stubCompleter{reply: "ok"})

	w := postChat(t, srv, `{"message":"привет","user_id":"u1"}`)

	if !strings.Contains(w.Body.String(), `"widgets":[]`) {
		t.Errorf("body = %q, want empty widgets array", w.Body.String())
	}
}

func TestChat_InvalidJSON(t *testing.T) {
	srv, _ := newTestServer(t, &stubCompleter{})

	w := postChat(t, srv, `{"message":`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("POST /api/chat status = %d, want %d", w.Code, http.StatusBadRequest)
	}

	var resp ErrorResponse
	decodeBody(t, w, &resp)
	if resp.Error != "invalid_json" {
		t.Errorf("error code = %q, want %q", resp.Error, "invalid_json")
	}
}

func TestChat_MissingUserID(t *testing.T) {
	srv, _ := newTestServer(t, &stubCompleter{})

	w := postChat(t, srv, `{"message":"привет","user_id":"  "}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("POST /api/chat status = %d, want %d", w.Code, http.StatusBadRequest)
	}

	var resp ErrorResponse
	decodeBody(t, w, &resp)
	if resp.Error != "missing_user_id" {
		t.Errorf("error code = %q, want %q", resp.Error, "missing_user_id")
	}
}

func TestChat_MissingMessage(t *testing.T) {
	srv, _ := newTestServer(t, &stubCompleter{})

	w := postChat(t, srv, `{"message":"","user_id":"u1"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("POST /api/chat status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestChat_AuthFailure(t *testing.T) {
	srv, store := newTestServer(t, &stubCompleter{
		err: &assistant.AuthError{Status: http.StatusUnauthorized, Body: "bad credentials"},
	})

	w := postChat(t, srv, `{"message":"привет","user_id":"u1"}`)

	if w.Code != http.StatusBadGateway {
		t.Fatalf("POST /api/chat status = %d, want %d", w.Code, http.StatusBadGateway)
	}

	var resp ErrorResponse
	decodeBody(t, w, &resp)
	if resp.Error != "assistant_auth_failed" {
		t.Errorf("error code = %q, want %q", resp.Error, "assistant_auth_failed")
	}

	if got := len(store.History("u1")); got != 0 {
		t.Errorf("history length = %d, want 0 after auth failure", got)
	}
}

func TestChat_UpstreamDegraded(t *testing.T) {
	srv, _ := newTestServer(t, &stubCompleter{
		err: &assistant.UpstreamError{Status: http.StatusServiceUnavailable},
	})

	w := postChat(t, srv, `{"message":"привет","user_id":"u1"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("POST /api/chat status = %d, want %d for degraded assistant", w.Code, http.StatusOK)
	}

	var resp chatResponse
	decodeBody(t, w, &resp)
	if resp.Response != "Ошибка GigaChat: 503" {
		t.Errorf("response = %q, want upstream diagnostic", resp.Response)
	}
}
