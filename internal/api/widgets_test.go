package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWidgets_UnseenUserEmptyList(t *testing.T) {
	srv, store := newTestServer(t, &stubCompleter{})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/widgets/newcomer", nil)

	srv.Handler().ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("GET /api/widgets/{user_id} status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp widgetListResponse
	decodeBody(t, w, &resp)
	if len(resp.Widgets) != 0 {
		t.Errorf("widgets count = %d, want 0 for unseen user", len(resp.Widgets))
	}

	// Listing provisions the session so the frontend can poll before chatting.
	if got := store.Count(); got != 1 {
		t.Errorf("store.Count() = %d, want 1", got)
	}
}

func TestWidgets_ListAfterCreate(t *testing.T) {
	srv, _ := newTestServer(t, &stubCompleter{})

	postChat(t, srv, `{"message":"создай список Покупки","user_id":"u1"}`)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/widgets/u1", nil)

	srv.Handler().ServeHTTP(w, r)

	var resp widgetListResponse
	decodeBody(t, w, &resp)

	if len(resp.Widgets) != 1 {
		t.Fatalf("widgets count = %d, want 1", len(resp.Widgets))
	}
	if resp.Widgets[0].Name != "Покупки" {
		t.Errorf("widget name = %q, want %q", resp.Widgets[0].Name, "Покупки")
	}
}

func TestWidgets_DeleteRemoves(t *testing.T) {
	srv, store := newTestServer(t, &stubCompleter{})

	postChat(t, srv, `{"message":"создай кнопку Старт","user_id":"u1"}`)
	created := store.Widgets("u1")
	if len(created) != 1 {
		t.Fatalf("setup: widgets count = %d, want 1", len(created))
	}

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodDelete, "/api/widgets/u1/"+created[0].ID, nil)

	srv.Handler().ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("DELETE status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp deleteResponse
	decodeBody(t, w, &resp)
	if !resp.Success {
		t.Error("delete success = false, want true")
	}

	if got := len(store.Widgets("u1")); got != 0 {
		t.Errorf("widgets count after delete = %d, want 0", got)
	}
}

// Deleting a widget that does not exist still reports success; the frontend
// retries deletes freely.
func TestWidgets_DeleteUnknownIDSucceeds(t *testing.T) {
	srv, _ := newTestServer(t, &stubCompleter{})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodDelete, "/api/widgets/u1/no-such-widget", nil)

	srv.Handler().ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("DELETE status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp deleteResponse
	decodeBody(t, w, &resp)
	if !resp.Success {
		t.Error("delete success = false, want true for unknown widget")
	}
}
