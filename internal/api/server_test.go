package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"go.uber.org/goleak"

	"github.com/89534449434inside-eng/ai-platform/internal/chat"
	"github.com/89534449434inside-eng/ai-platform/internal/log"
	"github.com/89534449434inside-eng/ai-platform/internal/session"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// stubCompleter is a canned assistant for handler tests.
type stubCompleter struct {
	reply string
	err   error
	calls atomic.Int32
}

func (s *stubCompleter) Complete(_ context.Context, _ string, _ []session.Turn) (string, error) {
	s.calls.Add(1)
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

// newTestServer builds a server over a fresh in-memory store and the given
// completer. The store is returned for direct state assertions.
func newTestServer(t *testing.T, completer chat.Completer) (*Server, *session.Store) {
	t.Helper()

	store := session.New(0, log.NewNop())
	svc := chat.NewService(store, completer, log.NewNop())

	srv, err := NewServer(ServerConfig{
		Logger:      log.NewNop(),
		Service:     svc,
		Store:       store,
		CORSOrigins: []string{"*"},
	})
	if err != nil {
		t.Fatalf("NewServer() error: %v", err)
	}
	return srv, store
}

// decodeBody decodes a recorded JSON response body into v.
func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("decoding response body: %v", err)
	}
}

func TestNewServer(t *testing.T) {
	srv, _ := newTestServer(t, &stubCompleter{reply: "ok"})

	if srv.Handler() == nil {
		t.Fatal("NewServer().Handler() returned nil")
	}
}

func TestNewServer_MissingService(t *testing.T) {
	_, err := NewServer(ServerConfig{
		Store: session.New(0, log.NewNop()),
	})

	if err == nil {
		t.Fatal("NewServer(nil service) expected error, got nil")
	}
}

func TestNewServer_MissingStore(t *testing.T) {
	store := session.New(0, log.NewNop())
	svc := chat.NewService(store, &stubCompleter{}, log.NewNop())

	_, err := NewServer(ServerConfig{Service: svc})

	if err == nil {
		t.Fatal("NewServer(nil store) expected error, got nil")
	}
}

func TestStaticServing_Disabled(t *testing.T) {
	srv, _ := newTestServer(t, &stubCompleter{})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	srv.Handler().ServeHTTP(w, r)

	if w.Code != http.StatusNotFound {
		t.Fatalf("GET / without static dir status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestStaticServing(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>frontend</html>"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "app.js"), []byte("console.log(1)"), 0o600); err != nil {
		t.Fatal(err)
	}

	store := session.New(0, log.NewNop())
	svc := chat.NewService(store, &stubCompleter{}, log.NewNop())
	srv, err := NewServer(ServerConfig{
		Service:   svc,
		Store:     store,
		StaticDir: dir,
	})
	if err != nil {
		t.Fatalf("NewServer() error: %v", err)
	}

	t.Run("index", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)

		srv.Handler().ServeHTTP(w, r)

		if w.Code != http.StatusOK {
			t.Fatalf("GET / status = %d, want %d", w.Code, http.StatusOK)
		}
		if got := w.Body.String(); got != "<html>frontend</html>" {
			t.Errorf("GET / body = %q, want index.html contents", got)
		}
	})

	t.Run("asset", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/static/app.js", nil)

		srv.Handler().ServeHTTP(w, r)

		if w.Code != http.StatusOK {
			t.Fatalf("GET /static/app.js status = %d, want %d", w.Code, http.StatusOK)
		}
	})
}
