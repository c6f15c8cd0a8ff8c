package api

import (
	"errors"
	"net/http"
	"path/filepath"

	"github.com/89534449434inside-eng/ai-platform/internal/chat"
	"github.com/89534449434inside-eng/ai-platform/internal/log"
	"github.com/89534449434inside-eng/ai-platform/internal/session"
)

// ServerConfig contains configuration for creating the API server.
type ServerConfig struct {
	Logger      log.Logger
	Service     *chat.Service  // Required
	Store       *session.Store // Required
	CORSOrigins []string       // Allowed origins for CORS ("*" allows any)
	TrustProxy  bool           // Trust X-Real-IP/X-Forwarded-For headers (behind reverse proxy)
	RateBurst   int            // Rate limiter burst size per IP (0 = default 60)
	StaticDir   string         // Directory of frontend assets (empty disables static serving)
}

// Server is the JSON API HTTP server.
type Server struct {
	mux *http.ServeMux
}

// NewServer creates a new API server with all routes configured.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Service == nil {
		return nil, errors.New("chat service is required")
	}
	if cfg.Store == nil {
		return nil, errors.New("session store is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.NewNop()
	}

	ch := &chatHandler{service: cfg.Service, logger: logger}
	wh := &widgetHandler{store: cfg.Store, logger: logger}

	mux := http.NewServeMux()

	// Chat
	mux.HandleFunc("POST /api/chat", ch.send)

	// Widgets
	mux.HandleFunc("GET /api/widgets/{user_id}", wh.list)
	mux.HandleFunc("DELETE /api/widgets/{user_id}/{widget_id}", wh.remove)

	// Frontend assets (optional)
	if cfg.StaticDir != "" {
		index := filepath.Join(cfg.StaticDir, "index.html")
		mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
			http.ServeFile(w, r, index)
		})
		fs := http.FileServer(http.Dir(cfg.StaticDir))
		mux.Handle("GET /static/", http.StripPrefix("/static/", fs))
	}

	// Rate limiter: per-IP token bucket (1 token/sec refill)
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 60
	}
	rl := newRateLimiter(1.0, burst)

	// Build middleware stack (outermost first):
	//   Recovery → RequestID → Logging → CORS → RateLimit → Routes
	// RequestID must be before Logging so request_id is available in log attributes.
	// CORS must be before RateLimit so preflight OPTIONS gets proper CORS headers.
	var handler http.Handler = mux
	handler = rateLimitMiddleware(rl, cfg.TrustProxy, logger)(handler)
	handler = corsMiddleware(cfg.CORSOrigins)(handler)
	handler = loggingMiddleware(logger)(handler)
	handler = requestIDMiddleware()(handler)
	handler = recoveryMiddleware(logger)(handler)

	// Use a top-level mux to keep health probes outside the middleware stack
	// (no rate limiting for orchestrator probes).
	topMux := http.NewServeMux()
	topMux.Handle("GET /api/health", healthHandler(cfg.Store))
	topMux.Handle("/", handler)

	return &Server{mux: topMux}, nil
}

// Handler returns the server as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}
