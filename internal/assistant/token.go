// Package assistant implements the client for the remote GigaChat completion
// service: a lazily authenticated token source with process-wide caching and
// a completion client with a fixed history window.
package assistant

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/89534449434inside-eng/ai-platform/internal/log"
)

const (
	// DefaultAuthTimeout bounds the identity exchange round-trip.
	DefaultAuthTimeout = 30 * time.Second

	// maxErrorBody caps how much of an upstream error body is retained.
	maxErrorBody = 4 << 10
)

// TokenConfig configures the token source.
type TokenConfig struct {
	// URL is the identity endpoint (form-encoded OAuth exchange).
	URL string

	// Credential is the static Basic-auth credential, already base64-encoded.
	Credential string

	// Scope is the fixed requested scope string.
	Scope string

	// Timeout bounds each auth round-trip. Default: DefaultAuthTimeout.
	Timeout time.Duration

	// InsecureSkipVerify disables TLS certificate verification. The upstream
	// endpoints present certificates from a CA that is not in common trust
	// stores, so deployments without the CA bundle installed need this.
	InsecureSkipVerify bool

	// HTTPClient overrides the internally built client (tests).
	HTTPClient *http.Client
}

// TokenSource holds the single process-wide cached bearer credential for the
// assistant API. The token has no tracked expiry: it is reused until the
// process restarts or Invalidate is called.
//
// TokenSource is safe for concurrent use. The mutex is held across the fetch
// so a cold start performs at most one auth round-trip no matter how many
// requests race on it.
type TokenSource struct {
	cfg    TokenConfig
	client *http.Client
	logger log.Logger

	mu    chan struct{} // 1-buffered semaphore so the fetch honors ctx cancellation
	token string
}

// NewTokenSource creates a token source with an empty cache.
func NewTokenSource(cfg TokenConfig, logger log.Logger) *TokenSource {
	if logger == nil {
		logger = log.NewNop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultAuthTimeout
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: newTransport(cfg.InsecureSkipVerify),
		}
	}

	ts := &TokenSource{
		cfg:    cfg,
		client: client,
		logger: logger,
		mu:     make(chan struct{}, 1),
	}
	return ts
}

// newTransport builds the shared outbound transport.
func newTransport(insecure bool) *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	if insecure {
		t.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} // #nosec G402 -- deliberate, see TokenConfig.InsecureSkipVerify
	}
	return t
}

// Token returns the cached bearer token, performing the identity exchange on
// first use. A cached token is returned without any network call. Failures
// surface as *AuthError and are never retried here.
func (ts *TokenSource) Token(ctx context.Context) (string, error) {
	select {
	case ts.mu <- struct{}{}:
	case <-ctx.Done():
		return "", &AuthError{Err: ctx.Err()}
	}
	defer func() { <-ts.mu }()

	if ts.token != "" {
		return ts.token, nil
	}

	tok, err := ts.fetch(ctx)
	if err != nil {
		return "", err
	}
	ts.token = tok
	ts.logger.Debug("assistant token acquired")
	return tok, nil
}

// Invalidate clears the cached token if tok is still the cached value.
// Called by the completion client on an upstream 401 so the next request
// re-authenticates instead of degrading until restart.
func (ts *TokenSource) Invalidate(tok string) {
	ts.mu <- struct{}{}
	defer func() { <-ts.mu }()
	if ts.token == tok {
		ts.token = ""
		ts.logger.Info("assistant token invalidated")
	}
}

// fetch performs one identity exchange. Each attempt carries a fresh RqUID
// correlation header.
func (ts *TokenSource) fetch(ctx context.Context) (string, error) {
	form := url.Values{"scope": {ts.cfg.Scope}}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ts.cfg.URL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", &AuthError{Err: fmt.Errorf("building auth request: %w", err)}
	}
	req.Header.Set("Authorization", "Basic "+ts.cfg.Credential)
	req.Header.Set("RqUID", uuid.NewString())
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := ts.client.Do(req)
	if err != nil {
		return "", &AuthError{Err: fmt.Errorf("auth request: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if resp.StatusCode != http.StatusOK {
		ts.logger.Error("identity exchange rejected", "status", resp.StatusCode)
		return "", &AuthError{Status: resp.StatusCode, Body: string(body)}
	}

	var parsed struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", &AuthError{Status: resp.StatusCode, Body: string(body), Err: fmt.Errorf("decoding auth response: %w", err)}
	}
	if parsed.AccessToken == "" {
		return "", &AuthError{Status: resp.StatusCode, Body: string(body), Err: fmt.Errorf("auth response missing access_token")}
	}

	return parsed.AccessToken, nil
}
