package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/89534449434inside-eng/ai-platform/internal/log"
	"github.com/89534449434inside-eng/ai-platform/internal/session"
)

// Default generation parameters for the completion call.
const (
	DefaultModel             = "GigaChat"
	DefaultTemperature       = 0.7
	DefaultMaxTokens         = 2000
	DefaultHistoryWindow     = 10
	DefaultCompletionTimeout = 60 * time.Second
)

// ClientConfig configures the completion client.
type ClientConfig struct {
	// URL is the chat-completions endpoint.
	URL string

	// Model, Temperature and MaxTokens are the fixed generation parameters
	// sent with every request.
	Model       string
	Temperature float64
	MaxTokens   int

	// HistoryWindow is how many trailing history turns accompany each
	// message; older turns are silently dropped. Default: 10.
	HistoryWindow int

	// Timeout bounds each completion round-trip. Default: DefaultCompletionTimeout.
	Timeout time.Duration

	// InsecureSkipVerify disables TLS certificate verification,
	// see TokenConfig.InsecureSkipVerify.
	InsecureSkipVerify bool

	// HTTPClient overrides the internally built client (tests).
	HTTPClient *http.Client
}

// Client sends conversations to the remote completion service.
//
// Complete returns tagged errors rather than hiding failures in reply text;
// the orchestrator decides what becomes user-visible. Nothing is retried.
type Client struct {
	cfg    ClientConfig
	tokens *TokenSource
	client *http.Client
	logger log.Logger
}

// NewClient creates a completion client backed by the given token source.
func NewClient(cfg ClientConfig, tokens *TokenSource, logger log.Logger) *Client {
	if logger == nil {
		logger = log.NewNop()
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = DefaultTemperature
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.HistoryWindow <= 0 {
		cfg.HistoryWindow = DefaultHistoryWindow
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultCompletionTimeout
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: newTransport(cfg.InsecureSkipVerify),
		}
	}

	return &Client{cfg: cfg, tokens: tokens, client: client, logger: logger}
}

// message is one entry of the outbound conversation.
type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// completionRequest is the wire format of the completion call.
type completionRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

// completionResponse is the wire format of a successful completion.
type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends msg preceded by at most the last HistoryWindow turns of
// history and returns the first generated completion's text.
//
// Error contract: *AuthError when the token source fails (propagate to the
// transport boundary), *UpstreamError on a non-200 completion response, and a
// wrapped transport error otherwise. A 401 from the completion endpoint also
// invalidates the cached token so the next request re-authenticates.
func (c *Client) Complete(ctx context.Context, msg string, history []session.Turn) (string, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return "", err
	}

	payload := completionRequest{
		Model:       c.cfg.Model,
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
		Messages:    c.buildMessages(msg, history),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encoding completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building completion request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("completion request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
		if resp.StatusCode == http.StatusUnauthorized {
			c.tokens.Invalidate(token)
		}
		c.logger.Warn("completion rejected",
			"status", resp.StatusCode,
			"duration", time.Since(start),
		)
		return "", &UpstreamError{Status: resp.StatusCode}
	}

	var parsed completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decoding completion response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("completion response has no choices")
	}

	c.logger.Debug("completion ok",
		"messages", len(payload.Messages),
		"duration", time.Since(start),
	)
	return parsed.Choices[0].Message.Content, nil
}

// buildMessages assembles the outbound message list: the trailing history
// window followed by the new user message as the final entry.
func (c *Client) buildMessages(msg string, history []session.Turn) []message {
	if n := len(history); n > c.cfg.HistoryWindow {
		history = history[n-c.cfg.HistoryWindow:]
	}

	out := make([]message, 0, len(history)+1)
	for _, t := range history {
		out = append(out, message{Role: t.Role, Content: t.Content})
	}
	return append(out, message{Role: session.RoleUser, Content: msg})
}
