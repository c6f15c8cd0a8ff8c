package config

import (
	"errors"
	"fmt"
	"net/url"
)

var (
	// ErrConfigNil indicates the configuration is nil.
	ErrConfigNil = errors.New("configuration is nil")

	// ErrMissingAPIKey indicates the assistant credential is missing.
	ErrMissingAPIKey = errors.New("missing API key")

	// ErrInvalidURL indicates an endpoint URL is malformed.
	ErrInvalidURL = errors.New("invalid endpoint URL")

	// ErrInvalidModelName indicates the model name is invalid.
	ErrInvalidModelName = errors.New("invalid model name")

	// ErrInvalidTemperature indicates the temperature value is out of range.
	ErrInvalidTemperature = errors.New("invalid temperature")

	// ErrInvalidMaxTokens indicates the max tokens value is out of range.
	ErrInvalidMaxTokens = errors.New("invalid max tokens")

	// ErrInvalidHistoryWindow indicates the history window is out of range.
	ErrInvalidHistoryWindow = errors.New("invalid history window")

	// ErrInvalidHistoryCap indicates the history cap conflicts with the window.
	ErrInvalidHistoryCap = errors.New("invalid history cap")

	// ErrInvalidTimeout indicates a timeout value is out of range.
	ErrInvalidTimeout = errors.New("invalid timeout")
)

// Validate validates configuration values.
// Returns sentinel errors that can be checked with errors.Is().
func (c *Config) Validate() error {
	if c == nil {
		return ErrConfigNil
	}

	if err := validateEndpoint("auth_url", c.AuthURL); err != nil {
		return err
	}
	if err := validateEndpoint("completion_url", c.CompletionURL); err != nil {
		return err
	}

	if c.ModelName == "" {
		return fmt.Errorf("%w: model_name cannot be empty", ErrInvalidModelName)
	}

	if c.Temperature < 0.0 || c.Temperature > 2.0 {
		return fmt.Errorf("%w: must be between 0.0 and 2.0, got %.2f", ErrInvalidTemperature, c.Temperature)
	}

	if c.MaxTokens < 1 || c.MaxTokens > 32768 {
		return fmt.Errorf("%w: must be between 1 and 32,768, got %d", ErrInvalidMaxTokens, c.MaxTokens)
	}

	if c.HistoryWindow < 1 || c.HistoryWindow > 1000 {
		return fmt.Errorf("%w: must be between 1 and 1000, got %d", ErrInvalidHistoryWindow, c.HistoryWindow)
	}

	// A cap below the window would silently shrink what the assistant sees.
	if c.MaxHistoryTurns != 0 && c.MaxHistoryTurns < c.HistoryWindow {
		return fmt.Errorf("%w: max_history_turns must be 0 (unbounded) or >= history_window (%d), got %d",
			ErrInvalidHistoryCap, c.HistoryWindow, c.MaxHistoryTurns)
	}

	if c.AuthTimeoutSec < 1 || c.AuthTimeoutSec > 300 {
		return fmt.Errorf("%w: auth_timeout_seconds must be between 1 and 300, got %d", ErrInvalidTimeout, c.AuthTimeoutSec)
	}
	if c.CompleteTimeoutSec < 1 || c.CompleteTimeoutSec > 600 {
		return fmt.Errorf("%w: completion_timeout_seconds must be between 1 and 600, got %d", ErrInvalidTimeout, c.CompleteTimeoutSec)
	}

	return nil
}

// ValidateServe performs the additional checks serve mode requires.
// The credential is only mandatory when the service actually talks to the
// assistant, so it is checked here rather than in Validate.
func (c *Config) ValidateServe() error {
	if err := c.Validate(); err != nil {
		return err
	}

	if c.APIKey == "" {
		return fmt.Errorf("%w: GIGACHAT_API_KEY environment variable is required", ErrMissingAPIKey)
	}

	return nil
}

// validateEndpoint checks that an endpoint URL is absolute http(s).
func validateEndpoint(name, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidURL, name, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return fmt.Errorf("%w: %s must be an absolute http(s) URL, got %q", ErrInvalidURL, name, raw)
	}
	return nil
}
