// Package config provides application configuration management with
// multi-source priority.
//
// Configuration sources (highest to lowest priority):
//  1. Environment variables (runtime override)
//  2. Config file (~/.ai-platform/config.yaml or ./config.yaml)
//  3. Default values
//
// Main configuration categories:
//   - Assistant: GigaChat endpoints, credential, generation parameters
//   - Sessions: history cap
//   - Serve: CORS, proxy trust, rate limiting, static assets
//   - Observability: OTLP tracing via a local Datadog Agent
//
// Security: the API key is never logged; it is masked in MarshalJSON/String.
// Validation: fail-fast range checks in validation.go with sentinel errors
// checkable via errors.Is().
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Default assistant endpoints and generation parameters. The endpoints are a
// fixed external contract; overriding them is only useful for tests and
// proxies.
const (
	DefaultAuthURL       = "https://ngw.devices.sberbank.ru:9443/api/v2/oauth"
	DefaultCompletionURL = "https://gigachat.devices.sberbank.ru/api/v1/chat/completions"
	DefaultScope         = "GIGACHAT_API_PERS"
	DefaultModelName     = "GigaChat"
)

// DatadogConfig holds OTLP tracing configuration.
//
// Tracing uses the local Datadog Agent for OTLP ingestion.
// See internal/observability for setup details.
type DatadogConfig struct {
	// Enabled turns span export on. Default: false.
	Enabled bool `mapstructure:"enabled" json:"enabled"`
	// AgentHost is the agent's OTLP endpoint (default: localhost:4318)
	AgentHost string `mapstructure:"agent_host" json:"agent_host"`
	// Environment is the deployment environment tag (default: dev)
	Environment string `mapstructure:"environment" json:"environment"`
	// ServiceName is the service name in APM (default: ai-platform)
	ServiceName string `mapstructure:"service_name" json:"service_name"`
}

// Config stores application configuration.
// SECURITY: sensitive fields are explicitly masked in MarshalJSON().
// When adding new sensitive fields (API keys, tokens), update MarshalJSON.
type Config struct {
	// Assistant configuration
	AuthURL          string  `mapstructure:"auth_url" json:"auth_url"`
	CompletionURL    string  `mapstructure:"completion_url" json:"completion_url"`
	APIKey           string  `mapstructure:"api_key" json:"api_key"` // SENSITIVE: masked in MarshalJSON
	Scope            string  `mapstructure:"scope" json:"scope"`
	ModelName        string  `mapstructure:"model_name" json:"model_name"`
	Temperature      float64 `mapstructure:"temperature" json:"temperature"`
	MaxTokens        int     `mapstructure:"max_tokens" json:"max_tokens"`
	HistoryWindow    int     `mapstructure:"history_window" json:"history_window"`
	AuthTimeoutSec   int     `mapstructure:"auth_timeout_seconds" json:"auth_timeout_seconds"`
	CompleteTimeoutSec int   `mapstructure:"completion_timeout_seconds" json:"completion_timeout_seconds"`

	// InsecureSkipVerify disables outbound TLS verification. The upstream
	// endpoints present certificates from a CA absent from common trust
	// stores; deployments with the CA bundle installed should set false.
	InsecureSkipVerify bool `mapstructure:"insecure_skip_verify" json:"insecure_skip_verify"`

	// Session configuration. 0 keeps the full history.
	MaxHistoryTurns int `mapstructure:"max_history_turns" json:"max_history_turns"`

	// Serve configuration
	CORSOrigins []string `mapstructure:"cors_origins" json:"cors_origins"`
	TrustProxy  bool     `mapstructure:"trust_proxy" json:"trust_proxy"`
	StaticDir   string   `mapstructure:"static_dir" json:"static_dir"`

	// Observability configuration
	Datadog DatadogConfig `mapstructure:"datadog" json:"datadog"`
}

// Load loads configuration.
// Priority: environment variables > configuration file > default values.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting user home directory: %w", err)
	}

	configDir := filepath.Join(home, ".ai-platform")
	if err := os.MkdirAll(configDir, 0o750); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir)
	viper.AddConfigPath(".") // Also support current directory

	setDefaults()
	bindEnvVariables()

	if err := viper.ReadInConfig(); err != nil {
		// A missing config file is not an error, defaults apply
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		slog.Debug("configuration file not found, using default values",
			"search_paths", []string{configDir, "."},
			"config_name", "config.yaml")
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets all default configuration values.
func setDefaults() {
	// Assistant defaults
	viper.SetDefault("auth_url", DefaultAuthURL)
	viper.SetDefault("completion_url", DefaultCompletionURL)
	viper.SetDefault("scope", DefaultScope)
	viper.SetDefault("model_name", DefaultModelName)
	viper.SetDefault("temperature", 0.7)
	viper.SetDefault("max_tokens", 2000)
	viper.SetDefault("history_window", 10)
	viper.SetDefault("auth_timeout_seconds", 30)
	viper.SetDefault("completion_timeout_seconds", 60)
	viper.SetDefault("insecure_skip_verify", true)

	// Session defaults: unbounded history
	viper.SetDefault("max_history_turns", 0)

	// Serve defaults: open CORS, mirroring the browser frontend's needs
	viper.SetDefault("cors_origins", []string{"*"})
	viper.SetDefault("trust_proxy", false)
	viper.SetDefault("static_dir", "static")

	// Observability defaults
	viper.SetDefault("datadog.enabled", false)
	viper.SetDefault("datadog.agent_host", "localhost:4318")
	viper.SetDefault("datadog.environment", "dev")
	viper.SetDefault("datadog.service_name", "ai-platform")
}

// bindEnvVariables binds environment overrides explicitly.
func bindEnvVariables() {
	// Helper to panic on unexpected bind errors (hardcoded strings can't fail).
	// If this panics, it's a BUG in our code, not a runtime error.
	mustBind := func(key, envVar string) {
		if err := viper.BindEnv(key, envVar); err != nil {
			panic(fmt.Sprintf("BUG: failed to bind %q to %q: %v", key, envVar, err))
		}
	}

	// The static Basic credential for the identity exchange
	mustBind("api_key", "GIGACHAT_API_KEY")

	// Serve overrides
	mustBind("cors_origins", "AIP_CORS_ORIGINS")
	mustBind("trust_proxy", "AIP_TRUST_PROXY")
	mustBind("static_dir", "AIP_STATIC_DIR")

	// Assistant overrides
	mustBind("model_name", "AIP_MODEL_NAME")
	mustBind("insecure_skip_verify", "AIP_INSECURE_SKIP_VERIFY")

	// Tracing
	mustBind("datadog.enabled", "AIP_TRACING_ENABLED")
	mustBind("datadog.agent_host", "DD_AGENT_HOST")
}

// maskedValue is the placeholder for masked sensitive data.
// Full-width blocks avoid substring matches against the real secret.
const maskedValue = "████████"

// maskSecret masks a secret string for safe logging.
// Secrets of 8 characters or fewer are fully masked; longer ones keep the
// first and last two characters for debug utility.
func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return maskedValue
	}
	return s[:2] + "<" + maskedValue + ">" + s[len(s)-2:]
}

// MarshalJSON implements json.Marshaler with explicit sensitive field masking.
func (c Config) MarshalJSON() ([]byte, error) {
	type alias Config
	a := alias(c)
	a.APIKey = maskSecret(a.APIKey)
	data, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return data, nil
}

// String implements Stringer to prevent accidental printing of secrets.
func (c Config) String() string {
	data, err := c.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("Config{error: %v}", err)
	}
	return string(data)
}
