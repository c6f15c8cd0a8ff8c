package config

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestMaskSecret(t *testing.T) {
	tests := []struct {
		name   string
		secret string
		want   string
	}{
		{"empty", "", ""},
		{"short fully masked", "abc", maskedValue},
		{"exactly eight fully masked", "12345678", maskedValue},
		{"long keeps edges", "MDE5YjdmZTUtNGQ4Mg==", "MD<" + maskedValue + ">=="},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := maskSecret(tt.secret); got != tt.want {
				t.Errorf("maskSecret(%q) = %q, want %q", tt.secret, got, tt.want)
			}
		})
	}
}

func TestConfig_MarshalJSON_MasksAPIKey(t *testing.T) {
	cfg := validConfig()
	cfg.APIKey = "super-secret-credential-value"

	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	if strings.Contains(string(data), "super-secret-credential-value") {
		t.Errorf("marshaled config leaks the API key: %s", data)
	}
	if !strings.Contains(string(data), maskedValue) {
		t.Errorf("marshaled config is missing the mask placeholder: %s", data)
	}
}

func TestConfig_String_MasksAPIKey(t *testing.T) {
	cfg := validConfig()
	cfg.APIKey = "another-long-secret-value"

	s := cfg.String()
	if strings.Contains(s, "another-long-secret-value") {
		t.Errorf("String() leaks the API key: %s", s)
	}
}

func TestConfig_MarshalJSON_KeepsPlainFields(t *testing.T) {
	cfg := validConfig()

	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}

	if decoded["model_name"] != DefaultModelName {
		t.Errorf("model_name = %v, want %q", decoded["model_name"], DefaultModelName)
	}
	if decoded["scope"] != DefaultScope {
		t.Errorf("scope = %v, want %q", decoded["scope"], DefaultScope)
	}
}
