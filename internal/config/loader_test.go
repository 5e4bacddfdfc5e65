package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// Load mutates global viper state, so these tests run sequentially.

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Server.Addr = %q, want :8080", cfg.Server.Addr)
	}
	if cfg.AI.Backend != "gemini" {
		t.Errorf("AI.Backend = %q, want gemini", cfg.AI.Backend)
	}
	if cfg.AI.MaxOutputTokens != 200 {
		t.Errorf("AI.MaxOutputTokens = %d, want 200", cfg.AI.MaxOutputTokens)
	}
	if cfg.Twilio.MaxMessageLength != 1500 {
		t.Errorf("Twilio.MaxMessageLength = %d, want 1500", cfg.Twilio.MaxMessageLength)
	}
	if cfg.Session.MaxExchanges != 10 {
		t.Errorf("Session.MaxExchanges = %d, want 10", cfg.Session.MaxExchanges)
	}
	if len(cfg.AI.StopSequences) == 0 {
		t.Error("AI.StopSequences default is empty")
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
log:
  level: debug
server:
  addr: ":9090"
  read_timeout: 30s
ai:
  backend: openai
  model: gpt-4o-mini
session:
  max_exchanges: 5
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("Server.Addr = %q, want :9090", cfg.Server.Addr)
	}
	if cfg.Server.ReadTimeout != 30*time.Second {
		t.Errorf("Server.ReadTimeout = %v, want 30s", cfg.Server.ReadTimeout)
	}
	if cfg.AI.Backend != "openai" || cfg.AI.Model != "gpt-4o-mini" {
		t.Errorf("AI = %q/%q, want openai/gpt-4o-mini", cfg.AI.Backend, cfg.AI.Model)
	}
	if cfg.Session.MaxExchanges != 5 {
		t.Errorf("Session.MaxExchanges = %d, want 5", cfg.Session.MaxExchanges)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad log level", "log:\n  level: verbose\n"},
		{"bad backend", "ai:\n  backend: anthropic\n"},
		{"short message cap", "twilio:\n  max_message_length: 10\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.yaml))
			if err == nil {
				t.Fatal("Load() succeeded with invalid config")
			}
			if !errors.Is(err, ErrConfiguration) {
				t.Errorf("error = %v, want ErrConfiguration", err)
			}
		})
	}
}
