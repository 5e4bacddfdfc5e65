// Package config manages application configuration from config.yaml,
// BLOOM_* environment variables, and built-in defaults.
package config

import (
	"errors"
	"time"
)

// ErrConfiguration is returned when configuration loading or validation fails.
var ErrConfiguration = errors.New("configuration error")

// Config defines the application configuration. Values can be set via
// environment variables prefixed with BLOOM_ (e.g., BLOOM_AI_API_KEY) or
// through config.yaml.
type Config struct {
	Log      LogConfig      `mapstructure:"log"`
	Server   ServerConfig   `mapstructure:"server"`
	AI       AIConfig       `mapstructure:"ai"`
	Twilio   TwilioConfig   `mapstructure:"twilio"`
	Database DatabaseConfig `mapstructure:"database"`
	Session  SessionConfig  `mapstructure:"session"`
}

// LogConfig controls logging output.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"             validate:"required"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"     validate:"min=1s"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"    validate:"min=1s"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"min=1s"`
}

// AIConfig holds settings for the text-generation service. A missing APIKey
// is not a validation failure; generation simply becomes unavailable and
// responders fall back to their apology messages.
type AIConfig struct {
	Backend         string        `mapstructure:"backend"           validate:"oneof=gemini openai"`
	APIKey          string        `mapstructure:"api_key"`
	BaseURL         string        `mapstructure:"base_url"`
	Model           string        `mapstructure:"model"             validate:"required"`
	Temperature     float32       `mapstructure:"temperature"       validate:"min=0,max=2"`
	MaxOutputTokens int32         `mapstructure:"max_output_tokens" validate:"min=1"`
	Timeout         time.Duration `mapstructure:"timeout"           validate:"min=1s,max=10m"`
	MaxRetries      int           `mapstructure:"max_retries"       validate:"min=0,max=10"`
	RetryDelay      time.Duration `mapstructure:"retry_delay"`
	StopSequences   []string      `mapstructure:"stop_sequences"`
}

// TwilioConfig holds WhatsApp channel credentials. Missing credentials
// disable outbound sends but leave the inbound webhook functional.
type TwilioConfig struct {
	AccountSID       string `mapstructure:"account_sid"`
	AuthToken        string `mapstructure:"auth_token"`
	WhatsAppNumber   string `mapstructure:"whatsapp_number"`
	MaxMessageLength int    `mapstructure:"max_message_length" validate:"min=100"`
}

// DatabaseConfig controls the read-only user profile/log store. When the
// database cannot be opened, lookups degrade to "no data" for all users.
type DatabaseConfig struct {
	Path            string        `mapstructure:"path" validate:"required"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"    validate:"min=1"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"    validate:"min=1"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" validate:"min=1s"`
}

// SessionConfig controls conversation history retention.
type SessionConfig struct {
	MaxExchanges     int `mapstructure:"max_exchanges"     validate:"min=1"`
	ContextExchanges int `mapstructure:"context_exchanges" validate:"min=1"`
}
