package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load loads and validates configuration from:
// 1. Default values
// 2. The config file at path (optional)
// 3. BLOOM_* environment variables
func Load(path string) (*Config, error) {
	setDefaults()

	viper.SetConfigFile(path)
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("BLOOM")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// A missing config file is fine, defaults and environment apply.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: failed to read config file: %v", ErrConfiguration, err)
		}
	}

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrConfiguration, err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.json", true)

	viper.SetDefault("server.addr", ":8080")
	viper.SetDefault("server.read_timeout", 15*time.Second)
	viper.SetDefault("server.write_timeout", 2*time.Minute)
	viper.SetDefault("server.shutdown_timeout", 10*time.Second)

	viper.SetDefault("ai.backend", "gemini")
	viper.SetDefault("ai.base_url", "")
	viper.SetDefault("ai.model", "gemini-2.0-flash")
	viper.SetDefault("ai.temperature", 0.1)
	viper.SetDefault("ai.max_output_tokens", 200)
	viper.SetDefault("ai.timeout", 2*time.Minute)
	viper.SetDefault("ai.max_retries", 2)
	viper.SetDefault("ai.retry_delay", 2*time.Second)
	viper.SetDefault("ai.stop_sequences", []string{
		"Question:",
		"Human:",
		"Observation",
		"USER QUESTION:",
		"ASSISTANT:",
		"User:",
		"User previously asked:",
		"You previously responded:",
	})

	viper.SetDefault("twilio.max_message_length", 1500)

	viper.SetDefault("database.path", "userdata.db")
	viper.SetDefault("database.max_open_conns", 1)
	viper.SetDefault("database.max_idle_conns", 1)
	viper.SetDefault("database.conn_max_lifetime", 5*time.Minute)

	viper.SetDefault("session.max_exchanges", 10)
	viper.SetDefault("session.context_exchanges", 2)
}
