package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config carries everything the server needs at startup. The API key comes
// from OPENAI_API_KEY; all other settings use the CAREPLAN_ prefix and fall
// back to defaults.
type Config struct {
	APIKey         string
	Model          string
	Temperature    float32
	Port           int
	RequestTimeout time.Duration
}

// Load reads configuration from the environment and validates it.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("CAREPLAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Low temperature keeps repeated runs over the same input reproducible.
	v.SetDefault("model", "gpt-4o-mini")
	v.SetDefault("temperature", 0.1)
	v.SetDefault("port", 8080)
	v.SetDefault("request_timeout", "60s")

	if err := v.BindEnv("api_key", "OPENAI_API_KEY"); err != nil {
		return nil, err
	}

	cfg := &Config{
		APIKey:         strings.TrimSpace(v.GetString("api_key")),
		Model:          v.GetString("model"),
		Temperature:    float32(v.GetFloat64("temperature")),
		Port:           v.GetInt("port"),
		RequestTimeout: v.GetDuration("request_timeout"),
	}

	if !strings.HasPrefix(cfg.APIKey, "sk-") {
		return nil, fmt.Errorf(`OPENAI_API_KEY is missing or malformed: set OPENAI_API_KEY="sk-..." in the environment or .env`)
	}
	return cfg, nil
}
