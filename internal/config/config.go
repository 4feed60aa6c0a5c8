package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config holds all runtime settings, populated from the environment. A
// .env file in the working directory is honored when present.
type Config struct {
	// Storage
	DatabasePath string `env:"CHATLOOM_DB" envDefault:"chatloom.db"`

	// HTTP server
	ListenAddr string `env:"CHATLOOM_ADDR" envDefault:":8080"`

	// Inference provider
	OpenAIAPIKey   string        `env:"OPENAI_API_KEY"`
	OpenAIBaseURL  string        `env:"OPENAI_BASE_URL"`
	OpenAIModel    string        `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	SystemPrompt   string        `env:"CHATLOOM_SYSTEM_PROMPT"`
	RequestTimeout time.Duration `env:"CHATLOOM_REQUEST_TIMEOUT" envDefault:"60s"`
}

// Load reads configuration from the environment, merging in a .env file if
// one exists.
func Load() (*Config, error) {
	// A missing .env file is fine; explicit environment always wins.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// RequireProvider validates the settings needed for inference calls.
// Commands that never call the provider (list, show, export, delete) skip
// this check.
func (c *Config) RequireProvider() error {
	if c.OpenAIAPIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY not set")
	}
	return nil
}
