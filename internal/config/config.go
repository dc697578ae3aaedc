// Package config provides configuration loading and validation for the
// match engine.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/match-engine/internal/types"
)

// Config holds everything needed to assemble the engine. All fields can come
// from a JSON file, environment variables, or both; env values win.
type Config struct {
	// Provider credentials and models
	GeminiAPIKey    string `json:"gemini_api_key,omitempty"`
	GeminiModel     string `json:"gemini_model,omitempty"`
	OpenAIAPIKey    string `json:"openai_api_key,omitempty"`
	OpenAIModel     string `json:"openai_model,omitempty"`
	AnthropicAPIKey string `json:"anthropic_api_key,omitempty"`
	AnthropicModel  string `json:"anthropic_model,omitempty"`

	// ProviderOrder is the failover preference order; entries must be one
	// of gemini, openai, anthropic.
	ProviderOrder []string `json:"provider_order,omitempty" validate:"dive,oneof=gemini openai anthropic"`

	// Scoring
	ScoringWeights   types.ScoringWeights `json:"scoring_weights,omitempty"`
	FailureThreshold float64              `json:"failure_threshold,omitempty" validate:"gte=0,lte=100"`

	// Storage
	DatabaseURL string `json:"database_url,omitempty"`

	// Behavior
	LogLevel string `json:"log_level,omitempty" validate:"omitempty,oneof=debug info warn error"`
}

// Default returns the standard configuration.
func Default() *Config {
	return &Config{
		GeminiModel:      "gemini-2.0-flash",
		OpenAIModel:      "gpt-4o-mini",
		AnthropicModel:   "claude-3-5-sonnet-latest",
		ProviderOrder:    []string{"gemini", "openai", "anthropic"},
		ScoringWeights:   types.DefaultScoringWeights(),
		FailureThreshold: 50,
		LogLevel:         "info",
	}
}

// Load reads configuration from an optional JSON file, applies environment
// overrides, and validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides fields from environment variables.
func (c *Config) applyEnv() {
	setString := func(target *string, key string) {
		if v := os.Getenv(key); v != "" {
			*target = v
		}
	}
	setString(&c.GeminiAPIKey, "GEMINI_API_KEY")
	setString(&c.GeminiModel, "GEMINI_MODEL")
	setString(&c.OpenAIAPIKey, "OPENAI_API_KEY")
	setString(&c.OpenAIModel, "OPENAI_MODEL")
	setString(&c.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	setString(&c.AnthropicModel, "ANTHROPIC_MODEL")
	setString(&c.DatabaseURL, "DATABASE_URL")
	setString(&c.LogLevel, "LOG_LEVEL")

	if v := os.Getenv("FAILURE_THRESHOLD"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			c.FailureThreshold = parsed
		}
	}
}

// Validate checks field constraints and the scoring-weight invariant.
// A weight set that does not sum to 1.0 rejects the whole config.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	if err := c.ScoringWeights.Validate(); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if len(c.ProviderOrder) == 0 {
		return fmt.Errorf("config error: provider_order must name at least one provider")
	}
	return nil
}

// HasAnyProviderKey reports whether at least one provider credential is set.
func (c *Config) HasAnyProviderKey() bool {
	return c.GeminiAPIKey != "" || c.OpenAIAPIKey != "" || c.AnthropicAPIKey != ""
}
