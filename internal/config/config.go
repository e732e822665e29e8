// Package config loads process configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/sashabaranov/go-openai"

	"github.com/ironsheep/dalle-image-mcp/internal/log"
)

// Environment variable names.
const (
	EnvAPIKey   = "OPENAI_API_KEY"
	EnvBaseURL  = "OPENAI_BASE_URL"
	EnvOrgID    = "OPENAI_ORG_ID"
	EnvModel    = "DALLE_MCP_MODEL"
	EnvLogLevel = "DALLE_MCP_LOG_LEVEL"
	EnvInspect  = "DALLE_MCP_INSPECT"
)

// DefaultModel is the image model used when DALLE_MCP_MODEL is unset.
const DefaultModel = openai.CreateImageModelDallE2

// ErrMissingAPIKey is returned when OPENAI_API_KEY is unset or empty.
var ErrMissingAPIKey = errors.New(EnvAPIKey + " environment variable is required")

// Config holds everything the server needs at startup.
type Config struct {
	APIKey   string
	BaseURL  string
	OrgID    string
	Model    string
	LogLevel slog.Level

	// Inspect enables downloading each generated image to report its
	// dimensions and palette.
	Inspect bool
}

// Load reads an optional .env file from the working directory and then
// builds a Config from the environment. Variables already set in the
// environment take precedence over .env entries.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config using lookup to resolve variables.
func FromLookup(lookup func(string) (string, bool)) (*Config, error) {
	get := func(key string) string {
		v, _ := lookup(key)
		return v
	}

	cfg := &Config{
		APIKey:  get(EnvAPIKey),
		BaseURL: get(EnvBaseURL),
		OrgID:   get(EnvOrgID),
		Model:   get(EnvModel),
	}
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	level, err := log.ParseLevel(get(EnvLogLevel))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", EnvLogLevel, err)
	}
	cfg.LogLevel = level

	if raw := get(EnvInspect); raw != "" {
		inspect, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid boolean %q", EnvInspect, raw)
		}
		cfg.Inspect = inspect
	}

	return cfg, nil
}

// OpenAIConfig returns the client configuration for the image API.
func (c *Config) OpenAIConfig() openai.ClientConfig {
	clientConfig := openai.DefaultConfig(c.APIKey)
	if c.BaseURL != "" {
		clientConfig.BaseURL = c.BaseURL
	}
	if c.OrgID != "" {
		clientConfig.OrgID = c.OrgID
	}
	return clientConfig
}
