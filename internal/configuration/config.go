// Package configuration loads process configuration from the environment
// with sensible local-development defaults.
package configuration

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/ahrav/rai-eval/internal/llm"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Config is the process configuration shared by the API and worker
// binaries.
type Config struct {
	// HTTPAddr is the API listen address.
	HTTPAddr string `validate:"required"`

	// DBPath is the sqlite database file.
	DBPath string `validate:"required"`

	TemporalHostPort  string `validate:"required"`
	TemporalNamespace string `validate:"required"`

	// ModelEndpoint is the provider base URL. When unset, it is derived
	// from ModelRegion the way the runtime endpoints are laid out.
	ModelEndpoint string `validate:"required,url"`
	ModelRegion   string
	ModelAPIKey   string
	ModelID       string `validate:"required"`
}

// Default returns local-development defaults.
func Default() *Config {
	return &Config{
		HTTPAddr:          ":8080",
		DBPath:            "data/rai-eval.db",
		TemporalHostPort:  "localhost:7233",
		TemporalNamespace: "default",
		ModelRegion:       "us-east-1",
		ModelID:           llm.DefaultModel,
	}
}

// FromEnv builds a Config from defaults overridden by environment
// variables, then validates it.
func FromEnv() (*Config, error) {
	cfg := Default()

	overlay(&cfg.HTTPAddr, "RAI_HTTP_ADDR")
	overlay(&cfg.DBPath, "RAI_DB_PATH")
	overlay(&cfg.TemporalHostPort, "TEMPORAL_HOSTPORT")
	overlay(&cfg.TemporalNamespace, "TEMPORAL_NAMESPACE")
	overlay(&cfg.ModelEndpoint, "MODEL_ENDPOINT")
	overlay(&cfg.ModelRegion, "AWS_REGION")
	overlay(&cfg.ModelAPIKey, "MODEL_API_KEY")
	overlay(&cfg.ModelID, "MODEL_ID")

	if cfg.ModelEndpoint == "" && cfg.ModelRegion != "" {
		cfg.ModelEndpoint = fmt.Sprintf("https://bedrock-runtime.%s.amazonaws.com", cfg.ModelRegion)
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// LLM derives the model client configuration.
func (c *Config) LLM() *llm.Config {
	cfg := llm.DefaultConfig()
	cfg.Endpoint = c.ModelEndpoint
	cfg.APIKey = c.ModelAPIKey
	cfg.Model = c.ModelID
	return cfg
}

func overlay(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
