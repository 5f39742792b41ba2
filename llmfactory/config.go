// Package llmfactory creates configured model clients from a providers
// config file.
package llmfactory

import (
	"slices"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/x/configloader"
	"github.com/go-playground/validator/v10"
)

// Config describes the configured model providers.
type Config struct {
	// Providers specifies the list of providers to use
	Providers []*ProviderConfig `json:"providers" yaml:"providers" validate:"required,min=1,dive"`
	// DefaultProvider specifies the name of the default provider
	DefaultProvider string `json:"default_provider,omitempty" yaml:"default_provider,omitempty"`
}

// ProviderConfig describes one model provider.
type ProviderConfig struct {
	// Name identifies the provider in the config.
	Name string `json:"name" yaml:"name" validate:"required"`
	// Provider specifies the type of the provider: OPENAI|AZURE|ANTHROPIC
	Provider string `json:"provider" yaml:"provider" validate:"required,oneof=OPENAI AZURE ANTHROPIC"`
	// Token is the API key. Environment variables in the config file are
	// expanded, so it is typically set to ${OPENAI_API_KEY} or similar.
	Token string `json:"token,omitempty" yaml:"token,omitempty"`
	// BaseURL overrides the API endpoint, for Azure or proxies.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	// DefaultModel is used when no preferred model matches.
	DefaultModel string `json:"default_model,omitempty" yaml:"default_model,omitempty"`
	// AvailableModels lists the models this provider may serve.
	AvailableModels []string `json:"available_models,omitempty" yaml:"available_models,omitempty"`
	// EmbeddingModel is used for embedding requests.
	EmbeddingModel string `json:"embedding_model,omitempty" yaml:"embedding_model,omitempty"`
}

// FindModel returns the first preferred model this provider serves, or the
// default model.
func (c *ProviderConfig) FindModel(models ...string) string {
	for _, model := range models {
		if slices.Contains(c.AvailableModels, model) {
			return model
		}
	}
	return c.DefaultModel
}

// LoadConfig loads and validates the config from a yaml, json or toml file,
// expanding environment variables.
func LoadConfig(file string) (*Config, error) {
	cfg := new(Config)
	if file == "" {
		return cfg, nil
	}

	if err := configloader.UnmarshalAndExpand(file, cfg); err != nil {
		return nil, err
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, errors.WithMessage(err, "invalid providers config")
	}
	return cfg, nil
}
