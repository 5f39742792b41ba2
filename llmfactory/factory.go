package llmfactory

import (
	"slices"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/agentchain/pkg/llms"
	"github.com/effective-security/agentchain/pkg/llms/anthropic"
	"github.com/effective-security/agentchain/pkg/llms/openai"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/agentchain", "llmfactory")

// NewLLM is a wrapper for CreateLLM to allow for overriding the default implementation.
var NewLLM = CreateLLM

// Factory creates and caches model clients from the config.
type Factory interface {
	// DefaultModel returns a model from the default provider.
	DefaultModel() (llms.Model, error)
	// ModelByName returns the first preferred model served by a configured
	// provider. It errors when no provider serves any of the models.
	ModelByName(preferredModels ...string) (llms.Model, error)
}

// Load creates a factory from a config file.
func Load(location string) (Factory, error) {
	cfg, err := LoadConfig(location)
	if err != nil {
		return nil, err
	}
	return New(cfg), nil
}

type factory struct {
	cfg *Config

	defaultProvider *ProviderConfig

	lock   sync.Mutex
	byName map[string]llms.Model
}

// New creates a factory over the config.
func New(cfg *Config) Factory {
	f := &factory{
		cfg:    cfg,
		byName: make(map[string]llms.Model),
	}

	if cfg.DefaultProvider != "" {
		for _, provider := range cfg.Providers {
			if provider.Name == cfg.DefaultProvider {
				f.defaultProvider = provider
				break
			}
		}
	}
	if f.defaultProvider == nil && len(cfg.Providers) > 0 {
		f.defaultProvider = cfg.Providers[0]
	}
	return f
}

func (f *factory) DefaultModel() (llms.Model, error) {
	if f.defaultProvider == nil {
		return nil, errors.New("llmfactory: no providers configured")
	}
	return f.model(f.defaultProvider)
}

func (f *factory) ModelByName(preferredModels ...string) (llms.Model, error) {
	for _, model := range preferredModels {
		for _, provider := range f.cfg.Providers {
			if slices.Contains(provider.AvailableModels, model) {
				return f.model(provider, model)
			}
		}
	}
	logger.KV(xlog.DEBUG,
		"reason", "no_provider_serves_models",
		"models", strings.Join(preferredModels, ","),
	)
	return nil, errors.Newf("llmfactory: no provider serves models: %s", strings.Join(preferredModels, ","))
}

func (f *factory) model(cfg *ProviderConfig, preferredModels ...string) (llms.Model, error) {
	model := cfg.FindModel(preferredModels...)

	f.lock.Lock()
	defer f.lock.Unlock()

	key := cfg.Name + "/" + model
	if m, ok := f.byName[key]; ok {
		return m, nil
	}
	m, err := NewLLM(cfg, preferredModels...)
	if err != nil {
		return nil, err
	}
	f.byName[key] = m
	return m, nil
}

// CreateLLM creates a model client for the provider config.
func CreateLLM(cfg *ProviderConfig, preferredModels ...string) (llms.Model, error) {
	switch strings.ToUpper(cfg.Provider) {
	case "OPENAI", "AZURE":
		return newOpenAI(cfg, preferredModels...)
	case "ANTHROPIC":
		return newAnthropic(cfg, preferredModels...)
	}
	return nil, errors.Newf("llmfactory: unsupported provider type: %s", cfg.Provider)
}

func newOpenAI(cfg *ProviderConfig, preferredModels ...string) (llms.Model, error) {
	opts := []openai.Option{
		openai.WithModel(cfg.FindModel(preferredModels...)),
	}
	if cfg.Token != "" {
		opts = append(opts, openai.WithToken(cfg.Token))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	if cfg.EmbeddingModel != "" {
		opts = append(opts, openai.WithEmbeddingModel(cfg.EmbeddingModel))
	}
	return openai.New(opts...)
}

func newAnthropic(cfg *ProviderConfig, preferredModels ...string) (llms.Model, error) {
	opts := []anthropic.Option{
		anthropic.WithModel(cfg.FindModel(preferredModels...)),
	}
	if cfg.Token != "" {
		opts = append(opts, anthropic.WithToken(cfg.Token))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(cfg.BaseURL))
	}
	return anthropic.New(opts...)
}
