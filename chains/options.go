package chains

import (
	"context"

	"github.com/effective-security/agentchain/callbacks"
	"github.com/effective-security/agentchain/pkg/llms"
)

// Option configures a single chain call.
type Option func(*callConfig)

type callConfig struct {
	// CallOptions are forwarded to the model.
	CallOptions []llms.CallOption

	// CallbackHandler receives chain and model events.
	CallbackHandler callbacks.Handler
}

func applyOptions(options ...Option) *callConfig {
	cfg := &callConfig{}
	for _, opt := range options {
		opt(cfg)
	}
	return cfg
}

// WithModel specifies which model name to use.
func WithModel(model string) Option {
	return withCallOption(llms.WithModel(model))
}

// WithMaxTokens specifies the max number of tokens to generate.
func WithMaxTokens(maxTokens int) Option {
	return withCallOption(llms.WithMaxTokens(maxTokens))
}

// WithTemperature specifies the model temperature.
func WithTemperature(temperature float64) Option {
	return withCallOption(llms.WithTemperature(temperature))
}

// WithStopWords specifies a list of words to stop generation on.
func WithStopWords(stopWords []string) Option {
	return withCallOption(llms.WithStopWords(stopWords))
}

// WithSeed specifies a seed for deterministic sampling.
func WithSeed(seed int) Option {
	return withCallOption(llms.WithSeed(seed))
}

// WithStreamingFunc specifies the streaming function to use.
func WithStreamingFunc(fn func(ctx context.Context, chunk []byte) error) Option {
	return withCallOption(llms.WithStreamingFunc(fn))
}

// WithCallback specifies the callback handler for chain and model events.
func WithCallback(handler callbacks.Handler) Option {
	return func(cfg *callConfig) {
		cfg.CallbackHandler = handler
	}
}

func withCallOption(opt llms.CallOption) Option {
	return func(cfg *callConfig) {
		cfg.CallOptions = append(cfg.CallOptions, opt)
	}
}

// getCallCallOptions returns the model call options from chain options.
func getCallCallOptions(options ...Option) []llms.CallOption {
	return applyOptions(options...).CallOptions
}
