package openai

import "net/http"

// TokenEnvVarName is the environment variable the API key is read from.
const TokenEnvVarName = "OPENAI_API_KEY" //nolint:gosec

const (
	// DefaultModel is used when no model is configured.
	DefaultModel = "gpt-4o"
	// DefaultEmbeddingModel is used when no embedding model is configured.
	DefaultEmbeddingModel = "text-embedding-3-small"
)

// Options for the OpenAI client.
type Options struct {
	Token          string
	Model          string
	EmbeddingModel string
	BaseURL        string
	Organization   string
	HttpClient     *http.Client
}

// Option is a functional option for the OpenAI client.
type Option func(*Options)

// WithToken passes the API token.
func WithToken(token string) Option {
	return func(opts *Options) {
		opts.Token = token
	}
}

// WithModel passes the model to the client.
func WithModel(model string) Option {
	return func(opts *Options) {
		opts.Model = model
	}
}

// WithEmbeddingModel passes the embedding model to the client.
func WithEmbeddingModel(model string) Option {
	return func(opts *Options) {
		opts.EmbeddingModel = model
	}
}

// WithBaseURL passes a custom API endpoint, for Azure or proxies.
func WithBaseURL(baseURL string) Option {
	return func(opts *Options) {
		opts.BaseURL = baseURL
	}
}

// WithOrganization sets the org to bill quota against.
func WithOrganization(org string) Option {
	return func(opts *Options) {
		opts.Organization = org
	}
}

// WithHTTPClient allows setting a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(opts *Options) {
		opts.HttpClient = client
	}
}
