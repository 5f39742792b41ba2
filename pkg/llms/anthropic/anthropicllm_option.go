package anthropic

import "net/http"

// TokenEnvVarName is the environment variable the API key is read from.
const TokenEnvVarName = "ANTHROPIC_API_KEY" //nolint:gosec

// Options for the Anthropic client.
type Options struct {
	Token      string
	Model      string
	BaseURL    string
	HttpClient *http.Client
}

// Option is a functional option for the Anthropic client.
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

// WithBaseURL passes a custom API endpoint.
func WithBaseURL(baseURL string) Option {
	return func(opts *Options) {
		opts.BaseURL = baseURL
	}
}

// WithHTTPClient allows setting a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(opts *Options) {
		opts.HttpClient = client
	}
}
