// Package fake provides a scripted model for tests: it replies with a fixed
// sequence of responses and records every prompt it receives.
package fake

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/agentchain/pkg/llms"
)

// ErrOutOfResponses is returned when the script is exhausted.
var ErrOutOfResponses = errors.New("fake: no more scripted responses")

// LLM is a scripted model. Responses are returned in order; a response may be
// a plain string or a *llms.ContentResponse for tool-call scripting.
type LLM struct {
	mu        sync.Mutex
	responses []any
	i         int
	calls     [][]llms.Message
	err       error
}

var _ llms.Model = (*LLM)(nil)

// New creates a fake model that replies with the given strings in order.
func New(responses ...string) *LLM {
	scripted := make([]any, len(responses))
	for i, r := range responses {
		scripted[i] = r
	}
	return &LLM{responses: scripted}
}

// NewWithResponses creates a fake model from pre-built content responses.
func NewWithResponses(responses ...*llms.ContentResponse) *LLM {
	scripted := make([]any, len(responses))
	for i, r := range responses {
		scripted[i] = r
	}
	return &LLM{responses: scripted}
}

// WithError makes every call fail with the given error.
func (f *LLM) WithError(err error) *LLM {
	f.err = err
	return f
}

// GetProviderType implements the Model interface.
func (f *LLM) GetProviderType() llms.ProviderType {
	return llms.ProviderFake
}

// GetName implements the Model interface.
func (f *LLM) GetName() string {
	return "fake-list"
}

// GenerateContent implements the Model interface.
func (f *LLM) GenerateContent(ctx context.Context, messages []llms.Message, options ...llms.CallOption) (*llms.ContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	recorded := make([]llms.Message, len(messages))
	copy(recorded, messages)
	f.calls = append(f.calls, recorded)

	if f.err != nil {
		return nil, f.err
	}
	if f.i >= len(f.responses) {
		return nil, errors.WithStack(ErrOutOfResponses)
	}
	resp := f.responses[f.i]
	f.i++

	switch r := resp.(type) {
	case string:
		return &llms.ContentResponse{
			Choices: []*llms.ContentChoice{{Content: r}},
		}, nil
	case *llms.ContentResponse:
		return r, nil
	}
	return nil, errors.Newf("fake: unsupported scripted response type %T", resp)
}

// Calls returns the recorded message transcripts, one per GenerateContent call.
func (f *LLM) Calls() [][]llms.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// CallCount returns the number of GenerateContent calls made.
func (f *LLM) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}
