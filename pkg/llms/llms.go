package llms

import (
	"context"

	"github.com/cockroachdb/errors"
)

// ProviderType is the type of provider.
type ProviderType string

const (
	// ProviderAnthropic is the type of provider.
	ProviderAnthropic ProviderType = "ANTHROPIC"
	// ProviderOpenAI is the type of provider.
	ProviderOpenAI ProviderType = "OPENAI"
	// ProviderAzure is the type of provider.
	ProviderAzure ProviderType = "AZURE"
	// ProviderFake is a scripted provider used in tests.
	ProviderFake ProviderType = "FAKE"
)

// Model is an interface chat models implement.
type Model interface {
	// GetProviderType returns the type of provider.
	GetProviderType() ProviderType
	// GetName returns the model name.
	GetName() string
	// GenerateContent asks the model to generate content from a sequence of
	// messages. It's the most general interface for LLMs that support
	// chat-like interactions.
	GenerateContent(ctx context.Context, messages []Message, options ...CallOption) (*ContentResponse, error)
}

// Capability is a bitmask indicating supported features of an LLM provider.
type Capability uint64

const (
	// CapabilityText is basic text or chat generation.
	CapabilityText Capability = 1 << iota

	// Structured response formats
	CapabilityJSONResponse
	CapabilityJSONSchema

	// Function/tool calling
	CapabilityFunctionCalling
	CapabilityMultiToolCalling

	// System prompt support
	CapabilitySystemPrompt
)

var providerCapabilities = map[ProviderType]Capability{
	ProviderOpenAI: CapabilityText |
		CapabilityJSONResponse |
		CapabilityJSONSchema |
		CapabilityFunctionCalling |
		CapabilityMultiToolCalling |
		CapabilitySystemPrompt,

	ProviderAnthropic: CapabilityText |
		CapabilityJSONResponse |
		CapabilityFunctionCalling |
		CapabilityMultiToolCalling |
		CapabilitySystemPrompt,

	ProviderAzure: CapabilityText |
		CapabilityJSONResponse |
		CapabilityJSONSchema |
		CapabilityFunctionCalling |
		CapabilityMultiToolCalling |
		CapabilitySystemPrompt,

	ProviderFake: CapabilityText |
		CapabilityFunctionCalling |
		CapabilityMultiToolCalling |
		CapabilitySystemPrompt,
}

// Supports reports whether the provider advertises the given capability.
func (pt ProviderType) Supports(c Capability) bool {
	return providerCapabilities[pt]&c == c
}

// ProviderCapabilities returns the capability mask for a provider.
func ProviderCapabilities(pt ProviderType) Capability {
	return providerCapabilities[pt]
}

// GenerateFromSinglePrompt is a convenience function for calling an LLM with
// a single string prompt, expecting a single string response. It's useful for
// simple, string-only interactions and provides a slightly more ergonomic API
// than the more general Model.GenerateContent.
func GenerateFromSinglePrompt(ctx context.Context, llm Model, prompt string, options ...CallOption) (string, error) {
	msg := MessageFromTextParts(RoleHuman, prompt)

	resp, err := llm.GenerateContent(ctx, []Message{msg}, options...)
	if err != nil {
		return "", err
	}
	choices := resp.Choices
	if len(choices) < 1 {
		return "", errors.New("empty response from model")
	}
	return choices[0].Content, nil
}

// PromptValue is the interface that all prompt values must implement.
type PromptValue interface {
	String() string
	Messages() []Message
}
