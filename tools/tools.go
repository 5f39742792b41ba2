// Package tools defines the tool abstraction agents use to interact with
// the outside world, and a registry to load tools by name.
package tools

import (
	"context"

	"github.com/effective-security/agentchain/pkg/llmutils"
)

// ITool is a tool for the llm agent to interact with different applications.
type ITool interface {
	// Name returns the name of the Tool.
	Name() string
	// Description returns the description of the tool, to be used in the prompt.
	// Should not exceed LLM model limit.
	Description() string
	// Parameters returns the parameters definition of the function, to be used in the prompt.
	Parameters() any

	// Call executes the tool with the given input and returns the result.
	// If the tool fails to parse the input, it should return ErrFailedUnmarshalInput.
	Call(context.Context, string) (string, error)
}

// Callback receives tool lifecycle events.
type Callback interface {
	OnToolStart(context.Context, ITool, string)
	OnToolEnd(context.Context, ITool, string, string)
	OnToolError(context.Context, ITool, string, error)
}

// Tool is a typed tool with a structured request and response.
type Tool[I any, O any] interface {
	ITool
	Run(context.Context, *I) (*O, error)
}

type toolDescription struct {
	Name        string `json:"Name" yaml:"Name"`
	Description string `json:"Description" yaml:"Description"`
}

type toolsDescription struct {
	Tools []toolDescription `json:"Tools" yaml:"Tools"`
}

// GetDescriptions renders the name/description block for a prompt.
func GetDescriptions(list ...ITool) string {
	var d toolsDescription
	for _, tool := range list {
		d.Tools = append(d.Tools, toolDescription{
			Name:        tool.Name(),
			Description: tool.Description(),
		})
	}
	return llmutils.BackticksJSON(llmutils.ToJSONIndent(d))
}
