// Package prompts provides prompt templates: parameterized text rendered
// into prompt values that can be sent to a model either as a single string
// or as a list of chat messages.
package prompts

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/agentchain/pkg/llms"
	"github.com/effective-security/agentchain/pkg/llmutils"
)

var (
	// ErrInputVariableReserved is returned when a reserved variable name is used.
	ErrInputVariableReserved = errors.New("prompts: input variable name is reserved")
	// ErrNeedChatMessageList is returned when the prompt value cannot produce messages.
	ErrNeedChatMessageList = errors.New("prompts: value must be a list of chat messages")
)

// FormatPrompter renders a prompt value from the given inputs.
type FormatPrompter interface {
	FormatPrompt(values map[string]any) (llms.PromptValue, error)
	GetInputVariables() []string
}

// Formatter renders a string from the given inputs.
type Formatter interface {
	Format(values map[string]any) (string, error)
}

// StringPromptValue is a prompt value that is a string.
type StringPromptValue string

var _ llms.PromptValue = StringPromptValue("")

func (v StringPromptValue) String() string {
	return string(v)
}

// Messages returns the prompt as a single human message.
func (v StringPromptValue) Messages() []llms.Message {
	return []llms.Message{
		llms.MessageFromTextParts(llms.RoleHuman, string(v)),
	}
}

// ChatPromptValue is a prompt value that is a list of chat messages.
type ChatPromptValue []llms.Message

var _ llms.PromptValue = ChatPromptValue{}

// String returns the chat message slice as a buffer string.
func (v ChatPromptValue) String() string {
	var buf strings.Builder
	llmutils.PrintMessages(&buf, v)
	return buf.String()
}

// Messages returns the ChatMessage slice.
func (v ChatPromptValue) Messages() []llms.Message {
	return v
}
