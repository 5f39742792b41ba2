package prompts

import (
	"github.com/cockroachdb/errors"
	"github.com/effective-security/agentchain/pkg/llms"
)

// MessageFormatter is a formatter for a single chat message template.
type MessageFormatter interface {
	FormatMessages(values map[string]any) ([]llms.Message, error)
	GetInputVariables() []string
}

// SystemMessagePromptTemplate is a message formatter that returns a system message.
type SystemMessagePromptTemplate struct {
	Prompt PromptTemplate
}

// HumanMessagePromptTemplate is a message formatter that returns a human message.
type HumanMessagePromptTemplate struct {
	Prompt PromptTemplate
}

// AIMessagePromptTemplate is a message formatter that returns an AI message.
type AIMessagePromptTemplate struct {
	Prompt PromptTemplate
}

var (
	_ MessageFormatter = SystemMessagePromptTemplate{}
	_ MessageFormatter = HumanMessagePromptTemplate{}
	_ MessageFormatter = AIMessagePromptTemplate{}
)

// NewSystemMessagePromptTemplate creates a new system message prompt template.
func NewSystemMessagePromptTemplate(template string, inputVariables []string) SystemMessagePromptTemplate {
	return SystemMessagePromptTemplate{
		Prompt: NewPromptTemplate(template, inputVariables),
	}
}

// NewHumanMessagePromptTemplate creates a new human message prompt template.
func NewHumanMessagePromptTemplate(template string, inputVariables []string) HumanMessagePromptTemplate {
	return HumanMessagePromptTemplate{
		Prompt: NewPromptTemplate(template, inputVariables),
	}
}

// NewAIMessagePromptTemplate creates a new AI message prompt template.
func NewAIMessagePromptTemplate(template string, inputVariables []string) AIMessagePromptTemplate {
	return AIMessagePromptTemplate{
		Prompt: NewPromptTemplate(template, inputVariables),
	}
}

func (p SystemMessagePromptTemplate) FormatMessages(values map[string]any) ([]llms.Message, error) {
	text, err := p.Prompt.Format(values)
	return []llms.Message{llms.MessageFromTextParts(llms.RoleSystem, text)}, err
}

func (p SystemMessagePromptTemplate) GetInputVariables() []string {
	return p.Prompt.GetInputVariables()
}

func (p HumanMessagePromptTemplate) FormatMessages(values map[string]any) ([]llms.Message, error) {
	text, err := p.Prompt.Format(values)
	return []llms.Message{llms.MessageFromTextParts(llms.RoleHuman, text)}, err
}

func (p HumanMessagePromptTemplate) GetInputVariables() []string {
	return p.Prompt.GetInputVariables()
}

func (p AIMessagePromptTemplate) FormatMessages(values map[string]any) ([]llms.Message, error) {
	text, err := p.Prompt.Format(values)
	return []llms.Message{llms.MessageFromTextParts(llms.RoleAI, text)}, err
}

func (p AIMessagePromptTemplate) GetInputVariables() []string {
	return p.Prompt.GetInputVariables()
}

// MessagesPlaceholder is a message formatter that expands to the messages
// passed under its variable name, typically the chat history.
type MessagesPlaceholder struct {
	VariableName string
}

func (p MessagesPlaceholder) FormatMessages(values map[string]any) ([]llms.Message, error) {
	value, ok := values[p.VariableName]
	if !ok {
		return nil, errors.WithMessagef(ErrNeedsInput, "%q", p.VariableName)
	}
	messages, ok := value.([]llms.Message)
	if !ok {
		return nil, errors.WithMessagef(ErrNeedChatMessageList, "%q", p.VariableName)
	}
	return messages, nil
}

func (p MessagesPlaceholder) GetInputVariables() []string {
	return []string{p.VariableName}
}

// ChatPromptTemplate is a prompt template for chat messages.
type ChatPromptTemplate struct {
	// Messages is the list of the message formatters.
	Messages []MessageFormatter
}

var _ FormatPrompter = ChatPromptTemplate{}

// NewChatPromptTemplate creates a new chat prompt template from a list of
// message formatters.
func NewChatPromptTemplate(messages []MessageFormatter) ChatPromptTemplate {
	return ChatPromptTemplate{Messages: messages}
}

// FormatPrompt formats the messages into a chat prompt value.
func (p ChatPromptTemplate) FormatPrompt(values map[string]any) (llms.PromptValue, error) {
	var formatted []llms.Message
	for _, m := range p.Messages {
		msgs, err := m.FormatMessages(values)
		if err != nil {
			return nil, err
		}
		formatted = append(formatted, msgs...)
	}
	return ChatPromptValue(formatted), nil
}

// FormatMessages formats the messages with the values given.
func (p ChatPromptTemplate) FormatMessages(values map[string]any) ([]llms.Message, error) {
	pv, err := p.FormatPrompt(values)
	if err != nil {
		return nil, err
	}
	return pv.Messages(), nil
}

// GetInputVariables returns the union of the input variables of all messages.
func (p ChatPromptTemplate) GetInputVariables() []string {
	seen := map[string]struct{}{}
	var vars []string
	for _, m := range p.Messages {
		for _, v := range m.GetInputVariables() {
			if _, ok := seen[v]; !ok {
				seen[v] = struct{}{}
				vars = append(vars, v)
			}
		}
	}
	return vars
}
