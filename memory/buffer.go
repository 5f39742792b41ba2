package memory

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/agentchain/pkg/llms"
	"github.com/effective-security/agentchain/schema"
	"github.com/effective-security/agentchain/store"
)

// ErrInvalidInputValues is returned when the buffer cannot find a single
// string input or output to persist.
var ErrInvalidInputValues = errors.New("memory: expected a single string value")

// ConversationBuffer keeps the raw conversation in a message store and
// exposes it to chains as a prompt variable.
type ConversationBuffer struct {
	Store store.MessageStore

	MemoryKey      string
	HumanPrefix    string
	AIPrefix       string
	InputKey       string
	OutputKey      string
	ReturnMessages bool
}

var _ schema.Memory = (*ConversationBuffer)(nil)

// BufferOption configures a ConversationBuffer.
type BufferOption func(*ConversationBuffer)

// WithMemoryKey sets the variable name the history is loaded under.
func WithMemoryKey(key string) BufferOption {
	return func(b *ConversationBuffer) {
		b.MemoryKey = key
	}
}

// WithInputKey sets the input key to persist when a chain has several inputs.
func WithInputKey(key string) BufferOption {
	return func(b *ConversationBuffer) {
		b.InputKey = key
	}
}

// WithOutputKey sets the output key to persist when a chain has several outputs.
func WithOutputKey(key string) BufferOption {
	return func(b *ConversationBuffer) {
		b.OutputKey = key
	}
}

// WithReturnMessages makes the buffer load the history as a message list
// instead of formatted text.
func WithReturnMessages(ret bool) BufferOption {
	return func(b *ConversationBuffer) {
		b.ReturnMessages = ret
	}
}

// WithHumanPrefix sets the label used for human turns in formatted history.
func WithHumanPrefix(prefix string) BufferOption {
	return func(b *ConversationBuffer) {
		b.HumanPrefix = prefix
	}
}

// WithAIPrefix sets the label used for model turns in formatted history.
func WithAIPrefix(prefix string) BufferOption {
	return func(b *ConversationBuffer) {
		b.AIPrefix = prefix
	}
}

// NewConversationBuffer creates a buffer over the given message store.
func NewConversationBuffer(s store.MessageStore, opts ...BufferOption) *ConversationBuffer {
	b := &ConversationBuffer{
		Store:       s,
		MemoryKey:   "history",
		HumanPrefix: "Human",
		AIPrefix:    "AI",
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *ConversationBuffer) MemoryVariables(context.Context) []string {
	return []string{b.MemoryKey}
}

func (b *ConversationBuffer) LoadMemoryVariables(ctx context.Context, _ map[string]any) (map[string]any, error) {
	messages := b.Store.Messages(ctx)
	if b.ReturnMessages {
		return map[string]any{b.MemoryKey: messages}, nil
	}
	return map[string]any{b.MemoryKey: b.formatMessages(messages)}, nil
}

func (b *ConversationBuffer) formatMessages(messages []llms.Message) string {
	var sb strings.Builder
	for i, msg := range messages {
		if i > 0 {
			sb.WriteString("\n")
		}
		switch msg.Role {
		case llms.RoleHuman:
			sb.WriteString(b.HumanPrefix)
		case llms.RoleAI:
			sb.WriteString(b.AIPrefix)
		default:
			sb.WriteString(string(msg.Role))
		}
		sb.WriteString(": ")
		sb.WriteString(msg.GetContent())
	}
	return sb.String()
}

func (b *ConversationBuffer) SaveContext(ctx context.Context, inputs map[string]any, outputs map[string]any) error {
	input, err := singleStringValue(inputs, b.InputKey)
	if err != nil {
		return err
	}
	output, err := singleStringValue(outputs, b.OutputKey)
	if err != nil {
		return err
	}
	return b.Store.Add(ctx,
		llms.MessageFromTextParts(llms.RoleHuman, input),
		llms.MessageFromTextParts(llms.RoleAI, output),
	)
}

func (b *ConversationBuffer) Clear(ctx context.Context) error {
	return b.Store.Reset(ctx)
}

func singleStringValue(values map[string]any, key string) (string, error) {
	if key != "" {
		v, ok := values[key].(string)
		if !ok {
			return "", errors.WithMessagef(ErrInvalidInputValues, "key %q", key)
		}
		return v, nil
	}
	if len(values) != 1 {
		return "", errors.WithMessagef(ErrInvalidInputValues, "got %d values", len(values))
	}
	for _, value := range values {
		v, ok := value.(string)
		if !ok {
			return "", errors.WithStack(ErrInvalidInputValues)
		}
		return v, nil
	}
	return "", errors.WithStack(ErrInvalidInputValues)
}
