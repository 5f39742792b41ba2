// Package store persists chat history, scoped by the tenant and chat IDs
// carried in the context.
package store

import (
	"context"

	"github.com/effective-security/agentchain/pkg/llms"
)

// MessageStore persists a conversation transcript.
type MessageStore interface {
	Messages(ctx context.Context) []llms.Message
	Add(ctx context.Context, msgs ...llms.Message) error
	Reset(ctx context.Context) error
}

// ChatLister lists the chat IDs stored for a tenant. Stores that track
// per-tenant chat sets implement it in addition to MessageStore.
type ChatLister interface {
	ListChats(ctx context.Context, tenantID string) ([]string, error)
}

// DefaultMaxMessages caps the stored history per chat.
const DefaultMaxMessages = 50

// messageModel is the serialized form of a message. Interface-typed content
// parts are flattened into the fields a transcript needs.
type messageModel struct {
	Role      llms.Role       `json:"role"`
	Content   string          `json:"content,omitempty"`
	ToolCalls []toolCallModel `json:"tool_calls,omitempty"`
	ToolID    string          `json:"tool_id,omitempty"`
	ToolName  string          `json:"tool_name,omitempty"`
}

type toolCallModel struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

func toModel(msg llms.Message) messageModel {
	m := messageModel{Role: msg.Role}
	for _, part := range msg.Parts {
		switch p := part.(type) {
		case llms.TextContent:
			m.Content += p.Text
		case llms.ToolCall:
			m.ToolCalls = append(m.ToolCalls, toolCallModel{
				ID:        p.ID,
				Name:      p.FunctionCall.Name,
				Arguments: p.FunctionCall.Arguments,
			})
		case llms.ToolCallResponse:
			m.ToolID = p.ToolCallID
			m.ToolName = p.Name
			m.Content = p.Content
		}
	}
	return m
}

func fromModel(m messageModel) llms.Message {
	switch {
	case len(m.ToolCalls) > 0:
		calls := make([]llms.ToolCall, 0, len(m.ToolCalls))
		for _, tc := range m.ToolCalls {
			calls = append(calls, llms.ToolCall{
				ID:   tc.ID,
				Type: "function",
				FunctionCall: &llms.FunctionCall{
					Name:      tc.Name,
					Arguments: tc.Arguments,
				},
			})
		}
		return llms.MessageFromToolCalls(m.Role, calls...)
	case m.Role == llms.RoleTool:
		return llms.MessageFromToolResponse(m.Role, llms.ToolCallResponse{
			ToolCallID: m.ToolID,
			Name:       m.ToolName,
			Content:    m.Content,
		})
	default:
		return llms.MessageFromTextParts(m.Role, m.Content)
	}
}
