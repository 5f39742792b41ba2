// Package chatmodel carries per-conversation identity through context,
// so stores can scope chat history by tenant and chat.
package chatmodel

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

// ErrInvalidChatContext is returned when the context does not carry chat identity.
var ErrInvalidChatContext = errors.New("invalid chat context")

// ChatContext is the conversation identity carried in context.
type ChatContext interface {
	GetTenantID() string
	GetChatID() string
	// AppData returns immutable app data.
	AppData() any
}

type chatContext struct {
	tenantID string
	chatID   string
	appData  any
}

func (c *chatContext) GetTenantID() string { return c.tenantID }
func (c *chatContext) GetChatID() string   { return c.chatID }
func (c *chatContext) AppData() any        { return c.appData }

// NewChatContext creates a ChatContext. Empty IDs are generated.
func NewChatContext(tenantID, chatID string, appData any) ChatContext {
	if tenantID == "" {
		tenantID = "default"
	}
	if chatID == "" {
		chatID = NewChatID()
	}
	return &chatContext{
		tenantID: tenantID,
		chatID:   chatID,
		appData:  appData,
	}
}

type contextKey int

const (
	keyContext contextKey = iota
)

// WithChatContext returns a new context with ChatContext value.
func WithChatContext(ctx context.Context, chatCtx ChatContext) context.Context {
	return context.WithValue(ctx, keyContext, chatCtx)
}

// GetChatContext retrieves the ChatContext from the context, or nil.
func GetChatContext(ctx context.Context) ChatContext {
	if v, ok := ctx.Value(keyContext).(ChatContext); ok {
		return v
	}
	return nil
}

// SetChatID returns a context carrying the given chat ID under the default tenant.
func SetChatID(ctx context.Context, chatID string) (context.Context, error) {
	if chatID == "" {
		return ctx, errors.WithStack(ErrInvalidChatContext)
	}
	return WithChatContext(ctx, NewChatContext("", chatID, nil)), nil
}

// GetTenantAndChatID retrieves the tenant and chat IDs from the provided
// context, or ErrInvalidChatContext when the context has no chat identity.
func GetTenantAndChatID(ctx context.Context) (tenantID, chatID string, err error) {
	v := GetChatContext(ctx)
	if v == nil {
		return "", "", errors.WithStack(ErrInvalidChatContext)
	}
	return v.GetTenantID(), v.GetChatID(), nil
}

// NewChatID generates a new chat ID.
func NewChatID() string {
	return uuid.NewString()
}
