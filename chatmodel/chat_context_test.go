package chatmodel_test

import (
	"testing"

	"github.com/effective-security/agentchain/chatmodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ChatContext(t *testing.T) {
	chatCtx := chatmodel.NewChatContext("tenant-1", "chat-1", map[string]string{"k": "v"})
	assert.Equal(t, "tenant-1", chatCtx.GetTenantID())
	assert.Equal(t, "chat-1", chatCtx.GetChatID())
	assert.NotNil(t, chatCtx.AppData())

	ctx := chatmodel.WithChatContext(t.Context(), chatCtx)
	assert.Equal(t, chatCtx, chatmodel.GetChatContext(ctx))

	tenantID, chatID, err := chatmodel.GetTenantAndChatID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tenant-1", tenantID)
	assert.Equal(t, "chat-1", chatID)
}

func Test_ChatContext_Defaults(t *testing.T) {
	chatCtx := chatmodel.NewChatContext("", "", nil)
	assert.Equal(t, "default", chatCtx.GetTenantID())
	assert.NotEmpty(t, chatCtx.GetChatID())

	other := chatmodel.NewChatContext("", "", nil)
	assert.NotEqual(t, chatCtx.GetChatID(), other.GetChatID())
}

func Test_ChatContext_Missing(t *testing.T) {
	assert.Nil(t, chatmodel.GetChatContext(t.Context()))

	_, _, err := chatmodel.GetTenantAndChatID(t.Context())
	require.Error(t, err)
	assert.ErrorIs(t, err, chatmodel.ErrInvalidChatContext)
}

func Test_SetChatID(t *testing.T) {
	ctx, err := chatmodel.SetChatID(t.Context(), "chat-42")
	require.NoError(t, err)

	tenantID, chatID, err := chatmodel.GetTenantAndChatID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "default", tenantID)
	assert.Equal(t, "chat-42", chatID)

	_, err = chatmodel.SetChatID(t.Context(), "")
	require.Error(t, err)
	assert.ErrorIs(t, err, chatmodel.ErrInvalidChatContext)
}
