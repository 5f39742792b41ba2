package store_test

import (
	"os"
	"testing"

	"github.com/effective-security/agentchain/chatmodel"
	"github.com/effective-security/agentchain/pkg/llms"
	"github.com/effective-security/agentchain/store"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func redisClient(t *testing.T) *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	require.NoError(t, client.Ping(t.Context()).Err())
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func Test_RedisStore(t *testing.T) {
	client := redisClient(t)
	s := store.NewRedisStore(client, "agentchain-test")

	tenantID := uuid.NewString()
	ctx := chatmodel.WithChatContext(t.Context(), chatmodel.NewChatContext(tenantID, "chat1", nil))

	assert.Empty(t, s.Messages(ctx))

	err := s.Add(ctx,
		llms.MessageFromTextParts(llms.RoleHuman, "hello"),
		llms.MessageFromTextParts(llms.RoleAI, "hi there"),
	)
	require.NoError(t, err)

	msgs := s.Messages(ctx)
	require.Len(t, msgs, 2)
	assert.Equal(t, llms.RoleHuman, msgs[0].Role)
	assert.Equal(t, "hi there", msgs[1].GetContent())

	lister, ok := s.(store.ChatLister)
	require.True(t, ok)
	chats, err := lister.ListChats(ctx, tenantID)
	require.NoError(t, err)
	assert.Contains(t, chats, "chat1")

	require.NoError(t, s.Reset(ctx))
	assert.Empty(t, s.Messages(ctx))

	chats, err = lister.ListChats(ctx, tenantID)
	require.NoError(t, err)
	assert.NotContains(t, chats, "chat1")
}

func Test_RedisStore_ToolCalls(t *testing.T) {
	client := redisClient(t)
	s := store.NewRedisStore(client, "agentchain-test")

	ctx := chatmodel.WithChatContext(t.Context(), chatmodel.NewChatContext(uuid.NewString(), "chat1", nil))

	err := s.Add(ctx,
		llms.MessageFromToolCalls(llms.RoleAI, llms.ToolCall{
			ID:   "call-1",
			Type: "function",
			FunctionCall: &llms.FunctionCall{
				Name:      "Search",
				Arguments: `{"query":"weather"}`,
			},
		}),
		llms.MessageFromToolResponse(llms.RoleTool, llms.ToolCallResponse{
			ToolCallID: "call-1",
			Name:       "Search",
			Content:    "sunny",
		}),
	)
	require.NoError(t, err)

	msgs := s.Messages(ctx)
	require.Len(t, msgs, 2)
	assert.Equal(t, llms.RoleAI, msgs[0].Role)
	assert.Equal(t, llms.RoleTool, msgs[1].Role)
	assert.Equal(t, "sunny", msgs[1].GetContent())
}
