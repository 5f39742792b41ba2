package store_test

import (
	"fmt"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/effective-security/agentchain/chatmodel"
	"github.com/effective-security/agentchain/pkg/llms"
	"github.com/effective-security/agentchain/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_MemoryStore(t *testing.T) {
	s := store.NewMemoryStore()

	ctx := chatmodel.WithChatContext(t.Context(), chatmodel.NewChatContext("t1", "chat1", nil))

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

	// Another chat does not see the messages.
	other := chatmodel.WithChatContext(t.Context(), chatmodel.NewChatContext("t1", "chat2", nil))
	assert.Empty(t, s.Messages(other))

	require.NoError(t, s.Reset(ctx))
	assert.Empty(t, s.Messages(ctx))
}

func Test_MemoryStore_Cap(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := chatmodel.WithChatContext(t.Context(), chatmodel.NewChatContext("t1", "chat1", nil))

	for i := 0; i < store.DefaultMaxMessages+10; i++ {
		err := s.Add(ctx, llms.MessageFromTextParts(llms.RoleHuman, fmt.Sprintf("%d: %s", i, gofakeit.Sentence(3))))
		require.NoError(t, err)
	}

	msgs := s.Messages(ctx)
	require.Len(t, msgs, store.DefaultMaxMessages)
	// The oldest messages are dropped.
	assert.Contains(t, msgs[0].GetContent(), "10:")
}

func Test_MemoryStore_NoChatContext(t *testing.T) {
	s := store.NewMemoryStore()

	err := s.Add(t.Context(), llms.MessageFromTextParts(llms.RoleHuman, "hello"))
	require.Error(t, err)
	assert.ErrorIs(t, err, chatmodel.ErrInvalidChatContext)
	assert.Empty(t, s.Messages(t.Context()))
}
