package redisvector_test

import (
	"os"
	"testing"

	"github.com/effective-security/agentchain/embeddings"
	"github.com/effective-security/agentchain/schema"
	"github.com/effective-security/agentchain/vectorstores"
	"github.com/effective-security/agentchain/vectorstores/redisvector"
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

func Test_RedisVector(t *testing.T) {
	client := redisClient(t)
	s := redisvector.New(client, embeddings.NewFake(32), "agentchain-test")

	collection := uuid.NewString()
	t.Cleanup(func() { _ = s.Drop(t.Context(), collection) })

	ids, err := s.AddDocuments(t.Context(), []schema.Document{
		{PageContent: "Harrison worked at Kensho.", Metadata: map[string]any{"source": "bio"}},
		{PageContent: "The weather in SF is sunny."},
	}, vectorstores.WithNameSpace(collection))
	require.NoError(t, err)
	require.Len(t, ids, 2)
	assert.NotEqual(t, ids[0], ids[1])

	// The fake embedder is deterministic: the identical text scores highest.
	docs, err := s.SimilaritySearch(t.Context(), "Harrison worked at Kensho.", 1,
		vectorstores.WithNameSpace(collection))
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "Harrison worked at Kensho.", docs[0].PageContent)
	assert.Equal(t, "bio", docs[0].Metadata["source"])
	assert.InDelta(t, 1.0, docs[0].Score, 0.0001)

	docs, err = s.SimilaritySearch(t.Context(), "Harrison worked at Kensho.", 10,
		vectorstores.WithNameSpace(collection),
		vectorstores.WithFilters(map[string]any{"source": "bio"}),
	)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "Harrison worked at Kensho.", docs[0].PageContent)

	docs, err = s.SimilaritySearch(t.Context(), "Harrison worked at Kensho.", 10,
		vectorstores.WithNameSpace(collection),
		vectorstores.WithFilters(map[string]any{"source": "news"}),
	)
	require.NoError(t, err)
	assert.Empty(t, docs)

	require.NoError(t, s.Drop(t.Context(), collection))
	docs, err = s.SimilaritySearch(t.Context(), "anything", 1,
		vectorstores.WithNameSpace(collection))
	require.NoError(t, err)
	assert.Empty(t, docs)
}
