package documentloaders_test

import (
	"strings"
	"testing"

	"github.com/effective-security/agentchain/documentloaders"
	"github.com/effective-security/agentchain/schema"
	"github.com/effective-security/agentchain/textsplitter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Text_Load(t *testing.T) {
	loader := documentloaders.NewText(strings.NewReader("the state of the union"))

	docs, err := loader.Load(t.Context())
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "the state of the union", docs[0].PageContent)
	assert.NotNil(t, docs[0].Metadata)
}

func Test_Text_LoadAndSplit(t *testing.T) {
	loader := documentloaders.NewText(strings.NewReader("first part\n\nsecond part\n\nthird part"))
	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(15),
		textsplitter.WithChunkOverlap(0),
	)

	docs, err := loader.LoadAndSplit(t.Context(), splitter)
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "first part", docs[0].PageContent)
	assert.Equal(t, "third part", docs[2].PageContent)
}

func Test_SplitDocuments_Metadata(t *testing.T) {
	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(10),
		textsplitter.WithChunkOverlap(0),
	)

	docs, err := documentloaders.SplitDocuments(splitter, []schema.Document{
		{
			PageContent: "alpha\n\nbeta",
			Metadata:    map[string]any{"source": "sotu.txt"},
		},
	})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	for _, doc := range docs {
		assert.Equal(t, "sotu.txt", doc.Metadata["source"])
	}

	// Chunks do not share the metadata map.
	docs[0].Metadata["source"] = "changed"
	assert.Equal(t, "sotu.txt", docs[1].Metadata["source"])
}
