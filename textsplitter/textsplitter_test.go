package textsplitter_test

import (
	"strings"
	"testing"

	"github.com/effective-security/agentchain/textsplitter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_RecursiveCharacter_ShortText(t *testing.T) {
	s := textsplitter.NewRecursiveCharacter()

	chunks, err := s.SplitText("short text")
	require.NoError(t, err)
	assert.Equal(t, []string{"short text"}, chunks)
}

func Test_RecursiveCharacter_Paragraphs(t *testing.T) {
	s := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(20),
		textsplitter.WithChunkOverlap(0),
	)

	chunks, err := s.SplitText("first paragraph\n\nsecond paragraph\n\nthird paragraph")
	require.NoError(t, err)
	assert.Equal(t, []string{"first paragraph", "second paragraph", "third paragraph"}, chunks)
}

func Test_RecursiveCharacter_ChunkSize(t *testing.T) {
	s := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(10),
		textsplitter.WithChunkOverlap(0),
	)

	chunks, err := s.SplitText("one two three four five six")
	require.NoError(t, err)
	require.NotEmpty(t, chunks)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), 10, chunk)
	}
	// Nothing is lost.
	assert.Equal(t, "one two three four five six", strings.Join(chunks, " "))
}

func Test_RecursiveCharacter_Overlap(t *testing.T) {
	s := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(12),
		textsplitter.WithChunkOverlap(4),
	)

	chunks, err := s.SplitText("aaa bbb ccc ddd eee")
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	// Adjacent chunks share at least one piece.
	for i := 1; i < len(chunks); i++ {
		prevTail := chunks[i-1][strings.LastIndex(chunks[i-1], " ")+1:]
		assert.Contains(t, chunks[i], prevTail)
	}
}

func Test_RecursiveCharacter_CustomSeparators(t *testing.T) {
	s := textsplitter.NewRecursiveCharacter(
		textsplitter.WithSeparators([]string{";", ""}),
		textsplitter.WithChunkSize(5),
		textsplitter.WithChunkOverlap(0),
	)

	chunks, err := s.SplitText("abc;def;ghi")
	require.NoError(t, err)
	assert.Equal(t, []string{"abc", "def", "ghi"}, chunks)
}
