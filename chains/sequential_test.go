package chains_test

import (
	"testing"

	"github.com/effective-security/agentchain/chains"
	"github.com/effective-security/agentchain/pkg/llms/fake"
	"github.com/effective-security/agentchain/prompts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func namedChain(model string, template string, inputs []string, outputKey string) *chains.LLMChain {
	c := chains.NewLLMChain(fake.New(model), prompts.NewPromptTemplate(template, inputs))
	c.OutputKey = outputKey
	return c
}

func Test_SequentialChain(t *testing.T) {
	synopsis := namedChain("a tragic tale of two robots",
		"Write a synopsis for the play {title}.", []string{"title"}, "synopsis")
	reviewChain := namedChain("five stars",
		"Write a review of this synopsis: {synopsis}", []string{"synopsis"}, "review")

	seq, err := chains.NewSequentialChain(
		[]chains.Chain{synopsis, reviewChain},
		[]string{"title"},
		[]string{"synopsis", "review"},
	)
	require.NoError(t, err)

	out, err := chains.Call(t.Context(), seq, map[string]any{"title": "Tragedy at Sunset"})
	require.NoError(t, err)
	assert.Equal(t, "a tragic tale of two robots", out["synopsis"])
	assert.Equal(t, "five stars", out["review"])
}

func Test_SequentialChain_MissingInputKeys(t *testing.T) {
	c := namedChain("x", "{a} {missing}", []string{"a", "missing"}, "out")

	_, err := chains.NewSequentialChain([]chains.Chain{c}, []string{"a"}, []string{"out"})
	require.Error(t, err)
	assert.ErrorIs(t, err, chains.ErrChainInitialization)
	assert.Contains(t, err.Error(), "missing")
}

func Test_SequentialChain_OverlappingOutputKeys(t *testing.T) {
	// The chain writes back a key that already exists.
	c := namedChain("x", "{a}", []string{"a"}, "a")

	_, err := chains.NewSequentialChain([]chains.Chain{c}, []string{"a"}, []string{"a"})
	require.Error(t, err)
	assert.ErrorIs(t, err, chains.ErrChainInitialization)
}

func Test_SequentialChain_MissingOutputKeys(t *testing.T) {
	c := namedChain("x", "{a}", []string{"a"}, "b")

	_, err := chains.NewSequentialChain([]chains.Chain{c}, []string{"a"}, []string{"c"})
	require.Error(t, err)
	assert.ErrorIs(t, err, chains.ErrChainInitialization)
}

func Test_SimpleSequentialChain(t *testing.T) {
	first := namedChain("  an essay about robots  ", "{input}", []string{"input"}, "text")
	second := namedChain("a fine essay", "{input}", []string{"input"}, "text")

	seq, err := chains.NewSimpleSequentialChain([]chains.Chain{first, second})
	require.NoError(t, err)

	out, err := chains.Run(t.Context(), seq, "write about robots")
	require.NoError(t, err)
	assert.Equal(t, "a fine essay", out)
}

func Test_SimpleSequentialChain_RequiresSingleIO(t *testing.T) {
	multi := namedChain("x", "{a} {b}", []string{"a", "b"}, "out")

	_, err := chains.NewSimpleSequentialChain([]chains.Chain{multi})
	require.Error(t, err)
	assert.ErrorIs(t, err, chains.ErrChainInitialization)
}
