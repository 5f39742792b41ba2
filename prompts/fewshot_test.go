package prompts_test

import (
	"testing"

	"github.com/effective-security/agentchain/prompts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_FewShotPrompt(t *testing.T) {
	examplePrompt := prompts.NewPromptTemplate("Input: {in}\nOutput: {out}", []string{"in", "out"})
	examples := []map[string]string{
		{"in": "happy", "out": "sad"},
		{"in": "tall", "out": "short"},
	}

	p, err := prompts.NewFewShotPrompt(examplePrompt, examples,
		"Give the antonym of every input.",
		"Input: {adjective}\nOutput:",
		[]string{"adjective"}, nil, "", "")
	require.NoError(t, err)

	out, err := p.Format(map[string]any{"adjective": "big"})
	require.NoError(t, err)
	assert.Equal(t, `Give the antonym of every input.

Input: happy
Output: sad

Input: tall
Output: short

Input: big
Output:`, out)
}

func Test_FewShotPrompt_NoExamples(t *testing.T) {
	examplePrompt := prompts.NewPromptTemplate("{in}", []string{"in"})
	_, err := prompts.NewFewShotPrompt(examplePrompt, nil, "", "{q}", []string{"q"}, nil, "", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, prompts.ErrNoExamples)
}

func Test_FewShotPrompt_MissingInput(t *testing.T) {
	examplePrompt := prompts.NewPromptTemplate("{in}", []string{"in"})
	p, err := prompts.NewFewShotPrompt(examplePrompt, []map[string]string{{"in": "x"}},
		"", "Q: {q}", []string{"q"}, nil, "", "")
	require.NoError(t, err)

	_, err = p.Format(map[string]any{})
	require.Error(t, err)
	assert.ErrorIs(t, err, prompts.ErrNeedsInput)
}
