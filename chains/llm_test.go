package chains_test

import (
	"testing"

	"github.com/effective-security/agentchain/chains"
	"github.com/effective-security/agentchain/chatmodel"
	"github.com/effective-security/agentchain/memory"
	"github.com/effective-security/agentchain/pkg/llms/fake"
	"github.com/effective-security/agentchain/prompts"
	"github.com/effective-security/agentchain/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_LLMChain(t *testing.T) {
	model := fake.New("Socktastic")
	prompt := prompts.NewPromptTemplate(
		"What is a good name for a company that makes {product}?",
		[]string{"product"},
	)
	chain := chains.NewLLMChain(model, prompt)

	assert.Equal(t, []string{"product"}, chain.GetInputKeys())
	assert.Equal(t, []string{"text"}, chain.GetOutputKeys())

	out, err := chains.Predict(t.Context(), chain, map[string]any{
		"product": "colorful socks",
	})
	require.NoError(t, err)
	assert.Equal(t, "Socktastic", out)

	calls := model.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "What is a good name for a company that makes colorful socks?", calls[0][0].GetContent())
}

func Test_LLMChain_Run(t *testing.T) {
	model := fake.New("4")
	chain := chains.NewLLMChain(model, prompts.NewPromptTemplate("{question}", []string{"question"}))

	out, err := chains.Run(t.Context(), chain, "what is 2+2?")
	require.NoError(t, err)
	assert.Equal(t, "4", out)
}

func Test_LLMChain_MissingInput(t *testing.T) {
	model := fake.New("unused")
	chain := chains.NewLLMChain(model, prompts.NewPromptTemplate("{question}", []string{"question"}))

	_, err := chains.Call(t.Context(), chain, map[string]any{"other": "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, chains.ErrInvalidInputValues)
	assert.Equal(t, 0, model.CallCount())
}

func Test_LLMChain_Memory(t *testing.T) {
	model := fake.New("hello!", "I said hello.")
	prompt := prompts.NewPromptTemplate("{history}\nHuman: {input}", []string{"history", "input"})
	chain := chains.NewLLMChain(model, prompt)
	chain.Memory = memory.NewConversationBuffer(store.NewMemoryStore())

	ctx := chatmodel.WithChatContext(t.Context(), chatmodel.NewChatContext("t1", "chat1", nil))

	out, err := chains.Run(ctx, chain, "hi")
	require.NoError(t, err)
	assert.Equal(t, "hello!", out)

	_, err = chains.Run(ctx, chain, "what did you say?")
	require.NoError(t, err)

	// The second call sees the saved history.
	calls := model.Calls()
	require.Len(t, calls, 2)
	assert.Contains(t, calls[1][0].GetContent(), "Human: hi")
	assert.Contains(t, calls[1][0].GetContent(), "AI: hello!")
}

func Test_Run_MultipleInputs(t *testing.T) {
	model := fake.New("unused")
	chain := chains.NewLLMChain(model, prompts.NewPromptTemplate("{a} {b}", []string{"a", "b"}))

	_, err := chains.Run(t.Context(), chain, "x")
	require.Error(t, err)
	assert.ErrorIs(t, err, chains.ErrMultipleInputsInRun)
}
