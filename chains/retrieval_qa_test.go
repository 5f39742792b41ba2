package chains_test

import (
	"context"
	"testing"

	"github.com/effective-security/agentchain/chains"
	"github.com/effective-security/agentchain/pkg/llms/fake"
	"github.com/effective-security/agentchain/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedRetriever struct {
	docs []schema.Document
	last string
}

func (r *fixedRetriever) GetRelevantDocuments(_ context.Context, query string) ([]schema.Document, error) {
	r.last = query
	return r.docs, nil
}

func Test_RetrievalQA(t *testing.T) {
	retriever := &fixedRetriever{
		docs: docs("Harrison worked at Kensho.", "Harrison went to Harvard."),
	}
	model := fake.New("At Kensho.")
	chain := chains.NewRetrievalQAFromLLM(model, retriever)

	out, err := chains.Run(t.Context(), chain, "Where did Harrison work?")
	require.NoError(t, err)
	assert.Equal(t, "At Kensho.", out)
	assert.Equal(t, "Where did Harrison work?", retriever.last)

	prompt := model.Calls()[0][0].GetContent()
	assert.Contains(t, prompt, "Harrison worked at Kensho.")
	assert.Contains(t, prompt, "Question: Where did Harrison work?")
}

func Test_RetrievalQA_SourceDocuments(t *testing.T) {
	retriever := &fixedRetriever{docs: docs("fact one")}
	chain := chains.NewRetrievalQAFromLLM(fake.New("answer"), retriever)
	chain.ReturnSourceDocuments = true

	out, err := chains.Call(t.Context(), chain, map[string]any{"query": "q"})
	require.NoError(t, err)
	assert.Equal(t, "answer", out["text"])

	sources, ok := out["source_documents"].([]schema.Document)
	require.True(t, ok)
	require.Len(t, sources, 1)
	assert.Equal(t, "fact one", sources[0].PageContent)
}

func Test_CondenseQuestionGenerator(t *testing.T) {
	model := fake.New("What is the capital of France?")
	chain := chains.LoadCondenseQuestionGenerator(model)

	out, err := chains.Predict(t.Context(), chain, map[string]any{
		"chat_history": "Human: Tell me about France.\nAI: France is a country in Europe.",
		"question":     "What is its capital?",
	})
	require.NoError(t, err)
	assert.Equal(t, "What is the capital of France?", out)

	prompt := model.Calls()[0][0].GetContent()
	assert.Contains(t, prompt, "Follow Up Input: What is its capital?")
}
