package chains

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/agentchain/memory"
	"github.com/effective-security/agentchain/pkg/llms"
	"github.com/effective-security/agentchain/prompts"
	"github.com/effective-security/agentchain/schema"
)

const (
	retrievalQADefaultInputKey       = "query"
	retrievalQASourceDocumentsKey    = "source_documents"
	condenseQuestionHistoryKey       = "chat_history"
	condenseQuestionDefaultInputName = "question"
)

// RetrievalQA fetches relevant documents from a retriever and answers the
// query with a document-combination chain.
type RetrievalQA struct {
	// Retriever supplies the documents for a query.
	Retriever schema.Retriever
	// CombineDocumentsChain answers the question over the retrieved
	// documents. It expects "input_documents" and "question" inputs.
	CombineDocumentsChain Chain

	// InputKey is the input key where the query is expected.
	InputKey string
	// ReturnSourceDocuments includes the retrieved documents in the output.
	ReturnSourceDocuments bool
}

var (
	_ Chain = (*RetrievalQA)(nil)
	_ Named = (*RetrievalQA)(nil)
)

// NewRetrievalQA creates a RetrievalQA chain from a combination chain and a
// retriever.
func NewRetrievalQA(combineChain Chain, retriever schema.Retriever) *RetrievalQA {
	return &RetrievalQA{
		Retriever:             retriever,
		CombineDocumentsChain: combineChain,
		InputKey:              retrievalQADefaultInputKey,
	}
}

// NewRetrievalQAFromLLM creates a RetrievalQA chain that stuffs the
// retrieved documents into a single prompt.
func NewRetrievalQAFromLLM(model llms.Model, retriever schema.Retriever) *RetrievalQA {
	return NewRetrievalQA(LoadStuffQA(model), retriever)
}

func (c *RetrievalQA) Name() string {
	return "retrieval_qa_chain"
}

// Call retrieves documents for the query and runs the combination chain.
// Use the package-level Call function instead of calling this directly.
func (c *RetrievalQA) Call(ctx context.Context, values map[string]any, options ...Option) (map[string]any, error) {
	query, ok := values[c.InputKey].(string)
	if !ok {
		return nil, errors.WithMessagef(ErrInputValuesWrongType, "%q is not a string", c.InputKey)
	}

	docs, err := c.Retriever.GetRelevantDocuments(ctx, query)
	if err != nil {
		return nil, err
	}

	result, err := Call(ctx, c.CombineDocumentsChain, map[string]any{
		combineDocumentsDefaultInputKey: docs,
		"question":                      query,
	}, options...)
	if err != nil {
		return nil, err
	}
	if c.ReturnSourceDocuments {
		result[retrievalQASourceDocumentsKey] = docs
	}
	return result, nil
}

func (c *RetrievalQA) GetMemory() schema.Memory {
	return memory.NewSimple()
}

func (c *RetrievalQA) GetInputKeys() []string {
	return []string{c.InputKey}
}

func (c *RetrievalQA) GetOutputKeys() []string {
	keys := c.CombineDocumentsChain.GetOutputKeys()
	if c.ReturnSourceDocuments {
		keys = append(keys, retrievalQASourceDocumentsKey)
	}
	return keys
}

const condenseQuestionTemplate = `Given the following conversation and a follow up question, rephrase the follow up question to be a standalone question.

Chat History:
{chat_history}
Follow Up Input: {question}
Standalone question:`

// LoadCondenseQuestionGenerator returns a chain that rewrites a follow-up
// question into a standalone one given the chat history.
func LoadCondenseQuestionGenerator(model llms.Model) *LLMChain {
	prompt := prompts.NewPromptTemplate(condenseQuestionTemplate,
		[]string{condenseQuestionHistoryKey, condenseQuestionDefaultInputName})
	return NewLLMChain(model, prompt)
}
