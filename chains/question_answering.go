package chains

import (
	"github.com/cockroachdb/errors"
	"github.com/effective-security/agentchain/pkg/llms"
	"github.com/effective-security/agentchain/prompts"
)

// CombineStrategy selects how a QA chain combines the retrieved documents.
type CombineStrategy string

const (
	// CombineStuff puts all documents into a single prompt.
	CombineStuff CombineStrategy = "stuff"
	// CombineMapReduce extracts from each document in parallel, then combines.
	CombineMapReduce CombineStrategy = "map_reduce"
	// CombineRefine iteratively refines an answer over the documents.
	CombineRefine CombineStrategy = "refine"
)

const qaStuffTemplate = `Use the following pieces of context to answer the question at the end. If you don't know the answer, just say that you don't know, don't try to make up an answer.

{context}

Question: {question}
Helpful Answer:`

const qaMapTemplate = `Use the following portion of a long document to see if any of the text is relevant to answer the question.
Return any relevant text verbatim.

{context}

Question: {question}
Relevant text, if any:`

const qaCombineTemplate = `Given the following extracted parts of a long document and a question, create a final answer. If you don't know the answer, just say that you don't know, don't try to make up an answer.

QUESTION: {question}
=========
{summaries}
=========
FINAL ANSWER:`

const qaRefineInitialTemplate = `Context information is below.
---------------------
{context}
---------------------
Given the context information and not prior knowledge, answer the question: {question}`

const qaRefineTemplate = `The original question is as follows: {question}
We have provided an existing answer: {existing_answer}
We have the opportunity to refine the existing answer (only if needed) with some more context below.
------------
{context}
------------
Given the new context, refine the original answer to better answer the question. If the context isn't useful, return the original answer.`

// LoadQA returns a question-answering chain over documents using the given
// combination strategy. The returned chain expects "input_documents" and
// "question" inputs.
func LoadQA(model llms.Model, strategy CombineStrategy) (Chain, error) {
	switch strategy {
	case CombineStuff:
		return LoadStuffQA(model), nil
	case CombineMapReduce:
		return LoadMapReduceQA(model), nil
	case CombineRefine:
		return LoadRefineQA(model), nil
	}
	return nil, errors.Newf("chains: unsupported combine strategy %q", strategy)
}

// LoadStuffQA answers a question by stuffing all documents into one prompt.
func LoadStuffQA(model llms.Model) *StuffDocuments {
	prompt := prompts.NewPromptTemplate(qaStuffTemplate, []string{"context", "question"})
	return NewStuffDocuments(NewLLMChain(model, prompt))
}

// LoadMapReduceQA extracts relevant text from each document in parallel and
// combines the extracts into a final answer.
func LoadMapReduceQA(model llms.Model) *MapReduceDocuments {
	mapPrompt := prompts.NewPromptTemplate(qaMapTemplate, []string{"context", "question"})
	mapChain := NewLLMChain(model, mapPrompt)

	combinePrompt := prompts.NewPromptTemplate(qaCombineTemplate, []string{"summaries", "question"})
	reduceChain := NewStuffDocuments(NewLLMChain(model, combinePrompt))
	reduceChain.DocumentVariableName = "summaries"

	chain := NewMapReduceDocuments(mapChain, reduceChain)
	chain.CollapseChain = mapChain
	return chain
}

// LoadRefineQA answers from the first document and refines the answer over
// the remaining ones.
func LoadRefineQA(model llms.Model) *RefineDocuments {
	initialPrompt := prompts.NewPromptTemplate(qaRefineInitialTemplate, []string{"context", "question"})
	refinePrompt := prompts.NewPromptTemplate(qaRefineTemplate, []string{"context", "existing_answer", "question"})
	return NewRefineDocuments(
		NewLLMChain(model, initialPrompt),
		NewLLMChain(model, refinePrompt),
	)
}
