package chains_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/effective-security/agentchain/chains"
	"github.com/effective-security/agentchain/pkg/llms/fake"
	"github.com/effective-security/agentchain/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func docs(contents ...string) []schema.Document {
	out := make([]schema.Document, len(contents))
	for i, c := range contents {
		out[i] = schema.Document{PageContent: c}
	}
	return out
}

func Test_StuffDocuments(t *testing.T) {
	model := fake.New("Harrison worked at Kensho.")
	chain := chains.LoadStuffQA(model)

	assert.ElementsMatch(t, []string{"input_documents", "question"}, chain.GetInputKeys())

	out, err := chains.Call(t.Context(), chain, map[string]any{
		"input_documents": docs("Harrison went to Harvard.", "Harrison worked at Kensho."),
		"question":        "Where did Harrison work?",
	})
	require.NoError(t, err)
	assert.Equal(t, "Harrison worked at Kensho.", out["text"])

	// All documents end up in a single prompt, joined by the separator.
	calls := model.Calls()
	require.Len(t, calls, 1)
	prompt := calls[0][0].GetContent()
	assert.Contains(t, prompt, "Harrison went to Harvard.\n\nHarrison worked at Kensho.")
	assert.Contains(t, prompt, "Question: Where did Harrison work?")
}

func Test_StuffDocuments_WrongInputType(t *testing.T) {
	chain := chains.LoadStuffQA(fake.New("unused"))

	_, err := chains.Call(t.Context(), chain, map[string]any{
		"input_documents": "not documents",
		"question":        "anything",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, chains.ErrInputValuesWrongType)
}

func Test_MapReduceDocuments(t *testing.T) {
	// Three map calls then one reduce call, in any order of mapping.
	model := fake.New("extract one", "extract two", "extract three", "the final answer")
	chain := chains.LoadMapReduceQA(model)

	out, err := chains.Call(t.Context(), chain, map[string]any{
		"input_documents": docs("doc one", "doc two", "doc three"),
		"question":        "what is it?",
	})
	require.NoError(t, err)
	assert.Equal(t, "the final answer", out["text"])
	assert.Equal(t, 4, model.CallCount())
}

func Test_MapReduceDocuments_PreservesOrder(t *testing.T) {
	// The map chain echoes its input, the reduce prompt must see the
	// extracts in document order regardless of map scheduling.
	mapResponses := make([]string, 0, 9)
	contents := make([]string, 0, 9)
	for i := 0; i < 9; i++ {
		contents = append(contents, fmt.Sprintf("doc-%d", i))
	}
	// The fake model replies in call order, which may differ from document
	// order; use a single worker to keep the script aligned.
	for i := 0; i < 9; i++ {
		mapResponses = append(mapResponses, fmt.Sprintf("mapped-%d", i))
	}
	model := fake.New(append(mapResponses, "final")...)

	chain := chains.LoadMapReduceQA(model)
	chain.MaxConcurrency = 1

	out, err := chains.Call(t.Context(), chain, map[string]any{
		"input_documents": docs(contents...),
		"question":        "q",
	})
	require.NoError(t, err)
	assert.Equal(t, "final", out["text"])

	calls := model.Calls()
	reducePrompt := calls[len(calls)-1][0].GetContent()
	prev := -1
	for i := 0; i < 9; i++ {
		idx := strings.Index(reducePrompt, fmt.Sprintf("mapped-%d", i))
		require.Greater(t, idx, prev, "extracts out of order in reduce prompt")
		prev = idx
	}
}

func Test_MapReduceDocuments_IntermediateSteps(t *testing.T) {
	model := fake.New("m1", "m2", "final")
	chain := chains.LoadMapReduceQA(model)
	chain.MaxConcurrency = 1
	chain.ReturnIntermediateSteps = true

	out, err := chains.Call(t.Context(), chain, map[string]any{
		"input_documents": docs("a", "b"),
		"question":        "q",
	})
	require.NoError(t, err)
	assert.Equal(t, "final", out["text"])
	assert.Equal(t, []string{"m1", "m2"}, out["intermediate_steps"])
}

func Test_MapReduceDocuments_Collapse(t *testing.T) {
	big := strings.Repeat("long mapped result ", 40)
	model := fake.New(big, big, "collapsed one", "collapsed two", "final")

	chain := chains.LoadMapReduceQA(model)
	chain.MaxConcurrency = 1
	// Force a collapse round: the two mapped results exceed the budget
	// together, the collapsed summaries fit.
	chain.MaxTokens = len(big) / 3

	out, err := chains.Call(t.Context(), chain, map[string]any{
		"input_documents": docs("a", "b"),
		"question":        "q",
	})
	require.NoError(t, err)
	assert.Equal(t, "final", out["text"])
	// Two map calls, two collapse calls, one reduce call.
	assert.Equal(t, 5, model.CallCount())

	calls := model.Calls()
	reducePrompt := calls[4][0].GetContent()
	assert.Contains(t, reducePrompt, "collapsed one")
	assert.Contains(t, reducePrompt, "collapsed two")
}

func Test_RefineDocuments(t *testing.T) {
	model := fake.New("initial answer", "refined answer", "final refined answer")
	chain := chains.LoadRefineQA(model)

	out, err := chains.Call(t.Context(), chain, map[string]any{
		"input_documents": docs("first", "second", "third"),
		"question":        "q",
	})
	require.NoError(t, err)
	assert.Equal(t, "final refined answer", out["text"])
	// Strictly one call per document, in order.
	assert.Equal(t, 3, model.CallCount())

	// Every refine call carries the previous answer.
	calls := model.Calls()
	assert.Contains(t, calls[1][0].GetContent(), "initial answer")
	assert.Contains(t, calls[2][0].GetContent(), "refined answer")
}

func Test_RefineDocuments_NoDocs(t *testing.T) {
	chain := chains.LoadRefineQA(fake.New("unused"))

	_, err := chains.Call(t.Context(), chain, map[string]any{
		"input_documents": docs(),
		"question":        "q",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, chains.ErrInvalidInputValues)
}

func Test_LoadQA(t *testing.T) {
	for _, strategy := range []chains.CombineStrategy{
		chains.CombineStuff,
		chains.CombineMapReduce,
		chains.CombineRefine,
	} {
		chain, err := chains.LoadQA(fake.New("x"), strategy)
		require.NoError(t, err, strategy)
		require.NotNil(t, chain, strategy)
	}

	_, err := chains.LoadQA(fake.New("x"), "unknown")
	require.Error(t, err)
}
