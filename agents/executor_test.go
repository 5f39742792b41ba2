package agents_test

import (
	"context"
	"testing"

	"github.com/effective-security/agentchain/agents"
	"github.com/effective-security/agentchain/chains"
	"github.com/effective-security/agentchain/pkg/llms/fake"
	"github.com/effective-security/agentchain/tools"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingTool struct {
	name   string
	result string
	inputs []string
}

func (t *recordingTool) Name() string        { return t.name }
func (t *recordingTool) Description() string { return "useful for tests" }
func (t *recordingTool) Parameters() any     { return nil }
func (t *recordingTool) Call(_ context.Context, input string) (string, error) {
	t.inputs = append(t.inputs, input)
	return t.result, nil
}

func Test_Executor_SingleStep(t *testing.T) {
	search := &recordingTool{name: "Search", result: "it is sunny"}
	model := fake.New(
		"I need to look this up.\nAction: Search\nAction Input: weather in SF",
		"I now know the final answer.\nFinal Answer: curses foiled again",
	)

	executor, err := agents.Initialize(model, []tools.ITool{search}, agents.ZeroShotReactDescription)
	require.NoError(t, err)

	out, err := chains.Run(t.Context(), executor, "what is the weather?")
	require.NoError(t, err)
	assert.Equal(t, "curses foiled again", out)
	assert.Equal(t, []string{"weather in SF"}, search.inputs)

	// The second call carries the observation in the scratchpad.
	calls := model.Calls()
	require.Len(t, calls, 2)
	assert.Contains(t, calls[1][0].GetContent(), "Observation: it is sunny")
}

func Test_Executor_CaseInsensitiveToolLookup(t *testing.T) {
	search := &recordingTool{name: "Search", result: "found it"}
	model := fake.New(
		"Action: search\nAction Input: query",
		"Final Answer: done",
	)

	executor, err := agents.Initialize(model, []tools.ITool{search}, agents.ZeroShotReactDescription)
	require.NoError(t, err)

	out, err := chains.Run(t.Context(), executor, "q")
	require.NoError(t, err)
	assert.Equal(t, "done", out)
	assert.Equal(t, []string{"query"}, search.inputs)
}

func Test_Executor_UnknownTool(t *testing.T) {
	search := &recordingTool{name: "Search", result: "unused"}
	model := fake.New(
		"Action: FooBarBaz\nAction Input: something",
		"Final Answer: recovered",
	)

	executor, err := agents.Initialize(model, []tools.ITool{search}, agents.ZeroShotReactDescription)
	require.NoError(t, err)

	out, err := chains.Run(t.Context(), executor, "q")
	require.NoError(t, err)
	assert.Equal(t, "recovered", out)
	assert.Empty(t, search.inputs)

	// The agent is told which tools are valid.
	calls := model.Calls()
	require.Len(t, calls, 2)
	assert.Contains(t, calls[1][0].GetContent(), "FooBarBaz is not a valid tool, try one of [Search]")
}

func Test_Executor_MaxIterations_Force(t *testing.T) {
	search := &recordingTool{name: "Search", result: "nothing useful"}
	model := fake.New(
		"Action: Search\nAction Input: first",
		"Action: Search\nAction Input: second",
	)

	executor, err := agents.Initialize(model, []tools.ITool{search}, agents.ZeroShotReactDescription,
		agents.WithMaxIterations(2),
	)
	require.NoError(t, err)

	out, err := chains.Run(t.Context(), executor, "q")
	require.NoError(t, err)
	assert.Equal(t, "Agent stopped due to max iterations.", out)
	assert.Equal(t, []string{"first", "second"}, search.inputs)
}

func Test_Executor_MaxIterations_Generate(t *testing.T) {
	search := &recordingTool{name: "Search", result: "partial fact"}
	model := fake.New(
		"Action: Search\nAction Input: first",
		"Final Answer: best effort from what I found",
	)

	executor, err := agents.Initialize(model, []tools.ITool{search}, agents.ZeroShotReactDescription,
		agents.WithMaxIterations(1),
		agents.WithEarlyStoppingMethod("generate"),
	)
	require.NoError(t, err)

	out, err := chains.Run(t.Context(), executor, "q")
	require.NoError(t, err)
	assert.Equal(t, "best effort from what I found", out)
}

func Test_Executor_ParseError(t *testing.T) {
	model := fake.New("I have no idea what format to use")

	executor, err := agents.Initialize(model, nil, agents.ZeroShotReactDescription)
	require.NoError(t, err)

	_, err = chains.Run(t.Context(), executor, "q")
	require.Error(t, err)
	assert.ErrorIs(t, err, agents.ErrUnableToParseOutput)
}

func Test_Executor_IntermediateSteps(t *testing.T) {
	search := &recordingTool{name: "Search", result: "found"}
	model := fake.New(
		"Action: Search\nAction Input: q1",
		"Final Answer: ok",
	)

	executor, err := agents.Initialize(model, []tools.ITool{search}, agents.ZeroShotReactDescription,
		agents.WithReturnIntermediateSteps(),
	)
	require.NoError(t, err)

	out, err := chains.Call(t.Context(), executor, map[string]any{"input": "q"})
	require.NoError(t, err)
	assert.Equal(t, "ok", out["output"])
	require.Contains(t, out, "intermediate_steps")
}

func Test_Initialize_UnknownAgentType(t *testing.T) {
	_, err := agents.Initialize(fake.New("x"), nil, "no-such-agent")
	require.Error(t, err)
	assert.ErrorIs(t, err, agents.ErrUnknownAgentType)
}
