package agents

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/agentchain/callbacks"
	"github.com/effective-security/agentchain/chains"
	"github.com/effective-security/agentchain/pkg/metricskey"
	"github.com/effective-security/agentchain/schema"
	"github.com/effective-security/agentchain/tools"
	"github.com/effective-security/xlog"
)

// ErrorStoppedByMaxIterations is the answer returned when the executor hits
// the iteration bound with the "force" early stopping method.
const ErrorStoppedByMaxIterations = "Agent stopped due to max iterations."

const intermediateStepsOutputKey = "intermediate_steps"

// Executor runs the agent decision loop: plan, dispatch tools, feed the
// observations back, until the agent finishes or the iteration bound is hit.
type Executor struct {
	Agent Agent

	maxIterations           int
	earlyStoppingMethod     string
	returnIntermediateSteps bool
	memory                  schema.Memory
	callbackHandler         callbacks.Handler

	toolsByName map[string]tools.ITool
}

var (
	_ chains.Chain = (*Executor)(nil)
	_ chains.Named = (*Executor)(nil)
)

// NewExecutor creates an executor for the given agent.
func NewExecutor(agent Agent, opts ...Option) *Executor {
	cfg := applyAgentOptions(opts...)

	// Tool names are matched case-insensitively.
	toolsByName := make(map[string]tools.ITool)
	for _, tool := range agent.GetTools() {
		toolsByName[strings.ToLower(tool.Name())] = tool
	}

	return &Executor{
		Agent:                   agent,
		maxIterations:           cfg.maxIterations,
		earlyStoppingMethod:     cfg.earlyStoppingMethod,
		returnIntermediateSteps: cfg.returnIntermediateSteps,
		memory:                  cfg.memory,
		callbackHandler:         cfg.callbackHandler,
		toolsByName:             toolsByName,
	}
}

func (e *Executor) Name() string {
	return "agent_executor"
}

// Call runs the agent loop. Use chains.Call or chains.Run instead of calling
// this directly.
func (e *Executor) Call(ctx context.Context, inputValues map[string]any, _ ...chains.Option) (map[string]any, error) {
	started := time.Now()
	name := agentName(e.Agent)
	defer metricskey.PerfAgentRun.MeasureSince(started, name)

	inputs, err := inputsToString(inputValues)
	if err != nil {
		return nil, err
	}

	steps := make([]schema.AgentStep, 0)
	for i := 0; i < e.maxIterations; i++ {
		metricskey.StatsAgentIterations.IncrCounter(1, name)

		actions, finish, err := e.Agent.Plan(ctx, steps, inputs)
		if err != nil {
			return nil, err
		}
		if len(actions) == 0 && finish == nil {
			return nil, errors.WithStack(ErrAgentNoReturn)
		}
		if finish != nil {
			return e.getReturn(ctx, finish, steps), nil
		}

		for _, action := range actions {
			steps, err = e.doAction(ctx, steps, action)
			if err != nil {
				return nil, err
			}
		}
	}

	logger.ContextKV(ctx, xlog.DEBUG,
		"agent", name,
		"status", "max_iterations",
		"iterations", e.maxIterations,
	)
	finish, err := e.stoppedResponse(ctx, steps, inputs)
	if err != nil {
		return nil, err
	}
	return e.getReturn(ctx, finish, steps), nil
}

func (e *Executor) doAction(ctx context.Context, steps []schema.AgentStep, action schema.AgentAction) ([]schema.AgentStep, error) {
	if e.callbackHandler != nil {
		e.callbackHandler.OnAgentAction(ctx, agentName(e.Agent), action)
	}

	tool, ok := e.toolsByName[strings.ToLower(action.Tool)]
	if !ok {
		// An unknown tool becomes an observation, so the agent can correct
		// itself on the next iteration.
		metricskey.StatsToolCallsNotFound.IncrCounter(1, action.Tool)
		if e.callbackHandler != nil {
			e.callbackHandler.OnToolNotFound(ctx, agentName(e.Agent), action.Tool)
		}
		return append(steps, schema.AgentStep{
			Action:      action,
			Observation: fmt.Sprintf("%s is not a valid tool, try one of [%s]", action.Tool, strings.Join(e.toolNames(), ", ")),
		}), nil
	}

	started := time.Now()
	if e.callbackHandler != nil {
		e.callbackHandler.OnToolStart(ctx, tool, action.ToolInput)
	}
	observation, err := tool.Call(ctx, action.ToolInput)
	metricskey.PerfToolCall.MeasureSince(started, tool.Name())
	if err != nil {
		metricskey.StatsToolCallsFailed.IncrCounter(1, tool.Name())
		if e.callbackHandler != nil {
			e.callbackHandler.OnToolError(ctx, tool, action.ToolInput, err)
		}
		return nil, err
	}
	metricskey.StatsToolCallsSucceeded.IncrCounter(1, tool.Name())
	if e.callbackHandler != nil {
		e.callbackHandler.OnToolEnd(ctx, tool, action.ToolInput, observation)
	}

	return append(steps, schema.AgentStep{
		Action:      action,
		Observation: observation,
	}), nil
}

// stoppedResponse produces the final answer after the iteration bound:
// "generate" asks the agent to wrap up, "force" returns a fixed message.
func (e *Executor) stoppedResponse(ctx context.Context, steps []schema.AgentStep, inputs map[string]string) (*schema.AgentFinish, error) {
	if e.earlyStoppingMethod == "generate" {
		if responder, ok := e.Agent.(StoppedResponder); ok {
			return responder.ReturnStoppedResponse(ctx, steps, inputs)
		}
	}

	finish := &schema.AgentFinish{
		ReturnValues: map[string]any{},
		Log:          ErrorStoppedByMaxIterations,
	}
	for _, key := range e.Agent.GetOutputKeys() {
		finish.ReturnValues[key] = ErrorStoppedByMaxIterations
	}
	return finish, nil
}

func (e *Executor) getReturn(ctx context.Context, finish *schema.AgentFinish, steps []schema.AgentStep) map[string]any {
	if e.callbackHandler != nil {
		e.callbackHandler.OnAgentFinish(ctx, agentName(e.Agent), *finish)
	}
	if e.returnIntermediateSteps {
		finish.ReturnValues[intermediateStepsOutputKey] = steps
	}
	return finish.ReturnValues
}

func (e *Executor) GetMemory() schema.Memory {
	return e.memory
}

func (e *Executor) GetInputKeys() []string {
	return e.Agent.GetInputKeys()
}

func (e *Executor) GetOutputKeys() []string {
	return e.Agent.GetOutputKeys()
}

func (e *Executor) toolNames() []string {
	names := make([]string, 0, len(e.toolsByName))
	for _, tool := range e.Agent.GetTools() {
		names = append(names, tool.Name())
	}
	return names
}

func agentName(a Agent) string {
	if n, ok := a.(interface{ Name() string }); ok {
		return n.Name()
	}
	return "agent"
}

func inputsToString(values map[string]any) (map[string]string, error) {
	result := make(map[string]string, len(values))
	for key, value := range values {
		str, ok := value.(string)
		if !ok {
			return nil, errors.WithMessagef(ErrExecutorInputNotString, "key %q", key)
		}
		result[key] = str
	}
	return result, nil
}
