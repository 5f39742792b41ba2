// Package agents implements agents that use a model to decide which tools
// to call, and an executor that runs the decision loop.
package agents

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/agentchain/schema"
	"github.com/effective-security/agentchain/tools"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/agentchain", "agents")

var (
	// ErrAgentNoReturn is returned when the agent yields neither actions
	// nor a finish.
	ErrAgentNoReturn = errors.New("agents: no actions or finish was returned by the agent")
	// ErrUnableToParseOutput is returned when the model output does not
	// follow the expected format.
	ErrUnableToParseOutput = errors.New("agents: unable to parse agent output")
	// ErrInvalidOptions is returned when agent options do not fit the agent type.
	ErrInvalidOptions = errors.New("agents: invalid options")
	// ErrUnknownAgentType is returned for an unsupported agent type.
	ErrUnknownAgentType = errors.New("agents: unknown agent type")
	// ErrExecutorInputNotString is returned when the executor input is not a string.
	ErrExecutorInputNotString = errors.New("agents: input to executor was not a string")
)

// Agent decides the next actions from the question and the steps taken so
// far.
type Agent interface {
	// Plan returns either actions to execute or a finish carrying the final
	// answer.
	Plan(ctx context.Context, intermediateSteps []schema.AgentStep, inputs map[string]string) ([]schema.AgentAction, *schema.AgentFinish, error)
	GetInputKeys() []string
	GetOutputKeys() []string
	GetTools() []tools.ITool
}

// StoppedResponder lets an agent produce a final answer when the executor
// stops it before it finishes on its own.
type StoppedResponder interface {
	ReturnStoppedResponse(ctx context.Context, intermediateSteps []schema.AgentStep, inputs map[string]string) (*schema.AgentFinish, error)
}

// AgentType is the type of the agent.
type AgentType string

const (
	// ZeroShotReactDescription selects a tool from its description alone,
	// with no examples.
	ZeroShotReactDescription AgentType = "zero-shot-react-description"
)
