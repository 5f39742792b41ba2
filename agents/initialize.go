package agents

import (
	"github.com/cockroachdb/errors"
	"github.com/effective-security/agentchain/pkg/llms"
	"github.com/effective-security/agentchain/tools"
)

// Initialize creates an executor for the given model, tools and agent type.
func Initialize(model llms.Model, list []tools.ITool, agentType AgentType, opts ...Option) (*Executor, error) {
	var agent Agent
	switch agentType {
	case ZeroShotReactDescription:
		agent = NewZeroShotAgent(model, list, opts...)
	default:
		return nil, errors.WithMessagef(ErrUnknownAgentType, "%q", agentType)
	}
	return NewExecutor(agent, opts...), nil
}
