package agents

import (
	"github.com/effective-security/agentchain/callbacks"
	"github.com/effective-security/agentchain/memory"
	"github.com/effective-security/agentchain/schema"
)

const (
	defaultOutputKey           = "output"
	defaultMaxIterations       = 15
	defaultEarlyStoppingMethod = "force"
)

type agentOptions struct {
	prefix             string
	formatInstructions string
	suffix             string
	outputKey          string

	maxIterations           int
	earlyStoppingMethod     string
	returnIntermediateSteps bool

	memory          schema.Memory
	callbackHandler callbacks.Handler
}

// Option configures an agent or an executor.
type Option func(*agentOptions)

func applyAgentOptions(opts ...Option) *agentOptions {
	cfg := &agentOptions{
		prefix:              mrklPrefix,
		formatInstructions:  mrklFormatInstructions,
		suffix:              mrklSuffix,
		outputKey:           defaultOutputKey,
		maxIterations:       defaultMaxIterations,
		earlyStoppingMethod: defaultEarlyStoppingMethod,
		memory:              memory.NewSimple(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithPrefix replaces the prompt prefix above the tool descriptions.
func WithPrefix(prefix string) Option {
	return func(o *agentOptions) {
		o.prefix = prefix
	}
}

// WithFormatInstructions replaces the format instructions of the prompt.
func WithFormatInstructions(instructions string) Option {
	return func(o *agentOptions) {
		o.formatInstructions = instructions
	}
}

// WithSuffix replaces the prompt suffix holding the question and scratchpad.
func WithSuffix(suffix string) Option {
	return func(o *agentOptions) {
		o.suffix = suffix
	}
}

// WithOutputKey sets the key the final answer is returned under.
func WithOutputKey(key string) Option {
	return func(o *agentOptions) {
		o.outputKey = key
	}
}

// WithMaxIterations bounds the number of plan iterations of the executor.
func WithMaxIterations(iterations int) Option {
	return func(o *agentOptions) {
		o.maxIterations = iterations
	}
}

// WithEarlyStoppingMethod sets how the executor produces an answer when it
// hits the iteration bound: "force" returns a fixed stop message,
// "generate" asks the model to wrap up from the steps taken so far.
func WithEarlyStoppingMethod(method string) Option {
	return func(o *agentOptions) {
		o.earlyStoppingMethod = method
	}
}

// WithReturnIntermediateSteps includes the executed steps in the output.
func WithReturnIntermediateSteps() Option {
	return func(o *agentOptions) {
		o.returnIntermediateSteps = true
	}
}

// WithMemory sets the memory of the executor.
func WithMemory(m schema.Memory) Option {
	return func(o *agentOptions) {
		o.memory = m
	}
}

// WithCallback sets the callback handler for agent and tool events.
func WithCallback(handler callbacks.Handler) Option {
	return func(o *agentOptions) {
		o.callbackHandler = handler
	}
}
