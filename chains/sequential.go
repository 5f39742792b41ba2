package chains

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/agentchain/memory"
	"github.com/effective-security/agentchain/schema"
)

var (
	// ErrChainInitialization is returned when a sequential chain cannot be
	// built from the given chains.
	ErrChainInitialization = errors.New("chains: failed to initialize sequential chain")
)

// SequentialChain runs chains in order, feeding the accumulated outputs of
// earlier chains as inputs to later ones.
type SequentialChain struct {
	chains     []Chain
	inputKeys  []string
	outputKeys []string
	memory     schema.Memory
}

var (
	_ Chain = (*SequentialChain)(nil)
	_ Named = (*SequentialChain)(nil)
)

// SequentialChainOption configures a SequentialChain.
type SequentialChainOption func(*SequentialChain)

// WithSeqMemory sets the memory of the sequential chain.
func WithSeqMemory(m schema.Memory) SequentialChainOption {
	return func(c *SequentialChain) {
		c.memory = m
	}
}

// NewSequentialChain validates that the chains connect: every chain's inputs
// must be produced by an earlier chain or given up front, no chain may
// shadow a known variable, and every requested output must be produced.
func NewSequentialChain(chains []Chain, inputKeys []string, outputKeys []string, opts ...SequentialChainOption) (*SequentialChain, error) {
	s := &SequentialChain{
		chains:     chains,
		inputKeys:  inputKeys,
		outputKeys: outputKeys,
		memory:     memory.NewSimple(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.validateSeqChain(); err != nil {
		return nil, err
	}
	return s, nil
}

func (c *SequentialChain) validateSeqChain() error {
	knownKeys := toSet(c.inputKeys)

	// Make sure memory keys don't collide with input keys
	memoryKeys := c.memory.MemoryVariables(context.Background())
	for _, key := range memoryKeys {
		if _, ok := knownKeys[key]; ok {
			return errors.WithMessagef(ErrChainInitialization,
				"overlapping input and memory keys: %v", key)
		}
		knownKeys[key] = struct{}{}
	}

	for i, chain := range c.chains {
		var missingKeys []string
		for _, key := range chain.GetInputKeys() {
			if _, ok := knownKeys[key]; !ok {
				missingKeys = append(missingKeys, key)
			}
		}
		if len(missingKeys) > 0 {
			return errors.WithMessagef(ErrChainInitialization,
				"missing required input keys: %v, only had: %v", missingKeys, keys(knownKeys))
		}

		var overlappingKeys []string
		for _, key := range chain.GetOutputKeys() {
			if _, ok := knownKeys[key]; ok {
				overlappingKeys = append(overlappingKeys, key)
			}
		}
		if len(overlappingKeys) > 0 {
			return errors.WithMessagef(ErrChainInitialization,
				"chain at index %d returns keys that already exist: %v", i, overlappingKeys)
		}

		for _, key := range chain.GetOutputKeys() {
			knownKeys[key] = struct{}{}
		}
	}

	var missingOutputKeys []string
	for _, key := range c.outputKeys {
		if _, ok := knownKeys[key]; !ok {
			missingOutputKeys = append(missingOutputKeys, key)
		}
	}
	if len(missingOutputKeys) > 0 {
		return errors.WithMessagef(ErrChainInitialization,
			"expected output keys that were not found: %v", missingOutputKeys)
	}
	return nil
}

func (c *SequentialChain) Name() string {
	return "sequential_chain"
}

// Call runs the chains in order. Use the package-level Call function instead
// of calling this directly.
func (c *SequentialChain) Call(ctx context.Context, inputs map[string]any, options ...Option) (map[string]any, error) {
	var outputs map[string]any
	var err error
	for _, chain := range c.chains {
		outputs, err = Call(ctx, chain, inputs, options...)
		if err != nil {
			return nil, err
		}
		// Accumulate the outputs for the next chain in the sequence.
		for k, v := range outputs {
			inputs[k] = v
		}
	}

	result := make(map[string]any, len(c.outputKeys))
	for _, k := range c.outputKeys {
		result[k] = inputs[k]
	}
	return result, nil
}

func (c *SequentialChain) GetMemory() schema.Memory {
	return c.memory
}

func (c *SequentialChain) GetInputKeys() []string {
	return c.inputKeys
}

func (c *SequentialChain) GetOutputKeys() []string {
	return c.outputKeys
}

const (
	simpleSequentialInputKey  = "input"
	simpleSequentialOutputKey = "output"
)

// SimpleSequentialChain runs single-input single-output chains in order,
// where the output of one chain is the input to the next.
type SimpleSequentialChain struct {
	chains    []Chain
	memory    schema.Memory
	StripText bool
}

var (
	_ Chain = (*SimpleSequentialChain)(nil)
	_ Named = (*SimpleSequentialChain)(nil)
)

// NewSimpleSequentialChain validates that every chain expects a single input
// and returns a single output.
func NewSimpleSequentialChain(chains []Chain) (*SimpleSequentialChain, error) {
	for i, chain := range chains {
		if len(chain.GetInputKeys()) != 1 {
			return nil, errors.WithMessagef(ErrChainInitialization,
				"chain at index %d expects %d inputs, want 1", i, len(chain.GetInputKeys()))
		}
		if len(chain.GetOutputKeys()) != 1 {
			return nil, errors.WithMessagef(ErrChainInitialization,
				"chain at index %d returns %d outputs, want 1", i, len(chain.GetOutputKeys()))
		}
	}
	return &SimpleSequentialChain{
		chains:    chains,
		memory:    memory.NewSimple(),
		StripText: true,
	}, nil
}

func (c *SimpleSequentialChain) Name() string {
	return "simple_sequential_chain"
}

// Call threads the single input through the chains. Use the package-level
// Call function instead of calling this directly.
func (c *SimpleSequentialChain) Call(ctx context.Context, inputs map[string]any, options ...Option) (map[string]any, error) {
	input, ok := inputs[simpleSequentialInputKey].(string)
	if !ok {
		return nil, errors.WithMessagef(ErrInputValuesWrongType, "%q is not a string", simpleSequentialInputKey)
	}

	for _, chain := range c.chains {
		var err error
		input, err = Run(ctx, chain, input, options...)
		if err != nil {
			return nil, err
		}
		if c.StripText {
			input = strings.TrimSpace(input)
		}
	}
	return map[string]any{simpleSequentialOutputKey: input}, nil
}

func (c *SimpleSequentialChain) GetMemory() schema.Memory {
	return c.memory
}

func (c *SimpleSequentialChain) GetInputKeys() []string {
	return []string{simpleSequentialInputKey}
}

func (c *SimpleSequentialChain) GetOutputKeys() []string {
	return []string{simpleSequentialOutputKey}
}

func toSet(list []string) map[string]struct{} {
	set := make(map[string]struct{}, len(list))
	for _, s := range list {
		set[s] = struct{}{}
	}
	return set
}

func keys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}
