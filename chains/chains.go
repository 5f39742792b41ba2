// Package chains composes calls to language models into reusable
// transformations over maps of named inputs and outputs.
package chains

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/agentchain/pkg/llmutils"
	"github.com/effective-security/agentchain/pkg/metricskey"
	"github.com/effective-security/agentchain/schema"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/agentchain", "chains")

var (
	// ErrInvalidInputValues is returned when the chain inputs do not match its input keys.
	ErrInvalidInputValues = errors.New("chains: missing required input values")
	// ErrInvalidOutputValues is returned when the chain outputs do not match its output keys.
	ErrInvalidOutputValues = errors.New("chains: missing required output values")
	// ErrMultipleInputsInRun is returned in the run function if the chain expects more than one input value.
	ErrMultipleInputsInRun = errors.New("chains: run not supported in chain with more than one expected input")
	// ErrMultipleOutputsInRun is returned in the run function if the chain expects more than one output value.
	ErrMultipleOutputsInRun = errors.New("chains: run not supported in chain with more than one expected output")
	// ErrWrongOutputTypeInRun is returned in the run function if the chain returns a non-string output.
	ErrWrongOutputTypeInRun = errors.New("chains: run not supported in chain that returns value that is not string")
	// ErrInputValuesWrongType is returned if an input value to a chain is of the wrong type.
	ErrInputValuesWrongType = errors.New("chains: input key is of wrong type")
)

// Chain is the interface all chains must implement.
type Chain interface {
	// Call runs the logic of the chain and returns the output. This method should
	// not be called directly. Use the Call, Run or Predict functions that
	// handle memory and callbacks.
	Call(ctx context.Context, inputs map[string]any, options ...Option) (map[string]any, error)
	// GetMemory returns the memory of the chain.
	GetMemory() schema.Memory
	// GetInputKeys returns the input keys the chain expects.
	GetInputKeys() []string
	// GetOutputKeys returns the output keys the chain returns.
	GetOutputKeys() []string
}

// Named lets a chain report a name for logs and metrics.
type Named interface {
	Name() string
}

func chainName(c Chain) string {
	if n, ok := c.(Named); ok {
		return n.Name()
	}
	return "chain"
}

// Call evaluates the chain with the inputs given, after loading memory
// variables, and saves the context to memory afterwards.
func Call(ctx context.Context, c Chain, inputValues map[string]any, options ...Option) (map[string]any, error) {
	name := chainName(c)
	started := time.Now()
	defer metricskey.PerfChainCall.MeasureSince(started, name)

	cfg := applyOptions(options...)
	if cfg.CallbackHandler != nil {
		cfg.CallbackHandler.OnChainStart(ctx, name, inputValues)
	}

	outputValues, err := callChain(ctx, c, inputValues, options...)
	if err != nil {
		metricskey.StatsChainCallsFailed.IncrCounter(1, name)
		if cfg.CallbackHandler != nil {
			cfg.CallbackHandler.OnChainError(ctx, name, err)
		}
		return nil, err
	}
	metricskey.StatsChainCallsSucceeded.IncrCounter(1, name)
	if cfg.CallbackHandler != nil {
		cfg.CallbackHandler.OnChainEnd(ctx, name, outputValues)
	}
	return outputValues, nil
}

func callChain(ctx context.Context, c Chain, inputValues map[string]any, options ...Option) (map[string]any, error) {
	fullValues := make(map[string]any, len(inputValues))
	for key, value := range inputValues {
		fullValues[key] = value
	}

	newValues, err := c.GetMemory().LoadMemoryVariables(ctx, inputValues)
	if err != nil {
		return nil, err
	}
	fullValues = llmutils.MergeInputs(fullValues, newValues)

	if err := validateInputs(c, fullValues); err != nil {
		return nil, err
	}

	outputValues, err := c.Call(ctx, fullValues, options...)
	if err != nil {
		return nil, err
	}
	if err := validateOutputs(c, outputValues); err != nil {
		return nil, err
	}

	if err := c.GetMemory().SaveContext(ctx, inputValues, outputValues); err != nil {
		return nil, err
	}
	return outputValues, nil
}

// Run can be used to execute a chain if the chain only expects one string
// input and returns one string output.
func Run(ctx context.Context, c Chain, input any, options ...Option) (string, error) {
	inputKeys := c.GetInputKeys()
	memoryKeys := c.GetMemory().MemoryVariables(ctx)
	neededKeys := make([]string, 0, len(inputKeys))

	// Remove keys gotten from the memory.
	for _, inputKey := range inputKeys {
		isInMemory := false
		for _, memoryKey := range memoryKeys {
			if inputKey == memoryKey {
				isInMemory = true
				break
			}
		}
		if !isInMemory {
			neededKeys = append(neededKeys, inputKey)
		}
	}

	if len(neededKeys) != 1 {
		return "", errors.WithStack(ErrMultipleInputsInRun)
	}
	outputKeys := c.GetOutputKeys()
	if len(outputKeys) != 1 {
		return "", errors.WithStack(ErrMultipleOutputsInRun)
	}

	inputValues := map[string]any{neededKeys[0]: input}
	outputValues, err := Call(ctx, c, inputValues, options...)
	if err != nil {
		return "", err
	}

	outputValue, ok := outputValues[outputKeys[0]].(string)
	if !ok {
		return "", errors.WithStack(ErrWrongOutputTypeInRun)
	}
	return outputValue, nil
}

// Predict can be used to execute a chain that returns a single string output.
func Predict(ctx context.Context, c Chain, inputValues map[string]any, options ...Option) (string, error) {
	outputValues, err := Call(ctx, c, inputValues, options...)
	if err != nil {
		return "", err
	}

	outputKeys := c.GetOutputKeys()
	if len(outputKeys) != 1 {
		return "", errors.WithStack(ErrMultipleOutputsInRun)
	}
	outputValue, ok := outputValues[outputKeys[0]].(string)
	if !ok {
		return "", errors.WithStack(ErrWrongOutputTypeInRun)
	}
	return outputValue, nil
}

func validateInputs(c Chain, inputValues map[string]any) error {
	for _, k := range c.GetInputKeys() {
		if _, ok := inputValues[k]; !ok {
			return errors.WithMessagef(ErrInvalidInputValues, "missing key %q", k)
		}
	}
	return nil
}

func validateOutputs(c Chain, outputValues map[string]any) error {
	for _, k := range c.GetOutputKeys() {
		if _, ok := outputValues[k]; !ok {
			return errors.WithMessagef(ErrInvalidOutputValues, "missing key %q", k)
		}
	}
	return nil
}
