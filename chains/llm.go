package chains

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/agentchain/memory"
	"github.com/effective-security/agentchain/pkg/llms"
	"github.com/effective-security/agentchain/pkg/llmutils"
	"github.com/effective-security/agentchain/pkg/metricskey"
	"github.com/effective-security/agentchain/prompts"
	"github.com/effective-security/agentchain/schema"
)

const llmChainDefaultOutputKey = "text"

// LLMChain formats a prompt from the inputs, calls the model and parses the
// single choice into the output key.
type LLMChain struct {
	Prompt       prompts.FormatPrompter
	LLM          llms.Model
	Memory       schema.Memory
	OutputParser prompts.Parser[any]
	OutputKey    string
}

var (
	_ Chain = (*LLMChain)(nil)
	_ Named = (*LLMChain)(nil)
)

// NewLLMChain creates an LLMChain with the given model and prompt.
func NewLLMChain(model llms.Model, prompt prompts.FormatPrompter) *LLMChain {
	return &LLMChain{
		Prompt:       prompt,
		LLM:          model,
		Memory:       memory.NewSimple(),
		OutputParser: prompts.NewNoOpParser(),
		OutputKey:    llmChainDefaultOutputKey,
	}
}

func (c *LLMChain) Name() string {
	return "llm_chain"
}

// Call formats the prompt from the input values, generates a completion and
// parses it. Use the package-level Call, Run or Predict functions instead of
// calling this directly.
func (c *LLMChain) Call(ctx context.Context, values map[string]any, options ...Option) (map[string]any, error) {
	promptValue, err := c.Prompt.FormatPrompt(values)
	if err != nil {
		return nil, err
	}

	messages := promptValue.Messages()
	result, err := generateWithMetrics(ctx, c.LLM, c.Name(), messages, getCallCallOptions(options...)...)
	if err != nil {
		return nil, err
	}
	if len(result.Choices) == 0 {
		return nil, errors.New("chains: empty response from model")
	}

	finalOutput, err := c.OutputParser.Parse(result.Choices[0].Content)
	if err != nil {
		return nil, err
	}
	return map[string]any{c.OutputKey: finalOutput}, nil
}

func (c *LLMChain) GetMemory() schema.Memory {
	return c.Memory
}

// GetInputKeys returns the input variables the prompt expects.
func (c *LLMChain) GetInputKeys() []string {
	return c.Prompt.GetInputVariables()
}

func (c *LLMChain) GetOutputKeys() []string {
	return []string{c.OutputKey}
}

// generateWithMetrics calls the model and records transfer and token usage
// counters tagged by chain and model name.
func generateWithMetrics(ctx context.Context, model llms.Model, chain string, messages []llms.Message, options ...llms.CallOption) (*llms.ContentResponse, error) {
	name := model.GetName()
	metricskey.StatsLLMMessagesSent.IncrCounter(float64(len(messages)), chain, name)
	metricskey.StatsLLMBytesSent.IncrCounter(float64(llmutils.CountMessagesContentSize(messages)), chain, name)

	resp, err := model.GenerateContent(ctx, messages, options...)
	if err != nil {
		return nil, err
	}

	metricskey.StatsLLMBytesReceived.IncrCounter(float64(llmutils.CountResponseContentSize(resp)), chain, name)
	in, out, _ := llmutils.CountTokens(resp)
	if in > 0 {
		metricskey.StatsLLMInputTokens.IncrCounter(float64(in), chain, name)
	}
	if out > 0 {
		metricskey.StatsLLMOutputTokens.IncrCounter(float64(out), chain, name)
	}
	return resp, nil
}
