package agents

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/agentchain/chains"
	"github.com/effective-security/agentchain/pkg/llms"
	"github.com/effective-security/agentchain/pkg/metricskey"
	"github.com/effective-security/agentchain/prompts"
	"github.com/effective-security/agentchain/schema"
	"github.com/effective-security/agentchain/tools"
)

const (
	mrklPrefix = `Answer the following questions as best you can. You have access to the following tools:

{tool_descriptions}`

	mrklFormatInstructions = `Use the following format:

Question: the input question you must answer
Thought: you should always think about what to do
Action: the action to take, should be one of [{tool_names}]
Action Input: the input to the action
Observation: the result of the action
... (this Thought/Action/Action Input/Observation can repeat N times)
Thought: I now know the final answer
Final Answer: the final answer to the original input question`

	mrklSuffix = `Begin!

Question: {input}
Thought:{agent_scratchpad}`

	mrklFinalAnswerPrefix = "Final Answer:"
	mrklObservationPrefix = "\nObservation: "
	mrklThoughtPrefix     = "\nThought: "
)

var mrklActionRe = regexp.MustCompile(`(?s)Action\s*\d*\s*:(.*?)\nAction\s*\d*\s*Input\s*\d*\s*:\s*(.*)`)

// ZeroShotAgent picks a tool from the tool descriptions alone and expects
// the model to reply in Action / Action Input / Final Answer format.
type ZeroShotAgent struct {
	// Chain is the LLMChain producing the next thought.
	Chain *chains.LLMChain
	// Tools the agent may choose from.
	Tools []tools.ITool
	// OutputKey is the key the final answer is returned under.
	OutputKey string
}

var (
	_ Agent            = (*ZeroShotAgent)(nil)
	_ StoppedResponder = (*ZeroShotAgent)(nil)
)

// NewZeroShotAgent creates a ZeroShotAgent from a model and tools.
func NewZeroShotAgent(model llms.Model, list []tools.ITool, opts ...Option) *ZeroShotAgent {
	cfg := applyAgentOptions(opts...)
	return &ZeroShotAgent{
		Chain:     chains.NewLLMChain(model, createMRKLPrompt(list, cfg.prefix, cfg.formatInstructions, cfg.suffix)),
		Tools:     list,
		OutputKey: cfg.outputKey,
	}
}

// createMRKLPrompt renders the tool descriptions and names into the agent
// prompt template.
func createMRKLPrompt(list []tools.ITool, prefix, instructions, suffix string) prompts.PromptTemplate {
	var descriptions strings.Builder
	names := make([]string, 0, len(list))
	for _, tool := range list {
		fmt.Fprintf(&descriptions, "%s: %s\n", tool.Name(), tool.Description())
		names = append(names, tool.Name())
	}

	template := strings.Join([]string{prefix, instructions, suffix}, "\n\n")
	p := prompts.NewPromptTemplate(template, []string{"input", "agent_scratchpad"})
	return p.Partial(map[string]any{
		"tool_descriptions": strings.TrimSpace(descriptions.String()),
		"tool_names":        strings.Join(names, ", "),
	})
}

func (a *ZeroShotAgent) Name() string {
	return "zero_shot_agent"
}

// Plan runs the chain once over the question and the scratchpad of previous
// steps, and parses the reply into actions or a finish.
func (a *ZeroShotAgent) Plan(ctx context.Context, intermediateSteps []schema.AgentStep, inputs map[string]string) ([]schema.AgentAction, *schema.AgentFinish, error) {
	fullInputs := make(map[string]any, len(inputs)+1)
	for key, value := range inputs {
		fullInputs[key] = value
	}
	fullInputs["agent_scratchpad"] = constructScratchPad(intermediateSteps)

	output, err := chains.Predict(ctx, a.Chain, fullInputs,
		chains.WithStopWords([]string{"\nObservation:", "\n\tObservation:"}),
	)
	if err != nil {
		return nil, nil, err
	}
	return a.parseOutput(output)
}

func (a *ZeroShotAgent) GetInputKeys() []string {
	keys := a.Chain.GetInputKeys()
	filtered := make([]string, 0, len(keys))
	for _, key := range keys {
		if key != "agent_scratchpad" {
			filtered = append(filtered, key)
		}
	}
	return filtered
}

func (a *ZeroShotAgent) GetOutputKeys() []string {
	return []string{a.OutputKey}
}

func (a *ZeroShotAgent) GetTools() []tools.ITool {
	return a.Tools
}

// ReturnStoppedResponse asks the model to wrap up from the steps taken so
// far when the executor stops the agent early.
func (a *ZeroShotAgent) ReturnStoppedResponse(ctx context.Context, intermediateSteps []schema.AgentStep, inputs map[string]string) (*schema.AgentFinish, error) {
	fullInputs := make(map[string]any, len(inputs)+1)
	for key, value := range inputs {
		fullInputs[key] = value
	}
	fullInputs["agent_scratchpad"] = constructScratchPad(intermediateSteps) +
		"\n\nI now need to return a final answer based on the previous steps:"

	output, err := chains.Predict(ctx, a.Chain, fullInputs)
	if err != nil {
		return nil, err
	}
	if idx := strings.Index(output, mrklFinalAnswerPrefix); idx >= 0 {
		output = strings.TrimSpace(output[idx+len(mrklFinalAnswerPrefix):])
	}
	return &schema.AgentFinish{
		ReturnValues: map[string]any{a.OutputKey: output},
		Log:          output,
	}, nil
}

func (a *ZeroShotAgent) parseOutput(output string) ([]schema.AgentAction, *schema.AgentFinish, error) {
	if idx := strings.Index(output, mrklFinalAnswerPrefix); idx >= 0 {
		answer := strings.TrimSpace(output[idx+len(mrklFinalAnswerPrefix):])
		return nil, &schema.AgentFinish{
			ReturnValues: map[string]any{a.OutputKey: answer},
			Log:          output,
		}, nil
	}

	matches := mrklActionRe.FindStringSubmatch(output)
	if matches == nil {
		metricskey.StatsAgentParseErrors.IncrCounter(1, a.Name())
		return nil, nil, errors.WithMessagef(ErrUnableToParseOutput, "%q", output)
	}
	return []schema.AgentAction{
		{
			Tool:      strings.TrimSpace(matches[1]),
			ToolInput: strings.TrimSpace(strings.Trim(strings.TrimSpace(matches[2]), `"`)),
			Log:       output,
		},
	}, nil, nil
}

// constructScratchPad renders the steps taken so far back into the
// Thought/Action/Observation transcript the model continues from.
func constructScratchPad(steps []schema.AgentStep) string {
	var sb strings.Builder
	for _, step := range steps {
		sb.WriteString(step.Action.Log)
		sb.WriteString(mrklObservationPrefix)
		sb.WriteString(step.Observation)
		sb.WriteString(mrklThoughtPrefix)
	}
	return sb.String()
}
