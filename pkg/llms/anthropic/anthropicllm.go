// Package anthropic implements the llms.Model interface on the official
// Anthropic SDK.
package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/agentchain/pkg/llms"
)

var (
	ErrEmptyResponse          = errors.New("anthropic: no response")
	ErrMissingToken           = errors.New("anthropic: missing API key, set it in the ANTHROPIC_API_KEY environment variable")
	ErrUnsupportedMessageRole = errors.New("anthropic: unsupported message role")
	ErrUnsupportedContentType = errors.New("anthropic: unsupported content type")
)

const (
	// DefaultMaxTokens is used when the call does not set a limit;
	// the API requires one.
	DefaultMaxTokens = 4096
)

// LLM is the Anthropic chat model.
type LLM struct {
	Client  *anthropic.Client
	Options *Options
}

var _ llms.Model = (*LLM)(nil)

// New creates a new Anthropic LLM client. If no token is provided via
// options, the ANTHROPIC_API_KEY environment variable is used.
func New(opts ...Option) (*LLM, error) {
	options := &Options{
		Token:      os.Getenv(TokenEnvVarName),
		HttpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(options)
	}

	if options.Token == "" {
		return nil, errors.WithStack(ErrMissingToken)
	}
	if options.Model == "" {
		return nil, errors.New("anthropic: model is required")
	}

	sdkOpts := []option.RequestOption{
		option.WithAPIKey(options.Token),
		option.WithMaxRetries(2),
		option.WithRequestTimeout(5 * time.Minute),
	}
	if options.BaseURL != "" {
		sdkOpts = append(sdkOpts, option.WithBaseURL(options.BaseURL))
	}
	if options.HttpClient != nil {
		sdkOpts = append(sdkOpts, option.WithHTTPClient(options.HttpClient))
	}

	client := anthropic.NewClient(sdkOpts...)
	return &LLM{
		Client:  &client,
		Options: options,
	}, nil
}

// GetName implements the Model interface.
func (o *LLM) GetName() string {
	return o.Options.Model
}

// GetProviderType implements the Model interface.
func (o *LLM) GetProviderType() llms.ProviderType {
	return llms.ProviderAnthropic
}

// GenerateContent implements the Model interface.
func (o *LLM) GenerateContent(ctx context.Context, messages []llms.Message, options ...llms.CallOption) (*llms.ContentResponse, error) {
	opts := llms.CallOptions{
		Model: o.Options.Model,
	}
	for _, opt := range options {
		opt(&opts)
	}

	sdkMessages, systemPrompt, err := processMessages(messages)
	if err != nil {
		return nil, errors.WithMessage(err, "anthropic: failed to process messages")
	}

	maxTokens := int64(opts.MaxTokens)
	if maxTokens == 0 {
		maxTokens = DefaultMaxTokens
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(opts.Model),
		Messages:  sdkMessages,
		MaxTokens: maxTokens,
	}
	if systemPrompt != "" {
		params.System = []anthropic.TextBlockParam{
			{Type: "text", Text: systemPrompt},
		}
	}
	if opts.Temperature > 0 {
		params.Temperature = anthropic.Float(opts.Temperature)
	}
	if opts.TopP > 0 {
		params.TopP = anthropic.Float(opts.TopP)
	}
	if len(opts.StopWords) > 0 {
		params.StopSequences = opts.StopWords
	}
	if tools := toTools(opts.Tools); len(tools) > 0 {
		params.Tools = tools
	}

	if opts.StreamingFunc != nil {
		return generateStreamingContent(ctx, o, params, opts.StreamingFunc)
	}

	result, err := o.Client.Messages.New(ctx, params)
	if err != nil {
		return nil, errors.WithMessage(err, "anthropic: failed to create message")
	}
	if len(result.Content) == 0 {
		return nil, errors.WithStack(ErrEmptyResponse)
	}

	choices := make([]*llms.ContentChoice, len(result.Content))
	for i, contentBlock := range result.Content {
		info := map[string]any{
			"InputTokens":  result.Usage.InputTokens,
			"OutputTokens": result.Usage.OutputTokens,
			"TotalTokens":  result.Usage.InputTokens + result.Usage.OutputTokens,
			"ID":           result.ID,
			"Index":        i,
		}
		switch content := contentBlock.AsAny().(type) {
		case anthropic.TextBlock:
			choices[i] = &llms.ContentChoice{
				Content:        content.Text,
				StopReason:     string(result.StopReason),
				GenerationInfo: info,
			}
		case anthropic.ToolUseBlock:
			argumentsJSON, err := json.Marshal(content.Input)
			if err != nil {
				return nil, errors.WithMessage(err, "anthropic: failed to marshal tool use arguments")
			}
			choices[i] = &llms.ContentChoice{
				ToolCalls: []llms.ToolCall{
					{
						ID:   content.ID,
						Type: "function",
						FunctionCall: &llms.FunctionCall{
							Name:      content.Name,
							Arguments: string(argumentsJSON),
						},
					},
				},
				StopReason:     string(result.StopReason),
				GenerationInfo: info,
			}
		default:
			return nil, errors.WithMessagef(ErrUnsupportedContentType, "%T", content)
		}
	}

	return &llms.ContentResponse{Choices: choices}, nil
}

func generateStreamingContent(ctx context.Context, o *LLM, params anthropic.MessageNewParams, streamingFunc func(context.Context, []byte) error) (*llms.ContentResponse, error) {
	stream := o.Client.Messages.NewStreaming(ctx, params)
	defer stream.Close()

	var content strings.Builder
	var toolCalls []llms.ToolCall
	var currentToolCall *llms.ToolCall
	var stopReason string
	var inputTokens, outputTokens int64

	for stream.Next() {
		event := stream.Current()

		switch evt := event.AsAny().(type) {
		case anthropic.MessageStartEvent:
			inputTokens = evt.Message.Usage.InputTokens
		case anthropic.ContentBlockStartEvent:
			if block, ok := evt.ContentBlock.AsAny().(anthropic.ToolUseBlock); ok {
				currentToolCall = &llms.ToolCall{
					ID:   block.ID,
					Type: "function",
					FunctionCall: &llms.FunctionCall{
						Name: block.Name,
					},
				}
			}
		case anthropic.ContentBlockDeltaEvent:
			switch delta := evt.Delta.AsAny().(type) {
			case anthropic.TextDelta:
				content.WriteString(delta.Text)
				if err := streamingFunc(ctx, []byte(delta.Text)); err != nil {
					return nil, errors.WithMessage(err, "anthropic: streaming function error")
				}
			case anthropic.InputJSONDelta:
				if currentToolCall != nil {
					currentToolCall.FunctionCall.Arguments += delta.PartialJSON
				}
			}
		case anthropic.ContentBlockStopEvent:
			if currentToolCall != nil {
				toolCalls = append(toolCalls, *currentToolCall)
				currentToolCall = nil
			}
		case anthropic.MessageDeltaEvent:
			stopReason = string(evt.Delta.StopReason)
			outputTokens = evt.Usage.OutputTokens
		}
	}
	if err := stream.Err(); err != nil {
		return nil, errors.WithMessage(err, "anthropic: streaming error")
	}

	info := map[string]any{
		"InputTokens":  inputTokens,
		"OutputTokens": outputTokens,
		"TotalTokens":  inputTokens + outputTokens,
	}

	var choices []*llms.ContentChoice
	if content.Len() > 0 {
		choices = append(choices, &llms.ContentChoice{
			Content:        content.String(),
			StopReason:     stopReason,
			GenerationInfo: info,
		})
	}
	if len(toolCalls) > 0 {
		choices = append(choices, &llms.ContentChoice{
			ToolCalls:      toolCalls,
			StopReason:     stopReason,
			GenerationInfo: info,
		})
	}
	if len(choices) == 0 {
		return nil, errors.WithStack(ErrEmptyResponse)
	}

	return &llms.ContentResponse{Choices: choices}, nil
}

// processMessages converts module messages to SDK messages, splitting out the
// system prompt, which the API carries separately.
func processMessages(messages []llms.Message) ([]anthropic.MessageParam, string, error) {
	var sdkMessages []anthropic.MessageParam
	var systemPrompt strings.Builder

	for _, msg := range messages {
		switch msg.Role {
		case llms.RoleSystem:
			systemPrompt.WriteString(msg.GetContent())
		case llms.RoleHuman, llms.RoleGeneric:
			sdkMessages = append(sdkMessages, anthropic.MessageParam{
				Role:    anthropic.MessageParamRoleUser,
				Content: textBlocks(msg),
			})
		case llms.RoleAI:
			blocks, err := assistantBlocks(msg)
			if err != nil {
				return nil, "", err
			}
			sdkMessages = append(sdkMessages, anthropic.MessageParam{
				Role:    anthropic.MessageParamRoleAssistant,
				Content: blocks,
			})
		case llms.RoleTool:
			blocks, err := toolResultBlocks(msg)
			if err != nil {
				return nil, "", err
			}
			// Tool results are sent back as user content.
			sdkMessages = append(sdkMessages, anthropic.MessageParam{
				Role:    anthropic.MessageParamRoleUser,
				Content: blocks,
			})
		default:
			return nil, "", errors.WithMessagef(ErrUnsupportedMessageRole, "%s", msg.Role)
		}
	}
	return sdkMessages, systemPrompt.String(), nil
}

func textBlocks(msg llms.Message) []anthropic.ContentBlockParamUnion {
	var blocks []anthropic.ContentBlockParamUnion
	for _, part := range msg.Parts {
		if tc, ok := part.(llms.TextContent); ok {
			blocks = append(blocks, anthropic.ContentBlockParamUnion{
				OfText: &anthropic.TextBlockParam{Text: tc.Text},
			})
		}
	}
	return blocks
}

func assistantBlocks(msg llms.Message) ([]anthropic.ContentBlockParamUnion, error) {
	var blocks []anthropic.ContentBlockParamUnion
	for _, part := range msg.Parts {
		switch p := part.(type) {
		case llms.TextContent:
			blocks = append(blocks, anthropic.ContentBlockParamUnion{
				OfText: &anthropic.TextBlockParam{Text: p.Text},
			})
		case llms.ToolCall:
			var input any
			if err := json.Unmarshal([]byte(p.FunctionCall.Arguments), &input); err != nil {
				return nil, errors.WithMessage(err, "anthropic: invalid tool call arguments")
			}
			blocks = append(blocks, anthropic.ContentBlockParamUnion{
				OfToolUse: &anthropic.ToolUseBlockParam{
					ID:    p.ID,
					Name:  p.FunctionCall.Name,
					Input: input,
				},
			})
		default:
			return nil, errors.WithMessagef(ErrUnsupportedContentType, "%T", part)
		}
	}
	return blocks, nil
}

func toolResultBlocks(msg llms.Message) ([]anthropic.ContentBlockParamUnion, error) {
	var blocks []anthropic.ContentBlockParamUnion
	for _, part := range msg.Parts {
		resp, ok := part.(llms.ToolCallResponse)
		if !ok {
			return nil, errors.WithMessagef(ErrUnsupportedContentType, "%T", part)
		}
		blocks = append(blocks, anthropic.ContentBlockParamUnion{
			OfToolResult: &anthropic.ToolResultBlockParam{
				ToolUseID: resp.ToolCallID,
				Content: []anthropic.ToolResultBlockParamContentUnion{
					{OfText: &anthropic.TextBlockParam{Text: resp.Content}},
				},
			},
		})
	}
	return blocks, nil
}

// toTools converts tool definitions to Anthropic SDK tool parameters.
func toTools(tools []llms.Tool) []anthropic.ToolUnionParam {
	if len(tools) == 0 {
		return nil
	}

	sdkTools := make([]anthropic.ToolUnionParam, len(tools))
	for i, tool := range tools {
		var properties map[string]any
		var required []string
		if tool.Function.Parameters != nil {
			if tool.Function.Parameters.Properties != nil {
				properties = make(map[string]any)
				for pair := tool.Function.Parameters.Properties.Oldest(); pair != nil; pair = pair.Next() {
					properties[pair.Key] = pair.Value
				}
			}
			required = tool.Function.Parameters.Required
		}

		inputSchema := anthropic.ToolInputSchemaParam{
			Type:       "object",
			Properties: properties,
		}
		if len(required) > 0 {
			inputSchema.Required = required
		}

		sdkTools[i] = anthropic.ToolUnionParam{
			OfTool: &anthropic.ToolParam{
				Name:        tool.Function.Name,
				Description: anthropic.String(tool.Function.Description),
				InputSchema: inputSchema,
			},
		}
	}
	return sdkTools
}
