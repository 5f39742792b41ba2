// Package openai implements the llms.Model interface on the official
// OpenAI SDK. The same client also serves embeddings.
package openai

import (
	"context"
	"encoding/json"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/agentchain/pkg/llms"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
)

var (
	ErrEmptyResponse = errors.New("openai: empty response")
	ErrMissingToken  = errors.New("openai: missing API key, set it in the OPENAI_API_KEY environment variable")
)

// LLM is the OpenAI chat model.
type LLM struct {
	client  openai.Client
	options *Options
}

var _ llms.Model = (*LLM)(nil)

// New creates a new OpenAI LLM client. If no token is provided via options,
// the OPENAI_API_KEY environment variable is used.
func New(opts ...Option) (*LLM, error) {
	options := &Options{
		Token:          os.Getenv(TokenEnvVarName),
		Model:          DefaultModel,
		EmbeddingModel: DefaultEmbeddingModel,
	}
	for _, opt := range opts {
		opt(options)
	}
	if options.Token == "" {
		return nil, errors.WithStack(ErrMissingToken)
	}

	sdkOpts := []option.RequestOption{
		option.WithAPIKey(options.Token),
	}
	if options.BaseURL != "" {
		sdkOpts = append(sdkOpts, option.WithBaseURL(options.BaseURL))
	}
	if options.Organization != "" {
		sdkOpts = append(sdkOpts, option.WithOrganization(options.Organization))
	}
	if options.HttpClient != nil {
		sdkOpts = append(sdkOpts, option.WithHTTPClient(options.HttpClient))
	}

	return &LLM{
		client:  openai.NewClient(sdkOpts...),
		options: options,
	}, nil
}

// GetName implements the Model interface.
func (o *LLM) GetName() string {
	return o.options.Model
}

// GetProviderType implements the Model interface.
func (o *LLM) GetProviderType() llms.ProviderType {
	return llms.ProviderOpenAI
}

// GenerateContent implements the Model interface.
func (o *LLM) GenerateContent(ctx context.Context, messages []llms.Message, options ...llms.CallOption) (*llms.ContentResponse, error) {
	opts := llms.CallOptions{
		Model: o.options.Model,
	}
	for _, opt := range options {
		opt(&opts)
	}

	sdkMessages, err := processMessages(messages)
	if err != nil {
		return nil, errors.WithMessage(err, "openai: failed to process messages")
	}

	params := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(opts.Model),
		Messages: sdkMessages,
	}
	if opts.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(opts.MaxTokens))
	}
	if opts.Temperature > 0 {
		params.Temperature = openai.Float(opts.Temperature)
	}
	if opts.TopP > 0 {
		params.TopP = openai.Float(opts.TopP)
	}
	if opts.Seed != 0 {
		params.Seed = openai.Int(int64(opts.Seed))
	}
	if opts.CandidateCount > 1 {
		params.N = openai.Int(int64(opts.CandidateCount))
	}
	if len(opts.StopWords) > 0 {
		params.Stop = openai.ChatCompletionNewParamsStopUnion{
			OfStringArray: opts.StopWords,
		}
	}
	if opts.JSONMode {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}
	if tools := toTools(opts.Tools); len(tools) > 0 {
		params.Tools = tools
	}

	completion, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, errors.WithMessage(err, "openai: failed to create chat completion")
	}
	if len(completion.Choices) == 0 {
		return nil, errors.WithStack(ErrEmptyResponse)
	}

	choices := make([]*llms.ContentChoice, len(completion.Choices))
	for i, c := range completion.Choices {
		choice := &llms.ContentChoice{
			Content:    c.Message.Content,
			StopReason: string(c.FinishReason),
			GenerationInfo: map[string]any{
				"InputTokens":  completion.Usage.PromptTokens,
				"OutputTokens": completion.Usage.CompletionTokens,
				"TotalTokens":  completion.Usage.TotalTokens,
				"ID":           completion.ID,
				"Index":        i,
			},
		}
		for _, tc := range c.Message.ToolCalls {
			call := llms.ToolCall{
				ID:   tc.ID,
				Type: "function",
				FunctionCall: &llms.FunctionCall{
					Name:      tc.Function.Name,
					Arguments: tc.Function.Arguments,
				},
			}
			choice.ToolCalls = append(choice.ToolCalls, call)
		}
		if len(choice.ToolCalls) > 0 {
			choice.FuncCall = choice.ToolCalls[0].FunctionCall
		}
		choices[i] = choice
	}

	return &llms.ContentResponse{Choices: choices}, nil
}

// CreateEmbedding implements the embeddings client interface.
func (o *LLM) CreateEmbedding(ctx context.Context, texts []string) ([][]float32, error) {
	resp, err := o.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model: openai.EmbeddingModel(o.options.EmbeddingModel),
		Input: openai.EmbeddingNewParamsInputUnion{
			OfArrayOfStrings: texts,
		},
	})
	if err != nil {
		return nil, errors.WithMessage(err, "openai: failed to create embeddings")
	}
	if len(resp.Data) != len(texts) {
		return nil, errors.Newf("openai: expected %d embeddings, got %d", len(texts), len(resp.Data))
	}

	embeddings := make([][]float32, len(resp.Data))
	for i, d := range resp.Data {
		vec := make([]float32, len(d.Embedding))
		for j, v := range d.Embedding {
			vec[j] = float32(v)
		}
		embeddings[i] = vec
	}
	return embeddings, nil
}

func processMessages(messages []llms.Message) ([]openai.ChatCompletionMessageParamUnion, error) {
	sdkMessages := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case llms.RoleSystem:
			sdkMessages = append(sdkMessages, openai.SystemMessage(msg.GetContent()))
		case llms.RoleHuman, llms.RoleGeneric:
			sdkMessages = append(sdkMessages, openai.UserMessage(msg.GetContent()))
		case llms.RoleAI:
			am, err := assistantMessage(msg)
			if err != nil {
				return nil, err
			}
			sdkMessages = append(sdkMessages, am)
		case llms.RoleTool:
			for _, part := range msg.Parts {
				resp, ok := part.(llms.ToolCallResponse)
				if !ok {
					return nil, errors.Newf("openai: unsupported tool message part %T", part)
				}
				sdkMessages = append(sdkMessages, openai.ToolMessage(resp.Content, resp.ToolCallID))
			}
		default:
			return nil, errors.Newf("openai: unsupported message role %q", msg.Role)
		}
	}
	return sdkMessages, nil
}

func assistantMessage(msg llms.Message) (openai.ChatCompletionMessageParamUnion, error) {
	var toolCalls []openai.ChatCompletionMessageToolCallUnionParam
	var text string
	for _, part := range msg.Parts {
		switch p := part.(type) {
		case llms.TextContent:
			text += p.Text
		case llms.ToolCall:
			toolCalls = append(toolCalls, openai.ChatCompletionMessageToolCallUnionParam{
				OfFunction: &openai.ChatCompletionMessageFunctionToolCallParam{
					ID: p.ID,
					Function: openai.ChatCompletionMessageFunctionToolCallFunctionParam{
						Name:      p.FunctionCall.Name,
						Arguments: p.FunctionCall.Arguments,
					},
				},
			})
		default:
			return openai.ChatCompletionMessageParamUnion{}, errors.Newf("openai: unsupported assistant message part %T", part)
		}
	}

	if len(toolCalls) == 0 {
		return openai.AssistantMessage(text), nil
	}

	am := openai.ChatCompletionAssistantMessageParam{
		ToolCalls: toolCalls,
	}
	if text != "" {
		am.Content = openai.ChatCompletionAssistantMessageParamContentUnion{
			OfString: openai.String(text),
		}
	}
	return openai.ChatCompletionMessageParamUnion{OfAssistant: &am}, nil
}

func toTools(tools []llms.Tool) []openai.ChatCompletionToolUnionParam {
	if len(tools) == 0 {
		return nil
	}
	sdkTools := make([]openai.ChatCompletionToolUnionParam, 0, len(tools))
	for _, tool := range tools {
		if tool.Function == nil {
			continue
		}
		def := shared.FunctionDefinitionParam{
			Name: tool.Function.Name,
		}
		if tool.Function.Description != "" {
			def.Description = openai.String(tool.Function.Description)
		}
		if tool.Function.Parameters != nil {
			def.Parameters = toFunctionParameters(tool.Function.Parameters)
		}
		if tool.Function.Strict {
			def.Strict = openai.Bool(true)
		}
		sdkTools = append(sdkTools, openai.ChatCompletionFunctionTool(def))
	}
	return sdkTools
}

// toFunctionParameters converts a reflected jsonschema into the loose map the
// SDK expects.
func toFunctionParameters(s any) shared.FunctionParameters {
	bs, err := json.Marshal(s)
	if err != nil {
		return nil
	}
	var params map[string]any
	if err := json.Unmarshal(bs, &params); err != nil {
		return nil
	}
	return shared.FunctionParameters(params)
}
