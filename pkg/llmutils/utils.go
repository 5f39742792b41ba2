// Package llmutils provides helpers for massaging LLM inputs and outputs:
// trimming markdown fences, extracting JSON from chatty replies, merging
// prompt inputs, and counting content sizes.
package llmutils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/effective-security/agentchain/pkg/llms"
	"gopkg.in/yaml.v3"
)

// CleanJSON returns JSON by trimming prefixes and postfixes.
// This is more useful than TrimBackticks, as an LLM can reply like
// `Here you go: {json}`.
func CleanJSON(bs []byte) []byte {
	return trimPostfixAfterJSON(trimPrefixBeforeJSON(bs))
}

// Removes any prefixes before the JSON (like "Sure, here you go:")
func trimPrefixBeforeJSON(bs []byte) []byte {
	startObject := bytes.IndexByte(bs, '{')
	startArray := bytes.IndexByte(bs, '[')

	var start int
	switch {
	case startObject == -1 && startArray == -1:
		return bs
	case startObject == -1:
		start = startArray
	case startArray == -1:
		start = startObject
	default:
		start = min(startObject, startArray)
	}
	return bs[start:]
}

// Removes any postfixes after the JSON
func trimPostfixAfterJSON(bs []byte) []byte {
	endObject := bytes.LastIndexByte(bs, '}')
	endArray := bytes.LastIndexByte(bs, ']')

	var end int
	switch {
	case endObject == -1 && endArray == -1:
		return bs
	case endObject == -1:
		end = endArray
	case endArray == -1:
		end = endObject
	default:
		end = max(endObject, endArray)
	}
	return bs[:end+1]
}

var backtick = []byte("```")

// TrimBackticks removes ```json or ``` fences.
func TrimBackticks(text string) string {
	return string(BytesTrimBackticks([]byte(text)))
}

// BytesTrimBackticks removes ```json or ``` fences.
func BytesTrimBackticks(bs []byte) []byte {
	size := len(bs)
	startIndex := bytes.Index(bs, backtick)
	if startIndex == -1 {
		return bs
	}
	startIndex += len(backtick)

	for i := startIndex; i < size && bs[i] != '{' && bs[i] != '['; i++ {
		if bs[i] == '\n' {
			startIndex = i + 1
			break
		}
	}

	contentAfterStart := bs[startIndex:]
	endIndex := bytes.LastIndex(contentAfterStart, backtick)
	if endIndex == -1 {
		return contentAfterStart
	}
	return bytes.TrimSpace(contentAfterStart[:endIndex])
}

// JSONIndent re-indents a JSON body with tabs.
func JSONIndent(body string) string {
	var buf bytes.Buffer
	_ = json.Indent(&buf, []byte(body), "", "\t")
	return buf.String()
}

func ToJSON(val any) string {
	js, _ := json.Marshal(val)
	return string(js)
}

func ToJSONIndent(val any) string {
	js, _ := json.MarshalIndent(val, "", "\t")
	return string(js)
}

func ToYAML(val any) string {
	js, _ := yaml.Marshal(val)
	return string(js)
}

func BackticksJSON(js string) string {
	return "\n```json\n" + strings.TrimSpace(js) + "\n```\n"
}

func BackticksYAML(ys string) string {
	return "\n```yaml\n" + strings.TrimSpace(ys) + "\n```\n"
}

// MergeInputs merges config defaults and user inputs, user values win.
func MergeInputs(configInputs map[string]any, userInputs map[string]any) map[string]any {
	res := map[string]any{}
	for k, v := range configInputs {
		res[k] = v
	}
	for k, v := range userInputs {
		res[k] = v
	}
	return res
}

// PrintMessages is a debugging helper for a message transcript.
func PrintMessages(w io.Writer, msgs []llms.Message) {
	for _, mc := range msgs {
		fmt.Fprintf(w, "%s: ", strings.ToUpper(string(mc.Role)))
		for _, p := range mc.Parts {
			switch pp := p.(type) {
			case llms.TextContent:
				fmt.Fprintln(w, pp.Text)
			case llms.ToolCall:
				fmt.Fprintf(w, "ToolCall ID=%s, Type=%s, Func=%s(%s)\n", pp.ID, pp.Type, pp.FunctionCall.Name, pp.FunctionCall.Arguments)
			case llms.ToolCallResponse:
				fmt.Fprintf(w, "ToolCallResponse ID=%s, Name=%s, Content=%s\n", pp.ToolCallID, pp.Name, pp.Content)
			}
		}
	}
}

// CountMessagesContentSize counts the size of the content in the messages.
func CountMessagesContentSize(msgs []llms.Message) uint64 {
	var size uint64
	for _, mc := range msgs {
		size += uint64(len(mc.Role))
		for _, p := range mc.Parts {
			switch pp := p.(type) {
			case llms.TextContent:
				size += uint64(len(pp.Text))
			case llms.ToolCall:
				size += uint64(len(pp.ID)) + uint64(len(pp.Type))
				if pp.FunctionCall != nil {
					size += uint64(len(pp.FunctionCall.Name)) + uint64(len(pp.FunctionCall.Arguments))
				}
			case llms.ToolCallResponse:
				size += uint64(len(pp.ToolCallID)) + uint64(len(pp.Name)) + uint64(len(pp.Content))
			}
		}
	}
	return size
}

// CountResponseContentSize counts the size of the content in the response.
func CountResponseContentSize(resp *llms.ContentResponse) uint64 {
	if resp == nil {
		return 0
	}
	var size uint64
	for _, choice := range resp.Choices {
		size += uint64(len(choice.Content))
		for _, tc := range choice.ToolCalls {
			size += uint64(len(tc.ID)) + uint64(len(tc.Type))
			if tc.FunctionCall != nil {
				size += uint64(len(tc.FunctionCall.Name)) + uint64(len(tc.FunctionCall.Arguments))
			}
		}
	}
	return size
}

// CountTokens extracts token usage from the response GenerationInfo,
// as reported by the provider.
func CountTokens(resp *llms.ContentResponse) (in, out, total int64) {
	if resp == nil {
		return 0, 0, 0
	}
	for _, choice := range resp.Choices {
		in += asInt64(choice.GenerationInfo["InputTokens"])
		out += asInt64(choice.GenerationInfo["OutputTokens"])
		total += asInt64(choice.GenerationInfo["TotalTokens"])
	}
	return in, out, total
}

func asInt64(v any) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case float64:
		return int64(t)
	}
	return 0
}
