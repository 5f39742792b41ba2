package llmutils_test

import (
	"strings"
	"testing"

	"github.com/effective-security/agentchain/pkg/llms"
	"github.com/effective-security/agentchain/pkg/llmutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_CleanJSON(t *testing.T) {
	tcases := []struct {
		name string
		in   string
		exp  string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"prefixed", `Sure, here you go: {"a":1}`, `{"a":1}`},
		{"suffixed", `{"a":1} Hope this helps!`, `{"a":1}`},
		{"array", `the list: [1,2,3] done`, `[1,2,3]`},
		{"no_json", `no json here`, `no json here`},
	}
	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.exp, string(llmutils.CleanJSON([]byte(tc.in))))
		})
	}
}

func Test_TrimBackticks(t *testing.T) {
	in := "```json\n{\"a\": 1}\n```"
	assert.Equal(t, `{"a": 1}`, llmutils.TrimBackticks(in))

	in = "```\n{\"a\": 1}\n```"
	assert.Equal(t, `{"a": 1}`, llmutils.TrimBackticks(in))

	assert.Equal(t, `{"a": 1}`, llmutils.TrimBackticks(`{"a": 1}`))
}

func Test_BackticksJSON(t *testing.T) {
	out := llmutils.BackticksJSON(`{"a": 1}`)
	assert.True(t, strings.HasPrefix(out, "\n```json\n"))
	assert.True(t, strings.HasSuffix(out, "\n```\n"))
}

func Test_MergeInputs(t *testing.T) {
	merged := llmutils.MergeInputs(
		map[string]any{"a": 1, "b": 2},
		map[string]any{"b": 3, "c": 4},
	)
	assert.Equal(t, map[string]any{"a": 1, "b": 3, "c": 4}, merged)
}

func Test_CountSizes(t *testing.T) {
	msgs := []llms.Message{
		llms.MessageFromTextParts(llms.RoleHuman, "hello"),
	}
	assert.Equal(t, uint64(len("human")+len("hello")), llmutils.CountMessagesContentSize(msgs))

	resp := &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: "world"}},
	}
	assert.Equal(t, uint64(5), llmutils.CountResponseContentSize(resp))
	assert.Equal(t, uint64(0), llmutils.CountResponseContentSize(nil))
}

func Test_CountTokens(t *testing.T) {
	resp := &llms.ContentResponse{
		Choices: []*llms.ContentChoice{
			{
				Content: "x",
				GenerationInfo: map[string]any{
					"InputTokens":  int64(10),
					"OutputTokens": 5,
					"TotalTokens":  float64(15),
				},
			},
		},
	}
	in, out, total := llmutils.CountTokens(resp)
	assert.Equal(t, int64(10), in)
	assert.Equal(t, int64(5), out)
	assert.Equal(t, int64(15), total)
}

func Test_PrintMessages(t *testing.T) {
	var sb strings.Builder
	llmutils.PrintMessages(&sb, []llms.Message{
		llms.MessageFromTextParts(llms.RoleSystem, "be brief"),
		llms.MessageFromTextParts(llms.RoleHuman, "hi"),
	})
	out := sb.String()
	require.Contains(t, out, "SYSTEM: be brief")
	require.Contains(t, out, "HUMAN: hi")
}
