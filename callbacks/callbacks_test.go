package callbacks_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/agentchain/callbacks"
	"github.com/effective-security/agentchain/schema"
	"github.com/stretchr/testify/assert"
)

type countingHandler struct {
	callbacks.Noop
	chainStarts int
	texts       []string
}

func (h *countingHandler) OnChainStart(_ context.Context, _ string, _ map[string]any) {
	h.chainStarts++
}

func (h *countingHandler) OnText(_ context.Context, text string) {
	h.texts = append(h.texts, text)
}

func Test_Fanout(t *testing.T) {
	first := &countingHandler{}
	second := &countingHandler{}
	fanout := callbacks.NewFanout(first)
	fanout.Add(second)

	fanout.OnChainStart(t.Context(), "llm_chain", map[string]any{"input": "q"})
	fanout.OnText(t.Context(), "thinking")
	fanout.OnText(t.Context(), "done")

	assert.Equal(t, 1, first.chainStarts)
	assert.Equal(t, 1, second.chainStarts)
	assert.Equal(t, []string{"thinking", "done"}, first.texts)
	assert.Equal(t, []string{"thinking", "done"}, second.texts)
}

func Test_Printer(t *testing.T) {
	var buf bytes.Buffer
	p := callbacks.NewPrinter(&buf)

	p.OnChainStart(t.Context(), "llm_chain", map[string]any{"input": "q"})
	p.OnAgentAction(t.Context(), "zero_shot_agent", schema.AgentAction{
		Tool:      "Search",
		ToolInput: "weather",
	})
	p.OnChainError(t.Context(), "llm_chain", errors.New("boom"))
	p.OnChainEnd(t.Context(), "llm_chain", map[string]any{"text": "a"})

	out := buf.String()
	assert.Contains(t, out, "> Entering chain llm_chain")
	assert.Contains(t, out, "  input: q")
	assert.Contains(t, out, "> Agent zero_shot_agent invokes Search: weather")
	assert.Contains(t, out, "> Chain llm_chain failed: boom")
	assert.Contains(t, out, "> Finished chain llm_chain")
}
