// Package callbacks provides handlers for chain, agent, model and tool
// lifecycle events.
package callbacks

import (
	"context"

	"github.com/effective-security/agentchain/pkg/llms"
	"github.com/effective-security/agentchain/schema"
	"github.com/effective-security/agentchain/tools"
)

// Handler receives lifecycle events from chains, agents, models and tools.
type Handler interface {
	OnChainStart(ctx context.Context, name string, inputs map[string]any)
	OnChainEnd(ctx context.Context, name string, outputs map[string]any)
	OnChainError(ctx context.Context, name string, err error)

	OnLLMStart(ctx context.Context, model string, messages []llms.Message)
	OnLLMEnd(ctx context.Context, model string, resp *llms.ContentResponse)
	OnLLMError(ctx context.Context, model string, err error)

	OnAgentAction(ctx context.Context, agent string, action schema.AgentAction)
	OnAgentFinish(ctx context.Context, agent string, finish schema.AgentFinish)

	OnToolStart(ctx context.Context, tool tools.ITool, input string)
	OnToolEnd(ctx context.Context, tool tools.ITool, input string, output string)
	OnToolError(ctx context.Context, tool tools.ITool, input string, err error)
	OnToolNotFound(ctx context.Context, agent string, tool string)

	OnText(ctx context.Context, text string)
}

// ensure that the callbacks implement the correct interfaces
var (
	_ Handler        = (*Noop)(nil)
	_ tools.Callback = (*Noop)(nil)
	_ Handler        = (*Fanout)(nil)
	_ tools.Callback = (*Fanout)(nil)
)

// Noop is a handler that ignores all events. Embed it to implement a subset.
type Noop struct{}

func (Noop) OnChainStart(context.Context, string, map[string]any)          {}
func (Noop) OnChainEnd(context.Context, string, map[string]any)            {}
func (Noop) OnChainError(context.Context, string, error)                   {}
func (Noop) OnLLMStart(context.Context, string, []llms.Message)            {}
func (Noop) OnLLMEnd(context.Context, string, *llms.ContentResponse)       {}
func (Noop) OnLLMError(context.Context, string, error)                     {}
func (Noop) OnAgentAction(context.Context, string, schema.AgentAction)     {}
func (Noop) OnAgentFinish(context.Context, string, schema.AgentFinish)     {}
func (Noop) OnToolStart(context.Context, tools.ITool, string)              {}
func (Noop) OnToolEnd(context.Context, tools.ITool, string, string)        {}
func (Noop) OnToolError(context.Context, tools.ITool, string, error)       {}
func (Noop) OnToolNotFound(context.Context, string, string)                {}
func (Noop) OnText(context.Context, string)                                {}

// Fanout is a callback handler that forwards the events to multiple handlers.
type Fanout struct {
	handlers []Handler
}

// NewFanout creates a Fanout over the given handlers.
func NewFanout(handlers ...Handler) *Fanout {
	return &Fanout{handlers: handlers}
}

// Add appends a handler.
func (l *Fanout) Add(handler Handler) {
	l.handlers = append(l.handlers, handler)
}

func (l *Fanout) OnChainStart(ctx context.Context, name string, inputs map[string]any) {
	for _, h := range l.handlers {
		h.OnChainStart(ctx, name, inputs)
	}
}

func (l *Fanout) OnChainEnd(ctx context.Context, name string, outputs map[string]any) {
	for _, h := range l.handlers {
		h.OnChainEnd(ctx, name, outputs)
	}
}

func (l *Fanout) OnChainError(ctx context.Context, name string, err error) {
	for _, h := range l.handlers {
		h.OnChainError(ctx, name, err)
	}
}

func (l *Fanout) OnLLMStart(ctx context.Context, model string, messages []llms.Message) {
	for _, h := range l.handlers {
		h.OnLLMStart(ctx, model, messages)
	}
}

func (l *Fanout) OnLLMEnd(ctx context.Context, model string, resp *llms.ContentResponse) {
	for _, h := range l.handlers {
		h.OnLLMEnd(ctx, model, resp)
	}
}

func (l *Fanout) OnLLMError(ctx context.Context, model string, err error) {
	for _, h := range l.handlers {
		h.OnLLMError(ctx, model, err)
	}
}

func (l *Fanout) OnAgentAction(ctx context.Context, agent string, action schema.AgentAction) {
	for _, h := range l.handlers {
		h.OnAgentAction(ctx, agent, action)
	}
}

func (l *Fanout) OnAgentFinish(ctx context.Context, agent string, finish schema.AgentFinish) {
	for _, h := range l.handlers {
		h.OnAgentFinish(ctx, agent, finish)
	}
}

func (l *Fanout) OnToolStart(ctx context.Context, tool tools.ITool, input string) {
	for _, h := range l.handlers {
		h.OnToolStart(ctx, tool, input)
	}
}

func (l *Fanout) OnToolEnd(ctx context.Context, tool tools.ITool, input string, output string) {
	for _, h := range l.handlers {
		h.OnToolEnd(ctx, tool, input, output)
	}
}

func (l *Fanout) OnToolError(ctx context.Context, tool tools.ITool, input string, err error) {
	for _, h := range l.handlers {
		h.OnToolError(ctx, tool, input, err)
	}
}

func (l *Fanout) OnToolNotFound(ctx context.Context, agent string, tool string) {
	for _, h := range l.handlers {
		h.OnToolNotFound(ctx, agent, tool)
	}
}

func (l *Fanout) OnText(ctx context.Context, text string) {
	for _, h := range l.handlers {
		h.OnText(ctx, text)
	}
}
