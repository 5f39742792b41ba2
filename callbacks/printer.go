package callbacks

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/effective-security/agentchain/pkg/llms"
	"github.com/effective-security/agentchain/schema"
	"github.com/effective-security/agentchain/tools"
)

// Printer writes events as plain text, for interactive debugging.
type Printer struct {
	Noop
	w io.Writer
}

var _ Handler = (*Printer)(nil)

// NewPrinter creates a Printer writing to w, or to stdout when w is nil.
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{w: w}
}

func (p *Printer) OnChainStart(_ context.Context, name string, inputs map[string]any) {
	fmt.Fprintf(p.w, "> Entering chain %s\n", name)
	for k, v := range inputs {
		fmt.Fprintf(p.w, "  %s: %v\n", k, v)
	}
}

func (p *Printer) OnChainEnd(_ context.Context, name string, outputs map[string]any) {
	fmt.Fprintf(p.w, "> Finished chain %s\n", name)
	for k, v := range outputs {
		fmt.Fprintf(p.w, "  %s: %v\n", k, v)
	}
}

func (p *Printer) OnChainError(_ context.Context, name string, err error) {
	fmt.Fprintf(p.w, "> Chain %s failed: %s\n", name, err.Error())
}

func (p *Printer) OnLLMStart(_ context.Context, model string, messages []llms.Message) {
	fmt.Fprintf(p.w, "> Calling model %s with %d messages\n", model, len(messages))
}

func (p *Printer) OnAgentAction(_ context.Context, agent string, action schema.AgentAction) {
	fmt.Fprintf(p.w, "> Agent %s invokes %s: %s\n", agent, action.Tool, action.ToolInput)
}

func (p *Printer) OnAgentFinish(_ context.Context, agent string, finish schema.AgentFinish) {
	fmt.Fprintf(p.w, "> Agent %s finished\n", agent)
}

func (p *Printer) OnToolStart(_ context.Context, tool tools.ITool, input string) {
	fmt.Fprintf(p.w, "> Tool %s: %s\n", tool.Name(), input)
}

func (p *Printer) OnToolEnd(_ context.Context, tool tools.ITool, _ string, output string) {
	fmt.Fprintf(p.w, "> Tool %s returned: %s\n", tool.Name(), output)
}

func (p *Printer) OnToolError(_ context.Context, tool tools.ITool, _ string, err error) {
	fmt.Fprintf(p.w, "> Tool %s failed: %s\n", tool.Name(), err.Error())
}

func (p *Printer) OnText(_ context.Context, text string) {
	fmt.Fprintln(p.w, text)
}
