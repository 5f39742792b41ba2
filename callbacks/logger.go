package callbacks

import (
	"context"

	"github.com/effective-security/agentchain/pkg/llms"
	"github.com/effective-security/agentchain/pkg/llmutils"
	"github.com/effective-security/agentchain/schema"
	"github.com/effective-security/agentchain/tools"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/agentchain", "callbacks")

// PackageLogger emits events to the package structured logger.
type PackageLogger struct {
	Noop
}

var _ Handler = (*PackageLogger)(nil)

// NewPackageLogger returns a handler that logs events with xlog.
func NewPackageLogger() *PackageLogger {
	return &PackageLogger{}
}

func (l *PackageLogger) OnChainStart(ctx context.Context, name string, inputs map[string]any) {
	logger.ContextKV(ctx, xlog.DEBUG,
		"chain", name,
		"status", "started",
		"inputs", len(inputs),
	)
}

func (l *PackageLogger) OnChainEnd(ctx context.Context, name string, outputs map[string]any) {
	logger.ContextKV(ctx, xlog.DEBUG,
		"chain", name,
		"status", "finished",
		"outputs", len(outputs),
	)
}

func (l *PackageLogger) OnChainError(ctx context.Context, name string, err error) {
	logger.ContextKV(ctx, xlog.ERROR,
		"chain", name,
		"status", "failed",
		"err", err.Error(),
	)
}

func (l *PackageLogger) OnLLMStart(ctx context.Context, model string, messages []llms.Message) {
	logger.ContextKV(ctx, xlog.DEBUG,
		"model", model,
		"status", "generating",
		"messages", len(messages),
		"size", llmutils.CountMessagesContentSize(messages),
	)
}

func (l *PackageLogger) OnLLMEnd(ctx context.Context, model string, resp *llms.ContentResponse) {
	logger.ContextKV(ctx, xlog.DEBUG,
		"model", model,
		"status", "generated",
		"size", llmutils.CountResponseContentSize(resp),
	)
}

func (l *PackageLogger) OnLLMError(ctx context.Context, model string, err error) {
	logger.ContextKV(ctx, xlog.ERROR,
		"model", model,
		"status", "failed",
		"err", err.Error(),
	)
}

func (l *PackageLogger) OnAgentAction(ctx context.Context, agent string, action schema.AgentAction) {
	logger.ContextKV(ctx, xlog.DEBUG,
		"agent", agent,
		"tool", action.Tool,
		"input", action.ToolInput,
	)
}

func (l *PackageLogger) OnAgentFinish(ctx context.Context, agent string, finish schema.AgentFinish) {
	logger.ContextKV(ctx, xlog.DEBUG,
		"agent", agent,
		"status", "finished",
	)
}

func (l *PackageLogger) OnToolStart(ctx context.Context, tool tools.ITool, input string) {
	logger.ContextKV(ctx, xlog.DEBUG,
		"tool", tool.Name(),
		"status", "started",
		"input", input,
	)
}

func (l *PackageLogger) OnToolEnd(ctx context.Context, tool tools.ITool, _ string, output string) {
	logger.ContextKV(ctx, xlog.DEBUG,
		"tool", tool.Name(),
		"status", "finished",
		"size", len(output),
	)
}

func (l *PackageLogger) OnToolError(ctx context.Context, tool tools.ITool, input string, err error) {
	logger.ContextKV(ctx, xlog.ERROR,
		"tool", tool.Name(),
		"input", input,
		"err", err.Error(),
	)
}

func (l *PackageLogger) OnToolNotFound(ctx context.Context, agent string, tool string) {
	logger.ContextKV(ctx, xlog.WARNING,
		"agent", agent,
		"tool", tool,
		"status", "not_found",
	)
}
