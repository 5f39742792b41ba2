// Package metricskey describes the metrics emitted by this module.
package metricskey

import "github.com/effective-security/metrics"

// Stats
var (
	// StatsLLMMessagesSent is base for counter metric for total messages sent to LLM
	StatsLLMMessagesSent = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_llm_messages_sent",
		Help:         "stats_llm_messages_sent provides total messages sent to LLM",
		RequiredTags: []string{"chain", "model"},
	}

	StatsLLMBytesSent = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_llm_bytes_sent",
		Help:         "stats_llm_bytes_sent provides total bytes sent to LLM",
		RequiredTags: []string{"chain", "model"},
	}

	StatsLLMBytesReceived = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_llm_bytes_received",
		Help:         "stats_llm_bytes_received provides total bytes received from LLM",
		RequiredTags: []string{"chain", "model"},
	}

	StatsLLMInputTokens = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_llm_input_tokens",
		Help:         "stats_llm_input_tokens provides total input tokens sent to LLM",
		RequiredTags: []string{"chain", "model"},
	}

	StatsLLMOutputTokens = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_llm_output_tokens",
		Help:         "stats_llm_output_tokens provides total output tokens received from LLM",
		RequiredTags: []string{"chain", "model"},
	}

	StatsChainCallsSucceeded = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_chain_calls_succeeded",
		Help:         "stats_chain_calls_succeeded provides total chain calls succeeded",
		RequiredTags: []string{"chain"},
	}

	StatsChainCallsFailed = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_chain_calls_failed",
		Help:         "stats_chain_calls_failed provides total chain calls failed",
		RequiredTags: []string{"chain"},
	}

	StatsAgentIterations = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_agent_iterations",
		Help:         "stats_agent_iterations provides total agent plan iterations",
		RequiredTags: []string{"agent"},
	}

	StatsAgentParseErrors = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_agent_parse_errors",
		Help:         "stats_agent_parse_errors provides total agent output parse errors",
		RequiredTags: []string{"agent"},
	}

	StatsToolCallsSucceeded = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_tool_calls_succeeded",
		Help:         "stats_tool_calls_succeeded provides total tool calls succeeded",
		RequiredTags: []string{"tool"},
	}

	StatsToolCallsFailed = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_tool_calls_failed",
		Help:         "stats_tool_calls_failed provides total tool calls failed",
		RequiredTags: []string{"tool"},
	}

	StatsToolCallsNotFound = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_tool_calls_not_found",
		Help:         "stats_tool_calls_not_found provides total tool calls to unknown tools",
		RequiredTags: []string{"tool"},
	}

	StatsVectorSearches = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_vector_searches",
		Help:         "stats_vector_searches provides total similarity searches",
		RequiredTags: []string{"store"},
	}
)

// Perf
var (
	PerfChainCall = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_chain_call",
		Help:         "perf_chain_call provides duration of chain call",
		RequiredTags: []string{"chain"},
	}

	PerfAgentRun = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_agent_run",
		Help:         "perf_agent_run provides duration of agent executor run",
		RequiredTags: []string{"agent"},
	}

	PerfToolCall = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_tool_call",
		Help:         "perf_tool_call provides duration of tool call",
		RequiredTags: []string{"tool"},
	}
)

// Metrics returns slice of metrics from this repo
// keep sorted by name
var Metrics = []*metrics.Describe{
	&PerfAgentRun,
	&PerfChainCall,
	&PerfToolCall,
	&StatsAgentIterations,
	&StatsAgentParseErrors,
	&StatsChainCallsFailed,
	&StatsChainCallsSucceeded,
	&StatsLLMBytesReceived,
	&StatsLLMBytesSent,
	&StatsLLMInputTokens,
	&StatsLLMMessagesSent,
	&StatsLLMOutputTokens,
	&StatsToolCallsFailed,
	&StatsToolCallsNotFound,
	&StatsToolCallsSucceeded,
	&StatsVectorSearches,
}
