package schema

// AgentAction is the agent's decision to invoke a tool with a given input.
type AgentAction struct {
	Tool      string
	ToolInput string
	Log       string
	ToolID    string
}

// AgentStep pairs an executed action with the observation it produced.
type AgentStep struct {
	Action      AgentAction
	Observation string
}

// AgentFinish is the agent's final response.
type AgentFinish struct {
	ReturnValues map[string]any
	Log          string
}
