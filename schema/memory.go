package schema

import "context"

// Memory is the interface for chain memory: variables loaded before a call
// and saved after it.
type Memory interface {
	// MemoryVariables returns the input keys this memory class will load.
	MemoryVariables(ctx context.Context) []string
	// LoadMemoryVariables returns key-value pairs given the text input to the chain.
	LoadMemoryVariables(ctx context.Context, inputs map[string]any) (map[string]any, error)
	// SaveContext saves the context of this model run to memory.
	SaveContext(ctx context.Context, inputs map[string]any, outputs map[string]any) error
	// Clear memory contents.
	Clear(ctx context.Context) error
}
