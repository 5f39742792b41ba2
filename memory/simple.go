// Package memory provides chain memory implementations over message stores.
package memory

import (
	"context"

	"github.com/effective-security/agentchain/schema"
)

// Simple is a memory that loads nothing and saves nothing. Chains without
// memory use it so GetMemory never returns nil.
type Simple struct{}

var _ schema.Memory = Simple{}

// NewSimple returns an empty memory.
func NewSimple() Simple {
	return Simple{}
}

func (Simple) MemoryVariables(context.Context) []string {
	return nil
}

func (Simple) LoadMemoryVariables(context.Context, map[string]any) (map[string]any, error) {
	return map[string]any{}, nil
}

func (Simple) SaveContext(context.Context, map[string]any, map[string]any) error {
	return nil
}

func (Simple) Clear(context.Context) error {
	return nil
}
