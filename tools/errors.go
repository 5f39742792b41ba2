package tools

import "github.com/cockroachdb/errors"

var (
	// ErrFailedUnmarshalInput is returned when the tool input does not match the schema.
	ErrFailedUnmarshalInput = errors.New("failed to unmarshal input: check the schema and try again")
	// ErrToolNotFound is returned when a tool name is not registered.
	ErrToolNotFound = errors.New("tool not found")
	// ErrDuplicateTool is returned when a tool name is registered twice.
	ErrDuplicateTool = errors.New("tool already registered")
)
