// Package encoding provides schema-aware parsers for LLM output: the model
// is instructed to reply in a structured format, and the reply is decoded
// leniently back into a Go type.
package encoding

import (
	"github.com/cockroachdb/errors"
)

// Mode selects the wire format the model is asked to reply in.
type Mode = string

const (
	ModeJSON      Mode = "json"
	ModeYAML      Mode = "yaml"
	ModeTOML      Mode = "toml"
	ModePlainText Mode = "plain_text"
)

// ModeDefault is the default mode for the encoder.
// Apps may override.
var ModeDefault = ModeJSON

// SchemaEncoder marshals and unmarshals a typed request and renders the
// format instructions for the prompt.
type SchemaEncoder interface {
	Marshal(req any) ([]byte, error)
	Unmarshal([]byte, any) error
	// GetFormatInstructions returns the wrapped message with message schema for the prompt.
	GetFormatInstructions() string
}

// NewEncoder returns an encoder for the mode, describing the given type.
func NewEncoder(mode Mode, req any) (SchemaEncoder, error) {
	switch mode {
	case ModeJSON:
		return NewJSONEncoder(req)
	case ModeYAML:
		return NewYAMLEncoder(req)
	case ModeTOML:
		return NewTOMLEncoder(req)
	case ModePlainText:
		return NewPlainTextEncoder(), nil
	}
	return nil, errors.Newf("encoding: no predefined encoder for mode %q", mode)
}
