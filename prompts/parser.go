package prompts

import "strings"

// NoOpParser returns the model output unchanged, with surrounding
// whitespace trimmed.
type NoOpParser struct{}

var _ Parser[any] = NoOpParser{}

// NewNoOpParser returns a parser that passes text through.
func NewNoOpParser() NoOpParser {
	return NoOpParser{}
}

func (NoOpParser) Parse(text string) (any, error) {
	return strings.TrimSpace(text), nil
}

func (NoOpParser) GetFormatInstructions() string {
	return ""
}

func (NoOpParser) Type() string {
	return "no_op_parser"
}
