package prompts

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/agentchain/pkg/llms"
	"github.com/effective-security/agentchain/pkg/llmutils"
)

// ErrNeedsInput is returned when a required input variable is missing.
var ErrNeedsInput = errors.New("prompts: missing input variable")

// PromptTemplate contains common fields for all prompt templates.
type PromptTemplate struct {
	// Template is the prompt template.
	Template string

	// InputVariables is a list of variable names the prompt template expects.
	InputVariables []string

	// TemplateFormat is the format of the prompt template.
	TemplateFormat TemplateFormat

	// OutputParser is a function that parses the output of the prompt template.
	OutputParser Parser[any]

	// PartialVariables represents a map of variable names to values or
	// functions that return values. If the value is a function, it will be
	// called when the prompt template is rendered.
	PartialVariables map[string]any
}

var (
	_ Formatter      = PromptTemplate{}
	_ FormatPrompter = PromptTemplate{}
)

// Parser is an interface for parsing the output of an LLM call.
type Parser[T any] interface {
	// Parse parses the output of an LLM call.
	Parse(text string) (T, error)
	// GetFormatInstructions returns a string describing the format of the output.
	GetFormatInstructions() string
	// Type returns the string type key uniquely identifying this class of parser.
	Type() string
}

// NewPromptTemplate returns a new prompt template using the f-string renderer,
// matching the syntax the built-in agent and QA prompts are written in.
func NewPromptTemplate(template string, inputVars []string) PromptTemplate {
	return PromptTemplate{
		Template:       template,
		InputVariables: inputVars,
		TemplateFormat: TemplateFormatFString,
	}
}

// Format formats the prompt template and returns a string value.
func (p PromptTemplate) Format(values map[string]any) (string, error) {
	resolvedValues, err := resolvePartialValues(p.PartialVariables, values)
	if err != nil {
		return "", err
	}
	for _, v := range p.InputVariables {
		if _, ok := resolvedValues[v]; !ok {
			return "", errors.WithMessagef(ErrNeedsInput, "%q", v)
		}
	}

	return RenderTemplate(p.Template, p.TemplateFormat, resolvedValues)
}

// FormatPrompt formats the prompt template and returns a string prompt value.
func (p PromptTemplate) FormatPrompt(values map[string]any) (llms.PromptValue, error) {
	formattedPrompt, err := p.Format(values)
	if err != nil {
		return nil, err
	}
	return StringPromptValue(formattedPrompt), nil
}

// GetInputVariables returns the input variables the prompt expects.
func (p PromptTemplate) GetInputVariables() []string {
	return p.InputVariables
}

// Partial returns a copy of the template with the given variables fixed.
func (p PromptTemplate) Partial(values map[string]any) PromptTemplate {
	merged := llmutils.MergeInputs(p.PartialVariables, values)
	remaining := make([]string, 0, len(p.InputVariables))
	for _, v := range p.InputVariables {
		if _, ok := merged[v]; !ok {
			remaining = append(remaining, v)
		}
	}
	return PromptTemplate{
		Template:         p.Template,
		InputVariables:   remaining,
		TemplateFormat:   p.TemplateFormat,
		OutputParser:     p.OutputParser,
		PartialVariables: merged,
	}
}

func resolvePartialValues(partialValues map[string]any, values map[string]any) (map[string]any, error) {
	resolvedValues := make(map[string]any, len(partialValues)+len(values))
	for variable, value := range partialValues {
		switch value := value.(type) {
		case string:
			resolvedValues[variable] = value
		case func() string:
			resolvedValues[variable] = value()
		default:
			return nil, errors.Newf("prompts: invalid partial variable type %T for %q", value, variable)
		}
	}
	for variable, value := range values {
		resolvedValues[variable] = value
	}
	return resolvedValues, nil
}

func toString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	}
	return fmt.Sprintf("%v", v)
}
