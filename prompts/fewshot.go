package prompts

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/agentchain/pkg/llms"
)

// FewShotPrompt renders a prefix, a list of formatted examples and a suffix,
// joined by a separator.
type FewShotPrompt struct {
	// Examples to format into the prompt.
	Examples []map[string]string
	// ExamplePrompt formats a single example.
	ExamplePrompt PromptTemplate
	// Prefix is rendered before the examples.
	Prefix string
	// Suffix is rendered after the examples, usually holding the question.
	Suffix string
	// InputVariables are the variables the final prompt expects.
	InputVariables []string
	// ExampleSeparator joins prefix, examples and suffix. Defaults to "\n\n".
	ExampleSeparator string
	// TemplateFormat of the prefix and suffix.
	TemplateFormat TemplateFormat
	// PartialVariables for the prefix and suffix.
	PartialVariables map[string]any
}

var (
	_ Formatter      = (*FewShotPrompt)(nil)
	_ FormatPrompter = (*FewShotPrompt)(nil)
)

// ErrNoExamples is returned when a few-shot prompt has no examples.
var ErrNoExamples = errors.New("prompts: no examples provided")

// NewFewShotPrompt creates a FewShotPrompt with validation.
func NewFewShotPrompt(examplePrompt PromptTemplate, examples []map[string]string,
	prefix, suffix string, inputVariables []string, partialVariables map[string]any,
	exampleSeparator string, templateFormat TemplateFormat,
) (*FewShotPrompt, error) {
	if len(examples) == 0 {
		return nil, errors.WithStack(ErrNoExamples)
	}
	if exampleSeparator == "" {
		exampleSeparator = "\n\n"
	}
	if templateFormat == "" {
		templateFormat = TemplateFormatFString
	}
	return &FewShotPrompt{
		Examples:         examples,
		ExamplePrompt:    examplePrompt,
		Prefix:           prefix,
		Suffix:           suffix,
		InputVariables:   inputVariables,
		ExampleSeparator: exampleSeparator,
		TemplateFormat:   templateFormat,
		PartialVariables: partialVariables,
	}, nil
}

// Format renders the full few-shot prompt.
func (p *FewShotPrompt) Format(values map[string]any) (string, error) {
	resolved, err := resolvePartialValues(p.PartialVariables, values)
	if err != nil {
		return "", err
	}
	for _, v := range p.InputVariables {
		if _, ok := resolved[v]; !ok {
			return "", errors.WithMessagef(ErrNeedsInput, "%q", v)
		}
	}

	pieces := make([]string, 0, len(p.Examples)+2)
	if p.Prefix != "" {
		prefix, err := RenderTemplate(p.Prefix, p.TemplateFormat, resolved)
		if err != nil {
			return "", err
		}
		pieces = append(pieces, prefix)
	}
	for _, example := range p.Examples {
		exampleValues := make(map[string]any, len(example))
		for k, v := range example {
			exampleValues[k] = v
		}
		formatted, err := p.ExamplePrompt.Format(exampleValues)
		if err != nil {
			return "", err
		}
		pieces = append(pieces, formatted)
	}
	if p.Suffix != "" {
		suffix, err := RenderTemplate(p.Suffix, p.TemplateFormat, resolved)
		if err != nil {
			return "", err
		}
		pieces = append(pieces, suffix)
	}

	return strings.Join(pieces, p.ExampleSeparator), nil
}

// FormatPrompt renders the prompt into a string prompt value.
func (p *FewShotPrompt) FormatPrompt(values map[string]any) (llms.PromptValue, error) {
	formatted, err := p.Format(values)
	if err != nil {
		return nil, err
	}
	return StringPromptValue(formatted), nil
}

// GetInputVariables returns the input variables the prompt expects.
func (p *FewShotPrompt) GetInputVariables() []string {
	return p.InputVariables
}
