package prompts

import (
	"bytes"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/cockroachdb/errors"
	"github.com/nikolalohinski/gonja"
)

// TemplateFormat is the format of the template.
type TemplateFormat string

const (
	// TemplateFormatGoTemplate is the format for Go templates, with sprig functions.
	TemplateFormatGoTemplate TemplateFormat = "go-template"
	// TemplateFormatJinja2 is the format for jinja2 templates.
	TemplateFormatJinja2 TemplateFormat = "jinja2"
	// TemplateFormatFString is the format for python-style f-string templates.
	TemplateFormatFString TemplateFormat = "f-string"
)

// ErrInvalidTemplateFormat is returned for an unsupported template format.
var ErrInvalidTemplateFormat = errors.New("prompts: invalid template format")

type interpolator func(template string, values map[string]any) (string, error)

var defaultFormatterMapping = map[TemplateFormat]interpolator{
	TemplateFormatGoTemplate: interpolateGoTemplate,
	TemplateFormatJinja2:     interpolateJinja2,
	TemplateFormatFString:    interpolateFString,
}

// RenderTemplate renders the template with the given values.
func RenderTemplate(tmpl string, tmplFormat TemplateFormat, values map[string]any) (string, error) {
	formatter, ok := defaultFormatterMapping[tmplFormat]
	if !ok {
		return "", errors.WithMessagef(ErrInvalidTemplateFormat, "%s", tmplFormat)
	}
	return formatter(tmpl, values)
}

// CheckValidTemplate validates that the template renders with fake values for
// the declared input variables.
func CheckValidTemplate(tmpl string, tmplFormat TemplateFormat, inputVariables []string) error {
	_, ok := defaultFormatterMapping[tmplFormat]
	if !ok {
		return errors.WithMessagef(ErrInvalidTemplateFormat, "%s", tmplFormat)
	}

	dummyInputs := make(map[string]any, len(inputVariables))
	for _, v := range inputVariables {
		dummyInputs[v] = "foo"
	}

	_, err := RenderTemplate(tmpl, tmplFormat, dummyInputs)
	return err
}

func interpolateGoTemplate(tmpl string, values map[string]any) (string, error) {
	parsedTmpl, err := template.New("template").
		Funcs(sprig.TxtFuncMap()).
		Option("missingkey=error").
		Parse(tmpl)
	if err != nil {
		return "", errors.Wrap(err, "prompts: failed to parse go template")
	}

	var sb bytes.Buffer
	if err := parsedTmpl.Execute(&sb, values); err != nil {
		return "", errors.Wrap(err, "prompts: failed to execute go template")
	}
	return sb.String(), nil
}

func interpolateJinja2(tmpl string, values map[string]any) (string, error) {
	tpl, err := gonja.FromString(tmpl)
	if err != nil {
		return "", errors.Wrap(err, "prompts: failed to parse jinja2 template")
	}
	out, err := tpl.Execute(gonja.Context(values))
	if err != nil {
		return "", errors.Wrap(err, "prompts: failed to render jinja2 template")
	}
	return out, nil
}

// interpolateFString renders python-style f-string templates: {name} is
// substituted, {{ and }} are literal braces.
func interpolateFString(tmpl string, values map[string]any) (string, error) {
	var sb bytes.Buffer
	runes := []rune(tmpl)
	for i := 0; i < len(runes); i++ {
		switch runes[i] {
		case '{':
			if i+1 < len(runes) && runes[i+1] == '{' {
				sb.WriteRune('{')
				i++
				continue
			}
			end := -1
			for j := i + 1; j < len(runes); j++ {
				if runes[j] == '}' {
					end = j
					break
				}
			}
			if end == -1 {
				return "", errors.New("prompts: single '{' in f-string template")
			}
			name := string(runes[i+1 : end])
			val, ok := values[name]
			if !ok {
				return "", errors.Newf("prompts: missing value for input variable %q", name)
			}
			sb.WriteString(toString(val))
			i = end
		case '}':
			if i+1 < len(runes) && runes[i+1] == '}' {
				sb.WriteRune('}')
				i++
				continue
			}
			return "", errors.New("prompts: single '}' in f-string template")
		default:
			sb.WriteRune(runes[i])
		}
	}
	return sb.String(), nil
}
