// Package calculator provides a math-evaluation tool. Expressions are
// evaluated with Starlark, which gives Python-like numeric syntax without
// arbitrary code execution risks of shelling out.
package calculator

import (
	"context"
	"encoding/json"
	"math"
	"reflect"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/agentchain/pkg/llmutils"
	"github.com/effective-security/agentchain/schema"
	"github.com/effective-security/agentchain/tools"
	starmath "go.starlark.net/lib/math"
	"go.starlark.net/starlark"
)

// ToolName is the name the tool is registered under.
const ToolName = "Calculator"

func init() {
	tools.Default.MustRegister(ToolName, func() (tools.ITool, error) {
		return New()
	})
}

// Request represents the tool input.
type Request struct {
	Expression string `json:"Expression" yaml:"Expression" jsonschema:"title=Expression,description=A valid numeric expression to evaluate."`
}

// Response represents the evaluated result.
type Response struct {
	Result string `json:"Result" yaml:"Result" jsonschema:"title=Result,description=The result of the evaluated expression."`
}

// Tool evaluates numeric expressions.
type Tool struct {
	funcParams any
}

var _ tools.Tool[Request, Response] = (*Tool)(nil)

// New creates the calculator tool.
func New() (*Tool, error) {
	sc, err := schema.New(reflect.TypeOf(Request{}))
	if err != nil {
		return nil, errors.WithMessage(err, "failed to create schema")
	}
	return &Tool{
		funcParams: sc.Parameters,
	}, nil
}

func (t *Tool) Name() string {
	return ToolName
}

func (t *Tool) Description() string {
	return "Useful for getting the result of a math expression. " +
		"The input should be a valid numeric expression."
}

func (t *Tool) Parameters() any {
	return t.funcParams
}

// Run evaluates the expression.
func (t *Tool) Run(ctx context.Context, req *Request) (*Response, error) {
	expr := strings.TrimSpace(req.Expression)
	if expr == "" {
		return nil, errors.New("invalid request: empty expression")
	}

	v, err := starlark.Eval(
		&starlark.Thread{Name: ToolName},
		"input",
		rewritePow(expr),
		starlark.StringDict{"math": starmath.Module, "pow": powBuiltin},
	)
	if err != nil {
		return nil, errors.WithMessage(err, "failed to evaluate expression")
	}

	return &Response{Result: v.String()}, nil
}

// rewritePow converts the Python power operator into pow() calls, which
// Starlark does not parse. The rightmost operator is rewritten first, keeping
// the operator right-associative.
func rewritePow(expr string) string {
	for {
		i := strings.LastIndex(expr, "**")
		if i < 0 {
			return expr
		}
		lstart := powOperandStart(expr, i)
		rend := powOperandEnd(expr, i+2)
		left := strings.TrimSpace(expr[lstart:i])
		right := strings.TrimSpace(expr[i+2 : rend])
		expr = expr[:lstart] + "pow(" + left + ", " + right + ")" + expr[rend:]
	}
}

func powOperandStart(s string, end int) int {
	i := end
	for i > 0 && s[i-1] == ' ' {
		i--
	}
	if i > 0 && s[i-1] == ')' {
		depth := 0
		for i > 0 {
			i--
			switch s[i] {
			case ')':
				depth++
			case '(':
				depth--
			}
			if depth == 0 {
				break
			}
		}
	}
	for i > 0 && isOperandChar(s[i-1]) {
		i--
	}
	return i
}

func powOperandEnd(s string, start int) int {
	i := start
	for i < len(s) && s[i] == ' ' {
		i++
	}
	for i < len(s) && (s[i] == '-' || s[i] == '+') {
		i++
	}
	for i < len(s) && isOperandChar(s[i]) {
		i++
	}
	if i < len(s) && s[i] == '(' {
		depth := 0
		for i < len(s) {
			switch s[i] {
			case '(':
				depth++
			case ')':
				depth--
			}
			i++
			if depth == 0 {
				break
			}
		}
	}
	return i
}

func isOperandChar(c byte) bool {
	return c == '.' || c == '_' ||
		('0' <= c && c <= '9') ||
		('a' <= c && c <= 'z') ||
		('A' <= c && c <= 'Z')
}

// powBuiltin keeps int ** non-negative-int integral, as Python does.
var powBuiltin = starlark.NewBuiltin("pow", func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var x, y starlark.Value
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 2, &x, &y); err != nil {
		return nil, err
	}
	xf, okx := starlark.AsFloat(x)
	yf, oky := starlark.AsFloat(y)
	if !okx || !oky {
		return nil, errors.Newf("pow: got %s and %s, want numbers", x.Type(), y.Type())
	}
	r := math.Pow(xf, yf)

	if _, ok := x.(starlark.Int); ok {
		if yi, ok := y.(starlark.Int); ok {
			if n, err := starlark.AsInt32(yi); err == nil && n >= 0 {
				return starlark.MakeInt64(int64(math.Round(r))), nil
			}
		}
	}
	return starlark.Float(r), nil
})

// Call implements tools.ITool. The input may be a JSON request or the bare
// expression, which is what a ReAct agent produces.
func (t *Tool) Call(ctx context.Context, input string) (string, error) {
	var req Request
	if err := json.Unmarshal(llmutils.CleanJSON([]byte(input)), &req); err != nil || req.Expression == "" {
		req.Expression = input
	}
	out, err := t.Run(ctx, &req)
	if err != nil {
		// Feed the evaluation problem back to the model as an observation,
		// it can correct the expression on the next step.
		return "error from evaluator: " + err.Error(), nil
	}
	return out.Result, nil
}
