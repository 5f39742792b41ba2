package calculator_test

import (
	"testing"

	"github.com/effective-security/agentchain/tools"
	"github.com/effective-security/agentchain/tools/calculator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Calculator_Run(t *testing.T) {
	calc, err := calculator.New()
	require.NoError(t, err)

	out, err := calc.Run(t.Context(), &calculator.Request{Expression: "2 ** 10"})
	require.NoError(t, err)
	assert.Equal(t, "1024", out.Result)

	out, err = calc.Run(t.Context(), &calculator.Request{Expression: "math.sqrt(16)"})
	require.NoError(t, err)
	assert.Equal(t, "4.0", out.Result)

	_, err = calc.Run(t.Context(), &calculator.Request{Expression: ""})
	require.Error(t, err)
}

func Test_Calculator_Power(t *testing.T) {
	calc, err := calculator.New()
	require.NoError(t, err)

	cases := []struct {
		expr string
		exp  string
	}{
		{"2**10", "1024"},
		{"2 ** 8 + 1", "257"},
		{"2 ** 3 ** 2", "512"}, // right-associative
		{"(1 + 3) ** 2", "16"},
		{"math.sqrt(16) ** 2", "16.0"},
		{"2 ** -1", "0.5"},
		{"2.5 ** 2", "6.25"},
	}
	for _, tc := range cases {
		out, err := calc.Run(t.Context(), &calculator.Request{Expression: tc.expr})
		require.NoError(t, err, tc.expr)
		assert.Equal(t, tc.exp, out.Result, tc.expr)
	}
}

func Test_Calculator_Call(t *testing.T) {
	calc, err := calculator.New()
	require.NoError(t, err)

	// JSON input
	out, err := calc.Call(t.Context(), `{"Expression": "3 * 7"}`)
	require.NoError(t, err)
	assert.Equal(t, "21", out)

	// Bare expression, as a ReAct agent produces
	out, err = calc.Call(t.Context(), "3 * 7")
	require.NoError(t, err)
	assert.Equal(t, "21", out)

	// Evaluation problems come back as an observation, not an error.
	out, err = calc.Call(t.Context(), "no such thing")
	require.NoError(t, err)
	assert.Contains(t, out, "error from evaluator")
}

func Test_Calculator_Registered(t *testing.T) {
	tool, err := tools.Default.Get(calculator.ToolName)
	require.NoError(t, err)
	assert.Equal(t, calculator.ToolName, tool.Name())
	assert.NotNil(t, tool.Parameters())
}
