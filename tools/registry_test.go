package tools_test

import (
	"context"
	"testing"

	"github.com/effective-security/agentchain/tools"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoTool struct {
	name string
}

func (t echoTool) Name() string        { return t.name }
func (t echoTool) Description() string { return "echoes the input" }
func (t echoTool) Parameters() any     { return nil }
func (t echoTool) Call(_ context.Context, input string) (string, error) {
	return input, nil
}

func Test_Registry(t *testing.T) {
	r := tools.NewRegistry()
	err := r.Register("Echo", func() (tools.ITool, error) {
		return echoTool{name: "Echo"}, nil
	})
	require.NoError(t, err)

	err = r.Register("echo", func() (tools.ITool, error) {
		return echoTool{name: "echo"}, nil
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, tools.ErrDuplicateTool)

	// Lookup is case-insensitive.
	tool, err := r.Get("ECHO")
	require.NoError(t, err)
	assert.Equal(t, "Echo", tool.Name())

	_, err = r.Get("unknown")
	require.Error(t, err)
	assert.ErrorIs(t, err, tools.ErrToolNotFound)
}

func Test_Registry_Load(t *testing.T) {
	r := tools.NewRegistry()
	r.MustRegister("One", func() (tools.ITool, error) {
		return echoTool{name: "One"}, nil
	})
	r.MustRegister("Two", func() (tools.ITool, error) {
		return echoTool{name: "Two"}, nil
	})

	assert.Equal(t, []string{"One", "Two"}, r.Names())

	list, err := r.Load("two", "one")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Two", list[0].Name())
	assert.Equal(t, "One", list[1].Name())

	_, err = r.Load("one", "unknown")
	require.Error(t, err)
}

func Test_GetDescriptions(t *testing.T) {
	out := tools.GetDescriptions(echoTool{name: "Echo"})
	assert.Contains(t, out, "```json")
	assert.Contains(t, out, `"Echo"`)
	assert.Contains(t, out, "echoes the input")
}
