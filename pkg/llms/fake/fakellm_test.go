package fake_test

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/agentchain/pkg/llms"
	"github.com/effective-security/agentchain/pkg/llms/fake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_FakeLLM_Scripted(t *testing.T) {
	model := fake.New("first", "second")

	resp, err := model.GenerateContent(t.Context(), []llms.Message{
		llms.MessageFromTextParts(llms.RoleHuman, "hello"),
	})
	require.NoError(t, err)
	assert.Equal(t, "first", resp.Choices[0].Content)

	resp, err = model.GenerateContent(t.Context(), nil)
	require.NoError(t, err)
	assert.Equal(t, "second", resp.Choices[0].Content)

	_, err = model.GenerateContent(t.Context(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, fake.ErrOutOfResponses)

	assert.Equal(t, 3, model.CallCount())
	calls := model.Calls()
	require.Len(t, calls, 3)
	assert.Equal(t, "hello", calls[0][0].GetContent())
}

func Test_FakeLLM_WithError(t *testing.T) {
	scripted := errors.New("provider down")
	model := fake.New("unused").WithError(scripted)

	_, err := model.GenerateContent(t.Context(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, scripted)
}

func Test_FakeLLM_GenerateFromSinglePrompt(t *testing.T) {
	model := fake.New("the answer")
	out, err := llms.GenerateFromSinglePrompt(t.Context(), model, "what is it?")
	require.NoError(t, err)
	assert.Equal(t, "the answer", out)
}
