package prompts_test

import (
	"testing"

	"github.com/effective-security/agentchain/pkg/llms"
	"github.com/effective-security/agentchain/prompts"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ChatPromptTemplate(t *testing.T) {
	p := prompts.NewChatPromptTemplate([]prompts.MessageFormatter{
		prompts.NewSystemMessagePromptTemplate("You are a translator to {language}.", []string{"language"}),
		prompts.NewHumanMessagePromptTemplate("{text}", []string{"text"}),
	})

	assert.Equal(t, []string{"language", "text"}, p.GetInputVariables())

	msgs, err := p.FormatMessages(map[string]any{
		"language": "French",
		"text":     "I love programming.",
	})
	require.NoError(t, err)

	expected := []llms.Message{
		llms.MessageFromTextParts(llms.RoleSystem, "You are a translator to French."),
		llms.MessageFromTextParts(llms.RoleHuman, "I love programming."),
	}
	assert.Empty(t, cmp.Diff(expected, msgs))
}

func Test_ChatPromptTemplate_Placeholder(t *testing.T) {
	p := prompts.NewChatPromptTemplate([]prompts.MessageFormatter{
		prompts.MessagesPlaceholder{VariableName: "history"},
		prompts.NewHumanMessagePromptTemplate("{input}", []string{"input"}),
	})

	history := []llms.Message{
		llms.MessageFromTextParts(llms.RoleHuman, "hi"),
		llms.MessageFromTextParts(llms.RoleAI, "hello"),
	}
	msgs, err := p.FormatMessages(map[string]any{
		"history": history,
		"input":   "how are you?",
	})
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, llms.RoleHuman, msgs[2].Role)

	_, err = p.FormatMessages(map[string]any{
		"history": "not a message list",
		"input":   "how are you?",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, prompts.ErrNeedChatMessageList)
}
