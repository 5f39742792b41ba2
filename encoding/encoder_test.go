package encoding_test

import (
	"testing"

	"github.com/effective-security/agentchain/encoding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type review struct {
	Summary string   `json:"summary" yaml:"summary" toml:"summary"`
	Rating  int      `json:"rating" yaml:"rating" toml:"rating"`
	Tags    []string `json:"tags,omitempty" yaml:"tags,omitempty" toml:"tags,omitempty"`
}

func Test_NewEncoder(t *testing.T) {
	for _, mode := range []encoding.Mode{
		encoding.ModeJSON,
		encoding.ModeYAML,
		encoding.ModeTOML,
		encoding.ModePlainText,
	} {
		enc, err := encoding.NewEncoder(mode, review{})
		require.NoError(t, err, mode)
		require.NotNil(t, enc, mode)
	}

	_, err := encoding.NewEncoder("xml", review{})
	require.Error(t, err)
}

func Test_JSONEncoder_Lenient(t *testing.T) {
	enc, err := encoding.NewJSONEncoder(review{})
	require.NoError(t, err)

	instructions := enc.GetFormatInstructions()
	assert.Contains(t, instructions, "```json")
	assert.Contains(t, instructions, "summary")

	// Chatty reply with fences still decodes.
	reply := "Sure, here is the review:\n```json\n{\"summary\": \"good\", \"rating\": 4,}\n```\nHope this helps!"
	var out review
	err = enc.Unmarshal([]byte(reply), &out)
	require.NoError(t, err)
	assert.Equal(t, "good", out.Summary)
	assert.Equal(t, 4, out.Rating)

	bs, err := enc.Marshal(review{Summary: "ok", Rating: 3})
	require.NoError(t, err)
	assert.JSONEq(t, `{"summary":"ok","rating":3}`, string(bs))
}

func Test_YAMLEncoder(t *testing.T) {
	enc, err := encoding.NewYAMLEncoder(review{})
	require.NoError(t, err)

	reply := "```yaml\nsummary: decent\nrating: 3\ntags:\n  - a\n  - b\n```"
	var out review
	err = enc.Unmarshal([]byte(reply), &out)
	require.NoError(t, err)
	assert.Equal(t, "decent", out.Summary)
	assert.Equal(t, []string{"a", "b"}, out.Tags)
}

func Test_TOMLEncoder(t *testing.T) {
	enc, err := encoding.NewTOMLEncoder(review{})
	require.NoError(t, err)

	bs, err := enc.Marshal(review{Summary: "fine", Rating: 5})
	require.NoError(t, err)

	var out review
	err = enc.Unmarshal(bs, &out)
	require.NoError(t, err)
	assert.Equal(t, "fine", out.Summary)
	assert.Equal(t, 5, out.Rating)
}

func Test_PlainTextEncoder(t *testing.T) {
	enc := encoding.NewPlainTextEncoder()

	bs, err := enc.Marshal("just text")
	require.NoError(t, err)
	assert.Equal(t, "just text", string(bs))

	var out string
	require.NoError(t, enc.Unmarshal([]byte("reply"), &out))
	assert.Equal(t, "reply", out)

	var wrong int
	require.Error(t, enc.Unmarshal([]byte("reply"), &wrong))
}
