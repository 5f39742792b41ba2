package encoding

import (
	"reflect"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/agentchain/pkg/llmutils"
	"github.com/effective-security/agentchain/schema"
	"gopkg.in/yaml.v3"
)

// YAMLEncoder asks for YAML replies.
type YAMLEncoder struct {
	instructions string
}

// NewYAMLEncoder creates a YAML encoder describing the type of req.
func NewYAMLEncoder(req any) (*YAMLEncoder, error) {
	sc, err := schema.New(reflect.TypeOf(req))
	if err != nil {
		return nil, errors.WithMessage(err, "encoding: failed to reflect schema")
	}
	instructions := "Respond with YAML that matches the following JSON schema:" +
		llmutils.BackticksJSON(llmutils.ToJSONIndent(sc.Parameters)) +
		"Do not include any text outside of the YAML document."
	return &YAMLEncoder{instructions: instructions}, nil
}

func (e *YAMLEncoder) Marshal(req any) ([]byte, error) {
	bs, err := yaml.Marshal(req)
	return bs, errors.WithMessage(err, "encoding: failed to marshal")
}

func (e *YAMLEncoder) Unmarshal(bs []byte, out any) error {
	cleaned := llmutils.BytesTrimBackticks(bs)
	if err := yaml.Unmarshal(cleaned, out); err != nil {
		return errors.WithMessage(err, "encoding: failed to unmarshal YAML")
	}
	return nil
}

func (e *YAMLEncoder) GetFormatInstructions() string {
	return e.instructions
}
