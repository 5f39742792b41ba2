package encoding

import (
	"encoding/json"
	"reflect"

	"github.com/bububa/ljson"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/agentchain/pkg/llmutils"
	"github.com/effective-security/agentchain/schema"
)

// JSONEncoder asks for JSON and decodes replies leniently: fences and chatty
// prefixes are stripped, and slightly malformed JSON is still accepted.
type JSONEncoder struct {
	instructions string
}

// NewJSONEncoder creates a JSON encoder describing the type of req.
func NewJSONEncoder(req any) (*JSONEncoder, error) {
	sc, err := schema.New(reflect.TypeOf(req))
	if err != nil {
		return nil, errors.WithMessage(err, "encoding: failed to reflect schema")
	}
	instructions := "Respond with JSON that matches the following schema:" +
		llmutils.BackticksJSON(llmutils.ToJSONIndent(sc.Parameters)) +
		"Do not include any text outside of the JSON object."
	return &JSONEncoder{instructions: instructions}, nil
}

func (e *JSONEncoder) Marshal(req any) ([]byte, error) {
	bs, err := json.Marshal(req)
	return bs, errors.WithMessage(err, "encoding: failed to marshal")
}

func (e *JSONEncoder) Unmarshal(bs []byte, out any) error {
	cleaned := llmutils.CleanJSON(llmutils.BytesTrimBackticks(bs))
	if err := ljson.Unmarshal(cleaned, out); err != nil {
		return errors.WithMessage(err, "encoding: failed to unmarshal JSON")
	}
	return nil
}

func (e *JSONEncoder) GetFormatInstructions() string {
	return e.instructions
}
