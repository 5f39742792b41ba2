package encoding

import (
	"bytes"
	"reflect"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/agentchain/pkg/llmutils"
	"github.com/effective-security/agentchain/schema"
)

// TOMLEncoder asks for TOML replies.
type TOMLEncoder struct {
	instructions string
}

// NewTOMLEncoder creates a TOML encoder describing the type of req.
func NewTOMLEncoder(req any) (*TOMLEncoder, error) {
	sc, err := schema.New(reflect.TypeOf(req))
	if err != nil {
		return nil, errors.WithMessage(err, "encoding: failed to reflect schema")
	}
	instructions := "Respond with TOML that matches the following JSON schema:" +
		llmutils.BackticksJSON(llmutils.ToJSONIndent(sc.Parameters)) +
		"Do not include any text outside of the TOML document."
	return &TOMLEncoder{instructions: instructions}, nil
}

func (e *TOMLEncoder) Marshal(req any) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(req); err != nil {
		return nil, errors.WithMessage(err, "encoding: failed to marshal")
	}
	return buf.Bytes(), nil
}

func (e *TOMLEncoder) Unmarshal(bs []byte, out any) error {
	cleaned := llmutils.BytesTrimBackticks(bs)
	if err := toml.Unmarshal(cleaned, out); err != nil {
		return errors.WithMessage(err, "encoding: failed to unmarshal TOML")
	}
	return nil
}

func (e *TOMLEncoder) GetFormatInstructions() string {
	return e.instructions
}

// PlainTextEncoder passes text through unchanged.
type PlainTextEncoder struct{}

// NewPlainTextEncoder creates a pass-through encoder.
func NewPlainTextEncoder() *PlainTextEncoder {
	return &PlainTextEncoder{}
}

func (e *PlainTextEncoder) Marshal(req any) ([]byte, error) {
	if s, ok := req.(string); ok {
		return []byte(s), nil
	}
	return []byte(llmutils.ToJSON(req)), nil
}

func (e *PlainTextEncoder) Unmarshal(bs []byte, out any) error {
	s, ok := out.(*string)
	if !ok {
		return errors.New("encoding: plain text requires *string output")
	}
	*s = string(bs)
	return nil
}

func (e *PlainTextEncoder) GetFormatInstructions() string {
	return ""
}
