package chains

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/agentchain/memory"
	"github.com/effective-security/agentchain/schema"
)

const (
	combineDocumentsDefaultInputKey        = "input_documents"
	combineDocumentsDefaultOutputKey       = "text"
	combineDocumentsDefaultDocumentVarName = "context"
	stuffDocumentsDefaultSeparator         = "\n\n"
)

// StuffDocuments combines documents by stuffing them all into the prompt of
// a single model call.
type StuffDocuments struct {
	// LLMChain is the chain the concatenated documents are fed to.
	LLMChain *LLMChain

	// InputKey is the input key where the documents are expected.
	InputKey string
	// DocumentVariableName is the prompt variable the joined text is bound to.
	DocumentVariableName string
	// Separator is inserted between documents.
	Separator string
}

var (
	_ Chain = (*StuffDocuments)(nil)
	_ Named = (*StuffDocuments)(nil)
)

// NewStuffDocuments creates a StuffDocuments chain over an LLMChain whose
// prompt expects the joined documents in the "context" variable.
func NewStuffDocuments(llmChain *LLMChain) *StuffDocuments {
	return &StuffDocuments{
		LLMChain:             llmChain,
		InputKey:             combineDocumentsDefaultInputKey,
		DocumentVariableName: combineDocumentsDefaultDocumentVarName,
		Separator:            stuffDocumentsDefaultSeparator,
	}
}

func (c *StuffDocuments) Name() string {
	return "stuff_documents_chain"
}

// Call joins the documents and delegates to the inner chain. Use the
// package-level Call function instead of calling this directly.
func (c *StuffDocuments) Call(ctx context.Context, values map[string]any, options ...Option) (map[string]any, error) {
	docs, err := documentsFromValues(values, c.InputKey)
	if err != nil {
		return nil, err
	}

	var text strings.Builder
	for i, doc := range docs {
		if i > 0 {
			text.WriteString(c.Separator)
		}
		text.WriteString(doc.PageContent)
	}

	inputValues := make(map[string]any, len(values))
	for key, value := range values {
		if key != c.InputKey {
			inputValues[key] = value
		}
	}
	inputValues[c.DocumentVariableName] = text.String()
	return Call(ctx, c.LLMChain, inputValues, options...)
}

func (c *StuffDocuments) GetMemory() schema.Memory {
	return memory.NewSimple()
}

// GetInputKeys returns the document input key plus the inner chain's keys
// other than the document variable.
func (c *StuffDocuments) GetInputKeys() []string {
	chainInputs := []string{c.InputKey}
	for _, key := range c.LLMChain.GetInputKeys() {
		if key != c.DocumentVariableName {
			chainInputs = append(chainInputs, key)
		}
	}
	return chainInputs
}

func (c *StuffDocuments) GetOutputKeys() []string {
	return c.LLMChain.GetOutputKeys()
}

func documentsFromValues(values map[string]any, key string) ([]schema.Document, error) {
	v, ok := values[key]
	if !ok {
		return nil, errors.WithMessagef(ErrInvalidInputValues, "missing key %q", key)
	}
	docs, ok := v.([]schema.Document)
	if !ok {
		return nil, errors.WithMessagef(ErrInputValuesWrongType, "%q must be []schema.Document", key)
	}
	return docs, nil
}
