package chains

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/agentchain/memory"
	"github.com/effective-security/agentchain/schema"
)

const refineDocumentsDefaultInitialResponseName = "existing_answer"

// RefineDocuments runs an initial chain on the first document, then refines
// the answer sequentially over the remaining documents. Unlike map-reduce
// the calls cannot run in parallel: every refinement depends on the answer
// produced so far.
type RefineDocuments struct {
	// LLMChain produces the initial answer from the first document.
	LLMChain *LLMChain
	// RefineLLMChain updates the answer with each following document.
	RefineLLMChain *LLMChain

	// InputKey is the input key where the documents are expected.
	InputKey string
	// DocumentVariableName is the prompt variable a document is bound to.
	DocumentVariableName string
	// InitialResponseName is the refine prompt variable the current answer
	// is bound to.
	InitialResponseName string
	// OutputKey is the output key of the final answer.
	OutputKey string
}

var (
	_ Chain = (*RefineDocuments)(nil)
	_ Named = (*RefineDocuments)(nil)
)

// NewRefineDocuments creates a RefineDocuments chain with default keys.
func NewRefineDocuments(initialChain *LLMChain, refineChain *LLMChain) *RefineDocuments {
	return &RefineDocuments{
		LLMChain:             initialChain,
		RefineLLMChain:       refineChain,
		InputKey:             combineDocumentsDefaultInputKey,
		DocumentVariableName: combineDocumentsDefaultDocumentVarName,
		InitialResponseName:  refineDocumentsDefaultInitialResponseName,
		OutputKey:            combineDocumentsDefaultOutputKey,
	}
}

func (c *RefineDocuments) Name() string {
	return "refine_documents_chain"
}

// Call refines an answer over the documents in order. Use the package-level
// Call function instead of calling this directly.
func (c *RefineDocuments) Call(ctx context.Context, values map[string]any, options ...Option) (map[string]any, error) {
	docs, err := documentsFromValues(values, c.InputKey)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, errors.WithMessagef(ErrInvalidInputValues, "%q has no documents", c.InputKey)
	}

	initialInputs := c.constructInitialInputs(docs[0], values)
	answer, err := Predict(ctx, c.LLMChain, initialInputs, options...)
	if err != nil {
		return nil, err
	}

	for i := 1; i < len(docs); i++ {
		refineInputs := c.constructRefineInputs(docs[i], answer, values)
		answer, err = Predict(ctx, c.RefineLLMChain, refineInputs, options...)
		if err != nil {
			return nil, err
		}
	}
	return map[string]any{c.OutputKey: answer}, nil
}

func (c *RefineDocuments) constructInitialInputs(doc schema.Document, values map[string]any) map[string]any {
	inputs := make(map[string]any, len(values))
	for key, value := range values {
		if key != c.InputKey {
			inputs[key] = value
		}
	}
	inputs[c.DocumentVariableName] = doc.PageContent
	return inputs
}

func (c *RefineDocuments) constructRefineInputs(doc schema.Document, answer string, values map[string]any) map[string]any {
	inputs := c.constructInitialInputs(doc, values)
	inputs[c.InitialResponseName] = answer
	return inputs
}

func (c *RefineDocuments) GetMemory() schema.Memory {
	return memory.NewSimple()
}

// GetInputKeys returns the document input key plus the initial chain's keys
// other than the document variable.
func (c *RefineDocuments) GetInputKeys() []string {
	chainInputs := []string{c.InputKey}
	for _, key := range c.LLMChain.GetInputKeys() {
		if key != c.DocumentVariableName {
			chainInputs = append(chainInputs, key)
		}
	}
	return chainInputs
}

func (c *RefineDocuments) GetOutputKeys() []string {
	return []string{c.OutputKey}
}
