package chains

import (
	"context"

	"github.com/effective-security/agentchain/memory"
	"github.com/effective-security/agentchain/schema"
	"golang.org/x/sync/errgroup"
)

const (
	mapReduceDefaultConcurrency = 5

	// mapReduceDefaultMaxTokens bounds the combined size of the mapped
	// results before they are collapsed. The estimate is four characters
	// per token.
	mapReduceDefaultMaxTokens = 3000
)

// MapReduceDocuments applies a map chain to every document in parallel,
// collapses the results while they exceed the token budget, and combines
// them with a reduce chain.
type MapReduceDocuments struct {
	// MapChain is applied to each input document.
	MapChain *LLMChain

	// ReduceChain combines the mapped results.
	ReduceChain Chain

	// CollapseChain shrinks intermediate results that exceed MaxTokens.
	// When nil the mapped results are passed to the reduce chain as is.
	CollapseChain *LLMChain

	// MapInputVariableName is the map prompt variable a document is bound to.
	MapInputVariableName string
	// InputKey is the input key where the documents are expected.
	InputKey string
	// ReduceDocumentVariableName is the reduce chain input key the mapped
	// documents are passed under.
	ReduceDocumentVariableName string

	// MaxConcurrency bounds the parallel map calls.
	MaxConcurrency int
	// MaxTokens is the estimated token budget that triggers collapsing.
	MaxTokens int

	// ReturnIntermediateSteps includes the mapped results in the output.
	ReturnIntermediateSteps bool
}

var (
	_ Chain = (*MapReduceDocuments)(nil)
	_ Named = (*MapReduceDocuments)(nil)
)

const intermediateStepsOutputKey = "intermediate_steps"

// NewMapReduceDocuments creates a MapReduceDocuments chain with default keys.
func NewMapReduceDocuments(mapChain *LLMChain, reduceChain Chain) *MapReduceDocuments {
	return &MapReduceDocuments{
		MapChain:                   mapChain,
		ReduceChain:                reduceChain,
		MapInputVariableName:       combineDocumentsDefaultDocumentVarName,
		InputKey:                   combineDocumentsDefaultInputKey,
		ReduceDocumentVariableName: combineDocumentsDefaultInputKey,
		MaxConcurrency:             mapReduceDefaultConcurrency,
		MaxTokens:                  mapReduceDefaultMaxTokens,
	}
}

func (c *MapReduceDocuments) Name() string {
	return "map_reduce_documents_chain"
}

// Call maps the documents, collapses oversized intermediate results and runs
// the reduce chain. Use the package-level Call function instead of calling
// this directly.
func (c *MapReduceDocuments) Call(ctx context.Context, values map[string]any, options ...Option) (map[string]any, error) {
	docs, err := documentsFromValues(values, c.InputKey)
	if err != nil {
		return nil, err
	}

	mapResults, err := c.mapDocuments(ctx, docs, values, options...)
	if err != nil {
		return nil, err
	}

	combined := mapResults
	for c.CollapseChain != nil && estimateTokens(combined) > c.MaxTokens {
		collapsed, err := c.collapseDocuments(ctx, combined, values, options...)
		if err != nil {
			return nil, err
		}
		shrunk := len(collapsed) < len(combined)
		combined = collapsed
		if !shrunk {
			// Cannot shrink further, stop to avoid looping.
			break
		}
	}

	reduceInputs := make(map[string]any, len(values))
	for key, value := range values {
		if key != c.InputKey {
			reduceInputs[key] = value
		}
	}
	reduceInputs[c.ReduceDocumentVariableName] = combined

	output, err := Call(ctx, c.ReduceChain, reduceInputs, options...)
	if err != nil {
		return nil, err
	}
	if c.ReturnIntermediateSteps {
		steps := make([]string, len(mapResults))
		for i, doc := range mapResults {
			steps[i] = doc.PageContent
		}
		output[intermediateStepsOutputKey] = steps
	}
	return output, nil
}

// mapDocuments runs the map chain over the documents, bounded by
// MaxConcurrency, preserving the input order in the results.
func (c *MapReduceDocuments) mapDocuments(ctx context.Context, docs []schema.Document, values map[string]any, options ...Option) ([]schema.Document, error) {
	results := make([]schema.Document, len(docs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.MaxConcurrency)

	for i, doc := range docs {
		g.Go(func() error {
			mapInputs := make(map[string]any, len(values))
			for key, value := range values {
				if key != c.InputKey {
					mapInputs[key] = value
				}
			}
			mapInputs[c.MapInputVariableName] = doc.PageContent

			result, err := Predict(gctx, c.MapChain, mapInputs, options...)
			if err != nil {
				return err
			}
			results[i] = schema.Document{
				PageContent: result,
				Metadata:    doc.Metadata,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// collapseDocuments groups the documents so each group fits the token budget
// and summarizes each group with the collapse chain.
func (c *MapReduceDocuments) collapseDocuments(ctx context.Context, docs []schema.Document, values map[string]any, options ...Option) ([]schema.Document, error) {
	var groups [][]schema.Document
	var group []schema.Document
	for _, doc := range docs {
		if len(group) > 0 && estimateTokens(append(group, doc)) > c.MaxTokens {
			groups = append(groups, group)
			group = nil
		}
		group = append(group, doc)
	}
	if len(group) > 0 {
		groups = append(groups, group)
	}

	collapsed := make([]schema.Document, 0, len(groups))
	for _, group := range groups {
		var text string
		for i, doc := range group {
			if i > 0 {
				text += stuffDocumentsDefaultSeparator
			}
			text += doc.PageContent
		}

		collapseInputs := make(map[string]any, len(values))
		for key, value := range values {
			if key != c.InputKey {
				collapseInputs[key] = value
			}
		}
		collapseInputs[c.MapInputVariableName] = text

		result, err := Predict(ctx, c.CollapseChain, collapseInputs, options...)
		if err != nil {
			return nil, err
		}
		collapsed = append(collapsed, schema.Document{PageContent: result})
	}
	return collapsed, nil
}

func (c *MapReduceDocuments) GetMemory() schema.Memory {
	return memory.NewSimple()
}

// GetInputKeys returns the document input key plus the map chain's keys
// other than the document variable.
func (c *MapReduceDocuments) GetInputKeys() []string {
	chainInputs := []string{c.InputKey}
	for _, key := range c.MapChain.GetInputKeys() {
		if key != c.MapInputVariableName {
			chainInputs = append(chainInputs, key)
		}
	}
	return chainInputs
}

func (c *MapReduceDocuments) GetOutputKeys() []string {
	if c.ReturnIntermediateSteps {
		return append(c.ReduceChain.GetOutputKeys(), intermediateStepsOutputKey)
	}
	return c.ReduceChain.GetOutputKeys()
}

// estimateTokens approximates the token count of the documents at four
// characters per token.
func estimateTokens(docs []schema.Document) int {
	var chars int
	for _, doc := range docs {
		chars += len(doc.PageContent)
	}
	return chars / 4
}
