// Package embeddings adapts embedding model clients to vector stores,
// with batching and text cleanup.
package embeddings

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
)

// Embedder turns texts into vectors.
type Embedder interface {
	// EmbedDocuments returns a vector for each text.
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
	// EmbedQuery returns a vector for a single query text.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// EmbedderClient is the interface embedding providers implement.
// The openai model satisfies it.
type EmbedderClient interface {
	CreateEmbedding(ctx context.Context, texts []string) ([][]float32, error)
}

const defaultBatchSize = 512

// EmbedderImpl batches texts to an EmbedderClient.
type EmbedderImpl struct {
	client EmbedderClient

	// StripNewLines replaces newlines with spaces before embedding.
	StripNewLines bool
	// BatchSize is the number of texts sent per client call.
	BatchSize int
}

var _ Embedder = (*EmbedderImpl)(nil)

// EmbedderOption configures an EmbedderImpl.
type EmbedderOption func(*EmbedderImpl)

// WithStripNewLines controls newline replacement before embedding.
func WithStripNewLines(strip bool) EmbedderOption {
	return func(e *EmbedderImpl) {
		e.StripNewLines = strip
	}
}

// WithBatchSize sets the number of texts sent per client call.
func WithBatchSize(size int) EmbedderOption {
	return func(e *EmbedderImpl) {
		e.BatchSize = size
	}
}

// NewEmbedder creates an Embedder over the given client.
func NewEmbedder(client EmbedderClient, opts ...EmbedderOption) (*EmbedderImpl, error) {
	if client == nil {
		return nil, errors.New("embeddings: missing embedder client")
	}
	e := &EmbedderImpl{
		client:        client,
		StripNewLines: true,
		BatchSize:     defaultBatchSize,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func (e *EmbedderImpl) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	texts = maybeRemoveNewLines(texts, e.StripNewLines)

	vectors := make([][]float32, 0, len(texts))
	for _, batch := range batchTexts(texts, e.BatchSize) {
		batchVectors, err := e.client.CreateEmbedding(ctx, batch)
		if err != nil {
			return nil, err
		}
		if len(batchVectors) != len(batch) {
			return nil, errors.Newf("embeddings: got %d vectors for %d texts", len(batchVectors), len(batch))
		}
		vectors = append(vectors, batchVectors...)
	}
	return vectors, nil
}

func (e *EmbedderImpl) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if e.StripNewLines {
		text = strings.ReplaceAll(text, "\n", " ")
	}
	vectors, err := e.client.CreateEmbedding(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) != 1 {
		return nil, errors.Newf("embeddings: got %d vectors for a single query", len(vectors))
	}
	return vectors[0], nil
}

func maybeRemoveNewLines(texts []string, strip bool) []string {
	if !strip {
		return texts
	}
	result := make([]string, len(texts))
	for i, text := range texts {
		result[i] = strings.ReplaceAll(text, "\n", " ")
	}
	return result
}

// batchTexts splits the texts into batches of at most batchSize.
func batchTexts(texts []string, batchSize int) [][]string {
	if batchSize <= 0 {
		return [][]string{texts}
	}
	var batches [][]string
	for batchSize < len(texts) {
		texts, batches = texts[batchSize:], append(batches, texts[:batchSize])
	}
	if len(texts) > 0 {
		batches = append(batches, texts)
	}
	return batches
}
