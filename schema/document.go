package schema

import "context"

// Document is a piece of text with associated metadata, the unit of work for
// loaders, splitters, combine-documents chains and vector stores.
type Document struct {
	PageContent string
	Metadata    map[string]any
	Score       float32
}

// Retriever is an interface that defines the behavior of a retriever.
type Retriever interface {
	GetRelevantDocuments(ctx context.Context, query string) ([]Document, error)
}
