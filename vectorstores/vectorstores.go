// Package vectorstores defines the vector store abstraction used for
// similarity search over embedded documents.
package vectorstores

import (
	"context"
	"reflect"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/agentchain/schema"
)

// ErrUnsupportedFilters is returned when a store cannot interpret the
// filters passed to a call.
var ErrUnsupportedFilters = errors.New("vectorstores: unsupported filters type, want map[string]any")

// VectorStore stores embedded documents and searches them by similarity.
type VectorStore interface {
	// AddDocuments embeds and stores the documents, returning their IDs.
	AddDocuments(ctx context.Context, docs []schema.Document, options ...Option) ([]string, error)
	// SimilaritySearch returns at most numDocuments documents most similar
	// to the query, sorted by descending score.
	SimilaritySearch(ctx context.Context, query string, numDocuments int, options ...Option) ([]schema.Document, error)
}

// Options holds per-call vector store options.
type Options struct {
	// NameSpace scopes the documents to a collection.
	NameSpace string
	// ScoreThreshold filters out documents scoring below it, before the
	// result is truncated to the requested count.
	ScoreThreshold float32
	// Filters is a metadata filter, a map[string]any of required key/value
	// pairs.
	Filters any
}

// Option configures a vector store call.
type Option func(*Options)

// WithNameSpace scopes the call to a collection.
func WithNameSpace(nameSpace string) Option {
	return func(o *Options) {
		o.NameSpace = nameSpace
	}
}

// WithScoreThreshold sets the minimal similarity score of returned documents.
func WithScoreThreshold(threshold float32) Option {
	return func(o *Options) {
		o.ScoreThreshold = threshold
	}
}

// WithFilters sets a metadata filter: only documents whose metadata carries
// every key/value pair are returned.
func WithFilters(filters any) Option {
	return func(o *Options) {
		o.Filters = filters
	}
}

// MatchFilters reports whether the document metadata satisfies the filters.
// A nil filter matches every document.
func MatchFilters(filters any, metadata map[string]any) (bool, error) {
	if filters == nil {
		return true, nil
	}
	required, ok := filters.(map[string]any)
	if !ok {
		return false, errors.WithStack(ErrUnsupportedFilters)
	}
	for k, want := range required {
		got, ok := metadata[k]
		if !ok || !reflect.DeepEqual(got, want) {
			return false, nil
		}
	}
	return true, nil
}

// ApplyOptions folds the options into an Options value.
func ApplyOptions(options ...Option) Options {
	var opts Options
	for _, opt := range options {
		opt(&opts)
	}
	return opts
}

// Retriever adapts a VectorStore to schema.Retriever.
type Retriever struct {
	Store        VectorStore
	NumDocuments int
	Options      []Option
}

var _ schema.Retriever = Retriever{}

// ToRetriever returns a retriever fetching numDocuments similar documents
// from the store.
func ToRetriever(store VectorStore, numDocuments int, options ...Option) Retriever {
	return Retriever{
		Store:        store,
		NumDocuments: numDocuments,
		Options:      options,
	}
}

// GetRelevantDocuments runs a similarity search for the query.
func (r Retriever) GetRelevantDocuments(ctx context.Context, query string) ([]schema.Document, error) {
	return r.Store.SimilaritySearch(ctx, query, r.NumDocuments, r.Options...)
}
