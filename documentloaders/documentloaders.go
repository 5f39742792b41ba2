// Package documentloaders loads raw sources into documents ready for
// splitting and embedding.
package documentloaders

import (
	"context"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/agentchain/schema"
	"github.com/effective-security/agentchain/textsplitter"
)

// Loader loads documents from a source.
type Loader interface {
	// Load reads the source into documents.
	Load(ctx context.Context) ([]schema.Document, error)
	// LoadAndSplit reads the source and splits it with the given splitter.
	LoadAndSplit(ctx context.Context, splitter textsplitter.TextSplitter) ([]schema.Document, error)
}

// Text loads a plain-text source as a single document.
type Text struct {
	r io.Reader
}

var _ Loader = Text{}

// NewText creates a loader over the reader.
func NewText(r io.Reader) Text {
	return Text{r: r}
}

// Load reads the whole source into one document.
func (l Text) Load(_ context.Context) ([]schema.Document, error) {
	data, err := io.ReadAll(l.r)
	if err != nil {
		return nil, errors.WithMessage(err, "failed to read source")
	}
	return []schema.Document{
		{
			PageContent: string(data),
			Metadata:    map[string]any{},
		},
	}, nil
}

// LoadAndSplit reads the source and splits it into chunk documents.
func (l Text) LoadAndSplit(ctx context.Context, splitter textsplitter.TextSplitter) ([]schema.Document, error) {
	docs, err := l.Load(ctx)
	if err != nil {
		return nil, err
	}
	return SplitDocuments(splitter, docs)
}

// SplitDocuments splits each document, carrying its metadata into the
// chunks.
func SplitDocuments(splitter textsplitter.TextSplitter, docs []schema.Document) ([]schema.Document, error) {
	var result []schema.Document
	for _, doc := range docs {
		chunks, err := splitter.SplitText(doc.PageContent)
		if err != nil {
			return nil, err
		}
		for _, chunk := range chunks {
			metadata := make(map[string]any, len(doc.Metadata))
			for k, v := range doc.Metadata {
				metadata[k] = v
			}
			result = append(result, schema.Document{
				PageContent: chunk,
				Metadata:    metadata,
			})
		}
	}
	return result, nil
}
