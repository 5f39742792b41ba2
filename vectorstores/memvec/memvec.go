// Package memvec is an in-memory vector store with brute-force cosine
// similarity search, intended for tests and small corpora.
package memvec

import (
	"context"
	"math"
	"sort"
	"strconv"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/agentchain/embeddings"
	"github.com/effective-security/agentchain/pkg/metricskey"
	"github.com/effective-security/agentchain/schema"
	"github.com/effective-security/agentchain/vectorstores"
)

// ErrEmptyQueryVector is returned when the query embeds to a zero vector.
var ErrEmptyQueryVector = errors.New("memvec: query embedded to a zero vector")

type record struct {
	doc    schema.Document
	vector []float32
}

// Store keeps embedded documents in memory, deduplicated by content hash
// within a namespace.
type Store struct {
	embedder embeddings.Embedder

	mu      sync.RWMutex
	records map[string][]record
	seen    map[string]map[uint64]struct{}
}

var _ vectorstores.VectorStore = (*Store)(nil)

// New creates an empty in-memory store over the given embedder.
func New(embedder embeddings.Embedder) *Store {
	return &Store{
		embedder: embedder,
		records:  map[string][]record{},
		seen:     map[string]map[uint64]struct{}{},
	}
}

// AddDocuments embeds and stores the documents. Documents whose content is
// already stored in the namespace are skipped.
func (s *Store) AddDocuments(ctx context.Context, docs []schema.Document, options ...vectorstores.Option) ([]string, error) {
	opts := vectorstores.ApplyOptions(options...)

	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.PageContent
	}
	vectors, err := s.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(docs) {
		return nil, errors.Newf("memvec: got %d vectors for %d documents", len(vectors), len(docs))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	seen := s.seen[opts.NameSpace]
	if seen == nil {
		seen = map[uint64]struct{}{}
		s.seen[opts.NameSpace] = seen
	}

	ids := make([]string, 0, len(docs))
	for i, doc := range docs {
		hash := xxhash.Sum64String(doc.PageContent)
		if _, ok := seen[hash]; ok {
			continue
		}
		seen[hash] = struct{}{}
		s.records[opts.NameSpace] = append(s.records[opts.NameSpace], record{
			doc:    doc,
			vector: vectors[i],
		})
		ids = append(ids, strconv.FormatUint(hash, 16))
	}
	return ids, nil
}

// SimilaritySearch returns at most numDocuments documents sorted by
// descending cosine similarity. The score threshold filters before the
// result is truncated.
func (s *Store) SimilaritySearch(ctx context.Context, query string, numDocuments int, options ...vectorstores.Option) ([]schema.Document, error) {
	opts := vectorstores.ApplyOptions(options...)
	metricskey.StatsVectorSearches.IncrCounter(1, "memvec")

	queryVector, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []schema.Document
	for _, rec := range s.records[opts.NameSpace] {
		match, err := vectorstores.MatchFilters(opts.Filters, rec.doc.Metadata)
		if err != nil {
			return nil, err
		}
		if !match {
			continue
		}
		score, err := CosineSimilarity(queryVector, rec.vector)
		if err != nil {
			return nil, err
		}
		if score < opts.ScoreThreshold {
			continue
		}
		doc := rec.doc
		doc.Score = score
		results = append(results, doc)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > numDocuments {
		results = results[:numDocuments]
	}
	return results, nil
}

// CosineSimilarity returns the cosine of the angle between two vectors.
func CosineSimilarity(a, b []float32) (float32, error) {
	if len(a) != len(b) {
		return 0, errors.Newf("memvec: vector dimensions differ: %d != %d", len(a), len(b))
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0, errors.WithStack(ErrEmptyQueryVector)
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB))), nil
}
