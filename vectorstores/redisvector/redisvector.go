// Package redisvector is a Redis-backed vector store. Documents are stored
// one hash per document and searched with a brute-force cosine scan, which
// keeps the store usable on a stock Redis without search modules.
package redisvector

import (
	"context"
	"encoding/json"
	"path"
	"sort"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/agentchain/embeddings"
	"github.com/effective-security/agentchain/pkg/metricskey"
	"github.com/effective-security/agentchain/schema"
	"github.com/effective-security/agentchain/vectorstores"
	"github.com/effective-security/agentchain/vectorstores/memvec"
	"github.com/effective-security/xlog"
	"github.com/redis/go-redis/v9"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/agentchain", "redisvector")

const (
	fieldContent  = "content"
	fieldMetadata = "metadata"
	fieldVector   = "vector"
)

// Store keeps embedded documents in Redis. The keys namespace is organized
// as follows:
// - `/<prefix>/vectorstore/<collection>/docs/<id>` hash per document
// - `/<prefix>/vectorstore/<collection>/ids` set of document IDs
// - `/<prefix>/vectorstore/<collection>/seq` ID counter
type Store struct {
	client   *redis.Client
	embedder embeddings.Embedder
	prefix   string
}

var _ vectorstores.VectorStore = (*Store)(nil)

// New creates a Redis-backed store under a key prefix.
func New(client *redis.Client, embedder embeddings.Embedder, prefix string) *Store {
	return &Store{
		client:   client,
		embedder: embedder,
		prefix:   prefix,
	}
}

func (s *Store) docKey(collection, id string) string {
	return path.Join(s.prefix, "vectorstore", collection, "docs", id)
}

func (s *Store) idsKey(collection string) string {
	return path.Join(s.prefix, "vectorstore", collection, "ids")
}

func (s *Store) seqKey(collection string) string {
	return path.Join(s.prefix, "vectorstore", collection, "seq")
}

// AddDocuments embeds and stores the documents, returning their IDs.
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
		return nil, errors.Newf("redisvector: got %d vectors for %d documents", len(vectors), len(docs))
	}

	ids := make([]string, len(docs))
	pipe := s.client.Pipeline()
	for i, doc := range docs {
		seq, err := s.client.Incr(ctx, s.seqKey(opts.NameSpace)).Result()
		if err != nil {
			return nil, errors.WithMessage(err, "failed to allocate document ID")
		}
		id := strconv.FormatInt(seq, 10)
		metadata, err := json.Marshal(doc.Metadata)
		if err != nil {
			return nil, errors.WithMessage(err, "failed to marshal metadata")
		}
		vector, err := json.Marshal(vectors[i])
		if err != nil {
			return nil, errors.WithMessage(err, "failed to marshal vector")
		}
		pipe.HSet(ctx, s.docKey(opts.NameSpace, id), map[string]any{
			fieldContent:  doc.PageContent,
			fieldMetadata: string(metadata),
			fieldVector:   string(vector),
		})
		pipe.SAdd(ctx, s.idsKey(opts.NameSpace), id)
		ids[i] = id
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.WithMessage(err, "failed to store documents in Redis")
	}
	return ids, nil
}

// SimilaritySearch scans the collection and returns at most numDocuments
// documents sorted by descending cosine similarity. The score threshold
// filters before the result is truncated.
func (s *Store) SimilaritySearch(ctx context.Context, query string, numDocuments int, options ...vectorstores.Option) ([]schema.Document, error) {
	opts := vectorstores.ApplyOptions(options...)
	metricskey.StatsVectorSearches.IncrCounter(1, "redisvector")

	queryVector, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, err
	}

	ids, err := s.client.SMembers(ctx, s.idsKey(opts.NameSpace)).Result()
	if err != nil {
		return nil, errors.WithMessage(err, "failed to list documents")
	}

	var results []schema.Document
	for _, id := range ids {
		fields, err := s.client.HGetAll(ctx, s.docKey(opts.NameSpace, id)).Result()
		if err != nil {
			return nil, errors.WithMessage(err, "failed to load document")
		}
		if len(fields) == 0 {
			// The ID set can reference a deleted hash, skip it.
			continue
		}

		var vector []float32
		if err := json.Unmarshal([]byte(fields[fieldVector]), &vector); err != nil {
			logger.ContextKV(ctx, xlog.ERROR, "reason", "unmarshal_vector", "id", id, "err", err.Error())
			continue
		}
		score, err := memvec.CosineSimilarity(queryVector, vector)
		if err != nil {
			return nil, err
		}
		if score < opts.ScoreThreshold {
			continue
		}

		doc := schema.Document{
			PageContent: fields[fieldContent],
			Score:       score,
		}
		if metadata := fields[fieldMetadata]; metadata != "" {
			if err := json.Unmarshal([]byte(metadata), &doc.Metadata); err != nil {
				logger.ContextKV(ctx, xlog.ERROR, "reason", "unmarshal_metadata", "id", id, "err", err.Error())
			}
		}
		match, err := vectorstores.MatchFilters(opts.Filters, doc.Metadata)
		if err != nil {
			return nil, err
		}
		if !match {
			continue
		}
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

// Drop removes a collection and its documents.
func (s *Store) Drop(ctx context.Context, collection string) error {
	ids, err := s.client.SMembers(ctx, s.idsKey(collection)).Result()
	if err != nil {
		return errors.WithMessage(err, "failed to list documents")
	}
	pipe := s.client.Pipeline()
	for _, id := range ids {
		pipe.Del(ctx, s.docKey(collection, id))
	}
	pipe.Del(ctx, s.idsKey(collection))
	pipe.Del(ctx, s.seqKey(collection))
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.WithMessage(err, "failed to drop collection")
	}
	return nil
}
