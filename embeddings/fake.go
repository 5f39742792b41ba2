package embeddings

import (
	"context"
	"math"

	"github.com/cespare/xxhash/v2"
)

// Fake is a deterministic embedder for tests: the vector is derived from a
// hash of the text, so equal texts embed identically and different texts
// almost never collide.
type Fake struct {
	Dimensions int
}

var _ Embedder = Fake{}

// NewFake creates a fake embedder producing vectors of the given size.
func NewFake(dimensions int) Fake {
	return Fake{Dimensions: dimensions}
}

func (f Fake) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = f.embed(text)
	}
	return vectors, nil
}

func (f Fake) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	return f.embed(text), nil
}

func (f Fake) embed(text string) []float32 {
	seed := xxhash.Sum64String(text)
	vector := make([]float32, f.Dimensions)
	var norm float64
	for i := range vector {
		// xorshift over the seed for a stable pseudo-random vector
		seed ^= seed << 13
		seed ^= seed >> 7
		seed ^= seed << 17
		v := float64(int64(seed%2000)-1000) / 1000
		vector[i] = float32(v)
		norm += v * v
	}
	if norm > 0 {
		n := float32(math.Sqrt(norm))
		for i := range vector {
			vector[i] /= n
		}
	}
	return vector
}
