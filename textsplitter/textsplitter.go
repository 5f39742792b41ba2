// Package textsplitter splits long texts into overlapping chunks sized for
// embedding and prompting.
package textsplitter

import (
	"strings"

	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/agentchain", "textsplitter")

// TextSplitter splits a text into chunks.
type TextSplitter interface {
	SplitText(text string) ([]string, error)
}

const (
	defaultChunkSize    = 1000
	defaultChunkOverlap = 200
)

// RecursiveCharacter splits on the first separator that produces pieces,
// recursing into pieces that are still too large, then merges adjacent
// pieces into chunks of at most ChunkSize with ChunkOverlap carried over.
type RecursiveCharacter struct {
	Separators   []string
	ChunkSize    int
	ChunkOverlap int
}

var _ TextSplitter = RecursiveCharacter{}

// SplitterOption configures a splitter.
type SplitterOption func(*RecursiveCharacter)

// WithChunkSize sets the maximum chunk size in characters.
func WithChunkSize(size int) SplitterOption {
	return func(s *RecursiveCharacter) {
		s.ChunkSize = size
	}
}

// WithChunkOverlap sets how many characters adjacent chunks share.
func WithChunkOverlap(overlap int) SplitterOption {
	return func(s *RecursiveCharacter) {
		s.ChunkOverlap = overlap
	}
}

// WithSeparators sets the separators tried in order.
func WithSeparators(separators []string) SplitterOption {
	return func(s *RecursiveCharacter) {
		s.Separators = separators
	}
}

// NewRecursiveCharacter creates a splitter with paragraph, line, word and
// character separators.
func NewRecursiveCharacter(opts ...SplitterOption) RecursiveCharacter {
	s := RecursiveCharacter{
		Separators:   []string{"\n\n", "\n", " ", ""},
		ChunkSize:    defaultChunkSize,
		ChunkOverlap: defaultChunkOverlap,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// SplitText splits the text into chunks of at most ChunkSize characters.
func (s RecursiveCharacter) SplitText(text string) ([]string, error) {
	return s.splitText(text, s.Separators), nil
}

func (s RecursiveCharacter) splitText(text string, separators []string) []string {
	// Pick the first separator present in the text; the last resort splits
	// between characters.
	separator := separators[len(separators)-1]
	var nextSeparators []string
	for i, sep := range separators {
		if sep == "" || strings.Contains(text, sep) {
			separator = sep
			nextSeparators = separators[i+1:]
			break
		}
	}

	splits := splitOn(text, separator)

	var chunks []string
	var good []string
	for _, piece := range splits {
		if len(piece) < s.ChunkSize {
			good = append(good, piece)
			continue
		}
		if len(good) > 0 {
			chunks = append(chunks, s.mergeSplits(good, separator)...)
			good = nil
		}
		if len(nextSeparators) == 0 {
			chunks = append(chunks, piece)
		} else {
			chunks = append(chunks, s.splitText(piece, nextSeparators)...)
		}
	}
	if len(good) > 0 {
		chunks = append(chunks, s.mergeSplits(good, separator)...)
	}
	return chunks
}

// mergeSplits joins the pieces into chunks of at most ChunkSize, carrying
// ChunkOverlap characters of trailing pieces into the next chunk.
func (s RecursiveCharacter) mergeSplits(splits []string, separator string) []string {
	var chunks []string
	var current []string
	var total int

	for _, piece := range splits {
		if total+len(piece)+len(separator)*len(current) > s.ChunkSize && len(current) > 0 {
			chunk := strings.TrimSpace(strings.Join(current, separator))
			if chunk != "" {
				chunks = append(chunks, chunk)
			}
			// Drop leading pieces until the overlap budget fits.
			for total > s.ChunkOverlap || (total+len(piece)+len(separator)*len(current) > s.ChunkSize && total > 0) {
				total -= len(current[0])
				current = current[1:]
			}
		}
		current = append(current, piece)
		total += len(piece)
	}

	chunk := strings.TrimSpace(strings.Join(current, separator))
	if chunk != "" {
		chunks = append(chunks, chunk)
	}

	for _, c := range chunks {
		if len(c) > s.ChunkSize {
			logger.KV(xlog.DEBUG, "reason", "chunk_over_size", "size", len(c), "limit", s.ChunkSize)
		}
	}
	return chunks
}

func splitOn(text, separator string) []string {
	var splits []string
	if separator == "" {
		for _, r := range text {
			splits = append(splits, string(r))
		}
		return splits
	}
	for _, piece := range strings.Split(text, separator) {
		if piece != "" {
			splits = append(splits, piece)
		}
	}
	return splits
}
