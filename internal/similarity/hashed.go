package similarity

import (
	"context"
	"hash/fnv"
	"math"
)

// DefaultDimensions matches the CLIP ViT-B/32 embedding width
const DefaultDimensions = 512

// Hashed is a deterministic provider that derives embeddings from a hash of
// the input. It has no notion of meaning and exists for development and tests.
type Hashed struct {
	dimensions int
}

// NewHashed creates a hashed provider. Non-positive dimensions use DefaultDimensions.
func NewHashed(dimensions int) *Hashed {
	if dimensions <= 0 {
		dimensions = DefaultDimensions
	}
	return &Hashed{dimensions: dimensions}
}

// EmbedImage hashes the image path
func (h *Hashed) EmbedImage(ctx context.Context, path string) (Vector, error) {
	if path == "" {
		return nil, ErrEmptyInput
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return h.embed("image:" + path), nil
}

// EmbedText hashes the text
func (h *Hashed) EmbedText(ctx context.Context, text string) (Vector, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return h.embed("text:" + text), nil
}

// Similarity returns the cosine similarity of a and b
func (h *Hashed) Similarity(a, b Vector) (float64, error) {
	return Cosine(a, b)
}

func (h *Hashed) embed(input string) Vector {
	hasher := fnv.New64a()
	hasher.Write([]byte(input))
	seed := hasher.Sum64()

	v := make(Vector, h.dimensions)
	for i := range v {
		seed = seed*1103515245 + 12345
		v[i] = float64(seed)/float64(math.MaxUint64)*2 - 1
	}
	return Normalize(v)
}
