package similarity

//go:generate mockgen -package=mocks -destination=mocks/mock_provider.go github.com/KirkDiggler/foresight/internal/similarity Provider

import (
	"context"
	"math"
)

// SimilarityError is a custom error type for embedding failures
type SimilarityError string

// Error implements the error interface
func (e SimilarityError) Error() string {
	return string(e)
}

const (
	ErrDimensionMismatch SimilarityError = "embedding dimensions do not match"
	ErrEmptyEmbedding    SimilarityError = "embedding is empty"
	ErrEmptyInput        SimilarityError = "input cannot be empty"
)

// Vector is an embedding in a shared image/text space
type Vector []float64

// Provider maps images and text into one embedding space and compares them
type Provider interface {
	// EmbedImage returns the embedding of the image stored at path
	EmbedImage(ctx context.Context, path string) (Vector, error)

	// EmbedText returns the embedding of text
	EmbedText(ctx context.Context, text string) (Vector, error)

	// Similarity returns the cosine similarity of a and b in [-1, 1]
	Similarity(a, b Vector) (float64, error)
}

// Cosine returns the cosine similarity of a and b clamped to [-1, 1].
// Zero vectors have similarity 0.
func Cosine(a, b Vector) (float64, error) {
	if len(a) == 0 || len(b) == 0 {
		return 0, ErrEmptyEmbedding
	}
	if len(a) != len(b) {
		return 0, ErrDimensionMismatch
	}

	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0, nil
	}

	sim := dot / (math.Sqrt(na) * math.Sqrt(nb))
	return math.Max(-1, math.Min(1, sim)), nil
}

// Normalize scales v to unit length in place and returns it
func Normalize(v Vector) Vector {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	if sum == 0 {
		return v
	}
	norm := math.Sqrt(sum)
	for i := range v {
		v[i] /= norm
	}
	return v
}
