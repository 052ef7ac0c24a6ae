package scoring

import (
	"context"
	"fmt"
	"math"

	"github.com/KirkDiggler/foresight/internal/similarity"
)

const (
	StrategyRawSimilarity      = "raw_similarity"
	StrategyCompetitiveSoftmax = "competitive_softmax"
	StrategyBaselineAdjusted   = "baseline_adjusted"

	// clipLogitScale is the learned temperature of CLIP ViT-B/32
	clipLogitScale = 100.0
)

// RawSimilarity scores each guess by its cosine similarity to the frame
type RawSimilarity struct{}

// NewRawSimilarity creates the raw similarity strategy
func NewRawSimilarity() *RawSimilarity { return &RawSimilarity{} }

func (s *RawSimilarity) Name() string               { return StrategyRawSimilarity }
func (s *RawSimilarity) Version() string            { return "1.0.0" }
func (s *RawSimilarity) Bounds() (float64, float64) { return -1, 1 }

func (s *RawSimilarity) ScoreBatch(ctx context.Context, provider similarity.Provider, framePath string, guesses []string) ([]float64, error) {
	return rawScores(ctx, provider, framePath, guesses)
}

// CompetitiveSoftmax scores guesses relative to each other: cosine
// similarities are scaled by the CLIP logit scale and passed through a
// softmax across the round, giving percentages that sum to 100.
type CompetitiveSoftmax struct{}

// NewCompetitiveSoftmax creates the softmax strategy
func NewCompetitiveSoftmax() *CompetitiveSoftmax { return &CompetitiveSoftmax{} }

func (s *CompetitiveSoftmax) Name() string               { return StrategyCompetitiveSoftmax }
func (s *CompetitiveSoftmax) Version() string            { return "1.0.0" }
func (s *CompetitiveSoftmax) Bounds() (float64, float64) { return 0, 100 }

func (s *CompetitiveSoftmax) ScoreBatch(ctx context.Context, provider similarity.Provider, framePath string, guesses []string) ([]float64, error) {
	raw, err := rawScores(ctx, provider, framePath, guesses)
	if err != nil {
		return nil, err
	}
	return softmaxPercent(raw, clipLogitScale), nil
}

// BaselineAdjusted removes the similarity an empty prompt already has to the
// frame: (raw - baseline) / (1 - baseline), floored at zero.
type BaselineAdjusted struct{}

// NewBaselineAdjusted creates the baseline adjusted strategy
func NewBaselineAdjusted() *BaselineAdjusted { return &BaselineAdjusted{} }

func (s *BaselineAdjusted) Name() string               { return StrategyBaselineAdjusted }
func (s *BaselineAdjusted) Version() string            { return "1.0.0" }
func (s *BaselineAdjusted) Bounds() (float64, float64) { return 0, 1 }

func (s *BaselineAdjusted) ScoreBatch(ctx context.Context, provider similarity.Provider, framePath string, guesses []string) ([]float64, error) {
	image, err := provider.EmbedImage(ctx, framePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSimilarityUnavailable, err)
	}
	empty, err := provider.EmbedText(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSimilarityUnavailable, err)
	}
	baseline, err := provider.Similarity(image, empty)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSimilarityUnavailable, err)
	}

	raw, err := scoreAgainst(ctx, provider, image, guesses)
	if err != nil {
		return nil, err
	}

	out := make([]float64, len(raw))
	if baseline >= 1 {
		return out, nil
	}
	for i, r := range raw {
		out[i] = math.Max(0, (r-baseline)/(1-baseline))
	}
	return out, nil
}

func rawScores(ctx context.Context, provider similarity.Provider, framePath string, guesses []string) ([]float64, error) {
	image, err := provider.EmbedImage(ctx, framePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSimilarityUnavailable, err)
	}
	return scoreAgainst(ctx, provider, image, guesses)
}

func scoreAgainst(ctx context.Context, provider similarity.Provider, image similarity.Vector, guesses []string) ([]float64, error) {
	out := make([]float64, len(guesses))
	for i, g := range guesses {
		text, err := provider.EmbedText(ctx, g)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSimilarityUnavailable, err)
		}
		sim, err := provider.Similarity(image, text)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSimilarityUnavailable, err)
		}
		out[i] = sim
	}
	return out, nil
}

func softmaxPercent(xs []float64, scale float64) []float64 {
	out := make([]float64, len(xs))
	if len(xs) == 0 {
		return out
	}
	peak := math.Inf(-1)
	for _, x := range xs {
		peak = math.Max(peak, x*scale)
	}
	var sum float64
	for i, x := range xs {
		out[i] = math.Exp(x*scale - peak)
		sum += out[i]
	}
	for i := range out {
		out[i] = math.Min(100, out[i]/sum*100)
	}
	return out
}
