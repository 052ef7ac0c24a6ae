package scoring

import (
	"context"
	"testing"

	"github.com/KirkDiggler/foresight/internal/similarity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testGuesses = []string{
	"a crowded street market at dusk",
	"an empty beach with a red umbrella",
	"two dogs playing in snow",
	"a rocket on a launch pad",
}

func TestRawSimilarityMatchesProviderCosine(t *testing.T) {
	ctx := context.Background()
	provider := similarity.NewHashed(64)

	scores, err := NewRawSimilarity().ScoreBatch(ctx, provider, "frame.jpg", testGuesses)
	require.NoError(t, err)
	require.Len(t, scores, len(testGuesses))

	image, err := provider.EmbedImage(ctx, "frame.jpg")
	require.NoError(t, err)
	for i, g := range testGuesses {
		text, err := provider.EmbedText(ctx, g)
		require.NoError(t, err)
		want, err := similarity.Cosine(image, text)
		require.NoError(t, err)
		assert.InDelta(t, want, scores[i], 1e-12)
		assert.GreaterOrEqual(t, scores[i], -1.0)
		assert.LessOrEqual(t, scores[i], 1.0)
	}
}

func TestCompetitiveSoftmaxSumsToHundred(t *testing.T) {
	scores, err := NewCompetitiveSoftmax().ScoreBatch(context.Background(), similarity.NewHashed(64), "frame.jpg", testGuesses)
	require.NoError(t, err)

	var sum float64
	for _, s := range scores {
		assert.GreaterOrEqual(t, s, 0.0)
		assert.LessOrEqual(t, s, 100.0)
		sum += s
	}
	assert.InDelta(t, 100.0, sum, 1e-9)
}

func TestCompetitiveSoftmaxPreservesOrder(t *testing.T) {
	ctx := context.Background()
	provider := similarity.NewHashed(64)

	raw, err := NewRawSimilarity().ScoreBatch(ctx, provider, "frame.jpg", testGuesses)
	require.NoError(t, err)
	soft, err := NewCompetitiveSoftmax().ScoreBatch(ctx, provider, "frame.jpg", testGuesses)
	require.NoError(t, err)

	for i := range raw {
		for j := range raw {
			if raw[i] > raw[j] {
				assert.GreaterOrEqual(t, soft[i], soft[j])
			}
		}
	}
}

func TestBaselineAdjustedIsNonNegative(t *testing.T) {
	scores, err := NewBaselineAdjusted().ScoreBatch(context.Background(), similarity.NewHashed(64), "frame.jpg", testGuesses)
	require.NoError(t, err)
	for _, s := range scores {
		assert.GreaterOrEqual(t, s, 0.0)
		assert.LessOrEqual(t, s, 1.0)
	}
}

func TestRegistryLookup(t *testing.T) {
	r := DefaultRegistry()

	s, err := r.Lookup(StrategyRawSimilarity, "1.0.0")
	require.NoError(t, err)
	assert.Equal(t, StrategyRawSimilarity, s.Name())

	s, err = r.Lookup(StrategyCompetitiveSoftmax, "")
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", s.Version())

	_, err = r.Lookup(StrategyRawSimilarity, "9.9.9")
	assert.ErrorIs(t, err, ErrUnknownStrategy)

	_, err = r.Lookup("made_up", "")
	assert.ErrorIs(t, err, ErrUnknownStrategy)

	assert.ErrorIs(t, r.Register(NewRawSimilarity()), ErrDuplicateStrategy)
	assert.Equal(t, []string{
		"baseline_adjusted@1.0.0",
		"competitive_softmax@1.0.0",
		"raw_similarity@1.0.0",
	}, r.Keys())
}
