package scoring

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/KirkDiggler/foresight/internal/models"
	"github.com/KirkDiggler/foresight/internal/similarity"
	"github.com/shopspring/decimal"
)

const (
	// DefaultTieEpsilon is the absolute score distance treated as a tie
	DefaultTieEpsilon = 1e-9

	// DefaultMinParticipants is the smallest field that can be ranked
	DefaultMinParticipants = 2

	// DefaultPrecision is the number of fractional digits payouts are truncated to
	DefaultPrecision int32 = 18

	// DefaultUnitDecimals sets the smallest currency unit, 10^-9
	DefaultUnitDecimals int32 = 9

	// DefaultMaxGuessLength is the longest guess in bytes the model can take
	DefaultMaxGuessLength = 300

	boundsSlack = 1e-9
)

// Config holds configuration for the scoring engine
type Config struct {
	// Strategy produces the scores. Required.
	Strategy Strategy

	// Provider supplies embeddings. Required.
	Provider similarity.Provider

	// TieEpsilon groups scores within this absolute distance of a group's leader.
	// Nil uses DefaultTieEpsilon; zero ties only equal scores.
	TieEpsilon *float64

	// MinParticipants is the smallest field Rank accepts
	MinParticipants int

	// Precision is the number of fractional digits kept per payout
	Precision int32

	// UnitDecimals defines the currency unit the undistributed remainder must stay below
	UnitDecimals int32

	// MaxGuessLength bounds a valid guess in bytes
	MaxGuessLength int
}

// Candidate is a verified participant ready to be scored
type Candidate struct {
	ParticipantID string
	Name          string
	Wallet        string
	Guess         string
}

// Scored is a candidate with its strategy score
type Scored struct {
	Candidate
	Score float64
}

// Ranked is a scored candidate placed in the ordering
type Ranked struct {
	Scored

	// Position is the 0-based slot in the ordering
	Position int

	// Rank is the 1-based rank shared by a tie group
	Rank int

	// TieGroup numbers tie groups from 1
	TieGroup int
}

// Evaluation is the full outcome of scoring a round
type Evaluation struct {
	Results []*models.ScoringResult
	Info    *models.ScoringInfo
}

// Engine scores guesses, ranks them and splits a prize pool by rank
type Engine struct {
	strategy        Strategy
	provider        similarity.Provider
	tieEpsilon      float64
	minParticipants int
	precision       int32
	unitDecimals    int32
	maxGuessLength  int
}

// NewEngine creates a new scoring engine
func NewEngine(cfg *Config) (*Engine, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.Strategy == nil {
		return nil, ErrNilStrategy
	}
	if cfg.Provider == nil {
		return nil, ErrNilProvider
	}
	tieEpsilon := DefaultTieEpsilon
	if cfg.TieEpsilon != nil {
		tieEpsilon = *cfg.TieEpsilon
	}
	if tieEpsilon < 0 || math.IsNaN(tieEpsilon) {
		return nil, errors.New("tie epsilon cannot be negative")
	}

	e := &Engine{
		strategy:        cfg.Strategy,
		provider:        cfg.Provider,
		tieEpsilon:      tieEpsilon,
		minParticipants: cfg.MinParticipants,
		precision:       cfg.Precision,
		unitDecimals:    cfg.UnitDecimals,
		maxGuessLength:  cfg.MaxGuessLength,
	}
	if e.minParticipants < DefaultMinParticipants {
		e.minParticipants = DefaultMinParticipants
	}
	if e.precision <= 0 {
		e.precision = DefaultPrecision
	}
	if e.unitDecimals <= 0 {
		e.unitDecimals = DefaultUnitDecimals
	}
	if e.unitDecimals > e.precision {
		return nil, errors.New("unit decimals cannot exceed payout precision")
	}
	if e.maxGuessLength <= 0 {
		e.maxGuessLength = DefaultMaxGuessLength
	}
	return e, nil
}

// Strategy returns the active strategy
func (e *Engine) Strategy() Strategy {
	return e.strategy
}

// TieEpsilon returns the tie tolerance in use
func (e *Engine) TieEpsilon() float64 {
	return e.tieEpsilon
}

// ValidGuess reports whether a guess can be scored
func (e *Engine) ValidGuess(guess string) bool {
	return ValidateGuess(guess, e.maxGuessLength)
}

// Score scores one guess against the frame on its own
func (e *Engine) Score(ctx context.Context, guess, framePath string) (float64, error) {
	scores, err := e.strategy.ScoreBatch(ctx, e.provider, framePath, []string{guess})
	if err != nil {
		return 0, err
	}
	if len(scores) != 1 {
		return 0, ErrScoreCountMismatch
	}
	if err := e.checkScore(scores[0]); err != nil {
		return 0, err
	}
	return scores[0], nil
}

// ScoreAll scores every candidate against the frame as one field
func (e *Engine) ScoreAll(ctx context.Context, framePath string, candidates []Candidate) ([]*Scored, error) {
	guesses := make([]string, len(candidates))
	for i, c := range candidates {
		guesses[i] = c.Guess
	}

	scores, err := e.strategy.ScoreBatch(ctx, e.provider, framePath, guesses)
	if err != nil {
		return nil, err
	}
	if len(scores) != len(candidates) {
		return nil, ErrScoreCountMismatch
	}

	out := make([]*Scored, len(candidates))
	for i, c := range candidates {
		out[i] = &Scored{Candidate: c, Score: scores[i]}
	}
	return out, nil
}

// Rank orders scored candidates best first and groups ties. Candidates with
// equal scores are ordered by participant ID so the ranking is reproducible.
func (e *Engine) Rank(scored []*Scored) ([]*Ranked, error) {
	if len(scored) < e.minParticipants {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrTooFewParticipants, len(scored), e.minParticipants)
	}
	for _, s := range scored {
		if err := e.checkScore(s.Score); err != nil {
			return nil, fmt.Errorf("participant %s: %w", s.ParticipantID, err)
		}
	}

	sorted := make([]*Scored, len(scored))
	copy(sorted, scored)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Score != sorted[j].Score {
			return sorted[i].Score > sorted[j].Score
		}
		return strings.Compare(sorted[i].ParticipantID, sorted[j].ParticipantID) < 0
	})

	ranked := make([]*Ranked, len(sorted))
	group, rank := 0, 0
	var leader float64
	for i, s := range sorted {
		if i == 0 || leader-s.Score > e.tieEpsilon {
			group++
			rank = i + 1
			leader = s.Score
		}
		ranked[i] = &Ranked{
			Scored:   *s,
			Position: i,
			Rank:     rank,
			TieGroup: group,
		}
	}
	return ranked, nil
}

// Distribute splits pool minus fee across the ranking. Slot i of n earns
// weight n-i out of n(n+1)/2; a tie group shares the summed weight of its
// slots equally. Payouts are truncated, never rounded up, and the remainder
// is not redistributed.
func (e *Engine) Distribute(ranking []*Ranked, pool decimal.Decimal, fee float64) ([]*models.ScoringResult, *models.ScoringInfo, error) {
	n := len(ranking)
	if n < e.minParticipants {
		return nil, nil, fmt.Errorf("%w: have %d, need %d", ErrTooFewParticipants, n, e.minParticipants)
	}
	if !pool.IsPositive() {
		return nil, nil, ErrInvalidPrizePool
	}
	if math.IsNaN(fee) || fee < 0 || fee >= 1 {
		return nil, nil, ErrInvalidFee
	}

	net := pool.Mul(decimal.NewFromInt(1).Sub(decimal.NewFromFloat(fee)))
	totalWeight := int64(n) * int64(n+1) / 2

	results := make([]*models.ScoringResult, 0, n)
	distributed := decimal.Zero

	for start := 0; start < n; {
		end := start
		for end < n && ranking[end].TieGroup == ranking[start].TieGroup {
			end++
		}
		size := int64(end - start)

		var groupWeight int64
		for i := start; i < end; i++ {
			groupWeight += int64(n - i)
		}

		share, _ := net.Mul(decimal.NewFromInt(groupWeight)).
			QuoRem(decimal.NewFromInt(size*totalWeight), e.precision)

		for i := start; i < end; i++ {
			r := ranking[i]
			results = append(results, &models.ScoringResult{
				ParticipantID: r.ParticipantID,
				Name:          r.Name,
				Wallet:        r.Wallet,
				Rank:          r.Rank,
				TieGroup:      r.TieGroup,
				Score:         r.Score,
				Payout:        share,
			})
			distributed = distributed.Add(share)
		}
		start = end
	}

	if distributed.GreaterThan(net) {
		return nil, nil, fmt.Errorf("%w: %s > %s", ErrPayoutOverflow, distributed, net)
	}
	unit := decimal.New(1, -e.unitDecimals)
	if net.Sub(distributed).GreaterThanOrEqual(unit) {
		return nil, nil, fmt.Errorf("%w: %s of %s", ErrPayoutShortfall, net.Sub(distributed), net)
	}

	info := &models.ScoringInfo{
		Strategy:    e.strategy.Name(),
		Version:     e.strategy.Version(),
		TieEpsilon:  e.tieEpsilon,
		NetPool:     net,
		Distributed: distributed,
	}
	return results, info, nil
}

// Evaluate scores, ranks and pays a field of candidates in one step
func (e *Engine) Evaluate(ctx context.Context, framePath string, candidates []Candidate, pool decimal.Decimal, fee float64) (*Evaluation, error) {
	if len(candidates) < e.minParticipants {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrTooFewParticipants, len(candidates), e.minParticipants)
	}

	scored, err := e.ScoreAll(ctx, framePath, candidates)
	if err != nil {
		return nil, err
	}

	ranking, err := e.Rank(scored)
	if err != nil {
		return nil, err
	}

	results, info, err := e.Distribute(ranking, pool, fee)
	if err != nil {
		return nil, err
	}

	return &Evaluation{Results: results, Info: info}, nil
}

func (e *Engine) checkScore(score float64) error {
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return ErrInvalidScore
	}
	lo, hi := e.strategy.Bounds()
	if score < lo-boundsSlack || score > hi+boundsSlack {
		return fmt.Errorf("%w: %g not in [%g, %g]", ErrScoreOutOfBounds, score, lo, hi)
	}
	return nil
}

// ValidateGuess reports whether a guess is non-blank and at most maxLen bytes
func ValidateGuess(guess string, maxLen int) bool {
	if strings.TrimSpace(guess) == "" {
		return false
	}
	if maxLen <= 0 {
		maxLen = DefaultMaxGuessLength
	}
	return len(guess) <= maxLen
}
