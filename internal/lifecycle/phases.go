package lifecycle

import (
	"context"
	"errors"
	"fmt"

	"github.com/KirkDiggler/foresight/internal/commitment"
	"github.com/KirkDiggler/foresight/internal/models"
	"github.com/KirkDiggler/foresight/internal/repositories/ledger"
	"github.com/KirkDiggler/foresight/internal/scoring"
	"github.com/shopspring/decimal"
)

// Round is a round in a known phase. Each concrete type only offers the
// transitions legal from its phase.
type Round interface {
	ID() string
	Phase() models.Phase
	// Record returns a copy of the stored form of the round
	Record() *models.Round
}

// state is shared by every phase type. A state is spent once it has been
// advanced; the value returned by the transition carries the round on.
type state struct {
	m     *Machine
	rec   *models.Round
	spent bool
}

func (s *state) ID() string {
	return s.rec.ID
}

func (s *state) Phase() models.Phase {
	return s.rec.Phase
}

func (s *state) Record() *models.Round {
	return s.rec.Clone()
}

func (s *state) live() error {
	if s.spent {
		return fmt.Errorf("%w: round %s left %s", ErrStaleRound, s.rec.ID, s.rec.Phase.DisplayName())
	}
	return nil
}

// advance runs a transition from the current phase and marks this value spent on success
func (s *state) advance(ctx context.Context, st step) (*models.Round, error) {
	if err := s.live(); err != nil {
		return nil, err
	}
	next, err := s.m.transition(ctx, s.rec, s.rec.Phase, st)
	if err != nil {
		return nil, err
	}
	s.spent = true
	return next, nil
}

// CommitmentsOpen accepts commitments
type CommitmentsOpen struct{ state }

// IngestCommitments upserts commitment replies by author
func (c *CommitmentsOpen) IngestCommitments(ctx context.Context, subs []CommitmentSubmission) (*IngestResult, error) {
	if err := c.live(); err != nil {
		return nil, err
	}
	return c.ingest(ctx, "commitment", func(rec *models.Round) *IngestResult {
		return applyCommitments(rec, subs)
	})
}

// Close announces that commitments are closed
func (c *CommitmentsOpen) Close(ctx context.Context) (*CommitmentsClosed, error) {
	next, err := c.advance(ctx, step{
		prompt: fmt.Sprintf("Close commitments for round %s (%d participants)?", c.rec.ID, len(c.rec.Participants)),
		action: c.m.announce,
	})
	if err != nil {
		return nil, err
	}
	return &CommitmentsClosed{state{m: c.m, rec: next}}, nil
}

// CommitmentsClosed waits for the target frame
type CommitmentsClosed struct{ state }

// CaptureFrame records the target frame found at path
func (c *CommitmentsClosed) CaptureFrame(ctx context.Context, path string) (*FrameCaptured, error) {
	next, err := c.advance(ctx, step{
		action: func(ctx context.Context, rec *models.Round) error {
			ref, err := c.m.frames.Capture(ctx, rec.ID, path)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrFrameUnavailable, err)
			}
			rec.TargetFrame = ref
			return nil
		},
	})
	if err != nil {
		return nil, err
	}
	return &FrameCaptured{state{m: c.m, rec: next}}, nil
}

// FrameCaptured holds the target frame until reveals open
type FrameCaptured struct{ state }

// Frame returns the captured frame reference
func (f *FrameCaptured) Frame() models.FrameRef {
	return f.rec.TargetFrame
}

// OpenReveals posts the frame and reveal instructions
func (f *FrameCaptured) OpenReveals(ctx context.Context) (*RevealsOpen, error) {
	next, err := f.advance(ctx, step{
		prompt: fmt.Sprintf("Post the target frame and open reveals for round %s?", f.rec.ID),
		action: f.m.announce,
	})
	if err != nil {
		return nil, err
	}
	return &RevealsOpen{state{m: f.m, rec: next}}, nil
}

// RevealsOpen accepts reveals
type RevealsOpen struct{ state }

// IngestReveals upserts reveal replies by author. Reveals from authors with
// no commitment are kept and excluded at scoring.
func (r *RevealsOpen) IngestReveals(ctx context.Context, subs []RevealSubmission) (*IngestResult, error) {
	if err := r.live(); err != nil {
		return nil, err
	}
	return r.ingest(ctx, "reveal", func(rec *models.Round) *IngestResult {
		return applyReveals(rec, subs)
	})
}

// Close announces that reveals are closed
func (r *RevealsOpen) Close(ctx context.Context) (*RevealsClosed, error) {
	next, err := r.advance(ctx, step{
		prompt: fmt.Sprintf("Close reveals for round %s?", r.rec.ID),
		action: r.m.announce,
	})
	if err != nil {
		return nil, err
	}
	return &RevealsClosed{state{m: r.m, rec: next}}, nil
}

// RevealsClosed is ready for verification and scoring
type RevealsClosed struct{ state }

// Score verifies every reveal, scores the verified participants and attaches payouts
func (r *RevealsClosed) Score(ctx context.Context) (*Payouts, error) {
	next, err := r.advance(ctx, step{action: r.m.score})
	if err != nil {
		return nil, err
	}
	return &Payouts{state{m: r.m, rec: next}}, nil
}

// Payouts carries scoring results until they are recorded and announced
type Payouts struct{ state }

// Results returns the ranked results
func (p *Payouts) Results() []*models.ScoringResult {
	return p.Record().Results
}

// Recorded reports whether the payouts are in the ledger
func (p *Payouts) Recorded() bool {
	return p.rec.PayoutsRecordedAt != nil
}

// RecordPayouts writes one ledger entry per result. Recording twice is harmless.
func (p *Payouts) RecordPayouts(ctx context.Context) (*ledger.RecordPayoutsOutput, error) {
	if err := p.live(); err != nil {
		return nil, err
	}

	m := p.m
	now := m.clock.Now()
	entries := make([]*models.PayoutEntry, 0, len(p.rec.Results))
	for _, res := range p.rec.Results {
		entries = append(entries, &models.PayoutEntry{
			ID:            m.uuid.NewUUID(),
			RoundID:       p.rec.ID,
			ParticipantID: res.ParticipantID,
			Wallet:        res.Wallet,
			Rank:          res.Rank,
			Amount:        res.Payout,
			Currency:      p.rec.Currency,
			Timestamp:     now,
		})
	}

	out, err := m.ledger.RecordPayouts(ctx, &ledger.RecordPayoutsInput{RoundID: p.rec.ID, Entries: entries})
	if err != nil {
		return nil, fmt.Errorf("failed to record payouts: %w", err)
	}

	if p.rec.PayoutsRecordedAt == nil {
		next, err := m.update(ctx, p.rec, func(rec *models.Round) error {
			rec.PayoutsRecordedAt = &now
			return nil
		})
		if err != nil {
			return nil, err
		}
		p.rec = next

		total, _ := next.TotalPayout().Float64()
		m.metrics.PayoutsDistributed(out.Recorded, total)
		m.logger.InfoContext(ctx, "payouts recorded",
			"round_id", next.ID, "recorded", out.Recorded, "existing", out.Existing)
	}
	return out, nil
}

// Finish announces the results and closes the round for good
func (p *Payouts) Finish(ctx context.Context) (*Finished, error) {
	next, err := p.advance(ctx, step{
		check: func(rec *models.Round) error {
			if rec.PayoutsRecordedAt == nil {
				return ErrPayoutsNotRecorded
			}
			return nil
		},
		prompt: fmt.Sprintf("Publish results and finish round %s?", p.rec.ID),
		action: p.m.announce,
	})
	if err != nil {
		return nil, err
	}
	return &Finished{state{m: p.m, rec: next}}, nil
}

// Finished is immutable
type Finished struct{ state }

// Results returns the ranked results
func (f *Finished) Results() []*models.ScoringResult {
	return f.Record().Results
}

// score verifies reveals, filters out everyone who cannot be scored and runs the engine
func (m *Machine) score(ctx context.Context, rec *models.Round) error {
	var entries []commitment.Entry
	var pending []*models.Participant

	for _, p := range rec.Participants {
		p.Verified = false
		p.Score = 0
		p.Payout = decimal.Zero
		p.Exclusion = models.ExclusionNone

		switch {
		case !p.HasCommitment():
			p.Exclusion = models.ExclusionNoCommitment
		case !p.HasReveal():
			p.Exclusion = models.ExclusionNoReveal
		default:
			entries = append(entries, commitment.Entry{Guess: p.Guess, Salt: p.Salt, Hash: p.CommitmentHash})
			pending = append(pending, p)
		}
	}

	matched, err := m.verifier.VerifyBatch(ctx, entries)
	if err != nil {
		return fmt.Errorf("reveal verification failed: %w", err)
	}

	var candidates []scoring.Candidate
	rejected := 0
	for i, p := range pending {
		switch {
		case !matched[i]:
			p.Exclusion = models.ExclusionHashMismatch
		case !m.engine.ValidGuess(p.Guess):
			p.Exclusion = models.ExclusionInvalidGuess
		default:
			p.Verified = true
			candidates = append(candidates, scoring.Candidate{
				ParticipantID: p.ID,
				Name:          p.Name,
				Wallet:        p.Wallet,
				Guess:         p.Guess,
			})
			continue
		}
		rejected++
		m.logger.InfoContext(ctx, "participant excluded",
			"round_id", rec.ID, "participant_id", p.ID, "reason", p.Exclusion)
	}
	m.metrics.Verification(len(candidates), rejected)

	eval, err := m.engine.Evaluate(ctx, rec.TargetFrame.Path, candidates, rec.PrizePool, rec.PlatformFee)
	if errors.Is(err, scoring.ErrTooFewParticipants) {
		return fmt.Errorf("%w: %d verified of %d", ErrNoValidParticipants, len(candidates), len(rec.Participants))
	}
	if err != nil {
		return err
	}

	for _, res := range eval.Results {
		if p, ok := rec.Participant(res.ParticipantID); ok {
			p.Score = res.Score
			p.Payout = res.Payout
		}
	}
	rec.Results = eval.Results
	rec.Scoring = eval.Info
	return nil
}
