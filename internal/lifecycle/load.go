package lifecycle

import (
	"fmt"

	"github.com/KirkDiggler/foresight/internal/models"
)

// Load validates a stored record against its phase and returns the typed round.
// A record whose data does not fit its phase is rejected, never repaired.
func (m *Machine) Load(rec *models.Round) (Round, error) {
	if err := Validate(rec); err != nil {
		return nil, err
	}

	s := state{m: m, rec: rec.Clone()}
	switch rec.Phase {
	case models.PhaseCommitmentsOpen:
		return &CommitmentsOpen{s}, nil
	case models.PhaseCommitmentsClosed:
		return &CommitmentsClosed{s}, nil
	case models.PhaseFrameCaptured:
		return &FrameCaptured{s}, nil
	case models.PhaseRevealsOpen:
		return &RevealsOpen{s}, nil
	case models.PhaseRevealsClosed:
		return &RevealsClosed{s}, nil
	case models.PhasePayouts:
		return &Payouts{s}, nil
	case models.PhaseFinished:
		return &Finished{s}, nil
	}
	return nil, inconsistent(rec, "unknown phase %q", rec.Phase)
}

// As loads rec and checks it is in the phase T represents
func As[T Round](m *Machine, rec *models.Round) (T, error) {
	var zero T
	r, err := m.Load(rec)
	if err != nil {
		return zero, err
	}
	t, ok := r.(T)
	if !ok {
		return zero, fmt.Errorf("%w: round %s is in %s", ErrWrongPhase, rec.ID, rec.Phase.DisplayName())
	}
	return t, nil
}

// Validate checks that a record's data is what its phase implies
func Validate(rec *models.Round) error {
	if rec == nil {
		return fmt.Errorf("%w: nil record", ErrInconsistentRecord)
	}
	if rec.ID == "" {
		return inconsistent(rec, "missing ID")
	}
	if !rec.Phase.Valid() {
		return inconsistent(rec, "unknown phase %q", rec.Phase)
	}
	if !rec.PrizePool.IsPositive() {
		return inconsistent(rec, "prize pool %s is not positive", rec.PrizePool)
	}
	if rec.PlatformFee < 0 || rec.PlatformFee >= 1 {
		return inconsistent(rec, "platform fee %v outside [0, 1)", rec.PlatformFee)
	}

	reached := func(p models.Phase) bool { return !rec.Phase.Before(p) }

	if rec.Announcement(models.PhaseCommitmentsOpen) == "" {
		return inconsistent(rec, "no commitment announcement")
	}

	seen := make(map[string]bool, len(rec.Participants))
	for _, p := range rec.Participants {
		if p == nil || p.ID == "" {
			return inconsistent(rec, "participant without ID")
		}
		if seen[p.ID] {
			return inconsistent(rec, "duplicate participant %s", p.ID)
		}
		seen[p.ID] = true

		if p.HasReveal() && !reached(models.PhaseRevealsOpen) {
			return inconsistent(rec, "participant %s revealed before reveals opened", p.ID)
		}
		if p.Verified && !reached(models.PhasePayouts) {
			return inconsistent(rec, "participant %s verified before scoring", p.ID)
		}
	}

	if reached(models.PhaseFrameCaptured) && rec.TargetFrame.IsZero() {
		return inconsistent(rec, "no target frame")
	}
	if !reached(models.PhaseFrameCaptured) && !rec.TargetFrame.IsZero() {
		return inconsistent(rec, "target frame recorded before capture")
	}
	if reached(models.PhaseRevealsOpen) && rec.Announcement(models.PhaseRevealsOpen) == "" {
		return inconsistent(rec, "no reveal announcement")
	}

	if reached(models.PhasePayouts) {
		if len(rec.Results) == 0 || rec.Scoring == nil {
			return inconsistent(rec, "no scoring results")
		}
		if rec.TotalPayout().GreaterThan(rec.PrizePool) {
			return inconsistent(rec, "payouts %s exceed prize pool %s", rec.TotalPayout(), rec.PrizePool)
		}
		for _, res := range rec.Results {
			p, ok := rec.Participant(res.ParticipantID)
			if !ok || !p.Verified {
				return inconsistent(rec, "result for unverified participant %s", res.ParticipantID)
			}
		}
	} else if len(rec.Results) > 0 || rec.Scoring != nil {
		return inconsistent(rec, "results present before scoring")
	}

	if rec.Phase == models.PhaseFinished && rec.PayoutsRecordedAt == nil {
		return inconsistent(rec, "finished without recorded payouts")
	}
	return nil
}

func inconsistent(rec *models.Round, format string, args ...any) error {
	id := ""
	if rec != nil {
		id = rec.ID
	}
	return fmt.Errorf("%w: round %s: %s", ErrInconsistentRecord, id, fmt.Sprintf(format, args...))
}
