package lifecycle

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/KirkDiggler/foresight/internal/commitment"
	"github.com/KirkDiggler/foresight/internal/models"
)

// CommitmentSubmission is a commitment reply read from the channel
type CommitmentSubmission struct {
	ParticipantID string
	Name          string
	MessageID     string
	Timestamp     time.Time
	Hash          string
	Wallet        string
}

// RevealSubmission is a reveal reply read from the channel
type RevealSubmission struct {
	ParticipantID string
	Name          string
	MessageID     string
	Timestamp     time.Time
	Guess         string
	Salt          string
}

// IngestResult counts what an ingestion pass changed
type IngestResult struct {
	Added     int
	Updated   int
	Unchanged int
	Rejected  int
}

// Changed reports whether the record needs saving
func (r *IngestResult) Changed() bool {
	return r.Added+r.Updated > 0
}

// ingest applies submissions to a copy of the record and saves it when anything changed
func (s *state) ingest(ctx context.Context, kind string, apply func(*models.Round) *IngestResult) (*IngestResult, error) {
	var result *IngestResult
	next, err := s.m.update(ctx, s.rec, func(rec *models.Round) error {
		result = apply(rec)
		if !result.Changed() {
			return errUnchanged
		}
		return nil
	})
	if errors.Is(err, errUnchanged) {
		return result, nil
	}
	if err != nil {
		return nil, err
	}

	s.rec = next
	s.m.metrics.Collected(kind, result.Added+result.Updated)
	s.m.logger.InfoContext(ctx, "submissions ingested",
		"round_id", next.ID, "kind", kind, "added", result.Added, "updated", result.Updated,
		"unchanged", result.Unchanged, "rejected", result.Rejected)
	return result, nil
}

var errUnchanged = LifecycleError("nothing changed")

// applyCommitments upserts by author; a later message replaces an earlier one
func applyCommitments(rec *models.Round, subs []CommitmentSubmission) *IngestResult {
	ordered := make([]CommitmentSubmission, len(subs))
	copy(ordered, subs)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Timestamp.Before(ordered[j].Timestamp) })

	result := &IngestResult{}
	for _, sub := range ordered {
		if sub.ParticipantID == "" || !commitment.ValidHash(sub.Hash) {
			result.Rejected++
			continue
		}

		at := sub.Timestamp
		p, ok := rec.Participant(sub.ParticipantID)
		if !ok {
			rec.Participants = append(rec.Participants, &models.Participant{
				ID:                  sub.ParticipantID,
				Name:                sub.Name,
				CommitmentHash:      sub.Hash,
				CommitmentMessageID: sub.MessageID,
				CommittedAt:         &at,
				Wallet:              sub.Wallet,
			})
			result.Added++
			continue
		}

		if p.CommitmentMessageID == sub.MessageID || (p.CommittedAt != nil && sub.Timestamp.Before(*p.CommittedAt)) {
			result.Unchanged++
			continue
		}

		p.CommitmentHash = sub.Hash
		p.CommitmentMessageID = sub.MessageID
		p.CommittedAt = &at
		if sub.Name != "" {
			p.Name = sub.Name
		}
		if sub.Wallet != "" {
			p.Wallet = sub.Wallet
		}
		result.Updated++
	}
	return result
}

// applyReveals upserts by author. Authors without a commitment become
// participants with an empty hash.
func applyReveals(rec *models.Round, subs []RevealSubmission) *IngestResult {
	ordered := make([]RevealSubmission, len(subs))
	copy(ordered, subs)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Timestamp.Before(ordered[j].Timestamp) })

	result := &IngestResult{}
	for _, sub := range ordered {
		if sub.ParticipantID == "" || sub.Guess == "" || sub.Salt == "" {
			result.Rejected++
			continue
		}

		at := sub.Timestamp
		p, ok := rec.Participant(sub.ParticipantID)
		if !ok {
			rec.Participants = append(rec.Participants, &models.Participant{
				ID:              sub.ParticipantID,
				Name:            sub.Name,
				Guess:           sub.Guess,
				Salt:            sub.Salt,
				RevealMessageID: sub.MessageID,
				RevealedAt:      &at,
			})
			result.Added++
			continue
		}

		if p.RevealMessageID == sub.MessageID || (p.RevealedAt != nil && sub.Timestamp.Before(*p.RevealedAt)) {
			result.Unchanged++
			continue
		}

		p.Guess = sub.Guess
		p.Salt = sub.Salt
		p.RevealMessageID = sub.MessageID
		p.RevealedAt = &at
		if sub.Name != "" {
			p.Name = sub.Name
		}
		result.Updated++
	}
	return result
}
