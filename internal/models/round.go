package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FrameRef points at the target frame of a round
type FrameRef struct {
	// Path is the local file the frame was captured to
	Path string `json:"path"`

	// URL is the archived copy, when the frame store publishes one
	URL string `json:"url,omitempty"`

	// SHA256 is the hex digest of the frame contents
	SHA256 string `json:"sha256,omitempty"`

	// CapturedAt is when the frame was recorded on the round
	CapturedAt time.Time `json:"captured_at"`
}

// IsZero reports whether no frame has been recorded
func (f FrameRef) IsZero() bool {
	return f.Path == "" && f.URL == ""
}

// Round is the persisted record of one contest instance. It is plain data;
// the lifecycle package decides which changes are legal.
type Round struct {
	// ID is the unique identifier for the round
	ID string `json:"id"`

	// Description is free text shown in announcements
	Description string `json:"description"`

	// LivestreamURL is the stream the target frame will be taken from
	LivestreamURL string `json:"livestream_url,omitempty"`

	// Phase is the current lifecycle phase
	Phase Phase `json:"phase"`

	// PrizePool is the gross amount to distribute
	PrizePool decimal.Decimal `json:"prize_pool"`

	// PlatformFee is the fraction of the pool retained, in [0, 1)
	PlatformFee float64 `json:"platform_fee"`

	// Currency is the unit of PrizePool
	Currency string `json:"currency"`

	// TargetFrame is empty until FrameCaptured
	TargetFrame FrameRef `json:"target_frame"`

	// CommitmentDeadline is shown to participants
	CommitmentDeadline *time.Time `json:"commitment_deadline,omitempty"`

	// RevealDeadline is shown to participants
	RevealDeadline *time.Time `json:"reveal_deadline,omitempty"`

	// Announcements maps each phase to the message that announced it
	Announcements map[Phase]string `json:"announcements,omitempty"`

	// Participants in order of first appearance
	Participants []*Participant `json:"participants"`

	// Results in rank order, empty before Payouts
	Results []*ScoringResult `json:"results,omitempty"`

	// Scoring records the rules that produced Results
	Scoring *ScoringInfo `json:"scoring,omitempty"`

	// PayoutsRecordedAt is set once payouts are written to the ledger
	PayoutsRecordedAt *time.Time `json:"payouts_recorded_at,omitempty"`

	// CreatedAt is when the round was opened
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when the round last transitioned
	UpdatedAt time.Time `json:"updated_at"`

	// Revision increments on every persisted change
	Revision int64 `json:"revision"`
}

// Participant returns the participant with the given author ID
func (r *Round) Participant(id string) (*Participant, bool) {
	for _, p := range r.Participants {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// Announcement returns the message ID that announced a phase
func (r *Round) Announcement(phase Phase) string {
	if r.Announcements == nil {
		return ""
	}
	return r.Announcements[phase]
}

// SetAnnouncement records the message ID that announced a phase
func (r *Round) SetAnnouncement(phase Phase, messageID string) {
	if r.Announcements == nil {
		r.Announcements = make(map[Phase]string)
	}
	r.Announcements[phase] = messageID
}

// VerifiedCount returns the number of participants eligible for scoring
func (r *Round) VerifiedCount() int {
	n := 0
	for _, p := range r.Participants {
		if p.Verified {
			n++
		}
	}
	return n
}

// TotalPayout sums the payouts of all results
func (r *Round) TotalPayout() decimal.Decimal {
	total := decimal.Zero
	for _, res := range r.Results {
		total = total.Add(res.Payout)
	}
	return total
}

// Clone returns a deep copy of the round
func (r *Round) Clone() *Round {
	if r == nil {
		return nil
	}
	c := *r
	c.CommitmentDeadline = cloneTime(r.CommitmentDeadline)
	c.RevealDeadline = cloneTime(r.RevealDeadline)
	c.PayoutsRecordedAt = cloneTime(r.PayoutsRecordedAt)

	if r.Announcements != nil {
		c.Announcements = make(map[Phase]string, len(r.Announcements))
		for k, v := range r.Announcements {
			c.Announcements[k] = v
		}
	}

	if r.Participants != nil {
		c.Participants = make([]*Participant, len(r.Participants))
		for i, p := range r.Participants {
			c.Participants[i] = p.Clone()
		}
	}

	if r.Results != nil {
		c.Results = make([]*ScoringResult, len(r.Results))
		for i, res := range r.Results {
			v := *res
			c.Results[i] = &v
		}
	}

	if r.Scoring != nil {
		s := *r.Scoring
		c.Scoring = &s
	}

	return &c
}
