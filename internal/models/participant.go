package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExclusionReason explains why a participant was left out of scoring
type ExclusionReason string

const (
	// ExclusionNone means the participant was scored
	ExclusionNone ExclusionReason = ""

	// ExclusionNoCommitment indicates a reveal arrived from an author with no commitment
	ExclusionNoCommitment ExclusionReason = "no_commitment"

	// ExclusionNoReveal indicates the participant committed but never revealed
	ExclusionNoReveal ExclusionReason = "no_reveal"

	// ExclusionHashMismatch indicates the revealed guess and salt do not match the commitment
	ExclusionHashMismatch ExclusionReason = "hash_mismatch"

	// ExclusionInvalidGuess indicates the revealed guess is blank or too long
	ExclusionInvalidGuess ExclusionReason = "invalid_guess"
)

// Participant represents one author's entry in a round
type Participant struct {
	// ID is the stable author handle on the transport
	ID string `json:"id"`

	// Name is the display name of the author
	Name string `json:"name"`

	// CommitmentHash is the hex digest published during CommitmentsOpen
	CommitmentHash string `json:"commitment_hash"`

	// CommitmentMessageID is the transport message carrying the commitment
	CommitmentMessageID string `json:"commitment_message_id,omitempty"`

	// CommittedAt is when the commitment was posted
	CommittedAt *time.Time `json:"committed_at,omitempty"`

	// Guess is the revealed guess
	Guess string `json:"guess,omitempty"`

	// Salt is the revealed salt
	Salt string `json:"salt,omitempty"`

	// RevealMessageID is the transport message carrying the reveal
	RevealMessageID string `json:"reveal_message_id,omitempty"`

	// RevealedAt is when the reveal was posted
	RevealedAt *time.Time `json:"revealed_at,omitempty"`

	// Wallet is the payout address supplied with the commitment
	Wallet string `json:"wallet,omitempty"`

	// Verified is true once the reveal matches the commitment
	Verified bool `json:"verified"`

	// Exclusion records why an unverified participant was not scored
	Exclusion ExclusionReason `json:"exclusion,omitempty"`

	// Score is the similarity score, zero until scored
	Score float64 `json:"score"`

	// Payout is the amount owed, zero until payouts are computed
	Payout decimal.Decimal `json:"payout"`
}

// HasCommitment reports whether the participant published a commitment
func (p *Participant) HasCommitment() bool {
	return p.CommitmentHash != ""
}

// HasReveal reports whether the participant disclosed a guess and salt
func (p *Participant) HasReveal() bool {
	return p.Guess != "" || p.Salt != ""
}

// Clone returns a deep copy of the participant
func (p *Participant) Clone() *Participant {
	if p == nil {
		return nil
	}
	c := *p
	c.CommittedAt = cloneTime(p.CommittedAt)
	c.RevealedAt = cloneTime(p.RevealedAt)
	return &c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
