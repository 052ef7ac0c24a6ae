package models

import "time"

// Entry is a miner's private record of its own commitment for a round.
// The salt never leaves the miner until the reveal.
type Entry struct {
	RoundID         string     `json:"round_id"`
	Account         string     `json:"account"`
	Guess           string     `json:"guess"`
	Salt            string     `json:"salt"`
	Hash            string     `json:"hash"`
	Wallet          string     `json:"wallet,omitempty"`
	CommitMessageID string     `json:"commit_message_id,omitempty"`
	RevealMessageID string     `json:"reveal_message_id,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	RevealedAt      *time.Time `json:"revealed_at,omitempty"`
}

// IsRevealed reports whether the reveal was already posted
func (e *Entry) IsRevealed() bool {
	return e.RevealMessageID != ""
}
