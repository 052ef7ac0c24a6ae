package models

import "github.com/shopspring/decimal"

// ScoringResult is one ranked, paid line of a round's outcome
type ScoringResult struct {
	// ParticipantID is the author handle of the participant
	ParticipantID string `json:"participant_id"`

	// Name is the display name of the participant
	Name string `json:"name"`

	// Wallet is where the payout goes
	Wallet string `json:"wallet,omitempty"`

	// Rank is the 1-based position. Tied participants share the rank of the group's first slot.
	Rank int `json:"rank"`

	// TieGroup numbers the tie group, starting at 1
	TieGroup int `json:"tie_group"`

	// Score is the strategy score the rank was derived from
	Score float64 `json:"score"`

	// Payout is the amount awarded
	Payout decimal.Decimal `json:"payout"`
}

// ScoringInfo records which rules produced a round's results
type ScoringInfo struct {
	// Strategy is the registered strategy name
	Strategy string `json:"strategy"`

	// Version is the strategy version
	Version string `json:"version"`

	// TieEpsilon is the absolute tolerance used to group ties
	TieEpsilon float64 `json:"tie_epsilon"`

	// NetPool is the prize pool after the platform fee
	NetPool decimal.Decimal `json:"net_pool"`

	// Distributed is the sum of all payouts
	Distributed decimal.Decimal `json:"distributed"`
}
