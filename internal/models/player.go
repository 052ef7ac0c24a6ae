package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Player is the cross-round record of a transport author
type Player struct {
	// ID is the transport author ID of the player
	ID string `json:"id"`

	// Name is the display name of the player
	Name string `json:"name"`

	// Wallet is the most recent payout address the player supplied
	Wallet string `json:"wallet,omitempty"`

	// RoundsEntered counts finished rounds the player committed to
	RoundsEntered int `json:"rounds_entered"`

	// RoundsPaid counts finished rounds with a non-zero payout
	RoundsPaid int `json:"rounds_paid"`

	// TotalWinnings is the sum of all payouts
	TotalWinnings decimal.Decimal `json:"total_winnings"`

	// RoundIDs lists the rounds already counted in the stats
	RoundIDs []string `json:"round_ids,omitempty"`

	// UpdatedAt is when the stats last changed
	UpdatedAt time.Time `json:"updated_at"`
}

// HasRound reports whether the round was already counted
func (p *Player) HasRound(roundID string) bool {
	for _, id := range p.RoundIDs {
		if id == roundID {
			return true
		}
	}
	return false
}
