package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayoutEntry records an amount owed to a participant for a round
type PayoutEntry struct {
	// ID is the unique identifier for the ledger entry
	ID string `json:"id"`

	// RoundID is the round the payout belongs to
	RoundID string `json:"round_id"`

	// ParticipantID is the author handle of the recipient
	ParticipantID string `json:"participant_id"`

	// Wallet is the destination address
	Wallet string `json:"wallet,omitempty"`

	// Rank is the recipient's position in the round
	Rank int `json:"rank"`

	// Amount is the payout value
	Amount decimal.Decimal `json:"amount"`

	// Currency is the unit of Amount
	Currency string `json:"currency"`

	// Timestamp is when the payout was recorded
	Timestamp time.Time `json:"timestamp"`

	// Paid indicates the transfer has been made
	Paid bool `json:"paid"`

	// PaidTimestamp is when the transfer was made
	PaidTimestamp time.Time `json:"paid_timestamp,omitempty"`

	// TxRef is the external transfer reference
	TxRef string `json:"tx_ref,omitempty"`
}
