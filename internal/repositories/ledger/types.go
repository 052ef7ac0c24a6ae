package ledger

import (
	"time"

	"github.com/KirkDiggler/foresight/internal/models"
)

// RecordPayoutsInput contains the entries to record for a round
type RecordPayoutsInput struct {
	RoundID string
	Entries []*models.PayoutEntry
}

// RecordPayoutsOutput reports how many entries were new
type RecordPayoutsOutput struct {
	Recorded int
	Existing int
}

// GetPayoutsForRoundInput contains parameters for retrieving a round's entries
type GetPayoutsForRoundInput struct {
	RoundID string
}

// GetPayoutsForRoundOutput contains a round's entries in rank order
type GetPayoutsForRoundOutput struct {
	Entries []*models.PayoutEntry
}

// GetPayoutsForParticipantInput contains parameters for retrieving a participant's entries
type GetPayoutsForParticipantInput struct {
	ParticipantID string
}

// GetPayoutsForParticipantOutput contains a participant's entries, oldest first
type GetPayoutsForParticipantOutput struct {
	Entries []*models.PayoutEntry
}

// MarkPayoutPaidInput contains parameters for marking an entry as paid
type MarkPayoutPaidInput struct {
	RoundID       string
	ParticipantID string
	TxRef         string
	PaidAt        time.Time
}
