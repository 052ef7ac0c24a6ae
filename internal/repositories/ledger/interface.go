package ledger

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/KirkDiggler/foresight/internal/repositories/ledger Repository

import (
	"context"
)

// Repository defines the interface for payout ledger persistence
type Repository interface {
	// RecordPayouts writes one entry per participant for a round. Entries that
	// already exist for the same round and participant are left untouched.
	RecordPayouts(ctx context.Context, input *RecordPayoutsInput) (*RecordPayoutsOutput, error)

	// GetPayoutsForRound retrieves all ledger entries for a round
	GetPayoutsForRound(ctx context.Context, input *GetPayoutsForRoundInput) (*GetPayoutsForRoundOutput, error)

	// GetPayoutsForParticipant retrieves all ledger entries for a participant
	GetPayoutsForParticipant(ctx context.Context, input *GetPayoutsForParticipantInput) (*GetPayoutsForParticipantOutput, error)

	// MarkPayoutPaid marks an entry as transferred
	MarkPayoutPaid(ctx context.Context, input *MarkPayoutPaidInput) error
}
