package miner

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/KirkDiggler/foresight/internal/services/miner Service

import "context"

// Service defines the operations a miner performs against a validator's channel
type Service interface {
	// GenerateCommitment hashes a guess with a fresh salt without posting anything
	GenerateCommitment(ctx context.Context, input *GenerateCommitmentInput) (*GenerateCommitmentOutput, error)

	// SubmitCommitment stores a secret entry and replies to the open round with its hash
	SubmitCommitment(ctx context.Context, input *SubmitCommitmentInput) (*SubmitCommitmentOutput, error)

	// SubmitReveal replies to the reveal announcement with the stored guess and salt
	SubmitReveal(ctx context.Context, input *SubmitRevealInput) (*SubmitRevealOutput, error)

	// Poll reads the validator's latest announcement and reveals when reveals are open
	Poll(ctx context.Context) (*PollOutput, error)

	// ListEntries returns the miner's stored entries, newest first
	ListEntries(ctx context.Context, input *ListEntriesInput) (*ListEntriesOutput, error)
}
