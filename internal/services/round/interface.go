package round

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/KirkDiggler/foresight/internal/services/round Service

import "context"

// Service defines the validator's round operations
type Service interface {
	// CreateRound announces a new round and opens commitments
	CreateRound(ctx context.Context, input *CreateRoundInput) (*CreateRoundOutput, error)

	// GetRound returns a stored round
	GetRound(ctx context.Context, input *GetRoundInput) (*GetRoundOutput, error)

	// ListRounds returns stored rounds, newest first
	ListRounds(ctx context.Context, input *ListRoundsInput) (*ListRoundsOutput, error)

	// CollectCommitments re-reads commitment replies and upserts them
	CollectCommitments(ctx context.Context, input *CollectInput) (*CollectOutput, error)

	// CollectReveals re-reads reveal replies and upserts them
	CollectReveals(ctx context.Context, input *CollectInput) (*CollectOutput, error)

	// Collect reads whichever kind of reply the round currently accepts
	Collect(ctx context.Context, input *CollectInput) (*CollectOutput, error)

	// CloseCommitments moves CommitmentsOpen to CommitmentsClosed
	CloseCommitments(ctx context.Context, input *TransitionInput) (*TransitionOutput, error)

	// CaptureFrame moves CommitmentsClosed to FrameCaptured
	CaptureFrame(ctx context.Context, input *CaptureFrameInput) (*TransitionOutput, error)

	// OpenReveals moves FrameCaptured to RevealsOpen
	OpenReveals(ctx context.Context, input *TransitionInput) (*TransitionOutput, error)

	// CloseReveals moves RevealsOpen to RevealsClosed
	CloseReveals(ctx context.Context, input *TransitionInput) (*TransitionOutput, error)

	// ProcessPayouts verifies, scores and moves RevealsClosed to Payouts
	ProcessPayouts(ctx context.Context, input *TransitionInput) (*TransitionOutput, error)

	// RecordPayouts writes the payouts of a round to the ledger
	RecordPayouts(ctx context.Context, input *TransitionInput) (*RecordPayoutsOutput, error)

	// FinishRound announces results, moves Payouts to Finished and updates player stats
	FinishRound(ctx context.Context, input *TransitionInput) (*TransitionOutput, error)

	// Advance performs the single next step for the round's phase
	Advance(ctx context.Context, input *AdvanceInput) (*TransitionOutput, error)

	// GetRoundStats summarizes participation and payouts
	GetRoundStats(ctx context.Context, input *GetRoundStatsInput) (*GetRoundStatsOutput, error)

	// MarkPayoutPaid records that a payout was transferred
	MarkPayoutPaid(ctx context.Context, input *MarkPayoutPaidInput) error

	// GetLeaderboard returns players by total winnings
	GetLeaderboard(ctx context.Context, input *GetLeaderboardInput) (*GetLeaderboardOutput, error)
}
