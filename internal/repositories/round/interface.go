package round

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/KirkDiggler/foresight/internal/repositories/round Repository

import (
	"context"

	"github.com/KirkDiggler/foresight/internal/models"
)

// Repository defines the interface for round record persistence
type Repository interface {
	// SaveRound writes a round if the stored copy still has the expected revision and phase
	SaveRound(ctx context.Context, input *SaveRoundInput) error

	// GetRound retrieves a round by ID
	GetRound(ctx context.Context, input *GetRoundInput) (*models.Round, error)

	// ListRounds retrieves rounds newest first
	ListRounds(ctx context.Context, input *ListRoundsInput) (*ListRoundsOutput, error)

	// GetActiveRounds retrieves every round that has not finished
	GetActiveRounds(ctx context.Context, input *GetActiveRoundsInput) (*GetActiveRoundsOutput, error)

	// DeleteRound removes a round
	DeleteRound(ctx context.Context, input *DeleteRoundInput) error
}
