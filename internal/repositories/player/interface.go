package player

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/KirkDiggler/foresight/internal/repositories/player Repository

import (
	"context"

	"github.com/KirkDiggler/foresight/internal/models"
)

// Repository defines the interface for player data persistence
type Repository interface {
	// SavePlayer persists a player
	SavePlayer(ctx context.Context, input *SavePlayerInput) error

	// GetPlayer retrieves a player by ID
	GetPlayer(ctx context.Context, input *GetPlayerInput) (*models.Player, error)

	// GetPlayersInRound retrieves every player whose stats include a round
	GetPlayersInRound(ctx context.Context, input *GetPlayersInRoundInput) (*GetPlayersInRoundOutput, error)

	// RecordRoundStats folds a finished round into a player's stats. A round
	// that was already counted for the player is ignored.
	RecordRoundStats(ctx context.Context, input *RecordRoundStatsInput) (*models.Player, error)

	// GetLeaderboard returns players ordered by total winnings
	GetLeaderboard(ctx context.Context, input *GetLeaderboardInput) (*GetLeaderboardOutput, error)
}
