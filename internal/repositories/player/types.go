package player

import (
	"time"

	"github.com/KirkDiggler/foresight/internal/models"
	"github.com/shopspring/decimal"
)

// SavePlayerInput contains the player to save
type SavePlayerInput struct {
	Player *models.Player
}

// GetPlayerInput contains parameters for retrieving a player
type GetPlayerInput struct {
	PlayerID string
}

// GetPlayersInRoundInput contains parameters for retrieving a round's players
type GetPlayersInRoundInput struct {
	RoundID string
}

// GetPlayersInRoundOutput contains the round's players
type GetPlayersInRoundOutput struct {
	Players []*models.Player
}

// RecordRoundStatsInput describes one player's outcome in a finished round
type RecordRoundStatsInput struct {
	PlayerID  string
	Name      string
	Wallet    string
	RoundID   string
	Payout    decimal.Decimal
	UpdatedAt time.Time
}

// GetLeaderboardInput contains parameters for the leaderboard
type GetLeaderboardInput struct {
	Limit int
}

// GetLeaderboardOutput contains players ordered by total winnings, highest first
type GetLeaderboardOutput struct {
	Players []*models.Player
}
