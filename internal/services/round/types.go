package round

import (
	"log/slog"
	"time"

	"github.com/KirkDiggler/foresight/internal/common/clock"
	"github.com/KirkDiggler/foresight/internal/lifecycle"
	"github.com/KirkDiggler/foresight/internal/models"
	ledgerRepo "github.com/KirkDiggler/foresight/internal/repositories/ledger"
	playerRepo "github.com/KirkDiggler/foresight/internal/repositories/player"
	roundRepo "github.com/KirkDiggler/foresight/internal/repositories/round"
	"github.com/KirkDiggler/foresight/internal/services/messaging"
	"github.com/KirkDiggler/foresight/internal/transport"
	"github.com/shopspring/decimal"
)

// Config holds the dependencies of the round service
type Config struct {
	// Machine advances rounds through their phases
	Machine *lifecycle.Machine

	// Transport is read for replies
	Transport transport.Adapter

	// RoundRepo reads round records
	RoundRepo roundRepo.Repository

	// PlayerRepo keeps cross-round stats
	PlayerRepo playerRepo.Repository

	// LedgerRepo tracks payouts
	LedgerRepo ledgerRepo.Repository

	// Messaging renders status text
	Messaging messaging.Service

	// ValidatorID is the transport account of the validator; its own messages are never ingested
	ValidatorID string

	// Currency is used when a round is created without one
	Currency string

	// Clock stamps player stats; defaults to the system clock
	Clock clock.Clock

	// Logger defaults to slog.Default()
	Logger *slog.Logger
}

// CreateRoundInput contains parameters for creating a round
type CreateRoundInput struct {
	RoundID            string
	Description        string
	LivestreamURL      string
	PrizePool          decimal.Decimal
	PlatformFee        float64
	Currency           string
	CommitmentDeadline *time.Time
	RevealDeadline     *time.Time
}

// CreateRoundOutput contains the created round
type CreateRoundOutput struct {
	Round *models.Round
}

// GetRoundInput identifies a round
type GetRoundInput struct {
	RoundID string
}

// GetRoundOutput contains a round
type GetRoundOutput struct {
	Round *models.Round
}

// ListRoundsInput contains parameters for listing rounds
type ListRoundsInput struct {
	// ActiveOnly limits the list to rounds that are not finished
	ActiveOnly bool
	Limit      int64
}

// ListRoundsOutput contains rounds
type ListRoundsOutput struct {
	Rounds []*models.Round
}

// CollectInput identifies the round to collect for
type CollectInput struct {
	RoundID string
}

// CollectOutput reports a collection pass
type CollectOutput struct {
	// Phase is the phase the round was in
	Phase models.Phase

	// Replies is how many replies were read
	Replies int

	// Ignored counts replies that were not submissions of the expected kind
	Ignored int

	// Result is what ingestion changed; nil when nothing was ingested
	Result *lifecycle.IngestResult
}

// TransitionInput identifies the round to advance
type TransitionInput struct {
	RoundID string
}

// TransitionOutput contains the round after the transition
type TransitionOutput struct {
	Round *models.Round
}

// CaptureFrameInput contains parameters for capturing the target frame
type CaptureFrameInput struct {
	RoundID   string
	FramePath string
}

// AdvanceInput contains parameters for Advance
type AdvanceInput struct {
	RoundID string

	// FramePath is needed when the round is in CommitmentsClosed
	FramePath string
}

// RecordPayoutsOutput reports the ledger write
type RecordPayoutsOutput struct {
	Recorded int
	Existing int
}

// GetRoundStatsInput identifies a round
type GetRoundStatsInput struct {
	RoundID string
}

// GetRoundStatsOutput summarizes a round
type GetRoundStatsOutput struct {
	RoundID      string
	Phase        models.Phase
	Participants int
	Committed    int
	Revealed     int
	Verified     int
	Excluded     map[models.ExclusionReason]int
	PrizePool    decimal.Decimal
	TotalPayout  decimal.Decimal
	PaidEntries  int
	Summary      string
}

// MarkPayoutPaidInput contains parameters for marking a payout as paid
type MarkPayoutPaidInput struct {
	RoundID       string
	ParticipantID string
	TxRef         string
}

// GetLeaderboardInput contains parameters for the leaderboard
type GetLeaderboardInput struct {
	Limit int
}

// GetLeaderboardOutput contains players by total winnings
type GetLeaderboardOutput struct {
	Players []*models.Player
}
