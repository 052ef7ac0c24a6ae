package miner

import (
	"log/slog"

	"github.com/KirkDiggler/foresight/internal/commitment"
	"github.com/KirkDiggler/foresight/internal/common/clock"
	"github.com/KirkDiggler/foresight/internal/models"
	entryRepo "github.com/KirkDiggler/foresight/internal/repositories/entry"
	"github.com/KirkDiggler/foresight/internal/transport"
)

// Config holds the dependencies of the miner service
type Config struct {
	// Transport posts as the miner's account
	Transport transport.Adapter

	// EntryRepo keeps guesses and salts until they are revealed
	EntryRepo entryRepo.Repository

	// Generator makes salts and hashes; defaults to commitment.New(nil)
	Generator *commitment.Generator

	// Account is the miner's author ID on the transport
	Account string

	// ValidatorID is the author whose announcements drive the round
	ValidatorID string

	// Wallet is attached to commitments when the input has none
	Wallet string

	// MaxGuessLength bounds guesses in bytes; zero uses the scoring default
	MaxGuessLength int

	Clock  clock.Clock
	Logger *slog.Logger
}

// GenerateCommitmentInput contains parameters for generating a commitment
type GenerateCommitmentInput struct {
	Guess string

	// Salt is generated when empty
	Salt string
}

// GenerateCommitmentOutput contains a commitment and the reply that publishes it
type GenerateCommitmentOutput struct {
	Guess string
	Salt  string
	Hash  string

	// Reply is the text to post under the round announcement
	Reply string
}

// SubmitCommitmentInput contains parameters for committing to a round
type SubmitCommitmentInput struct {
	// RoundID must match the validator's open round; empty accepts whichever is open
	RoundID string
	Guess   string
	Wallet  string
}

// SubmitCommitmentOutput contains the stored entry
type SubmitCommitmentOutput struct {
	Entry *models.Entry

	// AlreadyPosted is true when an earlier call had already replied
	AlreadyPosted bool
}

// SubmitRevealInput contains parameters for revealing
type SubmitRevealInput struct {
	// RoundID must match the validator's reveal round; empty accepts whichever is open
	RoundID string
}

// SubmitRevealOutput contains the revealed entry
type SubmitRevealOutput struct {
	Entry *models.Entry

	// AlreadyPosted is true when an earlier call had already revealed
	AlreadyPosted bool
}

// PollOutput reports what the latest announcement said and what the miner did
type PollOutput struct {
	// Tags is nil when the validator has posted nothing recognisable
	Tags *transport.Tags

	// Revealed is true when this poll posted a reveal
	Revealed bool

	Entry *models.Entry
}

// ListEntriesInput contains parameters for listing entries
type ListEntriesInput struct {
	Limit int
}

// ListEntriesOutput contains entries
type ListEntriesOutput struct {
	Entries []*models.Entry
}
