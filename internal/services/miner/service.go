package miner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/KirkDiggler/foresight/internal/commitment"
	"github.com/KirkDiggler/foresight/internal/common/clock"
	"github.com/KirkDiggler/foresight/internal/models"
	entryRepo "github.com/KirkDiggler/foresight/internal/repositories/entry"
	"github.com/KirkDiggler/foresight/internal/scoring"
	"github.com/KirkDiggler/foresight/internal/transport"
)

// service implements the Service interface
type service struct {
	transport      transport.Adapter
	entryRepo      entryRepo.Repository
	generator      *commitment.Generator
	account        string
	validatorID    string
	wallet         string
	maxGuessLength int
	clock          clock.Clock
	logger         *slog.Logger
}

// NewService creates a new miner service
func NewService(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.Transport == nil {
		return nil, ErrNilTransport
	}
	if cfg.EntryRepo == nil {
		return nil, ErrNilEntryRepo
	}
	if cfg.Account == "" {
		return nil, ErrMissingAccount
	}
	if cfg.ValidatorID == "" {
		return nil, ErrMissingValidatorID
	}

	s := &service{
		transport:      cfg.Transport,
		entryRepo:      cfg.EntryRepo,
		generator:      cfg.Generator,
		account:        cfg.Account,
		validatorID:    cfg.ValidatorID,
		wallet:         cfg.Wallet,
		maxGuessLength: cfg.MaxGuessLength,
		clock:          cfg.Clock,
		logger:         cfg.Logger,
	}
	if s.generator == nil {
		s.generator = commitment.New(nil)
	}
	if s.clock == nil {
		s.clock = clock.New()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s, nil
}

// validGuess rejects guesses the validator would exclude, plus guesses the
// reveal reply cannot carry unchanged (multi-line or padded with spaces)
func (s *service) validGuess(guess string) bool {
	return scoring.ValidateGuess(guess, s.maxGuessLength) && transport.Revealable(guess, "0")
}

// GenerateCommitment hashes a guess with a fresh salt without posting anything
func (s *service) GenerateCommitment(ctx context.Context, input *GenerateCommitmentInput) (*GenerateCommitmentOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}
	if !s.validGuess(input.Guess) {
		return nil, ErrInvalidGuess
	}

	salt := input.Salt
	if salt == "" {
		generated, err := s.generator.GenerateSalt()
		if err != nil {
			return nil, err
		}
		salt = generated
	}
	if !transport.Revealable(input.Guess, salt) {
		return nil, ErrInvalidSalt
	}

	hash, err := s.generator.Commit(input.Guess, salt)
	if err != nil {
		return nil, err
	}

	return &GenerateCommitmentOutput{
		Guess: input.Guess,
		Salt:  salt,
		Hash:  hash,
		Reply: transport.FormatCommitment(hash, s.wallet),
	}, nil
}

// announcement returns the validator's latest tagged message
func (s *service) announcement(ctx context.Context) (*transport.Message, *transport.Tags, error) {
	msg, err := s.transport.LatestMessage(ctx, s.validatorID)
	if errors.Is(err, transport.ErrMessageNotFound) {
		return nil, nil, ErrNoAnnouncement
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read validator messages: %w", err)
	}

	tags, ok := transport.ParseTags(msg.Text)
	if !ok {
		return nil, nil, ErrNoAnnouncement
	}
	return msg, tags, nil
}

// openAnnouncement returns the announcement to reply to, which must be for phase
func (s *service) openAnnouncement(ctx context.Context, roundID string, phase models.Phase) (*transport.Message, *transport.Tags, error) {
	msg, tags, err := s.announcement(ctx)
	if err != nil {
		return nil, nil, err
	}
	if roundID != "" && tags.RoundID != roundID {
		return nil, nil, fmt.Errorf("%w: want %s, validator is on %s", ErrRoundMismatch, roundID, tags.RoundID)
	}
	if tags.Phase != phase {
		return nil, nil, fmt.Errorf("%w: round %s is in %s", ErrPhaseClosed, tags.RoundID, tags.Phase.DisplayName())
	}
	return msg, tags, nil
}

// SubmitCommitment stores the secret entry first, then replies with the hash.
// A retry after a failed reply reuses the stored salt.
func (s *service) SubmitCommitment(ctx context.Context, input *SubmitCommitmentInput) (*SubmitCommitmentOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}
	if !s.validGuess(input.Guess) {
		return nil, ErrInvalidGuess
	}

	msg, tags, err := s.openAnnouncement(ctx, input.RoundID, models.PhaseCommitmentsOpen)
	if err != nil {
		return nil, err
	}

	wallet := input.Wallet
	if wallet == "" {
		wallet = s.wallet
	}

	entry, err := s.entryRepo.GetEntry(ctx, &entryRepo.GetEntryInput{Account: s.account, RoundID: tags.RoundID})
	switch {
	case errors.Is(err, entryRepo.ErrEntryNotFound):
		entry, err = s.newEntry(ctx, tags.RoundID, input.Guess, wallet)
		if err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	case entry.Guess != input.Guess:
		return nil, ErrGuessConflict
	case entry.CommitMessageID != "":
		return &SubmitCommitmentOutput{Entry: entry, AlreadyPosted: true}, nil
	}

	id, err := s.transport.Reply(ctx, msg.ID, transport.FormatCommitment(entry.Hash, entry.Wallet))
	if err != nil {
		return nil, fmt.Errorf("failed to post commitment: %w", err)
	}

	entry.CommitMessageID = id
	if err := s.entryRepo.SaveEntry(ctx, &entryRepo.SaveEntryInput{Entry: entry}); err != nil {
		return nil, fmt.Errorf("commitment posted as %s but not saved: %w", id, err)
	}

	s.logger.InfoContext(ctx, "commitment posted",
		"round_id", entry.RoundID, "account", s.account, "message_id", id)
	return &SubmitCommitmentOutput{Entry: entry}, nil
}

func (s *service) newEntry(ctx context.Context, roundID, guess, wallet string) (*models.Entry, error) {
	salt, err := s.generator.GenerateSalt()
	if err != nil {
		return nil, err
	}
	hash, err := s.generator.Commit(guess, salt)
	if err != nil {
		return nil, err
	}

	entry := &models.Entry{
		RoundID:   roundID,
		Account:   s.account,
		Guess:     guess,
		Salt:      salt,
		Hash:      hash,
		Wallet:    wallet,
		CreatedAt: s.clock.Now(),
	}
	if err := s.entryRepo.SaveEntry(ctx, &entryRepo.SaveEntryInput{Entry: entry, Create: true}); err != nil {
		return nil, fmt.Errorf("failed to store entry: %w", err)
	}
	return entry, nil
}

// SubmitReveal replies to the reveal announcement with the stored guess and salt
func (s *service) SubmitReveal(ctx context.Context, input *SubmitRevealInput) (*SubmitRevealOutput, error) {
	if input == nil {
		input = &SubmitRevealInput{}
	}

	msg, tags, err := s.openAnnouncement(ctx, input.RoundID, models.PhaseRevealsOpen)
	if err != nil {
		return nil, err
	}
	return s.reveal(ctx, msg, tags)
}

func (s *service) reveal(ctx context.Context, msg *transport.Message, tags *transport.Tags) (*SubmitRevealOutput, error) {
	entry, err := s.entryRepo.GetEntry(ctx, &entryRepo.GetEntryInput{Account: s.account, RoundID: tags.RoundID})
	if errors.Is(err, entryRepo.ErrEntryNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNoEntry, tags.RoundID)
	}
	if err != nil {
		return nil, err
	}
	if entry.IsRevealed() {
		return &SubmitRevealOutput{Entry: entry, AlreadyPosted: true}, nil
	}

	id, err := s.transport.Reply(ctx, msg.ID, transport.FormatReveal(entry.Guess, entry.Salt))
	if err != nil {
		return nil, fmt.Errorf("failed to post reveal: %w", err)
	}

	now := s.clock.Now()
	entry.RevealMessageID = id
	entry.RevealedAt = &now
	if err := s.entryRepo.SaveEntry(ctx, &entryRepo.SaveEntryInput{Entry: entry}); err != nil {
		return nil, fmt.Errorf("reveal posted as %s but not saved: %w", id, err)
	}

	s.logger.InfoContext(ctx, "reveal posted",
		"round_id", entry.RoundID, "account", s.account, "message_id", id)
	return &SubmitRevealOutput{Entry: entry}, nil
}

// Poll reads the validator's latest announcement. When it opens reveals for
// a round this miner committed to, the reveal is posted.
func (s *service) Poll(ctx context.Context) (*PollOutput, error) {
	msg, tags, err := s.announcement(ctx)
	if errors.Is(err, ErrNoAnnouncement) {
		return &PollOutput{}, nil
	}
	if err != nil {
		return nil, err
	}

	out := &PollOutput{Tags: tags}
	if tags.Phase != models.PhaseRevealsOpen {
		return out, nil
	}

	revealed, err := s.reveal(ctx, msg, tags)
	if errors.Is(err, ErrNoEntry) {
		return out, nil
	}
	if err != nil {
		return nil, err
	}

	out.Entry = revealed.Entry
	out.Revealed = !revealed.AlreadyPosted
	return out, nil
}

// ListEntries returns the miner's stored entries, newest first
func (s *service) ListEntries(ctx context.Context, input *ListEntriesInput) (*ListEntriesOutput, error) {
	limit := 0
	if input != nil {
		limit = input.Limit
	}
	out, err := s.entryRepo.ListEntries(ctx, &entryRepo.ListEntriesInput{Account: s.account, Limit: limit})
	if err != nil {
		return nil, err
	}
	return &ListEntriesOutput{Entries: out.Entries}, nil
}
