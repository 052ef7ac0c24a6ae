package round

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/KirkDiggler/foresight/internal/common/clock"
	"github.com/KirkDiggler/foresight/internal/lifecycle"
	"github.com/KirkDiggler/foresight/internal/models"
	ledgerRepo "github.com/KirkDiggler/foresight/internal/repositories/ledger"
	playerRepo "github.com/KirkDiggler/foresight/internal/repositories/player"
	roundRepo "github.com/KirkDiggler/foresight/internal/repositories/round"
	"github.com/KirkDiggler/foresight/internal/services/messaging"
	"github.com/KirkDiggler/foresight/internal/transport"
)

// service implements the Service interface
type service struct {
	machine     *lifecycle.Machine
	transport   transport.Adapter
	roundRepo   roundRepo.Repository
	playerRepo  playerRepo.Repository
	ledgerRepo  ledgerRepo.Repository
	messaging   messaging.Service
	validatorID string
	currency    string
	clock       clock.Clock
	logger      *slog.Logger
}

// NewService creates a new round service
func NewService(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.Machine == nil {
		return nil, ErrNilMachine
	}
	if cfg.Transport == nil {
		return nil, ErrNilTransport
	}
	if cfg.RoundRepo == nil {
		return nil, ErrNilRoundRepo
	}
	if cfg.PlayerRepo == nil {
		return nil, ErrNilPlayerRepo
	}
	if cfg.LedgerRepo == nil {
		return nil, ErrNilLedgerRepo
	}
	if cfg.Messaging == nil {
		return nil, ErrNilMessagingService
	}
	if cfg.ValidatorID == "" {
		return nil, ErrMissingValidatorID
	}

	s := &service{
		machine:     cfg.Machine,
		transport:   cfg.Transport,
		roundRepo:   cfg.RoundRepo,
		playerRepo:  cfg.PlayerRepo,
		ledgerRepo:  cfg.LedgerRepo,
		messaging:   cfg.Messaging,
		validatorID: cfg.ValidatorID,
		currency:    cfg.Currency,
		clock:       cfg.Clock,
		logger:      cfg.Logger,
	}
	if s.clock == nil {
		s.clock = clock.New()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s, nil
}

// CreateRound announces a new round and opens commitments
func (s *service) CreateRound(ctx context.Context, input *CreateRoundInput) (*CreateRoundOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	currency := input.Currency
	if currency == "" {
		currency = s.currency
	}

	open, err := s.machine.Open(ctx, &lifecycle.OpenInput{
		ID:                 input.RoundID,
		Description:        input.Description,
		LivestreamURL:      input.LivestreamURL,
		PrizePool:          input.PrizePool,
		PlatformFee:        input.PlatformFee,
		Currency:           currency,
		CommitmentDeadline: input.CommitmentDeadline,
		RevealDeadline:     input.RevealDeadline,
	})
	if err != nil {
		return nil, err
	}

	return &CreateRoundOutput{Round: open.Record()}, nil
}

// GetRound returns a stored round
func (s *service) GetRound(ctx context.Context, input *GetRoundInput) (*GetRoundOutput, error) {
	if input == nil || input.RoundID == "" {
		return nil, errors.New("input and round ID cannot be empty")
	}

	rec, err := s.roundRepo.GetRound(ctx, &roundRepo.GetRoundInput{RoundID: input.RoundID})
	if err != nil {
		return nil, err
	}
	return &GetRoundOutput{Round: rec}, nil
}

// ListRounds returns stored rounds
func (s *service) ListRounds(ctx context.Context, input *ListRoundsInput) (*ListRoundsOutput, error) {
	if input == nil {
		input = &ListRoundsInput{}
	}

	if input.ActiveOnly {
		out, err := s.roundRepo.GetActiveRounds(ctx, &roundRepo.GetActiveRoundsInput{})
		if err != nil {
			return nil, err
		}
		return &ListRoundsOutput{Rounds: out.Rounds}, nil
	}

	out, err := s.roundRepo.ListRounds(ctx, &roundRepo.ListRoundsInput{Limit: input.Limit})
	if err != nil {
		return nil, err
	}
	return &ListRoundsOutput{Rounds: out.Rounds}, nil
}

// load reads a round and converts it to the phase type T
func load[T lifecycle.Round](ctx context.Context, s *service, roundID string) (T, error) {
	var zero T
	if roundID == "" {
		return zero, errors.New("round ID cannot be empty")
	}
	rec, err := s.roundRepo.GetRound(ctx, &roundRepo.GetRoundInput{RoundID: roundID})
	if err != nil {
		return zero, err
	}
	return lifecycle.As[T](s.machine, rec)
}

// replies reads the replies to the announcement of phase, skipping the validator's own messages
func (s *service) replies(ctx context.Context, rec *models.Round, phase models.Phase) ([]transport.Message, error) {
	parent := rec.Announcement(phase)
	if parent == "" {
		return nil, fmt.Errorf("%w: %s", ErrMissingAnnouncement, phase.DisplayName())
	}

	msgs, err := s.transport.SearchReplies(ctx, parent)
	if err != nil {
		return nil, fmt.Errorf("failed to search replies: %w", err)
	}

	out := msgs[:0:0]
	for _, m := range msgs {
		if m.Author.ID == s.validatorID {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

// CollectCommitments re-reads commitment replies and upserts them
func (s *service) CollectCommitments(ctx context.Context, input *CollectInput) (*CollectOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}
	open, err := load[*lifecycle.CommitmentsOpen](ctx, s, input.RoundID)
	if err != nil {
		return nil, err
	}
	return s.collectCommitments(ctx, open)
}

func (s *service) collectCommitments(ctx context.Context, open *lifecycle.CommitmentsOpen) (*CollectOutput, error) {
	msgs, err := s.replies(ctx, open.Record(), models.PhaseCommitmentsOpen)
	if err != nil {
		return nil, err
	}

	out := &CollectOutput{Phase: models.PhaseCommitmentsOpen, Replies: len(msgs)}
	subs := make([]lifecycle.CommitmentSubmission, 0, len(msgs))
	for _, m := range msgs {
		c, ok := transport.ParseCommitment(m.Text)
		if !ok {
			out.Ignored++
			continue
		}
		subs = append(subs, lifecycle.CommitmentSubmission{
			ParticipantID: m.Author.ID,
			Name:          m.Author.Name,
			MessageID:     m.ID,
			Timestamp:     m.Timestamp,
			Hash:          c.Hash,
			Wallet:        c.Wallet,
		})
	}

	result, err := open.IngestCommitments(ctx, subs)
	if err != nil {
		return nil, err
	}
	out.Result = result
	return out, nil
}

// CollectReveals re-reads reveal replies and upserts them
func (s *service) CollectReveals(ctx context.Context, input *CollectInput) (*CollectOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}
	reveals, err := load[*lifecycle.RevealsOpen](ctx, s, input.RoundID)
	if err != nil {
		return nil, err
	}
	return s.collectReveals(ctx, reveals)
}

func (s *service) collectReveals(ctx context.Context, reveals *lifecycle.RevealsOpen) (*CollectOutput, error) {
	msgs, err := s.replies(ctx, reveals.Record(), models.PhaseRevealsOpen)
	if err != nil {
		return nil, err
	}

	out := &CollectOutput{Phase: models.PhaseRevealsOpen, Replies: len(msgs)}
	subs := make([]lifecycle.RevealSubmission, 0, len(msgs))
	for _, m := range msgs {
		r, ok := transport.ParseReveal(m.Text)
		if !ok {
			out.Ignored++
			continue
		}
		subs = append(subs, lifecycle.RevealSubmission{
			ParticipantID: m.Author.ID,
			Name:          m.Author.Name,
			MessageID:     m.ID,
			Timestamp:     m.Timestamp,
			Guess:         r.Guess,
			Salt:          r.Salt,
		})
	}

	result, err := reveals.IngestReveals(ctx, subs)
	if err != nil {
		return nil, err
	}
	out.Result = result
	return out, nil
}

// Collect reads whichever kind of reply the round currently accepts
func (s *service) Collect(ctx context.Context, input *CollectInput) (*CollectOutput, error) {
	if input == nil || input.RoundID == "" {
		return nil, errors.New("input and round ID cannot be empty")
	}

	r, err := s.machine.Get(ctx, input.RoundID)
	if err != nil {
		return nil, err
	}

	switch typed := r.(type) {
	case *lifecycle.CommitmentsOpen:
		return s.collectCommitments(ctx, typed)
	case *lifecycle.RevealsOpen:
		return s.collectReveals(ctx, typed)
	}
	return nil, fmt.Errorf("%w: round %s is in %s", ErrNothingToCollect, input.RoundID, r.Phase().DisplayName())
}

// CloseCommitments collects the final commitments and closes the phase
func (s *service) CloseCommitments(ctx context.Context, input *TransitionInput) (*TransitionOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}
	open, err := load[*lifecycle.CommitmentsOpen](ctx, s, input.RoundID)
	if err != nil {
		return nil, err
	}
	return s.closeCommitments(ctx, open)
}

func (s *service) closeCommitments(ctx context.Context, open *lifecycle.CommitmentsOpen) (*TransitionOutput, error) {
	if _, err := s.collectCommitments(ctx, open); err != nil {
		return nil, fmt.Errorf("failed to collect commitments before closing: %w", err)
	}
	closed, err := open.Close(ctx)
	if err != nil {
		return nil, err
	}
	return &TransitionOutput{Round: closed.Record()}, nil
}

// CaptureFrame records the target frame
func (s *service) CaptureFrame(ctx context.Context, input *CaptureFrameInput) (*TransitionOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}
	if input.FramePath == "" {
		return nil, ErrFramePathRequired
	}
	closed, err := load[*lifecycle.CommitmentsClosed](ctx, s, input.RoundID)
	if err != nil {
		return nil, err
	}
	captured, err := closed.CaptureFrame(ctx, input.FramePath)
	if err != nil {
		return nil, err
	}
	return &TransitionOutput{Round: captured.Record()}, nil
}

// OpenReveals posts the frame and opens reveals
func (s *service) OpenReveals(ctx context.Context, input *TransitionInput) (*TransitionOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}
	captured, err := load[*lifecycle.FrameCaptured](ctx, s, input.RoundID)
	if err != nil {
		return nil, err
	}
	reveals, err := captured.OpenReveals(ctx)
	if err != nil {
		return nil, err
	}
	return &TransitionOutput{Round: reveals.Record()}, nil
}

// CloseReveals collects the final reveals and closes the phase
func (s *service) CloseReveals(ctx context.Context, input *TransitionInput) (*TransitionOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}
	reveals, err := load[*lifecycle.RevealsOpen](ctx, s, input.RoundID)
	if err != nil {
		return nil, err
	}
	return s.closeReveals(ctx, reveals)
}

func (s *service) closeReveals(ctx context.Context, reveals *lifecycle.RevealsOpen) (*TransitionOutput, error) {
	if _, err := s.collectReveals(ctx, reveals); err != nil {
		return nil, fmt.Errorf("failed to collect reveals before closing: %w", err)
	}
	closed, err := reveals.Close(ctx)
	if err != nil {
		return nil, err
	}
	return &TransitionOutput{Round: closed.Record()}, nil
}

// ProcessPayouts verifies reveals and scores the round
func (s *service) ProcessPayouts(ctx context.Context, input *TransitionInput) (*TransitionOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}
	closed, err := load[*lifecycle.RevealsClosed](ctx, s, input.RoundID)
	if err != nil {
		return nil, err
	}
	payouts, err := closed.Score(ctx)
	if err != nil {
		return nil, err
	}
	return &TransitionOutput{Round: payouts.Record()}, nil
}

// RecordPayouts writes the round's payouts to the ledger
func (s *service) RecordPayouts(ctx context.Context, input *TransitionInput) (*RecordPayoutsOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}
	payouts, err := load[*lifecycle.Payouts](ctx, s, input.RoundID)
	if err != nil {
		return nil, err
	}
	out, err := payouts.RecordPayouts(ctx)
	if err != nil {
		return nil, err
	}
	return &RecordPayoutsOutput{Recorded: out.Recorded, Existing: out.Existing}, nil
}

// FinishRound publishes results and finishes the round
func (s *service) FinishRound(ctx context.Context, input *TransitionInput) (*TransitionOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}
	payouts, err := load[*lifecycle.Payouts](ctx, s, input.RoundID)
	if err != nil {
		return nil, err
	}
	return s.finish(ctx, payouts)
}

func (s *service) finish(ctx context.Context, payouts *lifecycle.Payouts) (*TransitionOutput, error) {
	finished, err := payouts.Finish(ctx)
	if err != nil {
		return nil, err
	}

	rec := finished.Record()
	s.recordPlayerStats(ctx, rec)
	return &TransitionOutput{Round: rec}, nil
}

// recordPlayerStats folds a finished round into every committed participant's
// stats. The round is already final, so failures are logged, not returned.
func (s *service) recordPlayerStats(ctx context.Context, rec *models.Round) {
	now := s.clock.Now()
	for _, p := range rec.Participants {
		if !p.HasCommitment() {
			continue
		}
		_, err := s.playerRepo.RecordRoundStats(ctx, &playerRepo.RecordRoundStatsInput{
			PlayerID:  p.ID,
			Name:      p.Name,
			Wallet:    p.Wallet,
			RoundID:   rec.ID,
			Payout:    p.Payout,
			UpdatedAt: now,
		})
		if err != nil {
			s.logger.WarnContext(ctx, "failed to record player stats",
				"round_id", rec.ID, "player_id", p.ID, "error", err)
		}
	}
}

// Advance performs the one step that follows the round's current phase.
// Open phases are collected once more before they close.
func (s *service) Advance(ctx context.Context, input *AdvanceInput) (*TransitionOutput, error) {
	if input == nil || input.RoundID == "" {
		return nil, errors.New("input and round ID cannot be empty")
	}

	r, err := s.machine.Get(ctx, input.RoundID)
	if err != nil {
		return nil, err
	}

	switch typed := r.(type) {
	case *lifecycle.CommitmentsOpen:
		return s.closeCommitments(ctx, typed)

	case *lifecycle.CommitmentsClosed:
		if input.FramePath == "" {
			return nil, ErrFramePathRequired
		}
		next, err := typed.CaptureFrame(ctx, input.FramePath)
		if err != nil {
			return nil, err
		}
		return &TransitionOutput{Round: next.Record()}, nil

	case *lifecycle.FrameCaptured:
		next, err := typed.OpenReveals(ctx)
		if err != nil {
			return nil, err
		}
		return &TransitionOutput{Round: next.Record()}, nil

	case *lifecycle.RevealsOpen:
		return s.closeReveals(ctx, typed)

	case *lifecycle.RevealsClosed:
		next, err := typed.Score(ctx)
		if err != nil {
			return nil, err
		}
		return &TransitionOutput{Round: next.Record()}, nil

	case *lifecycle.Payouts:
		if !typed.Recorded() {
			if _, err := typed.RecordPayouts(ctx); err != nil {
				return nil, err
			}
		}
		return s.finish(ctx, typed)
	}

	return nil, fmt.Errorf("%w: %s", ErrRoundFinished, input.RoundID)
}

// GetRoundStats summarizes participation and payouts
func (s *service) GetRoundStats(ctx context.Context, input *GetRoundStatsInput) (*GetRoundStatsOutput, error) {
	if input == nil || input.RoundID == "" {
		return nil, errors.New("input and round ID cannot be empty")
	}

	rec, err := s.roundRepo.GetRound(ctx, &roundRepo.GetRoundInput{RoundID: input.RoundID})
	if err != nil {
		return nil, err
	}

	out := &GetRoundStatsOutput{
		RoundID:      rec.ID,
		Phase:        rec.Phase,
		Participants: len(rec.Participants),
		Verified:     rec.VerifiedCount(),
		Excluded:     make(map[models.ExclusionReason]int),
		PrizePool:    rec.PrizePool,
		TotalPayout:  rec.TotalPayout(),
	}
	for _, p := range rec.Participants {
		if p.HasCommitment() {
			out.Committed++
		}
		if p.HasReveal() {
			out.Revealed++
		}
		if p.Exclusion != models.ExclusionNone {
			out.Excluded[p.Exclusion]++
		}
	}

	if rec.PayoutsRecordedAt != nil {
		entries, err := s.ledgerRepo.GetPayoutsForRound(ctx, &ledgerRepo.GetPayoutsForRoundInput{RoundID: rec.ID})
		if err != nil {
			return nil, err
		}
		for _, e := range entries.Entries {
			if e.Paid {
				out.PaidEntries++
			}
		}
	}

	status, err := s.messaging.GetStatusMessage(ctx, &messaging.GetStatusMessageInput{Round: rec})
	if err != nil {
		return nil, err
	}
	out.Summary = status.Message
	return out, nil
}

// MarkPayoutPaid records a transfer against a ledger entry
func (s *service) MarkPayoutPaid(ctx context.Context, input *MarkPayoutPaidInput) error {
	if input == nil {
		return errors.New("input cannot be nil")
	}
	return s.ledgerRepo.MarkPayoutPaid(ctx, &ledgerRepo.MarkPayoutPaidInput{
		RoundID:       input.RoundID,
		ParticipantID: input.ParticipantID,
		TxRef:         input.TxRef,
		PaidAt:        s.clock.Now(),
	})
}

// GetLeaderboard returns players by total winnings
func (s *service) GetLeaderboard(ctx context.Context, input *GetLeaderboardInput) (*GetLeaderboardOutput, error) {
	limit := 0
	if input != nil {
		limit = input.Limit
	}
	out, err := s.playerRepo.GetLeaderboard(ctx, &playerRepo.GetLeaderboardInput{Limit: limit})
	if err != nil {
		return nil, err
	}
	return &GetLeaderboardOutput{Players: out.Players}, nil
}
