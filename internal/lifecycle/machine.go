package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/KirkDiggler/foresight/internal/commitment"
	"github.com/KirkDiggler/foresight/internal/common/clock"
	"github.com/KirkDiggler/foresight/internal/common/uuid"
	"github.com/KirkDiggler/foresight/internal/confirm"
	"github.com/KirkDiggler/foresight/internal/framestore"
	"github.com/KirkDiggler/foresight/internal/metrics"
	"github.com/KirkDiggler/foresight/internal/models"
	"github.com/KirkDiggler/foresight/internal/repositories/ledger"
	roundRepo "github.com/KirkDiggler/foresight/internal/repositories/round"
	"github.com/KirkDiggler/foresight/internal/scoring"
	"github.com/KirkDiggler/foresight/internal/services/messaging"
	"github.com/KirkDiggler/foresight/internal/transport"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Config holds the collaborators of a Machine
type Config struct {
	// Transport is the public channel announcements go to
	Transport transport.Adapter

	// Confirmer approves transitions with visible side effects
	Confirmer confirm.Confirmer

	// Repository stores the round record
	Repository roundRepo.Repository

	// Messaging renders announcement text
	Messaging messaging.Service

	// Frames checks and archives the target frame
	Frames framestore.Store

	// Engine scores and pays verified participants
	Engine *scoring.Engine

	// Verifier checks reveals against commitments
	Verifier commitment.Verifier

	// Ledger records payouts owed
	Ledger ledger.Repository

	// Optional collaborators
	Clock   clock.Clock
	UUID    uuid.UUID
	Logger  *slog.Logger
	Metrics metrics.Recorder
	Tracer  trace.Tracer
}

// Machine builds and advances phase-typed rounds
type Machine struct {
	transport  transport.Adapter
	confirmer  confirm.Confirmer
	repository roundRepo.Repository
	messaging  messaging.Service
	frames     framestore.Store
	engine     *scoring.Engine
	verifier   commitment.Verifier
	ledger     ledger.Repository
	clock      clock.Clock
	uuid       uuid.UUID
	logger     *slog.Logger
	metrics    metrics.Recorder
	tracer     trace.Tracer
}

// NewMachine creates a Machine
func NewMachine(cfg *Config) (*Machine, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	required := []struct {
		name    string
		missing bool
	}{
		{"transport", cfg.Transport == nil},
		{"confirmer", cfg.Confirmer == nil},
		{"repository", cfg.Repository == nil},
		{"messaging service", cfg.Messaging == nil},
		{"frame store", cfg.Frames == nil},
		{"scoring engine", cfg.Engine == nil},
		{"verifier", cfg.Verifier == nil},
		{"ledger", cfg.Ledger == nil},
	}
	for _, r := range required {
		if r.missing {
			return nil, fmt.Errorf("%s cannot be nil", r.name)
		}
	}

	m := &Machine{
		transport:  cfg.Transport,
		confirmer:  cfg.Confirmer,
		repository: cfg.Repository,
		messaging:  cfg.Messaging,
		frames:     cfg.Frames,
		engine:     cfg.Engine,
		verifier:   cfg.Verifier,
		ledger:     cfg.Ledger,
		clock:      cfg.Clock,
		uuid:       cfg.UUID,
		logger:     cfg.Logger,
		metrics:    cfg.Metrics,
		tracer:     cfg.Tracer,
	}
	if m.clock == nil {
		m.clock = clock.New()
	}
	if m.uuid == nil {
		m.uuid = uuid.New()
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	if m.metrics == nil {
		m.metrics = metrics.Noop{}
	}
	if m.tracer == nil {
		m.tracer = noop.NewTracerProvider().Tracer("foresight/lifecycle")
	}
	return m, nil
}

// OpenInput describes a new round
type OpenInput struct {
	// ID is optional; a UUID is generated when empty
	ID                 string
	Description        string
	LivestreamURL      string
	PrizePool          decimal.Decimal
	PlatformFee        float64
	Currency           string
	CommitmentDeadline *time.Time
	RevealDeadline     *time.Time
}

// Open announces a new round and persists it in CommitmentsOpen
func (m *Machine) Open(ctx context.Context, input *OpenInput) (*CommitmentsOpen, error) {
	if input == nil {
		return nil, fmt.Errorf("%w: input cannot be nil", ErrInvalidRound)
	}
	if !input.PrizePool.IsPositive() {
		return nil, fmt.Errorf("%w: prize pool must be positive", ErrInvalidRound)
	}
	if input.PlatformFee < 0 || input.PlatformFee >= 1 {
		return nil, fmt.Errorf("%w: platform fee %v outside [0, 1)", ErrInvalidRound, input.PlatformFee)
	}
	if input.CommitmentDeadline != nil && input.RevealDeadline != nil && !input.RevealDeadline.After(*input.CommitmentDeadline) {
		return nil, fmt.Errorf("%w: reveal deadline must follow commitment deadline", ErrInvalidRound)
	}

	id := input.ID
	if id == "" {
		id = m.uuid.NewUUID()
	} else if err := m.ensureUnused(ctx, id); err != nil {
		return nil, err
	}
	now := m.clock.Now()

	rec := &models.Round{
		ID:                 id,
		Description:        input.Description,
		LivestreamURL:      input.LivestreamURL,
		Phase:              models.PhaseCommitmentsOpen,
		PrizePool:          input.PrizePool,
		PlatformFee:        input.PlatformFee,
		Currency:           input.Currency,
		CommitmentDeadline: input.CommitmentDeadline,
		RevealDeadline:     input.RevealDeadline,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	next, err := m.transition(ctx, rec, "", step{
		prompt: fmt.Sprintf("Open round %s with a prize pool of %s %s?", id, input.PrizePool, input.Currency),
		action: m.announce,
	})
	if err != nil {
		return nil, err
	}
	return &CommitmentsOpen{state{m: m, rec: next}}, nil
}

// ensureUnused fails when a round is already stored under id
func (m *Machine) ensureUnused(ctx context.Context, id string) error {
	_, err := m.repository.GetRound(ctx, &roundRepo.GetRoundInput{RoundID: id})
	switch {
	case err == nil:
		return fmt.Errorf("%w: %s", roundRepo.ErrRoundExists, id)
	case errors.Is(err, roundRepo.ErrRoundNotFound):
		return nil
	default:
		return fmt.Errorf("%w: %w", ErrPersistFailed, err)
	}
}

// Get reads a round from the repository and returns its typed value
func (m *Machine) Get(ctx context.Context, roundID string) (Round, error) {
	rec, err := m.repository.GetRound(ctx, &roundRepo.GetRoundInput{RoundID: roundID})
	if err != nil {
		return nil, err
	}
	return m.Load(rec)
}

// step describes one transition
type step struct {
	// prompt is shown to the operator; empty skips confirmation
	prompt string

	// check runs against the current record before confirmation
	check func(*models.Round) error

	// action mutates the next record and performs side effects
	action func(context.Context, *models.Round) error
}

// transition applies one phase step to a copy of cur. On any failure the
// returned error is a *TransitionError and cur is untouched. from is empty when
// cur has never been stored.
func (m *Machine) transition(ctx context.Context, cur *models.Round, from models.Phase, st step) (*models.Round, error) {
	to := cur.Phase
	if from != "" {
		var ok bool
		if to, ok = from.Next(); !ok {
			return nil, &TransitionError{RoundID: cur.ID, From: from, To: from, Err: ErrInconsistentRecord}
		}
	}

	ctx, span := m.tracer.Start(ctx, "lifecycle.transition", trace.WithAttributes(
		attribute.String("round.id", cur.ID),
		attribute.String("round.from", string(from)),
		attribute.String("round.to", string(to)),
	))
	defer span.End()

	fail := func(outcome string, err error) error {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		m.metrics.Transition(from, to, outcome)
		m.logger.WarnContext(ctx, "round transition failed",
			"round_id", cur.ID, "from", from, "to", to, "error", err)
		return &TransitionError{RoundID: cur.ID, From: from, To: to, Err: err}
	}

	if err := ctx.Err(); err != nil {
		return nil, fail(metrics.OutcomeFailed, err)
	}

	if st.check != nil {
		if err := st.check(cur); err != nil {
			return nil, fail(metrics.OutcomeFailed, err)
		}
	}

	if st.prompt != "" {
		ok, err := m.confirmer.Confirm(ctx, st.prompt)
		if err != nil {
			return nil, fail(metrics.OutcomeFailed, fmt.Errorf("confirmation failed: %w", err))
		}
		if !ok {
			return nil, fail(metrics.OutcomeDeclined, ErrNotConfirmed)
		}
	}

	// Once confirmed, the side effects run to completion so the channel and
	// the stored record do not diverge on cancellation.
	actx := context.WithoutCancel(ctx)

	next := cur.Clone()
	next.Phase = to
	next.UpdatedAt = m.clock.Now()

	if st.action != nil {
		if err := st.action(actx, next); err != nil {
			return nil, fail(metrics.OutcomeFailed, err)
		}
	}

	if err := m.persist(actx, next, cur.Revision, from); err != nil {
		return nil, fail(metrics.OutcomeFailed, err)
	}

	m.metrics.Transition(from, to, metrics.OutcomeSuccess)
	m.logger.InfoContext(ctx, "round transitioned",
		"round_id", next.ID, "from", from, "to", to, "revision", next.Revision)
	return next, nil
}

// persist writes rec with a compare-and-swap on the revision and phase it was read at
func (m *Machine) persist(ctx context.Context, rec *models.Round, expectedRevision int64, expectedPhase models.Phase) error {
	err := m.repository.SaveRound(ctx, &roundRepo.SaveRoundInput{
		Round:            rec,
		ExpectedRevision: expectedRevision,
		ExpectedPhase:    expectedPhase,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersistFailed, err)
	}
	return nil
}

// announce posts the message for the phase rec has just entered and records its ID
func (m *Machine) announce(ctx context.Context, rec *models.Round) error {
	out, err := m.messaging.GetPhaseAnnouncement(ctx, &messaging.GetPhaseAnnouncementInput{
		Round: rec,
		Phase: rec.Phase,
	})
	if err != nil {
		return fmt.Errorf("failed to render announcement: %w", err)
	}

	var id string
	parent := ""
	if out.ReplyTo != "" {
		parent = rec.Announcement(out.ReplyTo)
	}

	switch {
	case parent != "":
		id, err = m.transport.Reply(ctx, parent, out.Message)
	case out.ImagePath != "":
		id, err = m.transport.PostWithImage(ctx, out.Message, out.ImagePath)
	default:
		id, err = m.transport.Post(ctx, out.Message)
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTransportFailed, err)
	}

	rec.SetAnnouncement(rec.Phase, id)
	return nil
}

// update persists a same-phase change to a copy of cur, used by ingestion and payout recording
func (m *Machine) update(ctx context.Context, cur *models.Round, apply func(*models.Round) error) (*models.Round, error) {
	next := cur.Clone()
	if err := apply(next); err != nil {
		return nil, err
	}
	next.UpdatedAt = m.clock.Now()

	if err := m.persist(ctx, next, cur.Revision, cur.Phase); err != nil {
		return nil, err
	}
	return next, nil
}

// IsPreconditionFailure reports whether a transition failed because the round
// was not ready, as opposed to a failed side effect
func IsPreconditionFailure(err error) bool {
	return errors.Is(err, ErrFrameUnavailable) ||
		errors.Is(err, ErrNoValidParticipants) ||
		errors.Is(err, ErrPayoutsNotRecorded)
}
