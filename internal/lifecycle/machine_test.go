package lifecycle

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/KirkDiggler/foresight/internal/commitment"
	"github.com/KirkDiggler/foresight/internal/common/clock"
	"github.com/KirkDiggler/foresight/internal/common/uuid"
	"github.com/KirkDiggler/foresight/internal/confirm"
	"github.com/KirkDiggler/foresight/internal/framestore"
	"github.com/KirkDiggler/foresight/internal/models"
	"github.com/KirkDiggler/foresight/internal/repositories/ledger"
	roundRepo "github.com/KirkDiggler/foresight/internal/repositories/round"
	"github.com/KirkDiggler/foresight/internal/scoring"
	"github.com/KirkDiggler/foresight/internal/services/messaging"
	"github.com/KirkDiggler/foresight/internal/similarity"
	"github.com/KirkDiggler/foresight/internal/transport"
	"github.com/alicebob/miniredis/v2"
	"github.com/google/go-cmp/cmp"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// guessStrategy scores each guess from a lookup table
type guessStrategy struct {
	scores map[string]float64
}

func (g *guessStrategy) Name() string               { return "lookup" }
func (g *guessStrategy) Version() string            { return "1.0.0" }
func (g *guessStrategy) Bounds() (float64, float64) { return 0, 1 }

func (g *guessStrategy) ScoreBatch(_ context.Context, _ similarity.Provider, _ string, guesses []string) ([]float64, error) {
	out := make([]float64, len(guesses))
	for i, guess := range guesses {
		out[i] = g.scores[guess]
	}
	return out, nil
}

type MachineTestSuite struct {
	suite.Suite
	ctx       context.Context
	mr        *miniredis.Miniredis
	client    *redis.Client
	rounds    roundRepo.Repository
	ledger    ledger.Repository
	channel   *transport.MemoryChannel
	validator *transport.Memory
	clock     *clock.Manual
	approve   bool
	prompts   []string
	machine   *Machine
	framePath string
	hashes    *commitment.Generator
	spans     *tracetest.SpanRecorder
}

func (s *MachineTestSuite) SetupTest() {
	s.ctx = context.Background()

	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr
	s.client = redis.NewClient(&redis.Options{Addr: mr.Addr()})

	rounds, err := roundRepo.NewRedis(&roundRepo.Config{RedisClient: s.client})
	s.Require().NoError(err)
	s.rounds = rounds

	payouts, err := ledger.NewRedis(&ledger.Config{RedisClient: s.client})
	s.Require().NoError(err)
	s.ledger = payouts

	s.clock = clock.NewManual(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	s.channel = transport.NewMemoryChannel(uuid.NewSequence("msg"), s.clock)
	s.validator = s.channel.As(transport.Author{ID: "validator", Name: "Validator"})

	msgs, err := messaging.NewService(&messaging.ServiceConfig{Rand: rand.New(rand.NewSource(1))})
	s.Require().NoError(err)

	engine, err := scoring.NewEngine(&scoring.Config{
		Strategy: &guessStrategy{scores: map[string]float64{
			"a lighthouse":   0.9,
			"a fishing boat": 0.5,
			"a small boat":   0.5,
			"gulls":          0.7,
		}},
		Provider: similarity.NewHashed(8),
	})
	s.Require().NoError(err)

	s.framePath = filepath.Join(s.T().TempDir(), "frame.jpg")
	s.Require().NoError(os.WriteFile(s.framePath, []byte("jpeg bytes"), 0o600))

	s.approve = true
	s.prompts = nil
	s.hashes = commitment.New(&commitment.Config{Workers: 2})
	s.spans = tracetest.NewSpanRecorder()
	tracer := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(s.spans)).Tracer("foresight/lifecycle")

	machine, err := NewMachine(&Config{
		Transport: s.validator,
		Confirmer: confirm.Func(func(_ context.Context, prompt string) (bool, error) {
			s.prompts = append(s.prompts, prompt)
			return s.approve, nil
		}),
		Repository: s.rounds,
		Messaging:  msgs,
		Frames:     framestore.NewLocal(s.clock),
		Engine:     engine,
		Verifier:   s.hashes,
		Ledger:     s.ledger,
		Clock:      s.clock,
		UUID:       uuid.NewSequence("id"),
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		Tracer:     tracer,
	})
	s.Require().NoError(err)
	s.machine = machine
}

func (s *MachineTestSuite) TearDownTest() {
	s.client.Close()
	s.mr.Close()
}

func TestMachineTestSuite(t *testing.T) {
	suite.Run(t, new(MachineTestSuite))
}

func (s *MachineTestSuite) open() *CommitmentsOpen {
	round, err := s.machine.Open(s.ctx, &OpenInput{
		ID:          "7",
		Description: "Harbor cam",
		PrizePool:   decimal.NewFromInt(100),
		Currency:    "TAO",
	})
	s.Require().NoError(err)
	return round
}

func (s *MachineTestSuite) commit(id, guess, salt string) CommitmentSubmission {
	hash, err := s.hashes.Commit(guess, salt)
	s.Require().NoError(err)
	s.clock.Advance(time.Second)
	return CommitmentSubmission{
		ParticipantID: id,
		Name:          id,
		MessageID:     "c-" + id,
		Timestamp:     s.clock.Now(),
		Hash:          hash,
		Wallet:        "wallet-" + id,
	}
}

func (s *MachineTestSuite) reveal(id, guess, salt string) RevealSubmission {
	s.clock.Advance(time.Second)
	return RevealSubmission{
		ParticipantID: id,
		Name:          id,
		MessageID:     "r-" + id,
		Timestamp:     s.clock.Now(),
		Guess:         guess,
		Salt:          salt,
	}
}

func (s *MachineTestSuite) stored() *models.Round {
	rec, err := s.rounds.GetRound(s.ctx, &roundRepo.GetRoundInput{RoundID: "7"})
	s.Require().NoError(err)
	return rec
}

// toRevealsClosed drives a round with alice, bob and carol committed and
// revealed, plus dave revealing without a commitment
func (s *MachineTestSuite) toRevealsClosed() *RevealsClosed {
	open := s.open()
	_, err := open.IngestCommitments(s.ctx, []CommitmentSubmission{
		s.commit("alice", "a lighthouse", "s1"),
		s.commit("bob", "a fishing boat", "s2"),
		s.commit("carol", "a small boat", "s3"),
	})
	s.Require().NoError(err)

	closed, err := open.Close(s.ctx)
	s.Require().NoError(err)
	captured, err := closed.CaptureFrame(s.ctx, s.framePath)
	s.Require().NoError(err)
	reveals, err := captured.OpenReveals(s.ctx)
	s.Require().NoError(err)

	_, err = reveals.IngestReveals(s.ctx, []RevealSubmission{
		s.reveal("alice", "a lighthouse", "s1"),
		s.reveal("bob", "a fishing boat", "s2"),
		s.reveal("carol", "a small boat", "s3"),
		s.reveal("dave", "gulls", "s4"),
	})
	s.Require().NoError(err)

	revealsClosed, err := reveals.Close(s.ctx)
	s.Require().NoError(err)
	return revealsClosed
}

func (s *MachineTestSuite) TestFullRoundReachesFinished() {
	payouts, err := s.toRevealsClosed().Score(s.ctx)
	s.Require().NoError(err)

	results := payouts.Results()
	s.Require().Len(results, 3)
	s.Equal("alice", results[0].ParticipantID)
	s.True(results[0].Payout.Equal(decimal.NewFromInt(50)), results[0].Payout.String())
	s.True(results[1].Payout.Equal(decimal.NewFromInt(25)), results[1].Payout.String())
	s.True(results[2].Payout.Equal(decimal.NewFromInt(25)), results[2].Payout.String())

	dave, ok := payouts.Record().Participant("dave")
	s.Require().True(ok)
	s.False(dave.Verified)
	s.Equal(models.ExclusionNoCommitment, dave.Exclusion)

	recorded, err := payouts.RecordPayouts(s.ctx)
	s.Require().NoError(err)
	s.Equal(3, recorded.Recorded)

	again, err := payouts.RecordPayouts(s.ctx)
	s.Require().NoError(err)
	s.Equal(0, again.Recorded)
	s.Equal(3, again.Existing)

	finished, err := payouts.Finish(s.ctx)
	s.Require().NoError(err)
	s.Equal(models.PhaseFinished, finished.Phase())

	// open, commitments closed, reveals open, reveals closed, results
	s.Equal(5, s.channel.Count("validator"))

	stored := s.stored()
	if diff := cmp.Diff(finished.Record(), stored); diff != "" {
		s.Failf("stored round differs", "(-want +got):\n%s", diff)
	}

	entries, err := s.ledger.GetPayoutsForRound(s.ctx, &ledger.GetPayoutsForRoundInput{RoundID: "7"})
	s.Require().NoError(err)
	s.Len(entries.Entries, 3)
	s.Equal("wallet-alice", entries.Entries[0].Wallet)
}

func (s *MachineTestSuite) TestFailedClosureKeepsCommitmentsOpen() {
	open := s.open()
	s.Equal(1, s.channel.Count("validator"))

	s.channel.FailNext("reply", errors.New("channel unavailable"))
	_, err := open.Close(s.ctx)

	var terr *TransitionError
	s.Require().ErrorAs(err, &terr)
	s.Equal(models.PhaseCommitmentsOpen, terr.From)
	s.Equal(models.PhaseCommitmentsClosed, terr.To)
	s.ErrorIs(err, ErrTransportFailed)
	s.Contains(err.Error(), "phase not advanced")

	s.Equal(models.PhaseCommitmentsOpen, open.Phase())
	s.Equal(models.PhaseCommitmentsOpen, s.stored().Phase)
	s.Equal(1, s.channel.Count("validator"))

	closed, err := open.Close(s.ctx)
	s.Require().NoError(err)
	s.Equal(models.PhaseCommitmentsClosed, closed.Phase())
	s.Equal(2, s.channel.Count("validator"))
	s.Equal(models.PhaseCommitmentsClosed, s.stored().Phase)
}

func (s *MachineTestSuite) TestTransitionsAreTraced() {
	open := s.open()
	s.channel.FailNext("reply", errors.New("channel unavailable"))
	_, err := open.Close(s.ctx)
	s.Require().Error(err)

	ended := s.spans.Ended()
	s.Require().Len(ended, 2)

	opened := ended[0]
	s.Equal("lifecycle.transition", opened.Name())
	s.Equal(codes.Unset, opened.Status().Code)
	s.Equal(map[attribute.Key]string{
		"round.id":   "7",
		"round.from": "",
		"round.to":   string(models.PhaseCommitmentsOpen),
	}, spanAttributes(opened))

	failed := ended[1]
	s.Equal("lifecycle.transition", failed.Name())
	s.Equal(codes.Error, failed.Status().Code)
	s.Contains(failed.Status().Description, "channel unavailable")
	s.Equal(map[attribute.Key]string{
		"round.id":   "7",
		"round.from": string(models.PhaseCommitmentsOpen),
		"round.to":   string(models.PhaseCommitmentsClosed),
	}, spanAttributes(failed))
	s.Require().Len(failed.Events(), 1)
	s.Equal("exception", failed.Events()[0].Name)
}

func spanAttributes(span sdktrace.ReadOnlySpan) map[attribute.Key]string {
	out := make(map[attribute.Key]string)
	for _, kv := range span.Attributes() {
		out[kv.Key] = kv.Value.AsString()
	}
	return out
}

func (s *MachineTestSuite) TestDeclinedConfirmationPostsNothing() {
	open := s.open()
	s.approve = false

	_, err := open.Close(s.ctx)
	s.ErrorIs(err, ErrNotConfirmed)
	s.Equal(1, s.channel.Count("validator"))
	s.Equal(models.PhaseCommitmentsOpen, s.stored().Phase)
	s.Len(s.prompts, 2)
}

func (s *MachineTestSuite) TestCancelledContextNeverPrompts() {
	open := s.open()
	s.prompts = nil

	ctx, cancel := context.WithCancel(s.ctx)
	cancel()

	_, err := open.Close(ctx)
	s.ErrorIs(err, context.Canceled)
	s.Empty(s.prompts)
	s.Equal(1, s.channel.Count("validator"))
}

func (s *MachineTestSuite) TestSpentValueCannotAdvanceTwice() {
	open := s.open()
	_, err := open.Close(s.ctx)
	s.Require().NoError(err)

	_, err = open.Close(s.ctx)
	s.ErrorIs(err, ErrStaleRound)

	_, err = open.IngestCommitments(s.ctx, []CommitmentSubmission{s.commit("zed", "late", "x")})
	s.ErrorIs(err, ErrStaleRound)
	s.Equal(2, s.channel.Count("validator"))
}

func (s *MachineTestSuite) TestIngestCommitmentsIsIdempotentAndLastWins() {
	open := s.open()
	first := s.commit("alice", "a lighthouse", "s1")
	second := s.commit("alice", "a small boat", "s9")
	second.MessageID = "c-alice-2"

	res, err := open.IngestCommitments(s.ctx, []CommitmentSubmission{second, first})
	s.Require().NoError(err)
	s.Equal(1, res.Added)
	s.Equal(1, res.Updated)

	p, ok := s.stored().Participant("alice")
	s.Require().True(ok)
	s.Equal(second.Hash, p.CommitmentHash)

	// Re-scanning the same replies changes nothing
	revision := s.stored().Revision
	res, err = open.IngestCommitments(s.ctx, []CommitmentSubmission{first, second})
	s.Require().NoError(err)
	s.False(res.Changed())
	s.Equal(revision, s.stored().Revision)

	res, err = open.IngestCommitments(s.ctx, []CommitmentSubmission{{ParticipantID: "eve", Hash: "not-a-hash"}})
	s.Require().NoError(err)
	s.Equal(1, res.Rejected)
}

func (s *MachineTestSuite) TestMismatchedRevealIsExcluded() {
	open := s.open()
	_, err := open.IngestCommitments(s.ctx, []CommitmentSubmission{
		s.commit("alice", "a lighthouse", "s1"),
		s.commit("bob", "a fishing boat", "s2"),
		s.commit("carol", "a small boat", "s3"),
	})
	s.Require().NoError(err)
	closed, err := open.Close(s.ctx)
	s.Require().NoError(err)
	captured, err := closed.CaptureFrame(s.ctx, s.framePath)
	s.Require().NoError(err)
	reveals, err := captured.OpenReveals(s.ctx)
	s.Require().NoError(err)

	_, err = reveals.IngestReveals(s.ctx, []RevealSubmission{
		s.reveal("alice", "a lighthouse", "s1"),
		s.reveal("bob", "a fishing boat", "s2"),
		s.reveal("carol", "a lighthouse", "s3"),
	})
	s.Require().NoError(err)
	revealsClosed, err := reveals.Close(s.ctx)
	s.Require().NoError(err)

	payouts, err := revealsClosed.Score(s.ctx)
	s.Require().NoError(err)
	s.Len(payouts.Results(), 2)

	carol, _ := payouts.Record().Participant("carol")
	s.Equal(models.ExclusionHashMismatch, carol.Exclusion)
	s.True(carol.Payout.IsZero())
}

func (s *MachineTestSuite) TestTooFewVerifiedParticipantsStaysRevealsClosed() {
	open := s.open()
	_, err := open.IngestCommitments(s.ctx, []CommitmentSubmission{
		s.commit("alice", "a lighthouse", "s1"),
		s.commit("bob", "a fishing boat", "s2"),
	})
	s.Require().NoError(err)
	closed, err := open.Close(s.ctx)
	s.Require().NoError(err)
	captured, err := closed.CaptureFrame(s.ctx, s.framePath)
	s.Require().NoError(err)
	reveals, err := captured.OpenReveals(s.ctx)
	s.Require().NoError(err)
	_, err = reveals.IngestReveals(s.ctx, []RevealSubmission{s.reveal("alice", "a lighthouse", "s1")})
	s.Require().NoError(err)
	revealsClosed, err := reveals.Close(s.ctx)
	s.Require().NoError(err)

	_, err = revealsClosed.Score(s.ctx)
	s.ErrorIs(err, ErrNoValidParticipants)
	s.True(IsPreconditionFailure(err))
	s.Equal(models.PhaseRevealsClosed, s.stored().Phase)
	s.Equal(models.PhaseRevealsClosed, revealsClosed.Phase())
}

func (s *MachineTestSuite) TestMissingFrameIsPreconditionFailure() {
	closed, err := s.open().Close(s.ctx)
	s.Require().NoError(err)

	_, err = closed.CaptureFrame(s.ctx, filepath.Join(s.T().TempDir(), "missing.jpg"))
	s.ErrorIs(err, ErrFrameUnavailable)
	s.True(IsPreconditionFailure(err))
	s.Equal(models.PhaseCommitmentsClosed, s.stored().Phase)
}

func (s *MachineTestSuite) TestFinishRequiresRecordedPayouts() {
	payouts, err := s.toRevealsClosed().Score(s.ctx)
	s.Require().NoError(err)
	prompts := len(s.prompts)

	_, err = payouts.Finish(s.ctx)
	s.ErrorIs(err, ErrPayoutsNotRecorded)
	s.Len(s.prompts, prompts)
	s.Equal(models.PhasePayouts, s.stored().Phase)
}

func (s *MachineTestSuite) TestConcurrentWriterFailsTransition() {
	open := s.open()

	other, err := As[*CommitmentsOpen](s.machine, s.stored())
	s.Require().NoError(err)
	_, err = other.IngestCommitments(s.ctx, []CommitmentSubmission{s.commit("alice", "a lighthouse", "s1")})
	s.Require().NoError(err)

	_, err = open.Close(s.ctx)
	s.ErrorIs(err, ErrPersistFailed)
	s.ErrorIs(err, roundRepo.ErrConcurrentModification)
	s.Equal(models.PhaseCommitmentsOpen, s.stored().Phase)
}

func (s *MachineTestSuite) TestReloadedRoundContinues() {
	revealsClosed := s.toRevealsClosed()

	loaded, err := s.machine.Get(s.ctx, "7")
	s.Require().NoError(err)
	s.Equal(models.PhaseRevealsClosed, loaded.Phase())
	if diff := cmp.Diff(revealsClosed.Record(), loaded.Record()); diff != "" {
		s.Failf("reloaded round differs", "(-want +got):\n%s", diff)
	}

	typed, err := As[*RevealsClosed](s.machine, loaded.Record())
	s.Require().NoError(err)
	_, err = typed.Score(s.ctx)
	s.Require().NoError(err)

	_, err = As[*CommitmentsOpen](s.machine, s.stored())
	s.ErrorIs(err, ErrWrongPhase)
}

func (s *MachineTestSuite) TestOpenWithTakenIDPostsNothing() {
	s.open()
	s.prompts = nil

	_, err := s.machine.Open(s.ctx, &OpenInput{
		ID:          "7",
		Description: "Second harbor cam",
		PrizePool:   decimal.NewFromInt(50),
		Currency:    "TAO",
	})
	s.ErrorIs(err, roundRepo.ErrRoundExists)
	s.Empty(s.prompts)
	s.Equal(1, s.channel.Count("validator"))
	s.Equal("Harbor cam", s.stored().Description)
}

func (s *MachineTestSuite) TestOpenValidatesParameters() {
	_, err := s.machine.Open(s.ctx, &OpenInput{PrizePool: decimal.Zero})
	s.ErrorIs(err, ErrInvalidRound)

	_, err = s.machine.Open(s.ctx, &OpenInput{PrizePool: decimal.NewFromInt(1), PlatformFee: 1})
	s.ErrorIs(err, ErrInvalidRound)
	s.Equal(0, s.channel.Count("validator"))
}
