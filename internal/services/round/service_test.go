package round

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
	"github.com/KirkDiggler/foresight/internal/lifecycle"
	"github.com/KirkDiggler/foresight/internal/models"
	ledgerRepo "github.com/KirkDiggler/foresight/internal/repositories/ledger"
	playerRepo "github.com/KirkDiggler/foresight/internal/repositories/player"
	playerMocks "github.com/KirkDiggler/foresight/internal/repositories/player/mocks"
	roundRepo "github.com/KirkDiggler/foresight/internal/repositories/round"
	"github.com/KirkDiggler/foresight/internal/scoring"
	"github.com/KirkDiggler/foresight/internal/services/messaging"
	"github.com/KirkDiggler/foresight/internal/similarity"
	"github.com/KirkDiggler/foresight/internal/transport"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

// tableStrategy scores each guess from a lookup table
type tableStrategy map[string]float64

func (t tableStrategy) Name() string               { return "table" }
func (t tableStrategy) Version() string            { return "1.0.0" }
func (t tableStrategy) Bounds() (float64, float64) { return 0, 1 }

func (t tableStrategy) ScoreBatch(_ context.Context, _ similarity.Provider, _ string, guesses []string) ([]float64, error) {
	out := make([]float64, len(guesses))
	for i, g := range guesses {
		out[i] = t[g]
	}
	return out, nil
}

type guess struct {
	author transport.Author
	text   string
	salt   string
}

type ServiceTestSuite struct {
	suite.Suite
	ctx       context.Context
	mr        *miniredis.Miniredis
	client    *redis.Client
	clock     *clock.Manual
	channel   *transport.MemoryChannel
	validator *transport.Memory
	rounds    roundRepo.Repository
	players   playerRepo.Repository
	ledger    ledgerRepo.Repository
	machine   *lifecycle.Machine
	messaging messaging.Service
	service   *service
	framePath string
	guesses   []guess
}

func (s *ServiceTestSuite) SetupTest() {
	s.ctx = context.Background()

	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr
	s.client = redis.NewClient(&redis.Options{Addr: mr.Addr()})

	rounds, err := roundRepo.NewRedis(&roundRepo.Config{RedisClient: s.client})
	s.Require().NoError(err)
	s.rounds = rounds

	players, err := playerRepo.NewRedis(&playerRepo.Config{RedisClient: s.client})
	s.Require().NoError(err)
	s.players = players

	payouts, err := ledgerRepo.NewRedis(&ledgerRepo.Config{RedisClient: s.client})
	s.Require().NoError(err)
	s.ledger = payouts

	s.clock = clock.NewManual(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	s.channel = transport.NewMemoryChannel(uuid.NewSequence("msg"), s.clock)
	s.validator = s.channel.As(transport.Author{ID: "validator", Name: "Validator"})

	msgs, err := messaging.NewService(&messaging.ServiceConfig{Rand: rand.New(rand.NewSource(1))})
	s.Require().NoError(err)
	s.messaging = msgs

	engine, err := scoring.NewEngine(&scoring.Config{
		Strategy: tableStrategy{"a lighthouse": 0.9, "a fishing boat": 0.5, "a small boat": 0.5},
		Provider: similarity.NewHashed(8),
	})
	s.Require().NoError(err)

	s.framePath = filepath.Join(s.T().TempDir(), "frame.jpg")
	s.Require().NoError(os.WriteFile(s.framePath, []byte("jpeg bytes"), 0o600))

	machine, err := lifecycle.NewMachine(&lifecycle.Config{
		Transport:  s.validator,
		Confirmer:  confirm.AutoApprove(),
		Repository: s.rounds,
		Messaging:  msgs,
		Frames:     framestore.NewLocal(s.clock),
		Engine:     engine,
		Verifier:   commitment.New(&commitment.Config{Workers: 2}),
		Ledger:     s.ledger,
		Clock:      s.clock,
		UUID:       uuid.NewSequence("id"),
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	s.Require().NoError(err)
	s.machine = machine

	s.service = s.newService(s.players)

	s.guesses = []guess{
		{author: transport.Author{ID: "alice", Name: "Alice"}, text: "a lighthouse", salt: "s1"},
		{author: transport.Author{ID: "bob", Name: "Bob"}, text: "a fishing boat", salt: "s2"},
		{author: transport.Author{ID: "carol", Name: "Carol"}, text: "a small boat", salt: "s3"},
	}
}

func (s *ServiceTestSuite) TearDownTest() {
	s.client.Close()
	s.mr.Close()
}

func TestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}

func (s *ServiceTestSuite) newService(players playerRepo.Repository) *service {
	svc, err := NewService(&Config{
		Machine:     s.machine,
		Transport:   s.validator,
		RoundRepo:   s.rounds,
		PlayerRepo:  players,
		LedgerRepo:  s.ledger,
		Messaging:   s.messaging,
		ValidatorID: "validator",
		Currency:    "TAO",
		Clock:       s.clock,
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	s.Require().NoError(err)
	return svc
}

func (s *ServiceTestSuite) create() *models.Round {
	out, err := s.service.CreateRound(s.ctx, &CreateRoundInput{
		RoundID:     "42",
		Description: "Harbor cam",
		PrizePool:   decimal.NewFromInt(100),
	})
	s.Require().NoError(err)
	return out.Round
}

func (s *ServiceTestSuite) stored() *models.Round {
	rec, err := s.rounds.GetRound(s.ctx, &roundRepo.GetRoundInput{RoundID: "42"})
	s.Require().NoError(err)
	return rec
}

// reply posts text as author under the announcement of phase
func (s *ServiceTestSuite) reply(author transport.Author, phase models.Phase, text string) {
	s.clock.Advance(time.Second)
	_, err := s.channel.As(author).Reply(s.ctx, s.stored().Announcement(phase), text)
	s.Require().NoError(err)
}

func (s *ServiceTestSuite) postCommitments() {
	for _, g := range s.guesses {
		hash, err := commitment.Commit(g.text, g.salt)
		s.Require().NoError(err)
		s.reply(g.author, models.PhaseCommitmentsOpen, transport.FormatCommitment(hash, "wallet-"+g.author.ID))
	}
}

func (s *ServiceTestSuite) postReveals() {
	for _, g := range s.guesses {
		s.reply(g.author, models.PhaseRevealsOpen, transport.FormatReveal(g.text, g.salt))
	}
}

func (s *ServiceTestSuite) advance(framePath string) *models.Round {
	out, err := s.service.Advance(s.ctx, &AdvanceInput{RoundID: "42", FramePath: framePath})
	s.Require().NoError(err)
	return out.Round
}

func (s *ServiceTestSuite) TestAdvanceDrivesRoundToFinished() {
	rec := s.create()
	s.Equal(models.PhaseCommitmentsOpen, rec.Phase)
	s.Equal("TAO", rec.Currency)

	s.postCommitments()
	s.reply(transport.Author{ID: "eve", Name: "Eve"}, models.PhaseCommitmentsOpen, "good luck everyone")

	rec = s.advance("")
	s.Equal(models.PhaseCommitmentsClosed, rec.Phase)
	s.Len(rec.Participants, 3)

	_, err := s.service.Advance(s.ctx, &AdvanceInput{RoundID: "42"})
	s.ErrorIs(err, ErrFramePathRequired)

	rec = s.advance(s.framePath)
	s.Equal(models.PhaseFrameCaptured, rec.Phase)

	rec = s.advance("")
	s.Equal(models.PhaseRevealsOpen, rec.Phase)

	s.postReveals()

	rec = s.advance("")
	s.Equal(models.PhaseRevealsClosed, rec.Phase)

	rec = s.advance("")
	s.Equal(models.PhasePayouts, rec.Phase)
	s.Require().Len(rec.Results, 3)
	s.Equal("alice", rec.Results[0].ParticipantID)

	rec = s.advance("")
	s.Equal(models.PhaseFinished, rec.Phase)
	s.NotNil(rec.PayoutsRecordedAt)

	_, err = s.service.Advance(s.ctx, &AdvanceInput{RoundID: "42"})
	s.ErrorIs(err, ErrRoundFinished)

	board, err := s.service.GetLeaderboard(s.ctx, &GetLeaderboardInput{Limit: 10})
	s.Require().NoError(err)
	s.Require().Len(board.Players, 3)
	s.Equal("alice", board.Players[0].ID)
	s.True(board.Players[0].TotalWinnings.Equal(decimal.NewFromInt(50)), board.Players[0].TotalWinnings.String())
	s.Equal(1, board.Players[0].RoundsEntered)
}

func (s *ServiceTestSuite) TestCollectIsIdempotent() {
	s.create()
	s.postCommitments()
	s.reply(transport.Author{ID: "eve", Name: "Eve"}, models.PhaseCommitmentsOpen, "which camera is it?")

	out, err := s.service.Collect(s.ctx, &CollectInput{RoundID: "42"})
	s.Require().NoError(err)
	s.Equal(models.PhaseCommitmentsOpen, out.Phase)
	s.Equal(4, out.Replies)
	s.Equal(1, out.Ignored)
	s.Equal(3, out.Result.Added)

	revision := s.stored().Revision

	out, err = s.service.CollectCommitments(s.ctx, &CollectInput{RoundID: "42"})
	s.Require().NoError(err)
	s.Equal(0, out.Result.Added)
	s.Equal(3, out.Result.Unchanged)
	s.Equal(revision, s.stored().Revision)
}

func (s *ServiceTestSuite) TestCollectSkipsValidatorReplies() {
	rec := s.create()
	hash, err := commitment.Commit("a lighthouse", "s1")
	s.Require().NoError(err)
	_, err = s.validator.Reply(s.ctx, rec.Announcement(models.PhaseCommitmentsOpen), transport.FormatCommitment(hash, ""))
	s.Require().NoError(err)

	out, err := s.service.CollectCommitments(s.ctx, &CollectInput{RoundID: "42"})
	s.Require().NoError(err)
	s.Equal(0, out.Replies)
	s.Empty(s.stored().Participants)
}

func (s *ServiceTestSuite) TestCollectOutsideOpenPhases() {
	s.create()
	_, err := s.service.CloseCommitments(s.ctx, &TransitionInput{RoundID: "42"})
	s.Require().NoError(err)

	_, err = s.service.Collect(s.ctx, &CollectInput{RoundID: "42"})
	s.ErrorIs(err, ErrNothingToCollect)

	_, err = s.service.CollectReveals(s.ctx, &CollectInput{RoundID: "42"})
	s.ErrorIs(err, lifecycle.ErrWrongPhase)
}

func (s *ServiceTestSuite) TestExplicitStepsAndPayoutBookkeeping() {
	s.create()
	s.postCommitments()

	_, err := s.service.CloseCommitments(s.ctx, &TransitionInput{RoundID: "42"})
	s.Require().NoError(err)

	_, err = s.service.CaptureFrame(s.ctx, &CaptureFrameInput{RoundID: "42"})
	s.ErrorIs(err, ErrFramePathRequired)
	_, err = s.service.CaptureFrame(s.ctx, &CaptureFrameInput{RoundID: "42", FramePath: s.framePath})
	s.Require().NoError(err)

	_, err = s.service.OpenReveals(s.ctx, &TransitionInput{RoundID: "42"})
	s.Require().NoError(err)
	s.postReveals()

	_, err = s.service.CloseReveals(s.ctx, &TransitionInput{RoundID: "42"})
	s.Require().NoError(err)
	s.Len(s.stored().Participants, 3)

	_, err = s.service.ProcessPayouts(s.ctx, &TransitionInput{RoundID: "42"})
	s.Require().NoError(err)

	_, err = s.service.FinishRound(s.ctx, &TransitionInput{RoundID: "42"})
	s.Require().Error(err)
	s.True(lifecycle.IsPreconditionFailure(err))
	s.Equal(models.PhasePayouts, s.stored().Phase)

	recorded, err := s.service.RecordPayouts(s.ctx, &TransitionInput{RoundID: "42"})
	s.Require().NoError(err)
	s.Equal(3, recorded.Recorded)

	_, err = s.service.FinishRound(s.ctx, &TransitionInput{RoundID: "42"})
	s.Require().NoError(err)

	s.Require().NoError(s.service.MarkPayoutPaid(s.ctx, &MarkPayoutPaidInput{
		RoundID:       "42",
		ParticipantID: "alice",
		TxRef:         "0xabc",
	}))

	stats, err := s.service.GetRoundStats(s.ctx, &GetRoundStatsInput{RoundID: "42"})
	s.Require().NoError(err)
	s.Equal(models.PhaseFinished, stats.Phase)
	s.Equal(3, stats.Committed)
	s.Equal(3, stats.Revealed)
	s.Equal(3, stats.Verified)
	s.Equal(1, stats.PaidEntries)
	s.True(stats.TotalPayout.Equal(decimal.NewFromInt(100)), stats.TotalPayout.String())
	s.Contains(stats.Summary, "Round 42")
}

func (s *ServiceTestSuite) TestRoundStatsCountsExclusions() {
	s.create()
	s.postCommitments()
	s.advance("")
	s.advance(s.framePath)
	s.advance("")

	// bob never reveals, carol reveals the wrong salt
	s.reply(s.guesses[0].author, models.PhaseRevealsOpen, transport.FormatReveal("a lighthouse", "s1"))
	s.reply(s.guesses[2].author, models.PhaseRevealsOpen, transport.FormatReveal("a small boat", "wrong"))
	s.advance("")

	_, err := s.service.ProcessPayouts(s.ctx, &TransitionInput{RoundID: "42"})
	s.Require().Error(err)
	s.True(lifecycle.IsPreconditionFailure(err))

	stats, err := s.service.GetRoundStats(s.ctx, &GetRoundStatsInput{RoundID: "42"})
	s.Require().NoError(err)
	s.Equal(models.PhaseRevealsClosed, stats.Phase)
	s.Equal(3, stats.Committed)
	s.Equal(2, stats.Revealed)
	s.Equal(0, stats.PaidEntries)
}

func (s *ServiceTestSuite) TestPlayerStatsFailureDoesNotFailFinish() {
	ctrl := gomock.NewController(s.T())
	players := playerMocks.NewMockRepository(ctrl)
	s.service = s.newService(players)

	players.EXPECT().
		RecordRoundStats(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("redis down")).
		Times(3)

	s.create()
	s.postCommitments()
	s.advance("")
	s.advance(s.framePath)
	s.advance("")
	s.postReveals()
	s.advance("")
	s.advance("")

	rec := s.advance("")
	s.Equal(models.PhaseFinished, rec.Phase)
}

func (s *ServiceTestSuite) TestListRounds() {
	s.create()

	active, err := s.service.ListRounds(s.ctx, &ListRoundsInput{ActiveOnly: true})
	s.Require().NoError(err)
	s.Len(active.Rounds, 1)

	all, err := s.service.ListRounds(s.ctx, nil)
	s.Require().NoError(err)
	s.Len(all.Rounds, 1)

	got, err := s.service.GetRound(s.ctx, &GetRoundInput{RoundID: "42"})
	s.Require().NoError(err)
	s.Equal("Harbor cam", got.Round.Description)

	_, err = s.service.GetRound(s.ctx, &GetRoundInput{RoundID: "nope"})
	s.ErrorIs(err, roundRepo.ErrRoundNotFound)
}

func (s *ServiceTestSuite) TestNewServiceValidation() {
	_, err := NewService(nil)
	s.ErrorIs(err, ErrNilConfig)

	_, err = NewService(&Config{})
	s.ErrorIs(err, ErrNilMachine)

	_, err = NewService(&Config{
		Machine:    s.machine,
		Transport:  s.validator,
		RoundRepo:  s.rounds,
		PlayerRepo: s.players,
		LedgerRepo: s.ledger,
		Messaging:  s.messaging,
	})
	s.ErrorIs(err, ErrMissingValidatorID)
}
