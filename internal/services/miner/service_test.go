package miner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/KirkDiggler/foresight/internal/commitment"
	"github.com/KirkDiggler/foresight/internal/common/clock"
	"github.com/KirkDiggler/foresight/internal/common/uuid"
	"github.com/KirkDiggler/foresight/internal/models"
	entryRepo "github.com/KirkDiggler/foresight/internal/repositories/entry"
	"github.com/KirkDiggler/foresight/internal/transport"
	transportMocks "github.com/KirkDiggler/foresight/internal/transport/mocks"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type ServiceTestSuite struct {
	suite.Suite
	ctx       context.Context
	mr        *miniredis.Miniredis
	client    *redis.Client
	clock     *clock.Manual
	channel   *transport.MemoryChannel
	validator *transport.Memory
	entries   entryRepo.Repository
	service   *service
}

func (s *ServiceTestSuite) SetupTest() {
	s.ctx = context.Background()

	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr
	s.client = redis.NewClient(&redis.Options{Addr: mr.Addr()})

	entries, err := entryRepo.NewRedis(&entryRepo.Config{RedisClient: s.client})
	s.Require().NoError(err)
	s.entries = entries

	s.clock = clock.NewManual(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	s.channel = transport.NewMemoryChannel(uuid.NewSequence("msg"), s.clock)
	s.validator = s.channel.As(transport.Author{ID: "validator", Name: "Validator"})

	svc, err := NewService(&Config{
		Transport: s.channel.As(transport.Author{ID: "alice", Name: "Alice"}),
		EntryRepo: s.entries,
		Generator: commitment.New(&commitment.Config{
			SaltLength: 4,
			Random:     bytes.NewReader(bytes.Repeat([]byte{0xab}, 64)),
		}),
		Account:     "alice",
		ValidatorID: "validator",
		Wallet:      "5Alice",
		Clock:       s.clock,
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	s.Require().NoError(err)
	s.service = svc
}

func (s *ServiceTestSuite) TearDownTest() {
	s.client.Close()
	s.mr.Close()
}

func TestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}

// announce posts a tagged validator announcement and returns its ID
func (s *ServiceTestSuite) announce(roundID string, phase models.Phase) string {
	s.clock.Advance(time.Second)
	id, err := s.validator.Post(s.ctx, transport.FormatTags(roundID, phase)+"\n\nround "+roundID)
	s.Require().NoError(err)
	return id
}

func (s *ServiceTestSuite) repliesTo(parent string) []transport.Message {
	msgs, err := s.validator.SearchReplies(s.ctx, parent)
	s.Require().NoError(err)
	return msgs
}

func (s *ServiceTestSuite) TestGenerateCommitment() {
	out, err := s.service.GenerateCommitment(s.ctx, &GenerateCommitmentInput{Guess: "a lighthouse", Salt: "pepper"})
	s.Require().NoError(err)
	s.Equal("pepper", out.Salt)
	s.True(commitment.Verify("a lighthouse", "pepper", out.Hash))

	parsed, ok := transport.ParseCommitment(out.Reply)
	s.Require().True(ok)
	s.Equal(out.Hash, parsed.Hash)
	s.Equal("5Alice", parsed.Wallet)

	generated, err := s.service.GenerateCommitment(s.ctx, &GenerateCommitmentInput{Guess: "a lighthouse"})
	s.Require().NoError(err)
	s.Equal("abababab", generated.Salt)

	for _, guess := range []string{"", "   ", "two\nlines", "a lighthouse ", " a lighthouse", "a lighthouse\t"} {
		_, err := s.service.GenerateCommitment(s.ctx, &GenerateCommitmentInput{Guess: guess})
		s.ErrorIs(err, ErrInvalidGuess, guess)
	}

	for _, salt := range []string{"my salt", "pepper ", "tab\tsalt"} {
		_, err := s.service.GenerateCommitment(s.ctx, &GenerateCommitmentInput{Guess: "a lighthouse", Salt: salt})
		s.ErrorIs(err, ErrInvalidSalt, salt)
	}
}

func (s *ServiceTestSuite) TestPostedRevealVerifiesAgainstCommitment() {
	guesses := []string{"a lighthouse", "Guess: a lighthouse", "gulls over   the harbour", "ünïcödé at dusk"}
	for i, guess := range guesses {
		roundID := fmt.Sprintf("r%d", i)
		s.announce(roundID, models.PhaseCommitmentsOpen)
		committed, err := s.service.SubmitCommitment(s.ctx, &SubmitCommitmentInput{RoundID: roundID, Guess: guess})
		s.Require().NoError(err, guess)

		parent := s.announce(roundID, models.PhaseRevealsOpen)
		_, err = s.service.SubmitReveal(s.ctx, &SubmitRevealInput{RoundID: roundID})
		s.Require().NoError(err, guess)

		replies := s.repliesTo(parent)
		s.Require().Len(replies, 1)
		reveal, ok := transport.ParseReveal(replies[0].Text)
		s.Require().True(ok, guess)
		s.Equal(guess, reveal.Guess)
		s.True(commitment.Verify(reveal.Guess, reveal.Salt, committed.Entry.Hash), guess)
	}

	s.announce("padded", models.PhaseCommitmentsOpen)
	_, err := s.service.SubmitCommitment(s.ctx, &SubmitCommitmentInput{Guess: "a lighthouse "})
	s.ErrorIs(err, ErrInvalidGuess)
}

func (s *ServiceTestSuite) TestSubmitCommitmentWithoutAnnouncement() {
	_, err := s.service.SubmitCommitment(s.ctx, &SubmitCommitmentInput{Guess: "a lighthouse"})
	s.ErrorIs(err, ErrNoAnnouncement)

	s.clock.Advance(time.Second)
	_, err = s.validator.Post(s.ctx, "maintenance tonight")
	s.Require().NoError(err)

	_, err = s.service.SubmitCommitment(s.ctx, &SubmitCommitmentInput{Guess: "a lighthouse"})
	s.ErrorIs(err, ErrNoAnnouncement)
}

func (s *ServiceTestSuite) TestSubmitCommitmentIsIdempotent() {
	parent := s.announce("7", models.PhaseCommitmentsOpen)

	out, err := s.service.SubmitCommitment(s.ctx, &SubmitCommitmentInput{RoundID: "7", Guess: "a lighthouse"})
	s.Require().NoError(err)
	s.False(out.AlreadyPosted)
	s.Equal("7", out.Entry.RoundID)
	s.NotEmpty(out.Entry.CommitMessageID)
	s.True(commitment.Verify("a lighthouse", out.Entry.Salt, out.Entry.Hash))

	replies := s.repliesTo(parent)
	s.Require().Len(replies, 1)
	parsed, ok := transport.ParseCommitment(replies[0].Text)
	s.Require().True(ok)
	s.Equal(out.Entry.Hash, parsed.Hash)

	again, err := s.service.SubmitCommitment(s.ctx, &SubmitCommitmentInput{Guess: "a lighthouse"})
	s.Require().NoError(err)
	s.True(again.AlreadyPosted)
	s.Len(s.repliesTo(parent), 1)

	_, err = s.service.SubmitCommitment(s.ctx, &SubmitCommitmentInput{Guess: "a tugboat"})
	s.ErrorIs(err, ErrGuessConflict)
}

func (s *ServiceTestSuite) TestFailedReplyKeepsSalt() {
	parent := s.announce("7", models.PhaseCommitmentsOpen)

	s.channel.FailNext("reply", errors.New("rate limited"))
	_, err := s.service.SubmitCommitment(s.ctx, &SubmitCommitmentInput{Guess: "a lighthouse"})
	s.Require().Error(err)

	stored, err := s.entries.GetEntry(s.ctx, &entryRepo.GetEntryInput{Account: "alice", RoundID: "7"})
	s.Require().NoError(err)
	s.Empty(stored.CommitMessageID)

	out, err := s.service.SubmitCommitment(s.ctx, &SubmitCommitmentInput{Guess: "a lighthouse"})
	s.Require().NoError(err)
	s.Equal(stored.Salt, out.Entry.Salt)
	s.Equal(stored.Hash, out.Entry.Hash)
	s.Len(s.repliesTo(parent), 1)
}

func (s *ServiceTestSuite) TestSubmitCommitmentChecksRoundAndPhase() {
	s.announce("7", models.PhaseCommitmentsOpen)

	_, err := s.service.SubmitCommitment(s.ctx, &SubmitCommitmentInput{RoundID: "8", Guess: "a lighthouse"})
	s.ErrorIs(err, ErrRoundMismatch)

	s.announce("7", models.PhaseCommitmentsClosed)
	_, err = s.service.SubmitCommitment(s.ctx, &SubmitCommitmentInput{RoundID: "7", Guess: "a lighthouse"})
	s.ErrorIs(err, ErrPhaseClosed)
}

func (s *ServiceTestSuite) TestPollRevealsOnce() {
	s.announce("7", models.PhaseCommitmentsOpen)
	committed, err := s.service.SubmitCommitment(s.ctx, &SubmitCommitmentInput{Guess: "a lighthouse"})
	s.Require().NoError(err)

	out, err := s.service.Poll(s.ctx)
	s.Require().NoError(err)
	s.Equal(models.PhaseCommitmentsOpen, out.Tags.Phase)
	s.False(out.Revealed)

	parent := s.announce("7", models.PhaseRevealsOpen)

	out, err = s.service.Poll(s.ctx)
	s.Require().NoError(err)
	s.True(out.Revealed)
	s.NotNil(out.Entry.RevealedAt)

	replies := s.repliesTo(parent)
	s.Require().Len(replies, 1)
	reveal, ok := transport.ParseReveal(replies[0].Text)
	s.Require().True(ok)
	s.True(commitment.Verify(reveal.Guess, reveal.Salt, committed.Entry.Hash))

	out, err = s.service.Poll(s.ctx)
	s.Require().NoError(err)
	s.False(out.Revealed)
	s.Len(s.repliesTo(parent), 1)

	manual, err := s.service.SubmitReveal(s.ctx, nil)
	s.Require().NoError(err)
	s.True(manual.AlreadyPosted)
}

func (s *ServiceTestSuite) TestPollWithoutEntryDoesNothing() {
	parent := s.announce("9", models.PhaseRevealsOpen)

	out, err := s.service.Poll(s.ctx)
	s.Require().NoError(err)
	s.Equal("9", out.Tags.RoundID)
	s.False(out.Revealed)
	s.Empty(s.repliesTo(parent))

	_, err = s.service.SubmitReveal(s.ctx, &SubmitRevealInput{RoundID: "9"})
	s.ErrorIs(err, ErrNoEntry)
}

func (s *ServiceTestSuite) TestPollWithoutAnnouncement() {
	out, err := s.service.Poll(s.ctx)
	s.Require().NoError(err)
	s.Nil(out.Tags)
}

func (s *ServiceTestSuite) TestListEntries() {
	s.announce("7", models.PhaseCommitmentsOpen)
	_, err := s.service.SubmitCommitment(s.ctx, &SubmitCommitmentInput{Guess: "a lighthouse"})
	s.Require().NoError(err)

	s.announce("8", models.PhaseCommitmentsOpen)
	_, err = s.service.SubmitCommitment(s.ctx, &SubmitCommitmentInput{Guess: "gulls"})
	s.Require().NoError(err)

	out, err := s.service.ListEntries(s.ctx, nil)
	s.Require().NoError(err)
	s.Require().Len(out.Entries, 2)
	s.Equal("8", out.Entries[0].RoundID)
}

func (s *ServiceTestSuite) TestTransportErrorsAreWrapped() {
	ctrl := gomock.NewController(s.T())
	adapter := transportMocks.NewMockAdapter(ctrl)

	svc, err := NewService(&Config{
		Transport:   adapter,
		EntryRepo:   s.entries,
		Account:     "alice",
		ValidatorID: "validator",
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	s.Require().NoError(err)

	boom := errors.New("gateway timeout")
	adapter.EXPECT().LatestMessage(gomock.Any(), "validator").Return(nil, boom)

	_, err = svc.Poll(s.ctx)
	s.ErrorIs(err, boom)
}

func (s *ServiceTestSuite) TestNewServiceValidation() {
	_, err := NewService(nil)
	s.ErrorIs(err, ErrNilConfig)

	_, err = NewService(&Config{Transport: s.validator, EntryRepo: s.entries})
	s.ErrorIs(err, ErrMissingAccount)

	_, err = NewService(&Config{Transport: s.validator, EntryRepo: s.entries, Account: "alice"})
	s.ErrorIs(err, ErrMissingValidatorID)
}
