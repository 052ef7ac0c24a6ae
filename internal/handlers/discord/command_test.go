package discord

import (
	"errors"
	"io"
	"log/slog"
	"math/rand"
	"strings"
	"testing"

	"github.com/KirkDiggler/foresight/internal/commitment"
	"github.com/KirkDiggler/foresight/internal/models"
	roundRepo "github.com/KirkDiggler/foresight/internal/repositories/round"
	"github.com/KirkDiggler/foresight/internal/services/messaging"
	"github.com/KirkDiggler/foresight/internal/services/round"
	roundMocks "github.com/KirkDiggler/foresight/internal/services/round/mocks"
	"github.com/KirkDiggler/foresight/internal/transport"
	"github.com/bwmarrin/discordgo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

// fakeResponder records interaction responses
type fakeResponder struct {
	responses []*discordgo.InteractionResponse
}

func (f *fakeResponder) InteractionRespond(_ *discordgo.Interaction, resp *discordgo.InteractionResponse, _ ...discordgo.RequestOption) error {
	f.responses = append(f.responses, resp)
	return nil
}

func (f *fakeResponder) last() *discordgo.MessageEmbed {
	resp := f.responses[len(f.responses)-1]
	return resp.Data.Embeds[0]
}

func (f *fakeResponder) ephemeral() bool {
	resp := f.responses[len(f.responses)-1]
	return resp.Data.Flags&discordgo.MessageFlagsEphemeral != 0
}

func interaction(command, sub string, opts map[string]string) *discordgo.InteractionCreate {
	var options []*discordgo.ApplicationCommandInteractionDataOption
	for name, value := range opts {
		options = append(options, &discordgo.ApplicationCommandInteractionDataOption{
			Name:  name,
			Type:  discordgo.ApplicationCommandOptionString,
			Value: value,
		})
	}
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type: discordgo.InteractionApplicationCommand,
		Data: discordgo.ApplicationCommandInteractionData{
			Name: command,
			Options: []*discordgo.ApplicationCommandInteractionDataOption{
				{Name: sub, Type: discordgo.ApplicationCommandOptionSubCommand, Options: options},
			},
		},
	}}
}

func field(embed *discordgo.MessageEmbed, name string) string {
	for _, f := range embed.Fields {
		if f.Name == name {
			return strings.Trim(f.Value, "`\n")
		}
	}
	return ""
}

type CommandTestSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	responder *fakeResponder
	messaging messaging.Service
	rounds    *roundMocks.MockService
	cmd       *CommitmentCommand
	roundCmd  *RoundCommand
}

func (s *CommandTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.responder = &fakeResponder{}

	msgs, err := messaging.NewService(&messaging.ServiceConfig{Rand: rand.New(rand.NewSource(1))})
	s.Require().NoError(err)
	s.messaging = msgs

	s.rounds = roundMocks.NewMockService(s.ctrl)
	s.cmd = NewCommitmentCommand(commitment.New(nil), msgs)
	s.roundCmd = NewRoundCommand(s.rounds, msgs)
}

func TestCommandTestSuite(t *testing.T) {
	suite.Run(t, new(CommandTestSuite))
}

func (s *CommandTestSuite) TestGenerateIsPrivateAndVerifiable() {
	err := s.cmd.Handle(s.responder, interaction("commitment", "generate", map[string]string{
		"guess":  "a lighthouse at dusk",
		"wallet": "5Alice",
	}))
	s.Require().NoError(err)
	s.True(s.responder.ephemeral())

	embed := s.responder.last()
	hash, salt := field(embed, "Hash"), field(embed, "Salt")
	s.True(commitment.Verify("a lighthouse at dusk", salt, hash))

	parsed, ok := transport.ParseCommitment(field(embed, "Reply"))
	s.Require().True(ok)
	s.Equal(hash, parsed.Hash)
	s.Equal("5Alice", parsed.Wallet)

	reveal, ok := transport.ParseReveal(field(embed, "Reveal later with"))
	s.Require().True(ok)
	s.Equal(salt, reveal.Salt)
}

func (s *CommandTestSuite) TestGenerateTrimsPaddedGuess() {
	err := s.cmd.Handle(s.responder, interaction("commitment", "generate", map[string]string{"guess": "  gulls at dawn "}))
	s.Require().NoError(err)

	embed := s.responder.last()
	reveal, ok := transport.ParseReveal(field(embed, "Reveal later with"))
	s.Require().True(ok)
	s.Equal("gulls at dawn", reveal.Guess)
	s.True(commitment.Verify(reveal.Guess, reveal.Salt, field(embed, "Hash")))
}

func (s *CommandTestSuite) TestGenerateRejectsBlankGuess() {
	err := s.cmd.Handle(s.responder, interaction("commitment", "generate", map[string]string{"guess": "  "}))
	s.Require().NoError(err)
	s.Equal("Empty Guess", s.responder.last().Title)
	s.Equal(colorError, s.responder.last().Color)

	err = s.cmd.Handle(s.responder, interaction("commitment", "generate", map[string]string{"guess": strings.Repeat("x", 301)}))
	s.Require().NoError(err)
	s.Equal("Guess Too Long", s.responder.last().Title)
}

func (s *CommandTestSuite) TestVerify() {
	hash, err := commitment.Commit("gulls", "s4")
	s.Require().NoError(err)

	s.Require().NoError(s.cmd.Handle(s.responder, interaction("commitment", "verify", map[string]string{
		"guess": "gulls", "salt": "s4", "hash": hash,
	})))
	s.Equal("Match", s.responder.last().Title)

	s.Require().NoError(s.cmd.Handle(s.responder, interaction("commitment", "verify", map[string]string{
		"guess": "gulls", "salt": "s5", "hash": hash,
	})))
	s.Equal("No Match", s.responder.last().Title)

	s.Require().NoError(s.cmd.Handle(s.responder, interaction("commitment", "verify", map[string]string{
		"guess": "gulls", "salt": "s4", "hash": "abc",
	})))
	s.Equal("Malformed Commitment", s.responder.last().Title)
}

func (s *CommandTestSuite) TestIgnoresOtherCommands() {
	s.Require().NoError(s.cmd.Handle(s.responder, interaction("round", "status", nil)))
	s.Empty(s.responder.responses)
}

func (s *CommandTestSuite) TestRoundStatus() {
	s.rounds.EXPECT().
		GetRoundStats(gomock.Any(), &round.GetRoundStatsInput{RoundID: "7"}).
		Return(&round.GetRoundStatsOutput{
			RoundID:     "7",
			Phase:       models.PhaseFinished,
			Committed:   3,
			Verified:    3,
			TotalPayout: decimal.NewFromInt(100),
			Summary:     "Round 7 is in Finished.",
		}, nil)

	s.Require().NoError(s.roundCmd.Handle(s.responder, interaction("round", "status", map[string]string{"id": "7"})))
	embed := s.responder.last()
	s.Equal("Round 7", embed.Title)
	s.False(s.responder.ephemeral())
	s.Equal("100", field(embed, "Paid Out"))
}

func (s *CommandTestSuite) TestRoundStatusUnknownRound() {
	s.rounds.EXPECT().
		GetRoundStats(gomock.Any(), gomock.Any()).
		Return(nil, roundRepo.ErrRoundNotFound)

	s.Require().NoError(s.roundCmd.Handle(s.responder, interaction("round", "status", map[string]string{"id": "x"})))
	s.Equal("Round Not Found", s.responder.last().Title)
}

func (s *CommandTestSuite) TestLeaderboard() {
	s.rounds.EXPECT().
		GetLeaderboard(gomock.Any(), &round.GetLeaderboardInput{Limit: 10}).
		Return(&round.GetLeaderboardOutput{Players: []*models.Player{
			{ID: "alice", Name: "Alice", TotalWinnings: decimal.NewFromInt(150), RoundsEntered: 2},
			{ID: "bob", TotalWinnings: decimal.NewFromInt(25), RoundsEntered: 1},
		}}, nil)

	s.Require().NoError(s.roundCmd.Handle(s.responder, interaction("round", "leaderboard", nil)))
	desc := s.responder.last().Description
	s.Contains(desc, "1. Alice: 150 over 2 rounds")
	s.Contains(desc, "2. bob: 25 over 1 rounds")
}

func (s *CommandTestSuite) TestBotDispatchLogsHandlerErrors() {
	session, err := discordgo.New("Bot token")
	s.Require().NoError(err)

	bot, err := New(&Config{
		Session:  session,
		Commands: []CommandHandler{s.cmd, s.roundCmd},
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	s.Require().NoError(err)

	s.rounds.EXPECT().
		GetLeaderboard(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("redis down"))

	bot.dispatch(s.responder, interaction("round", "leaderboard", nil))
	s.Empty(s.responder.responses)

	bot.dispatch(s.responder, interaction("commitment", "verify", map[string]string{"guess": "g", "salt": "s", "hash": "zz"}))
	s.Len(s.responder.responses, 1)

	bot.dispatch(s.responder, interaction("unknown", "x", nil))
	s.Len(s.responder.responses, 1)
}

func (s *CommandTestSuite) TestNewBotValidation() {
	_, err := New(nil)
	s.Error(err)

	session, err := discordgo.New("Bot token")
	s.Require().NoError(err)
	_, err = New(&Config{Session: session})
	s.Error(err)
}

