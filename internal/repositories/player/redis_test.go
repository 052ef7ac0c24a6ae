package player

import (
	"context"
	"testing"
	"time"

	"github.com/KirkDiggler/foresight/internal/models"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type RedisRepositoryTestSuite struct {
	suite.Suite
	mr      *miniredis.Miniredis
	client  *redis.Client
	repo    Repository
	ctx     context.Context
	testNow time.Time
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr

	s.client = redis.NewClient(&redis.Options{
		Addr: s.mr.Addr(),
	})

	repo, err := NewRedis(&Config{
		RedisClient: s.client,
	})
	s.Require().NoError(err)
	s.repo = repo

	s.ctx = context.Background()
	s.testNow = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.client.Close()
	s.mr.Close()
}

func TestRedisRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

func (s *RedisRepositoryTestSuite) TestSaveAndGetPlayer() {
	err := s.repo.SavePlayer(s.ctx, &SavePlayerInput{Player: &models.Player{
		ID:            "alice",
		Name:          "Alice",
		Wallet:        "5Grw",
		TotalWinnings: decimal.NewFromInt(3),
		UpdatedAt:     s.testNow,
	}})
	s.Require().NoError(err)

	got, err := s.repo.GetPlayer(s.ctx, &GetPlayerInput{PlayerID: "alice"})
	s.Require().NoError(err)
	s.Equal("Alice", got.Name)
	s.Equal("5Grw", got.Wallet)
	s.True(got.TotalWinnings.Equal(decimal.NewFromInt(3)))

	_, err = s.repo.GetPlayer(s.ctx, &GetPlayerInput{PlayerID: "ghost"})
	s.ErrorIs(err, ErrPlayerNotFound)
}

func (s *RedisRepositoryTestSuite) TestRecordRoundStatsCountsEachRoundOnce() {
	input := &RecordRoundStatsInput{
		PlayerID:  "alice",
		Name:      "Alice",
		RoundID:   "r1",
		Payout:    decimal.RequireFromString("12.5"),
		UpdatedAt: s.testNow,
	}

	p, err := s.repo.RecordRoundStats(s.ctx, input)
	s.Require().NoError(err)
	s.Equal(1, p.RoundsEntered)
	s.Equal(1, p.RoundsPaid)

	p, err = s.repo.RecordRoundStats(s.ctx, input)
	s.Require().NoError(err)
	s.Equal(1, p.RoundsEntered)
	s.True(p.TotalWinnings.Equal(decimal.RequireFromString("12.5")))

	p, err = s.repo.RecordRoundStats(s.ctx, &RecordRoundStatsInput{
		PlayerID:  "alice",
		RoundID:   "r2",
		Payout:    decimal.Zero,
		UpdatedAt: s.testNow.Add(time.Hour),
	})
	s.Require().NoError(err)
	s.Equal(2, p.RoundsEntered)
	s.Equal(1, p.RoundsPaid)
	s.Equal("Alice", p.Name)
	s.Equal([]string{"r1", "r2"}, p.RoundIDs)
}

func (s *RedisRepositoryTestSuite) TestPlayersInRoundAndLeaderboard() {
	for id, payout := range map[string]string{"alice": "50", "bob": "25", "carol": "0"} {
		_, err := s.repo.RecordRoundStats(s.ctx, &RecordRoundStatsInput{
			PlayerID:  id,
			RoundID:   "r1",
			Payout:    decimal.RequireFromString(payout),
			UpdatedAt: s.testNow,
		})
		s.Require().NoError(err)
	}

	inRound, err := s.repo.GetPlayersInRound(s.ctx, &GetPlayersInRoundInput{RoundID: "r1"})
	s.Require().NoError(err)
	s.Len(inRound.Players, 3)

	board, err := s.repo.GetLeaderboard(s.ctx, &GetLeaderboardInput{Limit: 2})
	s.Require().NoError(err)
	s.Require().Len(board.Players, 2)
	s.Equal("alice", board.Players[0].ID)
	s.Equal("bob", board.Players[1].ID)
}
