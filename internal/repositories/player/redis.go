package player

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/KirkDiggler/foresight/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const (
	// Key prefixes for Redis
	playerKeyPrefix       = "player:"
	roundPlayersKeyPrefix = "round_players:"
	leaderboardKey        = "leaderboard"

	maxStatsRetries = 5
)

var (
	// ErrPlayerNotFound is returned when a player is not found
	ErrPlayerNotFound = errors.New("player not found")

	// ErrStatsContention is returned when concurrent writers keep invalidating a stats update
	ErrStatsContention = errors.New("player stats update kept conflicting")
)

// Config holds configuration for the Redis player repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed player repository
func NewRedis(cfg *Config) (*redisRepository, error) {
	// Validate config
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	// Test connection
	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisRepository{
		client: cfg.RedisClient,
	}, nil
}

// SavePlayer persists a player to Redis
func (r *redisRepository) SavePlayer(ctx context.Context, input *SavePlayerInput) error {
	if input == nil || input.Player == nil {
		return errors.New("input and player cannot be nil")
	}
	if input.Player.ID == "" {
		return errors.New("player ID cannot be empty")
	}

	pipe := r.client.TxPipeline()
	if err := queuePlayer(ctx, pipe, input.Player); err != nil {
		return err
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save player: %w", err)
	}
	return nil
}

// GetPlayer retrieves a player by ID from Redis
func (r *redisRepository) GetPlayer(ctx context.Context, input *GetPlayerInput) (*models.Player, error) {
	if input == nil || input.PlayerID == "" {
		return nil, errors.New("input and player ID cannot be empty")
	}
	return getPlayer(ctx, r.client, input.PlayerID)
}

// GetPlayersInRound retrieves all players counted for a round
func (r *redisRepository) GetPlayersInRound(ctx context.Context, input *GetPlayersInRoundInput) (*GetPlayersInRoundOutput, error) {
	if input == nil || input.RoundID == "" {
		return nil, errors.New("input and round ID cannot be empty")
	}

	playerIDs, err := r.client.SMembers(ctx, roundPlayersKeyPrefix+input.RoundID).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get player IDs for round: %w", err)
	}

	players, err := r.getMany(ctx, playerIDs)
	if err != nil {
		return nil, err
	}
	return &GetPlayersInRoundOutput{Players: players}, nil
}

// RecordRoundStats updates a player's stats under WATCH so concurrent rounds finishing do not lose updates
func (r *redisRepository) RecordRoundStats(ctx context.Context, input *RecordRoundStatsInput) (*models.Player, error) {
	if input == nil || input.PlayerID == "" || input.RoundID == "" {
		return nil, errors.New("input, player ID and round ID cannot be empty")
	}

	key := playerKeyPrefix + input.PlayerID
	var result *models.Player

	txf := func(tx *redis.Tx) error {
		player, err := getPlayer(ctx, tx, input.PlayerID)
		if errors.Is(err, ErrPlayerNotFound) {
			player = &models.Player{ID: input.PlayerID, TotalWinnings: decimal.Zero}
		} else if err != nil {
			return err
		}

		if player.HasRound(input.RoundID) {
			result = player
			return nil
		}

		if input.Name != "" {
			player.Name = input.Name
		}
		if input.Wallet != "" {
			player.Wallet = input.Wallet
		}
		player.RoundsEntered++
		if input.Payout.IsPositive() {
			player.RoundsPaid++
			player.TotalWinnings = player.TotalWinnings.Add(input.Payout)
		}
		player.RoundIDs = append(player.RoundIDs, input.RoundID)
		player.UpdatedAt = input.UpdatedAt

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			return queuePlayer(ctx, pipe, player)
		})
		if err != nil {
			return err
		}
		result = player
		return nil
	}

	for i := 0; i < maxStatsRetries; i++ {
		err := r.client.Watch(ctx, txf, key)
		if err == nil {
			return result, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return nil, fmt.Errorf("failed to record round stats: %w", err)
	}
	return nil, ErrStatsContention
}

// GetLeaderboard returns the players with the highest total winnings
func (r *redisRepository) GetLeaderboard(ctx context.Context, input *GetLeaderboardInput) (*GetLeaderboardOutput, error) {
	limit := int64(10)
	if input != nil && input.Limit > 0 {
		limit = int64(input.Limit)
	}

	playerIDs, err := r.client.ZRevRange(ctx, leaderboardKey, 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}

	players, err := r.getMany(ctx, playerIDs)
	if err != nil {
		return nil, err
	}
	return &GetLeaderboardOutput{Players: players}, nil
}

func queuePlayer(ctx context.Context, pipe redis.Pipeliner, player *models.Player) error {
	playerJSON, err := json.Marshal(player)
	if err != nil {
		return fmt.Errorf("failed to marshal player: %w", err)
	}

	pipe.Set(ctx, playerKeyPrefix+player.ID, playerJSON, 0)
	for _, roundID := range player.RoundIDs {
		pipe.SAdd(ctx, roundPlayersKeyPrefix+roundID, player.ID)
	}
	winnings, _ := player.TotalWinnings.Float64()
	pipe.ZAdd(ctx, leaderboardKey, redis.Z{Score: winnings, Member: player.ID})
	return nil
}

func getPlayer(ctx context.Context, client redis.Cmdable, playerID string) (*models.Player, error) {
	playerJSON, err := client.Get(ctx, playerKeyPrefix+playerID).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	var player models.Player
	if err := json.Unmarshal([]byte(playerJSON), &player); err != nil {
		return nil, fmt.Errorf("failed to unmarshal player: %w", err)
	}
	return &player, nil
}

// getMany fetches players in the order given, skipping IDs that no longer exist
func (r *redisRepository) getMany(ctx context.Context, playerIDs []string) ([]*models.Player, error) {
	if len(playerIDs) == 0 {
		return []*models.Player{}, nil
	}

	pipe := r.client.Pipeline()
	cmds := make([]*redis.StringCmd, len(playerIDs))
	for i, id := range playerIDs {
		cmds[i] = pipe.Get(ctx, playerKeyPrefix+id)
	}

	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to get players: %w", err)
	}

	players := make([]*models.Player, 0, len(playerIDs))
	for i, cmd := range cmds {
		playerJSON, err := cmd.Result()
		if err != nil {
			if err == redis.Nil {
				continue
			}
			return nil, fmt.Errorf("failed to get player %s: %w", playerIDs[i], err)
		}

		var player models.Player
		if err := json.Unmarshal([]byte(playerJSON), &player); err != nil {
			return nil, fmt.Errorf("failed to unmarshal player %s: %w", playerIDs[i], err)
		}
		players = append(players, &player)
	}
	return players, nil
}
