package round

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/KirkDiggler/foresight/internal/models"
	"github.com/redis/go-redis/v9"
)

const (
	// Key prefixes for Redis
	roundKeyPrefix  = "round:"
	roundsIndexKey  = "rounds"
	activeRoundsKey = "active_rounds"
)

// RepositoryError is a custom error type for round persistence failures
type RepositoryError string

// Error implements the error interface
func (e RepositoryError) Error() string {
	return string(e)
}

const (
	ErrRoundNotFound          RepositoryError = "round not found"
	ErrRoundExists            RepositoryError = "round already exists"
	ErrConcurrentModification RepositoryError = "round was modified concurrently"
)

// Config holds configuration for the Redis round repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed round repository
func NewRedis(cfg *Config) (*redisRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisRepository{
		client: cfg.RedisClient,
	}, nil
}

func roundKey(id string) string {
	return fmt.Sprintf("%s%s", roundKeyPrefix, id)
}

// SaveRound persists a round under WATCH so a concurrent writer makes this save fail
// instead of being overwritten. On success input.Round.Revision is advanced.
func (r *redisRepository) SaveRound(ctx context.Context, input *SaveRoundInput) error {
	if input == nil || input.Round == nil {
		return errors.New("input and round cannot be nil")
	}
	if input.Round.ID == "" {
		return errors.New("round ID cannot be empty")
	}

	key := roundKey(input.Round.ID)
	next := *input.Round
	next.Revision = input.ExpectedRevision + 1

	roundJSON, err := json.Marshal(&next)
	if err != nil {
		return fmt.Errorf("failed to marshal round: %w", err)
	}

	err = r.client.Watch(ctx, func(tx *redis.Tx) error {
		stored, err := tx.Get(ctx, key).Result()
		switch {
		case errors.Is(err, redis.Nil):
			if input.ExpectedRevision != 0 {
				return ErrRoundNotFound
			}
		case err != nil:
			return fmt.Errorf("failed to read round: %w", err)
		default:
			if input.ExpectedRevision == 0 {
				return ErrRoundExists
			}
			var current models.Round
			if err := json.Unmarshal([]byte(stored), &current); err != nil {
				return fmt.Errorf("failed to unmarshal stored round: %w", err)
			}
			if current.Revision != input.ExpectedRevision {
				return fmt.Errorf("%w: revision %d, expected %d", ErrConcurrentModification, current.Revision, input.ExpectedRevision)
			}
			if input.ExpectedPhase != "" && current.Phase != input.ExpectedPhase {
				return fmt.Errorf("%w: phase %s, expected %s", ErrConcurrentModification, current.Phase, input.ExpectedPhase)
			}
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, roundJSON, 0)
			pipe.ZAdd(ctx, roundsIndexKey, redis.Z{
				Score:  float64(next.CreatedAt.UnixNano()),
				Member: next.ID,
			})
			if next.Phase.IsFinished() {
				pipe.SRem(ctx, activeRoundsKey, next.ID)
			} else {
				pipe.SAdd(ctx, activeRoundsKey, next.ID)
			}
			return nil
		})
		return err
	}, key)

	if errors.Is(err, redis.TxFailedErr) {
		return ErrConcurrentModification
	}
	if err != nil {
		return err
	}

	input.Round.Revision = next.Revision
	return nil
}

// GetRound retrieves a round by ID from Redis
func (r *redisRepository) GetRound(ctx context.Context, input *GetRoundInput) (*models.Round, error) {
	if input == nil || input.RoundID == "" {
		return nil, errors.New("input and round ID cannot be empty")
	}

	roundJSON, err := r.client.Get(ctx, roundKey(input.RoundID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrRoundNotFound
		}
		return nil, fmt.Errorf("failed to get round: %w", err)
	}

	var round models.Round
	if err := json.Unmarshal([]byte(roundJSON), &round); err != nil {
		return nil, fmt.Errorf("failed to unmarshal round: %w", err)
	}

	return &round, nil
}

// ListRounds retrieves rounds newest first
func (r *redisRepository) ListRounds(ctx context.Context, input *ListRoundsInput) (*ListRoundsOutput, error) {
	stop := int64(-1)
	if input != nil && input.Limit > 0 {
		stop = input.Limit - 1
	}

	ids, err := r.client.ZRevRange(ctx, roundsIndexKey, 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list round IDs: %w", err)
	}

	rounds, err := r.getMany(ctx, ids)
	if err != nil {
		return nil, err
	}
	return &ListRoundsOutput{Rounds: rounds}, nil
}

// GetActiveRounds retrieves every unfinished round
func (r *redisRepository) GetActiveRounds(ctx context.Context, input *GetActiveRoundsInput) (*GetActiveRoundsOutput, error) {
	ids, err := r.client.SMembers(ctx, activeRoundsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get active round IDs: %w", err)
	}

	rounds, err := r.getMany(ctx, ids)
	if err != nil {
		return nil, err
	}
	return &GetActiveRoundsOutput{Rounds: rounds}, nil
}

// DeleteRound removes a round and its index entries
func (r *redisRepository) DeleteRound(ctx context.Context, input *DeleteRoundInput) error {
	if input == nil || input.RoundID == "" {
		return errors.New("input and round ID cannot be empty")
	}

	pipe := r.client.TxPipeline()
	del := pipe.Del(ctx, roundKey(input.RoundID))
	pipe.ZRem(ctx, roundsIndexKey, input.RoundID)
	pipe.SRem(ctx, activeRoundsKey, input.RoundID)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete round: %w", err)
	}
	if del.Val() == 0 {
		return ErrRoundNotFound
	}
	return nil
}

// getMany fetches rounds in a single pipeline, preserving the order of ids
func (r *redisRepository) getMany(ctx context.Context, ids []string) ([]*models.Round, error) {
	if len(ids) == 0 {
		return []*models.Round{}, nil
	}

	pipe := r.client.Pipeline()
	cmds := make([]*redis.StringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.Get(ctx, roundKey(id))
	}

	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to get rounds: %w", err)
	}

	rounds := make([]*models.Round, 0, len(ids))
	for i, cmd := range cmds {
		roundJSON, err := cmd.Result()
		if err != nil {
			if err == redis.Nil {
				// Round was deleted between reading the index and fetching it
				continue
			}
			return nil, fmt.Errorf("failed to get round %s: %w", ids[i], err)
		}

		var round models.Round
		if err := json.Unmarshal([]byte(roundJSON), &round); err != nil {
			return nil, fmt.Errorf("failed to unmarshal round %s: %w", ids[i], err)
		}
		rounds = append(rounds, &round)
	}
	return rounds, nil
}
