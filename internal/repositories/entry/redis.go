package entry

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
	entryKeyPrefix          = "entry:"
	accountEntriesKeyPrefix = "account_entries:"
)

var (
	// ErrEntryNotFound is returned when no entry exists for the account and round
	ErrEntryNotFound = errors.New("entry not found")

	// ErrEntryExists is returned when creating an entry that is already stored
	ErrEntryExists = errors.New("entry already exists")
)

// Config holds configuration for the Redis entry repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed entry repository
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

func entryKey(account, roundID string) string {
	return fmt.Sprintf("%s%s:%s", entryKeyPrefix, account, roundID)
}

// SaveEntry persists an entry and indexes it by creation time
func (r *redisRepository) SaveEntry(ctx context.Context, input *SaveEntryInput) error {
	if input == nil || input.Entry == nil {
		return errors.New("input and entry cannot be nil")
	}

	e := input.Entry
	if e.Account == "" || e.RoundID == "" {
		return errors.New("entry account and round ID cannot be empty")
	}

	entryJSON, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal entry: %w", err)
	}

	key := entryKey(e.Account, e.RoundID)
	if input.Create {
		ok, err := r.client.SetNX(ctx, key, entryJSON, 0).Result()
		if err != nil {
			return fmt.Errorf("failed to create entry: %w", err)
		}
		if !ok {
			return ErrEntryExists
		}
	} else if err := r.client.Set(ctx, key, entryJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to save entry: %w", err)
	}

	err = r.client.ZAdd(ctx, accountEntriesKeyPrefix+e.Account, redis.Z{
		Score:  float64(e.CreatedAt.Unix()),
		Member: e.RoundID,
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to index entry: %w", err)
	}

	return nil
}

// GetEntry retrieves an entry
func (r *redisRepository) GetEntry(ctx context.Context, input *GetEntryInput) (*models.Entry, error) {
	if input == nil || input.Account == "" || input.RoundID == "" {
		return nil, errors.New("input, account and round ID cannot be empty")
	}

	entryJSON, err := r.client.Get(ctx, entryKey(input.Account, input.RoundID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("failed to get entry: %w", err)
	}

	var e models.Entry
	if err := json.Unmarshal([]byte(entryJSON), &e); err != nil {
		return nil, fmt.Errorf("failed to unmarshal entry: %w", err)
	}
	return &e, nil
}

// ListEntries retrieves an account's entries, newest first
func (r *redisRepository) ListEntries(ctx context.Context, input *ListEntriesInput) (*ListEntriesOutput, error) {
	if input == nil || input.Account == "" {
		return nil, errors.New("input and account cannot be empty")
	}

	stop := int64(-1)
	if input.Limit > 0 {
		stop = int64(input.Limit) - 1
	}

	roundIDs, err := r.client.ZRevRange(ctx, accountEntriesKeyPrefix+input.Account, 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	if len(roundIDs) == 0 {
		return &ListEntriesOutput{Entries: []*models.Entry{}}, nil
	}

	keys := make([]string, len(roundIDs))
	for i, id := range roundIDs {
		keys[i] = entryKey(input.Account, id)
	}

	vals, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get entries: %w", err)
	}

	entries := make([]*models.Entry, 0, len(vals))
	for i, v := range vals {
		str, ok := v.(string)
		if !ok {
			continue
		}
		var e models.Entry
		if err := json.Unmarshal([]byte(str), &e); err != nil {
			return nil, fmt.Errorf("failed to unmarshal entry %s: %w", keys[i], err)
		}
		entries = append(entries, &e)
	}
	return &ListEntriesOutput{Entries: entries}, nil
}
