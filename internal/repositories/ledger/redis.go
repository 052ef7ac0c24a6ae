package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/KirkDiggler/foresight/internal/models"
	"github.com/redis/go-redis/v9"
)

const (
	// Key prefixes for Redis
	payoutKeyPrefix             = "payout:"
	roundPayoutsKeyPrefix       = "round_payouts:"
	participantPayoutsKeyPrefix = "participant_payouts:"
)

// ErrPayoutNotFound is returned when a ledger entry is not found
var ErrPayoutNotFound = errors.New("payout entry not found")

// Config holds configuration for the Redis ledger repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed payout ledger repository
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

func payoutKey(roundID, participantID string) string {
	return fmt.Sprintf("%s%s:%s", payoutKeyPrefix, roundID, participantID)
}

// RecordPayouts stores entries with SETNX so a retried recording never duplicates a payout
func (r *redisRepository) RecordPayouts(ctx context.Context, input *RecordPayoutsInput) (*RecordPayoutsOutput, error) {
	if input == nil || input.RoundID == "" {
		return nil, errors.New("input and round ID cannot be empty")
	}

	pipe := r.client.TxPipeline()
	created := make([]*redis.BoolCmd, len(input.Entries))

	for i, entry := range input.Entries {
		if entry == nil || entry.ParticipantID == "" {
			return nil, errors.New("payout entry and participant ID cannot be empty")
		}
		if entry.RoundID != input.RoundID {
			return nil, fmt.Errorf("payout entry for round %s recorded under round %s", entry.RoundID, input.RoundID)
		}

		entryJSON, err := json.Marshal(entry)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal payout entry: %w", err)
		}

		created[i] = pipe.SetNX(ctx, payoutKey(entry.RoundID, entry.ParticipantID), entryJSON, 0)
		pipe.ZAdd(ctx, roundPayoutsKeyPrefix+entry.RoundID, redis.Z{
			Score:  float64(entry.Rank),
			Member: entry.ParticipantID,
		})
		pipe.ZAdd(ctx, participantPayoutsKeyPrefix+entry.ParticipantID, redis.Z{
			Score:  float64(entry.Timestamp.Unix()),
			Member: entry.RoundID,
		})
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to record payouts: %w", err)
	}

	out := &RecordPayoutsOutput{}
	for _, cmd := range created {
		if cmd.Val() {
			out.Recorded++
		} else {
			out.Existing++
		}
	}
	return out, nil
}

// GetPayoutsForRound retrieves a round's entries in rank order
func (r *redisRepository) GetPayoutsForRound(ctx context.Context, input *GetPayoutsForRoundInput) (*GetPayoutsForRoundOutput, error) {
	if input == nil || input.RoundID == "" {
		return nil, errors.New("input and round ID cannot be empty")
	}

	participantIDs, err := r.client.ZRange(ctx, roundPayoutsKeyPrefix+input.RoundID, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get payout participants: %w", err)
	}

	keys := make([]string, len(participantIDs))
	for i, id := range participantIDs {
		keys[i] = payoutKey(input.RoundID, id)
	}

	entries, err := r.getMany(ctx, keys)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Rank < entries[j].Rank })

	return &GetPayoutsForRoundOutput{Entries: entries}, nil
}

// GetPayoutsForParticipant retrieves a participant's entries, oldest first
func (r *redisRepository) GetPayoutsForParticipant(ctx context.Context, input *GetPayoutsForParticipantInput) (*GetPayoutsForParticipantOutput, error) {
	if input == nil || input.ParticipantID == "" {
		return nil, errors.New("input and participant ID cannot be empty")
	}

	roundIDs, err := r.client.ZRange(ctx, participantPayoutsKeyPrefix+input.ParticipantID, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get participant rounds: %w", err)
	}

	keys := make([]string, len(roundIDs))
	for i, id := range roundIDs {
		keys[i] = payoutKey(id, input.ParticipantID)
	}

	entries, err := r.getMany(ctx, keys)
	if err != nil {
		return nil, err
	}
	return &GetPayoutsForParticipantOutput{Entries: entries}, nil
}

// MarkPayoutPaid marks an entry as paid
func (r *redisRepository) MarkPayoutPaid(ctx context.Context, input *MarkPayoutPaidInput) error {
	if input == nil || input.RoundID == "" || input.ParticipantID == "" {
		return errors.New("input, round ID and participant ID cannot be empty")
	}

	key := payoutKey(input.RoundID, input.ParticipantID)
	entryJSON, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return ErrPayoutNotFound
		}
		return fmt.Errorf("failed to get payout entry: %w", err)
	}

	var entry models.PayoutEntry
	if err := json.Unmarshal([]byte(entryJSON), &entry); err != nil {
		return fmt.Errorf("failed to unmarshal payout entry: %w", err)
	}

	entry.Paid = true
	entry.PaidTimestamp = input.PaidAt
	entry.TxRef = input.TxRef

	updatedJSON, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal updated payout entry: %w", err)
	}

	if err := r.client.Set(ctx, key, updatedJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to save updated payout entry: %w", err)
	}

	return nil
}

func (r *redisRepository) getMany(ctx context.Context, keys []string) ([]*models.PayoutEntry, error) {
	if len(keys) == 0 {
		return []*models.PayoutEntry{}, nil
	}

	vals, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get payout entries: %w", err)
	}

	entries := make([]*models.PayoutEntry, 0, len(vals))
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}
		var entry models.PayoutEntry
		if err := json.Unmarshal([]byte(s), &entry); err != nil {
			return nil, fmt.Errorf("failed to unmarshal payout entry %s: %w", keys[i], err)
		}
		entries = append(entries, &entry)
	}
	return entries, nil
}
