package round

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/KirkDiggler/lottery/internal/models"
	"github.com/redis/go-redis/v9"
)

const (
	// Key prefixes for Redis
	roundKeyPrefix   = "round:"
	resultKeyPrefix  = "result:"
	resultsKeyPrefix = "results:" // sorted set of result ids per lottery, scored by completion time
)

// ErrRoundNotFound is returned when no snapshot exists for a lottery
var ErrRoundNotFound = errors.New("round not found")

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

	// Test connection
	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisRepository{
		client: cfg.RedisClient,
	}, nil
}

// SaveRound persists a round snapshot to Redis
func (r *redisRepository) SaveRound(ctx context.Context, input *SaveRoundInput) error {
	if input == nil || input.Round == nil {
		return errors.New("input and round cannot be nil")
	}
	if input.Round.LotteryID == "" {
		return errors.New("lottery ID cannot be empty")
	}

	roundJSON, err := json.Marshal(input.Round)
	if err != nil {
		return fmt.Errorf("failed to marshal round: %w", err)
	}

	roundKey := fmt.Sprintf("%s%s", roundKeyPrefix, input.Round.LotteryID)
	if err := r.client.Set(ctx, roundKey, roundJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to save round: %w", err)
	}

	return nil
}

// GetRound retrieves a round snapshot from Redis
func (r *redisRepository) GetRound(ctx context.Context, input *GetRoundInput) (*models.Round, error) {
	if input == nil || input.LotteryID == "" {
		return nil, errors.New("input and lottery ID cannot be empty")
	}

	roundKey := fmt.Sprintf("%s%s", roundKeyPrefix, input.LotteryID)
	roundJSON, err := r.client.Get(ctx, roundKey).Result()
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

// AddResult stores a result and indexes it under its lottery
func (r *redisRepository) AddResult(ctx context.Context, input *AddResultInput) error {
	if input == nil || input.Result == nil {
		return errors.New("input and result cannot be nil")
	}

	result := input.Result
	if result.ID == "" {
		return errors.New("result ID cannot be empty")
	}
	if result.LotteryID == "" {
		return errors.New("lottery ID cannot be empty")
	}

	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	pipe := r.client.TxPipeline()

	resultKey := fmt.Sprintf("%s%s", resultKeyPrefix, result.ID)
	pipe.Set(ctx, resultKey, resultJSON, 0)

	resultsKey := fmt.Sprintf("%s%s", resultsKeyPrefix, result.LotteryID)
	pipe.ZAdd(ctx, resultsKey, redis.Z{
		Score:  float64(result.CompletedAt.UnixNano()),
		Member: result.ID,
	})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to add result: %w", err)
	}

	return nil
}

// ListResults retrieves results for a lottery, newest first
func (r *redisRepository) ListResults(ctx context.Context, input *ListResultsInput) (*ListResultsOutput, error) {
	if input == nil || input.LotteryID == "" {
		return nil, errors.New("input and lottery ID cannot be empty")
	}

	stop := int64(-1)
	if input.Limit > 0 {
		stop = int64(input.Limit) - 1
	}

	resultsKey := fmt.Sprintf("%s%s", resultsKeyPrefix, input.LotteryID)
	resultIDs, err := r.client.ZRevRange(ctx, resultsKey, 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get result IDs: %w", err)
	}

	if len(resultIDs) == 0 {
		return &ListResultsOutput{
			Results: []*models.RoundResult{},
		}, nil
	}

	// Fetch every result in one round trip
	pipe := r.client.Pipeline()
	cmds := make([]*redis.StringCmd, len(resultIDs))
	for i, id := range resultIDs {
		cmds[i] = pipe.Get(ctx, fmt.Sprintf("%s%s", resultKeyPrefix, id))
	}

	// redis.Nil from a missing member is handled per command below
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to get results: %w", err)
	}

	results := make([]*models.RoundResult, 0, len(resultIDs))
	for i, cmd := range cmds {
		resultJSON, err := cmd.Result()
		if err != nil {
			if err == redis.Nil {
				continue
			}
			return nil, fmt.Errorf("failed to get result %s: %w", resultIDs[i], err)
		}

		var result models.RoundResult
		if err := json.Unmarshal([]byte(resultJSON), &result); err != nil {
			return nil, fmt.Errorf("failed to unmarshal result %s: %w", resultIDs[i], err)
		}

		results = append(results, &result)
	}

	return &ListResultsOutput{
		Results: results,
	}, nil
}
