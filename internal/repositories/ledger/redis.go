package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	"github.com/KirkDiggler/lottery/internal/common/clock"
	"github.com/KirkDiggler/lottery/internal/common/uuid"
	"github.com/KirkDiggler/lottery/internal/models"
	"github.com/redis/go-redis/v9"
)

const (
	// Key prefixes for Redis
	balanceKeyPrefix = "ledger:balance:"
	entryKeyPrefix   = "ledger:entry:"
	entriesKeyPrefix = "ledger:entries:"
	frozenKey        = "ledger:frozen"

	// maxTxRetries bounds optimistic retries when a balance changes under us
	maxTxRetries = 50
)

var (
	// ErrInsufficientFunds is returned when a debit would overdraw an account
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrAccountFrozen is returned when a frozen account sends or receives value
	ErrAccountFrozen = errors.New("account frozen")

	// ErrInvalidAmount is returned for nil, zero or negative amounts
	ErrInvalidAmount = errors.New("amount must be positive")
)

// Config holds configuration for the Redis ledger repository
type Config struct {
	// Redis client
	RedisClient *redis.Client

	// Clock and UUID default to the real implementations
	Clock clock.Clock
	UUID  uuid.UUID
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
	clock  clock.Clock
	uuid   uuid.UUID
}

// NewRedis creates a new Redis-backed ledger repository
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

	repo := &redisRepository{
		client: cfg.RedisClient,
		clock:  cfg.Clock,
		uuid:   cfg.UUID,
	}
	if repo.clock == nil {
		repo.clock = clock.New()
	}
	if repo.uuid == nil {
		repo.uuid = uuid.New()
	}

	return repo, nil
}

// Credit adds value to an account
func (r *redisRepository) Credit(ctx context.Context, input *CreditInput) (*models.LedgerEntry, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}
	return r.move(ctx, models.LedgerEntryCredit, input.AccountID, input.Amount, input.Reference)
}

// Debit removes value from an account
func (r *redisRepository) Debit(ctx context.Context, input *DebitInput) (*models.LedgerEntry, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}
	return r.move(ctx, models.LedgerEntryDebit, input.AccountID, input.Amount, input.Reference)
}

func (r *redisRepository) move(ctx context.Context, kind models.LedgerEntryKind, accountID string, amount *big.Int, reference string) (*models.LedgerEntry, error) {
	if accountID == "" {
		return nil, errors.New("account ID cannot be empty")
	}
	if amount == nil || amount.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}

	entry := &models.LedgerEntry{
		ID:        r.uuid.NewUUID(),
		AccountID: accountID,
		Kind:      kind,
		Amount:    new(big.Int).Set(amount),
		Reference: reference,
		Timestamp: r.clock.Now(),
	}

	entryJSON, err := json.Marshal(entry)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal ledger entry: %w", err)
	}

	balanceKey := fmt.Sprintf("%s%s", balanceKeyPrefix, accountID)
	entryKey := fmt.Sprintf("%s%s", entryKeyPrefix, entry.ID)
	entriesKey := fmt.Sprintf("%s%s", entriesKeyPrefix, accountID)

	txf := func(tx *redis.Tx) error {
		frozen, err := tx.SIsMember(ctx, frozenKey, accountID).Result()
		if err != nil {
			return fmt.Errorf("failed to check account status: %w", err)
		}
		if frozen {
			return ErrAccountFrozen
		}

		balance, err := readBalance(ctx, tx, balanceKey)
		if err != nil {
			return err
		}

		if kind == models.LedgerEntryCredit {
			balance.Add(balance, amount)
		} else {
			balance.Sub(balance, amount)
		}
		if balance.Sign() < 0 {
			return ErrInsufficientFunds
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, balanceKey, balance.String(), 0)
			pipe.Set(ctx, entryKey, entryJSON, 0)
			pipe.ZAdd(ctx, entriesKey, redis.Z{
				Score:  float64(entry.Timestamp.UnixNano()),
				Member: entry.ID,
			})
			return nil
		})
		return err
	}

	for i := 0; i < maxTxRetries; i++ {
		err := r.client.Watch(ctx, txf, balanceKey, frozenKey)
		if err == nil {
			return entry, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if errors.Is(err, ErrAccountFrozen) || errors.Is(err, ErrInsufficientFunds) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to record %s: %w", kind, err)
	}

	return nil, fmt.Errorf("failed to record %s: too much contention on %s", kind, accountID)
}

// GetBalance returns an account's balance
func (r *redisRepository) GetBalance(ctx context.Context, input *GetBalanceInput) (*big.Int, error) {
	if input == nil || input.AccountID == "" {
		return nil, errors.New("input and account ID cannot be empty")
	}

	return readBalance(ctx, r.client, fmt.Sprintf("%s%s", balanceKeyPrefix, input.AccountID))
}

// ListEntries returns an account's movements, newest first
func (r *redisRepository) ListEntries(ctx context.Context, input *ListEntriesInput) (*ListEntriesOutput, error) {
	if input == nil || input.AccountID == "" {
		return nil, errors.New("input and account ID cannot be empty")
	}

	stop := int64(-1)
	if input.Limit > 0 {
		stop = int64(input.Limit) - 1
	}

	entriesKey := fmt.Sprintf("%s%s", entriesKeyPrefix, input.AccountID)
	entryIDs, err := r.client.ZRevRange(ctx, entriesKey, 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get entry IDs: %w", err)
	}

	if len(entryIDs) == 0 {
		return &ListEntriesOutput{
			Entries: []*models.LedgerEntry{},
		}, nil
	}

	pipe := r.client.Pipeline()
	cmds := make([]*redis.StringCmd, len(entryIDs))
	for i, id := range entryIDs {
		cmds[i] = pipe.Get(ctx, fmt.Sprintf("%s%s", entryKeyPrefix, id))
	}

	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to get entries: %w", err)
	}

	entries := make([]*models.LedgerEntry, 0, len(entryIDs))
	for i, cmd := range cmds {
		entryJSON, err := cmd.Result()
		if err != nil {
			if err == redis.Nil {
				continue
			}
			return nil, fmt.Errorf("failed to get entry %s: %w", entryIDs[i], err)
		}

		var entry models.LedgerEntry
		if err := json.Unmarshal([]byte(entryJSON), &entry); err != nil {
			return nil, fmt.Errorf("failed to unmarshal entry %s: %w", entryIDs[i], err)
		}
		entries = append(entries, &entry)
	}

	return &ListEntriesOutput{
		Entries: entries,
	}, nil
}

// FreezeAccount marks an account frozen
func (r *redisRepository) FreezeAccount(ctx context.Context, input *FreezeAccountInput) error {
	if input == nil || input.AccountID == "" {
		return errors.New("input and account ID cannot be empty")
	}

	if err := r.client.SAdd(ctx, frozenKey, input.AccountID).Err(); err != nil {
		return fmt.Errorf("failed to freeze account: %w", err)
	}
	return nil
}

// UnfreezeAccount lifts a freeze
func (r *redisRepository) UnfreezeAccount(ctx context.Context, input *UnfreezeAccountInput) error {
	if input == nil || input.AccountID == "" {
		return errors.New("input and account ID cannot be empty")
	}

	if err := r.client.SRem(ctx, frozenKey, input.AccountID).Err(); err != nil {
		return fmt.Errorf("failed to unfreeze account: %w", err)
	}
	return nil
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func readBalance(ctx context.Context, client getter, key string) (*big.Int, error) {
	value, err := client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return new(big.Int), nil
		}
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}

	balance, ok := new(big.Int).SetString(value, 10)
	if !ok {
		return nil, fmt.Errorf("corrupt balance %q at %s", value, key)
	}
	return balance, nil
}
