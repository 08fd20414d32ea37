package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rogerioboitto/casa-backend/internal/domain/charging"
	"github.com/rogerioboitto/casa-backend/internal/domain/shared/valueobject"
	"github.com/rogerioboitto/casa-backend/internal/infrastructure/config"
)

// ledgerHashKey is the Redis hash holding every charge entry,
// field = chargeKey, value = external payment id
const ledgerHashKey = "casa:charge-ledger"

// RedisChargeLedger implements charging.ChargeLedger on a Redis hash.
// Suitable when several back-office instances must share ledger state.
type RedisChargeLedger struct {
	client  *redis.Client
	hashKey string
}

var _ charging.ChargeLedger = (*RedisChargeLedger)(nil)

// NewRedisChargeLedger connects to Redis and verifies the connection
func NewRedisChargeLedger(cfg config.RedisConfig) (*RedisChargeLedger, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisChargeLedger{client: client, hashKey: ledgerHashKey}, nil
}

// NewRedisChargeLedgerWithClient creates a ledger on an existing client,
// useful for testing or client sharing
func NewRedisChargeLedgerWithClient(client *redis.Client, hashKey string) *RedisChargeLedger {
	if hashKey == "" {
		hashKey = ledgerHashKey
	}
	return &RedisChargeLedger{client: client, hashKey: hashKey}
}

// Has reports whether a charge is recorded for the key
func (l *RedisChargeLedger) Has(ctx context.Context, key charging.ChargeKey) (bool, error) {
	exists, err := l.client.HExists(ctx, l.hashKey, key.String()).Result()
	if err != nil {
		return false, fmt.Errorf("ledger lookup: %w", err)
	}
	return exists, nil
}

// Get returns the external payment id for the key
func (l *RedisChargeLedger) Get(ctx context.Context, key charging.ChargeKey) (string, bool, error) {
	id, err := l.client.HGet(ctx, l.hashKey, key.String()).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("ledger lookup: %w", err)
	}
	return id, true, nil
}

// Put records a successfully created charge
func (l *RedisChargeLedger) Put(ctx context.Context, key charging.ChargeKey, paymentID string) error {
	if err := l.client.HSet(ctx, l.hashKey, key.String(), paymentID).Err(); err != nil {
		return fmt.Errorf("ledger write: %w", err)
	}
	return nil
}

// Remove drops the entry for the key
func (l *RedisChargeLedger) Remove(ctx context.Context, key charging.ChargeKey) error {
	if err := l.client.HDel(ctx, l.hashKey, key.String()).Err(); err != nil {
		return fmt.Errorf("ledger delete: %w", err)
	}
	return nil
}

// Entries returns a snapshot of every recorded charge
func (l *RedisChargeLedger) Entries(ctx context.Context) (map[charging.ChargeKey]string, error) {
	raw, err := l.client.HGetAll(ctx, l.hashKey).Result()
	if err != nil {
		return nil, fmt.Errorf("ledger scan: %w", err)
	}
	entries := make(map[charging.ChargeKey]string, len(raw))
	for k, v := range raw {
		entries[charging.ChargeKey(k)] = v
	}
	return entries, nil
}

// Reconcile drops entries for the observed months whose payment id no longer
// exists remotely. The plan is computed from a snapshot; entries added
// concurrently are left alone.
func (l *RedisChargeLedger) Reconcile(ctx context.Context, months []valueobject.ReferenceMonth, remoteIDs map[string]struct{}) ([]charging.ChargeKey, error) {
	entries, err := l.Entries(ctx)
	if err != nil {
		return nil, err
	}
	stale := charging.ReconcilePlan(entries, months, remoteIDs)
	if len(stale) == 0 {
		return nil, nil
	}

	fields := make([]string, 0, len(stale))
	for _, key := range stale {
		fields = append(fields, key.String())
	}
	if err := l.client.HDel(ctx, l.hashKey, fields...).Err(); err != nil {
		return nil, fmt.Errorf("ledger prune: %w", err)
	}
	return stale, nil
}
