package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"dencare/models"

	"github.com/go-redis/redis/v8"
)

const ledgerKeyPrefix = "booking:"

// LedgerKey builds the composite reservation key for a slot.
func LedgerKey(dentistID, date, timeLabel string) string {
	return fmt.Sprintf("%s%s:%s:%s", ledgerKeyPrefix, dentistID, date, timeLabel)
}

// ParseLedgerKey splits a reservation key back into its parts. Returns
// ok=false for keys outside the booking namespace.
func ParseLedgerKey(key string) (dentistID, date, timeLabel string, ok bool) {
	if !strings.HasPrefix(key, ledgerKeyPrefix) {
		return "", "", "", false
	}
	parts := strings.SplitN(strings.TrimPrefix(key, ledgerKeyPrefix), ":", 3)
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return "", "", "", false
	}
	return parts[0], parts[1], parts[2], true
}

// Ledger is the volatile reservation store. Its create-if-absent write
// is the single atomic operation that decides which concurrent reserve
// call wins a slot; everything else in the protocol is advisory and
// re-verified at confirm time.
type Ledger interface {
	// TryAcquire creates the reservation entry with the given TTL only
	// if the key is absent. Returns false when another reservation
	// already holds the key.
	TryAcquire(ctx context.Context, key string, rec models.ReservationRecord, ttl time.Duration) (bool, error)
	// Get returns the live reservation for key, or (nil, nil) when the
	// entry is absent or expired.
	Get(ctx context.Context, key string) (*models.ReservationRecord, error)
	// Release deletes the entry. Deleting an absent key is a no-op.
	Release(ctx context.Context, key string) error
}

// RedisLedger implements Ledger on a Redis DB with TTL-backed keys.
type RedisLedger struct {
	client *redis.Client
}

// NewRedisLedger wraps the given client as a reservation ledger.
func NewRedisLedger(client *redis.Client) *RedisLedger {
	return &RedisLedger{client: client}
}

func (l *RedisLedger) TryAcquire(ctx context.Context, key string, rec models.ReservationRecord, ttl time.Duration) (bool, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return false, fmt.Errorf("failed to marshal reservation record: %w", err)
	}
	ok, err := l.client.SetNX(ctx, key, data, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire reservation %s: %w", key, err)
	}
	return ok, nil
}

func (l *RedisLedger) Get(ctx context.Context, key string) (*models.ReservationRecord, error) {
	data, err := l.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read reservation %s: %w", key, err)
	}
	var rec models.ReservationRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		// Legacy entries stored the bare owning user id.
		rec = models.ReservationRecord{User: string(data)}
	}
	return &rec, nil
}

func (l *RedisLedger) Release(ctx context.Context, key string) error {
	if err := l.client.Del(ctx, key).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("failed to release reservation %s: %w", key, err)
	}
	return nil
}
