package service

import (
	"context"
	"fmt"
	"time"

	"coffee-shop/internal/apperror"

	"github.com/go-redis/redis/v8"
)

const idempotencyTTL = 24 * time.Hour

// Idempotency rejects replays of the same Idempotent-Key header.
type Idempotency struct {
	rdb *redis.Client
}

func NewIdempotency(rdb *redis.Client) *Idempotency {
	return &Idempotency{rdb: rdb}
}

func idempotencyKey(key string) string {
	return fmt.Sprintf("idempotent-key:%s", key)
}

// Claim records the key, failing with a Conflict when it was already seen
// in the last 24 hours. An empty key or a nil receiver is a no-op.
func (i *Idempotency) Claim(ctx context.Context, key string) error {
	if i == nil || i.rdb == nil || key == "" {
		return nil
	}
	ok, err := i.rdb.SetNX(ctx, idempotencyKey(key), "exists", idempotencyTTL).Result()
	if err != nil {
		return err
	}
	if !ok {
		return apperror.NewConflict("idempotent key already exists")
	}
	return nil
}

// Release forgets a key whose request failed, so the client may retry.
func (i *Idempotency) Release(ctx context.Context, key string) {
	if i == nil || i.rdb == nil || key == "" {
		return
	}
	if err := i.rdb.Del(ctx, idempotencyKey(key)).Err(); err != nil {
		logger.Error().Err(err).Msgf("Error releasing idempotent key %s", key)
	}
}
