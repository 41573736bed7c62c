// ABOUTME: Redis-backed Locker using SET NX with a per-holder token and expiry.
// ABOUTME: Unlock deletes the key only while it still carries the holder's token.
package lock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const (
	keyPrefix    = "coach:lock:"
	DefaultTTL   = 30 * time.Second
	defaultRetry = 50 * time.Millisecond
)

const unlockScript = `if redis.call("get", KEYS[1]) == ARGV[1] then return redis.call("del", KEYS[1]) else return 0 end`

// RedisLocker is a Locker shared by every process using the same Redis.
type RedisLocker struct {
	client   redis.Cmdable
	ttl      time.Duration
	retry    time.Duration
	newToken func() string

	mu     sync.Mutex
	tokens map[string]string
}

// NewRedis returns a locker whose leases expire after ttl.
func NewRedis(client redis.Cmdable, ttl time.Duration) *RedisLocker {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisLocker{
		client:   client,
		ttl:      ttl,
		retry:    defaultRetry,
		newToken: uuid.NewString,
		tokens:   map[string]string{},
	}
}

// Lock polls SET NX until it wins the key or ctx is done.
func (r *RedisLocker) Lock(ctx context.Context, key string) error {
	token := r.newToken()
	for {
		ok, err := r.client.SetNX(ctx, keyPrefix+key, token, r.ttl).Result()
		if err != nil {
			return fmt.Errorf("lock %s: %w", key, err)
		}
		if ok {
			r.mu.Lock()
			r.tokens[key] = token
			r.mu.Unlock()
			return nil
		}

		select {
		case <-time.After(r.retry):
		case <-ctx.Done():
			return fmt.Errorf("lock %s: %w", key, ctx.Err())
		}
	}
}

// Unlock releases key if this locker still holds it.
func (r *RedisLocker) Unlock(ctx context.Context, key string) error {
	r.mu.Lock()
	token, ok := r.tokens[key]
	delete(r.tokens, key)
	r.mu.Unlock()
	if !ok {
		return ErrNotLocked
	}

	n, err := r.client.Eval(ctx, unlockScript, []string{keyPrefix + key}, token).Int64()
	if err != nil {
		return fmt.Errorf("unlock %s: %w", key, err)
	}
	if n == 0 {
		// The lease expired and someone else may hold the key now.
		return fmt.Errorf("unlock %s: %w", key, ErrNotLocked)
	}
	return nil
}
