package lock

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"identify/internal/contact/service"
	"identify/pkg/platform/sentinel"
)

const (
	// Redis key prefix for identifier locks
	redisKeyPrefix = "identify:lock:"

	minBackoff = 10 * time.Millisecond
	maxBackoff = 250 * time.Millisecond

	releaseTimeout = 2 * time.Second
)

// releaseScript deletes the key only if this owner still holds it.
var releaseScript = redis.NewScript(`
	if redis.call("get", KEYS[1]) == ARGV[1] then
		return redis.call("del", KEYS[1])
	else
		return 0
	end
`)

// Redis is a distributed identifier locker for deployments running several
// instances. Keys expire after ttl so a crashed holder cannot wedge an
// identifier forever.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	wait   time.Duration
	logger *slog.Logger
}

// RedisOption configures a Redis locker.
type RedisOption func(*Redis)

// WithRedisLogger sets the logger used to report failed releases.
func WithRedisLogger(logger *slog.Logger) RedisOption {
	return func(r *Redis) {
		r.logger = logger
	}
}

// NewRedis constructs a Redis-backed locker.
func NewRedis(client *redis.Client, ttl, wait time.Duration, opts ...RedisOption) *Redis {
	if wait <= 0 {
		wait = defaultWait
	}
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	r := &Redis{client: client, ttl: ttl, wait: wait}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Acquire takes every key with SET NX, retrying with capped exponential
// backoff until the wait budget runs out. Keys are taken in sorted order.
func (r *Redis) Acquire(ctx context.Context, keys []string) (service.ReleaseFunc, error) {
	sorted := slices.Clone(keys)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	owner := uuid.NewString()
	deadline := time.Now().Add(r.wait)
	held := make([]string, 0, len(sorted))

	release := func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
		defer cancel()
		for i := len(held) - 1; i >= 0; i-- {
			if err := r.release(ctx, held[i], owner); err != nil && r.logger != nil {
				r.logger.WarnContext(ctx, "failed to release identifier lock",
					"key", held[i],
					"error", err,
				)
			}
		}
	}

	for _, key := range sorted {
		if err := r.acquireOne(ctx, redisKeyPrefix+key, owner, deadline); err != nil {
			release()
			return nil, err
		}
		held = append(held, redisKeyPrefix+key)
	}
	return release, nil
}

func (r *Redis) acquireOne(ctx context.Context, key, owner string, deadline time.Time) error {
	backoff := minBackoff
	for {
		ok, err := r.client.SetNX(ctx, key, owner, r.ttl).Result()
		if err != nil {
			return fmt.Errorf("acquire lock %s: %w", key, err)
		}
		if ok {
			return nil
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return fmt.Errorf("lock %s: %w", key, sentinel.ErrUnavailable)
		}
		wait := min(backoff, remaining)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
			backoff = min(backoff*2, maxBackoff)
		}
	}
}

func (r *Redis) release(ctx context.Context, key, owner string) error {
	result, err := releaseScript.Run(ctx, r.client, []string{key}, owner).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	if result == 0 {
		return sentinel.ErrLockNotHeld
	}
	return nil
}
