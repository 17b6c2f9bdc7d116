package lock

import (
	"context"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"

	"github.com/jortega/bancore/internal/domain"
	"github.com/jortega/bancore/internal/usecase"
)

const (
	redisLockPrefix = "lock:account:"

	// lease TTL guards against a crashed holder keeping the account locked
	// forever; it must comfortably exceed one transaction unit.
	redisLockTTL = 30 * time.Second

	redisRetryInterval = 20 * time.Millisecond
)

// releaseScript deletes the lock only if it still carries our token, so a
// lease that expired and was re-acquired by someone else is never released
// by the previous holder.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// RedisCoordinator implements usecase.LockCoordinator on a shared Redis,
// serializing account mutations across processes. Acquisition order is the
// same canonical ascending order as the in-process coordinator.
type RedisCoordinator struct {
	client *redis.Client
	wait   time.Duration
}

// NewRedisCoordinator creates a new RedisCoordinator. wait bounds the total
// time one Acquire call may block.
func NewRedisCoordinator(client *redis.Client, wait time.Duration) *RedisCoordinator {
	if wait <= 0 {
		wait = usecase.DefaultLockWait
	}

	return &RedisCoordinator{
		client: client,
		wait:   wait,
	}
}

// Acquire grants exclusive access to every account in accountIDs.
func (c *RedisCoordinator) Acquire(ctx context.Context, accountIDs ...string) (usecase.ReleaseFunc, error) {
	ids := dedupeSorted(accountIDs)
	token := ulid.Make().String()

	deadline := time.Now().Add(c.wait)
	held := make([]string, 0, len(ids))

	releaseHeld := func() {
		for i := len(held) - 1; i >= 0; i-- {
			// Release must not depend on the caller's context still being
			// alive.
			releaseScript.Run(context.Background(), c.client, []string{held[i]}, token)
		}
	}

	for _, id := range ids {
		key := redisLockPrefix + id

		if err := c.acquireOne(ctx, key, token, deadline); err != nil {
			releaseHeld()
			return nil, err
		}

		held = append(held, key)
	}

	var once sync.Once

	return func() {
		once.Do(releaseHeld)
	}, nil
}

func (c *RedisCoordinator) acquireOne(ctx context.Context, key, token string, deadline time.Time) error {
	b := backoff.NewConstantBackOff(redisRetryInterval)

	return backoff.Retry(func() error {
		ok, err := c.client.SetNX(ctx, key, token, redisLockTTL).Result()
		if err != nil {
			return backoff.Permanent(domain.ErrStorageUnavailable)
		}

		if ok {
			return nil
		}

		if time.Now().After(deadline) {
			return backoff.Permanent(domain.ErrLockTimeout)
		}

		return domain.ErrLockTimeout
	}, backoff.WithContext(b, ctx))
}
