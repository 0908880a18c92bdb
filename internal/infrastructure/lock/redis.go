package lock

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// releaseScript deletes the lock only when the stored token matches, so a
// holder whose lock already expired cannot release someone else's lock.
const releaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`

// RedisLock implements CheckoutLock on Redis using SET NX PX, which makes
// the lock effective across every API instance sharing the same Redis.
type RedisLock struct {
	client *redis.Client
	prefix string
}

// NewRedisLock creates a Redis-backed checkout lock
func NewRedisLock(client *redis.Client) *RedisLock {
	return &RedisLock{client: client, prefix: "checkout:lock:"}
}

func (l *RedisLock) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	token := uuid.New().String()
	fullKey := l.prefix + key

	ok, err := l.client.SetNX(ctx, fullKey, token, ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrAlreadyLocked
	}

	release := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		l.client.Eval(ctx, releaseScript, []string{fullKey}, token)
	}
	return release, nil
}
