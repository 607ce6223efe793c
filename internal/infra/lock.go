package infra

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrLockHeld is returned by Acquire when another holder owns the key.
var ErrLockHeld = errors.New("lock ocupado")

// releaseScript deletes the key only when it still holds our token, so a
// holder whose TTL expired never releases someone else's lock.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0`)

// RedisLocker is a single-flight guard keyed by site: SET NX PX with a random
// token, released through a compare-and-delete script.
type RedisLocker struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisLocker(rdb *redis.Client, ttl time.Duration) *RedisLocker {
	if ttl <= 0 {
		ttl = 15 * time.Second
	}
	return &RedisLocker{rdb: rdb, prefix: "caja:lock:", ttl: ttl}
}

// Acquire takes the lock for key and returns the function that releases it.
func (l *RedisLocker) Acquire(ctx context.Context, key string) (func(), error) {
	token := uuid.NewString()
	ok, err := l.rdb.SetNX(ctx, l.prefix+key, token, l.ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrLockHeld
	}
	return func() {
		// Released with a fresh context: the request context may already be done.
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = releaseScript.Run(ctx, l.rdb, []string{l.prefix + key}, token).Err()
	}, nil
}
