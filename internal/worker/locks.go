package worker

import (
	"time"

	infraRedis "github.com/payhub-io/payhub/internal/infrastructure/redis"
	"github.com/redis/go-redis/v9"
)

type redisLockFactory struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisLockFactory returns a LockFactory backed by redis SetNX locks.
func NewRedisLockFactory(client *redis.Client, ttl time.Duration) LockFactory {
	return &redisLockFactory{client: client, ttl: ttl}
}

func (f *redisLockFactory) NewLock(key string) Lock {
	return infraRedis.NewDistributedLock(f.client, key, f.ttl)
}
