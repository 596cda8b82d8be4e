package ratelimit

import (
	"context"
	"time"

	redis "github.com/redis/go-redis/v9"
	limiter "github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	limiterredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

// StoreLimiter is a fixed-window Allower on top of a ulule limiter store.
// It runs against process memory when Redis is not configured.
type StoreLimiter struct {
	Store limiter.Store
}

// NewStoreLimiter picks the Redis store when client is set and the in-memory
// store otherwise.
func NewStoreLimiter(client *redis.Client, prefix string) (StoreLimiter, error) {
	opts := limiter.StoreOptions{Prefix: prefix, CleanUpInterval: time.Minute}
	if client == nil {
		return StoreLimiter{Store: memory.NewStoreWithOptions(opts)}, nil
	}
	store, err := limiterredis.NewStoreWithOptions(client, opts)
	if err != nil {
		return StoreLimiter{}, err
	}
	return StoreLimiter{Store: store}, nil
}

// Allow consumes one token for key.
func (l StoreLimiter) Allow(ctx context.Context, key string, window time.Duration, max int) (bool, int, time.Time, error) {
	if l.Store == nil || max <= 0 || window <= 0 {
		return true, max, time.Now().Add(window), nil
	}
	res, err := l.Store.Get(ctx, key, limiter.Rate{Period: window, Limit: int64(max)})
	if err != nil {
		return false, 0, time.Now().Add(window), err
	}
	return !res.Reached, int(res.Remaining), time.Unix(res.Reset, 0), nil
}
