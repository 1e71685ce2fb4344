package utils

import (
	"context"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/justyn/meow/config"
)

const redisOpTimeout = 2 * time.Second

var (
	redisClient *redis.Client
	redisOnce   sync.Once
)

// GetRedis returns a singleton Redis client based on loaded config. The
// client is created even when Redis is unreachable; callers fall back to
// their in-memory paths on operation errors.
func GetRedis() *redis.Client {
	redisOnce.Do(func() {
		cfg := config.Get()
		redisClient = redis.NewClient(&redis.Options{
			Addr:         net.JoinHostPort(cfg.RedisHost, strconv.Itoa(cfg.RedisPort)),
			Password:     cfg.RedisPassword,
			DB:           cfg.RedisDB,
			DialTimeout:  3 * time.Second,
			ReadTimeout:  redisOpTimeout,
			WriteTimeout: redisOpTimeout,
		})
		ctx, cancel := redisCtx()
		defer cancel()
		if err := redisClient.Ping(ctx).Err(); err != nil && Sugar != nil {
			Sugar.Warnf("redis unavailable, memory fallbacks active: %v", err)
		}
	})
	return redisClient
}

// redisCtx returns a context bounded by the standard per-operation timeout.
func redisCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), redisOpTimeout)
}
