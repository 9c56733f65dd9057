package redisinfra

import (
	"context"
	"fmt"
	"time"

	"github.com/go-orders-api/internal/config"
	"github.com/redis/go-redis/v9"
)

// NewClient builds the shared, long-lived Redis client. The pool is created
// once at startup and reused for every request; individual operations borrow
// a connection and return it on every exit path.
func NewClient(cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,

		PoolSize:        100,
		MinIdleConns:    10,
		PoolTimeout:     4 * time.Second,
		ConnMaxIdleTime: 5 * time.Minute,
		ConnMaxLifetime: 30 * time.Minute,

		MaxRetries:      3,
		MinRetryBackoff: 8 * time.Millisecond,
		MaxRetryBackoff: 512 * time.Millisecond,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}
