// internal/common/database/redis.go
package database

import (
	"context"
	"fmt"
	"time"

	"nagarik-sewa/internal/common/config"

	"github.com/redis/go-redis/v9"
)

// RedisClient holds the connection pool backing the stats cache.
type RedisClient struct {
	Client *redis.Client
}

// NewRedis builds a lazily connecting pool; pool sizes come from config.
func NewRedis(cfg config.RedisConfig) *RedisClient {
	return &RedisClient{Client: redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
	})}
}

func (c *RedisClient) Ping(ctx context.Context) error {
	if err := c.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping %s: %w", c.Client.Options().Addr, err)
	}
	return nil
}

func (c *RedisClient) Close() error {
	if c.Client == nil {
		return nil
	}
	return c.Client.Close()
}
