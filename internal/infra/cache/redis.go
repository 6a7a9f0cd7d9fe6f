package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

//go:generate mockgen -source=redis.go -destination=../../../test/unit/doubles/infra/cache/redis_client_mock.go -package=cache -mock_names=Client=MockClient

// Client is the part of the redis client the cache uses.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Ping(ctx context.Context) *redis.StatusCmd
}

type RedisConfig struct {
	Addr        string
	Password    string
	DB          int
	DialTimeout time.Duration
	// Prefix namespaces every key so several services can share one database.
	Prefix string
}

type RedisCache struct {
	client Client
	prefix string
}

func NewRedisCache(ctx context.Context, config RedisConfig) (*RedisCache, error) {
	if config.DialTimeout == 0 {
		config.DialTimeout = 5 * time.Second
	}
	client := redis.NewClient(&redis.Options{
		Addr:        config.Addr,
		Password:    config.Password,
		DB:          config.DB,
		DialTimeout: config.DialTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, config.DialTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to redis at %s: %w", config.Addr, err)
	}

	slog.Info("redis cache initialized", slog.String("addr", config.Addr), slog.Int("db", config.DB))
	return NewRedisCacheWithClient(client, config.Prefix), nil
}

func NewRedisCacheWithClient(client Client, prefix string) *RedisCache {
	return &RedisCache{client: client, prefix: prefix}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		slog.Error("reading from redis cache", slog.String("key", key), slog.Any("error", err))
		return nil, false
	}
	return data, true
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) bool {
	if err := c.client.Set(ctx, c.prefix+key, value, ttl).Err(); err != nil {
		slog.Error("writing to redis cache", slog.String("key", key), slog.Any("error", err))
		return false
	}
	return true
}

func (c *RedisCache) Delete(ctx context.Context, key string) {
	if err := c.client.Del(ctx, c.prefix+key).Err(); err != nil {
		slog.Error("deleting from redis cache", slog.String("key", key), slog.Any("error", err))
	}
}
