package cache

import (
	"context"
	"time"

	"wellness-planner/core/constants"
	"wellness-planner/core/logger"

	"github.com/redis/go-redis/v9"
)

// Cache is the Redis-backed cache used for token blacklisting, login
// attempt blocking and short-lived aggregate caching.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	Expire(ctx context.Context, key string, ttl time.Duration) error

	AddToTokenBlacklist(ctx context.Context, token string) error
	IsTokenBlacklisted(ctx context.Context, token string) (bool, error)

	IncrementLoginAttempt(ctx context.Context, key string) error
	IsLoginBlocked(ctx context.Context, key string) (bool, error)
}

type redisCache struct {
	client *redis.Client
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func InitCache(cfg RedisConfig) (Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), constants.DefaultTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Cache:Init:Ping:Error:", err)
		return nil, err
	}

	logger.Info("Cache initialized successfully", "addr", cfg.Addr, "db", cfg.DB)
	return &redisCache{client: client}, nil
}

func (c *redisCache) Get(ctx context.Context, key string) (string, error) {
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	return val, err
}

func (c *redisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

func (c *redisCache) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *redisCache) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return c.client.Expire(ctx, key, ttl).Err()
}

func (c *redisCache) AddToTokenBlacklist(ctx context.Context, token string) error {
	return c.client.Set(ctx, constants.RedisKeyTokenBlacklist+token, "1", constants.TokenBlacklistTTL).Err()
}

func (c *redisCache) IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	n, err := c.client.Exists(ctx, constants.RedisKeyTokenBlacklist+token).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (c *redisCache) IncrementLoginAttempt(ctx context.Context, key string) error {
	count, err := c.client.Incr(ctx, key).Result()
	if err != nil {
		return err
	}
	if count == 1 {
		return c.client.Expire(ctx, key, constants.BlockDuration).Err()
	}
	return nil
}

func (c *redisCache) IsLoginBlocked(ctx context.Context, key string) (bool, error) {
	val, err := c.client.Get(ctx, key).Int()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return val >= constants.MaxLoginAttempts, nil
}
