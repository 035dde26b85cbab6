package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Config holds redis connection settings
type Config struct {
	Host         string
	Port         int
	Password     string
	DB           int
	Enabled      bool
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolTimeout  time.Duration
}

// Client abstracts the cache backend so callers degrade gracefully when
// redis is disabled or unreachable.
type Client interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	DelPattern(ctx context.Context, pattern string) (int64, error)
	Ping(ctx context.Context) error
	IsEnabled() bool
	Close() error
}

type redisClient struct {
	rdb    *redis.Client
	logger *zap.Logger
}

// NewClient creates a redis-backed Client, or a no-op client when disabled.
// Connection failures at startup do not fail the service; the client reports
// unhealthy through Ping and callers treat every lookup as a miss.
func NewClient(cfg Config, logger *zap.Logger) Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	if !cfg.Enabled {
		logger.Info("Redis disabled, using no-op cache client")
		return &noopClient{}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         addr(cfg),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		PoolTimeout:  cfg.PoolTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis unreachable at startup, cache lookups will miss",
			zap.String("address", addr(cfg)),
			zap.Error(err),
		)
	} else {
		logger.Info("Connected to Redis",
			zap.String("address", addr(cfg)),
			zap.Int("database", cfg.DB),
		)
	}

	return &redisClient{rdb: rdb, logger: logger}
}

func addr(cfg Config) string {
	return fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
}

func (c *redisClient) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := c.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (c *redisClient) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return c.rdb.Set(ctx, key, value, ttl).Err()
}

func (c *redisClient) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

// DelPattern removes all keys matching pattern using SCAN to avoid blocking
// the server the way KEYS would.
func (c *redisClient) DelPattern(ctx context.Context, pattern string) (int64, error) {
	var deleted int64

	iter := c.rdb.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return deleted, err
		}
		deleted++
	}
	if err := iter.Err(); err != nil {
		return deleted, err
	}

	return deleted, nil
}

func (c *redisClient) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *redisClient) IsEnabled() bool {
	return true
}

func (c *redisClient) Close() error {
	return c.rdb.Close()
}

// noopClient satisfies Client when caching is disabled
type noopClient struct{}

func (n *noopClient) Get(ctx context.Context, key string) (string, bool, error) {
	return "", false, nil
}

func (n *noopClient) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return nil
}

func (n *noopClient) Del(ctx context.Context, keys ...string) error { return nil }

func (n *noopClient) DelPattern(ctx context.Context, pattern string) (int64, error) {
	return 0, nil
}

func (n *noopClient) Ping(ctx context.Context) error { return nil }

func (n *noopClient) IsEnabled() bool { return false }

func (n *noopClient) Close() error { return nil }
