package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/projecthub/projecthub/internal/constants"
	"github.com/projecthub/projecthub/pkg/logger"
	"github.com/projecthub/projecthub/pkg/redis"
)

// CacheService fronts redis for list responses. Every failure degrades to a
// cache miss so the database stays the source of truth.
type CacheService struct {
	redisClient redis.Client
	ttl         time.Duration
}

func NewCacheService(redisClient redis.Client) *CacheService {
	return &CacheService{
		redisClient: redisClient,
		ttl:         30 * time.Second,
	}
}

// ListKey builds a cache key for a paginated listing
func (s *CacheService) ListKey(prefix string, limit, offset int, search string) string {
	return fmt.Sprintf("%slist:%d:%d:%s", prefix, limit, offset, search)
}

// GetJSON loads and unmarshals a cached value into out, reporting a hit
func (s *CacheService) GetJSON(ctx context.Context, key string, out interface{}) bool {
	val, found, err := s.redisClient.Get(ctx, key)
	if err != nil {
		logger.DebugWithContext(ctx, "Cache lookup failed").
			String("key", key).
			Err(err).
			Log()
		return false
	}
	if !found {
		return false
	}

	if err := json.Unmarshal([]byte(val), out); err != nil {
		logger.WarnWithContext(ctx, "Dropping undecodable cache entry").
			String("key", key).
			Err(err).
			Log()
		_ = s.redisClient.Del(ctx, key)
		return false
	}

	return true
}

// SetJSON marshals and stores a value under key with the default TTL
func (s *CacheService) SetJSON(ctx context.Context, key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		logger.WarnWithContext(ctx, "Failed to marshal cache value").
			String("key", key).
			Err(err).
			Log()
		return
	}

	if err := s.redisClient.Set(ctx, key, string(data), s.ttl); err != nil {
		logger.DebugWithContext(ctx, "Cache write failed").
			String("key", key).
			Err(err).
			Log()
	}
}

// InvalidatePrefix removes every cached entry under a key prefix
func (s *CacheService) InvalidatePrefix(ctx context.Context, prefix string) (int64, error) {
	deleted, err := s.redisClient.DelPattern(ctx, prefix+"*")
	if err != nil {
		logger.WarnWithContext(ctx, "Cache invalidation failed").
			String("prefix", prefix).
			Err(err).
			Log()
		return deleted, err
	}

	logger.DebugWithContext(ctx, "Cache invalidated").
		String("prefix", prefix).
		Int64("deleted", deleted).
		Log()

	return deleted, nil
}

// Clear removes every entry the service owns
func (s *CacheService) Clear(ctx context.Context) (int64, error) {
	return s.InvalidatePrefix(ctx, constants.CacheKeyPrefix)
}

// Ping reports cache backend health
func (s *CacheService) Ping(ctx context.Context) error {
	return s.redisClient.Ping(ctx)
}

// Enabled reports whether a real cache backend is configured
func (s *CacheService) Enabled() bool {
	return s.redisClient.IsEnabled()
}
