package analysis

import (
	"context"
	"crypto/sha256"
	"fmt"
	"strings"
	"time"

	"sentimental/internal/adapters/redis"
	"sentimental/pkg/errors"
)

const cacheKeyPrefix = "sentiment:report:"

// ReportCache stores finished reports by request. Get returns (nil, nil) on a miss.
type ReportCache interface {
	Get(ctx context.Context, req Request) (*Report, error)
	Set(ctx context.Context, req Request, report *Report) error
}

// KV is the subset of the Redis client the cache needs
type KV interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// RedisCache keeps reports in Redis for a fixed TTL
type RedisCache struct {
	kv  KV
	ttl time.Duration
}

// NewRedisCache creates a cache over kv, typically a *redis.Client
func NewRedisCache(kv KV, ttl time.Duration) *RedisCache {
	return &RedisCache{kv: kv, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, req Request) (*Report, error) {
	var report Report
	if err := c.kv.Get(ctx, CacheKey(req), &report); err != nil {
		if errors.Is(err, redis.ErrMiss) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to get from cache")
	}
	return &report, nil
}

func (c *RedisCache) Set(ctx context.Context, req Request, report *Report) error {
	if err := c.kv.Set(ctx, CacheKey(req), report, c.ttl); err != nil {
		return errors.Wrap(err, "failed to set cache")
	}
	return nil
}

// CacheKey derives a fixed-length key from the fields that change a report.
// Queries differing only in case or surrounding space share a key.
func CacheKey(req Request) string {
	keyData := fmt.Sprintf("%s|%d|%d|%d|%t|%d|%t",
		strings.ToLower(strings.TrimSpace(req.Query)),
		req.PerSourceLimit, req.MaxItems, req.MinItems,
		req.UseRealData, req.MaxBuckets, req.DenseTimeline,
	)
	hash := sha256.Sum256([]byte(keyData))
	return fmt.Sprintf("%s%x", cacheKeyPrefix, hash[:8])
}
