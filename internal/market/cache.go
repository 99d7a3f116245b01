package market

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/redis/go-redis/v9/logging"
)

func init() {
	// The TUI owns the terminal, so silence go-redis logging globally.
	redis.SetLogger(&logging.VoidLogger{})
}

const defaultCacheTTL = time.Hour

// PageCache is a Redis-backed cache for history candle pages. Only pages
// bounded by a Before time are cached: closed buckets never change, so a
// page stays valid until it expires. Every operation is best effort, and a
// cache that is down degrades to a miss.
type PageCache struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewPageCache creates a page cache backed by the Redis instance at redisURL.
// Hooks are attached to the connection for request tracking.
func NewPageCache(redisURL string, hooks ...redis.Hook) (*PageCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse cache url: %w", err)
	}

	// Fail fast instead of stalling the UI on a slow cache.
	opts.MaxRetries = -1
	opts.DialTimeout = 2 * time.Second
	opts.ReadTimeout = 2 * time.Second
	opts.WriteTimeout = 2 * time.Second
	opts.PoolSize = 1

	rdb := redis.NewClient(opts)
	for _, h := range hooks {
		rdb.AddHook(h)
	}

	return &PageCache{
		redis: rdb,
		ttl:   defaultCacheTTL,
	}, nil
}

// SetTTL overrides the default page expiry.
func (pc *PageCache) SetTTL(ttl time.Duration) {
	if ttl > 0 {
		pc.ttl = ttl
	}
}

// Close closes the Redis connection.
func (pc *PageCache) Close() error {
	return pc.redis.Close()
}

// Get returns the cached page for req, if present.
func (pc *PageCache) Get(ctx context.Context, req CandleRequest) ([]Candle, bool) {
	if pc == nil {
		return nil, false
	}
	raw, err := pc.redis.Get(ctx, pageKey(req)).Bytes()
	if err != nil {
		return nil, false
	}
	var page []Candle
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, false
	}
	if len(page) == 0 {
		return nil, false
	}
	return page, true
}

// Do executes an arbitrary Redis command against the cache connection.
// Used by the request console to inspect cached pages.
func (pc *PageCache) Do(ctx context.Context, args ...any) (any, error) {
	if pc == nil {
		return nil, fmt.Errorf("cache is not configured")
	}
	return pc.redis.Do(ctx, args...).Result()
}

// Put stores a page under its request key. A failed write is ignored, the
// next scroll simply refetches.
func (pc *PageCache) Put(ctx context.Context, req CandleRequest, page []Candle) {
	if pc == nil || len(page) == 0 {
		return
	}
	raw, err := json.Marshal(page)
	if err != nil {
		return
	}
	pc.redis.Set(ctx, pageKey(req), raw, pc.ttl)
}

func pageKey(req CandleRequest) string {
	return fmt.Sprintf("lazychart:candles:%s:%d:%d:%d",
		req.Instrument, req.Granularity.Seconds(), req.Before, req.Count)
}
