package market

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

// setupTestCache starts a miniredis instance and creates a page cache backed
// by it. Cleanup is handled automatically via t.Cleanup().
func setupTestCache(t *testing.T) (*miniredis.Miniredis, *PageCache) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}

	cache, err := NewPageCache("redis://" + mr.Addr())
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}

	t.Cleanup(func() {
		_ = cache.Close()
		mr.Close()
	})

	return mr, cache
}

func TestPageCacheRoundTrip(t *testing.T) {
	t.Parallel()

	_, cache := setupTestCache(t)
	ctx := context.Background()

	req := CandleRequest{Instrument: "EUR_USD", Granularity: Granularity1h, Count: 3, Before: 1000}
	page := candles(700, 800, 900)

	if _, ok := cache.Get(ctx, req); ok {
		t.Fatal("Get reported a hit on an empty cache")
	}

	cache.Put(ctx, req, page)

	got, ok := cache.Get(ctx, req)
	if !ok {
		t.Fatal("Get missed a freshly stored page")
	}
	if len(got) != len(page) {
		t.Fatalf("Get returned %d candles, want %d", len(got), len(page))
	}
	for i := range page {
		if got[i] != page[i] {
			t.Fatalf("candle %d = %+v, want %+v", i, got[i], page[i])
		}
	}
}

func TestPageCacheKeyIncludesRequestShape(t *testing.T) {
	t.Parallel()

	_, cache := setupTestCache(t)
	ctx := context.Background()

	req := CandleRequest{Instrument: "EUR_USD", Granularity: Granularity1h, Count: 3, Before: 1000}
	cache.Put(ctx, req, candles(700, 800, 900))

	variants := []CandleRequest{
		{Instrument: "USD_JPY", Granularity: Granularity1h, Count: 3, Before: 1000},
		{Instrument: "EUR_USD", Granularity: Granularity4h, Count: 3, Before: 1000},
		{Instrument: "EUR_USD", Granularity: Granularity1h, Count: 5, Before: 1000},
		{Instrument: "EUR_USD", Granularity: Granularity1h, Count: 3, Before: 2000},
	}
	for _, v := range variants {
		if _, ok := cache.Get(ctx, v); ok {
			t.Fatalf("Get(%+v) hit a page stored under a different request", v)
		}
	}
}

func TestPageCacheExpiry(t *testing.T) {
	t.Parallel()

	mr, cache := setupTestCache(t)
	cache.SetTTL(time.Minute)
	ctx := context.Background()

	req := CandleRequest{Instrument: "EUR_USD", Granularity: Granularity1h, Count: 1, Before: 1000}
	cache.Put(ctx, req, candles(900))

	if ttl := mr.TTL(pageKey(req)); ttl != time.Minute {
		t.Fatalf("stored page TTL = %v, want 1m", ttl)
	}

	mr.FastForward(2 * time.Minute)
	if _, ok := cache.Get(ctx, req); ok {
		t.Fatal("Get hit an expired page")
	}
}

func TestPageCacheCorruptEntryIsMiss(t *testing.T) {
	t.Parallel()

	mr, cache := setupTestCache(t)
	ctx := context.Background()

	req := CandleRequest{Instrument: "EUR_USD", Granularity: Granularity1h, Count: 1, Before: 1000}
	if err := mr.Set(pageKey(req), "{not json"); err != nil {
		t.Fatalf("failed to seed corrupt entry: %v", err)
	}

	if _, ok := cache.Get(ctx, req); ok {
		t.Fatal("Get returned a corrupt page as a hit")
	}
}

func TestPageCacheIgnoresEmptyPages(t *testing.T) {
	t.Parallel()

	mr, cache := setupTestCache(t)
	ctx := context.Background()

	req := CandleRequest{Instrument: "EUR_USD", Granularity: Granularity1h, Count: 1, Before: 1000}
	cache.Put(ctx, req, nil)

	if mr.Exists(pageKey(req)) {
		t.Fatal("Put stored an empty page")
	}
}

func TestPageCacheNilReceiver(t *testing.T) {
	t.Parallel()

	var cache *PageCache
	ctx := context.Background()
	req := CandleRequest{Instrument: "EUR_USD", Granularity: Granularity1h, Before: 1000}

	if _, ok := cache.Get(ctx, req); ok {
		t.Fatal("nil cache reported a hit")
	}
	cache.Put(ctx, req, candles(900)) // must not panic
}
