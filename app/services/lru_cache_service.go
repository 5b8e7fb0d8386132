package services

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/listing-locator/app/models"
)

// LRUCacheService in-memory candidate cache with size bound and TTL
type LRUCacheService struct {
	cache  *expirable.LRU[string, []models.Listing]
	ttl    time.Duration
	added  sync.Map // key -> insertion time
	hits   atomic.Int64
	misses atomic.Int64
}

// NewLRUCacheService creates a cache holding at most size regions
func NewLRUCacheService(size int, ttl time.Duration) *LRUCacheService {
	if size <= 0 {
		size = 1000
	}
	c := &LRUCacheService{ttl: ttl}
	c.cache = expirable.NewLRU[string, []models.Listing](size, func(key string, _ []models.Listing) {
		c.added.Delete(key)
	}, ttl)
	return c
}

// Get returns the cached candidate set for key
func (c *LRUCacheService) Get(ctx context.Context, key string) ([]models.Listing, bool, error) {
	listings, ok := c.cache.Get(key)
	if !ok {
		c.misses.Add(1)
		return nil, false, nil
	}
	c.hits.Add(1)
	return listings, true, nil
}

// Set stores a candidate set
func (c *LRUCacheService) Set(ctx context.Context, key string, listings []models.Listing) error {
	c.cache.Add(key, listings)
	c.added.Store(key, time.Now())
	return nil
}

func (c *LRUCacheService) Delete(ctx context.Context, key string) error {
	c.cache.Remove(key)
	return nil
}

func (c *LRUCacheService) Clear(ctx context.Context) error {
	c.cache.Purge()
	return nil
}

func (c *LRUCacheService) GetStats(ctx context.Context) (*CacheStats, error) {
	hits, misses := c.hits.Load(), c.misses.Load()
	return &CacheStats{
		Backend:    "memory",
		HitRate:    hitRate(hits, misses),
		TotalHits:  hits,
		TotalMiss:  misses,
		TotalItems: int64(c.cache.Len()),
	}, nil
}

func (c *LRUCacheService) Exists(ctx context.Context, key string) (bool, error) {
	return c.cache.Contains(key), nil
}

// GetTTL returns the remaining lifetime of key, zero when absent
func (c *LRUCacheService) GetTTL(ctx context.Context, key string) (time.Duration, error) {
	if !c.cache.Contains(key) {
		return 0, nil
	}
	v, ok := c.added.Load(key)
	if !ok || c.ttl <= 0 {
		return c.ttl, nil
	}
	left := c.ttl - time.Since(v.(time.Time))
	if left < 0 {
		left = 0
	}
	return left, nil
}

func (c *LRUCacheService) Close() error { return nil }
