package services

import (
	"context"
	"fmt"
	"time"

	"github.com/listing-locator/app/models"
	"go.uber.org/zap"
)

// HybridCacheService process-local L1 in front of a shared L2
type HybridCacheService struct {
	l1     ICacheService
	l2     ICacheService
	logger *zap.Logger
}

// NewHybridCacheService tiers l1 over l2, typically LRU over Redis
func NewHybridCacheService(l1, l2 ICacheService, logger *zap.Logger) *HybridCacheService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HybridCacheService{l1: l1, l2: l2, logger: logger}
}

// Get tries L1 then L2 and back-fills L1 on an L2 hit
func (hcs *HybridCacheService) Get(ctx context.Context, key string) ([]models.Listing, bool, error) {
	listings, found, err := hcs.l1.Get(ctx, key)
	if err != nil {
		hcs.logger.Warn("l1 cache error, falling back to l2", zap.Error(err))
	} else if found {
		return listings, true, nil
	}

	listings, found, err = hcs.l2.Get(ctx, key)
	if err != nil || !found {
		return nil, false, err
	}

	if err := hcs.l1.Set(ctx, key, listings); err != nil {
		hcs.logger.Warn("l1 back-fill failed", zap.String("key", key), zap.Error(err))
	}
	return listings, true, nil
}

// Set writes both tiers concurrently
func (hcs *HybridCacheService) Set(ctx context.Context, key string, listings []models.Listing) error {
	return hcs.both("set", func(c ICacheService) error { return c.Set(ctx, key, listings) })
}

func (hcs *HybridCacheService) Delete(ctx context.Context, key string) error {
	return hcs.both("delete", func(c ICacheService) error { return c.Delete(ctx, key) })
}

func (hcs *HybridCacheService) Clear(ctx context.Context) error {
	if err := hcs.both("clear", func(c ICacheService) error { return c.Clear(ctx) }); err != nil {
		return err
	}
	hcs.logger.Info("hybrid candidate cache cleared")
	return nil
}

func (hcs *HybridCacheService) both(op string, fn func(c ICacheService) error) error {
	errCh := make(chan error, 2)
	go func() { errCh <- fn(hcs.l1) }()
	go func() { errCh <- fn(hcs.l2) }()

	var errs []error
	for i := 0; i < 2; i++ {
		if err := <-errCh; err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("cache %s errors: %v", op, errs)
	}
	return nil
}

// GetStats merges hit counters. Items are counted at L2, which holds the superset.
func (hcs *HybridCacheService) GetStats(ctx context.Context) (*CacheStats, error) {
	l1, err1 := hcs.l1.GetStats(ctx)
	l2, err2 := hcs.l2.GetStats(ctx)
	if err1 != nil && err2 != nil {
		return nil, fmt.Errorf("both cache tiers failed: %v, %v", err1, err2)
	}
	if err1 != nil {
		return l2, nil
	}
	if err2 != nil {
		return l1, nil
	}

	hits := l1.TotalHits + l2.TotalHits
	misses := l2.TotalMiss
	return &CacheStats{
		Backend:    "hybrid",
		HitRate:    hitRate(hits, misses),
		TotalHits:  hits,
		TotalMiss:  misses,
		TotalItems: l2.TotalItems,
	}, nil
}

func (hcs *HybridCacheService) Exists(ctx context.Context, key string) (bool, error) {
	exists, err := hcs.l1.Exists(ctx, key)
	if err == nil && exists {
		return true, nil
	}
	return hcs.l2.Exists(ctx, key)
}

func (hcs *HybridCacheService) GetTTL(ctx context.Context, key string) (time.Duration, error) {
	return hcs.l2.GetTTL(ctx, key)
}

func (hcs *HybridCacheService) Close() error {
	return hcs.both("close", func(c ICacheService) error { return c.Close() })
}
