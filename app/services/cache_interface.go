package services

import (
	"context"
	"time"

	"github.com/listing-locator/app/models"
	"github.com/listing-locator/internal/normalizer"
)

// CacheStats reports cache effectiveness
type CacheStats struct {
	Backend    string  `json:"backend"`
	HitRate    float64 `json:"hit_rate"`
	TotalHits  int64   `json:"total_hits"`
	TotalMiss  int64   `json:"total_miss"`
	TotalItems int64   `json:"total_items"`
}

// ICacheService caches store candidate sets keyed by normalized region.
// Match results are computed per request and never stored.
type ICacheService interface {
	Get(ctx context.Context, key string) ([]models.Listing, bool, error)
	Set(ctx context.Context, key string, listings []models.Listing) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	GetStats(ctx context.Context) (*CacheStats, error)
	Exists(ctx context.Context, key string) (bool, error)
	GetTTL(ctx context.Context, key string) (time.Duration, error)
	Close() error
}

// CandidateKey is the cache key for a region's candidate set
func CandidateKey(region string) string {
	return "region:" + normalizer.Normalize(region)
}

func hitRate(hits, misses int64) float64 {
	if hits+misses == 0 {
		return 0
	}
	return float64(hits) / float64(hits+misses)
}
