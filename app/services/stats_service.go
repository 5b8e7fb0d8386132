package services

import (
	"context"
	"runtime"
	"time"

	"github.com/listing-locator/internal/taxonomy"
	"go.uber.org/zap"
)

// ListingCounter counts stored listings
type ListingCounter interface {
	Count(ctx context.Context) (int64, error)
}

// SystemStats is the body of GET /v1/admin/stats
type SystemStats struct {
	TaxonomyVersion  string                 `json:"taxonomy_version"`
	Taxonomy         taxonomy.Stats         `json:"taxonomy"`
	Listings         int64                  `json:"listings"`
	StoredUnits      int64                  `json:"stored_units"`
	IndexedDocuments int64                  `json:"indexed_documents"`
	AuditRuns        int64                  `json:"audit_runs"`
	Cache            *CacheStats            `json:"cache,omitempty"`
	Uptime           string                 `json:"uptime"`
	Goroutines       int                    `json:"goroutines"`
	MemoryUsage      map[string]interface{} `json:"memory_usage"`
}

// StatsService gathers operational numbers from every component. Optional
// components that fail are reported as -1 rather than failing the call.
type StatsService struct {
	started   time.Time
	locations *LocationService
	listings  *ListingService
	counter   ListingCounter
	units     UnitStore
	indexer   Indexer
	audits    AuditStore
	logger    *zap.Logger
}

// StatsDeps are the optional sources of StatsService
type StatsDeps struct {
	Counter ListingCounter
	Units   UnitStore
	Indexer Indexer
	Audits  AuditStore
}

// NewStatsService creates a StatsService
func NewStatsService(locations *LocationService, listings *ListingService, deps StatsDeps, logger *zap.Logger) *StatsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatsService{
		started:   time.Now(),
		locations: locations,
		listings:  listings,
		counter:   deps.Counter,
		units:     deps.Units,
		indexer:   deps.Indexer,
		audits:    deps.Audits,
		logger:    logger,
	}
}

// GetSystemStats collects the current numbers
func (ss *StatsService) GetSystemStats(ctx context.Context) *SystemStats {
	tax := ss.locations.Taxonomy()
	stats := &SystemStats{
		TaxonomyVersion:  tax.Version(),
		Taxonomy:         tax.Stats(),
		Listings:         -1,
		StoredUnits:      -1,
		IndexedDocuments: -1,
		AuditRuns:        -1,
		Uptime:           time.Since(ss.started).Round(time.Second).String(),
		Goroutines:       runtime.NumGoroutine(),
	}

	if ss.counter != nil {
		stats.Listings = ss.count("listings", func() (int64, error) { return ss.counter.Count(ctx) })
	}
	if ss.units != nil {
		stats.StoredUnits = ss.count("location_units", func() (int64, error) { return ss.units.CountUnits(ctx) })
	}
	if ss.indexer != nil {
		stats.IndexedDocuments = ss.count("search_index", ss.indexer.DocumentCount)
	}
	if ss.audits != nil {
		stats.AuditRuns = ss.count("audit_reports", func() (int64, error) { return ss.audits.CountRuns(ctx) })
	}
	if ss.listings != nil {
		cache, err := ss.listings.CacheStats(ctx)
		if err != nil {
			ss.logger.Warn("cannot read cache stats", zap.Error(err))
		}
		stats.Cache = cache
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	stats.MemoryUsage = map[string]interface{}{
		"alloc_mb":       bToMb(m.Alloc),
		"total_alloc_mb": bToMb(m.TotalAlloc),
		"sys_mb":         bToMb(m.Sys),
		"num_gc":         m.NumGC,
	}
	return stats
}

func (ss *StatsService) count(name string, fn func() (int64, error)) int64 {
	n, err := fn()
	if err != nil {
		ss.logger.Warn("stats source failed", zap.String("source", name), zap.Error(err))
		return -1
	}
	return n
}

func bToMb(b uint64) uint64 {
	return b / 1024 / 1024
}
