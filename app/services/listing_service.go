package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/listing-locator/app/models"
	"github.com/listing-locator/app/requests"
	"github.com/listing-locator/internal/apperrors"
	"github.com/listing-locator/internal/matcher"
	"github.com/listing-locator/internal/metrics"
	"github.com/listing-locator/internal/normalizer"
	"go.uber.org/zap"
)

// ReasonHierarchical is attached to non-empty hierarchical searches
const ReasonHierarchical = "Showing listings that cover the requested location"

// ListingSource is the part of the listing store the services read
type ListingSource interface {
	ListByRegion(ctx context.Context, region string) ([]models.Listing, error)
	ListAll(ctx context.Context) ([]models.Listing, error)
}

// ListingServiceConfig pagination and cascade settings
type ListingServiceConfig struct {
	SwapTier     bool
	DefaultLimit int
	MaxLimit     int
}

// SearchResult is one page of a listing search
type SearchResult struct {
	Listings []models.Listing
	Level    models.MatchLevel
	Reason   string
	Mode     string
	Total    int
	Page     int
	Limit    int
	CacheHit bool
	Tiers    []models.MatchLevel // Cascade tiers in the order they were tried
}

// CacheEntry describes the cached candidate set of one region
type CacheEntry struct {
	Key    string
	Cached bool
	TTL    time.Duration
}

// ListingService answers listing searches by location
type ListingService struct {
	store   ListingSource
	cache   ICacheService
	matcher *matcher.Matcher
	cfg     ListingServiceConfig
	logger  *zap.Logger
}

// NewListingService creates a ListingService. cache may be nil.
func NewListingService(store ListingSource, cache ICacheService, cfg ListingServiceConfig, logger *zap.Logger) *ListingService {
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = 20
	}
	if cfg.MaxLimit < cfg.DefaultLimit {
		cfg.MaxLimit = 100
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ListingService{
		store:   store,
		cache:   cache,
		matcher: matcher.New(matcher.Options{SwapTier: cfg.SwapTier}),
		cfg:     cfg,
		logger:  logger,
	}
}

// Search finds listings for a location. Candidates come from the cache or
// the store's region pre-filter; the matcher makes the final decision.
func (s *ListingService) Search(ctx context.Context, req requests.SearchListingsRequest) (*SearchResult, error) {
	start := time.Now()
	metrics.SearchRequestsTotal.Inc()
	defer func() {
		metrics.SearchDurationMs.Observe(float64(time.Since(start).Microseconds()) / 1000)
	}()

	if err := validateSearch(req); err != nil {
		return nil, err
	}

	result := &SearchResult{
		Mode:  req.Mode,
		Page:  req.Page,
		Limit: req.Limit,
	}
	if result.Mode == "" {
		result.Mode = requests.ModeCascade
	}
	if result.Page <= 0 {
		result.Page = 1
	}
	if result.Limit <= 0 {
		result.Limit = s.cfg.DefaultLimit
	}
	if result.Limit > s.cfg.MaxLimit {
		result.Limit = s.cfg.MaxLimit
	}

	if normalizer.IsAbsent(req.Region) {
		result.Listings = []models.Listing{}
		result.Level, result.Reason = models.MatchNone, matcher.ReasonNone
		metrics.MatchLevelTotal.WithLabelValues(string(result.Level)).Inc()
		return result, nil
	}

	candidates, hit, err := s.candidates(ctx, req.Region)
	if err != nil {
		return nil, err
	}
	result.CacheHit = hit

	filtered := filterListings(candidates, req)
	query := models.SearchQuery{Region: req.Region, District: req.District, Area: req.Area}

	var matched []models.Listing
	if result.Mode == requests.ModeHierarchical {
		matched = pick(filtered, matcher.FilterHierarchical(query, models.Locations(filtered)))
		result.Level, result.Reason = hierarchicalLevel(query, len(matched))
	} else {
		result.Tiers = s.matcher.Plan(query)
		mr := s.matcher.Match(query, models.Locations(filtered))
		matched = pick(filtered, mr.Records)
		result.Level, result.Reason = mr.Level, mr.Reason
	}
	metrics.MatchLevelTotal.WithLabelValues(string(result.Level)).Inc()

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	result.Total = len(matched)
	result.Listings = paginate(matched, result.Page, result.Limit)

	s.logger.Debug("listing search",
		zap.String("region", req.Region),
		zap.String("district", req.District),
		zap.String("area", req.Area),
		zap.String("mode", result.Mode),
		zap.String("level", string(result.Level)),
		zap.Int("candidates", len(candidates)),
		zap.Int("total", result.Total),
		zap.Bool("cache_hit", hit),
		zap.Duration("took", time.Since(start)))

	return result, nil
}

func validateSearch(req requests.SearchListingsRequest) error {
	switch req.Mode {
	case "", requests.ModeCascade, requests.ModeHierarchical:
	default:
		return apperrors.NewValidation("ListingService.Search", "mode must be cascade or hierarchical", nil)
	}
	if req.MinPrice != nil && req.MaxPrice != nil && *req.MinPrice > *req.MaxPrice {
		return apperrors.NewValidation("ListingService.Search", "min_price is greater than max_price", nil)
	}
	if req.Page < 0 || req.Limit < 0 {
		return apperrors.NewValidation("ListingService.Search", "page and limit must be positive", nil)
	}
	return nil
}

// candidates returns the region's listings and whether they came from cache
func (s *ListingService) candidates(ctx context.Context, region string) ([]models.Listing, bool, error) {
	key := CandidateKey(region)
	if s.cache != nil {
		listings, found, err := s.cache.Get(ctx, key)
		if err != nil {
			s.logger.Warn("candidate cache read failed", zap.String("key", key), zap.Error(err))
		} else if found {
			metrics.CandidateCacheHitsTotal.Inc()
			return listings, true, nil
		}
		metrics.CandidateCacheMissesTotal.Inc()
	}

	listings, err := s.store.ListByRegion(ctx, region)
	if err != nil {
		return nil, false, apperrors.NewUnavailable("ListingService.Search", "listing store", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, listings); err != nil {
			s.logger.Warn("candidate cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return listings, false, nil
}

// InvalidateCache drops every cached candidate set
func (s *ListingService) InvalidateCache(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Clear(ctx)
}

// InvalidateRegion drops the cached candidate set of one region
func (s *ListingService) InvalidateRegion(ctx context.Context, region string) error {
	if normalizer.IsAbsent(region) {
		return apperrors.NewValidation("ListingService.InvalidateRegion", "region is required", nil)
	}
	if s.cache == nil {
		return nil
	}
	return s.cache.Delete(ctx, CandidateKey(region))
}

// CacheEntry reports whether region's candidates are cached and for how long
func (s *ListingService) CacheEntry(ctx context.Context, region string) (*CacheEntry, error) {
	if normalizer.IsAbsent(region) {
		return nil, apperrors.NewValidation("ListingService.CacheEntry", "region is required", nil)
	}
	if s.cache == nil {
		return nil, apperrors.NewNotFound("ListingService.CacheEntry", "candidate caching is disabled")
	}
	entry := &CacheEntry{Key: CandidateKey(region)}
	cached, err := s.cache.Exists(ctx, entry.Key)
	if err != nil {
		return nil, apperrors.NewUnavailable("ListingService.CacheEntry", "cache", err)
	}
	entry.Cached = cached
	if cached {
		if entry.TTL, err = s.cache.GetTTL(ctx, entry.Key); err != nil {
			return nil, apperrors.NewUnavailable("ListingService.CacheEntry", "cache", err)
		}
	}
	return entry, nil
}

// CacheStats reports the candidate cache, nil when caching is off
func (s *ListingService) CacheStats(ctx context.Context) (*CacheStats, error) {
	if s.cache == nil {
		return nil, nil
	}
	return s.cache.GetStats(ctx)
}

func filterListings(listings []models.Listing, req requests.SearchListingsRequest) []models.Listing {
	category := strings.TrimSpace(req.Category)
	out := make([]models.Listing, 0, len(listings))
	for _, l := range listings {
		if !l.Live() {
			continue
		}
		if category != "" && !strings.EqualFold(l.Category, category) {
			continue
		}
		if req.ProviderID != "" && l.ProviderID != req.ProviderID {
			continue
		}
		if req.MinPrice != nil && l.Price < *req.MinPrice {
			continue
		}
		if req.MaxPrice != nil && l.Price > *req.MaxPrice {
			continue
		}
		if !l.MatchesText(req.Search) {
			continue
		}
		out = append(out, l)
	}
	return out
}

// pick maps matched records back to their listings. records is an ordered
// subsequence of listings, so one forward walk is enough.
func pick(listings []models.Listing, records []models.LocationRecord) []models.Listing {
	out := make([]models.Listing, 0, len(records))
	j := 0
	for _, rec := range records {
		for j < len(listings) && listings[j].ID != rec.ID {
			j++
		}
		if j == len(listings) {
			break
		}
		out = append(out, listings[j])
		j++
	}
	return out
}

func hierarchicalLevel(q models.SearchQuery, n int) (models.MatchLevel, string) {
	if n == 0 {
		return models.MatchNone, matcher.ReasonNone
	}
	switch {
	case !normalizer.IsAbsent(q.Area):
		return models.MatchWard, ReasonHierarchical
	case !normalizer.IsAbsent(q.District):
		return models.MatchDistrict, ReasonHierarchical
	default:
		return models.MatchRegion, ReasonHierarchical
	}
}

func paginate(listings []models.Listing, page, limit int) []models.Listing {
	if page < 1 || limit < 1 {
		return []models.Listing{}
	}
	// Compare page numbers before multiplying so huge pages cannot overflow
	pages := len(listings) / limit
	if len(listings)%limit != 0 {
		pages++
	}
	if page > pages {
		return []models.Listing{}
	}
	from := (page - 1) * limit
	to := from + limit
	if to > len(listings) {
		to = len(listings)
	}
	return listings[from:to]
}
