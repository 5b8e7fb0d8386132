package responses

import (
	"time"

	"github.com/listing-locator/app/models"
	"github.com/listing-locator/internal/locator"
	"github.com/listing-locator/internal/search"
	"github.com/listing-locator/internal/taxonomy"
)

// Error codes
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeNotFound           = "NOT_FOUND"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	CodeInternal           = "INTERNAL_ERROR"
)

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// SearchListingsResponse response of GET /v1/listings
type SearchListingsResponse struct {
	Listings         []models.Listing    `json:"listings"`
	Level            models.MatchLevel   `json:"level"`
	Reason           string              `json:"reason"`
	Mode             string              `json:"mode"`
	Total            int                 `json:"total"` // Matches before pagination
	Page             int                 `json:"page"`
	Limit            int                 `json:"limit"`
	CacheHit         bool                `json:"cache_hit"`
	Tiers            []models.MatchLevel `json:"tiers,omitempty"` // Cascade order tried
	ProcessingTimeMs int64               `json:"processing_time_ms"`
}

// CacheEntryResponse response of GET /v1/admin/cache/entry
type CacheEntryResponse struct {
	Region     string `json:"region"`
	Key        string `json:"key"`
	Cached     bool   `json:"cached"`
	TTLSeconds int64  `json:"ttl_seconds"`
}

type RegionsResponse struct {
	Regions         []string `json:"regions"`
	TaxonomyVersion string   `json:"taxonomy_version"`
}

type ChildrenResponse struct {
	Region   string   `json:"region"`
	District string   `json:"district,omitempty"`
	Children []string `json:"children"`
}

type ClassifyValueResponse struct {
	Value      string               `json:"value"`
	Normalized string               `json:"normalized"`
	Levels     []models.AdminLevel  `json:"levels"`
	Placements []taxonomy.Placement `json:"placements"`
}

type ClassifyRecordResponse struct {
	Classification  locator.Classification `json:"classification"`
	Searchable      bool                   `json:"searchable"`
	TaxonomyVersion string                 `json:"taxonomy_version"`
}

type SuggestResponse struct {
	Query string                    `json:"query"`
	Hits  []search.LocationDocument `json:"hits"`
}

// ResolveResponse free text mapped onto a record and checked against the taxonomy
type ResolveResponse struct {
	Text           string                 `json:"text"`
	Record         models.LocationRecord  `json:"record"`
	Parser         string                 `json:"parser"`
	Classification locator.Classification `json:"classification"`
}

type TaxonomyValidationResponse struct {
	Passed  bool           `json:"passed"`
	Version string         `json:"version,omitempty"`
	Stats   taxonomy.Stats `json:"stats"`
	Reason  string         `json:"reason,omitempty"`
	Message string         `json:"message,omitempty"`
}

type SeedTaxonomyResponse struct {
	Version          string `json:"version"`
	UnitsProcessed   int    `json:"units_processed"`
	DocumentsIndexed int    `json:"documents_indexed"`
	ProcessingTimeMs int64  `json:"processing_time_ms"`
}

type HealthResponse struct {
	Status          string            `json:"status"`
	Checks          map[string]string `json:"checks,omitempty"`
	TaxonomyVersion string            `json:"taxonomy_version,omitempty"`
	Uptime          string            `json:"uptime,omitempty"`
	Time            time.Time         `json:"time"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
