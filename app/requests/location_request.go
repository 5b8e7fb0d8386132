package requests

import (
	"github.com/listing-locator/app/models"
	"github.com/listing-locator/internal/taxonomy"
)

// ChildrenRequest query of GET /v1/locations/children
type ChildrenRequest struct {
	Region   string `form:"region" binding:"required"`
	District string `form:"district"`
}

// ClassifyValueRequest query of GET /v1/locations/classify
type ClassifyValueRequest struct {
	Value string `form:"value" binding:"required"`
}

// ClassifyRecordRequest body of POST /v1/locations/records/classify
type ClassifyRecordRequest struct {
	Record models.LocationRecord `json:"record"`
}

// SuggestRequest query of GET /v1/locations/suggest
type SuggestRequest struct {
	Query    string `form:"q" binding:"required"`
	Level    string `form:"level" binding:"omitempty,oneof=region district ward"`
	Region   string `form:"region"`
	District string `form:"district"`
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=50"`
}

// ResolveRequest body of POST /v1/locations/resolve
type ResolveRequest struct {
	Text string `json:"text" binding:"required"` // Free text such as "Iyunga, Mbeya"
}

// TaxonomyRequest body of the taxonomy validate and seed endpoints. A nil
// source means the taxonomy the server is running with.
type TaxonomyRequest struct {
	Source         *taxonomy.Source `json:"source,omitempty"`
	RebuildIndexes bool             `json:"rebuild_indexes,omitempty"`
}

// ParseLevel maps a level name onto models.AdminLevel, 0 when empty
func ParseLevel(name string) models.AdminLevel {
	switch name {
	case "region":
		return models.LevelRegion
	case "district":
		return models.LevelDistrict
	case "ward":
		return models.LevelWard
	}
	return 0
}
