package requests

// Search modes
const (
	ModeCascade      = "cascade"
	ModeHierarchical = "hierarchical"
)

// SearchListingsRequest query parameters of GET /v1/listings
type SearchListingsRequest struct {
	Region     string   `form:"region" json:"region"`
	District   string   `form:"district" json:"district,omitempty"`
	Area       string   `form:"area" json:"area,omitempty"`
	Mode       string   `form:"mode" json:"mode,omitempty" binding:"omitempty,oneof=cascade hierarchical"`
	Category   string   `form:"category" json:"category,omitempty"`
	Search     string   `form:"search" json:"search,omitempty"`       // Substring of title or description
	MinPrice   *float64 `form:"min_price" json:"min_price,omitempty"` // Inclusive
	MaxPrice   *float64 `form:"max_price" json:"max_price,omitempty"` // Inclusive
	ProviderID string   `form:"provider_id" json:"provider_id,omitempty"`
	Page       int      `form:"page" json:"page,omitempty" binding:"omitempty,min=1"`
	Limit      int      `form:"limit" json:"limit,omitempty" binding:"omitempty,min=1"`
}
