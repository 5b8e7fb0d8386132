package models

import (
	"strings"
	"time"
)

// Listing is a service offered by a provider, as read from the listing store
type Listing struct {
	ID          string    `json:"id"`
	ProviderID  string    `json:"provider_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	Price       float64   `json:"price"`
	IsActive    bool      `json:"is_active"`
	Status      string    `json:"status,omitempty"` // active, inactive or pending
	Region      string    `json:"region,omitempty"`
	District    string    `json:"district,omitempty"`
	Area        string    `json:"area,omitempty"`
	CreatedAt   time.Time `json:"created_at"`

	// Provider's own location, used by the audit to spot listings filed elsewhere
	ProviderRegion   string `json:"provider_region,omitempty"`
	ProviderDistrict string `json:"provider_district,omitempty"`
	ProviderArea     string `json:"provider_area,omitempty"`
}

// ListingStatusActive is the only status shown to searchers
const ListingStatusActive = "active"

// Live reports whether the listing may appear in search results. An empty
// status is treated as active.
func (l *Listing) Live() bool {
	return l.IsActive && (l.Status == "" || strings.EqualFold(l.Status, ListingStatusActive))
}

// Location returns the record the matcher works on
func (l *Listing) Location() LocationRecord {
	return LocationRecord{
		ID:       l.ID,
		Region:   l.Region,
		District: l.District,
		Area:     l.Area,
	}
}

// ProviderLocation returns the provider's location under the listing id
func (l *Listing) ProviderLocation() LocationRecord {
	return LocationRecord{
		ID:       l.ID,
		Region:   l.ProviderRegion,
		District: l.ProviderDistrict,
		Area:     l.ProviderArea,
	}
}

// MatchesText reports whether the title or description contains term, case-insensitively
func (l *Listing) MatchesText(term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(l.Title), term) ||
		strings.Contains(strings.ToLower(l.Description), term)
}

// Locations projects listings onto their location records
func Locations(listings []Listing) []LocationRecord {
	records := make([]LocationRecord, len(listings))
	for i := range listings {
		records[i] = listings[i].Location()
	}
	return records
}
