package models

import "fmt"

// AdminLevel is one of the three fixed depths of the location hierarchy
type AdminLevel int

// Level constants
const (
	LevelRegion   AdminLevel = 1
	LevelDistrict AdminLevel = 2
	LevelWard     AdminLevel = 3
)

// String returns the lowercase level name
func (l AdminLevel) String() string {
	switch l {
	case LevelRegion:
		return "region"
	case LevelDistrict:
		return "district"
	case LevelWard:
		return "ward"
	default:
		return "unknown"
	}
}

// MarshalText renders the level by name in JSON payloads
func (l AdminLevel) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText accepts a level name or its number
func (l *AdminLevel) UnmarshalText(text []byte) error {
	switch string(text) {
	case "region", "1":
		*l = LevelRegion
	case "district", "2":
		*l = LevelDistrict
	case "ward", "3":
		*l = LevelWard
	default:
		return fmt.Errorf("unknown admin level %q", text)
	}
	return nil
}

// IsValid reports whether l is one of the three hierarchy levels
func (l AdminLevel) IsValid() bool {
	return l >= LevelRegion && l <= LevelWard
}

// MatchLevel is the cascade tier that produced a match result
type MatchLevel string

// Cascade tiers, most specific first
const (
	MatchWard        MatchLevel = "ward"
	MatchWardSwapped MatchLevel = "ward_swapped"
	MatchDistrict    MatchLevel = "district"
	MatchRegion      MatchLevel = "region"
	MatchNone        MatchLevel = "none"
)

// LocationRecord is the location part of a service or provider.
// Empty strings mean the field was not filled in.
type LocationRecord struct {
	ID       string `bson:"id" json:"id"`
	Region   string `bson:"region,omitempty" json:"region,omitempty"`
	District string `bson:"district,omitempty" json:"district,omitempty"`
	Area     string `bson:"area,omitempty" json:"area,omitempty"`
}

// SearchQuery is a traveler's location search. Only Region is required.
type SearchQuery struct {
	Region   string `json:"region"`
	District string `json:"district,omitempty"`
	Area     string `json:"area,omitempty"`
}

// MatchResult is the outcome of one cascade run
type MatchResult struct {
	Records []LocationRecord `json:"records"`
	Level   MatchLevel       `json:"level"`
	Reason  string           `json:"reason"`
}

// Granularity describes how deep a record is listed
type Granularity string

const (
	GranularityNone     Granularity = "none"
	GranularityRegion   Granularity = "region"
	GranularityDistrict Granularity = "district"
	GranularityWard     Granularity = "ward"
)
