package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AdminUnit is one taxonomy node as stored in MongoDB and indexed in Meilisearch
type AdminUnit struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	AdminID         string             `bson:"admin_id" json:"admin_id"`                       // Stable id built from the normalized path
	ParentID        string             `bson:"parent_id,omitempty" json:"parent_id,omitempty"` // Parent AdminID, empty for regions
	Level           AdminLevel         `bson:"level" json:"level"`
	Name            string             `bson:"name" json:"name"`                       // Display spelling
	Code            string             `bson:"code,omitempty" json:"code,omitempty"`   // Official code when the source has one
	NormalizedName  string             `bson:"normalized_name" json:"normalized_name"` // Comparison form
	ASCIIName       string             `bson:"ascii_name" json:"ascii_name"`           // Transliterated form for typeahead
	Position        int                `bson:"position" json:"position"`               // Order among siblings
	Path            []string           `bson:"path" json:"path"`                       // Display names from the region down to the parent
	TaxonomyVersion string             `bson:"taxonomy_version" json:"taxonomy_version"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
}

// IsValidLevel checks the level is one of region, district or ward
func (au *AdminUnit) IsValidLevel() bool {
	return au.Level.IsValid()
}

// GetFullPath returns "Region > District > Ward"
func (au *AdminUnit) GetFullPath() string {
	if len(au.Path) == 0 {
		return au.Name
	}
	return strings.Join(au.Path, " > ") + " > " + au.Name
}

// Region returns the region name the unit belongs to
func (au *AdminUnit) Region() string {
	if au.Level == LevelRegion || len(au.Path) == 0 {
		return au.Name
	}
	return au.Path[0]
}
