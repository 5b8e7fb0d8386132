// Package locator checks a stored record's location fields against the taxonomy.
// The result is advisory: it never rejects a record.
package locator

import (
	"github.com/listing-locator/app/models"
	"github.com/listing-locator/internal/normalizer"
	"github.com/listing-locator/internal/taxonomy"
)

// Record field names used in anomalies
const (
	FieldRegion   = "region"
	FieldDistrict = "district"
	FieldArea     = "area"
)

// Classification is the locator verdict for one record
type Classification struct {
	RecordID      string                `json:"record_id"`
	RegionValid   bool                  `json:"region_valid"`
	DistrictValid bool                  `json:"district_valid"`
	AreaValid     bool                  `json:"area_valid"`
	Granularity   models.Granularity    `json:"granularity"`
	Anomalies     []models.FieldAnomaly `json:"anomalies,omitempty"`
}

// Searchable reports whether the record can ever be returned by a search
func (c Classification) Searchable() bool {
	return c.Granularity != models.GranularityNone
}

// ClassifyRecord validates each non-empty field against its already
// classified parent and reports values that sit at the wrong level, under
// the wrong parent, or nowhere in the taxonomy.
func ClassifyRecord(rec models.LocationRecord, tax *taxonomy.Taxonomy) Classification {
	c := Classification{
		RecordID:    rec.ID,
		Granularity: GranularityOf(rec),
	}

	if normalizer.IsAbsent(rec.Region) {
		c.Anomalies = append(c.Anomalies, models.FieldAnomaly{
			Field: FieldRegion,
			Kind:  models.AnomalyMissingRegion,
		})
	} else {
		c.RegionValid = tax.HasRegion(rec.Region)
		if !c.RegionValid {
			c.addUnplaced(tax, FieldRegion, rec.Region, models.LevelRegion)
		}
	}

	if !normalizer.IsAbsent(rec.District) {
		c.DistrictValid = c.RegionValid && tax.HasDistrict(rec.Region, rec.District)
		if !c.DistrictValid {
			c.checkMisfiled(tax, rec.Region, FieldDistrict, rec.District, models.LevelDistrict)
		}
	}

	if !normalizer.IsAbsent(rec.Area) {
		switch {
		case c.DistrictValid:
			c.AreaValid = tax.HasWard(rec.Region, rec.District, rec.Area)
		case c.RegionValid && normalizer.IsAbsent(rec.District):
			// no district to check against, any ward of the region will do
			c.AreaValid = len(tax.FindInRegion(rec.Region, rec.Area, models.LevelWard)) > 0
		}
		if !c.AreaValid {
			c.checkMisfiled(tax, rec.Region, FieldArea, rec.Area, models.LevelWard)
		}
	}

	return c
}

// checkMisfiled explains why a district or area value did not validate
func (c *Classification) checkMisfiled(tax *taxonomy.Taxonomy, region, field, value string, want models.AdminLevel) {
	levels := tax.Classify(value)
	if len(levels) == 0 {
		if c.RegionValid {
			c.Anomalies = append(c.Anomalies, models.FieldAnomaly{Field: field, Value: value, Kind: models.AnomalyUnknownValue})
		}
		return
	}

	if !containsLevel(levels, want) {
		c.Anomalies = append(c.Anomalies, models.FieldAnomaly{
			Field: field, Value: value, Kind: models.AnomalyMisplacedLevel, FoundAt: levels,
		})
		return
	}

	// the value is legal at this level somewhere; under this region it may
	// still sit at the other level, e.g. a ward typed into the district field
	if c.RegionValid {
		other := models.LevelWard
		if want == models.LevelWard {
			other = models.LevelDistrict
		}
		if containsLevel(levels, other) && len(tax.FindInRegion(region, value, other)) > 0 &&
			len(tax.FindInRegion(region, value, want)) == 0 {
			c.Anomalies = append(c.Anomalies, models.FieldAnomaly{
				Field: field, Value: value, Kind: models.AnomalyMisplacedLevel, FoundAt: levels,
			})
			return
		}
	}

	c.Anomalies = append(c.Anomalies, models.FieldAnomaly{
		Field: field, Value: value, Kind: models.AnomalyWrongParent, FoundAt: levels,
		Parents: parentsAt(tax, value, want),
	})
}

// addUnplaced handles a region value that is not a region
func (c *Classification) addUnplaced(tax *taxonomy.Taxonomy, field, value string, want models.AdminLevel) {
	levels := tax.Classify(value)
	kind := models.AnomalyUnknownValue
	if len(levels) > 0 && !containsLevel(levels, want) {
		kind = models.AnomalyMisplacedLevel
	}
	c.Anomalies = append(c.Anomalies, models.FieldAnomaly{Field: field, Value: value, Kind: kind, FoundAt: levels})
}

// GranularityOf reports how deep the record is listed, ignoring the taxonomy
func GranularityOf(rec models.LocationRecord) models.Granularity {
	switch {
	case normalizer.IsAbsent(rec.Region):
		return models.GranularityNone
	case !normalizer.IsAbsent(rec.Area):
		return models.GranularityWard
	case !normalizer.IsAbsent(rec.District):
		return models.GranularityDistrict
	default:
		return models.GranularityRegion
	}
}

func parentsAt(tax *taxonomy.Taxonomy, value string, level models.AdminLevel) []string {
	var parents []string
	for _, p := range tax.Placements(value) {
		if p.Level != level {
			continue
		}
		switch level {
		case models.LevelDistrict:
			parents = append(parents, p.Region)
		case models.LevelWard:
			parents = append(parents, p.Region+" > "+p.District)
		}
	}
	return parents
}

func containsLevel(levels []models.AdminLevel, l models.AdminLevel) bool {
	for _, x := range levels {
		if x == l {
			return true
		}
	}
	return false
}
