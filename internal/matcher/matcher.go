// Package matcher runs the location cascade: ward, then district, then
// region, stopping at the first tier that returns anything.
package matcher

import (
	"github.com/listing-locator/app/models"
	"github.com/listing-locator/internal/normalizer"
)

// Reasons attached to match results
const (
	ReasonWard               = "Exact ward match"
	ReasonWardSwapped        = "No exact ward match; showing listings with ward recorded as district"
	ReasonDistrictFromWard   = "No results for requested ward; showing district"
	ReasonDistrict           = "Showing district results"
	ReasonRegionFromDistrict = "No results for requested district; showing region"
	ReasonRegionFromWard     = "No results for requested ward; showing region"
	ReasonRegion             = "Showing region results"
	ReasonNone               = "No listings for this location"
)

// Options tunes the cascade
type Options struct {
	// SwapTier adds a tier between ward and district that matches records
	// whose district field holds the requested ward.
	SwapTier bool
}

// Matcher is a configured cascade. The zero value is ready to use.
type Matcher struct {
	opts Options
}

// New creates a Matcher
func New(opts Options) *Matcher {
	return &Matcher{opts: opts}
}

// Match runs the default cascade without the swap tier
func Match(q models.SearchQuery, records []models.LocationRecord) models.MatchResult {
	var m Matcher
	return m.Match(q, records)
}

// query holds the normalized search fields
type query struct {
	region, district, area string
}

func (q query) hasDistrict() bool { return q.district != normalizer.Absent }
func (q query) hasArea() bool     { return q.area != normalizer.Absent }

func normalizeQuery(q models.SearchQuery) query {
	return query{
		region:   normalizer.Normalize(q.Region),
		district: normalizer.Normalize(q.District),
		area:     normalizer.Normalize(q.Area),
	}
}

// record holds the normalized record fields next to the input index
type record struct {
	idx                    int
	region, district, area string
}

// tier is one step of the cascade
type tier struct {
	level  models.MatchLevel
	reason string
	accept func(r record) bool
}

// Plan returns the tiers the cascade will try for q, in order
func (m *Matcher) Plan(q models.SearchQuery) []models.MatchLevel {
	tiers := m.tiers(normalizeQuery(q))
	levels := make([]models.MatchLevel, len(tiers))
	for i, t := range tiers {
		levels[i] = t.level
	}
	return levels
}

func (m *Matcher) tiers(q query) []tier {
	if q.region == normalizer.Absent {
		return nil
	}
	var tiers []tier

	if q.hasArea() {
		tiers = append(tiers, tier{
			level:  models.MatchWard,
			reason: ReasonWard,
			accept: func(r record) bool {
				return r.area == q.area && (!q.hasDistrict() || r.district == q.district)
			},
		})
		if m.opts.SwapTier {
			tiers = append(tiers, tier{
				level:  models.MatchWardSwapped,
				reason: ReasonWardSwapped,
				accept: func(r record) bool {
					if r.district != q.area {
						return false
					}
					return r.area == normalizer.Absent || (q.hasDistrict() && r.area == q.district)
				},
			})
		}
	}

	if q.hasDistrict() {
		reason := ReasonDistrict
		if q.hasArea() {
			reason = ReasonDistrictFromWard
		}
		tiers = append(tiers, tier{
			level:  models.MatchDistrict,
			reason: reason,
			accept: func(r record) bool { return r.district == q.district },
		})
	}

	reason := ReasonRegion
	switch {
	case q.hasDistrict():
		reason = ReasonRegionFromDistrict
	case q.hasArea():
		reason = ReasonRegionFromWard
	}
	tiers = append(tiers, tier{
		level:  models.MatchRegion,
		reason: reason,
		accept: func(record) bool { return true },
	})
	return tiers
}

// Match returns the records of the most specific non-empty tier, in input
// order. Records without a region never match. The input is not modified.
func (m *Matcher) Match(q models.SearchQuery, records []models.LocationRecord) models.MatchResult {
	nq := normalizeQuery(q)
	tiers := m.tiers(nq)
	if len(tiers) == 0 {
		return noMatch()
	}

	// every tier requires the region, so filter on it once
	var inRegion []record
	for i := range records {
		region := normalizer.Normalize(records[i].Region)
		if region == normalizer.Absent || region != nq.region {
			continue
		}
		inRegion = append(inRegion, record{
			idx:      i,
			region:   region,
			district: normalizer.Normalize(records[i].District),
			area:     normalizer.Normalize(records[i].Area),
		})
	}
	if len(inRegion) == 0 {
		return noMatch()
	}

	for _, t := range tiers {
		var out []models.LocationRecord
		for _, r := range inRegion {
			if t.accept(r) {
				out = append(out, records[r.idx])
			}
		}
		if len(out) > 0 {
			return models.MatchResult{Records: out, Level: t.level, Reason: t.reason}
		}
	}
	return noMatch()
}

func noMatch() models.MatchResult {
	return models.MatchResult{Records: []models.LocationRecord{}, Level: models.MatchNone, Reason: ReasonNone}
}

// FilterHierarchical is the non-cascading mode: a query returns listings at
// the requested depth plus broader listings that cover it. A ward search
// returns that ward's listings, district-level listings of its district and
// region-level listings of its region.
func FilterHierarchical(q models.SearchQuery, records []models.LocationRecord) []models.LocationRecord {
	nq := normalizeQuery(q)
	out := []models.LocationRecord{}
	if nq.region == normalizer.Absent {
		return out
	}

	for _, rec := range records {
		region := normalizer.Normalize(rec.Region)
		if region == normalizer.Absent || region != nq.region {
			continue
		}
		district := normalizer.Normalize(rec.District)
		area := normalizer.Normalize(rec.Area)

		if nq.hasDistrict() && district != nq.district && district != normalizer.Absent {
			continue
		}
		if nq.hasArea() && area != nq.area {
			districtLevel := area == normalizer.Absent && nq.hasDistrict() && district == nq.district
			regionLevel := area == normalizer.Absent && district == normalizer.Absent
			if !districtLevel && !regionLevel {
				continue
			}
		}
		out = append(out, rec)
	}
	return out
}
