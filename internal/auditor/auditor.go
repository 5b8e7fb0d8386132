// Package auditor compares the taxonomy with the location values actually
// stored on records. It only reads its inputs.
package auditor

import (
	"sort"

	"github.com/listing-locator/app/models"
	"github.com/listing-locator/internal/locator"
	"github.com/listing-locator/internal/normalizer"
	"github.com/listing-locator/internal/taxonomy"
)

// Options tunes the spelling suggestions attached to orphan values
type Options struct {
	SuggestThreshold float64 // Minimum blended score for a suggestion
	MaxSuggestions   int     // Per orphan value, 0 disables suggestions
	JWWeight         float64 // Weight of Jaro-Winkler similarity
	LevWeight        float64 // Weight of normalized Levenshtein similarity
}

// DefaultOptions returns the options used by Audit
func DefaultOptions() Options {
	return Options{
		SuggestThreshold: 0.75,
		MaxSuggestions:   3,
		JWWeight:         0.6,
		LevWeight:        0.4,
	}
}

// Auditor runs consistency audits with fixed options
type Auditor struct {
	opts Options
}

// New creates an Auditor
func New(opts Options) *Auditor {
	if opts.JWWeight+opts.LevWeight <= 0 {
		def := DefaultOptions()
		opts.JWWeight, opts.LevWeight = def.JWWeight, def.LevWeight
	}
	return &Auditor{opts: opts}
}

// Audit runs with DefaultOptions
func Audit(tax *taxonomy.Taxonomy, records []models.LocationRecord) models.AnomalyReport {
	return New(DefaultOptions()).Audit(tax, records)
}

// side tracks how often a normalized value shows up in one field
type side struct {
	display   string
	count     int
	exampleID string
}

func (s *side) add(raw, id string) {
	if s.count == 0 {
		s.display = normalizer.Display(raw)
		s.exampleID = id
	}
	s.count++
}

type subKey struct {
	field, region, value string
}

// Audit reports district/area collisions, region orphans in both
// directions, unknown district and area values under known regions, and
// per-record anomalies.
func (a *Auditor) Audit(tax *taxonomy.Taxonomy, records []models.LocationRecord) models.AnomalyReport {
	report := models.AnomalyReport{
		CollidingValues:       []models.CollidingValue{},
		OrphanTaxonomyEntries: []string{},
		OrphanRecordValues:    []models.OrphanValue{},
		UnknownSubValues:      []models.OrphanValue{},
		RecordAnomalies:       []models.RecordAnomalies{},
		MissingRegion:         []string{},
		RegionBreakdown:       []models.RegionCount{},
		RecordsScanned:        len(records),
		TaxonomyVersion:       tax.Version(),
	}

	asDistrict := make(map[string]*side)
	asArea := make(map[string]*side)
	regions := make(map[string]*side)
	unknown := make(map[subKey]*side)
	var unknownOrder []subKey

	for _, rec := range records {
		switch locator.GranularityOf(rec) {
		case models.GranularityNone:
			report.MissingRegion = append(report.MissingRegion, rec.ID)
		case models.GranularityRegion:
			report.Granularity.Region++
		case models.GranularityDistrict:
			report.Granularity.District++
		case models.GranularityWard:
			report.Granularity.Ward++
		}

		tally(regions, rec.Region, rec.ID)
		tally(asDistrict, rec.District, rec.ID)
		tally(asArea, rec.Area, rec.ID)

		c := locator.ClassifyRecord(rec, tax)
		if len(c.Anomalies) == 0 {
			continue
		}
		report.RecordAnomalies = append(report.RecordAnomalies, models.RecordAnomalies{RecordID: rec.ID, Anomalies: c.Anomalies})

		for _, an := range c.Anomalies {
			if an.Kind != models.AnomalyUnknownValue || an.Field == locator.FieldRegion {
				continue
			}
			k := subKey{field: an.Field, region: normalizer.Normalize(rec.Region), value: normalizer.Normalize(an.Value)}
			s, ok := unknown[k]
			if !ok {
				s = &side{}
				unknown[k] = s
				unknownOrder = append(unknownOrder, k)
			}
			s.add(an.Value, rec.ID)
		}
	}

	for _, key := range sortedKeys(asDistrict) {
		area, ok := asArea[key]
		if !ok {
			continue
		}
		district := asDistrict[key]
		report.CollidingValues = append(report.CollidingValues, models.CollidingValue{
			Value:             key,
			AsDistrictCount:   district.count,
			AsAreaCount:       area.count,
			DistrictExampleID: district.exampleID,
			AreaExampleID:     area.exampleID,
			TaxonomyLevels:    tax.Classify(key),
		})
	}

	for _, r := range tax.RegionNodes() {
		if _, used := regions[r.Key]; !used {
			report.OrphanTaxonomyEntries = append(report.OrphanTaxonomyEntries, r.Name)
		}
	}

	regionNames := tax.Regions()
	for _, key := range sortedKeys(regions) {
		s := regions[key]
		node := tax.Region(key)
		count := models.RegionCount{Region: s.display, Count: s.count, Known: node != nil}
		if node != nil {
			count.Region = node.Name
		} else {
			report.OrphanRecordValues = append(report.OrphanRecordValues, models.OrphanValue{
				Value:       key,
				Display:     s.display,
				Field:       locator.FieldRegion,
				Count:       s.count,
				ExampleID:   s.exampleID,
				Suggestions: a.suggest(key, regionNames),
			})
		}
		report.RegionBreakdown = append(report.RegionBreakdown, count)
	}
	sort.SliceStable(report.RegionBreakdown, func(i, j int) bool {
		return report.RegionBreakdown[i].Count > report.RegionBreakdown[j].Count
	})

	sort.SliceStable(unknownOrder, func(i, j int) bool {
		x, y := unknownOrder[i], unknownOrder[j]
		if x.region != y.region {
			return x.region < y.region
		}
		if x.field != y.field {
			return x.field < y.field
		}
		return x.value < y.value
	})
	for _, k := range unknownOrder {
		s := unknown[k]
		region := tax.Region(k.region)
		report.UnknownSubValues = append(report.UnknownSubValues, models.OrphanValue{
			Value:       k.value,
			Display:     s.display,
			Field:       k.field,
			Parent:      region.Name,
			Count:       s.count,
			ExampleID:   s.exampleID,
			Suggestions: a.suggest(k.value, candidatesFor(region, k.field)),
		})
	}

	return report
}

func tally(m map[string]*side, raw, id string) {
	key := normalizer.Normalize(raw)
	if key == normalizer.Absent {
		return
	}
	s, ok := m[key]
	if !ok {
		s = &side{}
		m[key] = s
	}
	s.add(raw, id)
}

func sortedKeys(m map[string]*side) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// candidatesFor lists the names a district or area value could have meant
func candidatesFor(region *taxonomy.Node, field string) []string {
	if field == locator.FieldDistrict {
		return region.ChildNames()
	}
	seen := make(map[string]bool)
	var names []string
	for _, d := range region.Children() {
		for _, w := range d.Children() {
			if !seen[w.Key] {
				seen[w.Key] = true
				names = append(names, w.Name)
			}
		}
	}
	return names
}
