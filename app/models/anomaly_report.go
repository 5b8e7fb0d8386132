package models

import "time"

// AnomalyKind classifies a single record field problem
type AnomalyKind string

const (
	// AnomalyMisplacedLevel: the value is legal in the taxonomy but at another level
	AnomalyMisplacedLevel AnomalyKind = "misplaced_level"
	// AnomalyWrongParent: the value is legal at this level but under a different parent
	AnomalyWrongParent AnomalyKind = "wrong_parent"
	// AnomalyUnknownValue: the value is not in the taxonomy at all
	AnomalyUnknownValue AnomalyKind = "unknown_value"
	// AnomalyMissingRegion: the record cannot be searched
	AnomalyMissingRegion AnomalyKind = "missing_region"
)

// FieldAnomaly is one problem found on one record field
type FieldAnomaly struct {
	Field   string       `bson:"field" json:"field"` // region, district or area
	Value   string       `bson:"value" json:"value"` // Raw stored value
	Kind    AnomalyKind  `bson:"kind" json:"kind"`
	FoundAt []AdminLevel `bson:"found_at,omitempty" json:"found_at,omitempty"` // Levels where the value is legal
	Parents []string     `bson:"parents,omitempty" json:"parents,omitempty"`   // Legal parents when Kind is wrong_parent
}

// RecordAnomalies groups the anomalies of one record
type RecordAnomalies struct {
	RecordID  string         `bson:"record_id" json:"record_id"`
	Anomalies []FieldAnomaly `bson:"anomalies" json:"anomalies"`
}

// CollidingValue is a value stored as a district on some records and as an area on others
type CollidingValue struct {
	Value             string       `bson:"value" json:"value"` // Normalized value
	AsDistrictCount   int          `bson:"as_district_count" json:"as_district_count"`
	AsAreaCount       int          `bson:"as_area_count" json:"as_area_count"`
	DistrictExampleID string       `bson:"district_example_id" json:"district_example_id"`
	AreaExampleID     string       `bson:"area_example_id" json:"area_example_id"`
	TaxonomyLevels    []AdminLevel `bson:"taxonomy_levels,omitempty" json:"taxonomy_levels,omitempty"`
}

// Suggestion is a nearby taxonomy name for a value that has no entry
type Suggestion struct {
	Name  string  `bson:"name" json:"name"`
	Score float64 `bson:"score" json:"score"`
}

// OrphanValue is a record value with no taxonomy entry
type OrphanValue struct {
	Value       string       `bson:"value" json:"value"`     // Normalized value
	Display     string       `bson:"display" json:"display"` // First raw spelling seen
	Field       string       `bson:"field" json:"field"`
	Parent      string       `bson:"parent,omitempty" json:"parent,omitempty"`
	Count       int          `bson:"count" json:"count"`
	ExampleID   string       `bson:"example_id" json:"example_id"`
	Suggestions []Suggestion `bson:"suggestions,omitempty" json:"suggestions,omitempty"`
}

// GranularityCounts counts records by listing depth
type GranularityCounts struct {
	Region   int `bson:"region" json:"region"`
	District int `bson:"district" json:"district"`
	Ward     int `bson:"ward" json:"ward"`
}

// RegionCount is the number of records filed under one region
type RegionCount struct {
	Region string `bson:"region" json:"region"`
	Count  int    `bson:"count" json:"count"`
	Known  bool   `bson:"known" json:"known"`
}

// AnomalyReport is the read-only output of an audit run
type AnomalyReport struct {
	CollidingValues       []CollidingValue  `bson:"colliding_values" json:"colliding_values"`
	OrphanTaxonomyEntries []string          `bson:"orphan_taxonomy_entries" json:"orphan_taxonomy_entries"` // Regions never used by records
	OrphanRecordValues    []OrphanValue     `bson:"orphan_record_values" json:"orphan_record_values"`       // Regions used by records but undefined
	UnknownSubValues      []OrphanValue     `bson:"unknown_sub_values" json:"unknown_sub_values"`           // Districts and areas with no entry under a known region
	RecordAnomalies       []RecordAnomalies `bson:"record_anomalies" json:"record_anomalies"`
	MissingRegion         []string          `bson:"missing_region" json:"missing_region"`
	Granularity           GranularityCounts `bson:"granularity" json:"granularity"`
	RegionBreakdown       []RegionCount     `bson:"region_breakdown" json:"region_breakdown"`
	RecordsScanned        int               `bson:"records_scanned" json:"records_scanned"`
	TaxonomyVersion       string            `bson:"taxonomy_version" json:"taxonomy_version"`
}

// AuditRun is a stored audit report
type AuditRun struct {
	RunID      string        `bson:"run_id" json:"run_id"`
	Source     string        `bson:"source" json:"source"` // api, job or cli
	Report     AnomalyReport `bson:"report" json:"report"`
	DurationMs int64         `bson:"duration_ms" json:"duration_ms"`
	CreatedAt  time.Time     `bson:"created_at" json:"created_at"`
}

// NewAuditRun wraps a report for storage
func NewAuditRun(runID, source string, report AnomalyReport, took time.Duration) *AuditRun {
	return &AuditRun{
		RunID:      runID,
		Source:     source,
		Report:     report,
		DurationMs: took.Milliseconds(),
		CreatedAt:  time.Now().UTC(),
	}
}

// AnomalyCount sums every finding in the report
func (r *AnomalyReport) AnomalyCount() int {
	return len(r.CollidingValues) + len(r.OrphanRecordValues) + len(r.UnknownSubValues) +
		len(r.RecordAnomalies) + len(r.MissingRegion)
}
