package matcher

import (
	"fmt"
	"testing"

	"github.com/listing-locator/app/models"
	"github.com/listing-locator/internal/normalizer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(id, region, district, area string) models.LocationRecord {
	return models.LocationRecord{ID: id, Region: region, District: district, Area: area}
}

func ids(records []models.LocationRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func TestMatch_Scenarios(t *testing.T) {
	testCases := []struct {
		name    string
		query   models.SearchQuery
		records []models.LocationRecord
		level   models.MatchLevel
		ids     []string
		reason  string
	}{
		{
			name:  "exact ward",
			query: models.SearchQuery{Region: "Mbeya", District: "Mbeya Urban", Area: "Mbeya CBD"},
			records: []models.LocationRecord{
				rec("a", "Mbeya", "Mbeya Urban", "Mbeya CBD"),
				rec("b", "Mbeya", "Mbeya Urban", "Uyole"),
				rec("c", "Mbeya", "Chunya", ""),
			},
			level:  models.MatchWard,
			ids:    []string{"a"},
			reason: ReasonWard,
		},
		{
			name:  "ward empty falls back to district",
			query: models.SearchQuery{Region: "Mbeya", District: "Mbeya Urban", Area: "Mbeya CBD"},
			records: []models.LocationRecord{
				rec("a", "Mbeya", "Mbeya Urban", "Uyole"),
				rec("b", "Mbeya", "Chunya", ""),
				rec("c", "Mbeya", "Mbeya Urban", ""),
			},
			level:  models.MatchDistrict,
			ids:    []string{"a", "c"},
			reason: ReasonDistrictFromWard,
		},
		{
			name:  "region only query",
			query: models.SearchQuery{Region: "Arusha"},
			records: []models.LocationRecord{
				rec("a", "Arusha", "", ""),
				rec("b", "Arusha", "Arusha Urban", ""),
				rec("c", "Arusha", "Arusha Urban", "Sekei"),
				rec("d", "Mbeya", "", ""),
			},
			level:  models.MatchRegion,
			ids:    []string{"a", "b", "c"},
			reason: ReasonRegion,
		},
		{
			name:  "nothing at any tier",
			query: models.SearchQuery{Region: "Zanzibar", District: "Stone Town"},
			records: []models.LocationRecord{
				rec("a", "Arusha", "", ""),
			},
			level:  models.MatchNone,
			ids:    []string{},
			reason: ReasonNone,
		},
		{
			name:  "district empty falls back to region",
			query: models.SearchQuery{Region: "Mbeya", District: "Kyela"},
			records: []models.LocationRecord{
				rec("a", "Mbeya", "Chunya", ""),
				rec("b", "Mbeya", "", ""),
			},
			level:  models.MatchRegion,
			ids:    []string{"a", "b"},
			reason: ReasonRegionFromDistrict,
		},
		{
			name:  "district query without area",
			query: models.SearchQuery{Region: "Mbeya", District: "Chunya"},
			records: []models.LocationRecord{
				rec("a", "Mbeya", "Chunya", "Itumba"),
				rec("b", "Mbeya", "Chunya", ""),
				rec("c", "Mbeya", "", ""),
			},
			level:  models.MatchDistrict,
			ids:    []string{"a", "b"},
			reason: ReasonDistrict,
		},
		{
			name:  "area without district skips district equality",
			query: models.SearchQuery{Region: "Mbeya", Area: "Iyunga"},
			records: []models.LocationRecord{
				rec("a", "Mbeya", "Mbeya Urban", "Iyunga"),
				rec("b", "Mbeya", "Mbarali", "Iyunga"),
				rec("c", "Mbeya", "Mbarali", ""),
			},
			level:  models.MatchWard,
			ids:    []string{"a", "b"},
			reason: ReasonWard,
		},
		{
			name:  "area without district falls to region",
			query: models.SearchQuery{Region: "Mbeya", Area: "Iyela"},
			records: []models.LocationRecord{
				rec("a", "Mbeya", "Mbeya Urban", "Iyunga"),
			},
			level:  models.MatchRegion,
			ids:    []string{"a"},
			reason: ReasonRegionFromWard,
		},
		{
			name:  "case and whitespace insensitive",
			query: models.SearchQuery{Region: "mbeya"},
			records: []models.LocationRecord{
				rec("a", " Mbeya ", "", ""),
			},
			level:  models.MatchRegion,
			ids:    []string{"a"},
			reason: ReasonRegion,
		},
		{
			name:  "no substring matching",
			query: models.SearchQuery{Region: "Mbeya", District: "Mbeya"},
			records: []models.LocationRecord{
				rec("a", "Mbeya", "Mbeya Rural", ""),
				rec("b", "Mbeya", "Mbeya Urban", ""),
			},
			level:  models.MatchRegion,
			ids:    []string{"a", "b"},
			reason: ReasonRegionFromDistrict,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := Match(tc.query, tc.records)

			assert.Equal(t, tc.level, result.Level)
			assert.Equal(t, tc.ids, ids(result.Records))
			assert.Equal(t, tc.reason, result.Reason)
			assert.NotEmpty(t, result.Reason)
		})
	}
}

func TestMatch_RegionMandatory(t *testing.T) {
	records := []models.LocationRecord{
		rec("no-region", "", "Mbeya Urban", "Iyunga"),
		rec("blank-region", "   ", "Mbeya Urban", "Iyunga"),
		rec("ok", "Mbeya", "Mbeya Urban", "Iyunga"),
	}

	result := Match(models.SearchQuery{Region: "Mbeya", District: "Mbeya Urban", Area: "Iyunga"}, records)
	assert.Equal(t, []string{"ok"}, ids(result.Records))

	result = Match(models.SearchQuery{District: "Mbeya Urban", Area: "Iyunga"}, records)
	assert.Equal(t, models.MatchNone, result.Level)
	assert.Empty(t, result.Records)
	assert.NotNil(t, result.Records)

	result = Match(models.SearchQuery{Region: "  "}, records)
	assert.Equal(t, models.MatchNone, result.Level)
}

func TestMatch_EmptyInput(t *testing.T) {
	result := Match(models.SearchQuery{Region: "Mbeya"}, nil)
	assert.Equal(t, models.MatchNone, result.Level)
	assert.Equal(t, ReasonNone, result.Reason)
}

func TestMatch_DoesNotMutateInput(t *testing.T) {
	records := []models.LocationRecord{
		rec("a", " MBEYA ", "Mbeya  Urban", ""),
		rec("b", "Mbeya", "", ""),
	}
	snapshot := append([]models.LocationRecord(nil), records...)

	result := Match(models.SearchQuery{Region: "Mbeya", District: "Mbeya Urban"}, records)
	require.Len(t, result.Records, 1)
	assert.Equal(t, " MBEYA ", result.Records[0].Region, "raw form preserved")
	assert.Equal(t, snapshot, records)

	result.Records[0].Region = "changed"
	assert.Equal(t, " MBEYA ", records[0].Region)
}

func TestMatch_SwapTier(t *testing.T) {
	records := []models.LocationRecord{
		rec("district-col", "Mbeya", "Iyunga", ""),
		rec("both-swapped", "Mbeya", "Iyunga", "Mbeya Urban"),
		rec("other-area", "Mbeya", "Iyunga", "Uyole"),
		rec("district-level", "Mbeya", "Mbeya Urban", ""),
	}
	q := models.SearchQuery{Region: "Mbeya", District: "Mbeya Urban", Area: "Iyunga"}

	plain := Match(q, records)
	assert.Equal(t, models.MatchDistrict, plain.Level)
	assert.Equal(t, []string{"district-level"}, ids(plain.Records))

	m := New(Options{SwapTier: true})
	swapped := m.Match(q, records)
	assert.Equal(t, models.MatchWardSwapped, swapped.Level)
	assert.Equal(t, ReasonWardSwapped, swapped.Reason)
	assert.Equal(t, []string{"district-col", "both-swapped"}, ids(swapped.Records))

	// an exact ward hit still wins over the swap tier
	withExact := append(records, rec("exact", "mbeya", "mbeya urban", "iyunga"))
	exact := m.Match(q, withExact)
	assert.Equal(t, models.MatchWard, exact.Level)
	assert.Equal(t, []string{"exact"}, ids(exact.Records))
}

func TestPlan(t *testing.T) {
	testCases := []struct {
		query    models.SearchQuery
		swap     bool
		expected []models.MatchLevel
	}{
		{models.SearchQuery{Region: "Mbeya"}, false, []models.MatchLevel{models.MatchRegion}},
		{models.SearchQuery{Region: "Mbeya", District: "Chunya"}, false, []models.MatchLevel{models.MatchDistrict, models.MatchRegion}},
		{models.SearchQuery{Region: "Mbeya", District: "Chunya", Area: "Itumba"}, false,
			[]models.MatchLevel{models.MatchWard, models.MatchDistrict, models.MatchRegion}},
		{models.SearchQuery{Region: "Mbeya", District: "Chunya", Area: "Itumba"}, true,
			[]models.MatchLevel{models.MatchWard, models.MatchWardSwapped, models.MatchDistrict, models.MatchRegion}},
		{models.SearchQuery{Region: "Mbeya", Area: "Itumba"}, false, []models.MatchLevel{models.MatchWard, models.MatchRegion}},
		{models.SearchQuery{District: "Chunya"}, false, []models.MatchLevel{}},
	}

	for i, tc := range testCases {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			plan := New(Options{SwapTier: tc.swap}).Plan(tc.query)
			assert.Equal(t, tc.expected, plan)
		})
	}
}

// TestMatch_MonotonicBroadening checks every query shape against a brute
// force evaluation of each tier over the same records.
func TestMatch_MonotonicBroadening(t *testing.T) {
	values := []string{"", "Mbeya Urban", "Chunya", "Iyunga"}
	var records []models.LocationRecord
	n := 0
	for _, region := range []string{"Mbeya", "", "Arusha"} {
		for _, d := range values {
			for _, a := range values {
				if (n*7)%3 == 0 {
					records = append(records, rec(fmt.Sprint(n), region, d, a))
				}
				n++
			}
		}
	}

	tierMatches := func(q models.SearchQuery, level models.MatchLevel) int {
		count := 0
		for _, r := range records {
			if !normalizer.Equal(r.Region, q.Region) {
				continue
			}
			switch level {
			case models.MatchWard:
				if normalizer.Equal(r.Area, q.Area) && (normalizer.IsAbsent(q.District) || normalizer.Equal(r.District, q.District)) {
					count++
				}
			case models.MatchDistrict:
				if normalizer.Equal(r.District, q.District) {
					count++
				}
			case models.MatchRegion:
				count++
			}
		}
		return count
	}

	for _, d := range values {
		for _, a := range values {
			q := models.SearchQuery{Region: "mbeya", District: d, Area: a}
			result := Match(q, records)

			expected := models.MatchNone
			switch {
			case !normalizer.IsAbsent(a) && tierMatches(q, models.MatchWard) > 0:
				expected = models.MatchWard
			case !normalizer.IsAbsent(d) && tierMatches(q, models.MatchDistrict) > 0:
				expected = models.MatchDistrict
			case tierMatches(q, models.MatchRegion) > 0:
				expected = models.MatchRegion
			}
			assert.Equal(t, expected, result.Level, "query %+v", q)
			if expected != models.MatchNone {
				assert.Len(t, result.Records, tierMatches(q, expected), "query %+v", q)
			}
		}
	}
}

func TestFilterHierarchical(t *testing.T) {
	records := []models.LocationRecord{
		rec("region", "Mbeya", "", ""),
		rec("district", "Mbeya", "Mbeya Urban", ""),
		rec("ward", "Mbeya", "Mbeya Urban", "Iyunga"),
		rec("other-ward", "Mbeya", "Mbeya Urban", "Uyole"),
		rec("other-district", "Mbeya", "Chunya", ""),
		rec("area-only", "Mbeya", "", "Iyunga"),
		rec("other-region", "Arusha", "", ""),
		rec("no-region", "", "Mbeya Urban", "Iyunga"),
	}

	testCases := []struct {
		name     string
		query    models.SearchQuery
		expected []string
	}{
		{
			name:     "region",
			query:    models.SearchQuery{Region: "Mbeya"},
			expected: []string{"region", "district", "ward", "other-ward", "other-district", "area-only"},
		},
		{
			name:     "district includes region level",
			query:    models.SearchQuery{Region: "Mbeya", District: "Mbeya Urban"},
			expected: []string{"region", "district", "ward", "other-ward", "area-only"},
		},
		{
			name:     "ward includes district and region level",
			query:    models.SearchQuery{Region: "mbeya", District: "mbeya urban", Area: "IYUNGA"},
			expected: []string{"region", "district", "ward", "area-only"},
		},
		{
			name:     "ward without district",
			query:    models.SearchQuery{Region: "Mbeya", Area: "Iyunga"},
			expected: []string{"region", "ward", "area-only"},
		},
		{
			name:     "missing region",
			query:    models.SearchQuery{District: "Mbeya Urban"},
			expected: []string{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ids(FilterHierarchical(tc.query, records)))
		})
	}
}
