package locator

import (
	"testing"

	"github.com/listing-locator/app/models"
	"github.com/listing-locator/internal/taxonomy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTaxonomy(t *testing.T) *taxonomy.Taxonomy {
	t.Helper()
	tax, err := taxonomy.Build(taxonomy.Source{Regions: []taxonomy.SourceNode{
		{Name: "Mbeya", Districts: []taxonomy.SourceNode{
			{Name: "Mbeya Urban", Wards: []taxonomy.SourceNode{{Name: "Iyunga"}, {Name: "Uyole"}}},
			{Name: "Chunya", Wards: []taxonomy.SourceNode{{Name: "Chunya"}, {Name: "Itumba"}}},
		}},
		{Name: "Arusha", Districts: []taxonomy.SourceNode{
			{Name: "Arusha Urban", Wards: []taxonomy.SourceNode{{Name: "Sekei"}}},
		}},
	}})
	require.NoError(t, err)
	return tax
}

func TestClassifyRecord(t *testing.T) {
	tax := testTaxonomy(t)

	testCases := []struct {
		name        string
		record      models.LocationRecord
		region      bool
		district    bool
		area        bool
		granularity models.Granularity
		kinds       []models.AnomalyKind
	}{
		{
			name:   "fully valid ward listing",
			record: models.LocationRecord{ID: "1", Region: "mbeya", District: " Mbeya Urban", Area: "IYUNGA"},
			region: true, district: true, area: true,
			granularity: models.GranularityWard,
		},
		{
			name:   "district level listing",
			record: models.LocationRecord{ID: "2", Region: "Mbeya", District: "Chunya"},
			region: true, district: true,
			granularity: models.GranularityDistrict,
		},
		{
			name:        "region level listing",
			record:      models.LocationRecord{ID: "3", Region: "Arusha"},
			region:      true,
			granularity: models.GranularityRegion,
		},
		{
			name:        "ward stored as district",
			record:      models.LocationRecord{ID: "4", Region: "Mbeya", District: "Iyunga"},
			region:      true,
			granularity: models.GranularityDistrict,
			kinds:       []models.AnomalyKind{models.AnomalyMisplacedLevel},
		},
		{
			name:   "district stored as area",
			record: models.LocationRecord{ID: "5", Region: "Mbeya", District: "Mbeya Urban", Area: "Mbeya Urban"},
			region: true, district: true,
			granularity: models.GranularityWard,
			kinds:       []models.AnomalyKind{models.AnomalyMisplacedLevel},
		},
		{
			name:        "district of another region",
			record:      models.LocationRecord{ID: "6", Region: "Arusha", District: "Chunya"},
			region:      true,
			granularity: models.GranularityDistrict,
			kinds:       []models.AnomalyKind{models.AnomalyWrongParent},
		},
		{
			name:        "unknown district",
			record:      models.LocationRecord{ID: "7", Region: "Mbeya", District: "Mbeya City"},
			region:      true,
			granularity: models.GranularityDistrict,
			kinds:       []models.AnomalyKind{models.AnomalyUnknownValue},
		},
		{
			name:        "unknown region",
			record:      models.LocationRecord{ID: "8", Region: "Zanzibar"},
			granularity: models.GranularityRegion,
			kinds:       []models.AnomalyKind{models.AnomalyUnknownValue},
		},
		{
			name:        "ward stored as region",
			record:      models.LocationRecord{ID: "9", Region: "Uyole"},
			granularity: models.GranularityRegion,
			kinds:       []models.AnomalyKind{models.AnomalyMisplacedLevel},
		},
		{
			name:        "missing region",
			record:      models.LocationRecord{ID: "10", District: "Stone Town"},
			granularity: models.GranularityNone,
			kinds:       []models.AnomalyKind{models.AnomalyMissingRegion},
		},
		{
			name:   "area without district",
			record: models.LocationRecord{ID: "11", Region: "Mbeya", Area: "Uyole"},
			region: true, area: true,
			granularity: models.GranularityWard,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := ClassifyRecord(tc.record, tax)

			assert.Equal(t, tc.record.ID, c.RecordID)
			assert.Equal(t, tc.region, c.RegionValid, "region")
			assert.Equal(t, tc.district, c.DistrictValid, "district")
			assert.Equal(t, tc.area, c.AreaValid, "area")
			assert.Equal(t, tc.granularity, c.Granularity)

			var kinds []models.AnomalyKind
			for _, a := range c.Anomalies {
				kinds = append(kinds, a.Kind)
			}
			assert.Equal(t, tc.kinds, kinds)
		})
	}
}

func TestClassifyRecord_AnomalyDetail(t *testing.T) {
	tax := testTaxonomy(t)

	c := ClassifyRecord(models.LocationRecord{ID: "x", Region: "Arusha", District: "Chunya"}, tax)
	require.Len(t, c.Anomalies, 1)
	a := c.Anomalies[0]
	assert.Equal(t, FieldDistrict, a.Field)
	assert.Equal(t, "Chunya", a.Value)
	assert.Equal(t, []models.AdminLevel{models.LevelDistrict, models.LevelWard}, a.FoundAt)
	assert.Equal(t, []string{"Mbeya"}, a.Parents)

	c = ClassifyRecord(models.LocationRecord{ID: "y", Region: "Mbeya", District: "Iyunga"}, tax)
	require.Len(t, c.Anomalies, 1)
	assert.Equal(t, []models.AdminLevel{models.LevelWard}, c.Anomalies[0].FoundAt)
}

func TestClassifyRecord_NeverMutates(t *testing.T) {
	tax := testTaxonomy(t)
	rec := models.LocationRecord{ID: "1", Region: " mbeya ", District: "IYUNGA"}
	before := rec

	_ = ClassifyRecord(rec, tax)
	assert.Equal(t, before, rec)
}

func TestSearchable(t *testing.T) {
	tax := testTaxonomy(t)
	assert.False(t, ClassifyRecord(models.LocationRecord{ID: "1", Area: "Iyunga"}, tax).Searchable())
	assert.True(t, ClassifyRecord(models.LocationRecord{ID: "2", Region: "Atlantis"}, tax).Searchable())
}
