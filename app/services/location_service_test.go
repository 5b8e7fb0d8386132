package services

import (
	"context"
	"testing"

	"github.com/listing-locator/app/models"
	"github.com/listing-locator/internal/apperrors"
	"github.com/listing-locator/internal/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocationServiceChildren(t *testing.T) {
	svc := NewLocationService(testTaxonomy(t), nil, nil, nil)

	regions, version := svc.Regions()
	assert.Equal(t, []string{"Mbeya", "Arusha"}, regions)
	assert.NotEmpty(t, version)

	districts, err := svc.Children("mbeya", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Mbeya Urban", "Chunya"}, districts)

	wards, err := svc.Children("Mbeya", "MBEYA URBAN")
	require.NoError(t, err)
	assert.Equal(t, []string{"Iyunga", "Uyole"}, wards)

	_, err = svc.Children("Kigoma", "")
	assert.True(t, apperrors.IsNotFound(err))

	_, err = svc.Children("Mbeya", "Arusha City")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestLocationServiceClassify(t *testing.T) {
	svc := NewLocationService(testTaxonomy(t), nil, nil, nil)

	levels, placements := svc.ClassifyValue("iyunga")
	assert.Equal(t, []models.AdminLevel{models.LevelWard}, levels)
	require.Len(t, placements, 1)
	assert.Equal(t, "Mbeya Urban", placements[0].District)

	levels, placements = svc.ClassifyValue("nowhere")
	assert.Empty(t, levels)
	assert.NotNil(t, placements)

	c := svc.ClassifyRecord(models.LocationRecord{ID: "x", Region: "Mbeya", District: "Mbeya Urban", Area: "Iyunga"})
	assert.True(t, c.RegionValid)
	assert.True(t, c.DistrictValid)
	assert.True(t, c.AreaValid)
	assert.Equal(t, models.GranularityWard, c.Granularity)
}

func TestLocationServiceSuggest(t *testing.T) {
	ctx := context.Background()

	t.Run("local scan", func(t *testing.T) {
		svc := NewLocationService(testTaxonomy(t), nil, nil, nil)
		docs, err := svc.Suggest(ctx, search.SuggestRequest{Query: "iy"})
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, "Iyunga", docs[0].Name)
		assert.Equal(t, "Mbeya Urban", docs[0].District)

		docs, err = svc.Suggest(ctx, search.SuggestRequest{Query: "a", Level: models.LevelRegion})
		require.NoError(t, err)
		assert.Equal(t, "Arusha", docs[0].Name, "prefix matches rank first")
		assert.Len(t, docs, 2)

		docs, err = svc.Suggest(ctx, search.SuggestRequest{Query: "u", Level: models.LevelWard, Region: "Mbeya", District: "Mbeya Urban"})
		require.NoError(t, err)
		names := []string{}
		for _, d := range docs {
			names = append(names, d.Name)
		}
		assert.Equal(t, []string{"Uyole", "Iyunga"}, names)
	})

	t.Run("index first, scan on failure", func(t *testing.T) {
		idx := &fakeSuggester{docs: []search.LocationDocument{{Name: "From index"}}}
		svc := NewLocationService(testTaxonomy(t), idx, nil, nil)

		docs, err := svc.Suggest(ctx, search.SuggestRequest{Query: "chunya"})
		require.NoError(t, err)
		assert.Equal(t, "From index", docs[0].Name)

		idx.err = errBackend
		docs, err = svc.Suggest(ctx, search.SuggestRequest{Query: "chunya"})
		require.NoError(t, err)
		assert.Equal(t, "Chunya", docs[0].Name)
	})

	t.Run("empty query", func(t *testing.T) {
		svc := NewLocationService(testTaxonomy(t), nil, nil, nil)
		_, err := svc.Suggest(ctx, search.SuggestRequest{Query: "  "})
		assert.True(t, apperrors.IsValidation(err))
	})
}

func TestLocationServiceResolve(t *testing.T) {
	ctx := context.Background()

	t.Run("parser fallback", func(t *testing.T) {
		svc := NewLocationService(testTaxonomy(t), nil, nil, nil)
		res, err := svc.Resolve(ctx, "Iyunga, Mbeya Urban, Mbeya, Tanzania")
		require.NoError(t, err)
		assert.Equal(t, "Mbeya", res.Record.Region)
		assert.True(t, res.Classification.RegionValid)
	})

	t.Run("geocoder", func(t *testing.T) {
		geo := &fakeGeocoder{rec: models.LocationRecord{Region: "Arusha", District: "Arusha City", Area: "Kaloleni"}}
		svc := NewLocationService(testTaxonomy(t), nil, geo, nil)
		res, err := svc.Resolve(ctx, "Kaloleni market")
		require.NoError(t, err)
		assert.Equal(t, "googlemaps", res.Parser)
		assert.Equal(t, geo.rec, res.Record)
		assert.True(t, res.Classification.AreaValid)
	})

	t.Run("geocoder failure", func(t *testing.T) {
		svc := NewLocationService(testTaxonomy(t), nil, &fakeGeocoder{err: errBackend}, nil)
		res, err := svc.Resolve(ctx, "Uyole, Mbeya Urban, Mbeya")
		require.NoError(t, err)
		assert.NotEqual(t, "googlemaps", res.Parser)
		assert.Equal(t, "Mbeya", res.Record.Region)
	})

	t.Run("empty", func(t *testing.T) {
		svc := NewLocationService(testTaxonomy(t), nil, nil, nil)
		_, err := svc.Resolve(ctx, "")
		assert.True(t, apperrors.IsValidation(err))
	})
}
