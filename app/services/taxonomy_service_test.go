package services

import (
	"context"
	"testing"

	"github.com/listing-locator/internal/apperrors"
	"github.com/listing-locator/internal/taxonomy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaxonomyServiceValidate(t *testing.T) {
	svc := NewTaxonomyService(NewLocationService(testTaxonomy(t), nil, nil, nil), nil, nil, nil)

	v, err := svc.Validate(testSource())
	require.NoError(t, err)
	assert.True(t, v.Passed)
	assert.Equal(t, taxonomy.Stats{Regions: 2, Districts: 3, Wards: 4}, v.Stats)

	bad := testSource()
	bad.Regions[0].Districts = append(bad.Regions[0].Districts, taxonomy.SourceNode{Name: "mbeya  URBAN"})
	v, err = svc.Validate(bad)
	require.NoError(t, err)
	assert.False(t, v.Passed)
	require.NotNil(t, v.Err)
	assert.Equal(t, taxonomy.ReasonDuplicate, v.Err.Reason)
}

func TestTaxonomyServiceSeed(t *testing.T) {
	ctx := context.Background()
	locations := NewLocationService(testTaxonomy(t), nil, nil, nil)
	units := &fakeUnits{}
	idx := &fakeIndexer{}
	svc := NewTaxonomyService(locations, units, idx, nil)

	src := testSource()
	src.Regions = append(src.Regions, taxonomy.SourceNode{Name: "Iringa"})
	res, err := svc.Seed(ctx, &src, true)
	require.NoError(t, err)

	assert.Equal(t, 10, res.UnitsProcessed)
	assert.Equal(t, 10, res.DocumentsIndexed)
	assert.True(t, idx.built)
	assert.Equal(t, res.Version, units.version)
	assert.Equal(t, res.Version, locations.Taxonomy().Version())
	assert.Contains(t, locations.Taxonomy().Regions(), "Iringa")

	loaded, err := svc.LoadFromStore(ctx)
	require.NoError(t, err)
	assert.Equal(t, res.Version, loaded.Version())
}

func TestTaxonomyServiceSeedErrors(t *testing.T) {
	ctx := context.Background()
	locations := NewLocationService(testTaxonomy(t), nil, nil, nil)

	_, err := NewTaxonomyService(locations, nil, nil, nil).Seed(ctx, nil, false)
	assert.True(t, apperrors.IsUnavailable(err))

	bad := taxonomy.Source{}
	_, err = NewTaxonomyService(locations, &fakeUnits{}, nil, nil).Seed(ctx, &bad, false)
	assert.True(t, apperrors.IsValidation(err))

	_, err = NewTaxonomyService(locations, &fakeUnits{err: errBackend}, nil, nil).Seed(ctx, nil, false)
	assert.True(t, apperrors.IsUnavailable(err))

	_, err = NewTaxonomyService(locations, &fakeUnits{}, nil, nil).LoadFromStore(ctx)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestTaxonomyServiceExport(t *testing.T) {
	svc := NewTaxonomyService(NewLocationService(testTaxonomy(t), nil, nil, nil), nil, nil, nil)

	for _, format := range []taxonomy.Format{taxonomy.FormatYAML, taxonomy.FormatJSON} {
		t.Run(string(format), func(t *testing.T) {
			data, err := svc.Export(format)
			require.NoError(t, err)

			src, err := taxonomy.Parse(data, format)
			require.NoError(t, err)
			tax, err := taxonomy.Build(src)
			require.NoError(t, err)
			assert.Equal(t, testTaxonomy(t).Version(), tax.Version())
		})
	}

	_, err := svc.Export("csv")
	assert.True(t, apperrors.IsValidation(err))
}
