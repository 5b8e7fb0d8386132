package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/listing-locator/app/models"
	"github.com/listing-locator/internal/normalizer"
	"github.com/listing-locator/internal/search"
	"github.com/listing-locator/internal/taxonomy"
	"github.com/stretchr/testify/require"
)

var errBackend = errors.New("backend down")

type fakeStore struct {
	listings []models.Listing
	err      error
	calls    int
}

func (f *fakeStore) ListByRegion(ctx context.Context, region string) ([]models.Listing, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Listing
	for _, l := range f.listings {
		if normalizer.Equal(l.Region, region) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeStore) ListAll(ctx context.Context) ([]models.Listing, error) {
	f.calls++
	return f.listings, f.err
}

func (f *fakeStore) Count(ctx context.Context) (int64, error) {
	return int64(len(f.listings)), f.err
}

type fakeUnits struct {
	mu      sync.Mutex
	units   []models.AdminUnit
	version string
	err     error
}

func (f *fakeUnits) ReplaceUnits(ctx context.Context, version string, units []models.AdminUnit) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.units, f.version = units, version
	return nil
}

func (f *fakeUnits) LoadUnits(ctx context.Context) ([]models.AdminUnit, error) {
	return f.units, f.err
}

func (f *fakeUnits) CountUnits(ctx context.Context) (int64, error) {
	return int64(len(f.units)), f.err
}

type fakeAudits struct {
	runs []*models.AuditRun
	err  error
}

func (f *fakeAudits) SaveRun(ctx context.Context, run *models.AuditRun) error {
	if f.err != nil {
		return f.err
	}
	f.runs = append(f.runs, run)
	return nil
}

func (f *fakeAudits) LatestRun(ctx context.Context) (*models.AuditRun, error) {
	if f.err != nil || len(f.runs) == 0 {
		return nil, f.err
	}
	return f.runs[len(f.runs)-1], nil
}

func (f *fakeAudits) CountRuns(ctx context.Context) (int64, error) {
	return int64(len(f.runs)), f.err
}

type fakeIndexer struct {
	built  bool
	seeded int
	err    error
}

func (f *fakeIndexer) BuildIndexes() error {
	f.built = true
	return f.err
}

func (f *fakeIndexer) SeedUnits(units []models.AdminUnit) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.seeded = len(units)
	return len(units), nil
}

func (f *fakeIndexer) DocumentCount() (int64, error) {
	return int64(f.seeded), f.err
}

type fakeSuggester struct {
	docs []search.LocationDocument
	err  error
}

func (f *fakeSuggester) Suggest(req search.SuggestRequest) ([]search.LocationDocument, error) {
	return f.docs, f.err
}

type fakeGeocoder struct {
	rec models.LocationRecord
	err error
}

func (f *fakeGeocoder) Resolve(ctx context.Context, text string) (models.LocationRecord, error) {
	return f.rec, f.err
}

func testSource() taxonomy.Source {
	return taxonomy.Source{Regions: []taxonomy.SourceNode{
		{Name: "Mbeya", Districts: []taxonomy.SourceNode{
			{Name: "Mbeya Urban", Wards: []taxonomy.SourceNode{{Name: "Iyunga"}, {Name: "Uyole"}}},
			{Name: "Chunya", Wards: []taxonomy.SourceNode{{Name: "Makongolosi"}}},
		}},
		{Name: "Arusha", Districts: []taxonomy.SourceNode{
			{Name: "Arusha City", Wards: []taxonomy.SourceNode{{Name: "Kaloleni"}}},
		}},
	}}
}

func testTaxonomy(t *testing.T) *taxonomy.Taxonomy {
	t.Helper()
	tax, err := taxonomy.Build(testSource())
	require.NoError(t, err)
	return tax
}

func listing(id, region, district, area string, age time.Duration) models.Listing {
	return models.Listing{
		ID:         id,
		ProviderID: "p-" + id,
		Title:      "Service " + id,
		Category:   "tours",
		Price:      100,
		IsActive:   true,
		Region:     region,
		District:   district,
		Area:       area,
		CreatedAt:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(-age),
	}
}
