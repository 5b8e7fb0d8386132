package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/listing-locator/app/models"
	"github.com/listing-locator/internal/apperrors"
	"github.com/listing-locator/internal/taxonomy"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Indexer maintains the typeahead index
type Indexer interface {
	BuildIndexes() error
	SeedUnits(units []models.AdminUnit) (int, error)
	DocumentCount() (int64, error)
}

// TaxonomyValidation is the outcome of a dry-run build
type TaxonomyValidation struct {
	Passed  bool
	Version string
	Stats   taxonomy.Stats
	Err     *taxonomy.BuildError
}

// SeedResult summarizes a taxonomy seed
type SeedResult struct {
	Version          string
	UnitsProcessed   int
	DocumentsIndexed int
	ProcessingTime   time.Duration
}

// TaxonomyService manages the taxonomy lifecycle: validation, persistence,
// indexing and export
type TaxonomyService struct {
	locations *LocationService
	units     UnitStore
	indexer   Indexer
	logger    *zap.Logger
}

// NewTaxonomyService creates a TaxonomyService. units and indexer may be nil.
func NewTaxonomyService(locations *LocationService, units UnitStore, indexer Indexer, logger *zap.Logger) *TaxonomyService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TaxonomyService{locations: locations, units: units, indexer: indexer, logger: logger}
}

// Validate builds src without installing it
func (ts *TaxonomyService) Validate(src taxonomy.Source) (*TaxonomyValidation, error) {
	tax, err := taxonomy.Build(src)
	if err != nil {
		var be *taxonomy.BuildError
		if errors.As(err, &be) {
			return &TaxonomyValidation{Passed: false, Err: be}, nil
		}
		return nil, err
	}
	return &TaxonomyValidation{Passed: true, Version: tax.Version(), Stats: tax.Stats()}, nil
}

// Seed builds src (or reuses the running taxonomy when src is nil), stores
// its units, optionally reindexes, and installs it
func (ts *TaxonomyService) Seed(ctx context.Context, src *taxonomy.Source, rebuildIndexes bool) (*SeedResult, error) {
	start := time.Now()

	tax := ts.locations.Taxonomy()
	if src != nil {
		built, err := taxonomy.Build(*src)
		if err != nil {
			return nil, apperrors.NewValidation("TaxonomyService.Seed", "taxonomy source rejected", err)
		}
		tax = built
	}
	if ts.units == nil {
		return nil, apperrors.NewUnavailable("TaxonomyService.Seed", "mongodb", errors.New("not configured"))
	}

	units := tax.Units(time.Now().UTC())
	if err := ts.units.ReplaceUnits(ctx, tax.Version(), units); err != nil {
		return nil, apperrors.NewUnavailable("TaxonomyService.Seed", "mongodb", err)
	}

	result := &SeedResult{Version: tax.Version(), UnitsProcessed: len(units)}

	if rebuildIndexes && ts.indexer != nil {
		if err := ts.indexer.BuildIndexes(); err != nil {
			ts.logger.Warn("failed to apply index settings", zap.Error(err))
		}
		n, err := ts.indexer.SeedUnits(units)
		if err != nil {
			ts.logger.Warn("failed to index units", zap.Error(err))
		}
		result.DocumentsIndexed = n
	}

	ts.locations.SetTaxonomy(tax)
	result.ProcessingTime = time.Since(start)

	ts.logger.Info("taxonomy seed completed",
		zap.String("taxonomy_version", result.Version),
		zap.Int("units_processed", result.UnitsProcessed),
		zap.Int("documents_indexed", result.DocumentsIndexed),
		zap.Duration("processing_time", result.ProcessingTime))
	return result, nil
}

// LoadFromStore rebuilds the taxonomy from stored units
func (ts *TaxonomyService) LoadFromStore(ctx context.Context) (*taxonomy.Taxonomy, error) {
	if ts.units == nil {
		return nil, apperrors.NewUnavailable("TaxonomyService.LoadFromStore", "mongodb", errors.New("not configured"))
	}
	units, err := ts.units.LoadUnits(ctx)
	if err != nil {
		return nil, apperrors.NewUnavailable("TaxonomyService.LoadFromStore", "mongodb", err)
	}
	if len(units) == 0 {
		return nil, apperrors.NewNotFound("TaxonomyService.LoadFromStore", "no stored taxonomy units")
	}
	return taxonomy.FromUnits(units)
}

// Export renders the running taxonomy in its source format
func (ts *TaxonomyService) Export(format taxonomy.Format) ([]byte, error) {
	src := ts.locations.Taxonomy().Source()
	switch format {
	case taxonomy.FormatJSON:
		return json.MarshalIndent(src, "", "  ")
	case taxonomy.FormatYAML, "":
		return yaml.Marshal(src)
	default:
		return nil, apperrors.NewValidation("TaxonomyService.Export", fmt.Sprintf("unsupported format %q", format), nil)
	}
}

// CurrentSource returns the running taxonomy in source form
func (ts *TaxonomyService) CurrentSource() taxonomy.Source {
	return ts.locations.Taxonomy().Source()
}
