package services

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/listing-locator/app/models"
	"github.com/listing-locator/internal/apperrors"
	"github.com/listing-locator/internal/external"
	"github.com/listing-locator/internal/locator"
	"github.com/listing-locator/internal/normalizer"
	"github.com/listing-locator/internal/search"
	"github.com/listing-locator/internal/taxonomy"
	"go.uber.org/zap"
)

// Suggester serves typeahead over the indexed taxonomy
type Suggester interface {
	Suggest(req search.SuggestRequest) ([]search.LocationDocument, error)
}

// Geocoder turns free text into a location record
type Geocoder interface {
	Resolve(ctx context.Context, text string) (models.LocationRecord, error)
}

// ResolveResult is free text mapped onto a record and checked
type ResolveResult struct {
	Record         models.LocationRecord
	Parser         string
	Classification locator.Classification
}

// LocationService answers taxonomy questions for clients and operators
type LocationService struct {
	tax       atomic.Pointer[taxonomy.Taxonomy]
	suggester Suggester
	geocoder  Geocoder
	logger    *zap.Logger
}

// NewLocationService creates a LocationService. suggester and geocoder may be nil.
func NewLocationService(tax *taxonomy.Taxonomy, suggester Suggester, geocoder Geocoder, logger *zap.Logger) *LocationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &LocationService{suggester: suggester, geocoder: geocoder, logger: logger}
	s.tax.Store(tax)
	return s
}

// Taxonomy returns the taxonomy in use
func (s *LocationService) Taxonomy() *taxonomy.Taxonomy { return s.tax.Load() }

// SetTaxonomy swaps in a newly built taxonomy. Readers holding the old one
// keep a consistent view.
func (s *LocationService) SetTaxonomy(tax *taxonomy.Taxonomy) {
	old := s.tax.Swap(tax)
	if old == nil || old.Version() != tax.Version() {
		s.logger.Info("taxonomy replaced", zap.String("version", tax.Version()))
	}
}

// Regions lists region names in taxonomy order
func (s *LocationService) Regions() ([]string, string) {
	tax := s.Taxonomy()
	return tax.Regions(), tax.Version()
}

// Children lists districts of a region, or wards of a district
func (s *LocationService) Children(region, district string) ([]string, error) {
	tax := s.Taxonomy()
	if !tax.HasRegion(region) {
		return nil, apperrors.NewNotFound("LocationService.Children", "unknown region "+region)
	}
	if !normalizer.IsAbsent(district) && !tax.HasDistrict(region, district) {
		return nil, apperrors.NewNotFound("LocationService.Children", "unknown district "+district+" in "+region)
	}
	children := tax.Lookup(region, district)
	if children == nil {
		children = []string{}
	}
	return children, nil
}

// ClassifyValue reports every level and position where a bare value is legal
func (s *LocationService) ClassifyValue(value string) ([]models.AdminLevel, []taxonomy.Placement) {
	tax := s.Taxonomy()
	levels := tax.Classify(value)
	placements := tax.Placements(value)
	if levels == nil {
		levels = []models.AdminLevel{}
	}
	if placements == nil {
		placements = []taxonomy.Placement{}
	}
	return levels, placements
}

// ClassifyRecord runs the locator on one record
func (s *LocationService) ClassifyRecord(rec models.LocationRecord) locator.Classification {
	return locator.ClassifyRecord(rec, s.Taxonomy())
}

// Suggest returns names matching a prefix. Without a search index it scans
// the taxonomy.
func (s *LocationService) Suggest(ctx context.Context, req search.SuggestRequest) ([]search.LocationDocument, error) {
	if normalizer.IsAbsent(req.Query) {
		return nil, apperrors.NewValidation("LocationService.Suggest", "query must not be empty", nil)
	}
	if req.Limit <= 0 {
		req.Limit = 10
	}

	if s.suggester != nil {
		docs, err := s.suggester.Suggest(req)
		if err == nil {
			return docs, nil
		}
		s.logger.Warn("search index unavailable, scanning taxonomy", zap.Error(err))
	}
	return s.localSuggest(req), nil
}

func (s *LocationService) localSuggest(req search.SuggestRequest) []search.LocationDocument {
	tax := s.Taxonomy()
	q := normalizer.Normalize(req.Query)
	qASCII := normalizer.ASCIIKey(req.Query)
	region := normalizer.Normalize(req.Region)
	district := normalizer.Normalize(req.District)

	var prefix, inner []search.LocationDocument
	for _, doc := range search.DocumentsFromUnits(tax.Units(time.Time{})) {
		if req.Level.IsValid() && doc.Level != int(req.Level) {
			continue
		}
		if region != normalizer.Absent && doc.RegionKey != region {
			continue
		}
		if district != normalizer.Absent && doc.DistrictKey != district {
			continue
		}
		switch {
		case strings.HasPrefix(doc.NormalizedName, q), strings.HasPrefix(doc.ASCIIName, qASCII):
			prefix = append(prefix, doc)
		case strings.Contains(doc.NormalizedName, q), strings.Contains(doc.ASCIIName, qASCII):
			inner = append(inner, doc)
		}
	}

	docs := append(prefix, inner...)
	if len(docs) > req.Limit {
		docs = docs[:req.Limit]
	}
	if docs == nil {
		docs = []search.LocationDocument{}
	}
	return docs
}

// Resolve maps free text onto a record, preferring the geocoder and falling
// back to the address parser, then classifies the record
func (s *LocationService) Resolve(ctx context.Context, text string) (*ResolveResult, error) {
	if normalizer.IsAbsent(text) {
		return nil, apperrors.NewValidation("LocationService.Resolve", "text must not be empty", nil)
	}

	var (
		rec    models.LocationRecord
		parser string
	)
	if s.geocoder != nil {
		geo, err := s.geocoder.Resolve(ctx, text)
		if err == nil && !normalizer.IsAbsent(geo.Region) {
			rec, parser = geo, "googlemaps"
		} else if err != nil {
			s.logger.Warn("geocoder failed, using address parser", zap.String("text", text), zap.Error(err))
		}
	}
	if parser == "" {
		parts := external.ParseLocation(text)
		rec = models.LocationRecord{Region: parts.Region, District: parts.District, Area: parts.Area}
		parser = parts.Parser
	}

	return &ResolveResult{
		Record:         rec,
		Parser:         parser,
		Classification: s.ClassifyRecord(rec),
	}, nil
}
