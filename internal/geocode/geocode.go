// Package geocode resolves free-text places through the Google Geocoding API
package geocode

import (
	"context"
	"fmt"
	"strings"

	"github.com/listing-locator/app/models"
	"github.com/listing-locator/internal/apperrors"
	"github.com/listing-locator/internal/external"
	"github.com/listing-locator/internal/metrics"
	"go.uber.org/zap"
	"googlemaps.github.io/maps"
)

const backend = "googlemaps"

// Geocoder wraps the maps client with a country restriction
type Geocoder struct {
	client  *maps.Client
	country string
	logger  *zap.Logger
}

// New creates a geocoder restricted to the given ISO country code
func New(apiKey, country string, logger *zap.Logger) (*Geocoder, error) {
	if apiKey == "" {
		return nil, apperrors.NewValidation("geocode.New", "api key is required", nil)
	}
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	if country == "" {
		country = "TZ"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Geocoder{client: client, country: strings.ToUpper(country), logger: logger}, nil
}

// Resolve geocodes text and maps the first result onto record fields
func (g *Geocoder) Resolve(ctx context.Context, text string) (models.LocationRecord, error) {
	req := &maps.GeocodingRequest{
		Address: text,
		Region:  strings.ToLower(g.country),
		Components: map[maps.Component]string{
			maps.ComponentCountry: g.country,
		},
	}

	results, err := g.client.Geocode(ctx, req)
	if err != nil {
		metrics.GeocodeRequestsTotal.WithLabelValues(backend, "error").Inc()
		g.logger.Warn("geocode failed", zap.String("text", text), zap.Error(err))
		return models.LocationRecord{}, apperrors.NewUnavailable("geocode.Resolve", backend, err)
	}
	if len(results) == 0 {
		metrics.GeocodeRequestsTotal.WithLabelValues(backend, "empty").Inc()
		return models.LocationRecord{}, apperrors.NewNotFound("geocode.Resolve", fmt.Sprintf("no geocoding result for %q", text))
	}

	metrics.GeocodeRequestsTotal.WithLabelValues(backend, "ok").Inc()
	return FromAddressComponents(results[0].AddressComponents), nil
}

// FromAddressComponents picks region, district and area from Google address
// components. Level 3 wins over sublocality which wins over neighborhood.
func FromAddressComponents(components []maps.AddressComponent) models.LocationRecord {
	var rec models.LocationRecord
	areaRank := 0

	for _, c := range components {
		for _, typ := range c.Types {
			switch typ {
			case "administrative_area_level_1":
				rec.Region = external.StripSuffix(c.LongName)
			case "administrative_area_level_2":
				rec.District = external.StripSuffix(c.LongName)
			case "administrative_area_level_3":
				if areaRank < 4 {
					rec.Area, areaRank = external.StripSuffix(c.LongName), 4
				}
			case "sublocality", "sublocality_level_1":
				if areaRank < 3 {
					rec.Area, areaRank = external.StripSuffix(c.LongName), 3
				}
			case "neighborhood":
				if areaRank < 2 {
					rec.Area, areaRank = external.StripSuffix(c.LongName), 2
				}
			case "locality":
				if areaRank < 1 {
					rec.Area, areaRank = external.StripSuffix(c.LongName), 1
				}
			}
		}
	}

	// A locality named like its district is the district itself
	if areaRank == 1 && strings.EqualFold(rec.Area, rec.District) {
		rec.Area = ""
	}
	return rec
}
