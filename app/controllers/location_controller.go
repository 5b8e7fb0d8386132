package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/listing-locator/app/requests"
	"github.com/listing-locator/app/responses"
	"github.com/listing-locator/app/services"
	"github.com/listing-locator/internal/normalizer"
	"github.com/listing-locator/internal/search"
	"go.uber.org/zap"
)

// LocationController serves taxonomy lookups and free-text resolution
type LocationController struct {
	locationService *services.LocationService
	logger          *zap.Logger
}

// NewLocationController creates a LocationController
func NewLocationController(locationService *services.LocationService, logger *zap.Logger) *LocationController {
	return &LocationController{locationService: locationService, logger: logger}
}

// Regions handles GET /v1/locations/regions
func (lc *LocationController) Regions(c *gin.Context) {
	regions, version := lc.locationService.Regions()
	c.JSON(http.StatusOK, responses.RegionsResponse{Regions: regions, TaxonomyVersion: version})
}

// Children handles GET /v1/locations/children
func (lc *LocationController) Children(c *gin.Context) {
	var req requests.ChildrenRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, err)
		return
	}

	children, err := lc.locationService.Children(req.Region, req.District)
	if err != nil {
		respondError(c, lc.logger, err)
		return
	}
	c.JSON(http.StatusOK, responses.ChildrenResponse{Region: req.Region, District: req.District, Children: children})
}

// ClassifyValue handles GET /v1/locations/classify
func (lc *LocationController) ClassifyValue(c *gin.Context) {
	var req requests.ClassifyValueRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, err)
		return
	}

	levels, placements := lc.locationService.ClassifyValue(req.Value)
	c.JSON(http.StatusOK, responses.ClassifyValueResponse{
		Value:      req.Value,
		Normalized: normalizer.Normalize(req.Value),
		Levels:     levels,
		Placements: placements,
	})
}

// ClassifyRecord handles POST /v1/locations/records/classify
func (lc *LocationController) ClassifyRecord(c *gin.Context) {
	var req requests.ClassifyRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	classification := lc.locationService.ClassifyRecord(req.Record)
	c.JSON(http.StatusOK, responses.ClassifyRecordResponse{
		Classification:  classification,
		Searchable:      classification.Searchable(),
		TaxonomyVersion: lc.locationService.Taxonomy().Version(),
	})
}

// Suggest handles GET /v1/locations/suggest
func (lc *LocationController) Suggest(c *gin.Context) {
	var req requests.SuggestRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, err)
		return
	}

	hits, err := lc.locationService.Suggest(c.Request.Context(), search.SuggestRequest{
		Query:    req.Query,
		Level:    requests.ParseLevel(req.Level),
		Region:   req.Region,
		District: req.District,
		Limit:    req.Limit,
	})
	if err != nil {
		respondError(c, lc.logger, err)
		return
	}
	c.JSON(http.StatusOK, responses.SuggestResponse{Query: req.Query, Hits: hits})
}

// Resolve handles POST /v1/locations/resolve
func (lc *LocationController) Resolve(c *gin.Context) {
	var req requests.ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := lc.locationService.Resolve(c.Request.Context(), req.Text)
	if err != nil {
		respondError(c, lc.logger, err)
		return
	}
	c.JSON(http.StatusOK, responses.ResolveResponse{
		Text:           req.Text,
		Record:         result.Record,
		Parser:         result.Parser,
		Classification: result.Classification,
	})
}
