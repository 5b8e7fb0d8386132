package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/listing-locator/app/requests"
	"github.com/listing-locator/app/responses"
	"github.com/listing-locator/app/services"
	"go.uber.org/zap"
)

// ListingController serves listing searches
type ListingController struct {
	listingService *services.ListingService
	logger         *zap.Logger
}

// NewListingController creates a ListingController
func NewListingController(listingService *services.ListingService, logger *zap.Logger) *ListingController {
	return &ListingController{listingService: listingService, logger: logger}
}

// Search handles GET /v1/listings
func (lc *ListingController) Search(c *gin.Context) {
	var req requests.SearchListingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, err)
		return
	}

	start := time.Now()
	result, err := lc.listingService.Search(c.Request.Context(), req)
	if err != nil {
		respondError(c, lc.logger, err)
		return
	}

	c.JSON(http.StatusOK, responses.SearchListingsResponse{
		Listings:         result.Listings,
		Level:            result.Level,
		Reason:           result.Reason,
		Mode:             result.Mode,
		Total:            result.Total,
		Page:             result.Page,
		Limit:            result.Limit,
		CacheHit:         result.CacheHit,
		Tiers:            result.Tiers,
		ProcessingTimeMs: time.Since(start).Milliseconds(),
	})
}
