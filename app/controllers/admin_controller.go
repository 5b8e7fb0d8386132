package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/listing-locator/app/requests"
	"github.com/listing-locator/app/responses"
	"github.com/listing-locator/app/services"
	"github.com/listing-locator/internal/taxonomy"
	"go.uber.org/zap"
)

// AdminController serves operator endpoints
type AdminController struct {
	auditService    *services.AuditService
	taxonomyService *services.TaxonomyService
	listingService  *services.ListingService
	statsService    *services.StatsService
	logger          *zap.Logger
}

// NewAdminController creates an AdminController
func NewAdminController(auditService *services.AuditService, taxonomyService *services.TaxonomyService, listingService *services.ListingService, statsService *services.StatsService, logger *zap.Logger) *AdminController {
	return &AdminController{
		auditService:    auditService,
		taxonomyService: taxonomyService,
		listingService:  listingService,
		statsService:    statsService,
		logger:          logger,
	}
}

// RunAudit handles POST /v1/admin/audit
func (ac *AdminController) RunAudit(c *gin.Context) {
	run, err := ac.auditService.Run(c.Request.Context(), services.AuditSourceAPI)
	if err != nil {
		respondError(c, ac.logger, err)
		return
	}
	c.JSON(http.StatusOK, run)
}

// LatestAudit handles GET /v1/admin/audit/latest
func (ac *AdminController) LatestAudit(c *gin.Context) {
	run, err := ac.auditService.Latest(c.Request.Context())
	if err != nil {
		respondError(c, ac.logger, err)
		return
	}
	c.JSON(http.StatusOK, run)
}

// ValidateTaxonomy handles POST /v1/admin/taxonomy/validate. A rejected
// source is still a 200 with passed=false.
func (ac *AdminController) ValidateTaxonomy(c *gin.Context) {
	var req requests.TaxonomyRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		badRequest(c, err)
		return
	}
	src := ac.taxonomyService.CurrentSource()
	if req.Source != nil {
		src = *req.Source
	}

	v, err := ac.taxonomyService.Validate(src)
	if err != nil {
		respondError(c, ac.logger, err)
		return
	}

	resp := responses.TaxonomyValidationResponse{Passed: v.Passed, Version: v.Version, Stats: v.Stats}
	if v.Err != nil {
		resp.Reason = v.Err.Reason
		resp.Message = v.Err.Error()
	}
	c.JSON(http.StatusOK, resp)
}

// SeedTaxonomy handles POST /v1/admin/taxonomy/seed
func (ac *AdminController) SeedTaxonomy(c *gin.Context) {
	var req requests.TaxonomyRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := ac.taxonomyService.Seed(c.Request.Context(), req.Source, req.RebuildIndexes)
	if err != nil {
		respondError(c, ac.logger, err)
		return
	}
	c.JSON(http.StatusOK, responses.SeedTaxonomyResponse{
		Version:          result.Version,
		UnitsProcessed:   result.UnitsProcessed,
		DocumentsIndexed: result.DocumentsIndexed,
		ProcessingTimeMs: result.ProcessingTime.Milliseconds(),
	})
}

// ExportTaxonomy handles GET /v1/admin/taxonomy/export?format=yaml|json
func (ac *AdminController) ExportTaxonomy(c *gin.Context) {
	format := taxonomy.Format(c.DefaultQuery("format", string(taxonomy.FormatYAML)))

	data, err := ac.taxonomyService.Export(format)
	if err != nil {
		respondError(c, ac.logger, err)
		return
	}

	contentType := "application/yaml"
	if format == taxonomy.FormatJSON {
		contentType = "application/json"
	}
	c.Header("Content-Disposition", "attachment; filename=taxonomy."+string(format))
	c.Data(http.StatusOK, contentType, data)
}

// InvalidateCache handles POST /v1/admin/cache/invalidate. With ?region=
// only that region's candidates are dropped.
func (ac *AdminController) InvalidateCache(c *gin.Context) {
	start := time.Now()
	region := c.Query("region")
	if region != "" {
		if err := ac.listingService.InvalidateRegion(c.Request.Context(), region); err != nil {
			respondError(c, ac.logger, err)
			return
		}
		ac.logger.Info("region candidates invalidated", zap.String("region", region), zap.Duration("took", time.Since(start)))
		c.JSON(http.StatusOK, responses.MessageResponse{Message: "candidate cache cleared for " + region})
		return
	}

	if err := ac.listingService.InvalidateCache(c.Request.Context()); err != nil {
		ac.logger.Error("cache invalidation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, responses.ErrorResponse{
			Error:   responses.CodeInternal,
			Message: "cache invalidation failed: " + err.Error(),
		})
		return
	}
	ac.logger.Info("candidate cache invalidated", zap.Duration("took", time.Since(start)))
	c.JSON(http.StatusOK, responses.MessageResponse{Message: "candidate cache cleared"})
}

// CacheEntry handles GET /v1/admin/cache/entry?region=
func (ac *AdminController) CacheEntry(c *gin.Context) {
	region := c.Query("region")
	entry, err := ac.listingService.CacheEntry(c.Request.Context(), region)
	if err != nil {
		respondError(c, ac.logger, err)
		return
	}
	c.JSON(http.StatusOK, responses.CacheEntryResponse{
		Region:     region,
		Key:        entry.Key,
		Cached:     entry.Cached,
		TTLSeconds: int64(entry.TTL / time.Second),
	})
}

// GetStats handles GET /v1/admin/stats
func (ac *AdminController) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, ac.statsService.GetSystemStats(c.Request.Context()))
}
