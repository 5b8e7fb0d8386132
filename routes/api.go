package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/listing-locator/app/controllers"
	"github.com/listing-locator/internal/metrics"
)

// Controllers groups every handler the router mounts
type Controllers struct {
	Listing  *controllers.ListingController
	Location *controllers.LocationController
	Admin    *controllers.AdminController
	Health   *controllers.HealthController
}

// SetupAPIRoutes mounts the /v1 API
func SetupAPIRoutes(router *gin.Engine, ctl Controllers) {
	v1 := router.Group("/v1")
	{
		v1.GET("/listings", ctl.Listing.Search)

		locations := v1.Group("/locations")
		{
			locations.GET("/regions", ctl.Location.Regions)
			locations.GET("/children", ctl.Location.Children)
			locations.GET("/classify", ctl.Location.ClassifyValue)
			locations.POST("/records/classify", ctl.Location.ClassifyRecord)
			locations.GET("/suggest", ctl.Location.Suggest)
			locations.POST("/resolve", ctl.Location.Resolve)
		}

		admin := v1.Group("/admin")
		{
			admin.POST("/audit", ctl.Admin.RunAudit)
			admin.GET("/audit/latest", ctl.Admin.LatestAudit)
			admin.POST("/taxonomy/validate", ctl.Admin.ValidateTaxonomy)
			admin.POST("/taxonomy/seed", ctl.Admin.SeedTaxonomy)
			admin.GET("/taxonomy/export", ctl.Admin.ExportTaxonomy)
			admin.POST("/cache/invalidate", ctl.Admin.InvalidateCache)
			admin.GET("/cache/entry", ctl.Admin.CacheEntry)
			admin.GET("/stats", ctl.Admin.GetStats)
		}

		v1.GET("/health", ctl.Health.Health)
	}
}

// SetupHealthRoutes mounts the probe endpoints
func SetupHealthRoutes(router *gin.Engine, health *controllers.HealthController) {
	router.GET("/health", health.Health)
	router.GET("/ready", health.Ready)
	router.GET("/live", health.Live)
}

// SetupMetricsRoutes exposes Prometheus metrics
func SetupMetricsRoutes(router *gin.Engine) {
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
}
