package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SetupWebRoutes mounts the index page listing the API
func SetupWebRoutes(router *gin.Engine, version string) {
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Listing Locator Service",
			"version": version,
			"docs":    "/docs",
		})
	})

	router.GET("/docs", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"api": "Listing Locator API v1",
			"endpoints": map[string]string{
				"search":          "GET /v1/listings?region=&district=&area=&mode=cascade|hierarchical",
				"regions":         "GET /v1/locations/regions",
				"children":        "GET /v1/locations/children?region=&district=",
				"classify":        "GET /v1/locations/classify?value=",
				"classify_record": "POST /v1/locations/records/classify",
				"suggest":         "GET /v1/locations/suggest?q=&level=&region=&district=",
				"resolve":         "POST /v1/locations/resolve",
				"audit":           "POST /v1/admin/audit",
				"latest_audit":    "GET /v1/admin/audit/latest",
				"cache_entry":     "GET /v1/admin/cache/entry?region=",
				"invalidate":      "POST /v1/admin/cache/invalidate?region=",
				"health":          "GET /health",
				"metrics":         "GET /metrics",
			},
		})
	})
}
