// Package routes wires controllers onto a gin engine.
//
// api.go mounts /v1 and the probes, web.go the index pages, middleware.go
// request ids and access logging.
package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SetupAllRoutes installs middleware and every route group
func SetupAllRoutes(router *gin.Engine, ctl Controllers, version string, logger *zap.Logger) {
	router.Use(gin.Recovery())
	router.Use(RequestID())
	router.Use(AccessLog(logger))

	SetupWebRoutes(router, version)
	SetupHealthRoutes(router, ctl.Health)
	SetupAPIRoutes(router, ctl)
	SetupMetricsRoutes(router)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":  "NOT_FOUND",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})
}
