package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/listing-locator/app/responses"
	"github.com/listing-locator/app/services"
	"go.uber.org/zap"
)

// Pinger checks one backing system
type Pinger func(ctx context.Context) error

// HealthController serves liveness and readiness probes
type HealthController struct {
	locationService *services.LocationService
	checks          map[string]Pinger
	started         time.Time
	logger          *zap.Logger
}

// NewHealthController creates a HealthController. checks name the backing
// systems that must answer for the service to be ready.
func NewHealthController(locationService *services.LocationService, checks map[string]Pinger, logger *zap.Logger) *HealthController {
	if checks == nil {
		checks = map[string]Pinger{}
	}
	return &HealthController{
		locationService: locationService,
		checks:          checks,
		started:         time.Now(),
		logger:          logger,
	}
}

// Health reports status, taxonomy version and uptime
func (hc *HealthController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, responses.HealthResponse{
		Status:          "healthy",
		TaxonomyVersion: hc.locationService.Taxonomy().Version(),
		Uptime:          time.Since(hc.started).Round(time.Second).String(),
		Time:            time.Now().UTC(),
	})
}

// Live answers as long as the process serves requests
func (hc *HealthController) Live(c *gin.Context) {
	c.JSON(http.StatusOK, responses.HealthResponse{Status: "alive", Time: time.Now().UTC()})
}

// Ready pings every backing system
func (hc *HealthController) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status, code := "ready", http.StatusOK
	results := make(map[string]string, len(hc.checks))
	for name, ping := range hc.checks {
		if err := ping(ctx); err != nil {
			hc.logger.Warn("readiness check failed", zap.String("system", name), zap.Error(err))
			results[name] = err.Error()
			status, code = "not_ready", http.StatusServiceUnavailable
			continue
		}
		results[name] = "ok"
	}

	c.JSON(code, responses.HealthResponse{
		Status:          status,
		Checks:          results,
		TaxonomyVersion: hc.locationService.Taxonomy().Version(),
		Time:            time.Now().UTC(),
	})
}
