package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/listing-locator/app/controllers"
	"github.com/listing-locator/app/models"
	"github.com/listing-locator/app/services"
	"github.com/listing-locator/internal/auditor"
	"github.com/listing-locator/internal/taxonomy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type emptyStore struct{}

func (emptyStore) ListByRegion(ctx context.Context, region string) ([]models.Listing, error) {
	return nil, nil
}

func (emptyStore) ListAll(ctx context.Context) ([]models.Listing, error) { return nil, nil }

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tax, err := taxonomy.Embedded()
	require.NoError(t, err)

	logger := zap.NewNop()
	locations := services.NewLocationService(tax, nil, nil, logger)
	listings := services.NewListingService(emptyStore{}, nil, services.ListingServiceConfig{}, logger)
	ctl := Controllers{
		Listing:  controllers.NewListingController(listings, logger),
		Location: controllers.NewLocationController(locations, logger),
		Admin: controllers.NewAdminController(
			services.NewAuditService(emptyStore{}, locations, nil, auditor.DefaultOptions(), logger),
			services.NewTaxonomyService(locations, nil, nil, logger),
			listings,
			services.NewStatsService(locations, listings, services.StatsDeps{}, logger),
			logger),
		Health: controllers.NewHealthController(locations, nil, logger),
	}

	r := gin.New()
	SetupAllRoutes(r, ctl, "test", logger)
	return r
}

func TestRoutesRegistered(t *testing.T) {
	r := newRouter(t)

	registered := map[string]bool{}
	for _, route := range r.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	for _, want := range []string{
		"GET /v1/listings",
		"GET /v1/locations/regions",
		"GET /v1/locations/children",
		"GET /v1/locations/classify",
		"POST /v1/locations/records/classify",
		"GET /v1/locations/suggest",
		"POST /v1/locations/resolve",
		"POST /v1/admin/audit",
		"GET /v1/admin/audit/latest",
		"POST /v1/admin/taxonomy/validate",
		"POST /v1/admin/taxonomy/seed",
		"GET /v1/admin/taxonomy/export",
		"POST /v1/admin/cache/invalidate",
		"GET /v1/admin/cache/entry",
		"GET /v1/admin/stats",
		"GET /health",
		"GET /ready",
		"GET /live",
		"GET /metrics",
		"GET /",
		"GET /docs",
	} {
		assert.True(t, registered[want], want)
	}
}

func TestRequestIDAndNotFound(t *testing.T) {
	r := newRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Len(t, w.Header().Get(RequestIDHeader), 8)

	req := httptest.NewRequest(http.MethodGet, "/live", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestMetricsRoute(t *testing.T) {
	r := newRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/listings?region=Mbeya", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "locator_search_requests_total")
	assert.Contains(t, w.Body.String(), `locator_match_level_total{level="none"}`)
}

func TestTimeout(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name        string
		timeout     time.Duration
		hasDeadline bool
	}{
		{"bounded", time.Second, true},
		{"disabled", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(Timeout(tt.timeout))
			var got bool
			r.GET("/x", func(c *gin.Context) {
				_, got = c.Request.Context().Deadline()
				c.Status(http.StatusNoContent)
			})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
			assert.Equal(t, http.StatusNoContent, w.Code)
			assert.Equal(t, tt.hasDeadline, got)
		})
	}
}
