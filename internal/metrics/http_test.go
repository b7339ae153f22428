package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMetricsRouter(t *testing.T, namespace string, skip ...string) (*gin.Engine, *Provider) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	provider, err := NewProvider(namespace)
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	})

	router := gin.New()
	router.Use(HTTPMetricsMiddleware(provider.MeterProvider(), namespace, skip...))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	router.GET("/v1/certificates/:reference_id", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"reference_id": c.Param("reference_id")})
	})
	router.POST("/v1/organizers", func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{})
	})
	return router, provider
}

func serve(router *gin.Engine, method, path string) int {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w.Code
}

func TestHTTPMetricsMiddleware_RoutePatterns(t *testing.T) {
	router, provider := newMetricsRouter(t, "certify_http")

	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/v1/certificates/CERT-1"))
	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/v1/certificates/CERT-2"))
	assert.Equal(t, http.StatusCreated, serve(router, http.MethodPost, "/v1/organizers"))

	output := scrape(t, provider)

	assertBizMetricLine(t, output, `certify_http_http_requests_total`,
		`method="GET".*path="/v1/certificates/:reference_id".*status_code="200"`, `2`)
	assertBizMetricLine(t, output, `certify_http_http_requests_total`,
		`method="POST".*path="/v1/organizers".*status_code="201"`, `1`)
	assert.NotContains(t, output, "CERT-1")
}

func TestHTTPMetricsMiddleware_UnmatchedRoute(t *testing.T) {
	router, provider := newMetricsRouter(t, "certify_unmatched")

	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodGet, "/nope"))

	output := scrape(t, provider)
	assertBizMetricLine(t, output, `certify_unmatched_http_requests_total`,
		`path="unknown".*status_code="404"`, `1`)
}

func TestHTTPMetricsMiddleware_SkipsProbes(t *testing.T) {
	router, provider := newMetricsRouter(t, "certify_skip", "/health")

	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/health"))
	assert.Equal(t, http.StatusCreated, serve(router, http.MethodPost, "/v1/organizers"))

	output := scrape(t, provider)
	for _, line := range strings.Split(output, "\n") {
		if strings.HasPrefix(line, "certify_skip_http_requests_total") {
			assert.NotContains(t, line, `path="/health"`)
		}
	}
	assertBizMetricLine(t, output, `certify_skip_http_requests_total`, `path="/v1/organizers"`, `1`)
}

func TestRouteLabel(t *testing.T) {
	assert.Equal(t, "/v1/events/:reference_id", routeLabel("/v1/events/:reference_id"))
	assert.Equal(t, "/", routeLabel("/"))
	assert.Equal(t, "unknown", routeLabel(""))
}
