package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/metric/noop"
)

func newMeteredRouter(t *testing.T, provider *Provider) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(HTTPMetricsMiddleware(provider.MeterProvider(), testNamespace))
	router.GET("/v1/messages/:contact", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.POST("/v1/messages", func(c *gin.Context) { c.Status(http.StatusCreated) })
	router.GET("/v1/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })
	return router
}

func serve(router http.Handler, method, path string) int {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w.Code
}

func TestHTTPMetricsMiddleware_UsesRoutePattern(t *testing.T) {
	provider := newTestProvider(t)
	router := newMeteredRouter(t, provider)

	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/v1/messages/alice"))
	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/v1/messages/bob"))

	output := scrape(t, provider)
	assertSample(t, output, testNamespace+"_http_requests_total", "2",
		`method="GET"`, `path="/v1/messages/:contact"`, `status_code="200"`)
	assert.NotContains(t, output, "alice")
	assert.NotContains(t, output, "/v1/messages/bob")
}

func TestHTTPMetricsMiddleware_StatusCodes(t *testing.T) {
	provider := newTestProvider(t)
	router := newMeteredRouter(t, provider)

	assert.Equal(t, http.StatusCreated, serve(router, http.MethodPost, "/v1/messages"))
	assert.Equal(t, http.StatusInternalServerError, serve(router, http.MethodGet, "/v1/boom"))

	output := scrape(t, provider)
	assertSample(t, output, testNamespace+"_http_requests_total", "1",
		`method="POST"`, `path="/v1/messages"`, `status_code="201"`)
	assertSample(t, output, testNamespace+"_http_requests_total", "1",
		`path="/v1/boom"`, `status_code="500"`)
	assertSample(t, output, testNamespace+"_http_request_duration_seconds_count", "1",
		`path="/v1/messages"`)
}

func TestHTTPMetricsMiddleware_UnmatchedRoute(t *testing.T) {
	provider := newTestProvider(t)
	router := newMeteredRouter(t, provider)

	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodGet, "/v1/users/carol/secret"))

	output := scrape(t, provider)
	assertSample(t, output, testNamespace+"_http_requests_total", "1",
		`path="unknown"`, `status_code="404"`)
	assert.NotContains(t, output, "carol")
}

func TestHTTPMetricsMiddleware_InFlightReturnsToZero(t *testing.T) {
	provider := newTestProvider(t)
	router := newMeteredRouter(t, provider)

	serve(router, http.MethodGet, "/v1/messages/alice")

	assertSample(t, scrape(t, provider), testNamespace+"_http_requests_in_flight", "0", `method="GET"`)
}

func TestHTTPMetricsMiddleware_NoopMeterProvider(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(HTTPMetricsMiddleware(noop.NewMeterProvider(), testNamespace))
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/health"))
}
