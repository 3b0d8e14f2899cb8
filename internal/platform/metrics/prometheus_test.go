package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_CountsByRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	registry := prometheus.NewRegistry()
	m := NewServerMetrics("api", registry)

	router := gin.New()
	router.Use(m.Middleware())
	router.GET("/:store_id/orderstates", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/metrics", gin.WrapH(m.Handler()))

	for _, store := range []string{"s-1", "s-2"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/"+store+"/orderstates", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	require.Equal(t, float64(2), testutil.ToFloat64(m.Requests.WithLabelValues("/:store_id/orderstates", http.MethodGet, "200")))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "store_admin_api_http_requests_total")
}
