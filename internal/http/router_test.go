package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	httpH "github.com/HariKrishnaKumar/bitewise-backend/internal/http/handlers"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/observability"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/platform/logger"
)

func TestRouterWiresOptionalRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(RouterConfig{
		Log:             logger.Nop(),
		Metrics:         observability.NewMetrics(),
		HealthHandler:   httpH.NewHealthHandler(nil),
		DeliveryHandler: httpH.NewDeliveryHandler(nil),
	})

	cases := []struct {
		method, path string
		status       int
		contains     string
	}{
		{http.MethodGet, "/healthcheck", http.StatusOK, "ok"},
		{http.MethodPost, "/api/delivery", http.StatusServiceUnavailable, "delivery_disabled"},
		{http.MethodPost, "/api/conversation/wizard/step", http.StatusNotFound, "route not found"},
		{http.MethodGet, "/metrics", http.StatusOK, "bw_http_requests_total"},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(tc.method, tc.path, nil)
		r.ServeHTTP(rec, req)
		if rec.Code != tc.status || !strings.Contains(rec.Body.String(), tc.contains) {
			t.Fatalf("%s %s: status=%d body=%q", tc.method, tc.path, rec.Code, rec.Body.String())
		}
		if rec.Header().Get("X-Request-Id") == "" {
			t.Fatalf("%s %s: request id header missing", tc.method, tc.path)
		}
	}
}
