package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestWithMetrics_UsesRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	handler, err := RegisterMetrics(MetricsConfig{Registry: reg})
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Use(WithMetrics)
	r.Get("/profile", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusTeapot) })
	r.Handle("/metrics", handler)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/profile?tenantName=app1", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/random/abc123", nil))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()

	require.Contains(t, body, `http_requests_total{method="GET",route="/profile",status="418"}`)
	require.Contains(t, body, `route="unmatched",status="404"`)
	require.False(t, strings.Contains(body, "abc123"))
}
