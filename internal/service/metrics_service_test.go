package service

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsServiceExposesCollectors(t *testing.T) {
	metrics := NewMetricsService()
	metrics.ObserveHTTPRequest(http.MethodGet, "/api/public/metrics", http.StatusOK, 15*time.Millisecond)
	metrics.ObserveDBQuery("select", 2*time.Millisecond)
	metrics.PrivacyViolation("public_metrics")
	metrics.AuditDropped()

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.requestTotal.WithLabelValues("GET", "/api/public/metrics", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.privacyViolations.WithLabelValues("public_metrics")))

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "db_query_duration_seconds")
	assert.Contains(t, rec.Body.String(), "audit_entries_dropped_total 1")
}

func TestNilMetricsServiceIsSafe(t *testing.T) {
	var metrics *MetricsService
	assert.NotPanics(t, func() {
		metrics.ObserveHTTPRequest("GET", "/", 200, time.Millisecond)
		metrics.RateLimitRejected("x")
		metrics.AuditDropped()
	})
	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
