package service

import (
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService owns the Prometheus registry for the API process.
type MetricsService struct {
	registry           *prometheus.Registry
	handler            http.Handler
	requestDuration    *prometheus.HistogramVec
	requestTotal       *prometheus.CounterVec
	dbQueryDuration    *prometheus.HistogramVec
	rateLimitRejected  *prometheus.CounterVec
	rateLimitStoreErrs prometheus.Counter
	privacyViolations  *prometheus.CounterVec
	auditDropped       prometheus.Counter
	cacheLookups       *prometheus.CounterVec
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	dbQueryDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "db_query_duration_seconds",
		Help:    "Duration of database statements by leading keyword",
		Buckets: prometheus.DefBuckets,
	}, []string{"query"})

	rateLimitRejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rate_limit_rejections_total",
		Help: "Requests rejected by the rate limiter",
	}, []string{"endpoint"})

	rateLimitStoreErrs := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rate_limit_store_errors_total",
		Help: "Counter store failures that let a request through unchecked",
	})

	privacyViolations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "privacy_violations_total",
		Help: "Analytics responses blocked by the privacy guard",
	}, []string{"endpoint"})

	auditDropped := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "audit_entries_dropped_total",
		Help: "Audit entries discarded because the write buffer was full",
	})

	cacheLookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cache_lookups_total",
		Help: "Snapshot cache lookups by result",
	}, []string{"result"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, dbQueryDuration, rateLimitRejected, rateLimitStoreErrs,
		privacyViolations, auditDropped, cacheLookups, goroutines)

	return &MetricsService{
		registry:           registry,
		handler:            promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:    requestDuration,
		requestTotal:       requestTotal,
		dbQueryDuration:    dbQueryDuration,
		rateLimitRejected:  rateLimitRejected,
		rateLimitStoreErrs: rateLimitStoreErrs,
		privacyViolations:  privacyViolations,
		auditDropped:       auditDropped,
		cacheLookups:       cacheLookups,
	}
}

// Registry exposes the underlying registry, mainly for tests.
func (m *MetricsService) Registry() *prometheus.Registry {
	return m.registry
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := strconv.Itoa(status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// ObserveDBQuery records database statement timing.
func (m *MetricsService) ObserveDBQuery(label string, duration time.Duration) {
	if m == nil {
		return
	}
	m.dbQueryDuration.WithLabelValues(label).Observe(duration.Seconds())
}

// RateLimitRejected counts a 429 for endpoint.
func (m *MetricsService) RateLimitRejected(endpoint string) {
	if m == nil {
		return
	}
	m.rateLimitRejected.WithLabelValues(endpoint).Inc()
}

// RateLimitStoreError counts a counter store failure.
func (m *MetricsService) RateLimitStoreError() {
	if m == nil {
		return
	}
	m.rateLimitStoreErrs.Inc()
}

// PrivacyViolation counts a blocked analytics response.
func (m *MetricsService) PrivacyViolation(endpoint string) {
	if m == nil {
		return
	}
	m.privacyViolations.WithLabelValues(endpoint).Inc()
}

// AuditDropped counts an audit entry lost to back pressure.
func (m *MetricsService) AuditDropped() {
	if m == nil {
		return
	}
	m.auditDropped.Inc()
}

// CacheLookup counts a snapshot cache hit or miss.
func (m *MetricsService) CacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}
