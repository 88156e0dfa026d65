package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stevemeierotto/Professor-Hawkeinstein-sub002/internal/dto"
	"github.com/stevemeierotto/Professor-Hawkeinstein-sub002/internal/handler"
	"github.com/stevemeierotto/Professor-Hawkeinstein-sub002/internal/middleware"
	"github.com/stevemeierotto/Professor-Hawkeinstein-sub002/internal/models"
	"github.com/stevemeierotto/Professor-Hawkeinstein-sub002/internal/repository"
	"github.com/stevemeierotto/Professor-Hawkeinstein-sub002/internal/service"
	"github.com/stevemeierotto/Professor-Hawkeinstein-sub002/pkg/config"
	"github.com/stevemeierotto/Professor-Hawkeinstein-sub002/pkg/privacy"
)

type auditLog struct {
	mu      sync.Mutex
	entries []models.AuditEntry
}

func (a *auditLog) Record(entry models.AuditEntry) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, entry)
}

func (a *auditLog) Recent(limit int) ([]models.AuditEntry, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]models.AuditEntry(nil), a.entries...), nil
}

func (a *auditLog) Between(from, to time.Time, limit int) ([]models.AuditEntry, int, error) {
	return nil, 0, nil
}

type snapshots struct{}

func (snapshots) Snapshot(context.Context) (*dto.PublicMetricsResponse, error) {
	return &dto.PublicMetricsResponse{
		Success: true,
		Metrics: []dto.PublicMetricItem{{Key: "total_students", Value: 12, Type: "count", Label: "Students"}},
	}, nil
}

type courses struct{}

func (courses) ListActive(context.Context) ([]models.Course, error) {
	return []models.Course{{CourseID: 1, CourseName: "Algebra", IsActive: true}}, nil
}

func (courses) Delete(_ context.Context, req models.DeleteCourseRequest) (*models.Course, error) {
	return &models.Course{CourseID: req.CourseID}, nil
}

type agents struct{}

func (agents) ListAdvisors(context.Context) ([]models.Agent, error) {
	return []models.Agent{}, nil
}

type testServer struct {
	engine *gin.Engine
	tokens *service.TokenService
	audit  *auditLog
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		Env:       config.EnvDevelopment,
		CORS:      config.CORSConfig{AllowedOrigins: []string{"*"}},
		RateLimit: config.RateLimitConfig{PublicPerWindow: 2, AdminPerWindow: 50, Window: time.Minute},
	}
	tokens := service.NewTokenService(config.JWTConfig{Secret: "router-secret", Expiration: time.Hour})
	guard := middleware.NewGuard(tokens, nil)
	audit := &auditLog{}
	limiter := service.NewRateLimiter(repository.NewMemoryRateLimitStore(), cfg.RateLimit.Window, nil, nil)

	engine := New(Dependencies{
		Config:        cfg,
		Limiter:       limiter,
		Audit:         audit,
		Guard:         guard,
		PublicMetrics: handler.NewPublicMetricsHandler(snapshots{}, audit, privacy.NewGuard(false, nil, nil), nil),
		Auth:          handler.NewAuthHandler(nil, guard, false),
		Admin:         handler.NewAdminHandler(courses{}, agents{}),
		AuditLog:      handler.NewAuditHandler(audit, service.NewAuditExportService(audit, nil), audit, nil),
		Ops:           handler.NewMetricsHandler(nil, nil),
	})
	return &testServer{engine: engine, tokens: tokens, audit: audit}
}

func (s *testServer) token(t *testing.T, role string) string {
	t.Helper()
	token, _, err := s.tokens.Issue(&models.User{UserID: 5, Username: "u5", Role: role})
	require.NoError(t, err)
	return token
}

func (s *testServer) do(method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	return rec
}

func TestPublicMetricsRateLimited(t *testing.T) {
	s := newTestServer(t)

	for i := 0; i < 2; i++ {
		rec := s.do(http.MethodGet, "/api/public/metrics", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "public, max-age=300", rec.Header().Get("Cache-Control"))
		assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
		assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	}
	rec := s.do(http.MethodGet, "/api/public/metrics", "")

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), `"error":"rate_limit_exceeded"`)
}

func TestAdminRoutesEnforceRoles(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/admin/list_courses.php", "").Code)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, "/api/admin/list_courses.php", s.token(t, models.RoleStudent)).Code)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, "/api/admin/list_courses.php", s.token(t, "Admin")).Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/admin/list_courses.php", s.token(t, models.RoleAdmin)).Code)
}

func TestRootRoutesRejectAdmin(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, "/api/root/audit/logs", s.token(t, models.RoleAdmin)).Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/root/audit/logs", s.token(t, models.RoleRoot)).Code)
}

func TestLegacyAdminPathIsProxied(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/course_factory/api/admin/list_courses.php", s.token(t, models.RoleRoot))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"courseName":"Algebra"`)
	require.Len(t, s.audit.entries, 1)
	assert.Equal(t, "admin_list_courses", s.audit.entries[0].Endpoint)
}

func TestLegacyProxyRejectsUnknownEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/course_factory/api/admin/users.php", s.token(t, models.RoleRoot))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Endpoint not found: users.php"}`, rec.Body.String())
}

func TestUnknownRouteReturnsJSON404(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/nope", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `"message":"Not found"`))
}
