// Package router assembles the gin engine for the platform API.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/stevemeierotto/Professor-Hawkeinstein-sub002/internal/handler"
	"github.com/stevemeierotto/Professor-Hawkeinstein-sub002/internal/middleware"
	"github.com/stevemeierotto/Professor-Hawkeinstein-sub002/internal/models"
	"github.com/stevemeierotto/Professor-Hawkeinstein-sub002/internal/service"
	"github.com/stevemeierotto/Professor-Hawkeinstein-sub002/pkg/config"
	"github.com/stevemeierotto/Professor-Hawkeinstein-sub002/pkg/logger"
	corsmiddleware "github.com/stevemeierotto/Professor-Hawkeinstein-sub002/pkg/middleware/cors"
	reqidmiddleware "github.com/stevemeierotto/Professor-Hawkeinstein-sub002/pkg/middleware/requestid"
	"github.com/stevemeierotto/Professor-Hawkeinstein-sub002/pkg/middleware/security"
)

// Shared caches may hold the public metrics payload for five minutes.
const publicMetricsMaxAge = 300

// Dependencies carries everything the routes need.
type Dependencies struct {
	Config  *config.Config
	Logger  *zap.Logger
	Metrics *service.MetricsService
	Limiter *service.RateLimiter
	Audit   middleware.AuditRecorder
	Guard   *middleware.Guard

	PublicMetrics *handler.PublicMetricsHandler
	Auth          *handler.AuthHandler
	Admin         *handler.AdminHandler
	AuditLog      *handler.AuditHandler
	Ops           *handler.MetricsHandler
}

// New builds the engine with every route registered.
func New(deps Dependencies) *gin.Engine {
	cfg := deps.Config
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(deps.Logger))
	r.Use(middleware.Metrics(deps.Metrics))
	r.Use(security.Headers(cfg.IsProduction()))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))

	r.GET("/health", deps.Ops.Health)
	r.GET("/ready", deps.Ops.Ready)
	r.GET("/metrics", deps.Ops.Prometheus)
	if !cfg.IsProduction() {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group("/api")

	// Every method reaches the handler so it can answer 405 itself after the rate limit and parameter checks.
	api.Any("/public/metrics",
		security.PublicCache(publicMetricsMaxAge),
		middleware.RateLimit(deps.Limiter, "public_metrics", cfg.RateLimit.PublicPerWindow),
		deps.PublicMetrics.Get,
	)

	auth := api.Group("/auth")
	auth.Any("/login.php", deps.Auth.Login)
	auth.GET("/validate.php", deps.Auth.Validate)

	admin := api.Group("/admin",
		middleware.RateLimit(deps.Limiter, "admin", cfg.RateLimit.AdminPerWindow),
		deps.Guard.Roles(models.AdminRoles...),
	)
	admin.GET("/list_courses.php", middleware.Audit(deps.Audit, "admin_list_courses", models.AuditActionView), deps.Admin.ListCourses)
	admin.POST("/delete_course.php", middleware.Audit(deps.Audit, "admin_delete_course", models.AuditActionDelete), deps.Admin.DeleteCourse)
	admin.GET("/list_agents.php", middleware.Audit(deps.Audit, "admin_list_agents", models.AuditActionView), deps.Admin.ListAgents)

	root := api.Group("/root", deps.Guard.Roles(models.RoleRoot))
	root.GET("/audit/logs", deps.AuditLog.Recent)
	root.GET("/audit/export",
		middleware.RateLimit(deps.Limiter, "root_audit_export", cfg.RateLimit.AdminPerWindow),
		deps.AuditLog.Export,
	)

	proxy := handler.NewProxyHandler(r)
	legacy := r.Group("/course_factory/api")
	legacy.Any("/admin/*endpoint", proxy.Admin)
	legacy.Any("/auth/login.php", proxy.Forward("/api/auth/login.php"))
	legacy.Any("/auth/validate.php", proxy.Forward("/api/auth/validate.php"))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Not found"})
	})

	return r
}
