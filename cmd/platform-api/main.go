package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	_ "github.com/stevemeierotto/Professor-Hawkeinstein-sub002/api/swagger"
	"github.com/stevemeierotto/Professor-Hawkeinstein-sub002/internal/handler"
	"github.com/stevemeierotto/Professor-Hawkeinstein-sub002/internal/middleware"
	"github.com/stevemeierotto/Professor-Hawkeinstein-sub002/internal/repository"
	"github.com/stevemeierotto/Professor-Hawkeinstein-sub002/internal/router"
	"github.com/stevemeierotto/Professor-Hawkeinstein-sub002/internal/service"
	"github.com/stevemeierotto/Professor-Hawkeinstein-sub002/pkg/cache"
	"github.com/stevemeierotto/Professor-Hawkeinstein-sub002/pkg/config"
	"github.com/stevemeierotto/Professor-Hawkeinstein-sub002/pkg/database"
	"github.com/stevemeierotto/Professor-Hawkeinstein-sub002/pkg/logger"
	"github.com/stevemeierotto/Professor-Hawkeinstein-sub002/pkg/privacy"
)

// @title Platform API
// @version 1.0.0
// @description Admin, auth and public analytics endpoints for the learning platform
// @BasePath /
// @schemes http https

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	metrics := service.NewMetricsService()

	sqlDB, err := database.Connect(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer sqlDB.Close()
	db := database.NewClient(sqlDB, database.WithObserver(metrics))

	checks := map[string]handler.ReadinessCheck{"database": db.Ping}

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		// Rate limiting falls back to process memory and the snapshot cache stays off.
		logr.Warn("redis unavailable at startup", zap.Error(err))
	}

	var store service.RateLimitStore
	var cacheRepo service.CacheRepository
	if redisClient != nil {
		defer redisClient.Close()
		checks["redis"] = cache.Probe(redisClient)
		cacheRepo = repository.NewCacheRepository(redisClient)
		if cfg.RateLimit.Backend != config.RateLimitBackendMemory {
			store = repository.NewRedisRateLimitStore(redisClient)
		}
	}
	if store == nil {
		store = repository.NewMemoryRateLimitStore()
	}
	snapshotCache := service.NewCacheService(cacheRepo, metrics, cfg.Cache.TTL, logr, cfg.Cache.Enabled)
	limiter := service.NewRateLimiter(store, cfg.RateLimit.Window, logr, metrics)

	auditRepo, err := repository.NewAuditFileRepository(cfg.Audit)
	if err != nil {
		logr.Fatal("failed to open audit log", zap.Error(err))
	}
	defer auditRepo.Close()
	auditSvc := service.NewAuditService(auditRepo, cfg.Audit.BufferSize, logr, metrics)

	validate := validator.New()
	tokens := service.NewTokenService(cfg.JWT)
	guard := middleware.NewGuard(tokens, nil)

	authSvc := service.NewAuthService(repository.NewUserRepository(db), tokens, validate, logr)
	publicSvc := service.NewPublicMetricsService(repository.NewAnalyticsRepository(db), snapshotCache, logr)
	courseSvc := service.NewCourseService(repository.NewCourseRepository(db), snapshotCache, validate, logr)
	agentSvc := service.NewAgentService(repository.NewAgentRepository(db))

	engine := router.New(router.Dependencies{
		Config:  cfg,
		Logger:  logr,
		Metrics: metrics,
		Limiter: limiter,
		Audit:   auditSvc,
		Guard:   guard,

		PublicMetrics: handler.NewPublicMetricsHandler(publicSvc, auditSvc, privacy.NewGuard(cfg.IsProduction(), logr, metrics), logr),
		Auth:          handler.NewAuthHandler(authSvc, guard, cfg.IsProduction()),
		Admin:         handler.NewAdminHandler(courseSvc, agentSvc),
		AuditLog:      handler.NewAuditHandler(auditSvc, service.NewAuditExportService(auditRepo, logr), auditSvc, logr),
		Ops:           handler.NewMetricsHandler(metrics, checks),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
	auditSvc.Close()
	logr.Info("server stopped")
}
