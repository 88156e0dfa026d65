package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/stevemeierotto/Professor-Hawkeinstein-sub002/internal/opstool"
	"github.com/stevemeierotto/Professor-Hawkeinstein-sub002/internal/repository"
	"github.com/stevemeierotto/Professor-Hawkeinstein-sub002/internal/service"
	"github.com/stevemeierotto/Professor-Hawkeinstein-sub002/pkg/cache"
	"github.com/stevemeierotto/Professor-Hawkeinstein-sub002/pkg/config"
	"github.com/stevemeierotto/Professor-Hawkeinstein-sub002/pkg/database"
	"github.com/stevemeierotto/Professor-Hawkeinstein-sub002/pkg/logger"
)

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

	sqlDB, err := database.Connect(cfg.Database)
	if err != nil {
		logr.Error("failed to connect database", zap.Error(err))
		os.Exit(1)
	}
	defer sqlDB.Close()

	// Evict the public metrics snapshot when Redis is reachable; deletes proceed either way.
	var cacheRepo service.CacheRepository
	if redisClient, err := cache.NewRedis(cfg.Redis); err == nil {
		defer redisClient.Close()
		cacheRepo = repository.NewCacheRepository(redisClient)
	}
	snapshotCache := service.NewCacheService(cacheRepo, nil, cfg.Cache.TTL, logr, cfg.Cache.Enabled)

	courses := service.NewCourseService(repository.NewCourseRepository(database.NewClient(sqlDB)), snapshotCache, nil, logr)
	tool := opstool.NewCourseTool(filepath.Base(os.Args[0]), courses, os.Stdin, os.Stdout)
	if err := tool.Run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
}
