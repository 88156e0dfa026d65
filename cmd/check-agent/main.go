package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/stevemeierotto/Professor-Hawkeinstein-sub002/internal/opstool"
	"github.com/stevemeierotto/Professor-Hawkeinstein-sub002/internal/repository"
	"github.com/stevemeierotto/Professor-Hawkeinstein-sub002/internal/service"
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

	agents := service.NewAgentService(repository.NewAgentRepository(database.NewClient(sqlDB)))
	if err := opstool.PrintAgents(context.Background(), agents, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
}
