// Command reclaim runs a single reclamation pass and exits.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"socialapp/internal/app"
	"socialapp/internal/config"
	"socialapp/internal/database"
	"socialapp/internal/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zlog, err := logger.New(cfg.AppEnv)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zlog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg.DatabaseURL, zlog)
	if err != nil {
		zlog.Fatal("db connect failed", zap.Error(err))
	}

	stores, err := app.OpenStores(ctx, cfg, zlog)
	if err != nil {
		zlog.Fatal("storage init failed", zap.Error(err))
	}

	sweeper, rdb := app.NewSweeper(ctx, cfg, db, stores.Posts, zlog)
	if rdb != nil {
		defer rdb.Close()
	}

	stats := sweeper.RunOnce(ctx)
	if stats.ListFailed {
		zlog.Error("reclaim pass could not list candidates")
	}
}
