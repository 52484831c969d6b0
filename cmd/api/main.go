package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"socialapp/internal/app"
	"socialapp/internal/config"
	"socialapp/internal/database"
	"socialapp/internal/middleware"
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

	if cfg.IsProdLike() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg.DatabaseURL, zlog)
	if err != nil {
		zlog.Fatal("db connect failed", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		zlog.Fatal("migration failed", zap.Error(err))
	}

	stores, err := app.OpenStores(ctx, cfg, zlog)
	if err != nil {
		zlog.Fatal("storage init failed", zap.Error(err))
	}

	sweeper, rdb := app.NewSweeper(ctx, cfg, db, stores.Posts, zlog)
	if rdb != nil {
		defer rdb.Close()
	}

	limiter := middleware.NewIPRateLimiter(cfg.RateLimitPerMinute, 20, zlog.Named("ratelimit"))
	go limiter.Cleanup(ctx)

	router := newRouter(deps{
		cfg:     cfg,
		db:      db,
		stores:  stores,
		sweeper: sweeper,
		limiter: limiter,
		log:     zlog,
	})

	if cfg.SweepEnabled {
		// stopped explicitly after the HTTP server drains
		sweeper.Start(context.WithoutCancel(ctx))
	} else {
		zlog.Info("scheduled sweep disabled")
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zlog.Info("http server listening", zap.String("addr", cfg.HTTPAddr), zap.String("env", cfg.AppEnv))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Error("http server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	zlog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("http shutdown failed", zap.Error(err))
	}

	// waits for an in-flight pass
	sweeper.Stop()

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	zlog.Info("stopped")
}
