package app

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"socialapp/internal/config"
	"socialapp/internal/modules/reclaim"
	"socialapp/internal/pkg/lock"
	"socialapp/internal/pkg/storage"
	"socialapp/internal/repository"
)

const sweepLockKey = "socialapp:reclaim:lease"

// NewSweeper builds the reclamation sweeper. When REDIS_URL is set the
// returned client backs a cluster lease and must be closed by the caller.
func NewSweeper(ctx context.Context, cfg *config.Config, db *gorm.DB, posts storage.ObjectStore, log *zap.Logger) (*reclaim.Sweeper, *redis.Client) {
	sweeper := reclaim.NewSweeper(repository.NewFileRepository(db), posts, log, reclaim.Config{
		Interval:  cfg.SweepInterval,
		MaxAge:    cfg.SweepMaxAge,
		BatchSize: cfg.SweepBatchSize,
	})

	if cfg.RedisURL == "" {
		return sweeper, nil
	}
	client, err := lock.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Warn("redis unavailable, sweeping without a cluster lease", zap.Error(err))
		return sweeper, nil
	}
	sweeper.SetLocker(lock.NewRedisLock(client, sweepLockKey))
	return sweeper, client
}
