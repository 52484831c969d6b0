// Package app holds the wiring shared by the binaries under cmd/.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"socialapp/internal/config"
	"socialapp/internal/pkg/storage"
)

// Stores are the two object namespaces: post uploads and user avatars.
type Stores struct {
	Posts   storage.ObjectStore
	Avatars storage.ObjectStore
}

const (
	PostsPath   = "/posts"
	AvatarsPath = "/avatars"
)

func OpenStores(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Stores, error) {
	switch cfg.StorageDriver {
	case config.StorageS3:
		open := func(prefix string) (storage.ObjectStore, error) {
			return storage.NewS3Store(ctx, storage.S3Config{
				Region:    cfg.S3Region,
				Bucket:    cfg.S3Bucket,
				Prefix:    prefix,
				AccessKey: cfg.S3AccessKey,
				SecretKey: cfg.S3SecretKey,
				Endpoint:  cfg.S3Endpoint,
			})
		}
		posts, err := open("posts")
		if err != nil {
			return nil, err
		}
		avatars, err := open("avatars")
		if err != nil {
			return nil, err
		}
		log.Info("using S3 object storage", zap.String("bucket", cfg.S3Bucket), zap.String("endpoint", cfg.S3Endpoint))
		return &Stores{Posts: posts, Avatars: avatars}, nil

	case config.StorageDisk:
		posts, err := storage.NewDiskStore(cfg.UploadDir, cfg.StaticURLBase+PostsPath)
		if err != nil {
			return nil, fmt.Errorf("open upload dir: %w", err)
		}
		avatars, err := storage.NewDiskStore(cfg.AvatarDir, cfg.StaticURLBase+AvatarsPath)
		if err != nil {
			return nil, fmt.Errorf("open avatar dir: %w", err)
		}
		log.Info("using disk object storage", zap.String("uploads", cfg.UploadDir), zap.String("avatars", cfg.AvatarDir))
		return &Stores{Posts: posts, Avatars: avatars}, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
}
