package infra

import (
	"context"
	"fmt"

	"github.com/dualspace/launcher/internal/config"
	"github.com/dualspace/launcher/internal/imagestore"
)

// NewImageStore builds the registration image store selected by config.
func NewImageStore(ctx context.Context, cfg config.ImageConfig) (imagestore.Store, error) {
	switch cfg.Backend {
	case "s3":
		store, err := imagestore.NewS3Store(ctx, imagestore.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			AccessKey: cfg.AWSAccessKey,
			SecretKey: cfg.AWSSecretKey,
		})
		if err != nil {
			return nil, fmt.Errorf("s3 image store: %w", err)
		}
		return store, nil
	case "", "local":
		store, err := imagestore.NewLocalStore(cfg.LocalPath)
		if err != nil {
			return nil, fmt.Errorf("local image store: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown image storage backend %q", cfg.Backend)
	}
}
