package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"campus-booking/internal/infra/storage"
	"campus-booking/internal/pkg/config"
	"campus-booking/internal/usecase/shared"

	"go.uber.org/fx"
)

var StorageModule = fx.Module("storage",
	fx.Provide(
		NewUploader,
	),
)

func NewUploader(cfg config.Config, logger *slog.Logger) (shared.Uploader, error) {
	switch cfg.Storage.Driver {
	case "s3":
		client, err := storage.NewS3Client(context.Background(), cfg.Storage)
		if err != nil {
			return nil, err
		}
		logger.Info("S3 ストレージを使用します", "bucket", cfg.Storage.Bucket, "endpoint", cfg.Storage.Endpoint)
		return storage.NewS3Uploader(client, cfg.Storage)
	case "memory", "":
		return storage.NewMemoryUploader(cfg.Storage.PublicBaseURL), nil
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.Storage.Driver)
	}
}
