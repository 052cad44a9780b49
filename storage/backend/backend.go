// Package backend opens the snapshot repository selected in the configuration.
package backend

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/timgluz/dva/config"
	"github.com/timgluz/dva/storage"
	"github.com/timgluz/dva/storage/postgres"
	"github.com/timgluz/dva/storage/sqlite"
)

// Open returns the native repository for cfg. The Spin KV store is opened by
// the Spin component itself since it only links under the Spin runtime.
func Open(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (storage.Repository, error) {
	codec, err := storage.NewCodec(cfg.Codec)
	if err != nil {
		return nil, err
	}

	logger = logger.With("driver", cfg.Driver)
	switch cfg.Driver {
	case config.DriverFile, "":
		repo, err := storage.NewFileRepository(cfg.Path, codec, logger)
		if err != nil {
			return nil, err
		}
		return repo, nil
	case config.DriverSQLite:
		repo, err := sqlite.NewRepository(ctx, cfg.Path, logger)
		if err != nil {
			return nil, err
		}
		return repo, nil
	case config.DriverPostgres:
		repo, err := postgres.NewRepository(ctx, cfg.PostgresDSN, logger)
		if err != nil {
			return nil, err
		}
		return repo, nil
	}

	return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
}
