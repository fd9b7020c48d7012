package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jwebster45206/black-moon/internal/config"
	"github.com/jwebster45206/black-moon/pkg/storage"
)

// Open returns the save backend selected by cfg.Storage.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storage.Storage, error) {
	switch cfg.Storage {
	case config.StorageFile:
		return NewFileStorage(cfg.SavePath, logger), nil
	case config.StorageRedis:
		r := NewRedisStorage(cfg.RedisURL, logger)
		if err := r.WaitForConnection(ctx, 5, time.Second); err != nil {
			_ = r.Close()
			return nil, err
		}
		return r, nil
	case config.StorageSQLite:
		return OpenSQLite(ctx, cfg.SQLitePath, logger)
	case config.StorageMemory:
		return storage.NewMockStorage(), nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage)
}
