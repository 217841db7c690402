package store

import (
	"context"
	"fmt"
	"path/filepath"

	"tajawal-cli/internal/config"
)

// OpenSlots opens the backend selected by cfg. dataDir hosts the local backends.
func OpenSlots(ctx context.Context, cfg config.StorageConfig, dataDir string) (Slots, error) {
	switch cfg.Backend {
	case config.BackendSQLite, "":
		return OpenSQLiteSlots(ctx, SQLitePath(dataDir))
	case config.BackendFile:
		return FileSlots{Dir: filepath.Join(dataDir, "slots")}, nil
	case config.BackendMemory:
		return NewMemorySlots(), nil
	case config.BackendRedis:
		s, err := OpenRedisSlots(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, fmt.Errorf("redis %s: %w", cfg.RedisAddr, err)
		}
		return s, nil
	case config.BackendPostgres:
		s, err := OpenPostgresSlots(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.Backend)
	}
}
