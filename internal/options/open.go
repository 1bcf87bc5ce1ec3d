package options

import (
	"context"
	"fmt"

	"seopress/internal/config"
)

// Open returns the store selected by cfg
func Open(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	switch cfg.Driver {
	case config.StorageMemory, "":
		return NewMemoryStore(), nil
	case config.StorageSQLite:
		return OpenSQLite(ctx, config.ResolvePath(cfg.DSN))
	default:
		return nil, fmt.Errorf("unsupported storage driver: %q", cfg.Driver)
	}
}
