package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/claude/mapty/internal/config"
)

// ErrUnknownDriver is returned by Open for an unsupported storage.driver.
var ErrUnknownDriver = errors.New("unknown storage driver")

// Store is an opaque string key-value store. Get reports ok=false for a key
// that was never set or has been removed.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Close() error
}

// Open connects the backend selected by cfg.Driver and applies its migrations.
func Open(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	switch cfg.Driver {
	case "sqlite":
		return OpenSQLite(ctx, cfg.SQLite.Path)
	case "postgres":
		return OpenPostgres(ctx, cfg.Postgres.DSN())
	case "redis":
		return OpenRedis(ctx, cfg.Redis)
	case "memory":
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}
