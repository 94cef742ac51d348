package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Valentin39220/bini-crm/config"
	"github.com/Valentin39220/bini-crm/internal/prospects/repository"
	"github.com/Valentin39220/bini-crm/internal/storage/postgres"
	"github.com/Valentin39220/bini-crm/internal/storage/sqlite"
)

const connectTimeout = 5 * time.Second

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// OpenSlot connects the storage backend selected by cfg. The returned closer
// releases the underlying client.
func OpenSlot(ctx context.Context, cfg *config.Config) (repository.Slot, io.Closer, error) {
	switch cfg.Storage.Backend {
	case config.BackendFile:
		slot, err := repository.NewFileSlot(cfg.Storage.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return slot, nopCloser{}, nil

	case config.BackendRedis:
		client, err := OpenRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewRedisSlot(client), client, nil

	case config.BackendPostgres:
		db, err := postgres.NewConnection(ctx, &cfg.Database, connectTimeout)
		if err != nil {
			return nil, nil, err
		}
		return sqlSlot(ctx, db, "postgres")

	case config.BackendSQLite:
		db, err := sqlite.NewConnection(ctx, cfg.Storage.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return sqlSlot(ctx, db, sqlite.DriverName)

	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

func sqlSlot(ctx context.Context, db *sql.DB, driverName string) (repository.Slot, io.Closer, error) {
	slot := repository.NewSQLSlot(db, driverName)
	if err := slot.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}
	return slot, slot, nil
}

func OpenRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// RepositoryOptions maps the storage flags onto repository options.
func RepositoryOptions(cfg config.StorageConfig) []repository.Option {
	var opts []repository.Option
	if cfg.SkipEmptySave {
		opts = append(opts, repository.WithSkipEmptySave())
	}
	if cfg.StrictLoad {
		opts = append(opts, repository.WithStrictLoad())
	}
	return opts
}
