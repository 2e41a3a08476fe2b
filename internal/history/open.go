package history

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/dashbored/internal/config"
)

// Open returns the upload log selected by cfg: a migrated PostgresLog when a
// database URL is configured, a MemoryLog otherwise. The returned close
// function releases the pool and is never nil.
func Open(ctx context.Context, cfg config.DatabaseConfig) (Log, func(), error) {
	if !cfg.Enabled() {
		slog.Info("upload history kept in memory", "capacity", DefaultCapacity)
		return NewMemoryLog(DefaultCapacity), func() {}, nil
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("parse database URL: %w", err)
	}
	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = int32(cfg.MinConns)
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("ping database: %w", err)
	}

	log := NewPostgresLog(pool)
	if err := log.Migrate(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}

	if u, err := url.Parse(cfg.URL); err == nil {
		slog.Info("upload history stored in postgres", "database", strings.TrimPrefix(u.Path, "/"))
	}
	return log, pool.Close, nil
}
