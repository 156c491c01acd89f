package infra

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	dbMaxConns        = 10
	dbMinConns        = 1
	dbConnectTimeout  = 10 * time.Second
	dbMaxConnLifetime = time.Hour
	dbMaxConnIdleTime = 30 * time.Minute
)

// NewDBPool opens the job store pool and checks it with a ping so a bad
// DATABASE_URL fails at startup rather than on the first request.
func NewDBPool(ctx context.Context, cfg *Config) (*pgxpool.Pool, error) {
	if cfg == nil {
		return nil, errors.New("db: config is required")
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("db: parse database url: %w", err)
	}
	poolCfg.MaxConns = dbMaxConns
	poolCfg.MinConns = dbMinConns
	poolCfg.MaxConnLifetime = dbMaxConnLifetime
	poolCfg.MaxConnIdleTime = dbMaxConnIdleTime

	ctx, cancel := context.WithTimeout(ctx, dbConnectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("db: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("db: ping: %w", err)
	}
	return pool, nil
}
