// Package db owns the read-only PostgreSQL connection pool.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ApplicationName identifies the server's sessions in pg_stat_activity.
const ApplicationName = "esus-pec-mcp"

// Querier runs read queries. *pgxpool.Pool, *pgxpool.Conn and pgx.Tx all
// satisfy it.
type Querier interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// PoolConfig parses databaseURL into a pool configuration whose sessions
// start every transaction read-only.
func PoolConfig(databaseURL string, maxConns, minConns int32) (*pgxpool.Config, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	cfg.MaxConns = maxConns
	cfg.MinConns = minConns

	params := cfg.ConnConfig.RuntimeParams
	params["default_transaction_read_only"] = "on"
	if params["application_name"] == "" {
		params["application_name"] = ApplicationName
	}

	return cfg, nil
}

// NewPool opens and pings a read-only pool.
func NewPool(ctx context.Context, databaseURL string, maxConns, minConns int32) (*pgxpool.Pool, error) {
	cfg, err := PoolConfig(databaseURL, maxConns, minConns)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}
