// Package postgres loads normalized records into PostgreSQL.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// applicationName tags the worker's sessions in pg_stat_activity.
const applicationName = "llamaworker"

// Pool is the connection pool shared by the record store.
type Pool struct {
	*pgxpool.Pool
}

// NewPool connects to dsn and checks the server is reachable before returning.
func NewPool(ctx context.Context, dsn string) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}

	if _, ok := poolCfg.ConnConfig.RuntimeParams["application_name"]; !ok {
		poolCfg.ConnConfig.RuntimeParams["application_name"] = applicationName
	}

	pgPool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if err := pgPool.Ping(ctx); err != nil {
		pgPool.Close()

		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &Pool{Pool: pgPool}, nil
}

// Close releases every connection.
func (p *Pool) Close() {
	p.Pool.Close()
}
