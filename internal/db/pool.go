// Package db provides shared Postgres helpers for reading tract geometry
// and bulk-upserting classification results.
package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
)

// Pool is the subset of *pgxpool.Pool used by this module. pgxmock pools
// satisfy it in tests.
type Pool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

var _ Pool = (*pgxpool.Pool)(nil)

// Connect opens a pool and verifies it with a ping, retrying the ping
// with DefaultRetryConfig.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	return ConnectWithRetry(ctx, dsn, DefaultRetryConfig())
}

// ConnectWithRetry is Connect with an explicit retry policy. A malformed
// or missing DSN fails immediately.
func ConnectWithRetry(ctx context.Context, dsn string, cfg RetryConfig) (*pgxpool.Pool, error) {
	if dsn == "" {
		return nil, eris.New("db: no database_url configured (set store.database_url)")
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, eris.Wrap(err, "db: create connection pool")
	}

	if cfg.OnRetry == nil {
		cfg.OnRetry = retryLogger("ping")
	}
	if err := Retry(ctx, cfg, pool.Ping); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "db: ping database")
	}
	return pool, nil
}

// SanitizeTable quotes a possibly schema-qualified table name like "geo.census_tracts".
func SanitizeTable(table string) string {
	return sanitizeTable(table)
}
