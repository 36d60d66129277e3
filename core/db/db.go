// Package db owns the Postgres pool behind the postgres snapshot backend.
package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"maturity.app/assessor/core/db/sqlc"
)

//go:embed migrations/*.sql
var migrations embed.FS

type Config struct {
	DSN      string
	MaxConns int32
	MinConns int32
}

type DB struct {
	pool *pgxpool.Pool
}

// Open connects, pings and applies pending migrations.
func Open(ctx context.Context, cfg Config) (*DB, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parsing DATABASE_URL: %w", err)
	}
	poolCfg.MaxConns = max(cfg.MaxConns, 1)
	poolCfg.MinConns = min(max(cfg.MinConns, 0), poolCfg.MaxConns)

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	// the *sql.DB view shares the pool and is not closed separately
	if err := Migrate(ctx, goose.DialectPostgres, stdlib.OpenDBFromPool(pool), Migrations()); err != nil {
		pool.Close()
		return nil, err
	}
	return &DB{pool: pool}, nil
}

// Migrations returns the embedded Postgres migrations rooted at their directory.
func Migrations() fs.FS {
	sub, err := fs.Sub(migrations, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}

// Migrate applies every migration in fsys that goose has not yet recorded
// in its version table.
func Migrate(ctx context.Context, dialect goose.Dialect, sqlDB *sql.DB, fsys fs.FS) error {
	provider, err := goose.NewProvider(dialect, sqlDB, fsys)
	if err != nil {
		return fmt.Errorf("creating migration provider: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("applying migrations: %w", err)
	}
	for _, r := range results {
		slog.InfoContext(ctx, "migration applied",
			"dialect", string(dialect),
			"version", r.Source.Version,
			"duration", r.Duration)
	}
	return nil
}

func (d *DB) Close() { d.pool.Close() }

func (d *DB) Ping(ctx context.Context) error { return d.pool.Ping(ctx) }

func (d *DB) Queries() *sqlc.Queries { return sqlc.New(d.pool) }

// InTx runs fn in one transaction, committing only when fn returns nil.
func (d *DB) InTx(ctx context.Context, fn func(q *sqlc.Queries) error) error {
	return pgx.BeginFunc(ctx, d.pool, func(tx pgx.Tx) error {
		return fn(sqlc.New(tx))
	})
}
