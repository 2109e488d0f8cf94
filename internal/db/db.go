package db

import (
	"context"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/mloptapang/primero/internal/config"
)

// NewPool creates the PostgreSQL pool holding report definitions.
func NewPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	pgxCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse db config")
	}

	pgxCfg.MinConns = cfg.DBMinConns
	pgxCfg.MaxConns = cfg.DBMaxConns
	pgxCfg.MaxConnLifetime = cfg.DBMaxConnLifetime
	pgxCfg.MaxConnIdleTime = cfg.DBMaxConnIdleTime
	pgxCfg.HealthCheckPeriod = 30 * time.Second

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, errors.Wrap(err, "connect db")
	}

	zerolog.Ctx(ctx).Debug().
		Int32("max_conns", pgxCfg.MaxConns).
		Int32("min_conns", pgxCfg.MinConns).
		Dur("max_conn_lifetime", pgxCfg.MaxConnLifetime).
		Dur("max_conn_idle", pgxCfg.MaxConnIdleTime).
		Msg("db pool configured")

	return pool, nil
}

// NewConnection opens the ClickHouse connection serving the search index.
func NewConnection(ctx context.Context, cfg *config.Config) (clickhouse.Conn, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: cfg.ClickHouseAddrs(),
		Auth: clickhouse.Auth{
			Database: cfg.ClickHouseDatabase,
			Username: cfg.ClickHouseUsername,
			Password: cfg.ClickHousePassword,
		},
		DialTimeout:     5 * time.Second,
		MaxOpenConns:    int(cfg.DBMaxConns),
		MaxIdleConns:    int(cfg.DBMinConns),
		ConnMaxLifetime: cfg.DBMaxConnLifetime,
	})
	if err != nil {
		return nil, errors.Wrap(err, "open clickhouse")
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close()
		return nil, errors.Wrap(err, "ping clickhouse")
	}
	return conn, nil
}
