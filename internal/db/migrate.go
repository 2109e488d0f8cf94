package db

import (
	"context"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5/pgconn"
)

const createRecordIndex = `
CREATE TABLE IF NOT EXISTS record_index
(
	record_type              LowCardinality(String),
	record_id                String,
	module_id                LowCardinality(String),
	owned_by                 String,
	owned_by_groups          Array(String),
	owned_by_agency_id       String,
	associated_user_names    Array(String),
	associated_user_groups   Array(String),
	associated_user_agencies Array(String),
	fields                   Map(String, String),
	dates                    Map(String, Date),
	subforms                 Map(String, UInt32),
	indexed_at               DateTime DEFAULT now()
)
ENGINE = ReplacingMergeTree(indexed_at)
ORDER BY (record_type, record_id)
SETTINGS index_granularity = 8192;
`

const createReports = `
CREATE TABLE IF NOT EXISTS reports
(
	id                  BIGSERIAL PRIMARY KEY,
	unique_id           TEXT NOT NULL UNIQUE,
	name                TEXT NOT NULL,
	description         TEXT NOT NULL DEFAULT '',
	record_type         TEXT NOT NULL,
	module_ids          TEXT[] NOT NULL DEFAULT '{}',
	aggregate_by        TEXT[] NOT NULL DEFAULT '{}',
	disaggregate_by     TEXT[] NOT NULL DEFAULT '{}',
	filters             JSONB NOT NULL DEFAULT '[]',
	permission_filter   JSONB,
	exclude_empty_rows  BOOLEAN NOT NULL DEFAULT FALSE,
	graph               BOOLEAN NOT NULL DEFAULT FALSE,
	add_default_filters BOOLEAN NOT NULL DEFAULT FALSE,
	editable            BOOLEAN NOT NULL DEFAULT TRUE,
	created_at          TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at          TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// Execer runs a statement against PostgreSQL.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// RunMigrations ensures required tables exist in both stores. This keeps the
// service self-contained without an external migration step.
func RunMigrations(ctx context.Context, conn clickhouse.Conn, pool Execer) error {
	if err := conn.Exec(ctx, createRecordIndex); err != nil {
		return errors.Wrap(err, "apply clickhouse migrations")
	}
	if _, err := pool.Exec(ctx, createReports); err != nil {
		return errors.Wrap(err, "apply postgres migrations")
	}
	return nil
}
