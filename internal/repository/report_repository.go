package repository

import (
	"context"
	"encoding/json"

	"github.com/Masterminds/squirrel"
	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mloptapang/primero/internal/report"
)

// ErrReportNotFound is returned when no report has the requested unique id.
var ErrReportNotFound = errors.New("report not found")

// PgxQuerier is the subset of *pgxpool.Pool the report repository uses.
type PgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ReportRepository persists report definitions.
type ReportRepository interface {
	Create(ctx context.Context, r *report.Report) error
	Get(ctx context.Context, uniqueID string) (*report.Report, error)
	List(ctx context.Context) ([]*report.Report, error)
	Update(ctx context.Context, r *report.Report) error
}

type reportRepository struct {
	pool PgxQuerier
}

// NewReportRepository creates a ReportRepository backed by PostgreSQL.
func NewReportRepository(pool PgxQuerier) ReportRepository {
	return &reportRepository{pool: pool}
}

const reportsTable = "reports"

var reportColumns = []string{
	"id", "unique_id", "name", "description", "record_type", "module_ids",
	"aggregate_by", "disaggregate_by", "filters", "permission_filter",
	"exclude_empty_rows", "graph", "add_default_filters", "editable",
	"created_at", "updated_at",
}

func psql() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *reportRepository) Create(ctx context.Context, rep *report.Report) error {
	filters, permission, err := marshalFilters(rep)
	if err != nil {
		return err
	}

	query, args, err := psql().Insert(reportsTable).
		Columns(reportColumns[1:14]...).
		Values(
			rep.UniqueID, rep.Name, rep.Description, rep.RecordType, emptyIfNil(rep.ModuleIDs),
			emptyIfNil(rep.AggregateBy), emptyIfNil(rep.DisaggregateBy), filters, permission,
			rep.ExcludeEmptyRows, rep.Graph, rep.AddDefaultFilters, rep.Editable,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return errors.Wrap(err, "build insert report")
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&rep.ID, &rep.CreatedAt, &rep.UpdatedAt); err != nil {
		return errors.Wrap(err, "insert report")
	}
	return nil
}

func (r *reportRepository) Get(ctx context.Context, uniqueID string) (*report.Report, error) {
	query, args, err := psql().Select(reportColumns...).
		From(reportsTable).
		Where(squirrel.Eq{"unique_id": uniqueID}).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build select report")
	}

	rep, err := scanReport(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errors.Wrapf(ErrReportNotFound, "%q", uniqueID)
	}
	if err != nil {
		return nil, errors.Wrap(err, "select report")
	}
	return rep, nil
}

func (r *reportRepository) List(ctx context.Context) ([]*report.Report, error) {
	query, args, err := psql().Select(reportColumns...).
		From(reportsTable).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build list reports")
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "list reports")
	}
	defer rows.Close()

	reports := []*report.Report{}
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan report")
		}
		reports = append(reports, rep)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "list reports")
	}
	return reports, nil
}

// Update writes every mutable column. unique_id is the key and never changes.
func (r *reportRepository) Update(ctx context.Context, rep *report.Report) error {
	filters, permission, err := marshalFilters(rep)
	if err != nil {
		return err
	}

	query, args, err := psql().Update(reportsTable).
		SetMap(map[string]any{
			"name":                rep.Name,
			"description":         rep.Description,
			"record_type":         rep.RecordType,
			"module_ids":          emptyIfNil(rep.ModuleIDs),
			"aggregate_by":        emptyIfNil(rep.AggregateBy),
			"disaggregate_by":     emptyIfNil(rep.DisaggregateBy),
			"filters":             filters,
			"permission_filter":   permission,
			"exclude_empty_rows":  rep.ExcludeEmptyRows,
			"graph":               rep.Graph,
			"add_default_filters": rep.AddDefaultFilters,
			"editable":            rep.Editable,
			"updated_at":          squirrel.Expr("now()"),
		}).
		Where(squirrel.Eq{"unique_id": rep.UniqueID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return errors.Wrap(err, "build update report")
	}

	err = r.pool.QueryRow(ctx, query, args...).Scan(&rep.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return errors.Wrapf(ErrReportNotFound, "%q", rep.UniqueID)
	}
	if err != nil {
		return errors.Wrap(err, "update report")
	}
	return nil
}

func marshalFilters(rep *report.Report) ([]byte, []byte, error) {
	filters := rep.Filters
	if filters == nil {
		filters = []report.Filter{}
	}
	rawFilters, err := json.Marshal(filters)
	if err != nil {
		return nil, nil, errors.Wrap(err, "marshal filters")
	}

	var rawPermission []byte
	if rep.PermissionFilter != nil {
		if rawPermission, err = json.Marshal(rep.PermissionFilter); err != nil {
			return nil, nil, errors.Wrap(err, "marshal permission filter")
		}
	}
	return rawFilters, rawPermission, nil
}

func scanReport(row pgx.Row) (*report.Report, error) {
	var (
		rep        report.Report
		filters    []byte
		permission []byte
	)
	if err := row.Scan(
		&rep.ID, &rep.UniqueID, &rep.Name, &rep.Description, &rep.RecordType, &rep.ModuleIDs,
		&rep.AggregateBy, &rep.DisaggregateBy, &filters, &permission,
		&rep.ExcludeEmptyRows, &rep.Graph, &rep.AddDefaultFilters, &rep.Editable,
		&rep.CreatedAt, &rep.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if len(filters) > 0 {
		if err := json.Unmarshal(filters, &rep.Filters); err != nil {
			return nil, errors.Wrap(err, "unmarshal filters")
		}
	}
	if len(permission) > 0 {
		rep.PermissionFilter = &report.Filter{}
		if err := json.Unmarshal(permission, rep.PermissionFilter); err != nil {
			return nil, errors.Wrap(err, "unmarshal permission filter")
		}
	}
	return &rep, nil
}
