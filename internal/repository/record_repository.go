package repository

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/Masterminds/squirrel"
	"github.com/cockroachdb/errors"

	"github.com/mloptapang/primero/internal/model"
	"github.com/mloptapang/primero/internal/reporting"
	"github.com/mloptapang/primero/internal/searchfilter"
)

// RecordRepository stores search index rows and answers pivot queries.
type RecordRepository interface {
	reporting.Searcher

	// CreateBatch inserts multiple records with a single ClickHouse batch.
	CreateBatch(ctx context.Context, records []model.Record) error
}

type recordRepository struct {
	conn   clickhouse.Conn
	schema searchfilter.Schema
}

// NewRecordRepository creates a RecordRepository backed by ClickHouse.
func NewRecordRepository(conn clickhouse.Conn) RecordRepository {
	return &recordRepository{conn: conn, schema: searchfilter.IndexSchema}
}

const recordIndexTable = "record_index"

const insertRecordQuery = `INSERT INTO record_index (
	record_type, record_id, module_id,
	owned_by, owned_by_groups, owned_by_agency_id,
	associated_user_names, associated_user_groups, associated_user_agencies,
	fields, dates, subforms
)`

func (r *recordRepository) CreateBatch(ctx context.Context, records []model.Record) error {
	if len(records) == 0 {
		return nil
	}

	batch, err := r.conn.PrepareBatch(ctx, insertRecordQuery)
	if err != nil {
		return errors.Wrap(err, "prepare batch")
	}

	for _, rec := range records {
		if err := batch.Append(
			rec.RecordType,
			rec.RecordID,
			rec.ModuleID,
			rec.OwnedBy,
			emptyIfNil(rec.OwnedByGroups),
			rec.OwnedByAgencyID,
			emptyIfNil(rec.AssociatedUserNames),
			emptyIfNil(rec.AssociatedUserGroups),
			emptyIfNil(rec.AssociatedUserAgencies),
			rec.Fields,
			rec.Dates,
			rec.Subforms,
		); err != nil {
			return errors.Wrap(err, "append batch")
		}
	}

	if err := batch.Send(); err != nil {
		return errors.Wrap(err, "send batch")
	}

	return nil
}

// Pivot counts the matching records grouped by every dimension at once and
// folds the rows into one pivot level per dimension.
func (r *recordRepository) Pivot(ctx context.Context, query reporting.PivotQuery) (reporting.PivotResult, error) {
	sql, args, err := r.pivotSQL(query)
	if err != nil {
		return reporting.PivotResult{}, err
	}

	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return reporting.PivotResult{}, &reporting.BackendQueryError{RecordType: query.RecordType, Err: errors.Wrap(err, "query pivot")}
	}
	defer rows.Close()

	width := len(query.Dimensions)
	tree := newPivotNode("")
	for rows.Next() {
		labels := make([]*string, width)
		var count uint64

		dest := make([]any, 0, width+1)
		for i := range labels {
			dest = append(dest, &labels[i])
		}
		dest = append(dest, &count)

		if err := rows.Scan(dest...); err != nil {
			return reporting.PivotResult{}, &reporting.BackendQueryError{RecordType: query.RecordType, Err: errors.Wrap(err, "scan pivot row")}
		}
		tree.add(labels, int64(count))
	}
	if err := rows.Err(); err != nil {
		return reporting.PivotResult{}, &reporting.BackendQueryError{RecordType: query.RecordType, Err: errors.Wrap(err, "read pivot rows")}
	}

	return tree.result(true), nil
}

func (r *recordRepository) pivotSQL(query reporting.PivotQuery) (string, []any, error) {
	if len(query.Dimensions) == 0 {
		return "", nil, &reporting.ConfigurationError{Field: "aggregate_by", Message: "at least one dimension is required"}
	}

	sb := squirrel.Select().From(recordIndexTable + " FINAL")
	groupBy := make([]string, 0, len(query.Dimensions))
	for i, dim := range query.Dimensions {
		expr, err := r.dimensionExpr(dim)
		if err != nil {
			return "", nil, err
		}
		alias := fmt.Sprintf("d%d", i)
		sb = sb.Column(squirrel.Alias(expr, alias))
		groupBy = append(groupBy, alias)
	}

	sql, args, err := sb.Column("count() AS cnt").
		Where(squirrel.Eq{"record_type": query.RecordType}).
		Where(searchfilter.Where(r.schema, query.Filters...)).
		GroupBy(groupBy...).
		ToSql()
	if err != nil {
		return "", nil, errors.Wrap(err, "build pivot query")
	}
	return sql, args, nil
}

// dimensionExpr yields a Nullable(String) label. NULL means the record has no
// value for the dimension.
func (r *recordRepository) dimensionExpr(dim reporting.Dimension) (squirrel.Sqlizer, error) {
	if dim.Elapsed != nil {
		return elapsedDaysExpr(dim.Elapsed), nil
	}

	col := r.schema.Resolve(dim.Field)
	switch col.Kind {
	case searchfilter.KindScalar:
		return squirrel.Expr(fmt.Sprintf("nullIf(%s, '')", col.Name)), nil
	case searchfilter.KindField:
		return squirrel.Expr("nullIf(fields[?], '')", col.Name), nil
	default:
		return nil, &reporting.ConfigurationError{Field: dim.Field, Message: "multi-valued attributes cannot be aggregated"}
	}
}

func elapsedDaysExpr(e *reporting.ElapsedDays) squirrel.Sqlizer {
	const days = "dateDiff('day', dates[?], dates[?])"

	var sb strings.Builder
	args := []any{e.From, e.To}
	sb.WriteString("multiIf(NOT (mapContains(dates, ?) AND mapContains(dates, ?)), NULL")
	for _, rg := range e.Ranges {
		if rg.Max < 0 {
			sb.WriteString(", " + days + " >= ?, ?")
			args = append(args, e.From, e.To, rg.Min, rg.ID)
			continue
		}
		sb.WriteString(", " + days + " BETWEEN ? AND ?, ?")
		args = append(args, e.From, e.To, rg.Min, rg.Max, rg.ID)
	}
	sb.WriteString(", NULL)")
	return squirrel.Expr(sb.String(), args...)
}

// pivotNode accumulates counts for one label path. A row contributes to every
// node along its labels up to the first NULL.
type pivotNode struct {
	value    string
	count    int64
	children map[string]*pivotNode
}

func newPivotNode(value string) *pivotNode {
	return &pivotNode{value: value, children: map[string]*pivotNode{}}
}

func (n *pivotNode) add(labels []*string, count int64) {
	node := n
	for _, label := range labels {
		if label == nil {
			return
		}
		child, ok := node.children[*label]
		if !ok {
			child = newPivotNode(*label)
			node.children[*label] = child
		}
		child.count += count
		node = child
	}
}

// result orders siblings by count descending, then label. The root carries no
// count.
func (n *pivotNode) result(root bool) reporting.PivotResult {
	res := reporting.PivotResult{Value: n.value}
	if !root {
		res.Count = reporting.Count(n.count)
	}

	children := make([]*pivotNode, 0, len(n.children))
	for _, c := range n.children {
		children = append(children, c)
	}
	slices.SortFunc(children, func(a, b *pivotNode) int {
		if a.count != b.count {
			if a.count > b.count {
				return -1
			}
			return 1
		}
		return strings.Compare(a.value, b.value)
	})

	for _, c := range children {
		res.Pivot = append(res.Pivot, c.result(false))
	}
	return res
}

func emptyIfNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
