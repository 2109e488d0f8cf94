package searchfilter

import (
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/cockroachdb/errors"
)

// NotNullValue is accepted as a value meaning "attribute is present".
const NotNullValue = "not_null"

const dateLayout = "2006-01-02"

// Filter contributes a predicate on its field to a search index query.
type Filter interface {
	FieldName() string
	Predicate(col Column) squirrel.Sqlizer
}

// Where resolves every filter against the schema and ANDs the predicates.
func Where(schema Schema, filters ...Filter) squirrel.And {
	and := squirrel.And{}
	for _, f := range filters {
		if f == nil {
			continue
		}
		and = append(and, f.Predicate(schema.Resolve(f.FieldName())))
	}
	return and
}

// Value is a membership test: the attribute holds one of Values.
type Value struct {
	Field  string
	Values []string
}

// NewValue accepts a string, a string slice or a bool.
func NewValue(field string, value any) Value {
	v := Value{Field: field}
	switch val := value.(type) {
	case string:
		v.Values = []string{val}
	case []string:
		v.Values = append([]string(nil), val...)
	case bool:
		v.Values = []string{fmt.Sprintf("%t", val)}
	case nil:
	default:
		v.Values = []string{fmt.Sprint(val)}
	}
	return v
}

func (v Value) FieldName() string { return v.Field }

// First returns the first value or "".
func (v Value) First() string {
	if len(v.Values) == 0 {
		return ""
	}
	return v.Values[0]
}

func (v Value) Predicate(col Column) squirrel.Sqlizer {
	if len(v.Values) == 1 && v.Values[0] == NotNullValue {
		return NotNull{Field: v.Field}.Predicate(col)
	}
	values := v.Values
	if values == nil {
		values = []string{}
	}
	switch col.Kind {
	case KindScalar:
		return squirrel.Expr(fmt.Sprintf("has(?, %s)", col.Name), values)
	case KindArray:
		return squirrel.Expr(fmt.Sprintf("hasAny(%s, ?)", col.Name), values)
	default:
		return squirrel.Expr("has(?, fields[?])", values, col.Name)
	}
}

// NotNull requires the attribute to be present and non-empty.
type NotNull struct {
	Field string
}

func (n NotNull) FieldName() string { return n.Field }

func (n NotNull) Predicate(col Column) squirrel.Sqlizer {
	switch col.Kind {
	case KindScalar:
		return squirrel.Expr(fmt.Sprintf("%s != ''", col.Name))
	case KindArray:
		return squirrel.Expr(fmt.Sprintf("notEmpty(%s)", col.Name))
	default:
		return squirrel.Expr("(mapContains(fields, ?) OR mapContains(dates, ?) OR subforms[?] > 0)",
			col.Name, col.Name, col.Name)
	}
}

// DateRange bounds a date attribute, both ends inclusive. A zero bound is open.
type DateRange struct {
	Field string
	From  time.Time
	To    time.Time
}

// ParseDateRange builds a DateRange from "YYYY-MM-DD" strings; empty strings
// leave that bound open.
func ParseDateRange(field, from, to string) (DateRange, error) {
	r := DateRange{Field: field}
	var err error
	if from = strings.TrimSpace(from); from != "" {
		if r.From, err = time.Parse(dateLayout, from); err != nil {
			return DateRange{}, errors.Newf("invalid %s from date %q", field, from)
		}
	}
	if to = strings.TrimSpace(to); to != "" {
		if r.To, err = time.Parse(dateLayout, to); err != nil {
			return DateRange{}, errors.Newf("invalid %s to date %q", field, to)
		}
	}
	return r, nil
}

func (d DateRange) FieldName() string { return d.Field }

func (d DateRange) Predicate(col Column) squirrel.Sqlizer {
	and := squirrel.And{squirrel.Expr("mapContains(dates, ?)", col.Name)}
	if !d.From.IsZero() {
		and = append(and, squirrel.Expr("dates[?] >= toDate(?)", col.Name, d.From.Format(dateLayout)))
	}
	if !d.To.IsZero() {
		and = append(and, squirrel.Expr("dates[?] <= toDate(?)", col.Name, d.To.Format(dateLayout)))
	}
	return and
}
