package reporting

import (
	"context"

	"github.com/mloptapang/primero/internal/searchfilter"
)

// DayRange is a named, inclusive range of days. Max < 0 leaves it open-ended.
type DayRange struct {
	ID  string
	Min int
	Max int
}

// ElapsedDays derives a dimension from the gap in days between two date fields.
type ElapsedDays struct {
	From   string
	To     string
	Ranges []DayRange
}

// Dimension is one pivot level. Without Elapsed it pivots on the Field value.
type Dimension struct {
	Field   string
	Elapsed *ElapsedDays
}

// FieldDimensions builds plain field dimensions.
func FieldDimensions(fields ...string) []Dimension {
	dims := make([]Dimension, 0, len(fields))
	for _, f := range fields {
		dims = append(dims, Dimension{Field: f})
	}
	return dims
}

// DimensionNames returns the field names of the dimensions, in order.
func DimensionNames(dims []Dimension) []string {
	names := make([]string, 0, len(dims))
	for _, d := range dims {
		names = append(names, d.Field)
	}
	return names
}

// PivotQuery is one request to the search backend.
type PivotQuery struct {
	RecordType string
	Filters    []searchfilter.Filter
	Dimensions []Dimension
}

// Searcher is the search backend: it returns one pivot level per dimension.
type Searcher interface {
	Pivot(ctx context.Context, query PivotQuery) (PivotResult, error)
}
