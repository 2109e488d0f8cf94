package reporting

import (
	"strings"

	"github.com/mloptapang/primero/internal/model"
)

const keySeparator = "\x1f"

// TotalKey is the nested-hash key holding a level's subtotal.
const TotalKey = "_total"

// Row is one dimension tuple of a ValueVector. Total is nil when no count is
// available, which only happens for the all-blank root row.
type Row struct {
	Key   []string
	Total *int64
}

// IsRoot reports whether every label is blank.
func (r Row) IsRoot() bool {
	for _, k := range r.Key {
		if k != "" {
			return false
		}
	}
	return true
}

// ValueVector maps dimension tuples to counts, keeping insertion order.
type ValueVector struct {
	width int
	rows  []Row
	index map[string]int
}

// NewValueVector creates an empty vector for tuples of the given width.
func NewValueVector(width int) *ValueVector {
	return &ValueVector{width: width, index: map[string]int{}}
}

// Width is the number of dimensions.
func (v *ValueVector) Width() int { return v.width }

// Len is the number of rows.
func (v *ValueVector) Len() int { return len(v.rows) }

// Set inserts or overwrites the row for key. Overwrites keep the original position.
func (v *ValueVector) Set(key []string, total *int64) {
	k := encodeKey(key)
	if i, ok := v.index[k]; ok {
		v.rows[i].Total = total
		return
	}
	v.index[k] = len(v.rows)
	v.rows = append(v.rows, Row{Key: append([]string(nil), key...), Total: total})
}

// Get returns the total for key and whether the row exists.
func (v *ValueVector) Get(key ...string) (*int64, bool) {
	i, ok := v.index[encodeKey(key)]
	if !ok {
		return nil, false
	}
	return v.rows[i].Total, true
}

// Rows returns a copy of the rows in insertion order.
func (v *ValueVector) Rows() []Row {
	out := make([]Row, len(v.rows))
	copy(out, v.rows)
	return out
}

// RootKey is the all-blank tuple for the vector's width.
func (v *ValueVector) RootKey() []string {
	return make([]string, v.width)
}

// ValueRows converts the vector for serialization.
func (v *ValueVector) ValueRows() []model.ValueRow {
	out := make([]model.ValueRow, 0, len(v.rows))
	for _, r := range v.rows {
		out = append(out, model.ValueRow{Key: r.Key, Total: r.Total})
	}
	return out
}

// IDTotals reduces the non-root rows to {id, total} pairs. The id is the row's
// non-blank labels joined with ".".
func (v *ValueVector) IDTotals() []model.IDTotal {
	out := make([]model.IDTotal, 0, len(v.rows))
	for _, r := range v.rows {
		if r.IsRoot() || r.Total == nil {
			continue
		}
		labels := make([]string, 0, len(r.Key))
		for _, k := range r.Key {
			if k != "" {
				labels = append(labels, k)
			}
		}
		out = append(out, model.IDTotal{ID: strings.Join(labels, "."), Total: *r.Total})
	}
	return out
}

// AsJSONHash nests the rows by label: {"female": {"country_1": {"_total": 5}}}.
// A row's labels are followed until the first blank one, and the row total is
// stored under TotalKey at that depth. A nil root total is left out.
func (v *ValueVector) AsJSONHash() map[string]any {
	hash := map[string]any{}
	for _, r := range v.rows {
		node := hash
		for _, label := range r.Key {
			if label == "" {
				break
			}
			child, ok := node[label].(map[string]any)
			if !ok {
				child = map[string]any{}
				node[label] = child
			}
			node = child
		}
		if r.Total != nil {
			node[TotalKey] = *r.Total
		}
	}
	return hash
}

func encodeKey(key []string) string {
	return strings.Join(key, keySeparator)
}

// Count returns a pointer to n.
func Count(n int64) *int64 {
	return &n
}
