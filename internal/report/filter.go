package report

import (
	"encoding/json"

	"github.com/mloptapang/primero/internal/searchfilter"
)

// ConstraintNotNull is the only supported constraint.
const ConstraintNotNull = "not_null"

// Filter is a stored report predicate. It carries either a Value (a string or
// a list of strings) or a Constraint.
type Filter struct {
	Attribute  string `json:"attribute"`
	Value      any    `json:"value,omitempty"`
	Constraint string `json:"constraint,omitempty"`
}

// UnmarshalJSON normalizes JSON arrays to []string.
func (f *Filter) UnmarshalJSON(data []byte) error {
	var raw struct {
		Attribute  string          `json:"attribute"`
		Value      json.RawMessage `json:"value"`
		Constraint string          `json:"constraint"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	f.Attribute = raw.Attribute
	f.Constraint = raw.Constraint
	f.Value = nil

	if len(raw.Value) == 0 || string(raw.Value) == "null" {
		return nil
	}
	var values []string
	if err := json.Unmarshal(raw.Value, &values); err == nil {
		f.Value = values
		return nil
	}
	var value any
	if err := json.Unmarshal(raw.Value, &value); err != nil {
		return err
	}
	f.Value = value
	return nil
}

// SearchFilter converts the stored predicate into a search filter.
func (f Filter) SearchFilter() searchfilter.Filter {
	if f.Constraint == ConstraintNotNull {
		return searchfilter.NotNull{Field: f.Attribute}
	}
	return searchfilter.NewValue(f.Attribute, f.Value)
}
