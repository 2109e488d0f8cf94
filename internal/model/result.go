package model

import "encoding/json"

// IDTotal is a single-dimension aggregate row.
type IDTotal struct {
	ID    string `json:"id"`
	Total int64  `json:"total"`
}

// Group is one calendar bucket of a grouped aggregate. GroupID is an int for
// yearly buckets and a string ("2020-08", "2020-Q3") otherwise.
type Group struct {
	GroupID any       `json:"group_id"`
	Data    []IDTotal `json:"data"`
}

// ValueRow is one dimension tuple of a report with its total. Total is nil for
// the all-blank root row.
type ValueRow struct {
	Key   []string `json:"key"`
	Total *int64   `json:"total"`
}

// ReportData is returned to clients for a built report.
type ReportData struct {
	ReportID string         `json:"report_id"`
	Values   []ValueRow     `json:"values"`
	Totals   []IDTotal      `json:"totals,omitempty"`
	Tree     map[string]any `json:"tree"`
}

// IndicatorResult is the outcome of a managed indicator. Ungrouped results
// carry Totals and Values; grouped results carry one Group per bucket.
type IndicatorResult struct {
	Name      string
	GroupedBy string
	Totals    []IDTotal
	Values    []ValueRow
	Groups    []Group
}

// Grouped reports whether the result is split into calendar buckets.
func (r IndicatorResult) Grouped() bool {
	return r.GroupedBy != ""
}

// MarshalJSON puts either the buckets or the totals under "data".
func (r IndicatorResult) MarshalJSON() ([]byte, error) {
	if r.Grouped() {
		groups := r.Groups
		if groups == nil {
			groups = []Group{}
		}
		return json.Marshal(struct {
			Name      string  `json:"name"`
			GroupedBy string  `json:"grouped_by"`
			Data      []Group `json:"data"`
		}{r.Name, r.GroupedBy, groups})
	}

	totals := r.Totals
	if totals == nil {
		totals = []IDTotal{}
	}
	return json.Marshal(struct {
		Name   string     `json:"name"`
		Data   []IDTotal  `json:"data"`
		Values []ValueRow `json:"values,omitempty"`
	}{r.Name, totals, r.Values})
}
