package report

import (
	"context"
	"encoding/json"
	"reflect"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mloptapang/primero/internal/model"
	"github.com/mloptapang/primero/internal/registry"
	"github.com/mloptapang/primero/internal/reporting"
	"github.com/mloptapang/primero/internal/searchfilter"
)

// ModuleField is the index attribute holding a record's module.
const ModuleField = "module_id"

var reportableRecordTypes = []string{
	"case",
	"incident",
	"tracing_request",
	"violation",
	"reportable_follow_up",
	"reportable_protection_concern",
	"reportable_service",
}

// ReportableRecordTypes lists the record types a report can aggregate.
func ReportableRecordTypes() []string {
	return slices.Clone(reportableRecordTypes)
}

var defaultFilters = map[string][]Filter{
	"case": {
		{Attribute: "status", Value: []string{"open"}},
		{Attribute: "record_state", Value: []string{"true"}},
	},
	"incident": {
		{Attribute: "status", Value: []string{"open"}},
		{Attribute: "record_state", Value: []string{"true"}},
	},
	"tracing_request": {
		{Attribute: "record_state", Value: []string{"true"}},
	},
	"reportable_follow_up": {
		{Attribute: "followup_date", Constraint: ConstraintNotNull},
	},
	"reportable_service": {
		{Attribute: "service_type", Value: searchfilter.NotNullValue},
		{Attribute: "service_appointment_date", Constraint: ConstraintNotNull},
	},
	"reportable_protection_concern": {
		{Attribute: "protection_concern_type", Value: searchfilter.NotNullValue},
	},
}

// Report is an administrator-defined aggregate over one record type.
type Report struct {
	ID                int64     `json:"id"`
	UniqueID          string    `json:"unique_id"`
	Name              string    `json:"name"`
	Description       string    `json:"description,omitempty"`
	RecordType        string    `json:"record_type"`
	ModuleIDs         []string  `json:"module_id"`
	AggregateBy       []string  `json:"aggregate_by"`
	DisaggregateBy    []string  `json:"disaggregate_by"`
	Filters           []Filter  `json:"filters"`
	PermissionFilter  *Filter   `json:"permission_filter,omitempty"`
	ExcludeEmptyRows  bool      `json:"exclude_empty_rows"`
	Graph             bool      `json:"graph"`
	AddDefaultFilters bool      `json:"add_default_filters"`
	Editable          bool      `json:"editable"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`

	values *reporting.ValueVector
}

type reportJSON Report

// MarshalJSON emits the graph flag under both graph and is_graph.
func (r Report) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		reportJSON
		IsGraph bool `json:"is_graph"`
	}{reportJSON: reportJSON(r), IsGraph: r.Graph})
}

// UnmarshalJSON accepts the graph flag under either name. is_graph wins when
// both are present.
func (r *Report) UnmarshalJSON(data []byte) error {
	aux := struct {
		*reportJSON
		IsGraph *bool `json:"is_graph"`
	}{reportJSON: (*reportJSON)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.IsGraph != nil {
		r.Graph = *aux.IsGraph
	}
	return nil
}

// IsGraph is the legacy name of Graph.
func (r *Report) IsGraph() bool { return r.Graph }

// SetIsGraph writes the graph flag.
func (r *Report) SetIsGraph(v bool) { r.Graph = v }

// Validate checks the definition before it is saved or built.
func (r *Report) Validate(reg *registry.Registry) error {
	if strings.TrimSpace(r.Name) == "" {
		return &reporting.ConfigurationError{Field: "name", Message: "must not be blank"}
	}
	if len(r.AggregateBy) == 0 {
		return &reporting.ConfigurationError{Field: "aggregate_by", Message: "must not be blank"}
	}
	if r.RecordType == "" {
		return &reporting.ConfigurationError{Field: "record_type", Message: "must not be blank"}
	}
	if !slices.Contains(reportableRecordTypes, r.RecordType) {
		return &reporting.ConfigurationError{Field: "record_type", Value: r.RecordType, Message: "is not reportable"}
	}
	return r.validateModules(reg)
}

func (r *Report) validateModules(reg *registry.Registry) error {
	ids := make([]string, 0, len(r.ModuleIDs))
	for _, id := range r.ModuleIDs {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return &reporting.ConfigurationError{Field: ModuleField, Message: "must contain at least one module"}
	}
	if reg == nil || !reg.HasModules(ids...) {
		return &reporting.ConfigurationError{Field: ModuleField, Value: strings.Join(r.ModuleIDs, ","), Message: "contains an unknown module"}
	}
	return nil
}

// ApplyDefaultFilters adds the record type's standard filters when
// AddDefaultFilters is set. Filters already present are not duplicated.
func (r *Report) ApplyDefaultFilters() {
	if !r.AddDefaultFilters {
		return
	}
	for _, f := range defaultFilters[r.RecordType] {
		if !slices.ContainsFunc(r.Filters, func(existing Filter) bool { return reflect.DeepEqual(existing, f) }) {
			r.Filters = append(r.Filters, f)
		}
	}
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// GenerateUniqueID assigns report-<name>-<7 hex chars> once. An existing id
// is never replaced.
func (r *Report) GenerateUniqueID() {
	if r.UniqueID != "" {
		return
	}
	slug := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(r.Name), "-"), "-")
	r.UniqueID = "report-" + slug + "-" + uuid.New().String()[:7]
}

// Properties is a partial update. Nil fields are left unchanged.
type Properties struct {
	Name              *string   `json:"name"`
	Description       *string   `json:"description"`
	RecordType        *string   `json:"record_type"`
	ModuleIDs         *[]string `json:"module_id"`
	AggregateBy       *[]string `json:"aggregate_by"`
	DisaggregateBy    *[]string `json:"disaggregate_by"`
	Filters           *[]Filter `json:"filters"`
	ExcludeEmptyRows  *bool     `json:"exclude_empty_rows"`
	Graph             *bool     `json:"graph"`
	IsGraph           *bool     `json:"is_graph"`
	AddDefaultFilters *bool     `json:"add_default_filters"`
	Editable          *bool     `json:"editable"`
}

// UpdateProperties applies a partial update. UniqueID is never changed.
func (r *Report) UpdateProperties(p Properties) {
	if p.Name != nil {
		r.Name = *p.Name
	}
	if p.Description != nil {
		r.Description = *p.Description
	}
	if p.RecordType != nil {
		r.RecordType = *p.RecordType
	}
	if p.ModuleIDs != nil {
		r.ModuleIDs = *p.ModuleIDs
	}
	if p.AggregateBy != nil {
		r.AggregateBy = *p.AggregateBy
	}
	if p.DisaggregateBy != nil {
		r.DisaggregateBy = *p.DisaggregateBy
	}
	if p.Filters != nil {
		r.Filters = *p.Filters
	}
	if p.ExcludeEmptyRows != nil {
		r.ExcludeEmptyRows = *p.ExcludeEmptyRows
	}
	if p.Graph != nil {
		r.Graph = *p.Graph
	}
	if p.IsGraph != nil {
		r.Graph = *p.IsGraph
	}
	if p.AddDefaultFilters != nil {
		r.AddDefaultFilters = *p.AddDefaultFilters
	}
	if p.Editable != nil {
		r.Editable = *p.Editable
	}
}

// Dimensions are aggregate_by followed by disaggregate_by.
func (r *Report) Dimensions() []reporting.Dimension {
	fields := make([]string, 0, len(r.AggregateBy)+len(r.DisaggregateBy))
	fields = append(fields, r.AggregateBy...)
	fields = append(fields, r.DisaggregateBy...)
	return reporting.FieldDimensions(fields...)
}

// Query assembles the backend query: module, stored filters and the
// permission filter. An explicit PermissionFilter overrides the user's scope.
func (r *Report) Query(user *model.User) (reporting.PivotQuery, error) {
	filters := []searchfilter.Filter{searchfilter.NewValue(ModuleField, r.ModuleIDs)}
	for _, f := range r.Filters {
		filters = append(filters, f.SearchFilter())
	}

	if r.PermissionFilter != nil {
		filters = append(filters, r.PermissionFilter.SearchFilter())
	} else {
		scope, err := reporting.PermissionFilter(user, reporting.AssociationAttributes)
		if err != nil {
			return reporting.PivotQuery{}, err
		}
		if scope != nil {
			filters = append(filters, scope)
		}
	}

	return reporting.PivotQuery{
		RecordType: r.RecordType,
		Filters:    filters,
		Dimensions: r.Dimensions(),
	}, nil
}

// Build runs the pivot query and stores the densified values.
func (r *Report) Build(ctx context.Context, searcher reporting.Searcher, reg *registry.Registry, user *model.User) error {
	r.ApplyDefaultFilters()

	query, err := r.Query(user)
	if err != nil {
		return err
	}

	tree, err := searcher.Pivot(ctx, query)
	if err != nil {
		var backendErr *reporting.BackendQueryError
		if errors.As(err, &backendErr) {
			return err
		}
		return &reporting.BackendQueryError{RecordType: r.RecordType, Err: err}
	}

	vec := reporting.ParsePivot(reporting.DimensionNames(query.Dimensions), tree)

	var options func(string) []string
	if reg != nil {
		options = func(field string) []string { return reg.Options(r.RecordType, field) }
	}
	expected := reporting.ExpectedKeys(reporting.DimensionLabels(query.Dimensions, options))
	r.values = reporting.Densify(vec, expected, r.ExcludeEmptyRows)

	zerolog.Ctx(ctx).Debug().
		Str("report", r.UniqueID).
		Int("rows", r.values.Len()).
		Msg("report built")
	return nil
}

// Values returns the built values, nil before Build.
func (r *Report) Values() *reporting.ValueVector {
	return r.values
}

// Data is the client payload of a built report.
func (r *Report) Data() model.ReportData {
	data := model.ReportData{ReportID: r.UniqueID, Values: []model.ValueRow{}, Tree: map[string]any{}}
	if r.values == nil {
		return data
	}
	data.Values = r.values.ValueRows()
	if r.values.Width() == 1 {
		data.Totals = r.values.IDTotals()
	}
	data.Tree = r.values.AsJSONHash()
	return data
}

// ValuesAsJSONHash nests the built values by label.
func (r *Report) ValuesAsJSONHash() map[string]any {
	if r.values == nil {
		return map[string]any{}
	}
	return r.values.AsJSONHash()
}
