package indicator

import (
	"context"
	"slices"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"

	"github.com/mloptapang/primero/internal/model"
	"github.com/mloptapang/primero/internal/reporting"
	"github.com/mloptapang/primero/internal/searchfilter"
)

// Indicator is one evaluation of a Definition for a user and a filter set.
// It is built per request and evaluated at most once.
type Indicator struct {
	def         Definition
	searcher    reporting.Searcher
	user        *model.User
	filters     map[string]searchfilter.Filter
	concurrency int

	once   sync.Once
	result model.IndicatorResult
	err    error
}

// Option configures an Indicator.
type Option func(*Indicator)

// WithConcurrency bounds how many bucket queries run at once.
func WithConcurrency(n int) Option {
	return func(i *Indicator) { i.concurrency = n }
}

// Build prepares an indicator. A nil user applies no permission scope and is
// meant for trusted callers. filters are keyed by field name; the
// reporting.GroupedByField entry selects time grouping.
func Build(def Definition, searcher reporting.Searcher, user *model.User, filters map[string]searchfilter.Filter, opts ...Option) *Indicator {
	i := &Indicator{
		def:         def,
		searcher:    searcher,
		user:        user,
		filters:     filters,
		concurrency: 1,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Data evaluates the indicator on the first call and returns the same result,
// or the same error, on every later call.
func (i *Indicator) Data(ctx context.Context) (model.IndicatorResult, error) {
	i.once.Do(func() {
		i.result, i.err = i.evaluate(ctx)
	})
	return i.result, i.err
}

func (i *Indicator) evaluate(ctx context.Context) (model.IndicatorResult, error) {
	logger := zerolog.Ctx(ctx).With().Str("indicator", i.def.Name).Logger()

	scope, err := reporting.PermissionFilter(i.user, reporting.OwnershipAttributes)
	if err != nil {
		return model.IndicatorResult{}, err
	}

	granularity, grouped, err := i.granularity()
	if err != nil {
		return model.IndicatorResult{}, err
	}

	base := slices.Clone(i.def.Filters)
	if scope != nil {
		base = append(base, scope)
	}
	for _, key := range i.filterKeys() {
		if grouped && key == i.def.DateField {
			continue
		}
		base = append(base, i.filters[key])
	}

	if !grouped {
		vec, err := i.query(ctx, base)
		if err != nil {
			return model.IndicatorResult{}, err
		}
		logger.Debug().Int("rows", vec.Len()).Msg("indicator evaluated")
		return model.IndicatorResult{
			Name:   i.def.Name,
			Totals: vec.IDTotals(),
			Values: vec.ValueRows(),
		}, nil
	}

	dateRange, ok := i.filters[i.def.DateField].(searchfilter.DateRange)
	if !ok {
		return model.IndicatorResult{}, &reporting.ConfigurationError{
			Field:   i.def.DateField,
			Message: "a date range is required when grouping",
		}
	}
	buckets, err := reporting.Buckets(dateRange.From, dateRange.To, granularity)
	if err != nil {
		return model.IndicatorResult{}, err
	}

	groups, err := reporting.GroupByTime(ctx, buckets, i.concurrency, func(ctx context.Context, b reporting.Bucket) ([]model.IDTotal, error) {
		filters := append(slices.Clone(base), searchfilter.DateRange{Field: i.def.DateField, From: b.From, To: b.To})
		vec, err := i.query(ctx, filters)
		if err != nil {
			return nil, err
		}
		return vec.IDTotals(), nil
	})
	if err != nil {
		return model.IndicatorResult{}, err
	}

	logger.Debug().Str("grouped_by", string(granularity)).Int("buckets", len(groups)).Msg("indicator evaluated")
	return model.IndicatorResult{
		Name:      i.def.Name,
		GroupedBy: string(granularity),
		Groups:    groups,
	}, nil
}

func (i *Indicator) granularity() (reporting.Granularity, bool, error) {
	f, ok := i.filters[reporting.GroupedByField]
	if !ok || f == nil {
		return "", false, nil
	}
	v, ok := f.(searchfilter.Value)
	if !ok {
		return "", false, &reporting.ConfigurationError{Field: reporting.GroupedByField, Message: "must be a value filter"}
	}
	g, err := reporting.ParseGranularity(v.First())
	if err != nil {
		return "", false, err
	}
	return g, true, nil
}

// filterKeys returns the caller filter keys in a stable order, without the
// grouping directive.
func (i *Indicator) filterKeys() []string {
	keys := make([]string, 0, len(i.filters))
	for key, f := range i.filters {
		if key == reporting.GroupedByField || f == nil {
			continue
		}
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}

func (i *Indicator) query(ctx context.Context, filters []searchfilter.Filter) (*reporting.ValueVector, error) {
	tree, err := i.searcher.Pivot(ctx, reporting.PivotQuery{
		RecordType: i.def.RecordType,
		Filters:    filters,
		Dimensions: i.def.Dimensions,
	})
	if err != nil {
		var backendErr *reporting.BackendQueryError
		if errors.As(err, &backendErr) {
			return nil, err
		}
		return nil, &reporting.BackendQueryError{RecordType: i.def.RecordType, Err: err}
	}

	vec := reporting.ParsePivot(reporting.DimensionNames(i.def.Dimensions), tree)
	return reporting.Densify(vec, nil, true), nil
}
