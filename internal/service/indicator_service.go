package service

import (
	"context"

	"github.com/mloptapang/primero/internal/indicator"
	"github.com/mloptapang/primero/internal/model"
	"github.com/mloptapang/primero/internal/reporting"
	"github.com/mloptapang/primero/internal/searchfilter"
)

// IndicatorService evaluates the built-in indicators.
type IndicatorService interface {
	Names() []string
	Data(ctx context.Context, name string, user *model.User, filters map[string]searchfilter.Filter) (model.IndicatorResult, error)
}

type indicatorService struct {
	searcher    reporting.Searcher
	concurrency int
}

// NewIndicatorService constructs an indicatorService. concurrency bounds the
// number of time bucket queries in flight per request.
func NewIndicatorService(searcher reporting.Searcher, concurrency int) IndicatorService {
	return &indicatorService{
		searcher:    searcher,
		concurrency: concurrency,
	}
}

func (s *indicatorService) Names() []string {
	return indicator.Names()
}

func (s *indicatorService) Data(ctx context.Context, name string, user *model.User, filters map[string]searchfilter.Filter) (model.IndicatorResult, error) {
	def, err := indicator.Lookup(name)
	if err != nil {
		return model.IndicatorResult{}, err
	}

	ind := indicator.Build(def, s.searcher, user, filters, indicator.WithConcurrency(s.concurrency))
	return ind.Data(ctx)
}
