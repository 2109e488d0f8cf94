package mocksearcher

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/mloptapang/primero/internal/reporting"
)

type Searcher struct {
	mock.Mock
}

var _ reporting.Searcher = &Searcher{}

func (m *Searcher) Pivot(ctx context.Context, query reporting.PivotQuery) (reporting.PivotResult, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(reporting.PivotResult), args.Error(1)
}
