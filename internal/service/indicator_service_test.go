package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mloptapang/primero/internal/indicator"
	"github.com/mloptapang/primero/internal/model"
	"github.com/mloptapang/primero/internal/reporting"
	"github.com/mloptapang/primero/internal/searchfilter"
	"github.com/mloptapang/primero/internal/testdata/mocksearcher"
)

func TestIndicatorService_UnknownName(t *testing.T) {
	searcher := &mocksearcher.Searcher{}
	svc := NewIndicatorService(searcher, 2)

	_, err := svc.Data(context.Background(), "nope", nil, nil)

	require.ErrorIs(t, err, indicator.ErrUnknown)
	searcher.AssertNotCalled(t, "Pivot", mock.Anything, mock.Anything)
}

func TestIndicatorService_Data(t *testing.T) {
	searcher := &mocksearcher.Searcher{}
	tree := reporting.PivotResult{Pivot: []reporting.PivotResult{
		{Value: "0_3_days", Count: reporting.Count(2)},
	}}
	searcher.On("Pivot", mock.Anything, mock.MatchedBy(func(q reporting.PivotQuery) bool {
		return q.RecordType == "incident"
	})).Return(tree, nil).Once()
	svc := NewIndicatorService(searcher, 2)

	result, err := svc.Data(context.Background(), indicator.ElapsedReportingTime,
		&model.User{UserName: "admin", Scope: model.ScopeAll}, map[string]searchfilter.Filter{})

	require.NoError(t, err)
	require.False(t, result.Grouped())
	require.Equal(t, []model.IDTotal{{ID: "0_3_days", Total: 2}}, result.Totals)
	searcher.AssertExpectations(t)
}

func TestIndicatorService_Names(t *testing.T) {
	svc := NewIndicatorService(&mocksearcher.Searcher{}, 1)

	require.Equal(t, indicator.Names(), svc.Names())
}
