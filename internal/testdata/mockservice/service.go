package mockservice

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/mloptapang/primero/internal/model"
	"github.com/mloptapang/primero/internal/report"
	"github.com/mloptapang/primero/internal/searchfilter"
)

type RecordService struct {
	mock.Mock
}

func (m *RecordService) BuildRecord(req model.RecordRequest) (model.Record, error) {
	args := m.Called(req)
	return args.Get(0).(model.Record), args.Error(1)
}

func (m *RecordService) ProcessRecord(ctx context.Context, record model.Record) (model.RecordResult, error) {
	args := m.Called(ctx, record)
	return args.Get(0).(model.RecordResult), args.Error(1)
}

type ReportService struct {
	mock.Mock
}

func (m *ReportService) Create(ctx context.Context, r *report.Report) (*report.Report, error) {
	args := m.Called(ctx, r)
	created, _ := args.Get(0).(*report.Report)
	return created, args.Error(1)
}

func (m *ReportService) Get(ctx context.Context, uniqueID string) (*report.Report, error) {
	args := m.Called(ctx, uniqueID)
	r, _ := args.Get(0).(*report.Report)
	return r, args.Error(1)
}

func (m *ReportService) List(ctx context.Context) ([]*report.Report, error) {
	args := m.Called(ctx)
	reports, _ := args.Get(0).([]*report.Report)
	return reports, args.Error(1)
}

func (m *ReportService) Update(ctx context.Context, uniqueID string, props report.Properties) (*report.Report, error) {
	args := m.Called(ctx, uniqueID, props)
	r, _ := args.Get(0).(*report.Report)
	return r, args.Error(1)
}

func (m *ReportService) Data(ctx context.Context, uniqueID string, user *model.User) (model.ReportData, error) {
	args := m.Called(ctx, uniqueID, user)
	return args.Get(0).(model.ReportData), args.Error(1)
}

type IndicatorService struct {
	mock.Mock
}

func (m *IndicatorService) Names() []string {
	args := m.Called()
	return args.Get(0).([]string)
}

func (m *IndicatorService) Data(ctx context.Context, name string, user *model.User, filters map[string]searchfilter.Filter) (model.IndicatorResult, error) {
	args := m.Called(ctx, name, user, filters)
	return args.Get(0).(model.IndicatorResult), args.Error(1)
}
