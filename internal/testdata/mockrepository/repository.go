package mockrepository

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/mloptapang/primero/internal/model"
	"github.com/mloptapang/primero/internal/report"
	"github.com/mloptapang/primero/internal/reporting"
	"github.com/mloptapang/primero/internal/repository"
)

type RecordRepository struct {
	mock.Mock
}

// Interface compliance check
var _ repository.RecordRepository = &RecordRepository{}

func (m *RecordRepository) CreateBatch(ctx context.Context, records []model.Record) error {
	args := m.Called(ctx, records)
	return args.Error(0)
}

func (m *RecordRepository) Pivot(ctx context.Context, q reporting.PivotQuery) (reporting.PivotResult, error) {
	args := m.Called(ctx, q)
	return args.Get(0).(reporting.PivotResult), args.Error(1)
}

type ReportRepository struct {
	mock.Mock
}

var _ repository.ReportRepository = &ReportRepository{}

func (m *ReportRepository) Create(ctx context.Context, r *report.Report) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *ReportRepository) Get(ctx context.Context, uniqueID string) (*report.Report, error) {
	args := m.Called(ctx, uniqueID)
	r, _ := args.Get(0).(*report.Report)
	return r, args.Error(1)
}

func (m *ReportRepository) List(ctx context.Context) ([]*report.Report, error) {
	args := m.Called(ctx)
	reports, _ := args.Get(0).([]*report.Report)
	return reports, args.Error(1)
}

func (m *ReportRepository) Update(ctx context.Context, r *report.Report) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}
