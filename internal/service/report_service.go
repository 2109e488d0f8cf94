package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/mloptapang/primero/internal/model"
	"github.com/mloptapang/primero/internal/registry"
	"github.com/mloptapang/primero/internal/report"
	"github.com/mloptapang/primero/internal/reporting"
	"github.com/mloptapang/primero/internal/repository"
)

// ReportService manages report definitions and builds their data.
type ReportService interface {
	Create(ctx context.Context, r *report.Report) (*report.Report, error)
	Get(ctx context.Context, uniqueID string) (*report.Report, error)
	List(ctx context.Context) ([]*report.Report, error)
	Update(ctx context.Context, uniqueID string, props report.Properties) (*report.Report, error)
	Data(ctx context.Context, uniqueID string, user *model.User) (model.ReportData, error)
}

type reportService struct {
	repo     repository.ReportRepository
	searcher reporting.Searcher
	registry *registry.Registry
}

// NewReportService constructs a reportService.
func NewReportService(repo repository.ReportRepository, searcher reporting.Searcher, reg *registry.Registry) ReportService {
	return &reportService{
		repo:     repo,
		searcher: searcher,
		registry: reg,
	}
}

// Create validates a new report and stores it under a fresh unique id.
func (s *reportService) Create(ctx context.Context, r *report.Report) (*report.Report, error) {
	r.UniqueID = ""
	r.GenerateUniqueID()

	if err := r.Validate(s.registry); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, r); err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().Str("report", r.UniqueID).Str("record_type", r.RecordType).Msg("report created")
	return r, nil
}

func (s *reportService) Get(ctx context.Context, uniqueID string) (*report.Report, error) {
	return s.repo.Get(ctx, uniqueID)
}

func (s *reportService) List(ctx context.Context) ([]*report.Report, error) {
	return s.repo.List(ctx)
}

// Update applies a partial update and revalidates before saving.
func (s *reportService) Update(ctx context.Context, uniqueID string, props report.Properties) (*report.Report, error) {
	r, err := s.repo.Get(ctx, uniqueID)
	if err != nil {
		return nil, err
	}

	r.UpdateProperties(props)
	if err := r.Validate(s.registry); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// Data loads a report and builds it for the given user. The stored definition
// is validated again since the registry may have changed since it was saved.
func (s *reportService) Data(ctx context.Context, uniqueID string, user *model.User) (model.ReportData, error) {
	r, err := s.repo.Get(ctx, uniqueID)
	if err != nil {
		return model.ReportData{}, err
	}

	if err := r.Validate(s.registry); err != nil {
		return model.ReportData{}, err
	}

	if err := r.Build(ctx, s.searcher, s.registry, user); err != nil {
		return model.ReportData{}, err
	}
	return r.Data(), nil
}
