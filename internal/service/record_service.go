package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/hashicorp/go-set/v2"

	"github.com/mloptapang/primero/internal/model"
	"github.com/mloptapang/primero/internal/report"
)

const dateLayout = time.DateOnly

// RecordService validates index documents and hands them to the index worker.
type RecordService interface {
	BuildRecord(req model.RecordRequest) (model.Record, error)
	ProcessRecord(ctx context.Context, record model.Record) (model.RecordResult, error)
}

type recordService struct {
	worker      BatchRecordWorker
	recordTypes *set.Set[string]
}

// NewRecordService constructs a recordService.
func NewRecordService(worker BatchRecordWorker) RecordService {
	return &recordService{
		worker:      worker,
		recordTypes: set.From(report.ReportableRecordTypes()),
	}
}

// BuildRecord validates and constructs a Record from an incoming request.
func (s *recordService) BuildRecord(req model.RecordRequest) (model.Record, error) {
	if req.RecordType == "" {
		return model.Record{}, &ValidationError{Message: "record_type is required"}
	}

	if !s.recordTypes.Contains(req.RecordType) {
		return model.Record{}, &ValidationError{Message: fmt.Sprintf("record_type %q is not reportable", req.RecordType)}
	}

	if req.RecordID == "" {
		return model.Record{}, &ValidationError{Message: "record_id is required"}
	}

	if req.ModuleID == "" {
		return model.Record{}, &ValidationError{Message: "module_id is required"}
	}

	dates := make(map[string]time.Time, len(req.Dates))
	for field, raw := range req.Dates {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		d, err := time.Parse(dateLayout, raw)
		if err != nil {
			return model.Record{}, &ValidationError{Message: fmt.Sprintf("dates.%s must be YYYY-MM-DD", field)}
		}
		dates[field] = d
	}

	fields := make(map[string]string, len(req.Fields))
	for field, value := range req.Fields {
		if value != "" {
			fields[field] = value
		}
	}

	subforms := req.Subforms
	if subforms == nil {
		subforms = map[string]uint32{}
	}

	// The owner is always an associated user.
	associated := nonNil(req.AssociatedUserNames)
	if req.OwnedBy != "" && !slices.Contains(associated, req.OwnedBy) {
		associated = append([]string{req.OwnedBy}, associated...)
	}

	record := model.Record{
		RecordType:             req.RecordType,
		RecordID:               req.RecordID,
		ModuleID:               req.ModuleID,
		OwnedBy:                req.OwnedBy,
		OwnedByGroups:          nonNil(req.OwnedByGroups),
		OwnedByAgencyID:        req.OwnedByAgencyID,
		AssociatedUserNames:    associated,
		AssociatedUserGroups:   nonNil(req.AssociatedUserGroups),
		AssociatedUserAgencies: nonNil(req.AssociatedUserAgencies),
		Fields:                 fields,
		Dates:                  dates,
		Subforms:               subforms,
	}

	return record, nil
}

// ProcessRecord queues a record for batch indexing.
func (s *recordService) ProcessRecord(ctx context.Context, record model.Record) (model.RecordResult, error) {
	s.worker.Enqueue(record)
	return model.RecordResult{Status: "accepted"}, nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
