package service

import "github.com/mloptapang/primero/internal/repository"

// ValidationError represents user input issues.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ErrReportNotFound is returned when no report has the requested unique id.
var ErrReportNotFound = repository.ErrReportNotFound
