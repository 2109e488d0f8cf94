package reporting

import (
	"fmt"

	"github.com/mloptapang/primero/internal/model"
)

// ConfigurationError reports an invalid report or indicator definition, or an
// invalid query parameter. It is raised before any backend query is issued.
type ConfigurationError struct {
	Field   string
	Value   any
	Message string
}

func (e *ConfigurationError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s (got %v)", e.Field, e.Message, e.Value)
}

// ScopeResolutionError reports a requesting user whose scope cannot be turned
// into a permission filter.
type ScopeResolutionError struct {
	UserName string
	Scope    model.Scope
	Message  string
}

func (e *ScopeResolutionError) Error() string {
	return fmt.Sprintf("user %q with scope %q: %s", e.UserName, e.Scope, e.Message)
}

// BackendQueryError wraps a failure of the search backend.
type BackendQueryError struct {
	RecordType string
	Err        error
}

func (e *BackendQueryError) Error() string {
	return fmt.Sprintf("search backend query for %s failed: %v", e.RecordType, e.Err)
}

func (e *BackendQueryError) Unwrap() error {
	return e.Err
}
