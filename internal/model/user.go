package model

// Scope is the breadth of records a user's role lets them see.
type Scope string

const (
	ScopeSelf   Scope = "self"
	ScopeGroup  Scope = "group"
	ScopeAgency Scope = "agency"
	ScopeAll    Scope = "all"
)

// User is the permission descriptor attached to a request by the auth layer.
type User struct {
	UserName string
	Scope    Scope
	GroupIDs []string
	AgencyID string
}
