package model

import (
	"time"
)

// RecordRequest represents an incoming search index document.
type RecordRequest struct {
	RecordType             string            `json:"record_type"`
	RecordID               string            `json:"record_id"`
	ModuleID               string            `json:"module_id"`
	OwnedBy                string            `json:"owned_by"`
	OwnedByGroups          []string          `json:"owned_by_groups"`
	OwnedByAgencyID        string            `json:"owned_by_agency_id"`
	AssociatedUserNames    []string          `json:"associated_user_names"`
	AssociatedUserGroups   []string          `json:"associated_user_groups"`
	AssociatedUserAgencies []string          `json:"associated_user_agencies"`
	Fields                 map[string]string `json:"fields"`
	Dates                  map[string]string `json:"dates"`
	Subforms               map[string]uint32 `json:"subforms"`
}

// Record is one row of the search index.
type Record struct {
	RecordType             string
	RecordID               string
	ModuleID               string
	OwnedBy                string
	OwnedByGroups          []string
	OwnedByAgencyID        string
	AssociatedUserNames    []string
	AssociatedUserGroups   []string
	AssociatedUserAgencies []string
	Fields                 map[string]string
	Dates                  map[string]time.Time
	Subforms               map[string]uint32
}

// RecordResult is returned once a record is accepted for indexing.
type RecordResult struct {
	Status string `json:"status"`
}
