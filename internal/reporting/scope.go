package reporting

import (
	"slices"

	"github.com/hashicorp/go-set/v2"

	"github.com/mloptapang/primero/internal/model"
	"github.com/mloptapang/primero/internal/searchfilter"
)

// ScopeAttributes names the index attribute each scope restricts on.
type ScopeAttributes struct {
	Self   string
	Group  string
	Agency string
}

// OwnershipAttributes restrict on the record owner. Indicators use these.
var OwnershipAttributes = ScopeAttributes{
	Self:   "owned_by",
	Group:  "owned_by_groups",
	Agency: "owned_by_agency_id",
}

// AssociationAttributes restrict on every user associated with the record.
// Reports use these.
var AssociationAttributes = ScopeAttributes{
	Self:   "associated_user_names",
	Group:  "associated_user_groups",
	Agency: "associated_user_agencies",
}

// PermissionFilter turns the user's scope into a single membership filter.
// It returns nil when no restriction applies: a nil user (trusted callers) or
// the all scope.
func PermissionFilter(user *model.User, attrs ScopeAttributes) (searchfilter.Filter, error) {
	if user == nil {
		return nil, nil
	}

	switch user.Scope {
	case model.ScopeAll:
		return nil, nil
	case model.ScopeSelf:
		if user.UserName == "" {
			return nil, &ScopeResolutionError{Scope: user.Scope, Message: "user name is required for self scope"}
		}
		return searchfilter.NewValue(attrs.Self, user.UserName), nil
	case model.ScopeGroup:
		groups := distinct(user.GroupIDs)
		if len(groups) == 0 {
			return nil, &ScopeResolutionError{UserName: user.UserName, Scope: user.Scope, Message: "user belongs to no group"}
		}
		return searchfilter.NewValue(attrs.Group, groups), nil
	case model.ScopeAgency:
		if user.AgencyID == "" {
			return nil, &ScopeResolutionError{UserName: user.UserName, Scope: user.Scope, Message: "user has no agency"}
		}
		return searchfilter.NewValue(attrs.Agency, user.AgencyID), nil
	default:
		return nil, &ScopeResolutionError{UserName: user.UserName, Scope: user.Scope, Message: "unknown scope"}
	}
}

func distinct(values []string) []string {
	s := set.New[string](len(values))
	for _, v := range values {
		if v != "" {
			s.Insert(v)
		}
	}
	out := s.Slice()
	slices.Sort(out)
	return out
}
