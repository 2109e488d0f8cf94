package reporting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mloptapang/primero/internal/model"
	"github.com/mloptapang/primero/internal/searchfilter"
)

func TestPermissionFilter_Scopes(t *testing.T) {
	tests := []struct {
		name  string
		user  *model.User
		attrs ScopeAttributes
		want  searchfilter.Filter
	}{
		{
			name:  "nil user applies no scope",
			user:  nil,
			attrs: OwnershipAttributes,
			want:  nil,
		},
		{
			name:  "all scope is omitted",
			user:  &model.User{UserName: "all_user", Scope: model.ScopeAll},
			attrs: OwnershipAttributes,
			want:  nil,
		},
		{
			name:  "self restricts to the owner",
			user:  &model.User{UserName: "self_user", Scope: model.ScopeSelf, GroupIDs: []string{"group-a"}},
			attrs: OwnershipAttributes,
			want:  searchfilter.Value{Field: "owned_by", Values: []string{"self_user"}},
		},
		{
			name:  "group restricts to distinct groups",
			user:  &model.User{UserName: "group_user", Scope: model.ScopeGroup, GroupIDs: []string{"group-b", "group-a", "group-b"}},
			attrs: OwnershipAttributes,
			want:  searchfilter.Value{Field: "owned_by_groups", Values: []string{"group-a", "group-b"}},
		},
		{
			name:  "report self scope matches associated users",
			user:  &model.User{UserName: "self_user", Scope: model.ScopeSelf},
			attrs: AssociationAttributes,
			want:  searchfilter.Value{Field: "associated_user_names", Values: []string{"self_user"}},
		},
		{
			name:  "agency keeps spaces verbatim",
			user:  &model.User{UserName: "service_provider", Scope: model.ScopeAgency, AgencyID: "TA TA"},
			attrs: AssociationAttributes,
			want:  searchfilter.Value{Field: "associated_user_agencies", Values: []string{"TA TA"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PermissionFilter(tt.user, tt.attrs)
			require.NoError(t, err)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPermissionFilter_Unresolvable(t *testing.T) {
	users := map[string]*model.User{
		"self without name":    {Scope: model.ScopeSelf},
		"group without groups": {UserName: "u", Scope: model.ScopeGroup},
		"agency without id":    {UserName: "u", Scope: model.ScopeAgency},
		"empty scope":          {UserName: "u"},
		"unknown scope":        {UserName: "u", Scope: "region"},
	}

	for name, user := range users {
		t.Run(name, func(t *testing.T) {
			got, err := PermissionFilter(user, OwnershipAttributes)
			assert.Nil(t, got)
			var scopeErr *ScopeResolutionError
			assert.ErrorAs(t, err, &scopeErr)
		})
	}
}
