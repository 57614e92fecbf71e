package auth

import (
	"fmt"

	"github.com/zpatrick/rbac"
)

// Roles.
const (
	RoleAnonymous = "anonymous"
	RoleAdmin     = "admin"
)

// Actions.
const (
	ActionRead   = "read"
	ActionWrite  = "write"
	ActionDelete = "delete"
)

// Targets.
const (
	TargetSites      = "sites"
	TargetCategories = "categories"
	TargetTags       = "tags"
	TargetSettings   = "settings"
	TargetUsers      = "users"
)

// Policy maps role names to their permissions. Anonymous clients can read the
// public listing, and admins can do anything.
type Policy map[string]rbac.Role

// DefaultPolicy returns the default access policy.
func DefaultPolicy() Policy {
	return Policy{
		RoleAnonymous: {
			RoleID: RoleAnonymous,
			Permissions: []rbac.Permission{
				rbac.NewGlobPermission(ActionRead, TargetSites),
				rbac.NewGlobPermission(ActionRead, TargetSettings),
				rbac.NewGlobPermission(ActionRead, TargetCategories),
				rbac.NewGlobPermission(ActionRead, TargetTags),
			},
		},
		RoleAdmin: {
			RoleID:      RoleAdmin,
			Permissions: []rbac.Permission{rbac.NewGlobPermission("*", "*")},
		},
	}
}

// Can returns true if the role is allowed to perform action on target.
func (p Policy) Can(role, action, target string) (bool, error) {
	r, ok := p[role]
	if !ok {
		return false, fmt.Errorf("unknown role '%s'", role)
	}

	ok, err := r.Can(action, target)
	if err != nil {
		return false, fmt.Errorf("failed checking permission: %w", err)
	}

	return ok, nil
}
