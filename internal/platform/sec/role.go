// Copyright (c) 2026 Patrika Media. All rights reserved.
// Author: platform@patrika.news

package sec

// # Admin Roles

// AdminRole represents the authorization level carried by an admin context.
type AdminRole string

const (
	// Platform-wide access across all tenants
	RoleSuperAdmin AdminRole = "superadmin"

	// Full access within a single tenant (newspaper house)
	RoleAdmin AdminRole = "admin"

	// Can upload issues and manage clips, no catalog changes
	RoleEditor AdminRole = "editor"
)

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r AdminRole) AtLeast(target AdminRole) bool {
	return r.level() >= target.level()
}

// level maps a role to a numeric hierarchy level for comparison logic.
func (r AdminRole) level() int {

	// Linear scale (10-30) allows for future intermediate roles
	switch r {
	case RoleSuperAdmin:
		return 30
	case RoleAdmin:
		return 20
	case RoleEditor:
		return 10
	default:
		return 0
	}
}
