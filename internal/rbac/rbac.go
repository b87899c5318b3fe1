// Package rbac holds the pure authorization policy. Global role and
// workspace role are orthogonal axes: one never implies the other.
package rbac

import "tickops/internal/model"

// IsSuperAdmin reports whether the global role grants administrative
// rights over workspaces, users and module entitlements. It grants no
// in-tenant data access.
func IsSuperAdmin(role model.GlobalRole) bool {
	return role == model.GlobalRoleSuperAdmin
}

// IsWorkspaceAdmin reports whether the workspace role administers that
// workspace.
func IsWorkspaceAdmin(role model.WorkspaceRole) bool {
	return role == model.WorkspaceRoleClientAdmin
}

// CanAccessModule reports whether the workspace role may open an
// enabled module. Every workspace role may view; write-capability
// distinctions are a module-level concern.
func CanAccessModule(role model.WorkspaceRole) bool {
	switch role {
	case model.WorkspaceRoleClientAdmin, model.WorkspaceRoleAgent, model.WorkspaceRoleViewer:
		return true
	}
	return false
}
