package rbac

import (
	"fmt"

	apperrors "admin-service/pkg/errors"
)

// Role represents a user's role in the system (hierarchical)
type Role string

// Permission represents a named capability granted to a role
type Permission string

const (
	RoleAdmin   Role = "ADMIN"
	RoleManager Role = "MANAGER"
	RoleUser    Role = "USER"
)

const (
	PermissionRead           Permission = "read"
	PermissionWrite          Permission = "write"
	PermissionDelete         Permission = "delete"
	PermissionManageUsers    Permission = "manage-users"
	PermissionManageSettings Permission = "manage-settings"
	PermissionManageProducts Permission = "manage-products"
	PermissionManageOrders   Permission = "manage-orders"
)

// Role privilege levels. Higher outranks lower; unknown roles have no level
// and fail every check.
const (
	levelAdmin   = 3
	levelManager = 2
	levelUser    = 1
)

// PermissionsOf returns the permission set of a role. The table is fixed at
// compile time; an unknown role gets no permissions (fail-closed).
func PermissionsOf(role Role) []Permission {
	switch role {
	case RoleAdmin:
		return []Permission{
			PermissionRead,
			PermissionWrite,
			PermissionDelete,
			PermissionManageUsers,
			PermissionManageSettings,
		}
	case RoleManager:
		return []Permission{
			PermissionRead,
			PermissionWrite,
			PermissionManageProducts,
			PermissionManageOrders,
		}
	case RoleUser:
		return []Permission{
			PermissionRead,
		}
	default:
		return nil
	}
}

// HasPermission reports whether the role's permission set contains the
// given permission.
func HasPermission(role Role, perm Permission) bool {
	for _, p := range PermissionsOf(role) {
		if p == perm {
			return true
		}
	}
	return false
}

// RankOf returns the privilege level of a role. Unknown roles rank 0 and
// never satisfy a hierarchy check.
func RankOf(role Role) int {
	switch role {
	case RoleAdmin:
		return levelAdmin
	case RoleManager:
		return levelManager
	case RoleUser:
		return levelUser
	default:
		return 0
	}
}

// MeetsOrExceeds reports whether the actual role has at least the privilege
// level of the required role. Used for coarse hierarchy checks only;
// permission lookups are independent per role.
func MeetsOrExceeds(actual, required Role) bool {
	requiredRank := RankOf(required)
	if requiredRank == 0 {
		return false
	}
	return RankOf(actual) >= requiredRank
}

// Valid reports whether the role is one of the configured roles.
func Valid(role Role) bool {
	return RankOf(role) > 0
}

// ParseRole validates a role string from a token or a stored row.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !Valid(r) {
		return "", fmt.Errorf("%w: %s", apperrors.ErrInvalidRole, s)
	}
	return r, nil
}

// Roles returns all configured roles in descending privilege order.
func Roles() []Role {
	return []Role{RoleAdmin, RoleManager, RoleUser}
}
