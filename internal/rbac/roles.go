package rbac

import (
	"strings"

	"github.com/atlas-itsm/atlas/internal/shared"
)

// Role names form a closed set. Grants are fixed at startup; changing a
// role's permissions is a code change, not a runtime call.
const (
	RoleAdmin    = "admin"
	RoleManager  = "manager"
	RoleAgent    = "agent"
	RoleEmployee = "employee"
)

// hierarchySentinel is the level reported for unrecognised roles. It sits
// below every real role so an unknown role fails every minimum-role check.
const hierarchySentinel = 0

// hierarchyLevels orders the roles; a larger level is more privileged.
// Callers never compare levels directly, they go through
// IsAtLeastAsPrivileged.
var hierarchyLevels = map[string]int{
	RoleAdmin:    4,
	RoleManager:  3,
	RoleAgent:    2,
	RoleEmployee: 1,
}

// roleGrants enumerates each role's full permission set explicitly. There
// is no additive inheritance between roles: a higher role lists everything
// a lower role has where that is intended.
var roleGrants = map[string][]string{
	RoleAdmin: shared.AllScopes(),
	RoleManager: {
		shared.PermUsersView,
		shared.PermEmployeesView,
		shared.PermEmployeesEdit,
		shared.PermAssetsView,
		shared.PermAssetsAssign,
		shared.PermTicketsView,
		shared.PermTicketsCreate,
		shared.PermTicketsEdit,
		shared.PermTicketsAssign,
		shared.PermTicketsClose,
		shared.PermAuditView,
		shared.PermNotificationsManage,
	},
	RoleAgent: {
		shared.PermEmployeesView,
		shared.PermAssetsView,
		shared.PermAssetsEdit,
		shared.PermAssetsAssign,
		shared.PermTicketsView,
		shared.PermTicketsCreate,
		shared.PermTicketsEdit,
		shared.PermTicketsAssign,
		shared.PermTicketsClose,
		shared.PermNotificationsManage,
	},
	RoleEmployee: {
		shared.PermAssetsViewOwn,
		shared.PermTicketsViewOwn,
		shared.PermTicketsCreate,
		shared.PermNotificationsManage,
	},
}

// permissionSets is the membership index derived from roleGrants once at
// package init.
var permissionSets = func() map[string]map[string]struct{} {
	sets := make(map[string]map[string]struct{}, len(roleGrants))
	for role, grants := range roleGrants {
		set := make(map[string]struct{}, len(grants))
		for _, p := range grants {
			set[normalize(p)] = struct{}{}
		}
		sets[role] = set
	}
	return sets
}()

// Roles returns the closed role set ordered from most to least privileged.
func Roles() []string {
	return []string{RoleAdmin, RoleManager, RoleAgent, RoleEmployee}
}

// IsValidRole reports whether name is one of the defined roles.
func IsValidRole(name string) bool {
	_, ok := hierarchyLevels[normalize(name)]
	return ok
}

// PermissionsOf returns the grant set for a role. Unrecognised roles get an
// empty set, never an error.
func PermissionsOf(role string) []string {
	grants, ok := roleGrants[normalize(role)]
	if !ok {
		return nil
	}
	out := make([]string, len(grants))
	copy(out, grants)
	return out
}

// HierarchyLevelOf returns the role's position in the privilege order.
// Unrecognised roles map to a sentinel below every real role.
func HierarchyLevelOf(role string) int {
	if level, ok := hierarchyLevels[normalize(role)]; ok {
		return level
	}
	return hierarchySentinel
}

// IsAtLeastAsPrivileged reports whether role a meets or exceeds role b in
// the hierarchy. Unknown roles on either side fail the check.
func IsAtLeastAsPrivileged(a, b string) bool {
	la := HierarchyLevelOf(a)
	lb := HierarchyLevelOf(b)
	return la > hierarchySentinel && lb > hierarchySentinel && la >= lb
}

// HasPermission reports whether the role's grant set contains the
// permission. Unknown roles and unknown permissions fail closed.
func HasPermission(role, permission string) bool {
	set, ok := permissionSets[normalize(role)]
	if !ok {
		return false
	}
	_, ok = set[normalize(permission)]
	return ok
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
