package rbac

import (
	"testing"

	"github.com/atlas-itsm/atlas/internal/shared"
)

func TestPermissionsOfUnknownRoleIsEmpty(t *testing.T) {
	for _, role := range []string{"", "root", "superadmin", "ADMINX"} {
		if perms := PermissionsOf(role); len(perms) != 0 {
			t.Fatalf("expected empty grant set for %q, got %v", role, perms)
		}
	}
}

func TestHasPermissionMatchesGrantTable(t *testing.T) {
	for _, role := range Roles() {
		granted := make(map[string]struct{})
		for _, p := range PermissionsOf(role) {
			granted[p] = struct{}{}
			if !HasPermission(role, p) {
				t.Fatalf("role %s should hold granted permission %s", role, p)
			}
		}
		for _, p := range shared.AllScopes() {
			_, want := granted[p]
			if got := HasPermission(role, p); got != want {
				t.Fatalf("HasPermission(%s, %s) = %v, grant table says %v", role, p, got, want)
			}
		}
	}
}

func TestHasPermissionFailsClosed(t *testing.T) {
	if HasPermission("root", shared.PermTicketsView) {
		t.Fatal("unknown role must not hold any permission")
	}
	if HasPermission(RoleAdmin, "no:such:permission") {
		t.Fatal("unknown permission must not be granted")
	}
}

func TestEveryDeclaredPermissionIsGrantedSomewhere(t *testing.T) {
	// A permission no role holds makes any route gated on it permanently
	// inaccessible.
	for _, p := range shared.AllScopes() {
		held := false
		for _, role := range Roles() {
			if HasPermission(role, p) {
				held = true
				break
			}
		}
		if !held {
			t.Fatalf("permission %s is granted to no role", p)
		}
	}
}

func TestHierarchyIsStrictTotalOrder(t *testing.T) {
	ordered := Roles() // most to least privileged
	seen := make(map[int]string)
	for i, role := range ordered {
		level := HierarchyLevelOf(role)
		if level <= hierarchySentinel {
			t.Fatalf("real role %s got sentinel level %d", role, level)
		}
		if prev, dup := seen[level]; dup {
			t.Fatalf("roles %s and %s share hierarchy level %d", prev, role, level)
		}
		seen[level] = role
		for j, other := range ordered {
			want := i <= j // earlier in the list means more privileged
			if got := IsAtLeastAsPrivileged(role, other); got != want {
				t.Fatalf("IsAtLeastAsPrivileged(%s, %s) = %v, want %v", role, other, got, want)
			}
		}
	}
}

func TestUnknownRoleFailsEveryMinimumRoleCheck(t *testing.T) {
	if HierarchyLevelOf("operator") != hierarchySentinel {
		t.Fatal("unknown role must map to the sentinel level")
	}
	for _, role := range Roles() {
		if IsAtLeastAsPrivileged("operator", role) {
			t.Fatalf("unknown role must not satisfy minimum role %s", role)
		}
	}
	if IsAtLeastAsPrivileged(RoleAdmin, "operator") {
		t.Fatal("an unknown minimum role must fail closed, not pass")
	}
	if IsAtLeastAsPrivileged("operator", "operator") {
		t.Fatal("two unknown roles must not satisfy each other")
	}
}

func TestRoleNamesNormalized(t *testing.T) {
	if !HasPermission("Admin", shared.PermUsersEdit) {
		t.Fatal("role lookup should be case-insensitive")
	}
	if !IsAtLeastAsPrivileged(" MANAGER ", RoleAgent) {
		t.Fatal("role comparison should trim and fold case")
	}
}
