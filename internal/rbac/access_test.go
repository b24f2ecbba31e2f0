package rbac

import "testing"

func ptr(v int64) *int64 { return &v }

func TestCanAccessAdminUnconditional(t *testing.T) {
	admin := &Principal{ID: 1, Role: RoleAdmin}
	cases := []struct {
		owner, manager *int64
	}{
		{nil, nil},
		{ptr(99), nil},
		{nil, ptr(99)},
		{ptr(99), ptr(98)},
	}
	for _, tc := range cases {
		if !CanAccess(admin, tc.owner, tc.manager) {
			t.Fatalf("admin denied with owner=%v manager=%v", tc.owner, tc.manager)
		}
	}
}

func TestCanAccessOwnerMatchAnyRole(t *testing.T) {
	for _, role := range []string{RoleManager, RoleAgent, RoleEmployee} {
		p := &Principal{ID: 7, Role: role}
		if !CanAccess(p, ptr(7), nil) {
			t.Fatalf("owner %s denied own resource", role)
		}
	}
}

func TestCanAccessManagerAttribution(t *testing.T) {
	manager := &Principal{ID: 3, Role: RoleManager}
	if !CanAccess(manager, ptr(9), ptr(3)) {
		t.Fatal("manager denied resource attributed to them")
	}
	agent := &Principal{ID: 3, Role: RoleAgent}
	if CanAccess(agent, ptr(9), ptr(3)) {
		t.Fatal("manager attribution must not apply to non-manager roles")
	}
}

func TestCanAccessDeniesWithoutAttribution(t *testing.T) {
	for _, role := range []string{RoleManager, RoleAgent, RoleEmployee, "unknown"} {
		p := &Principal{ID: 5, Role: role}
		if CanAccess(p, nil, nil) {
			t.Fatalf("%s allowed with no attribution to authorize on", role)
		}
	}
}

func TestCanAccessDeniesNonOwnerNonManager(t *testing.T) {
	p := &Principal{ID: 5, Role: RoleEmployee}
	if CanAccess(p, ptr(6), ptr(8)) {
		t.Fatal("non-owner non-manager must be denied")
	}
	if CanAccess(nil, ptr(5), nil) {
		t.Fatal("nil principal must be denied")
	}
}
