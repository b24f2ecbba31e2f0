package shared

// Core platform permissions.
const (
	PermUsersView = "users:view"
	PermUsersEdit = "users:edit"

	PermRolesView = "roles:view"

	PermAuditView = "audit:view"

	PermConfigView = "config:view"
	PermConfigEdit = "config:edit"

	PermNotificationsManage = "notifications:manage"
)

// CoreScopes lists all permissions related to the core platform.
func CoreScopes() []string {
	return []string{
		PermUsersView,
		PermUsersEdit,
		PermRolesView,
		PermAuditView,
		PermConfigView,
		PermConfigEdit,
		PermNotificationsManage,
	}
}

// AllScopes returns every permission declared across all modules.
func AllScopes() []string {
	scopes := CoreScopes()
	scopes = append(scopes, EmployeeScopes()...)
	scopes = append(scopes, AssetScopes()...)
	scopes = append(scopes, TicketScopes()...)
	return scopes
}
