package shared

// Employee directory permissions declared for RBAC.
const (
	PermEmployeesView = "employees:view"
	PermEmployeesEdit = "employees:edit"
)

// EmployeeScopes lists all permissions related to the employee module.
func EmployeeScopes() []string {
	return []string{
		PermEmployeesView,
		PermEmployeesEdit,
	}
}
