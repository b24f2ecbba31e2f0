package shared

// Ticketing permissions declared for RBAC.
const (
	PermTicketsView    = "tickets:view"
	PermTicketsViewOwn = "tickets:view:own"
	PermTicketsCreate  = "tickets:create"
	PermTicketsEdit    = "tickets:edit"
	PermTicketsAssign  = "tickets:assign"
	PermTicketsClose   = "tickets:close"
)

// TicketScopes lists all permissions related to the ticket module.
func TicketScopes() []string {
	return []string{
		PermTicketsView,
		PermTicketsViewOwn,
		PermTicketsCreate,
		PermTicketsEdit,
		PermTicketsAssign,
		PermTicketsClose,
	}
}
