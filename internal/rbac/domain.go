package rbac

import "context"

// Principal describes the authenticated actor for one request. It is built
// by AttachUserInfo from session state and lives for the request only.
type Principal struct {
	ID         int64  `json:"id"`
	Username   string `json:"username"`
	Role       string `json:"role"`
	EmployeeID *int64 `json:"employeeId,omitempty"`
	ManagerID  *int64 `json:"managerId,omitempty"`
}

// Account is the user record shape the middleware needs from the user store.
type Account struct {
	ID         int64
	Username   string
	Role       string
	EmployeeID *int64
	ManagerID  *int64
}

// UserDirectory resolves a user account by its numeric id.
type UserDirectory interface {
	FindByID(ctx context.Context, id int64) (Account, error)
}

type principalContextKey struct{}

// ContextWithPrincipal stores the principal in context.
func ContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, p)
}

// PrincipalFromContext extracts the principal from context, nil when the
// request is anonymous.
func PrincipalFromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalContextKey{}).(*Principal)
	return p
}
