package rbac

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/atlas-itsm/atlas/internal/shared"
)

// Middleware wires the request gates for HTTP handlers. Stages run in a
// fixed order per request: AttachUserInfo enriches the context, then
// RequireAuth / RequirePermission / RequireRole terminate or pass through.
type Middleware struct {
	Directory UserDirectory
	Logger    *slog.Logger

	// FailClosedOnLookupError turns a user-store failure during
	// AttachUserInfo into a 401 instead of degrading the request to
	// anonymous. Off by default to match the original behavior; the flag
	// exists because that default is security-relevant.
	FailClosedOnLookupError bool
}

type authError struct {
	Message  string `json:"message"`
	Required string `json:"required,omitempty"`
	UserRole string `json:"userRole,omitempty"`
}

// AttachUserInfo resolves the session's user against the directory and
// stores a Principal in the request context. A failed lookup is logged and
// the request proceeds anonymously; downstream gates reject it where
// authentication is required.
func (m Middleware) AttachUserInfo(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := shared.SessionFromContext(r.Context())
		if sess == nil {
			next.ServeHTTP(w, r)
			return
		}
		raw := strings.TrimSpace(sess.User())
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}
		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			if m.Logger != nil {
				m.Logger.Warn("attach user info: bad session user id", slog.String("value", raw))
			}
			next.ServeHTTP(w, r)
			return
		}
		account, err := m.Directory.FindByID(r.Context(), userID)
		if err != nil {
			if m.Logger != nil {
				m.Logger.Warn("attach user info: lookup failed",
					slog.Int64("user_id", userID), slog.Any("error", err))
			}
			if m.FailClosedOnLookupError {
				respondAuthError(w, http.StatusUnauthorized, authError{Message: "Authentication required"})
				return
			}
			next.ServeHTTP(w, r)
			return
		}
		principal := &Principal{
			ID:         account.ID,
			Username:   account.Username,
			Role:       account.Role,
			EmployeeID: account.EmployeeID,
			ManagerID:  account.ManagerID,
		}
		next.ServeHTTP(w, r.WithContext(ContextWithPrincipal(r.Context(), principal)))
	})
}

// RequireAuth rejects requests that carry no principal.
func (m Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if PrincipalFromContext(r.Context()) == nil {
			respondAuthError(w, http.StatusUnauthorized, authError{Message: "Authentication required"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequirePermission gates a route on a single permission.
func (m Middleware) RequirePermission(permission string) func(http.Handler) http.Handler {
	return m.RequireAny(permission)
}

// RequireAny gates a route on holding at least one of the permissions.
func (m Middleware) RequireAny(perms ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := PrincipalFromContext(r.Context())
			if p == nil {
				respondAuthError(w, http.StatusUnauthorized, authError{Message: "Authentication required"})
				return
			}
			for _, perm := range perms {
				if HasPermission(p.Role, perm) {
					next.ServeHTTP(w, r)
					return
				}
			}
			required := ""
			if len(perms) > 0 {
				required = perms[0]
			}
			respondAuthError(w, http.StatusForbidden, authError{
				Message:  "Insufficient permissions",
				Required: required,
				UserRole: p.Role,
			})
		})
	}
}

// RequireRole gates a route on the principal being at least as privileged
// as minRole in the role hierarchy.
func (m Middleware) RequireRole(minRole string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := PrincipalFromContext(r.Context())
			if p == nil {
				respondAuthError(w, http.StatusUnauthorized, authError{Message: "Authentication required"})
				return
			}
			if !IsAtLeastAsPrivileged(p.Role, minRole) {
				respondAuthError(w, http.StatusForbidden, authError{
					Message:  "Insufficient role level",
					Required: minRole,
					UserRole: p.Role,
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func respondAuthError(w http.ResponseWriter, status int, body authError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
