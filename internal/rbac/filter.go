package rbac

// ScopeStrategy names how a role's visibility over a fetched collection is
// narrowed. Kept as an explicit table so a future team/department scoping
// rule is a policy edit, not a code change.
type ScopeStrategy string

const (
	// ScopeNone applies no filtering: the role sees the full result set.
	ScopeNone ScopeStrategy = "none"
	// ScopeSelf keeps only records attributed to the principal.
	ScopeSelf ScopeStrategy = "self"
	// ScopeTeam is reserved for per-team scoping; not implemented yet.
	ScopeTeam ScopeStrategy = "team"
)

// scopeStrategies assigns a strategy per role. Manager and agent currently
// see everything; this is a known breadth gap kept deliberately until team
// scoping lands. Unknown roles fall back to ScopeSelf.
var scopeStrategies = map[string]ScopeStrategy{
	RoleAdmin:    ScopeNone,
	RoleManager:  ScopeNone,
	RoleAgent:    ScopeNone,
	RoleEmployee: ScopeSelf,
}

// ScopeFor returns the collection scope strategy for a role.
func ScopeFor(role string) ScopeStrategy {
	if s, ok := scopeStrategies[normalize(role)]; ok {
		return s
	}
	return ScopeSelf
}

// Attribution carries the ids a record exposes for visibility decisions.
// Absent ids never match.
type Attribution struct {
	SubmittedBy *int64
	AssignedTo  *int64
	Owner       *int64
}

// Matches reports whether any attribution id equals the principal id.
func (a Attribution) Matches(principalID int64) bool {
	if a.SubmittedBy != nil && *a.SubmittedBy == principalID {
		return true
	}
	if a.AssignedTo != nil && *a.AssignedTo == principalID {
		return true
	}
	if a.Owner != nil && *a.Owner == principalID {
		return true
	}
	return false
}

// FilterVisible narrows an already-fetched result set to what the role may
// see. It is a pure function over its inputs; the caller fetched the full
// set. attr extracts the attribution ids from a record.
func FilterVisible[T any](records []T, role string, principalID int64, attr func(T) Attribution) []T {
	if ScopeFor(role) != ScopeSelf {
		return records
	}
	visible := make([]T, 0, len(records))
	for _, rec := range records {
		if attr(rec).Matches(principalID) {
			visible = append(visible, rec)
		}
	}
	return visible
}
