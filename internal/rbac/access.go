package rbac

// CanAccess decides whether the principal may act on a specific resource
// instance given its ownership and management attribution. Rules apply in
// order, first match wins:
//
//  1. admins may act unconditionally
//  2. the resource owner may act on their own resource
//  3. a manager may act on a resource attributed to them as manager
//
// Anything else is denied, including the case where both attribution ids
// are absent: with nothing to authorize on, a non-admin is refused.
//
// Role gating and resource gating are orthogonal; routes that need both
// apply a permission gate first and call CanAccess on the fetched record.
func CanAccess(p *Principal, resourceOwnerID, resourceManagerID *int64) bool {
	if p == nil {
		return false
	}
	if normalize(p.Role) == RoleAdmin {
		return true
	}
	if resourceOwnerID != nil && *resourceOwnerID == p.ID {
		return true
	}
	if normalize(p.Role) == RoleManager && resourceManagerID != nil && *resourceManagerID == p.ID {
		return true
	}
	return false
}
