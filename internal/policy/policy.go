// Package policy holds the pure access-control decision functions.
//
// Every function in this package is a total function over the principal
// snapshot and the four resource fields; there is no I/O and no hidden
// state, so unsynchronized concurrent calls are safe.
package policy

// Role is the exhaustive set of principal roles. The zero value means the
// principal has no role (anonymous, or an account without a profile) and is
// handled explicitly everywhere; there is no default-allow path.
type Role uint8

const (
	RoleNone Role = iota
	RoleViewer
	RoleManager
	RoleAdmin
)

// ParseRole maps a stored role name to a Role. Unknown values map to
// RoleNone so a corrupt profile row fails closed.
func ParseRole(name string) Role {
	switch name {
	case "admin":
		return RoleAdmin
	case "manager":
		return RoleManager
	case "viewer":
		return RoleViewer
	default:
		return RoleNone
	}
}

// String returns the stored name for the role.
func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleManager:
		return "manager"
	case RoleViewer:
		return "viewer"
	default:
		return "none"
	}
}

// Principal is the immutable per-request snapshot of an actor. The zero
// value is the distinguished anonymous principal.
type Principal struct {
	ID         int64
	Role       Role
	Department int64 // 0 when the principal has no department
	Active     bool
}

// Anonymous returns the distinguished unauthenticated principal.
func Anonymous() Principal {
	return Principal{}
}

// IsAnonymous reports whether the principal carries no identity.
func (p Principal) IsAnonymous() bool {
	return p.ID == 0
}

// effective collapses the cases that must never grant anything: anonymous
// principals, deactivated accounts and accounts without a profile all
// behave as RoleNone.
func (p Principal) effective() Role {
	if p.ID == 0 || !p.Active {
		return RoleNone
	}
	return p.Role
}

// Visibility governs default access for non-privileged principals. The
// zero value is Private so a malformed resource defaults to deny.
type Visibility uint8

const (
	VisibilityPrivate Visibility = iota
	VisibilityPublic
)

// Resource is the opaque snapshot of a protected entity. Only these four
// fields participate in decisions.
type Resource struct {
	ID          int64
	Department  int64 // 0 when the resource has no department
	OwnerID     int64
	Responsible int64
	Visibility  Visibility
}

// Action enumerates the coarse-grained permissions.
type Action uint8

const (
	CreateResource Action = iota
	EditAllResources
	ViewAllResources
	ViewReports
	ManageUsers
	ManageDepartments
)

// CanPerform decides whether the principal may perform a coarse action.
// Admin implies everything; Manager gets the create/view/report actions;
// everyone else gets nothing.
func CanPerform(p Principal, action Action) bool {
	switch p.effective() {
	case RoleAdmin:
		return true
	case RoleManager:
		switch action {
		case CreateResource, ViewAllResources, ViewReports:
			return true
		}
		return false
	default:
		return false
	}
}

// CanEdit decides whether the principal may mutate the given resource.
func CanEdit(p Principal, r Resource) bool {
	switch p.effective() {
	case RoleAdmin:
		return true
	case RoleManager:
		if p.Department != 0 && r.Department == p.Department {
			return true
		}
		return r.OwnerID == p.ID || r.Responsible == p.ID
	case RoleViewer:
		return r.OwnerID == p.ID
	default:
		return false
	}
}

// CanView decides whether the principal may see the given resource.
// Anonymous principals and accounts without a role see public resources
// only.
func CanView(p Principal, r Resource) bool {
	switch p.effective() {
	case RoleAdmin:
		return true
	case RoleManager:
		if p.Department != 0 && r.Department == p.Department {
			return true
		}
		return r.Visibility == VisibilityPublic || r.OwnerID == p.ID || r.Responsible == p.ID
	case RoleViewer:
		return r.Visibility == VisibilityPublic || r.OwnerID == p.ID || r.Responsible == p.ID
	default:
		return r.Visibility == VisibilityPublic
	}
}
