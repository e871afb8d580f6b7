package user

type Role string

const (
	RoleSuperAdmin Role = "SUPER_ADMIN"
	RoleSubAdmin   Role = "SUB_ADMIN"
	RoleUser       Role = "USER"
)

var roleLabels = map[Role]string{
	RoleSuperAdmin: "Super Admin",
	RoleSubAdmin:   "Sub Admin",
	RoleUser:       "User",
}

func (r Role) Valid() bool {
	_, ok := roleLabels[r]
	return ok
}

func (r Role) Label() string {
	return roleLabels[r]
}

func RoleChoices() []string {
	return []string{string(RoleSuperAdmin), string(RoleSubAdmin), string(RoleUser)}
}

// Actor is the authenticated requester. It is passed explicitly into every
// create and validate routine instead of being read from request-global state.
type Actor struct {
	ID             int64
	Username       string
	Email          string
	Role           Role
	OrganizationID *int64
	// Permission is the sub-admin profile level, empty when the actor has no profile.
	Permission string
}

func (a *Actor) IsSuperAdmin() bool {
	return a != nil && a.Role == RoleSuperAdmin
}

func (a *Actor) IsSubAdmin() bool {
	return a != nil && a.Role == RoleSubAdmin
}

func (a *Actor) HasRole(roles ...Role) bool {
	if a == nil {
		return false
	}
	for _, r := range roles {
		if a.Role == r {
			return true
		}
	}
	return false
}

// HasOrganization reports whether the actor belongs to an organization.
func (a *Actor) HasOrganization() bool {
	return a != nil && a.OrganizationID != nil
}

// ScopeOrganization returns the organization every query must be limited to,
// or nil when the actor may see all organizations.
func (a *Actor) ScopeOrganization() *int64 {
	if a.IsSuperAdmin() {
		return nil
	}
	if a == nil || a.OrganizationID == nil {
		// unscoped non-admin users see nothing
		none := int64(-1)
		return &none
	}
	id := *a.OrganizationID
	return &id
}

// CanAccessOrganization reports whether the actor may see rows owned by orgID.
func (a *Actor) CanAccessOrganization(orgID int64) bool {
	if a.IsSuperAdmin() {
		return true
	}
	return a.HasOrganization() && *a.OrganizationID == orgID
}
