package subadmin

import (
	"strings"
	"time"

	subadminDatamodel "github.com/frahmantamala/geofence-security/internal/core/datamodel/subadmin"
)

type Permission string

const (
	PermissionReadOnly   Permission = "READ_ONLY"
	PermissionReadWrite  Permission = "READ_WRITE"
	PermissionFullAccess Permission = "FULL_ACCESS"
)

var permissionLabels = map[Permission]string{
	PermissionReadOnly:   "Read Only",
	PermissionReadWrite:  "Read & Write",
	PermissionFullAccess: "Full Access",
}

func (p Permission) Label() string {
	return permissionLabels[p]
}

type Scope string

const (
	ScopeGlobal   Scope = "GLOBAL"
	ScopeRegional Scope = "REGIONAL"
	ScopeLocal    Scope = "LOCAL"
)

var scopeLabels = map[Scope]string{
	ScopeGlobal:   "Global",
	ScopeRegional: "Regional",
	ScopeLocal:    "Local",
}

func (s Scope) Label() string {
	return scopeLabels[s]
}

func PermissionChoices() []string {
	return []string{string(PermissionReadOnly), string(PermissionReadWrite), string(PermissionFullAccess)}
}

func ScopeChoices() []string {
	return []string{string(ScopeGlobal), string(ScopeRegional), string(ScopeLocal)}
}

// SubAdmin is the display shape of a sub-admin profile and its account.
type SubAdmin struct {
	ID                   int64      `json:"id"`
	UserID               int64      `json:"user"`
	UserUsername         string     `json:"user_username"`
	UserEmail            string     `json:"user_email"`
	UserFullName         string     `json:"user_full_name"`
	OrganizationID       *int64     `json:"organization"`
	Permissions          Permission `json:"permissions"`
	PermissionsDisplay   string     `json:"permissions_display"`
	AssignedScope        Scope      `json:"assigned_scope"`
	AssignedScopeDisplay string     `json:"assigned_scope_display"`
	IsActive             bool       `json:"is_active"`
	CreatedByUsername    *string    `json:"created_by_username"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

func FromDataModel(p *subadminDatamodel.SubAdminProfile) *SubAdmin {
	out := &SubAdmin{
		ID:                   p.ID,
		UserID:               p.UserID,
		Permissions:          Permission(p.Permissions),
		PermissionsDisplay:   Permission(p.Permissions).Label(),
		AssignedScope:        Scope(p.AssignedScope),
		AssignedScopeDisplay: Scope(p.AssignedScope).Label(),
		IsActive:             p.IsActive,
		CreatedAt:            p.CreatedAt,
		UpdatedAt:            p.UpdatedAt,
	}
	if p.User != nil {
		out.UserUsername = p.User.Username
		out.UserEmail = p.User.Email
		out.OrganizationID = p.User.OrganizationID
		out.UserFullName = strings.TrimSpace(p.User.FirstName + " " + p.User.LastName)
		if out.UserFullName == "" {
			out.UserFullName = p.User.Username
		}
	}
	if p.CreatedBy != nil {
		name := p.CreatedBy.Username
		out.CreatedByUsername = &name
	}
	return out
}
