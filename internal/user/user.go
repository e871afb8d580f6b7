package user

import (
	"strings"
	"time"

	userDatamodel "github.com/frahmantamala/geofence-security/internal/core/datamodel/user"
	coreUser "github.com/frahmantamala/geofence-security/internal/core/user"
)

type User struct {
	ID               int64         `json:"id"`
	Username         string        `json:"username"`
	Email            string        `json:"email"`
	FirstName        string        `json:"first_name"`
	LastName         string        `json:"last_name"`
	Role             coreUser.Role `json:"role"`
	RoleDisplay      string        `json:"role_display"`
	OrganizationID   *int64        `json:"organization"`
	OrganizationName *string       `json:"organization_name"`
	IsActive         bool          `json:"is_active"`
	DateJoined       time.Time     `json:"date_joined"`
	LastLogin        *time.Time    `json:"last_login"`
}

// FullName joins first and last name, falling back to the username.
func (u *User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

func NewUser(username, email, passwordHash string, role coreUser.Role) *userDatamodel.User {
	return &userDatamodel.User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         string(role),
		IsActive:     true,
	}
}

func FromDataModel(u *userDatamodel.User) *User {
	role := coreUser.Role(u.Role)
	out := &User{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Role:           role,
		RoleDisplay:    role.Label(),
		OrganizationID: u.OrganizationID,
		IsActive:       u.IsActive,
		DateJoined:     u.CreatedAt,
		LastLogin:      u.LastLogin,
	}
	if u.Organization != nil {
		name := u.Organization.Name
		out.OrganizationName = &name
	}
	return out
}
