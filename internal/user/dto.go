package user

import (
	"github.com/frahmantamala/geofence-security/internal"
	"github.com/frahmantamala/geofence-security/internal/core/common/validation"
	coreUser "github.com/frahmantamala/geofence-security/internal/core/user"
)

type RegisterDTO struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Role            string `json:"role"`
}

func (d RegisterDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("username", d.Username).Required().MaxLength(150)
	v.Field("email", d.Email).Email().MaxLength(254)
	v.Field("password", d.Password).Required().Password(d.Username)
	v.Field("password_confirm", d.PasswordConfirm).Required()
	v.Field("first_name", d.FirstName).MaxLength(150)
	v.Field("last_name", d.LastName).MaxLength(150)
	if d.Role != "" {
		v.Field("role", d.Role).OneOf(coreUser.RoleChoices()...)
	}
	if d.Password != "" && d.PasswordConfirm != "" && d.Password != d.PasswordConfirm {
		v.AddError(internal.NonFieldErrors, "Passwords don't match.", internal.ErrCodePasswordMismatch)
	}
	return v.Validate()
}

// RoleOrDefault returns the requested role, USER when none was given.
func (d RegisterDTO) RoleOrDefault() coreUser.Role {
	if d.Role == "" {
		return coreUser.RoleUser
	}
	return coreUser.Role(d.Role)
}

type ListFilter struct {
	Search   string
	Role     string
	IsActive *bool
}
