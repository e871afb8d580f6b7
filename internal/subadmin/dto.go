package subadmin

import (
	"github.com/frahmantamala/geofence-security/internal"
	"github.com/frahmantamala/geofence-security/internal/core/common/validation"
)

type CreateSubAdminDTO struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	OrganizationID  *int64 `json:"organization"`
	Permissions     string `json:"permissions"`
	AssignedScope   string `json:"assigned_scope"`
	IsActive        *bool  `json:"is_active"`
}

func (d CreateSubAdminDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("username", d.Username).Required().MaxLength(150)
	v.Field("email", d.Email).Required().Email()
	v.Field("password", d.Password).Required().MinLength(validation.MinPasswordLength)
	v.Field("password_confirm", d.PasswordConfirm).Required()
	v.Field("first_name", d.FirstName).MaxLength(150)
	v.Field("last_name", d.LastName).MaxLength(150)
	if d.Permissions != "" {
		v.Field("permissions", d.Permissions).OneOf(PermissionChoices()...)
	}
	if d.AssignedScope != "" {
		v.Field("assigned_scope", d.AssignedScope).OneOf(ScopeChoices()...)
	}
	if d.Password != d.PasswordConfirm {
		v.AddError(internal.NonFieldErrors, "Passwords don't match.", internal.ErrCodePasswordMismatch)
	}
	return v.Validate()
}

func (d CreateSubAdminDTO) permissionOrDefault() string {
	if d.Permissions == "" {
		return string(PermissionReadOnly)
	}
	return d.Permissions
}

func (d CreateSubAdminDTO) scopeOrDefault() string {
	if d.AssignedScope == "" {
		return string(ScopeLocal)
	}
	return d.AssignedScope
}

type UpdateSubAdminDTO struct {
	Email         *string `json:"email"`
	FirstName     *string `json:"first_name"`
	LastName      *string `json:"last_name"`
	Permissions   *string `json:"permissions"`
	AssignedScope *string `json:"assigned_scope"`
	IsActive      *bool   `json:"is_active"`
}

func (d UpdateSubAdminDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	if d.Email != nil {
		v.Field("email", d.Email).Required().Email()
	}
	v.Field("first_name", d.FirstName).MaxLength(150)
	v.Field("last_name", d.LastName).MaxLength(150)
	if d.Permissions != nil {
		v.Field("permissions", *d.Permissions).OneOf(PermissionChoices()...)
	}
	if d.AssignedScope != nil {
		v.Field("assigned_scope", *d.AssignedScope).OneOf(ScopeChoices()...)
	}
	return v.Validate()
}

// ListFilter mirrors the admin list query parameters.
type ListFilter struct {
	Search        string
	Permissions   string
	AssignedScope string
	IsActive      *bool
	Ordering      string
}

var orderings = map[string]string{
	"created_at":      "sub_admin_profiles.created_at ASC",
	"-created_at":     "sub_admin_profiles.created_at DESC",
	"updated_at":      "sub_admin_profiles.updated_at ASC",
	"-updated_at":     "sub_admin_profiles.updated_at DESC",
	"permissions":     "sub_admin_profiles.permissions ASC",
	"-permissions":    "sub_admin_profiles.permissions DESC",
	"user__username":  "users.username ASC",
	"-user__username": "users.username DESC",
}

// OrderClause returns the SQL ordering for the filter, newest first by default.
func (f ListFilter) OrderClause() string {
	if clause, ok := orderings[f.Ordering]; ok {
		return clause
	}
	return orderings["-created_at"]
}
