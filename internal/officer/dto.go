package officer

import (
	"github.com/frahmantamala/geofence-security/internal"
	"github.com/frahmantamala/geofence-security/internal/core/common/validation"
)

type CreateOfficerDTO struct {
	Name               string  `json:"name"`
	Contact            string  `json:"contact"`
	Email              *string `json:"email"`
	AssignedGeofenceID *int64  `json:"assigned_geofence"`
	IsActive           *bool   `json:"is_active"`
}

func (d CreateOfficerDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(100)
	v.Field("contact", d.Contact).Required().MaxLength(20)
	v.Field("email", d.Email).Email()
	return v.Validate()
}

type UpdateOfficerDTO struct {
	Name               *string `json:"name"`
	Contact            *string `json:"contact"`
	Email              *string `json:"email"`
	AssignedGeofenceID *int64  `json:"assigned_geofence"`
	ClearGeofence      bool    `json:"clear_assigned_geofence"`
	IsActive           *bool   `json:"is_active"`
}

func (d UpdateOfficerDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	if d.Name != nil {
		v.Field("name", d.Name).Required().MaxLength(100)
	}
	if d.Contact != nil {
		v.Field("contact", d.Contact).Required().MaxLength(20)
	}
	v.Field("email", d.Email).Email()
	return v.Validate()
}

type ListFilter struct {
	Search             string
	IsActive           *bool
	AssignedGeofenceID *int64
}
