package officer

import (
	"fmt"
	"time"

	officerDatamodel "github.com/frahmantamala/geofence-security/internal/core/datamodel/officer"
)

type SecurityOfficer struct {
	ID                   int64     `json:"id"`
	Name                 string    `json:"name"`
	Contact              string    `json:"contact"`
	Email                *string   `json:"email"`
	AssignedGeofenceID   *int64    `json:"assigned_geofence"`
	AssignedGeofenceName *string   `json:"assigned_geofence_name"`
	OrganizationID       int64     `json:"organization"`
	OrganizationName     string    `json:"organization_name"`
	IsActive             bool      `json:"is_active"`
	CreatedByUsername    *string   `json:"created_by_username"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// DisplayName renders an officer as "name (organization)".
func DisplayName(o *officerDatamodel.SecurityOfficer) string {
	if o.Organization == nil {
		return o.Name
	}
	return fmt.Sprintf("%s (%s)", o.Name, o.Organization.Name)
}

func FromDataModel(o *officerDatamodel.SecurityOfficer) *SecurityOfficer {
	out := &SecurityOfficer{
		ID:                 o.ID,
		Name:               o.Name,
		Contact:            o.Contact,
		Email:              o.Email,
		AssignedGeofenceID: o.AssignedGeofenceID,
		OrganizationID:     o.OrganizationID,
		IsActive:           o.IsActive,
		CreatedAt:          o.CreatedAt,
		UpdatedAt:          o.UpdatedAt,
	}
	if o.AssignedGeofence != nil {
		name := o.AssignedGeofence.Name
		out.AssignedGeofenceName = &name
	}
	if o.Organization != nil {
		out.OrganizationName = o.Organization.Name
	}
	if o.CreatedBy != nil {
		name := o.CreatedBy.Username
		out.CreatedByUsername = &name
	}
	return out
}
