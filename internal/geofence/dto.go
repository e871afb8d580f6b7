package geofence

import (
	"encoding/json"

	"github.com/frahmantamala/geofence-security/internal"
	"github.com/frahmantamala/geofence-security/internal/core/common/validation"
)

// CreateGeofenceDTO accepts client-owned fields. Organization is honored for
// super admins only; everyone else gets their own.
type CreateGeofenceDTO struct {
	Name           string          `json:"name"`
	Description    *string         `json:"description"`
	PolygonJSON    json.RawMessage `json:"polygon_json"`
	OrganizationID *int64          `json:"organization"`
	Active         *bool           `json:"active"`
}

func (d CreateGeofenceDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(100)
	v.Field("polygon_json", d.PolygonJSON).Required().JSONObject()
	return v.Validate()
}

type UpdateGeofenceDTO struct {
	Name        *string         `json:"name"`
	Description *string         `json:"description"`
	PolygonJSON json.RawMessage `json:"polygon_json"`
	Active      *bool           `json:"active"`
}

func (d UpdateGeofenceDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	if d.Name != nil {
		v.Field("name", d.Name).Required().MaxLength(100)
	}
	if d.PolygonJSON != nil {
		v.Field("polygon_json", d.PolygonJSON).JSONObject()
	}
	return v.Validate()
}

type ListFilter struct {
	Search string
	Active *bool
}
