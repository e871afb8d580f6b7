package incident

import (
	"encoding/json"

	"github.com/frahmantamala/geofence-security/internal"
	"github.com/frahmantamala/geofence-security/internal/core/common/severity"
	"github.com/frahmantamala/geofence-security/internal/core/common/validation"
)

type CreateIncidentDTO struct {
	GeofenceID   int64           `json:"geofence"`
	OfficerID    *int64          `json:"officer"`
	IncidentType string          `json:"incident_type"`
	Severity     string          `json:"severity"`
	Title        string          `json:"title"`
	Details      string          `json:"details"`
	Location     json.RawMessage `json:"location"`
}

func (d CreateIncidentDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("geofence", d.GeofenceID).Required()
	if d.IncidentType != "" {
		v.Field("incident_type", d.IncidentType).OneOf(TypeChoices()...)
	}
	if d.Severity != "" {
		v.Field("severity", d.Severity).OneOf(severity.Choices()...)
	}
	v.Field("title", d.Title).Required().MaxLength(200)
	v.Field("details", d.Details).Required()
	if len(d.Location) > 0 {
		v.Field("location", d.Location).JSONObject()
	}
	return v.Validate()
}

func (d CreateIncidentDTO) typeOrDefault() string {
	if d.IncidentType == "" {
		return string(TypeSuspiciousActivity)
	}
	return d.IncidentType
}

type UpdateIncidentDTO struct {
	OfficerID    *int64          `json:"officer"`
	IncidentType *string         `json:"incident_type"`
	Severity     *string         `json:"severity"`
	Title        *string         `json:"title"`
	Details      *string         `json:"details"`
	Location     json.RawMessage `json:"location"`
}

func (d UpdateIncidentDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	if d.IncidentType != nil {
		v.Field("incident_type", *d.IncidentType).OneOf(TypeChoices()...)
	}
	if d.Severity != nil {
		v.Field("severity", *d.Severity).OneOf(severity.Choices()...)
	}
	if d.Title != nil {
		v.Field("title", d.Title).Required().MaxLength(200)
	}
	if d.Details != nil {
		v.Field("details", d.Details).Required()
	}
	if d.Location != nil {
		v.Field("location", d.Location).JSONObject()
	}
	return v.Validate()
}

type ListFilter struct {
	GeofenceID   *int64
	OfficerID    *int64
	IncidentType string
	Severity     string
	IsResolved   *bool
}
