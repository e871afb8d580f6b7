package alert

import (
	"encoding/json"

	"github.com/frahmantamala/geofence-security/internal"
	"github.com/frahmantamala/geofence-security/internal/core/common/severity"
	"github.com/frahmantamala/geofence-security/internal/core/common/validation"
)

type CreateAlertDTO struct {
	GeofenceID  *int64          `json:"geofence"`
	UserID      *int64          `json:"user"`
	AlertType   string          `json:"alert_type"`
	Severity    string          `json:"severity"`
	Title       string          `json:"title"`
	Description *string         `json:"description"`
	Metadata    json.RawMessage `json:"metadata"`
}

func (d CreateAlertDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	if d.AlertType != "" {
		v.Field("alert_type", d.AlertType).OneOf(TypeChoices()...)
	}
	if d.Severity != "" {
		v.Field("severity", d.Severity).OneOf(severity.Choices()...)
	}
	v.Field("title", d.Title).Required().MaxLength(200)
	if len(d.Metadata) > 0 {
		v.Field("metadata", d.Metadata).JSONObject()
	}
	return v.Validate()
}

func (d CreateAlertDTO) typeOrDefault() string {
	if d.AlertType == "" {
		return string(TypeGeofenceEnter)
	}
	return d.AlertType
}

type UpdateAlertDTO struct {
	AlertType   *string         `json:"alert_type"`
	Severity    *string         `json:"severity"`
	Title       *string         `json:"title"`
	Description *string         `json:"description"`
	Metadata    json.RawMessage `json:"metadata"`
}

func (d UpdateAlertDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	if d.AlertType != nil {
		v.Field("alert_type", *d.AlertType).OneOf(TypeChoices()...)
	}
	if d.Severity != nil {
		v.Field("severity", *d.Severity).OneOf(severity.Choices()...)
	}
	if d.Title != nil {
		v.Field("title", d.Title).Required().MaxLength(200)
	}
	if d.Metadata != nil {
		v.Field("metadata", d.Metadata).JSONObject()
	}
	return v.Validate()
}

type ListFilter struct {
	GeofenceID *int64
	UserID     *int64
	AlertType  string
	Severity   string
	IsResolved *bool
}
