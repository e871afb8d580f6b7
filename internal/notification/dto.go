package notification

import (
	"github.com/frahmantamala/geofence-security/internal"
	"github.com/frahmantamala/geofence-security/internal/core/common/validation"
)

type CreateNotificationDTO struct {
	NotificationType string  `json:"notification_type"`
	Title            string  `json:"title"`
	Message          string  `json:"message"`
	TargetType       string  `json:"target_type"`
	TargetGeofenceID *int64  `json:"target_geofence"`
	TargetOfficerIDs []int64 `json:"target_officers"`
}

func (d CreateNotificationDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("notification_type", d.NotificationType).OneOf(TypeChoices()...)
	v.Field("title", d.Title).Required().MaxLength(200)
	v.Field("message", d.Message).Required()
	v.Field("target_type", d.TargetType).OneOf(TargetTypeChoices()...)
	return v.Validate()
}

func (d CreateNotificationDTO) typeOrDefault() string {
	if d.NotificationType == "" {
		return string(TypeNormal)
	}
	return d.NotificationType
}

func (d CreateNotificationDTO) targetOrDefault() string {
	if d.TargetType == "" {
		return string(TargetAllOfficers)
	}
	return d.TargetType
}

// SendNotificationDTO creates a notification and dispatches it at once.
// Unlike CreateNotificationDTO both choices are mandatory.
type SendNotificationDTO struct {
	NotificationType string  `json:"notification_type"`
	Title            string  `json:"title"`
	Message          string  `json:"message"`
	TargetType       string  `json:"target_type"`
	TargetGeofenceID *int64  `json:"target_geofence_id"`
	TargetOfficerIDs []int64 `json:"target_officer_ids"`
}

func (d SendNotificationDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("notification_type", d.NotificationType).Required().OneOf(TypeChoices()...)
	v.Field("title", d.Title).Required().MaxLength(200)
	v.Field("message", d.Message).Required()
	v.Field("target_type", d.TargetType).Required().OneOf(TargetTypeChoices()...)
	return v.Validate()
}

type UpdateNotificationDTO struct {
	NotificationType *string  `json:"notification_type"`
	Title            *string  `json:"title"`
	Message          *string  `json:"message"`
	TargetType       *string  `json:"target_type"`
	TargetGeofenceID *int64   `json:"target_geofence"`
	ClearGeofence    bool     `json:"clear_target_geofence"`
	TargetOfficerIDs *[]int64 `json:"target_officers"`
}

func (d UpdateNotificationDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	if d.NotificationType != nil {
		v.Field("notification_type", d.NotificationType).Required().OneOf(TypeChoices()...)
	}
	if d.Title != nil {
		v.Field("title", d.Title).Required().MaxLength(200)
	}
	if d.Message != nil {
		v.Field("message", d.Message).Required()
	}
	if d.TargetType != nil {
		v.Field("target_type", d.TargetType).Required().OneOf(TargetTypeChoices()...)
	}
	return v.Validate()
}

type ListFilter struct {
	NotificationType string
	TargetType       string
	IsSent           *bool
}
