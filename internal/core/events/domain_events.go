package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeAlertResolved    = "alert.resolved"
	EventTypeIncidentResolved = "incident.resolved"
	EventTypeNotificationSent = "notification.sent"
	EventTypeReportGenerated  = "report.generated"
)

func newBaseEvent(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
	}
}

type AlertResolvedEvent struct {
	BaseEvent
	AlertID    int64 `json:"alert_id"`
	ResolvedBy int64 `json:"resolved_by"`
}

func NewAlertResolvedEvent(alertID, resolvedBy int64) *AlertResolvedEvent {
	return &AlertResolvedEvent{
		BaseEvent: newBaseEvent(EventTypeAlertResolved, map[string]interface{}{
			"alert_id":    alertID,
			"resolved_by": resolvedBy,
		}),
		AlertID:    alertID,
		ResolvedBy: resolvedBy,
	}
}

type IncidentResolvedEvent struct {
	BaseEvent
	IncidentID int64 `json:"incident_id"`
	GeofenceID int64 `json:"geofence_id"`
	ResolvedBy int64 `json:"resolved_by"`
}

func NewIncidentResolvedEvent(incidentID, geofenceID, resolvedBy int64) *IncidentResolvedEvent {
	return &IncidentResolvedEvent{
		BaseEvent: newBaseEvent(EventTypeIncidentResolved, map[string]interface{}{
			"incident_id": incidentID,
			"geofence_id": geofenceID,
			"resolved_by": resolvedBy,
		}),
		IncidentID: incidentID,
		GeofenceID: geofenceID,
		ResolvedBy: resolvedBy,
	}
}

// NotificationSentEvent carries everything a broadcaster needs so that it
// does not have to reload the notification.
type NotificationSentEvent struct {
	BaseEvent
	NotificationID   int64     `json:"notification_id"`
	OrganizationID   int64     `json:"organization_id"`
	NotificationType string    `json:"notification_type"`
	Title            string    `json:"title"`
	Message          string    `json:"message"`
	TargetType       string    `json:"target_type"`
	TargetGeofenceID *int64    `json:"target_geofence_id,omitempty"`
	TargetOfficerIDs []int64   `json:"target_officer_ids,omitempty"`
	SentAt           time.Time `json:"sent_at"`
}

func NewNotificationSentEvent(notificationID, organizationID int64, notificationType, title, message, targetType string, targetGeofenceID *int64, targetOfficerIDs []int64, sentAt time.Time) *NotificationSentEvent {
	return &NotificationSentEvent{
		BaseEvent: newBaseEvent(EventTypeNotificationSent, map[string]interface{}{
			"notification_id":   notificationID,
			"organization_id":   organizationID,
			"notification_type": notificationType,
			"target_type":       targetType,
		}),
		NotificationID:   notificationID,
		OrganizationID:   organizationID,
		NotificationType: notificationType,
		Title:            title,
		Message:          message,
		TargetType:       targetType,
		TargetGeofenceID: targetGeofenceID,
		TargetOfficerIDs: targetOfficerIDs,
		SentAt:           sentAt,
	}
}

type ReportGeneratedEvent struct {
	BaseEvent
	ReportID    int64  `json:"report_id"`
	GeneratedBy int64  `json:"generated_by"`
	FilePath    string `json:"file_path,omitempty"`
}

func NewReportGeneratedEvent(reportID, generatedBy int64, filePath string) *ReportGeneratedEvent {
	return &ReportGeneratedEvent{
		BaseEvent: newBaseEvent(EventTypeReportGenerated, map[string]interface{}{
			"report_id":    reportID,
			"generated_by": generatedBy,
			"file_path":    filePath,
		}),
		ReportID:    reportID,
		GeneratedBy: generatedBy,
		FilePath:    filePath,
	}
}
