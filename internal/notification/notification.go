package notification

import (
	"time"

	notificationDatamodel "github.com/frahmantamala/geofence-security/internal/core/datamodel/notification"
	"github.com/frahmantamala/geofence-security/internal/officer"
)

type Type string

const (
	TypeNormal    Type = "NORMAL"
	TypeEmergency Type = "EMERGENCY"
)

var typeLabels = map[Type]string{
	TypeNormal:    "Normal",
	TypeEmergency: "Emergency",
}

func (t Type) Label() string {
	return typeLabels[t]
}

func TypeChoices() []string {
	return []string{string(TypeNormal), string(TypeEmergency)}
}

type TargetType string

const (
	TargetAllOfficers      TargetType = "ALL_OFFICERS"
	TargetGeofenceOfficers TargetType = "GEOFENCE_OFFICERS"
	TargetSpecificOfficers TargetType = "SPECIFIC_OFFICERS"
	TargetSubAdmin         TargetType = "SUB_ADMIN"
)

var targetLabels = map[TargetType]string{
	TargetAllOfficers:      "All Officers",
	TargetGeofenceOfficers: "Geofence Officers",
	TargetSpecificOfficers: "Specific Officers",
	TargetSubAdmin:         "Sub Admin Only",
}

func (t TargetType) Label() string {
	return targetLabels[t]
}

func TargetTypeChoices() []string {
	return []string{
		string(TargetAllOfficers), string(TargetGeofenceOfficers),
		string(TargetSpecificOfficers), string(TargetSubAdmin),
	}
}

type Notification struct {
	ID                      int64      `json:"id"`
	NotificationType        Type       `json:"notification_type"`
	NotificationTypeDisplay string     `json:"notification_type_display"`
	Title                   string     `json:"title"`
	Message                 string     `json:"message"`
	TargetType              TargetType `json:"target_type"`
	TargetTypeDisplay       string     `json:"target_type_display"`
	TargetGeofenceID        *int64     `json:"target_geofence"`
	TargetGeofenceName      *string    `json:"target_geofence_name"`
	TargetOfficerIDs        []int64    `json:"target_officers"`
	TargetOfficersNames     []string   `json:"target_officers_names"`
	OrganizationID          int64      `json:"organization"`
	OrganizationName        string     `json:"organization_name"`
	IsSent                  bool       `json:"is_sent"`
	SentAt                  *time.Time `json:"sent_at"`
	CreatedByUsername       string     `json:"created_by_username"`
	CreatedAt               time.Time  `json:"created_at"`
	UpdatedAt               time.Time  `json:"updated_at"`
}

// MarkSent flags the notification as sent; a repeat overwrites sent_at.
func MarkSent(n *notificationDatamodel.Notification, at time.Time) {
	n.IsSent = true
	n.SentAt = &at
}

func FromDataModel(n *notificationDatamodel.Notification) *Notification {
	out := &Notification{
		ID:                      n.ID,
		NotificationType:        Type(n.NotificationType),
		NotificationTypeDisplay: Type(n.NotificationType).Label(),
		Title:                   n.Title,
		Message:                 n.Message,
		TargetType:              TargetType(n.TargetType),
		TargetTypeDisplay:       TargetType(n.TargetType).Label(),
		TargetGeofenceID:        n.TargetGeofenceID,
		TargetOfficerIDs:        make([]int64, 0, len(n.TargetOfficers)),
		TargetOfficersNames:     make([]string, 0, len(n.TargetOfficers)),
		OrganizationID:          n.OrganizationID,
		IsSent:                  n.IsSent,
		SentAt:                  n.SentAt,
		CreatedAt:               n.CreatedAt,
		UpdatedAt:               n.UpdatedAt,
	}
	if n.TargetGeofence != nil {
		name := n.TargetGeofence.Name
		out.TargetGeofenceName = &name
	}
	for i := range n.TargetOfficers {
		out.TargetOfficerIDs = append(out.TargetOfficerIDs, n.TargetOfficers[i].ID)
		out.TargetOfficersNames = append(out.TargetOfficersNames, officer.DisplayName(&n.TargetOfficers[i]))
	}
	if n.Organization != nil {
		out.OrganizationName = n.Organization.Name
	}
	if n.CreatedBy != nil {
		out.CreatedByUsername = n.CreatedBy.Username
	}
	return out
}
