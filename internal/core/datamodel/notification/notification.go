package notification

import (
	"time"

	"github.com/frahmantamala/geofence-security/internal/core/datamodel/geofence"
	"github.com/frahmantamala/geofence-security/internal/core/datamodel/officer"
	"github.com/frahmantamala/geofence-security/internal/core/datamodel/organization"
	"github.com/frahmantamala/geofence-security/internal/core/datamodel/user"
)

const TargetOfficersJoinTable = "notification_target_officers"

type Notification struct {
	ID               int64                      `gorm:"primaryKey"`
	OrganizationID   int64                      `gorm:"column:organization_id;not null;index"`
	Organization     *organization.Organization `gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE"`
	NotificationType string                     `gorm:"column:notification_type;size:20;not null"`
	Title            string                     `gorm:"column:title;size:200;not null"`
	Message          string                     `gorm:"column:message;not null"`
	TargetType       string                     `gorm:"column:target_type;size:20;not null"`
	TargetGeofenceID *int64                     `gorm:"column:target_geofence_id;index"`
	TargetGeofence   *geofence.Geofence         `gorm:"foreignKey:TargetGeofenceID;constraint:OnDelete:CASCADE"`
	TargetOfficers   []officer.SecurityOfficer  `gorm:"many2many:notification_target_officers;joinForeignKey:NotificationID;joinReferences:OfficerID;constraint:OnDelete:CASCADE"`
	IsSent           bool                       `gorm:"column:is_sent;not null"`
	SentAt           *time.Time                 `gorm:"column:sent_at"`
	CreatedByID      int64                      `gorm:"column:created_by_id;not null"`
	CreatedBy        *user.User                 `gorm:"foreignKey:CreatedByID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time                  `gorm:"column:created_at;autoCreateTime;index"`
	UpdatedAt        time.Time                  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Notification) TableName() string {
	return "notifications"
}
