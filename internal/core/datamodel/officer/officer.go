package officer

import (
	"time"

	"github.com/frahmantamala/geofence-security/internal/core/datamodel/geofence"
	"github.com/frahmantamala/geofence-security/internal/core/datamodel/organization"
	"github.com/frahmantamala/geofence-security/internal/core/datamodel/user"
)

type SecurityOfficer struct {
	ID                 int64                      `gorm:"primaryKey"`
	Name               string                     `gorm:"column:name;size:100;not null"`
	Contact            string                     `gorm:"column:contact;size:20;not null"`
	Email              *string                    `gorm:"column:email;size:254"`
	IsActive           bool                       `gorm:"column:is_active;not null"`
	OrganizationID     int64                      `gorm:"column:organization_id;not null;index"`
	Organization       *organization.Organization `gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE"`
	AssignedGeofenceID *int64                     `gorm:"column:assigned_geofence_id;index"`
	AssignedGeofence   *geofence.Geofence         `gorm:"foreignKey:AssignedGeofenceID;constraint:OnDelete:SET NULL"`
	CreatedByID        *int64                     `gorm:"column:created_by_id"`
	CreatedBy          *user.User                 `gorm:"foreignKey:CreatedByID;constraint:OnDelete:SET NULL"`
	CreatedAt          time.Time                  `gorm:"column:created_at;autoCreateTime;index"`
	UpdatedAt          time.Time                  `gorm:"column:updated_at;autoUpdateTime"`
}

func (SecurityOfficer) TableName() string {
	return "security_officers"
}
