package incident

import (
	"time"

	"github.com/frahmantamala/geofence-security/internal/core/datamodel/geofence"
	"github.com/frahmantamala/geofence-security/internal/core/datamodel/officer"
	"github.com/frahmantamala/geofence-security/internal/core/datamodel/user"
	"gorm.io/datatypes"
)

type Incident struct {
	ID           int64                    `gorm:"primaryKey"`
	GeofenceID   int64                    `gorm:"column:geofence_id;not null;index"`
	Geofence     *geofence.Geofence       `gorm:"foreignKey:GeofenceID;constraint:OnDelete:CASCADE"`
	OfficerID    *int64                   `gorm:"column:officer_id;index"`
	Officer      *officer.SecurityOfficer `gorm:"foreignKey:OfficerID;constraint:OnDelete:SET NULL"`
	IncidentType string                   `gorm:"column:incident_type;size:30;not null"`
	Severity     string                   `gorm:"column:severity;size:10;not null"`
	Title        string                   `gorm:"column:title;size:200;not null"`
	Details      string                   `gorm:"column:details;not null"`
	Location     datatypes.JSON           `gorm:"column:location"`
	IsResolved   bool                     `gorm:"column:is_resolved;not null"`
	ResolvedAt   *time.Time               `gorm:"column:resolved_at"`
	ResolvedByID *int64                   `gorm:"column:resolved_by_id"`
	ResolvedBy   *user.User               `gorm:"foreignKey:ResolvedByID;constraint:OnDelete:SET NULL"`
	CreatedByID  *int64                   `gorm:"column:created_by_id"`
	CreatedBy    *user.User               `gorm:"foreignKey:CreatedByID;constraint:OnDelete:SET NULL"`
	CreatedAt    time.Time                `gorm:"column:created_at;autoCreateTime;index"`
	UpdatedAt    time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}

func (Incident) TableName() string {
	return "incidents"
}
