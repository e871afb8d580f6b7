package alert

import (
	"time"

	"github.com/frahmantamala/geofence-security/internal/core/datamodel/geofence"
	"github.com/frahmantamala/geofence-security/internal/core/datamodel/user"
	"gorm.io/datatypes"
)

type Alert struct {
	ID           int64              `gorm:"primaryKey"`
	GeofenceID   *int64             `gorm:"column:geofence_id;index"`
	Geofence     *geofence.Geofence `gorm:"foreignKey:GeofenceID;constraint:OnDelete:CASCADE"`
	UserID       *int64             `gorm:"column:user_id;index"`
	User         *user.User         `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	AlertType    string             `gorm:"column:alert_type;size:30;not null"`
	Severity     string             `gorm:"column:severity;size:10;not null"`
	Title        string             `gorm:"column:title;size:200;not null"`
	Description  *string            `gorm:"column:description"`
	Metadata     datatypes.JSON     `gorm:"column:metadata"`
	IsResolved   bool               `gorm:"column:is_resolved;not null"`
	ResolvedAt   *time.Time         `gorm:"column:resolved_at"`
	ResolvedByID *int64             `gorm:"column:resolved_by_id"`
	ResolvedBy   *user.User         `gorm:"foreignKey:ResolvedByID;constraint:OnDelete:SET NULL"`
	CreatedAt    time.Time          `gorm:"column:created_at;autoCreateTime;index"`
	UpdatedAt    time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

func (Alert) TableName() string {
	return "alerts"
}
