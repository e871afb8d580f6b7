package geofence

import (
	"time"

	"github.com/frahmantamala/geofence-security/internal/core/datamodel/organization"
	"github.com/frahmantamala/geofence-security/internal/core/datamodel/user"
	"gorm.io/datatypes"
)

type Geofence struct {
	ID             int64                      `gorm:"primaryKey"`
	Name           string                     `gorm:"column:name;size:100;not null"`
	Description    *string                    `gorm:"column:description"`
	PolygonJSON    datatypes.JSON             `gorm:"column:polygon_json;not null"`
	Active         bool                       `gorm:"column:active;not null"`
	OrganizationID int64                      `gorm:"column:organization_id;not null;index"`
	Organization   *organization.Organization `gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE"`
	CreatedByID    *int64                     `gorm:"column:created_by_id"`
	CreatedBy      *user.User                 `gorm:"foreignKey:CreatedByID;constraint:OnDelete:SET NULL"`
	CreatedAt      time.Time                  `gorm:"column:created_at;autoCreateTime;index"`
	UpdatedAt      time.Time                  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Geofence) TableName() string {
	return "geofences"
}
