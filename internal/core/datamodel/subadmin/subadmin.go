package subadmin

import (
	"time"

	"github.com/frahmantamala/geofence-security/internal/core/datamodel/user"
)

type SubAdminProfile struct {
	ID            int64      `gorm:"primaryKey"`
	UserID        int64      `gorm:"column:user_id;uniqueIndex;not null"`
	User          *user.User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Permissions   string     `gorm:"column:permissions;size:20;not null"`
	AssignedScope string     `gorm:"column:assigned_scope;size:20;not null"`
	IsActive      bool       `gorm:"column:is_active;not null"`
	CreatedByID   *int64     `gorm:"column:created_by_id"`
	CreatedBy     *user.User `gorm:"foreignKey:CreatedByID;constraint:OnDelete:SET NULL"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (SubAdminProfile) TableName() string {
	return "sub_admin_profiles"
}
