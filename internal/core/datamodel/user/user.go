package user

import (
	"time"

	"github.com/frahmantamala/geofence-security/internal/core/datamodel/organization"
)

type User struct {
	ID             int64                      `gorm:"primaryKey"`
	Username       string                     `gorm:"column:username;size:150;uniqueIndex;not null"`
	Email          string                     `gorm:"column:email;size:254"`
	PasswordHash   string                     `gorm:"column:password_hash;not null"`
	FirstName      string                     `gorm:"column:first_name;size:150"`
	LastName       string                     `gorm:"column:last_name;size:150"`
	Role           string                     `gorm:"column:role;size:20;not null;index"`
	OrganizationID *int64                     `gorm:"column:organization_id;index"`
	Organization   *organization.Organization `gorm:"foreignKey:OrganizationID;constraint:OnDelete:SET NULL"`
	IsActive       bool                       `gorm:"column:is_active;not null"`
	LastLogin      *time.Time                 `gorm:"column:last_login"`
	CreatedAt      time.Time                  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time                  `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}
