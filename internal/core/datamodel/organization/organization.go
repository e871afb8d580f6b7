package organization

import "time"

type Organization struct {
	ID          int64     `gorm:"primaryKey"`
	Name        string    `gorm:"column:name;size:100;not null"`
	Description *string   `gorm:"column:description"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Organization) TableName() string {
	return "organizations"
}
