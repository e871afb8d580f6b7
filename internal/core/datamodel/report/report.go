package report

import (
	"time"

	"github.com/frahmantamala/geofence-security/internal/core/datamodel/user"
	"gorm.io/datatypes"
)

type GlobalReport struct {
	ID             int64          `gorm:"primaryKey"`
	ReportType     string         `gorm:"column:report_type;size:30;not null"`
	Title          string         `gorm:"column:title;size:200;not null"`
	Description    *string        `gorm:"column:description"`
	DateRangeStart time.Time      `gorm:"column:date_range_start;not null"`
	DateRangeEnd   time.Time      `gorm:"column:date_range_end;not null"`
	Metrics        datatypes.JSON `gorm:"column:metrics"`
	FilePath       *string        `gorm:"column:file_path;size:500"`
	IsGenerated    bool           `gorm:"column:is_generated;not null"`
	GeneratedAt    *time.Time     `gorm:"column:generated_at"`
	GeneratedByID  int64          `gorm:"column:generated_by_id;not null;index"`
	GeneratedBy    *user.User     `gorm:"foreignKey:GeneratedByID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time      `gorm:"column:created_at;autoCreateTime;index"`
	UpdatedAt      time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

func (GlobalReport) TableName() string {
	return "global_reports"
}
