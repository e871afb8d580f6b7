package postgres

import (
	"errors"
	"time"

	alertDatamodel "github.com/frahmantamala/geofence-security/internal/core/datamodel/alert"
	geofenceDatamodel "github.com/frahmantamala/geofence-security/internal/core/datamodel/geofence"
	incidentDatamodel "github.com/frahmantamala/geofence-security/internal/core/datamodel/incident"
	orgDatamodel "github.com/frahmantamala/geofence-security/internal/core/datamodel/organization"
	reportDatamodel "github.com/frahmantamala/geofence-security/internal/core/datamodel/report"
	"github.com/frahmantamala/geofence-security/internal/report"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) report.RepositoryAPI {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) Create(rep *reportDatamodel.GlobalReport) error {
	return r.db.Omit(clause.Associations).Create(rep).Error
}

func (r *ReportRepository) GetByID(id int64) (*reportDatamodel.GlobalReport, error) {
	var rep reportDatamodel.GlobalReport
	err := r.db.Preload("GeneratedBy").Where("id = ?", id).First(&rep).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rep, nil
}

func (r *ReportRepository) List(filter report.ListFilter, limit, offset int) ([]*reportDatamodel.GlobalReport, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		if filter.ReportType != "" {
			db = db.Where("report_type = ?", filter.ReportType)
		}
		if filter.IsGenerated != nil {
			db = db.Where("is_generated = ?", *filter.IsGenerated)
		}
		return db
	}

	var total int64
	if err := r.db.Model(&reportDatamodel.GlobalReport{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []*reportDatamodel.GlobalReport
	err := r.db.Preload("GeneratedBy").Scopes(scope).
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&rows).Error
	return rows, total, err
}

func (r *ReportRepository) Update(rep *reportDatamodel.GlobalReport) error {
	return r.db.Omit(clause.Associations).Save(rep).Error
}

func (r *ReportRepository) Delete(id int64) error {
	return r.db.Delete(&reportDatamodel.GlobalReport{}, id).Error
}

type bucket struct {
	Label string
	Total int64
}

func (r *ReportRepository) groupCount(model interface{}, column string, start, end time.Time) (map[string]int64, error) {
	var rows []bucket
	err := r.db.Model(model).
		Select(column+" AS label, COUNT(*) AS total").
		Where("created_at BETWEEN ? AND ?", start, end).
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Label] = row.Total
	}
	return out, nil
}

// ComputeMetrics counts alerts, incidents and geofences created within
// [start, end], plus the geofence and organization totals at end.
func (r *ReportRepository) ComputeMetrics(start, end time.Time) (*report.Metrics, error) {
	m := &report.Metrics{}
	inRange := func(model interface{}) *gorm.DB {
		return r.db.Model(model).Where("created_at BETWEEN ? AND ?", start, end)
	}

	if err := inRange(&alertDatamodel.Alert{}).Count(&m.AlertsTotal).Error; err != nil {
		return nil, err
	}
	if err := inRange(&alertDatamodel.Alert{}).Where("is_resolved = ?", true).Count(&m.AlertsResolved).Error; err != nil {
		return nil, err
	}
	bySeverity, err := r.groupCount(&alertDatamodel.Alert{}, "severity", start, end)
	if err != nil {
		return nil, err
	}
	m.AlertsBySeverity = bySeverity

	if err := inRange(&incidentDatamodel.Incident{}).Count(&m.IncidentsTotal).Error; err != nil {
		return nil, err
	}
	if err := inRange(&incidentDatamodel.Incident{}).Where("is_resolved = ?", true).Count(&m.IncidentsResolved).Error; err != nil {
		return nil, err
	}
	byType, err := r.groupCount(&incidentDatamodel.Incident{}, "incident_type", start, end)
	if err != nil {
		return nil, err
	}
	m.IncidentsByType = byType

	if err := inRange(&geofenceDatamodel.Geofence{}).Count(&m.GeofencesCreated).Error; err != nil {
		return nil, err
	}
	existing := func() *gorm.DB {
		return r.db.Model(&geofenceDatamodel.Geofence{}).Where("created_at <= ?", end)
	}
	if err := existing().Count(&m.GeofencesTotal).Error; err != nil {
		return nil, err
	}
	if err := existing().Where("active = ?", true).Count(&m.GeofencesActive).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&orgDatamodel.Organization{}).Where("created_at <= ?", end).Count(&m.OrganizationsTotal).Error; err != nil {
		return nil, err
	}
	return m, nil
}
