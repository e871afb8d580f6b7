package postgres

import (
	"errors"

	geofenceDatamodel "github.com/frahmantamala/geofence-security/internal/core/datamodel/geofence"
	incidentDatamodel "github.com/frahmantamala/geofence-security/internal/core/datamodel/incident"
	officerDatamodel "github.com/frahmantamala/geofence-security/internal/core/datamodel/officer"
	"github.com/frahmantamala/geofence-security/internal/incident"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type IncidentRepository struct {
	db *gorm.DB
}

func NewIncidentRepository(db *gorm.DB) incident.RepositoryAPI {
	return &IncidentRepository{db: db}
}

func withRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Geofence").Preload("Officer").Preload("ResolvedBy").Preload("CreatedBy")
}

func (r *IncidentRepository) Create(i *incidentDatamodel.Incident) error {
	return r.db.Omit(clause.Associations).Create(i).Error
}

func (r *IncidentRepository) GetByID(id int64) (*incidentDatamodel.Incident, error) {
	var i incidentDatamodel.Incident
	err := withRelations(r.db).Where("id = ?", id).First(&i).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &i, nil
}

func (r *IncidentRepository) List(orgID *int64, filter incident.ListFilter, limit, offset int) ([]*incidentDatamodel.Incident, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		if orgID != nil {
			db = db.Where("geofence_id IN (?)",
				r.db.Model(&geofenceDatamodel.Geofence{}).Select("id").Where("organization_id = ?", *orgID))
		}
		if filter.GeofenceID != nil {
			db = db.Where("geofence_id = ?", *filter.GeofenceID)
		}
		if filter.OfficerID != nil {
			db = db.Where("officer_id = ?", *filter.OfficerID)
		}
		if filter.IncidentType != "" {
			db = db.Where("incident_type = ?", filter.IncidentType)
		}
		if filter.Severity != "" {
			db = db.Where("severity = ?", filter.Severity)
		}
		if filter.IsResolved != nil {
			db = db.Where("is_resolved = ?", *filter.IsResolved)
		}
		return db
	}

	var total int64
	if err := r.db.Model(&incidentDatamodel.Incident{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []*incidentDatamodel.Incident
	err := withRelations(r.db).Scopes(scope).
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&rows).Error
	return rows, total, err
}

func (r *IncidentRepository) Update(i *incidentDatamodel.Incident) error {
	return r.db.Omit(clause.Associations).Save(i).Error
}

func (r *IncidentRepository) Delete(id int64) error {
	return r.db.Delete(&incidentDatamodel.Incident{}, id).Error
}

func (r *IncidentRepository) GetGeofence(id int64) (*geofenceDatamodel.Geofence, error) {
	var g geofenceDatamodel.Geofence
	if err := r.db.Where("id = ?", id).First(&g).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &g, nil
}

func (r *IncidentRepository) GetOfficer(id int64) (*officerDatamodel.SecurityOfficer, error) {
	var o officerDatamodel.SecurityOfficer
	if err := r.db.Where("id = ?", id).First(&o).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}
