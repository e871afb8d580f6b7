package postgres

import (
	"errors"

	geofenceDatamodel "github.com/frahmantamala/geofence-security/internal/core/datamodel/geofence"
	officerDatamodel "github.com/frahmantamala/geofence-security/internal/core/datamodel/officer"
	"github.com/frahmantamala/geofence-security/internal/officer"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OfficerRepository struct {
	db *gorm.DB
}

func NewOfficerRepository(db *gorm.DB) officer.RepositoryAPI {
	return &OfficerRepository{db: db}
}

func (r *OfficerRepository) withRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Organization").Preload("AssignedGeofence").Preload("CreatedBy")
}

func (r *OfficerRepository) Create(o *officerDatamodel.SecurityOfficer) error {
	return r.db.Omit(clause.Associations).Create(o).Error
}

func (r *OfficerRepository) GetByID(id int64) (*officerDatamodel.SecurityOfficer, error) {
	var o officerDatamodel.SecurityOfficer
	err := r.withRelations(r.db).Where("id = ?", id).First(&o).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func (r *OfficerRepository) List(orgID *int64, filter officer.ListFilter, limit, offset int) ([]*officerDatamodel.SecurityOfficer, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		if orgID != nil {
			db = db.Where("organization_id = ?", *orgID)
		}
		if filter.Search != "" {
			like := "%" + filter.Search + "%"
			db = db.Where("name LIKE ? OR contact LIKE ? OR email LIKE ?", like, like, like)
		}
		if filter.IsActive != nil {
			db = db.Where("is_active = ?", *filter.IsActive)
		}
		if filter.AssignedGeofenceID != nil {
			db = db.Where("assigned_geofence_id = ?", *filter.AssignedGeofenceID)
		}
		return db
	}

	var total int64
	if err := r.db.Model(&officerDatamodel.SecurityOfficer{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []*officerDatamodel.SecurityOfficer
	err := r.withRelations(r.db).Scopes(scope).
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&rows).Error
	return rows, total, err
}

func (r *OfficerRepository) Update(o *officerDatamodel.SecurityOfficer) error {
	return r.db.Omit(clause.Associations).Save(o).Error
}

func (r *OfficerRepository) Delete(id int64) error {
	return r.db.Delete(&officerDatamodel.SecurityOfficer{}, id).Error
}

func (r *OfficerRepository) GetGeofence(id int64) (*geofenceDatamodel.Geofence, error) {
	var g geofenceDatamodel.Geofence
	err := r.db.Where("id = ?", id).First(&g).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &g, nil
}
