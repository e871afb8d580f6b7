package postgres

import (
	"errors"

	geofenceDatamodel "github.com/frahmantamala/geofence-security/internal/core/datamodel/geofence"
	orgDatamodel "github.com/frahmantamala/geofence-security/internal/core/datamodel/organization"
	"github.com/frahmantamala/geofence-security/internal/geofence"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GeofenceRepository struct {
	db *gorm.DB
}

func NewGeofenceRepository(db *gorm.DB) geofence.RepositoryAPI {
	return &GeofenceRepository{db: db}
}

func (r *GeofenceRepository) Create(g *geofenceDatamodel.Geofence) error {
	return r.db.Omit(clause.Associations).Create(g).Error
}

func (r *GeofenceRepository) GetByID(id int64) (*geofenceDatamodel.Geofence, error) {
	var g geofenceDatamodel.Geofence
	err := r.db.Preload("Organization").Preload("CreatedBy").Where("id = ?", id).First(&g).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &g, nil
}

func (r *GeofenceRepository) List(orgID *int64, filter geofence.ListFilter, limit, offset int) ([]*geofenceDatamodel.Geofence, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		if orgID != nil {
			db = db.Where("organization_id = ?", *orgID)
		}
		if filter.Search != "" {
			like := "%" + filter.Search + "%"
			db = db.Where("name LIKE ? OR description LIKE ?", like, like)
		}
		if filter.Active != nil {
			db = db.Where("active = ?", *filter.Active)
		}
		return db
	}

	var total int64
	if err := r.db.Model(&geofenceDatamodel.Geofence{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []*geofenceDatamodel.Geofence
	err := r.db.Preload("Organization").Preload("CreatedBy").Scopes(scope).
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&rows).Error
	return rows, total, err
}

func (r *GeofenceRepository) Update(g *geofenceDatamodel.Geofence) error {
	return r.db.Omit(clause.Associations).Save(g).Error
}

func (r *GeofenceRepository) Delete(id int64) error {
	return r.db.Delete(&geofenceDatamodel.Geofence{}, id).Error
}

func (r *GeofenceRepository) OrganizationExists(id int64) (bool, error) {
	var count int64
	err := r.db.Model(&orgDatamodel.Organization{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}
