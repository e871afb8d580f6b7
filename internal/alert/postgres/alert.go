package postgres

import (
	"errors"

	"github.com/frahmantamala/geofence-security/internal/alert"
	alertDatamodel "github.com/frahmantamala/geofence-security/internal/core/datamodel/alert"
	geofenceDatamodel "github.com/frahmantamala/geofence-security/internal/core/datamodel/geofence"
	userDatamodel "github.com/frahmantamala/geofence-security/internal/core/datamodel/user"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AlertRepository struct {
	db *gorm.DB
}

func NewAlertRepository(db *gorm.DB) alert.RepositoryAPI {
	return &AlertRepository{db: db}
}

func withRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Geofence").Preload("User").Preload("ResolvedBy")
}

func (r *AlertRepository) Create(a *alertDatamodel.Alert) error {
	return r.db.Omit(clause.Associations).Create(a).Error
}

func (r *AlertRepository) GetByID(id int64) (*alertDatamodel.Alert, error) {
	var a alertDatamodel.Alert
	err := withRelations(r.db).Where("id = ?", id).First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

// List scopes alerts through the geofence's organization or, for alerts
// without a geofence, the user's organization.
func (r *AlertRepository) List(orgID *int64, filter alert.ListFilter, limit, offset int) ([]*alertDatamodel.Alert, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		if orgID != nil {
			geofences := r.db.Model(&geofenceDatamodel.Geofence{}).Select("id").Where("organization_id = ?", *orgID)
			users := r.db.Model(&userDatamodel.User{}).Select("id").Where("organization_id = ?", *orgID)
			db = db.Where("geofence_id IN (?) OR user_id IN (?)", geofences, users)
		}
		if filter.GeofenceID != nil {
			db = db.Where("geofence_id = ?", *filter.GeofenceID)
		}
		if filter.UserID != nil {
			db = db.Where("user_id = ?", *filter.UserID)
		}
		if filter.AlertType != "" {
			db = db.Where("alert_type = ?", filter.AlertType)
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
	if err := r.db.Model(&alertDatamodel.Alert{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []*alertDatamodel.Alert
	err := withRelations(r.db).Scopes(scope).
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&rows).Error
	return rows, total, err
}

func (r *AlertRepository) Update(a *alertDatamodel.Alert) error {
	return r.db.Omit(clause.Associations).Save(a).Error
}

func (r *AlertRepository) Delete(id int64) error {
	return r.db.Delete(&alertDatamodel.Alert{}, id).Error
}

func (r *AlertRepository) GetGeofence(id int64) (*geofenceDatamodel.Geofence, error) {
	var g geofenceDatamodel.Geofence
	if err := r.db.Where("id = ?", id).First(&g).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &g, nil
}

func (r *AlertRepository) GetUser(id int64) (*userDatamodel.User, error) {
	var u userDatamodel.User
	if err := r.db.Where("id = ?", id).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}
