package postgres

import (
	"errors"

	orgDatamodel "github.com/frahmantamala/geofence-security/internal/core/datamodel/organization"
	subadminDatamodel "github.com/frahmantamala/geofence-security/internal/core/datamodel/subadmin"
	userDatamodel "github.com/frahmantamala/geofence-security/internal/core/datamodel/user"
	"github.com/frahmantamala/geofence-security/internal/subadmin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SubAdminRepository struct {
	db *gorm.DB
}

func NewSubAdminRepository(db *gorm.DB) subadmin.RepositoryAPI {
	return &SubAdminRepository{db: db}
}

func (r *SubAdminRepository) CreateWithUser(u *userDatamodel.User, profile *subadminDatamodel.SubAdminProfile) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(u).Error; err != nil {
			return err
		}
		profile.UserID = u.ID
		return tx.Omit(clause.Associations).Create(profile).Error
	})
}

func (r *SubAdminRepository) GetByID(id int64) (*subadminDatamodel.SubAdminProfile, error) {
	var p subadminDatamodel.SubAdminProfile
	err := r.db.Preload("User").Preload("CreatedBy").Where("id = ?", id).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *SubAdminRepository) List(filter subadmin.ListFilter, limit, offset int) ([]*subadminDatamodel.SubAdminProfile, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		db = db.Joins("JOIN users ON users.id = sub_admin_profiles.user_id")
		if filter.Search != "" {
			like := "%" + filter.Search + "%"
			db = db.Where("users.username LIKE ? OR users.email LIKE ? OR users.first_name LIKE ? OR users.last_name LIKE ?",
				like, like, like, like)
		}
		if filter.Permissions != "" {
			db = db.Where("sub_admin_profiles.permissions = ?", filter.Permissions)
		}
		if filter.AssignedScope != "" {
			db = db.Where("sub_admin_profiles.assigned_scope = ?", filter.AssignedScope)
		}
		if filter.IsActive != nil {
			db = db.Where("sub_admin_profiles.is_active = ?", *filter.IsActive)
		}
		return db
	}

	var total int64
	if err := r.db.Model(&subadminDatamodel.SubAdminProfile{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var profiles []*subadminDatamodel.SubAdminProfile
	err := r.db.Model(&subadminDatamodel.SubAdminProfile{}).Scopes(scope).
		Preload("User").Preload("CreatedBy").
		Order(filter.OrderClause()).Limit(limit).Offset(offset).
		Find(&profiles).Error
	return profiles, total, err
}

func (r *SubAdminRepository) Save(profile *subadminDatamodel.SubAdminProfile) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if profile.User != nil {
			if err := tx.Omit(clause.Associations).Save(profile.User).Error; err != nil {
				return err
			}
		}
		return tx.Omit(clause.Associations).Save(profile).Error
	})
}

func (r *SubAdminRepository) UsernameExists(username string) (bool, error) {
	var count int64
	err := r.db.Model(&userDatamodel.User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

func (r *SubAdminRepository) OrganizationExists(id int64) (bool, error) {
	var count int64
	err := r.db.Model(&orgDatamodel.Organization{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}
