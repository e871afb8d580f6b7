package postgres

import (
	"errors"

	userDatamodel "github.com/frahmantamala/geofence-security/internal/core/datamodel/user"
	"github.com/frahmantamala/geofence-security/internal/user"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.RepositoryAPI {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(u *userDatamodel.User) error {
	return r.db.Omit("Organization").Create(u).Error
}

func (r *UserRepository) GetByID(id int64) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := r.db.Preload("Organization").Where("id = ?", id).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) UsernameExists(username string) (bool, error) {
	var count int64
	err := r.db.Model(&userDatamodel.User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) List(orgID *int64, filter user.ListFilter, limit, offset int) ([]*userDatamodel.User, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		if orgID != nil {
			db = db.Where("organization_id = ?", *orgID)
		}
		if filter.Search != "" {
			like := "%" + filter.Search + "%"
			db = db.Where("username LIKE ? OR email LIKE ? OR first_name LIKE ? OR last_name LIKE ?", like, like, like, like)
		}
		if filter.Role != "" {
			db = db.Where("role = ?", filter.Role)
		}
		if filter.IsActive != nil {
			db = db.Where("is_active = ?", *filter.IsActive)
		}
		return db
	}

	var total int64
	if err := r.db.Model(&userDatamodel.User{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []*userDatamodel.User
	err := r.db.Preload("Organization").Scopes(scope).
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&users).Error
	return users, total, err
}
