package postgres

import (
	"errors"
	"time"

	"github.com/frahmantamala/geofence-security/internal/auth"
	subadminDatamodel "github.com/frahmantamala/geofence-security/internal/core/datamodel/subadmin"
	userDatamodel "github.com/frahmantamala/geofence-security/internal/core/datamodel/user"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) auth.RepositoryAPI {
	return &Repository{db: db}
}

func (r *Repository) GetByUsername(username string) (*userDatamodel.User, error) {
	return r.first("username = ?", username)
}

func (r *Repository) GetByID(id int64) (*userDatamodel.User, error) {
	return r.first("id = ?", id)
}

func (r *Repository) first(query string, arg interface{}) (*userDatamodel.User, error) {
	var u userDatamodel.User
	if err := r.db.Where(query, arg).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *Repository) UpdateLastLogin(id int64, at time.Time) error {
	return r.db.Model(&userDatamodel.User{}).Where("id = ?", id).Update("last_login", at).Error
}

func (r *Repository) GetSubAdminPermission(userID int64) (string, error) {
	var profile subadminDatamodel.SubAdminProfile
	err := r.db.Where("user_id = ? AND is_active = ?", userID, true).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return profile.Permissions, nil
}
