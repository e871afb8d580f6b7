package postgres

import (
	"errors"

	orgDatamodel "github.com/frahmantamala/geofence-security/internal/core/datamodel/organization"
	"github.com/frahmantamala/geofence-security/internal/organization"
	"gorm.io/gorm"
)

type OrganizationRepository struct {
	db *gorm.DB
}

func NewOrganizationRepository(db *gorm.DB) organization.RepositoryAPI {
	return &OrganizationRepository{db: db}
}

func (r *OrganizationRepository) Create(org *orgDatamodel.Organization) error {
	return r.db.Create(org).Error
}

func (r *OrganizationRepository) GetByID(id int64) (*orgDatamodel.Organization, error) {
	var org orgDatamodel.Organization
	err := r.db.Where("id = ?", id).First(&org).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &org, nil
}

func (r *OrganizationRepository) List(orgID *int64, limit, offset int) ([]*orgDatamodel.Organization, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		if orgID != nil {
			return db.Where("id = ?", *orgID)
		}
		return db
	}

	var total int64
	if err := r.db.Model(&orgDatamodel.Organization{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orgs []*orgDatamodel.Organization
	err := r.db.Scopes(scope).Order("name ASC").Limit(limit).Offset(offset).Find(&orgs).Error
	return orgs, total, err
}

func (r *OrganizationRepository) Update(org *orgDatamodel.Organization) error {
	return r.db.Save(org).Error
}

func (r *OrganizationRepository) Delete(id int64) error {
	return r.db.Delete(&orgDatamodel.Organization{}, id).Error
}
