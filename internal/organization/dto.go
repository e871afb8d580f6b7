package organization

import (
	"github.com/frahmantamala/geofence-security/internal"
	"github.com/frahmantamala/geofence-security/internal/core/common/validation"
)

type CreateOrganizationDTO struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

func (d CreateOrganizationDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(100)
	return v.Validate()
}

type UpdateOrganizationDTO struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func (d UpdateOrganizationDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	if d.Name != nil {
		v.Field("name", d.Name).Required().MaxLength(100)
	}
	return v.Validate()
}

type OrganizationsResponse struct {
	Organizations []*Organization `json:"organizations"`
}
