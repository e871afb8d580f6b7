package organization

import (
	"time"

	orgDatamodel "github.com/frahmantamala/geofence-security/internal/core/datamodel/organization"
)

type Organization struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewOrganization(name string, description *string) *Organization {
	return &Organization{
		Name:        name,
		Description: description,
	}
}

func ToDataModel(o *Organization) *orgDatamodel.Organization {
	return &orgDatamodel.Organization{
		ID:          o.ID,
		Name:        o.Name,
		Description: o.Description,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

func FromDataModel(o *orgDatamodel.Organization) *Organization {
	return &Organization{
		ID:          o.ID,
		Name:        o.Name,
		Description: o.Description,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}
