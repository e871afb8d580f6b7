package geofence

import (
	"log/slog"

	"github.com/frahmantamala/geofence-security/internal"
	geofenceDatamodel "github.com/frahmantamala/geofence-security/internal/core/datamodel/geofence"
	coreUser "github.com/frahmantamala/geofence-security/internal/core/user"
	"gorm.io/datatypes"
)

type RepositoryAPI interface {
	Create(g *geofenceDatamodel.Geofence) error
	GetByID(id int64) (*geofenceDatamodel.Geofence, error)
	List(orgID *int64, filter ListFilter, limit, offset int) ([]*geofenceDatamodel.Geofence, int64, error)
	Update(g *geofenceDatamodel.Geofence) error
	Delete(id int64) error
	OrganizationExists(id int64) (bool, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

var errWriteRole = internal.NewForbiddenError("Only admins can manage geofences.", internal.ErrCodeRoleRequired)

func (s *Service) Create(actor *coreUser.Actor, dto CreateGeofenceDTO) (*Geofence, error) {
	if !actor.HasRole(coreUser.RoleSuperAdmin, coreUser.RoleSubAdmin) {
		return nil, errWriteRole
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	orgID, err := s.resolveOrganization(actor, dto.OrganizationID)
	if err != nil {
		return nil, err
	}

	active := true
	if dto.Active != nil {
		active = *dto.Active
	}
	createdBy := actor.ID
	g := &geofenceDatamodel.Geofence{
		Name:           dto.Name,
		Description:    dto.Description,
		PolygonJSON:    datatypes.JSON(dto.PolygonJSON),
		Active:         active,
		OrganizationID: orgID,
		CreatedByID:    &createdBy,
	}

	if err := s.repo.Create(g); err != nil {
		s.logger.Error("failed to create geofence", "error", err, "actor_id", actor.ID)
		return nil, internal.NewInternalError("failed to create geofence", err)
	}

	s.logger.Info("geofence created", "geofence_id", g.ID, "organization_id", orgID, "actor_id", actor.ID)
	return s.GetByID(actor, g.ID)
}

// resolveOrganization forces the actor's organization. Super admins may name
// any existing organization and must do so when they have none.
func (s *Service) resolveOrganization(actor *coreUser.Actor, requested *int64) (int64, error) {
	if actor.IsSuperAdmin() && requested != nil {
		ok, err := s.repo.OrganizationExists(*requested)
		if err != nil {
			return 0, internal.NewInternalError("failed to check organization", err)
		}
		if !ok {
			return 0, internal.NewValidationFieldError("organization", "Organization not found.", internal.ErrCodeOrganizationNotFound)
		}
		return *requested, nil
	}
	if !actor.HasOrganization() {
		return 0, internal.NewValidationFieldError("organization", "You are not assigned to an organization.", internal.ErrCodeNoOrganization)
	}
	return *actor.OrganizationID, nil
}

func (s *Service) GetByID(actor *coreUser.Actor, id int64) (*Geofence, error) {
	g, err := s.load(actor, id)
	if err != nil {
		return nil, err
	}
	return FromDataModel(g), nil
}

func (s *Service) List(actor *coreUser.Actor, filter ListFilter, limit, offset int) ([]*Geofence, int64, error) {
	rows, total, err := s.repo.List(actor.ScopeOrganization(), filter, limit, offset)
	if err != nil {
		s.logger.Error("failed to list geofences", "error", err)
		return nil, 0, internal.NewInternalError("failed to list geofences", err)
	}

	out := make([]*Geofence, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromDataModel(row))
	}
	return out, total, nil
}

func (s *Service) Update(actor *coreUser.Actor, id int64, dto UpdateGeofenceDTO) (*Geofence, error) {
	if !actor.HasRole(coreUser.RoleSuperAdmin, coreUser.RoleSubAdmin) {
		return nil, errWriteRole
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	g, err := s.load(actor, id)
	if err != nil {
		return nil, err
	}

	if dto.Name != nil {
		g.Name = *dto.Name
	}
	if dto.Description != nil {
		g.Description = dto.Description
	}
	if dto.PolygonJSON != nil {
		g.PolygonJSON = datatypes.JSON(dto.PolygonJSON)
	}
	if dto.Active != nil {
		g.Active = *dto.Active
	}

	if err := s.repo.Update(g); err != nil {
		s.logger.Error("failed to update geofence", "error", err, "geofence_id", id)
		return nil, internal.NewInternalError("failed to update geofence", err)
	}
	return FromDataModel(g), nil
}

// Delete removes the geofence with its incidents, alerts and targeted
// notifications. Officers assigned to it are kept and unassigned.
func (s *Service) Delete(actor *coreUser.Actor, id int64) error {
	if !actor.HasRole(coreUser.RoleSuperAdmin, coreUser.RoleSubAdmin) {
		return errWriteRole
	}
	if _, err := s.load(actor, id); err != nil {
		return err
	}
	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete geofence", "error", err, "geofence_id", id)
		return internal.NewInternalError("failed to delete geofence", err)
	}
	s.logger.Info("geofence deleted", "geofence_id", id, "actor_id", actor.ID)
	return nil
}

func (s *Service) load(actor *coreUser.Actor, id int64) (*geofenceDatamodel.Geofence, error) {
	g, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get geofence", "error", err, "geofence_id", id)
		return nil, internal.NewInternalError("failed to get geofence", err)
	}
	if g == nil || !actor.CanAccessOrganization(g.OrganizationID) {
		return nil, internal.ErrGeofenceNotFound
	}
	return g, nil
}
