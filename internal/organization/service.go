package organization

import (
	"log/slog"

	"github.com/frahmantamala/geofence-security/internal"
	orgDatamodel "github.com/frahmantamala/geofence-security/internal/core/datamodel/organization"
	coreUser "github.com/frahmantamala/geofence-security/internal/core/user"
)

type RepositoryAPI interface {
	Create(org *orgDatamodel.Organization) error
	GetByID(id int64) (*orgDatamodel.Organization, error)
	List(orgID *int64, limit, offset int) ([]*orgDatamodel.Organization, int64, error)
	Update(org *orgDatamodel.Organization) error
	Delete(id int64) error
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

var errSuperAdminRequired = internal.NewForbiddenError("Only super admins can manage organizations.", internal.ErrCodeRoleRequired)

func (s *Service) Create(actor *coreUser.Actor, dto CreateOrganizationDTO) (*Organization, error) {
	if !actor.IsSuperAdmin() {
		return nil, errSuperAdminRequired
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	org := ToDataModel(NewOrganization(dto.Name, dto.Description))
	if err := s.repo.Create(org); err != nil {
		s.logger.Error("failed to create organization", "error", err, "actor_id", actor.ID)
		return nil, internal.NewInternalError("failed to create organization", err)
	}

	s.logger.Info("organization created", "organization_id", org.ID, "actor_id", actor.ID)
	return FromDataModel(org), nil
}

// GetByID hides organizations the actor cannot access behind a not-found error.
func (s *Service) GetByID(actor *coreUser.Actor, id int64) (*Organization, error) {
	if !actor.CanAccessOrganization(id) {
		return nil, internal.ErrOrganizationNotFound
	}
	org, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get organization", "error", err, "organization_id", id)
		return nil, internal.NewInternalError("failed to get organization", err)
	}
	if org == nil {
		return nil, internal.ErrOrganizationNotFound
	}
	return FromDataModel(org), nil
}

func (s *Service) List(actor *coreUser.Actor, limit, offset int) ([]*Organization, int64, error) {
	rows, total, err := s.repo.List(actor.ScopeOrganization(), limit, offset)
	if err != nil {
		s.logger.Error("failed to list organizations", "error", err)
		return nil, 0, internal.NewInternalError("failed to list organizations", err)
	}

	orgs := make([]*Organization, 0, len(rows))
	for _, row := range rows {
		orgs = append(orgs, FromDataModel(row))
	}
	return orgs, total, nil
}

func (s *Service) Update(actor *coreUser.Actor, id int64, dto UpdateOrganizationDTO) (*Organization, error) {
	if !actor.IsSuperAdmin() {
		return nil, errSuperAdminRequired
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	org, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewInternalError("failed to get organization", err)
	}
	if org == nil {
		return nil, internal.ErrOrganizationNotFound
	}

	if dto.Name != nil {
		org.Name = *dto.Name
	}
	if dto.Description != nil {
		org.Description = dto.Description
	}

	if err := s.repo.Update(org); err != nil {
		s.logger.Error("failed to update organization", "error", err, "organization_id", id)
		return nil, internal.NewInternalError("failed to update organization", err)
	}
	return FromDataModel(org), nil
}

// Delete removes the organization. Geofences, officers and notifications go
// with it; member users stay with their organization cleared.
func (s *Service) Delete(actor *coreUser.Actor, id int64) error {
	if !actor.IsSuperAdmin() {
		return errSuperAdminRequired
	}
	org, err := s.repo.GetByID(id)
	if err != nil {
		return internal.NewInternalError("failed to get organization", err)
	}
	if org == nil {
		return internal.ErrOrganizationNotFound
	}
	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete organization", "error", err, "organization_id", id)
		return internal.NewInternalError("failed to delete organization", err)
	}
	s.logger.Info("organization deleted", "organization_id", id, "actor_id", actor.ID)
	return nil
}
