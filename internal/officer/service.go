package officer

import (
	"log/slog"

	"github.com/frahmantamala/geofence-security/internal"
	geofenceDatamodel "github.com/frahmantamala/geofence-security/internal/core/datamodel/geofence"
	officerDatamodel "github.com/frahmantamala/geofence-security/internal/core/datamodel/officer"
	coreUser "github.com/frahmantamala/geofence-security/internal/core/user"
)

type RepositoryAPI interface {
	Create(o *officerDatamodel.SecurityOfficer) error
	GetByID(id int64) (*officerDatamodel.SecurityOfficer, error)
	List(orgID *int64, filter ListFilter, limit, offset int) ([]*officerDatamodel.SecurityOfficer, int64, error)
	Update(o *officerDatamodel.SecurityOfficer) error
	Delete(id int64) error
	GetGeofence(id int64) (*geofenceDatamodel.Geofence, error)
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

var errSubAdminRequired = internal.NewForbiddenError("Only sub admins can manage security officers.", internal.ErrCodeRoleRequired)

// requireOrgSubAdmin returns the organization every officer write is bound to.
func requireOrgSubAdmin(actor *coreUser.Actor) (int64, error) {
	if !actor.IsSubAdmin() {
		return 0, errSubAdminRequired
	}
	if !actor.HasOrganization() {
		return 0, internal.NewValidationFieldError("organization", "You are not assigned to an organization.", internal.ErrCodeNoOrganization)
	}
	return *actor.OrganizationID, nil
}

// Create registers an officer in the actor's organization; created_by is the actor.
func (s *Service) Create(actor *coreUser.Actor, dto CreateOfficerDTO) (*SecurityOfficer, error) {
	orgID, err := requireOrgSubAdmin(actor)
	if err != nil {
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkGeofence(orgID, dto.AssignedGeofenceID); err != nil {
		return nil, err
	}

	active := true
	if dto.IsActive != nil {
		active = *dto.IsActive
	}
	createdBy := actor.ID
	o := &officerDatamodel.SecurityOfficer{
		Name:               dto.Name,
		Contact:            dto.Contact,
		Email:              dto.Email,
		IsActive:           active,
		OrganizationID:     orgID,
		AssignedGeofenceID: dto.AssignedGeofenceID,
		CreatedByID:        &createdBy,
	}

	if err := s.repo.Create(o); err != nil {
		s.logger.Error("failed to create officer", "error", err, "actor_id", actor.ID)
		return nil, internal.NewInternalError("failed to create officer", err)
	}

	s.logger.Info("officer created", "officer_id", o.ID, "organization_id", orgID, "actor_id", actor.ID)
	return s.GetByID(actor, o.ID)
}

func (s *Service) checkGeofence(orgID int64, geofenceID *int64) error {
	if geofenceID == nil {
		return nil
	}
	g, err := s.repo.GetGeofence(*geofenceID)
	if err != nil {
		return internal.NewInternalError("failed to get geofence", err)
	}
	if g == nil {
		return internal.NewValidationFieldError("assigned_geofence", "Geofence not found.", internal.ErrCodeGeofenceNotFound)
	}
	if g.OrganizationID != orgID {
		return internal.NewValidationFieldError("assigned_geofence", "Geofence does not belong to your organization.", internal.ErrCodeCrossOrganization)
	}
	return nil
}

func (s *Service) GetByID(actor *coreUser.Actor, id int64) (*SecurityOfficer, error) {
	o, err := s.load(actor, id)
	if err != nil {
		return nil, err
	}
	return FromDataModel(o), nil
}

func (s *Service) List(actor *coreUser.Actor, filter ListFilter, limit, offset int) ([]*SecurityOfficer, int64, error) {
	rows, total, err := s.repo.List(actor.ScopeOrganization(), filter, limit, offset)
	if err != nil {
		s.logger.Error("failed to list officers", "error", err)
		return nil, 0, internal.NewInternalError("failed to list officers", err)
	}

	out := make([]*SecurityOfficer, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromDataModel(row))
	}
	return out, total, nil
}

func (s *Service) Update(actor *coreUser.Actor, id int64, dto UpdateOfficerDTO) (*SecurityOfficer, error) {
	orgID, err := requireOrgSubAdmin(actor)
	if err != nil {
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	o, err := s.load(actor, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkGeofence(orgID, dto.AssignedGeofenceID); err != nil {
		return nil, err
	}

	if dto.Name != nil {
		o.Name = *dto.Name
	}
	if dto.Contact != nil {
		o.Contact = *dto.Contact
	}
	if dto.Email != nil {
		o.Email = dto.Email
	}
	if dto.IsActive != nil {
		o.IsActive = *dto.IsActive
	}
	if dto.AssignedGeofenceID != nil {
		o.AssignedGeofenceID = dto.AssignedGeofenceID
	} else if dto.ClearGeofence {
		o.AssignedGeofenceID = nil
	}

	if err := s.repo.Update(o); err != nil {
		s.logger.Error("failed to update officer", "error", err, "officer_id", id)
		return nil, internal.NewInternalError("failed to update officer", err)
	}
	return s.GetByID(actor, id)
}

func (s *Service) Delete(actor *coreUser.Actor, id int64) error {
	if _, err := requireOrgSubAdmin(actor); err != nil {
		return err
	}
	if _, err := s.load(actor, id); err != nil {
		return err
	}
	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete officer", "error", err, "officer_id", id)
		return internal.NewInternalError("failed to delete officer", err)
	}
	s.logger.Info("officer deleted", "officer_id", id, "actor_id", actor.ID)
	return nil
}

func (s *Service) load(actor *coreUser.Actor, id int64) (*officerDatamodel.SecurityOfficer, error) {
	o, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get officer", "error", err, "officer_id", id)
		return nil, internal.NewInternalError("failed to get officer", err)
	}
	if o == nil || !actor.CanAccessOrganization(o.OrganizationID) {
		return nil, internal.ErrOfficerNotFound
	}
	return o, nil
}
