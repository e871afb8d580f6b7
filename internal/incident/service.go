package incident

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/geofence-security/internal"
	"github.com/frahmantamala/geofence-security/internal/core/common/severity"
	geofenceDatamodel "github.com/frahmantamala/geofence-security/internal/core/datamodel/geofence"
	incidentDatamodel "github.com/frahmantamala/geofence-security/internal/core/datamodel/incident"
	officerDatamodel "github.com/frahmantamala/geofence-security/internal/core/datamodel/officer"
	"github.com/frahmantamala/geofence-security/internal/core/events"
	coreUser "github.com/frahmantamala/geofence-security/internal/core/user"
	"gorm.io/datatypes"
)

type RepositoryAPI interface {
	Create(i *incidentDatamodel.Incident) error
	GetByID(id int64) (*incidentDatamodel.Incident, error)
	List(orgID *int64, filter ListFilter, limit, offset int) ([]*incidentDatamodel.Incident, int64, error)
	Update(i *incidentDatamodel.Incident) error
	Delete(id int64) error
	GetGeofence(id int64) (*geofenceDatamodel.Geofence, error)
	GetOfficer(id int64) (*officerDatamodel.SecurityOfficer, error)
}

type Service struct {
	repo      RepositoryAPI
	publisher events.Publisher
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *Service) Create(actor *coreUser.Actor, dto CreateIncidentDTO) (*Incident, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	g, err := s.accessibleGeofence(actor, dto.GeofenceID)
	if err != nil {
		return nil, err
	}
	if err := s.checkOfficer(g.OrganizationID, dto.OfficerID); err != nil {
		return nil, err
	}

	location := datatypes.JSON(`{}`)
	if len(dto.Location) > 0 {
		location = datatypes.JSON(dto.Location)
	}
	createdBy := actor.ID
	i := &incidentDatamodel.Incident{
		GeofenceID:   g.ID,
		OfficerID:    dto.OfficerID,
		IncidentType: dto.typeOrDefault(),
		Severity:     severity.OrDefault(dto.Severity),
		Title:        dto.Title,
		Details:      dto.Details,
		Location:     location,
		CreatedByID:  &createdBy,
	}

	if err := s.repo.Create(i); err != nil {
		s.logger.Error("failed to create incident", "error", err, "actor_id", actor.ID)
		return nil, internal.NewInternalError("failed to create incident", err)
	}

	s.logger.Info("incident created", "incident_id", i.ID, "geofence_id", g.ID, "severity", i.Severity)
	return s.GetByID(actor, i.ID)
}

func (s *Service) accessibleGeofence(actor *coreUser.Actor, id int64) (*geofenceDatamodel.Geofence, error) {
	g, err := s.repo.GetGeofence(id)
	if err != nil {
		return nil, internal.NewInternalError("failed to get geofence", err)
	}
	if g == nil {
		return nil, internal.NewValidationFieldError("geofence", "Geofence not found.", internal.ErrCodeGeofenceNotFound)
	}
	if !actor.CanAccessOrganization(g.OrganizationID) {
		return nil, internal.NewValidationFieldError("geofence", "Geofence does not belong to your organization.", internal.ErrCodeCrossOrganization)
	}
	return g, nil
}

func (s *Service) checkOfficer(orgID int64, officerID *int64) error {
	if officerID == nil {
		return nil
	}
	o, err := s.repo.GetOfficer(*officerID)
	if err != nil {
		return internal.NewInternalError("failed to get officer", err)
	}
	if o == nil {
		return internal.NewValidationFieldError("officer", "Security officer not found.", internal.ErrCodeOfficerNotFound)
	}
	if o.OrganizationID != orgID {
		return internal.NewValidationFieldError("officer", "Officer does not belong to the geofence's organization.", internal.ErrCodeCrossOrganization)
	}
	return nil
}

func (s *Service) GetByID(actor *coreUser.Actor, id int64) (*Incident, error) {
	i, err := s.load(actor, id)
	if err != nil {
		return nil, err
	}
	return FromDataModel(i), nil
}

func (s *Service) List(actor *coreUser.Actor, filter ListFilter, limit, offset int) ([]*Incident, int64, error) {
	rows, total, err := s.repo.List(actor.ScopeOrganization(), filter, limit, offset)
	if err != nil {
		s.logger.Error("failed to list incidents", "error", err)
		return nil, 0, internal.NewInternalError("failed to list incidents", err)
	}

	out := make([]*Incident, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromDataModel(row))
	}
	return out, total, nil
}

func (s *Service) Update(actor *coreUser.Actor, id int64, dto UpdateIncidentDTO) (*Incident, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	i, err := s.load(actor, id)
	if err != nil {
		return nil, err
	}
	if dto.OfficerID != nil {
		if err := s.checkOfficer(i.Geofence.OrganizationID, dto.OfficerID); err != nil {
			return nil, err
		}
		i.OfficerID = dto.OfficerID
	}
	if dto.IncidentType != nil {
		i.IncidentType = *dto.IncidentType
	}
	if dto.Severity != nil {
		i.Severity = *dto.Severity
	}
	if dto.Title != nil {
		i.Title = *dto.Title
	}
	if dto.Details != nil {
		i.Details = *dto.Details
	}
	if dto.Location != nil {
		i.Location = datatypes.JSON(dto.Location)
	}

	if err := s.repo.Update(i); err != nil {
		s.logger.Error("failed to update incident", "error", err, "incident_id", id)
		return nil, internal.NewInternalError("failed to update incident", err)
	}
	return s.GetByID(actor, id)
}

// Resolve records the actor as resolver. Repeating it overwrites the
// previous resolver and time.
func (s *Service) Resolve(ctx context.Context, actor *coreUser.Actor, id int64) (*Incident, error) {
	i, err := s.load(actor, id)
	if err != nil {
		return nil, err
	}

	Resolve(i, actor.ID, time.Now())
	if err := s.repo.Update(i); err != nil {
		s.logger.Error("failed to resolve incident", "error", err, "incident_id", id)
		return nil, internal.NewInternalError("failed to resolve incident", err)
	}

	s.logger.Info("incident resolved", "incident_id", id, "resolved_by", actor.ID)
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, events.NewIncidentResolvedEvent(i.ID, i.GeofenceID, actor.ID)); err != nil {
			s.logger.Warn("failed to publish incident resolved event", "error", err, "incident_id", id)
		}
	}
	return s.GetByID(actor, id)
}

func (s *Service) Delete(actor *coreUser.Actor, id int64) error {
	if _, err := s.load(actor, id); err != nil {
		return err
	}
	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete incident", "error", err, "incident_id", id)
		return internal.NewInternalError("failed to delete incident", err)
	}
	return nil
}

func (s *Service) load(actor *coreUser.Actor, id int64) (*incidentDatamodel.Incident, error) {
	i, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get incident", "error", err, "incident_id", id)
		return nil, internal.NewInternalError("failed to get incident", err)
	}
	if i == nil || i.Geofence == nil || !actor.CanAccessOrganization(i.Geofence.OrganizationID) {
		return nil, internal.ErrIncidentNotFound
	}
	return i, nil
}
