package alert

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/geofence-security/internal"
	"github.com/frahmantamala/geofence-security/internal/core/common/severity"
	alertDatamodel "github.com/frahmantamala/geofence-security/internal/core/datamodel/alert"
	geofenceDatamodel "github.com/frahmantamala/geofence-security/internal/core/datamodel/geofence"
	userDatamodel "github.com/frahmantamala/geofence-security/internal/core/datamodel/user"
	"github.com/frahmantamala/geofence-security/internal/core/events"
	coreUser "github.com/frahmantamala/geofence-security/internal/core/user"
	"gorm.io/datatypes"
)

type RepositoryAPI interface {
	Create(a *alertDatamodel.Alert) error
	GetByID(id int64) (*alertDatamodel.Alert, error)
	List(orgID *int64, filter ListFilter, limit, offset int) ([]*alertDatamodel.Alert, int64, error)
	Update(a *alertDatamodel.Alert) error
	Delete(id int64) error
	GetGeofence(id int64) (*geofenceDatamodel.Geofence, error)
	GetUser(id int64) (*userDatamodel.User, error)
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

func (s *Service) Create(actor *coreUser.Actor, dto CreateAlertDTO) (*Alert, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkReferences(actor, dto.GeofenceID, dto.UserID); err != nil {
		return nil, err
	}

	metadata := datatypes.JSON(`{}`)
	if len(dto.Metadata) > 0 {
		metadata = datatypes.JSON(dto.Metadata)
	}
	a := &alertDatamodel.Alert{
		GeofenceID:  dto.GeofenceID,
		UserID:      dto.UserID,
		AlertType:   dto.typeOrDefault(),
		Severity:    severity.OrDefault(dto.Severity),
		Title:       dto.Title,
		Description: dto.Description,
		Metadata:    metadata,
	}

	if err := s.repo.Create(a); err != nil {
		s.logger.Error("failed to create alert", "error", err, "actor_id", actor.ID)
		return nil, internal.NewInternalError("failed to create alert", err)
	}

	s.logger.Info("alert raised", "alert_id", a.ID, "alert_type", a.AlertType, "severity", a.Severity)
	return s.GetByID(actor, a.ID)
}

func (s *Service) checkReferences(actor *coreUser.Actor, geofenceID, userID *int64) error {
	if geofenceID != nil {
		g, err := s.repo.GetGeofence(*geofenceID)
		if err != nil {
			return internal.NewInternalError("failed to get geofence", err)
		}
		if g == nil {
			return internal.NewValidationFieldError("geofence", "Geofence not found.", internal.ErrCodeGeofenceNotFound)
		}
		if !actor.CanAccessOrganization(g.OrganizationID) {
			return internal.NewValidationFieldError("geofence", "Geofence does not belong to your organization.", internal.ErrCodeCrossOrganization)
		}
	}
	if userID != nil {
		u, err := s.repo.GetUser(*userID)
		if err != nil {
			return internal.NewInternalError("failed to get user", err)
		}
		if u == nil {
			return internal.NewValidationFieldError("user", "User not found.", internal.ErrCodeUserNotFound)
		}
		if !actor.IsSuperAdmin() && (u.OrganizationID == nil || !actor.CanAccessOrganization(*u.OrganizationID)) {
			return internal.NewValidationFieldError("user", "User does not belong to your organization.", internal.ErrCodeCrossOrganization)
		}
	}
	return nil
}

func (s *Service) GetByID(actor *coreUser.Actor, id int64) (*Alert, error) {
	a, err := s.load(actor, id)
	if err != nil {
		return nil, err
	}
	return FromDataModel(a), nil
}

func (s *Service) List(actor *coreUser.Actor, filter ListFilter, limit, offset int) ([]*Alert, int64, error) {
	rows, total, err := s.repo.List(actor.ScopeOrganization(), filter, limit, offset)
	if err != nil {
		s.logger.Error("failed to list alerts", "error", err)
		return nil, 0, internal.NewInternalError("failed to list alerts", err)
	}

	out := make([]*Alert, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromDataModel(row))
	}
	return out, total, nil
}

func (s *Service) Update(actor *coreUser.Actor, id int64, dto UpdateAlertDTO) (*Alert, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	a, err := s.load(actor, id)
	if err != nil {
		return nil, err
	}

	if dto.AlertType != nil {
		a.AlertType = *dto.AlertType
	}
	if dto.Severity != nil {
		a.Severity = *dto.Severity
	}
	if dto.Title != nil {
		a.Title = *dto.Title
	}
	if dto.Description != nil {
		a.Description = dto.Description
	}
	if dto.Metadata != nil {
		a.Metadata = datatypes.JSON(dto.Metadata)
	}

	if err := s.repo.Update(a); err != nil {
		s.logger.Error("failed to update alert", "error", err, "alert_id", id)
		return nil, internal.NewInternalError("failed to update alert", err)
	}
	return s.GetByID(actor, id)
}

func (s *Service) Resolve(ctx context.Context, actor *coreUser.Actor, id int64) (*Alert, error) {
	a, err := s.load(actor, id)
	if err != nil {
		return nil, err
	}

	Resolve(a, actor.ID, time.Now())
	if err := s.repo.Update(a); err != nil {
		s.logger.Error("failed to resolve alert", "error", err, "alert_id", id)
		return nil, internal.NewInternalError("failed to resolve alert", err)
	}

	s.logger.Info("alert resolved", "alert_id", id, "resolved_by", actor.ID)
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, events.NewAlertResolvedEvent(a.ID, actor.ID)); err != nil {
			s.logger.Warn("failed to publish alert resolved event", "error", err, "alert_id", id)
		}
	}
	return s.GetByID(actor, id)
}

func (s *Service) Delete(actor *coreUser.Actor, id int64) error {
	if _, err := s.load(actor, id); err != nil {
		return err
	}
	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete alert", "error", err, "alert_id", id)
		return internal.NewInternalError("failed to delete alert", err)
	}
	return nil
}

func (s *Service) load(actor *coreUser.Actor, id int64) (*alertDatamodel.Alert, error) {
	a, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get alert", "error", err, "alert_id", id)
		return nil, internal.NewInternalError("failed to get alert", err)
	}
	if a == nil || !VisibleTo(a, actor) {
		return nil, internal.ErrAlertNotFound
	}
	return a, nil
}
