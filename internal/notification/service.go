package notification

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/geofence-security/internal"
	geofenceDatamodel "github.com/frahmantamala/geofence-security/internal/core/datamodel/geofence"
	notificationDatamodel "github.com/frahmantamala/geofence-security/internal/core/datamodel/notification"
	"github.com/frahmantamala/geofence-security/internal/core/events"
	coreUser "github.com/frahmantamala/geofence-security/internal/core/user"
)

type RepositoryAPI interface {
	Create(n *notificationDatamodel.Notification, officerIDs []int64) error
	GetByID(id int64) (*notificationDatamodel.Notification, error)
	List(orgID *int64, filter ListFilter, limit, offset int) ([]*notificationDatamodel.Notification, int64, error)
	Update(n *notificationDatamodel.Notification, officerIDs *[]int64) error
	Delete(id int64) error
	GetGeofence(id int64) (*geofenceDatamodel.Geofence, error)
	OfficerIDsInOrganization(orgID int64, ids []int64) ([]int64, error)
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

var errSubAdminRequired = internal.NewForbiddenError("Only sub admins can manage notifications.", internal.ErrCodeRoleRequired)

func requireOrgSubAdmin(actor *coreUser.Actor) (int64, error) {
	if !actor.IsSubAdmin() {
		return 0, errSubAdminRequired
	}
	if !actor.HasOrganization() {
		return 0, internal.NewValidationFieldError("organization", "You are not assigned to an organization.", internal.ErrCodeNoOrganization)
	}
	return *actor.OrganizationID, nil
}

// targetFields names the request fields target errors are reported on; the
// send payload uses *_id names while the resource uses the plain ones.
type targetFields struct {
	geofence string
	officers string
}

var (
	resourceFields = targetFields{geofence: "target_geofence", officers: "target_officers"}
	sendFields     = targetFields{geofence: "target_geofence_id", officers: "target_officer_ids"}
)

// checkTargets requires the geofence and every officer id to belong to orgID.
// A single foreign or unknown officer rejects the whole list.
func (s *Service) checkTargets(orgID int64, geofenceID *int64, officerIDs []int64, fields targetFields) error {
	if geofenceID != nil {
		g, err := s.repo.GetGeofence(*geofenceID)
		if err != nil {
			return internal.NewInternalError("failed to get geofence", err)
		}
		if g == nil {
			return internal.NewValidationFieldError(fields.geofence, "Geofence not found.", internal.ErrCodeGeofenceNotFound)
		}
		if g.OrganizationID != orgID {
			return internal.NewValidationFieldError(fields.geofence, "Geofence does not belong to your organization.", internal.ErrCodeCrossOrganization)
		}
	}
	if len(officerIDs) > 0 {
		found, err := s.repo.OfficerIDsInOrganization(orgID, officerIDs)
		if err != nil {
			return internal.NewInternalError("failed to get officers", err)
		}
		if len(found) != len(officerIDs) {
			return internal.NewValidationFieldError(fields.officers, "Some officers do not belong to your organization.", internal.ErrCodeCrossOrganization)
		}
	}
	return nil
}

// Create stores an unsent notification in the actor's organization.
func (s *Service) Create(actor *coreUser.Actor, dto CreateNotificationDTO) (*Notification, error) {
	orgID, err := requireOrgSubAdmin(actor)
	if err != nil {
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkTargets(orgID, dto.TargetGeofenceID, dto.TargetOfficerIDs, resourceFields); err != nil {
		return nil, err
	}

	n, err := s.create(actor, orgID, &notificationDatamodel.Notification{
		NotificationType: dto.typeOrDefault(),
		Title:            dto.Title,
		Message:          dto.Message,
		TargetType:       dto.targetOrDefault(),
		TargetGeofenceID: dto.TargetGeofenceID,
	}, dto.TargetOfficerIDs)
	if err != nil {
		return nil, err
	}
	return s.GetByID(actor, n.ID)
}

// Send validates the targets, stores the notification and marks it sent.
func (s *Service) Send(ctx context.Context, actor *coreUser.Actor, dto SendNotificationDTO) (*Notification, error) {
	orgID, err := requireOrgSubAdmin(actor)
	if err != nil {
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkTargets(orgID, dto.TargetGeofenceID, dto.TargetOfficerIDs, sendFields); err != nil {
		return nil, err
	}

	n, err := s.create(actor, orgID, &notificationDatamodel.Notification{
		NotificationType: dto.NotificationType,
		Title:            dto.Title,
		Message:          dto.Message,
		TargetType:       dto.TargetType,
		TargetGeofenceID: dto.TargetGeofenceID,
	}, dto.TargetOfficerIDs)
	if err != nil {
		return nil, err
	}
	if err := s.markSent(ctx, n, dto.TargetOfficerIDs); err != nil {
		return nil, err
	}
	return s.GetByID(actor, n.ID)
}

func (s *Service) create(actor *coreUser.Actor, orgID int64, n *notificationDatamodel.Notification, officerIDs []int64) (*notificationDatamodel.Notification, error) {
	n.OrganizationID = orgID
	n.CreatedByID = actor.ID
	if err := s.repo.Create(n, officerIDs); err != nil {
		s.logger.Error("failed to create notification", "error", err, "actor_id", actor.ID)
		return nil, internal.NewInternalError("failed to create notification", err)
	}
	s.logger.Info("notification created", "notification_id", n.ID, "organization_id", orgID, "target_type", n.TargetType)
	return n, nil
}

func (s *Service) GetByID(actor *coreUser.Actor, id int64) (*Notification, error) {
	n, err := s.load(actor, id)
	if err != nil {
		return nil, err
	}
	return FromDataModel(n), nil
}

func (s *Service) List(actor *coreUser.Actor, filter ListFilter, limit, offset int) ([]*Notification, int64, error) {
	rows, total, err := s.repo.List(actor.ScopeOrganization(), filter, limit, offset)
	if err != nil {
		s.logger.Error("failed to list notifications", "error", err)
		return nil, 0, internal.NewInternalError("failed to list notifications", err)
	}

	out := make([]*Notification, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromDataModel(row))
	}
	return out, total, nil
}

func (s *Service) Update(actor *coreUser.Actor, id int64, dto UpdateNotificationDTO) (*Notification, error) {
	orgID, err := requireOrgSubAdmin(actor)
	if err != nil {
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	n, err := s.load(actor, id)
	if err != nil {
		return nil, err
	}
	var officerIDs []int64
	if dto.TargetOfficerIDs != nil {
		officerIDs = *dto.TargetOfficerIDs
	}
	if err := s.checkTargets(orgID, dto.TargetGeofenceID, officerIDs, resourceFields); err != nil {
		return nil, err
	}

	if dto.NotificationType != nil {
		n.NotificationType = *dto.NotificationType
	}
	if dto.Title != nil {
		n.Title = *dto.Title
	}
	if dto.Message != nil {
		n.Message = *dto.Message
	}
	if dto.TargetType != nil {
		n.TargetType = *dto.TargetType
	}
	if dto.ClearGeofence {
		n.TargetGeofenceID = nil
	} else if dto.TargetGeofenceID != nil {
		n.TargetGeofenceID = dto.TargetGeofenceID
	}
	n.TargetGeofence = nil

	if err := s.repo.Update(n, dto.TargetOfficerIDs); err != nil {
		s.logger.Error("failed to update notification", "error", err, "notification_id", id)
		return nil, internal.NewInternalError("failed to update notification", err)
	}
	return s.GetByID(actor, id)
}

// MarkSent flags an existing notification as sent and announces it.
func (s *Service) MarkSent(ctx context.Context, actor *coreUser.Actor, id int64) (*Notification, error) {
	if _, err := requireOrgSubAdmin(actor); err != nil {
		return nil, err
	}
	n, err := s.load(actor, id)
	if err != nil {
		return nil, err
	}

	officerIDs := make([]int64, 0, len(n.TargetOfficers))
	for _, o := range n.TargetOfficers {
		officerIDs = append(officerIDs, o.ID)
	}
	if err := s.markSent(ctx, n, officerIDs); err != nil {
		return nil, err
	}
	return s.GetByID(actor, id)
}

func (s *Service) markSent(ctx context.Context, n *notificationDatamodel.Notification, officerIDs []int64) error {
	MarkSent(n, time.Now())
	if err := s.repo.Update(n, nil); err != nil {
		s.logger.Error("failed to mark notification sent", "error", err, "notification_id", n.ID)
		return internal.NewInternalError("failed to mark notification sent", err)
	}

	s.logger.Info("notification sent", "notification_id", n.ID, "organization_id", n.OrganizationID)
	if s.publisher != nil {
		event := events.NewNotificationSentEvent(n.ID, n.OrganizationID, n.NotificationType, n.Title, n.Message,
			n.TargetType, n.TargetGeofenceID, officerIDs, *n.SentAt)
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.Warn("failed to publish notification sent event", "error", err, "notification_id", n.ID)
		}
	}
	return nil
}

func (s *Service) Delete(actor *coreUser.Actor, id int64) error {
	if _, err := requireOrgSubAdmin(actor); err != nil {
		return err
	}
	if _, err := s.load(actor, id); err != nil {
		return err
	}
	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete notification", "error", err, "notification_id", id)
		return internal.NewInternalError("failed to delete notification", err)
	}
	return nil
}

func (s *Service) load(actor *coreUser.Actor, id int64) (*notificationDatamodel.Notification, error) {
	n, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get notification", "error", err, "notification_id", id)
		return nil, internal.NewInternalError("failed to get notification", err)
	}
	if n == nil || !actor.CanAccessOrganization(n.OrganizationID) {
		return nil, internal.ErrNotificationNotFound
	}
	return n, nil
}
