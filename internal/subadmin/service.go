package subadmin

import (
	"log/slog"

	"github.com/frahmantamala/geofence-security/internal"
	"github.com/frahmantamala/geofence-security/internal/auth"
	subadminDatamodel "github.com/frahmantamala/geofence-security/internal/core/datamodel/subadmin"
	userDatamodel "github.com/frahmantamala/geofence-security/internal/core/datamodel/user"
	coreUser "github.com/frahmantamala/geofence-security/internal/core/user"
)

type RepositoryAPI interface {
	// CreateWithUser stores the account and its profile atomically.
	CreateWithUser(u *userDatamodel.User, profile *subadminDatamodel.SubAdminProfile) error
	GetByID(id int64) (*subadminDatamodel.SubAdminProfile, error)
	List(filter ListFilter, limit, offset int) ([]*subadminDatamodel.SubAdminProfile, int64, error)
	// Save updates the profile and its user row atomically.
	Save(profile *subadminDatamodel.SubAdminProfile) error
	UsernameExists(username string) (bool, error)
	OrganizationExists(id int64) (bool, error)
}

type Service struct {
	repo       RepositoryAPI
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo RepositoryAPI, bcryptCost int, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

var errSuperAdminRequired = internal.NewForbiddenError("Only super admins can manage sub admins.", internal.ErrCodeRoleRequired)

// Create registers a SUB_ADMIN account and its profile. The role and
// created_by are always taken from here, never from the payload.
func (s *Service) Create(actor *coreUser.Actor, dto CreateSubAdminDTO) (*SubAdmin, error) {
	if !actor.IsSuperAdmin() {
		return nil, errSuperAdminRequired
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.repo.UsernameExists(dto.Username)
	if err != nil {
		return nil, internal.NewInternalError("failed to create sub admin", err)
	}
	if exists {
		return nil, internal.NewValidationFieldError("username", "A user with that username already exists.", internal.ErrCodeUnique)
	}
	if dto.OrganizationID != nil {
		ok, err := s.repo.OrganizationExists(*dto.OrganizationID)
		if err != nil {
			return nil, internal.NewInternalError("failed to create sub admin", err)
		}
		if !ok {
			return nil, internal.NewValidationFieldError("organization", "Organization not found.", internal.ErrCodeOrganizationNotFound)
		}
	}

	hash, err := auth.HashPassword(dto.Password, s.bcryptCost)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	isActive := true
	if dto.IsActive != nil {
		isActive = *dto.IsActive
	}

	u := &userDatamodel.User{
		Username:       dto.Username,
		Email:          dto.Email,
		PasswordHash:   hash,
		FirstName:      dto.FirstName,
		LastName:       dto.LastName,
		Role:           string(coreUser.RoleSubAdmin),
		OrganizationID: dto.OrganizationID,
		IsActive:       true,
	}
	createdBy := actor.ID
	profile := &subadminDatamodel.SubAdminProfile{
		Permissions:   dto.permissionOrDefault(),
		AssignedScope: dto.scopeOrDefault(),
		IsActive:      isActive,
		CreatedByID:   &createdBy,
	}

	if err := s.repo.CreateWithUser(u, profile); err != nil {
		s.logger.Error("failed to create sub admin", "error", err, "username", dto.Username)
		return nil, internal.NewInternalError("failed to create sub admin", err)
	}

	s.logger.Info("sub admin created", "profile_id", profile.ID, "user_id", u.ID, "actor_id", actor.ID)
	return s.GetByID(actor, profile.ID)
}

func (s *Service) GetByID(actor *coreUser.Actor, id int64) (*SubAdmin, error) {
	if !actor.IsSuperAdmin() {
		return nil, errSuperAdminRequired
	}
	p, err := s.load(id)
	if err != nil {
		return nil, err
	}
	return FromDataModel(p), nil
}

func (s *Service) List(actor *coreUser.Actor, filter ListFilter, limit, offset int) ([]*SubAdmin, int64, error) {
	if !actor.IsSuperAdmin() {
		return nil, 0, errSuperAdminRequired
	}
	rows, total, err := s.repo.List(filter, limit, offset)
	if err != nil {
		s.logger.Error("failed to list sub admins", "error", err)
		return nil, 0, internal.NewInternalError("failed to list sub admins", err)
	}

	out := make([]*SubAdmin, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromDataModel(row))
	}
	return out, total, nil
}

func (s *Service) Update(actor *coreUser.Actor, id int64, dto UpdateSubAdminDTO) (*SubAdmin, error) {
	if !actor.IsSuperAdmin() {
		return nil, errSuperAdminRequired
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	p, err := s.load(id)
	if err != nil {
		return nil, err
	}

	if dto.Permissions != nil {
		p.Permissions = *dto.Permissions
	}
	if dto.AssignedScope != nil {
		p.AssignedScope = *dto.AssignedScope
	}
	if dto.IsActive != nil {
		p.IsActive = *dto.IsActive
		p.User.IsActive = *dto.IsActive
	}
	if dto.Email != nil {
		p.User.Email = *dto.Email
	}
	if dto.FirstName != nil {
		p.User.FirstName = *dto.FirstName
	}
	if dto.LastName != nil {
		p.User.LastName = *dto.LastName
	}

	if err := s.repo.Save(p); err != nil {
		s.logger.Error("failed to update sub admin", "error", err, "profile_id", id)
		return nil, internal.NewInternalError("failed to update sub admin", err)
	}
	return FromDataModel(p), nil
}

// Deactivate is the delete operation: the profile row stays, the profile
// and its account are switched off.
func (s *Service) Deactivate(actor *coreUser.Actor, id int64) error {
	if !actor.IsSuperAdmin() {
		return errSuperAdminRequired
	}
	p, err := s.load(id)
	if err != nil {
		return err
	}

	p.IsActive = false
	p.User.IsActive = false
	if err := s.repo.Save(p); err != nil {
		s.logger.Error("failed to deactivate sub admin", "error", err, "profile_id", id)
		return internal.NewInternalError("failed to deactivate sub admin", err)
	}
	s.logger.Info("sub admin deactivated", "profile_id", id, "actor_id", actor.ID)
	return nil
}

func (s *Service) load(id int64) (*subadminDatamodel.SubAdminProfile, error) {
	p, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get sub admin", "error", err, "profile_id", id)
		return nil, internal.NewInternalError("failed to get sub admin", err)
	}
	if p == nil || p.User == nil {
		return nil, internal.ErrSubAdminNotFound
	}
	return p, nil
}
