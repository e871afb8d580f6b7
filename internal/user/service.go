package user

import (
	"log/slog"

	"github.com/frahmantamala/geofence-security/internal"
	"github.com/frahmantamala/geofence-security/internal/auth"
	userDatamodel "github.com/frahmantamala/geofence-security/internal/core/datamodel/user"
	coreUser "github.com/frahmantamala/geofence-security/internal/core/user"
)

type RepositoryAPI interface {
	Create(u *userDatamodel.User) error
	GetByID(id int64) (*userDatamodel.User, error)
	UsernameExists(username string) (bool, error)
	List(orgID *int64, filter ListFilter, limit, offset int) ([]*userDatamodel.User, int64, error)
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

// Register creates an account. Nothing is persisted when validation fails.
func (s *Service) Register(dto RegisterDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.repo.UsernameExists(dto.Username)
	if err != nil {
		s.logger.Error("failed to check username", "error", err)
		return nil, internal.NewInternalError("failed to register user", err)
	}
	if exists {
		return nil, internal.NewValidationFieldError("username", "A user with that username already exists.", internal.ErrCodeUnique)
	}

	hash, err := auth.HashPassword(dto.Password, s.bcryptCost)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	u := NewUser(dto.Username, dto.Email, hash, dto.RoleOrDefault())
	u.FirstName = dto.FirstName
	u.LastName = dto.LastName
	if err := s.repo.Create(u); err != nil {
		s.logger.Error("failed to create user", "error", err, "username", dto.Username)
		return nil, internal.NewInternalError("failed to register user", err)
	}

	s.logger.Info("user registered", "user_id", u.ID, "role", u.Role)
	return FromDataModel(u), nil
}

func (s *Service) GetCurrent(actor *coreUser.Actor) (*User, error) {
	if actor == nil {
		return nil, internal.ErrInvalidToken
	}
	u, err := s.repo.GetByID(actor.ID)
	if err != nil {
		s.logger.Error("failed to get current user", "error", err, "user_id", actor.ID)
		return nil, internal.NewInternalError("failed to get user", err)
	}
	if u == nil {
		return nil, internal.ErrUserNotFound
	}
	return FromDataModel(u), nil
}

func (s *Service) List(actor *coreUser.Actor, filter ListFilter, limit, offset int) ([]*User, int64, error) {
	rows, total, err := s.repo.List(actor.ScopeOrganization(), filter, limit, offset)
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, 0, internal.NewInternalError("failed to list users", err)
	}

	users := make([]*User, 0, len(rows))
	for _, row := range rows {
		users = append(users, FromDataModel(row))
	}
	return users, total, nil
}
