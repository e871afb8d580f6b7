package auth

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/frahmantamala/geofence-security/internal"
	userDatamodel "github.com/frahmantamala/geofence-security/internal/core/datamodel/user"
	coreUser "github.com/frahmantamala/geofence-security/internal/core/user"
)

type RepositoryAPI interface {
	GetByUsername(username string) (*userDatamodel.User, error)
	GetByID(id int64) (*userDatamodel.User, error)
	UpdateLastLogin(id int64, at time.Time) error
	// GetSubAdminPermission returns the active profile level, or "" when the
	// user has no active sub-admin profile.
	GetSubAdminPermission(userID int64) (string, error)
}

type TokenGeneratorAPI interface {
	GenerateAccessToken(userID, username string) (string, error)
	GenerateRefreshToken(userID, username string) (string, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	ValidateRefreshToken(tokenString string) (*Claims, error)
}

type Service struct {
	repo           RepositoryAPI
	tokenGenerator TokenGeneratorAPI
	logger         *slog.Logger
}

func NewService(repo RepositoryAPI, tokenGen TokenGeneratorAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:           repo,
		tokenGenerator: tokenGen,
		logger:         logger,
	}
}

var (
	errInvalidCredentials = internal.NewNonFieldError("Invalid credentials.", internal.ErrCodeInvalidCredentials)
	errUserDisabled       = internal.NewNonFieldError("User account is disabled.", internal.ErrCodeUserInactive)
)

// Authenticate validates credentials, records the login and issues tokens.
func (s *Service) Authenticate(dto LoginDTO) (*LoginResult, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.GetByUsername(dto.Username)
	if err != nil {
		s.logger.Error("failed to load user for login", "error", err)
		return nil, internal.NewInternalError("failed to authenticate", err)
	}
	if u == nil || VerifyPassword(u.PasswordHash, dto.Password) != nil {
		s.logger.Warn("login rejected: invalid credentials", "username", dto.Username)
		return nil, errInvalidCredentials
	}
	if !u.IsActive {
		s.logger.Warn("login rejected: account disabled", "user_id", u.ID)
		return nil, errUserDisabled
	}

	now := time.Now()
	if err := s.repo.UpdateLastLogin(u.ID, now); err != nil {
		s.logger.Error("failed to record last login", "error", err, "user_id", u.ID)
		return nil, internal.NewInternalError("failed to authenticate", err)
	}
	u.LastLogin = &now

	tokens, err := s.issueTokens(u)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user logged in", "user_id", u.ID, "role", u.Role)
	return &LoginResult{
		AuthTokens: tokens,
		User: &AuthenticatedUser{
			ID:             u.ID,
			Username:       u.Username,
			Email:          u.Email,
			Role:           coreUser.Role(u.Role),
			RoleDisplay:    coreUser.Role(u.Role).Label(),
			OrganizationID: u.OrganizationID,
			IsActive:       u.IsActive,
			LastLogin:      u.LastLogin,
		},
	}, nil
}

// RefreshTokens validates refresh token and returns new tokens
func (s *Service) RefreshTokens(refreshToken string) (AuthTokens, error) {
	claims, err := s.tokenGenerator.ValidateRefreshToken(refreshToken)
	if err != nil {
		return AuthTokens{}, err
	}

	u, err := s.loadActiveUser(claims)
	if err != nil {
		return AuthTokens{}, err
	}
	return s.issueTokens(u)
}

func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokenGenerator.ValidateAccessToken(tokenString)
}

// ActorFromClaims reloads the token subject so role, organization and
// account state always reflect the database, not the token.
func (s *Service) ActorFromClaims(claims *Claims) (*coreUser.Actor, error) {
	u, err := s.loadActiveUser(claims)
	if err != nil {
		return nil, err
	}

	actor := &coreUser.Actor{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		Role:           coreUser.Role(u.Role),
		OrganizationID: u.OrganizationID,
	}
	if actor.IsSubAdmin() {
		perm, err := s.repo.GetSubAdminPermission(u.ID)
		if err != nil {
			return nil, internal.NewInternalError("failed to load sub admin profile", err)
		}
		actor.Permission = perm
	}
	return actor, nil
}

func (s *Service) loadActiveUser(claims *Claims) (*userDatamodel.User, error) {
	id, err := claims.UserIDInt()
	if err != nil {
		return nil, internal.ErrInvalidToken
	}
	u, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.NewInternalError("failed to load user", err)
	}
	if u == nil {
		return nil, internal.ErrInvalidToken
	}
	if !u.IsActive {
		return nil, internal.NewUnauthorizedError("User account is disabled.", internal.ErrCodeUserInactive)
	}
	return u, nil
}

func (s *Service) issueTokens(u *userDatamodel.User) (AuthTokens, error) {
	uid := strconv.FormatInt(u.ID, 10)
	accessToken, err := s.tokenGenerator.GenerateAccessToken(uid, u.Username)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to issue token", err)
	}
	refreshToken, err := s.tokenGenerator.GenerateRefreshToken(uid, u.Username)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to issue token", err)
	}
	return AuthTokens{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
