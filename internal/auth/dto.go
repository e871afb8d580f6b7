package auth

import (
	"time"

	"github.com/frahmantamala/geofence-security/internal"
	coreUser "github.com/frahmantamala/geofence-security/internal/core/user"
)

// LoginDTO is the transport shape used by the HTTP handler to accept login requests.
type LoginDTO struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (d LoginDTO) Validate() *internal.AppError {
	if d.Username == "" || d.Password == "" {
		return internal.NewNonFieldError("Must include username and password.", internal.ErrCodeMissingCredentials)
	}
	return nil
}

type RefreshTokenDTO struct {
	RefreshToken string `json:"refresh_token"`
}

func (d RefreshTokenDTO) Validate() *internal.AppError {
	if d.RefreshToken == "" {
		return internal.NewValidationFieldError("refresh_token", "This field is required.", internal.ErrCodeRequired)
	}
	return nil
}

// AuthenticatedUser is the account resolved by a successful login.
type AuthenticatedUser struct {
	ID             int64         `json:"id"`
	Username       string        `json:"username"`
	Email          string        `json:"email"`
	Role           coreUser.Role `json:"role"`
	RoleDisplay    string        `json:"role_display"`
	OrganizationID *int64        `json:"organization"`
	IsActive       bool          `json:"is_active"`
	LastLogin      *time.Time    `json:"last_login"`
}

type LoginResult struct {
	AuthTokens
	User *AuthenticatedUser `json:"user"`
}
