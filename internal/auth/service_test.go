package auth

import (
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/frahmantamala/geofence-security/internal"
	userDatamodel "github.com/frahmantamala/geofence-security/internal/core/datamodel/user"
	coreUser "github.com/frahmantamala/geofence-security/internal/core/user"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

func TestAuth(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Auth Module Suite")
}

// Mock repository keyed by username
type mockAuthRepository struct {
	users         map[string]*userDatamodel.User
	permissions   map[int64]string
	lastLogins    map[int64]time.Time
	returnError   bool
	errorToReturn error
}

func newMockAuthRepository() *mockAuthRepository {
	hash, _ := bcrypt.GenerateFromPassword([]byte("correct_password"), bcrypt.MinCost)
	orgID := int64(10)

	return &mockAuthRepository{
		users: map[string]*userDatamodel.User{
			"root":     {ID: 1, Username: "root", PasswordHash: string(hash), Role: string(coreUser.RoleSuperAdmin), IsActive: true},
			"warden":   {ID: 2, Username: "warden", PasswordHash: string(hash), Role: string(coreUser.RoleSubAdmin), OrganizationID: &orgID, IsActive: true},
			"disabled": {ID: 3, Username: "disabled", PasswordHash: string(hash), Role: string(coreUser.RoleUser), IsActive: false},
		},
		permissions: map[int64]string{2: PermissionReadOnly},
		lastLogins:  map[int64]time.Time{},
	}
}

func (m *mockAuthRepository) GetByUsername(username string) (*userDatamodel.User, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	return m.users[username], nil
}

func (m *mockAuthRepository) GetByID(id int64) (*userDatamodel.User, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (m *mockAuthRepository) UpdateLastLogin(id int64, at time.Time) error {
	m.lastLogins[id] = at
	return nil
}

func (m *mockAuthRepository) GetSubAdminPermission(userID int64) (string, error) {
	return m.permissions[userID], nil
}

func (m *mockAuthRepository) setError(err error) {
	m.returnError = true
	m.errorToReturn = err
}

var _ = ginkgo.Describe("AuthService", func() {
	var (
		service  *Service
		mockRepo *mockAuthRepository
		tokenGen *JWTTokenGenerator
	)

	ginkgo.BeforeEach(func() {
		mockRepo = newMockAuthRepository()
		tokenGen = NewJWTTokenGenerator("test-access-secret", "test-refresh-secret", 15*time.Minute, time.Hour)
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = NewService(mockRepo, tokenGen, logger)
	})

	ginkgo.Describe("Authenticate", func() {
		ginkgo.It("should issue tokens and record the login", func() {
			result, err := service.Authenticate(LoginDTO{Username: "root", Password: "correct_password"})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(result.AccessToken).ToNot(gomega.BeEmpty())
			gomega.Expect(result.RefreshToken).ToNot(gomega.Equal(result.AccessToken))
			gomega.Expect(result.User.Username).To(gomega.Equal("root"))
			gomega.Expect(result.User.RoleDisplay).To(gomega.Equal("Super Admin"))
			gomega.Expect(result.User.LastLogin).ToNot(gomega.BeNil())
			gomega.Expect(mockRepo.lastLogins).To(gomega.HaveKey(int64(1)))
		})

		ginkgo.It("should require both username and password", func() {
			_, err := service.Authenticate(LoginDTO{Username: "root"})

			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.HasFieldError(internal.NonFieldErrors)).To(gomega.BeTrue())
			gomega.Expect(appErr.FieldErrors()[0].Message).To(gomega.Equal("Must include username and password."))
		})

		ginkgo.It("should reject a wrong password", func() {
			_, err := service.Authenticate(LoginDTO{Username: "root", Password: "nope"})

			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.FieldErrors()[0].Message).To(gomega.Equal("Invalid credentials."))
		})

		ginkgo.It("should reject an unknown user the same way", func() {
			_, err := service.Authenticate(LoginDTO{Username: "ghost", Password: "correct_password"})

			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.FieldErrors()[0].Message).To(gomega.Equal("Invalid credentials."))
		})

		ginkgo.It("should reject a disabled account", func() {
			_, err := service.Authenticate(LoginDTO{Username: "disabled", Password: "correct_password"})

			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.FieldErrors()[0].Message).To(gomega.Equal("User account is disabled."))
			gomega.Expect(mockRepo.lastLogins).ToNot(gomega.HaveKey(int64(3)))
		})

		ginkgo.It("should wrap repository failures", func() {
			mockRepo.setError(errors.New("connection refused"))

			_, err := service.Authenticate(LoginDTO{Username: "root", Password: "correct_password"})

			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.StatusCode).To(gomega.Equal(500))
		})
	})

	ginkgo.Describe("Tokens", func() {
		ginkgo.It("should not accept a refresh token as an access token", func() {
			refresh, err := tokenGen.GenerateRefreshToken("1", "root")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.ValidateAccessToken(refresh)
			gomega.Expect(err).To(gomega.Equal(internal.ErrInvalidToken))
		})

		ginkgo.It("should report expired tokens", func() {
			expired := NewJWTTokenGenerator("test-access-secret", "test-refresh-secret", time.Nanosecond, time.Hour)
			token, err := expired.GenerateAccessToken("1", "root")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			time.Sleep(1100 * time.Millisecond)

			_, err = tokenGen.ValidateAccessToken(token)
			gomega.Expect(err).To(gomega.Equal(internal.ErrTokenExpired))
		})

		ginkgo.It("should refresh a token pair", func() {
			refresh, _ := tokenGen.GenerateRefreshToken("2", "warden")

			tokens, err := service.RefreshTokens(refresh)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			claims, err := tokenGen.ValidateAccessToken(tokens.AccessToken)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(claims.Username).To(gomega.Equal("warden"))
		})

		ginkgo.It("should refuse to refresh for a disabled user", func() {
			refresh, _ := tokenGen.GenerateRefreshToken("3", "disabled")

			_, err := service.RefreshTokens(refresh)
			gomega.Expect(err).To(gomega.HaveOccurred())
		})
	})

	ginkgo.Describe("ActorFromClaims", func() {
		ginkgo.It("should load the sub admin permission level", func() {
			actor, err := service.ActorFromClaims(&Claims{UserID: "2"})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(actor.Role).To(gomega.Equal(coreUser.RoleSubAdmin))
			gomega.Expect(*actor.OrganizationID).To(gomega.Equal(int64(10)))
			gomega.Expect(actor.Permission).To(gomega.Equal(PermissionReadOnly))
		})

		ginkgo.It("should reject tokens for deleted users", func() {
			_, err := service.ActorFromClaims(&Claims{UserID: "99"})
			gomega.Expect(err).To(gomega.Equal(internal.ErrInvalidToken))
		})
	})
})

var _ = ginkgo.Describe("PermissionChecker", func() {
	var checker PermissionChecker
	orgID := int64(1)

	ginkgo.BeforeEach(func() {
		checker = NewPermissionChecker()
	})

	ginkgo.It("should limit read only sub admins to safe methods", func() {
		actor := &coreUser.Actor{ID: 1, Role: coreUser.RoleSubAdmin, OrganizationID: &orgID, Permission: PermissionReadOnly}
		gomega.Expect(checker.Allows(actor, "GET")).To(gomega.BeTrue())
		gomega.Expect(checker.Allows(actor, "POST")).To(gomega.BeFalse())
		gomega.Expect(checker.Allows(actor, "DELETE")).To(gomega.BeFalse())
	})

	ginkgo.It("should reserve deletes for full access", func() {
		actor := &coreUser.Actor{ID: 1, Role: coreUser.RoleSubAdmin, OrganizationID: &orgID, Permission: PermissionReadWrite}
		gomega.Expect(checker.Allows(actor, "PATCH")).To(gomega.BeTrue())
		gomega.Expect(checker.Allows(actor, "DELETE")).To(gomega.BeFalse())

		actor.Permission = PermissionFullAccess
		gomega.Expect(checker.Allows(actor, "DELETE")).To(gomega.BeTrue())
	})

	ginkgo.It("should not restrict other roles or sub admins without a profile", func() {
		gomega.Expect(checker.Allows(&coreUser.Actor{ID: 1, Role: coreUser.RoleSuperAdmin}, "DELETE")).To(gomega.BeTrue())
		gomega.Expect(checker.Allows(&coreUser.Actor{ID: 2, Role: coreUser.RoleSubAdmin, OrganizationID: &orgID}, "DELETE")).To(gomega.BeTrue())
	})

	ginkgo.It("should deny a missing actor", func() {
		gomega.Expect(checker.Allows(nil, "GET")).To(gomega.BeFalse())
	})
})
