package user_test

import (
	"log/slog"
	"os"
	"testing"

	"github.com/frahmantamala/geofence-security/internal"
	orgDatamodel "github.com/frahmantamala/geofence-security/internal/core/datamodel/organization"
	userDatamodel "github.com/frahmantamala/geofence-security/internal/core/datamodel/user"
	coreUser "github.com/frahmantamala/geofence-security/internal/core/user"
	"github.com/frahmantamala/geofence-security/internal/testutil"
	"github.com/frahmantamala/geofence-security/internal/user"
	userPostgres "github.com/frahmantamala/geofence-security/internal/user/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func TestUser(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "User Suite")
}

var _ = Describe("User Service", func() {
	var (
		db      *gorm.DB
		service *user.Service
	)

	validDTO := func() user.RegisterDTO {
		return user.RegisterDTO{
			Username:        "guard.lee",
			Email:           "lee@example.com",
			Password:        "Harbor-Lights-42",
			PasswordConfirm: "Harbor-Lights-42",
		}
	}

	countUsers := func() int64 {
		var n int64
		Expect(db.Model(&userDatamodel.User{}).Count(&n).Error).NotTo(HaveOccurred())
		return n
	}

	BeforeEach(func() {
		var err error
		db, err = testutil.NewTestDB()
		Expect(err).NotTo(HaveOccurred())

		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = user.NewService(userPostgres.NewUserRepository(db), bcrypt.MinCost, logger)
	})

	Describe("Register", func() {
		It("creates a USER by default with a hashed password", func() {
			u, err := service.Register(validDTO())
			Expect(err).NotTo(HaveOccurred())
			Expect(u.Role).To(Equal(coreUser.RoleUser))
			Expect(u.RoleDisplay).To(Equal("User"))
			Expect(u.IsActive).To(BeTrue())

			var stored userDatamodel.User
			Expect(db.First(&stored, u.ID).Error).NotTo(HaveOccurred())
			Expect(stored.PasswordHash).NotTo(Equal("Harbor-Lights-42"))
			Expect(bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("Harbor-Lights-42"))).To(Succeed())
		})

		It("rejects mismatched passwords without persisting", func() {
			dto := validDTO()
			dto.PasswordConfirm = "Harbor-Lights-43"

			_, err := service.Register(dto)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.HasFieldError(internal.NonFieldErrors)).To(BeTrue())
			Expect(countUsers()).To(BeZero())
		})

		It("rejects weak passwords", func() {
			dto := validDTO()
			dto.Password, dto.PasswordConfirm = "12345678", "12345678"

			_, err := service.Register(dto)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.HasFieldError("password")).To(BeTrue())
		})

		It("rejects an unknown role", func() {
			dto := validDTO()
			dto.Role = "OWNER"

			_, err := service.Register(dto)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.HasFieldError("role")).To(BeTrue())
		})

		It("rejects a taken username", func() {
			_, err := service.Register(validDTO())
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Register(validDTO())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.HasFieldError("username")).To(BeTrue())
			Expect(countUsers()).To(Equal(int64(1)))
		})
	})

	Describe("GetCurrent and List", func() {
		var orgA, orgB *orgDatamodel.Organization

		BeforeEach(func() {
			orgA = &orgDatamodel.Organization{Name: "Harbor"}
			orgB = &orgDatamodel.Organization{Name: "Airport"}
			Expect(db.Create(orgA).Error).NotTo(HaveOccurred())
			Expect(db.Create(orgB).Error).NotTo(HaveOccurred())

			for i, orgID := range []int64{orgA.ID, orgA.ID, orgB.ID} {
				id := orgID
				u := user.NewUser([]string{"ana", "ben", "cid"}[i], "", "x", coreUser.RoleUser)
				u.OrganizationID = &id
				Expect(db.Create(u).Error).NotTo(HaveOccurred())
			}
		})

		It("returns the actor's own profile with organization name", func() {
			var ana userDatamodel.User
			Expect(db.Where("username = ?", "ana").First(&ana).Error).NotTo(HaveOccurred())

			u, err := service.GetCurrent(testutil.Member(ana.ID, orgA.ID))
			Expect(err).NotTo(HaveOccurred())
			Expect(u.Username).To(Equal("ana"))
			Expect(u.OrganizationName).NotTo(BeNil())
			Expect(*u.OrganizationName).To(Equal("Harbor"))
		})

		It("limits sub admins to their organization", func() {
			users, total, err := service.List(testutil.SubAdmin(99, orgA.ID), user.ListFilter{}, 20, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(2)))
			Expect(users).To(HaveLen(2))
		})

		It("lets super admins see everyone and filter by search", func() {
			_, total, err := service.List(testutil.SuperAdmin(1), user.ListFilter{}, 20, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(3)))

			users, total, err := service.List(testutil.SuperAdmin(1), user.ListFilter{Search: "ci"}, 20, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(1)))
			Expect(users[0].Username).To(Equal("cid"))
		})

		It("keeps users when their organization is deleted", func() {
			Expect(db.Delete(&orgDatamodel.Organization{}, orgB.ID).Error).NotTo(HaveOccurred())

			var cid userDatamodel.User
			Expect(db.Where("username = ?", "cid").First(&cid).Error).NotTo(HaveOccurred())
			Expect(cid.OrganizationID).To(BeNil())
		})
	})
})
