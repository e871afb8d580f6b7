package subadmin_test

import (
	"log/slog"
	"os"
	"testing"

	"github.com/frahmantamala/geofence-security/internal"
	orgDatamodel "github.com/frahmantamala/geofence-security/internal/core/datamodel/organization"
	subadminDatamodel "github.com/frahmantamala/geofence-security/internal/core/datamodel/subadmin"
	userDatamodel "github.com/frahmantamala/geofence-security/internal/core/datamodel/user"
	coreUser "github.com/frahmantamala/geofence-security/internal/core/user"
	"github.com/frahmantamala/geofence-security/internal/subadmin"
	subadminPostgres "github.com/frahmantamala/geofence-security/internal/subadmin/postgres"
	"github.com/frahmantamala/geofence-security/internal/testutil"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func TestSubAdmin(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "SubAdmin Suite")
}

var _ = Describe("SubAdmin Service", func() {
	var (
		db      *gorm.DB
		service *subadmin.Service
		root    *coreUser.Actor
		org     *orgDatamodel.Organization
	)

	newDTO := func(username string) subadmin.CreateSubAdminDTO {
		return subadmin.CreateSubAdminDTO{
			Username:        username,
			Email:           username + "@example.com",
			Password:        "gatekeeper",
			PasswordConfirm: "gatekeeper",
			FirstName:       "Sam",
			OrganizationID:  &org.ID,
			Permissions:     "READ_WRITE",
		}
	}

	BeforeEach(func() {
		var err error
		db, err = testutil.NewTestDB()
		Expect(err).NotTo(HaveOccurred())

		rootRow := &userDatamodel.User{Username: "root", PasswordHash: "x", Role: string(coreUser.RoleSuperAdmin), IsActive: true}
		Expect(db.Create(rootRow).Error).NotTo(HaveOccurred())
		root = testutil.SuperAdmin(rootRow.ID)

		org = &orgDatamodel.Organization{Name: "Harbor"}
		Expect(db.Create(org).Error).NotTo(HaveOccurred())

		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = subadmin.NewService(subadminPostgres.NewSubAdminRepository(db), bcrypt.MinCost, logger)
	})

	Describe("Create", func() {
		It("always creates a SUB_ADMIN account created by the actor", func() {
			sa, err := service.Create(root, newDTO("warden"))
			Expect(err).NotTo(HaveOccurred())
			Expect(sa.UserUsername).To(Equal("warden"))
			Expect(sa.UserFullName).To(Equal("Sam"))
			Expect(sa.Permissions).To(Equal(subadmin.PermissionReadWrite))
			Expect(sa.PermissionsDisplay).To(Equal("Read & Write"))
			Expect(sa.AssignedScope).To(Equal(subadmin.ScopeLocal))
			Expect(sa.IsActive).To(BeTrue())
			Expect(sa.CreatedByUsername).To(HaveValue(Equal("root")))

			var u userDatamodel.User
			Expect(db.First(&u, sa.UserID).Error).NotTo(HaveOccurred())
			Expect(u.Role).To(Equal(string(coreUser.RoleSubAdmin)))
			Expect(u.OrganizationID).To(HaveValue(Equal(org.ID)))
		})

		It("rejects mismatched passwords and persists nothing", func() {
			dto := newDTO("warden")
			dto.PasswordConfirm = "different1"

			_, err := service.Create(root, dto)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.HasFieldError(internal.NonFieldErrors)).To(BeTrue())

			var n int64
			db.Model(&subadminDatamodel.SubAdminProfile{}).Count(&n)
			Expect(n).To(BeZero())
			db.Model(&userDatamodel.User{}).Where("username = ?", "warden").Count(&n)
			Expect(n).To(BeZero())
		})

		It("requires a super admin", func() {
			_, err := service.Create(testutil.SubAdmin(5, org.ID), newDTO("warden"))
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(403))
		})

		It("rejects an unknown organization", func() {
			dto := newDTO("warden")
			missing := int64(999)
			dto.OrganizationID = &missing

			_, err := service.Create(root, dto)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.HasFieldError("organization")).To(BeTrue())
		})
	})

	Describe("List", func() {
		BeforeEach(func() {
			for _, name := range []string{"alpha", "bravo", "charlie"} {
				_, err := service.Create(root, newDTO(name))
				Expect(err).NotTo(HaveOccurred())
			}
		})

		It("orders and paginates", func() {
			items, total, err := service.List(root, subadmin.ListFilter{Ordering: "user__username"}, 2, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(3)))
			Expect(items).To(HaveLen(2))
			Expect(items[0].UserUsername).To(Equal("alpha"))
			Expect(items[1].UserUsername).To(Equal("bravo"))
		})

		It("filters by search and active flag", func() {
			items, total, err := service.List(root, subadmin.ListFilter{Search: "char"}, 20, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(1)))
			Expect(items[0].UserUsername).To(Equal("charlie"))

			inactive := false
			_, total, err = service.List(root, subadmin.ListFilter{IsActive: &inactive}, 20, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(BeZero())
		})
	})

	Describe("Update and Deactivate", func() {
		var created *subadmin.SubAdmin

		BeforeEach(func() {
			var err error
			created, err = service.Create(root, newDTO("warden"))
			Expect(err).NotTo(HaveOccurred())
		})

		It("updates profile and account fields together", func() {
			perm := "FULL_ACCESS"
			email := "new@example.com"
			sa, err := service.Update(root, created.ID, subadmin.UpdateSubAdminDTO{Permissions: &perm, Email: &email})
			Expect(err).NotTo(HaveOccurred())
			Expect(sa.Permissions).To(Equal(subadmin.PermissionFullAccess))
			Expect(sa.UserEmail).To(Equal("new@example.com"))
		})

		It("rejects an invalid permission level", func() {
			perm := "ROOT"
			_, err := service.Update(root, created.ID, subadmin.UpdateSubAdminDTO{Permissions: &perm})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.HasFieldError("permissions")).To(BeTrue())
		})

		It("keeps the row but switches off profile and account", func() {
			Expect(service.Deactivate(root, created.ID)).To(Succeed())

			sa, err := service.GetByID(root, created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(sa.IsActive).To(BeFalse())

			var u userDatamodel.User
			Expect(db.First(&u, sa.UserID).Error).NotTo(HaveOccurred())
			Expect(u.IsActive).To(BeFalse())
		})

		It("returns not found for unknown ids", func() {
			Expect(service.Deactivate(root, 12345)).To(Equal(internal.ErrSubAdminNotFound))
		})
	})
})
