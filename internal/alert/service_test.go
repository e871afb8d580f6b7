package alert_test

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/frahmantamala/geofence-security/internal"
	"github.com/frahmantamala/geofence-security/internal/alert"
	alertPostgres "github.com/frahmantamala/geofence-security/internal/alert/postgres"
	alertDatamodel "github.com/frahmantamala/geofence-security/internal/core/datamodel/alert"
	geofenceDatamodel "github.com/frahmantamala/geofence-security/internal/core/datamodel/geofence"
	orgDatamodel "github.com/frahmantamala/geofence-security/internal/core/datamodel/organization"
	userDatamodel "github.com/frahmantamala/geofence-security/internal/core/datamodel/user"
	"github.com/frahmantamala/geofence-security/internal/core/events"
	coreUser "github.com/frahmantamala/geofence-security/internal/core/user"
	"github.com/frahmantamala/geofence-security/internal/testutil"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func TestAlert(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Alert Suite")
}

var _ = Describe("Alert Service", func() {
	var (
		db       *gorm.DB
		service  *alert.Service
		bus      *events.EventBus
		member   *coreUser.Actor
		memberID int64
		gate     *geofenceDatamodel.Geofence
		orgA     *orgDatamodel.Organization
		orgB     *orgDatamodel.Organization
	)

	BeforeEach(func() {
		var err error
		db, err = testutil.NewTestDB()
		Expect(err).NotTo(HaveOccurred())

		orgA = &orgDatamodel.Organization{Name: "Harbor"}
		orgB = &orgDatamodel.Organization{Name: "Airport"}
		Expect(db.Create(orgA).Error).NotTo(HaveOccurred())
		Expect(db.Create(orgB).Error).NotTo(HaveOccurred())

		u := &userDatamodel.User{Username: "alice", PasswordHash: "x", Role: string(coreUser.RoleUser), OrganizationID: &orgA.ID, IsActive: true}
		Expect(db.Create(u).Error).NotTo(HaveOccurred())
		memberID = u.ID
		member = testutil.Member(u.ID, orgA.ID)

		gate = &geofenceDatamodel.Geofence{Name: "Gate A", PolygonJSON: datatypes.JSON(`{}`), Active: true, OrganizationID: orgA.ID}
		Expect(db.Create(gate).Error).NotTo(HaveOccurred())

		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		bus = events.NewEventBus(logger)
		service = alert.NewService(alertPostgres.NewAlertRepository(db), bus, logger)
	})

	It("creates alerts with defaults", func() {
		a, err := service.Create(member, alert.CreateAlertDTO{GeofenceID: &gate.ID, UserID: &memberID, Title: "Entered"})
		Expect(err).NotTo(HaveOccurred())
		Expect(a.AlertType).To(Equal(alert.TypeGeofenceEnter))
		Expect(a.AlertTypeDisplay).To(Equal("Geofence Enter"))
		Expect(a.GeofenceName).To(HaveValue(Equal("Gate A")))
		Expect(a.UserUsername).To(HaveValue(Equal("alice")))
		Expect(string(a.Metadata)).To(Equal(`{}`))
	})

	It("accepts alerts with neither geofence nor user", func() {
		a, err := service.Create(testutil.SuperAdmin(1), alert.CreateAlertDTO{AlertType: "SYSTEM_ERROR", Severity: "CRITICAL", Title: "Disk full"})
		Expect(err).NotTo(HaveOccurred())
		Expect(a.GeofenceID).To(BeNil())
		Expect(a.SeverityDisplay).To(Equal("Critical"))
	})

	It("rejects invalid choices", func() {
		_, err := service.Create(member, alert.CreateAlertDTO{AlertType: "FIRE", Severity: "EXTREME", Title: "x"})
		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.HasFieldError("alert_type")).To(BeTrue())
		Expect(appErr.HasFieldError("severity")).To(BeTrue())
	})

	It("resolves and publishes an event", func() {
		received := make(chan events.Event, 1)
		bus.Subscribe(events.EventTypeAlertResolved, func(ctx context.Context, e events.Event) error {
			received <- e
			return nil
		})

		a, err := service.Create(member, alert.CreateAlertDTO{GeofenceID: &gate.ID, Title: "Exit"})
		Expect(err).NotTo(HaveOccurred())

		resolved, err := service.Resolve(context.Background(), member, a.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(resolved.IsResolved).To(BeTrue())
		Expect(resolved.ResolvedAt).NotTo(BeNil())
		Expect(resolved.ResolvedByUsername).To(HaveValue(Equal("alice")))

		var e events.Event
		Eventually(received).Should(Receive(&e))
		Expect(e.(*events.AlertResolvedEvent).AlertID).To(Equal(a.ID))
	})

	It("scopes through geofence or user organization", func() {
		_, err := service.Create(member, alert.CreateAlertDTO{GeofenceID: &gate.ID, Title: "By geofence"})
		Expect(err).NotTo(HaveOccurred())
		_, err = service.Create(member, alert.CreateAlertDTO{UserID: &memberID, Title: "By user"})
		Expect(err).NotTo(HaveOccurred())
		orphan := &alertDatamodel.Alert{AlertType: "SYSTEM_ERROR", Severity: "LOW", Title: "Orphan"}
		Expect(db.Create(orphan).Error).NotTo(HaveOccurred())

		_, total, err := service.List(member, alert.ListFilter{}, 20, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(total).To(Equal(int64(2)))

		_, total, err = service.List(testutil.Member(99, orgB.ID), alert.ListFilter{}, 20, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(total).To(BeZero())

		_, err = service.GetByID(member, orphan.ID)
		Expect(err).To(Equal(internal.ErrAlertNotFound))
	})

	It("is removed with its user", func() {
		_, err := service.Create(member, alert.CreateAlertDTO{UserID: &memberID, Title: "By user"})
		Expect(err).NotTo(HaveOccurred())

		Expect(db.Delete(&userDatamodel.User{}, memberID).Error).NotTo(HaveOccurred())

		var n int64
		db.Model(&alertDatamodel.Alert{}).Count(&n)
		Expect(n).To(BeZero())
	})
})
