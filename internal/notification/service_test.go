package notification_test

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/frahmantamala/geofence-security/internal"
	geofenceDatamodel "github.com/frahmantamala/geofence-security/internal/core/datamodel/geofence"
	notificationDatamodel "github.com/frahmantamala/geofence-security/internal/core/datamodel/notification"
	officerDatamodel "github.com/frahmantamala/geofence-security/internal/core/datamodel/officer"
	orgDatamodel "github.com/frahmantamala/geofence-security/internal/core/datamodel/organization"
	userDatamodel "github.com/frahmantamala/geofence-security/internal/core/datamodel/user"
	"github.com/frahmantamala/geofence-security/internal/core/events"
	coreUser "github.com/frahmantamala/geofence-security/internal/core/user"
	"github.com/frahmantamala/geofence-security/internal/notification"
	notificationPostgres "github.com/frahmantamala/geofence-security/internal/notification/postgres"
	"github.com/frahmantamala/geofence-security/internal/testutil"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func TestNotification(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Notification Suite")
}

var _ = Describe("Notification Service", func() {
	var (
		db        *gorm.DB
		bus       *events.EventBus
		service   *notification.Service
		subAdmin  *coreUser.Actor
		orgA      *orgDatamodel.Organization
		orgB      *orgDatamodel.Organization
		gateA     *geofenceDatamodel.Geofence
		gateB     *geofenceDatamodel.Geofence
		kim, lee  *officerDatamodel.SecurityOfficer
		foreigner *officerDatamodel.SecurityOfficer
	)

	BeforeEach(func() {
		var err error
		db, err = testutil.NewTestDB()
		Expect(err).NotTo(HaveOccurred())

		orgA = &orgDatamodel.Organization{Name: "Harbor"}
		orgB = &orgDatamodel.Organization{Name: "Airport"}
		Expect(db.Create(orgA).Error).NotTo(HaveOccurred())
		Expect(db.Create(orgB).Error).NotTo(HaveOccurred())

		u := &userDatamodel.User{Username: "warden", PasswordHash: "x", Role: string(coreUser.RoleSubAdmin), OrganizationID: &orgA.ID, IsActive: true}
		Expect(db.Create(u).Error).NotTo(HaveOccurred())
		subAdmin = testutil.SubAdmin(u.ID, orgA.ID)

		gateA = &geofenceDatamodel.Geofence{Name: "Gate A", PolygonJSON: datatypes.JSON(`{}`), Active: true, OrganizationID: orgA.ID}
		gateB = &geofenceDatamodel.Geofence{Name: "Gate B", PolygonJSON: datatypes.JSON(`{}`), Active: true, OrganizationID: orgB.ID}
		Expect(db.Create(gateA).Error).NotTo(HaveOccurred())
		Expect(db.Create(gateB).Error).NotTo(HaveOccurred())

		kim = &officerDatamodel.SecurityOfficer{Name: "Kim", Contact: "555-0101", IsActive: true, OrganizationID: orgA.ID}
		lee = &officerDatamodel.SecurityOfficer{Name: "Lee", Contact: "555-0102", IsActive: true, OrganizationID: orgA.ID}
		foreigner = &officerDatamodel.SecurityOfficer{Name: "Ana", Contact: "555-0201", IsActive: true, OrganizationID: orgB.ID}
		Expect(db.Create(kim).Error).NotTo(HaveOccurred())
		Expect(db.Create(lee).Error).NotTo(HaveOccurred())
		Expect(db.Create(foreigner).Error).NotTo(HaveOccurred())

		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		bus = events.NewEventBus(logger)
		service = notification.NewService(notificationPostgres.NewNotificationRepository(db), bus, logger)
	})

	Describe("Create", func() {
		It("forces organization and creator and applies defaults", func() {
			n, err := service.Create(subAdmin, notification.CreateNotificationDTO{
				Title:            "Shift change",
				Message:          "Report to gate A",
				TargetOfficerIDs: []int64{kim.ID, lee.ID},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(n.NotificationType).To(Equal(notification.TypeNormal))
			Expect(n.TargetType).To(Equal(notification.TargetAllOfficers))
			Expect(n.OrganizationID).To(Equal(orgA.ID))
			Expect(n.OrganizationName).To(Equal("Harbor"))
			Expect(n.CreatedByUsername).To(Equal("warden"))
			Expect(n.IsSent).To(BeFalse())
			Expect(n.TargetOfficersNames).To(ConsistOf("Kim (Harbor)", "Lee (Harbor)"))
		})

		It("is reserved to sub admins", func() {
			_, err := service.Create(testutil.SuperAdmin(1), notification.CreateNotificationDTO{Title: "x", Message: "y"})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeForbidden))
		})

		It("labels the sub admin target", func() {
			n, err := service.Create(subAdmin, notification.CreateNotificationDTO{Title: "x", Message: "y", TargetType: "SUB_ADMIN"})
			Expect(err).NotTo(HaveOccurred())
			Expect(n.TargetTypeDisplay).To(Equal("Sub Admin Only"))
		})
	})

	Describe("Send", func() {
		send := func(dto notification.SendNotificationDTO) (*notification.Notification, error) {
			return service.Send(context.Background(), subAdmin, dto)
		}
		base := func() notification.SendNotificationDTO {
			return notification.SendNotificationDTO{
				NotificationType: "EMERGENCY",
				Title:            "Breach",
				Message:          "North fence cut",
				TargetType:       "SPECIFIC_OFFICERS",
			}
		}

		It("creates a sent notification and publishes it", func() {
			received := make(chan events.Event, 1)
			bus.Subscribe(events.EventTypeNotificationSent, func(ctx context.Context, e events.Event) error {
				received <- e
				return nil
			})

			dto := base()
			dto.TargetGeofenceID = &gateA.ID
			dto.TargetOfficerIDs = []int64{kim.ID}
			n, err := send(dto)
			Expect(err).NotTo(HaveOccurred())
			Expect(n.IsSent).To(BeTrue())
			Expect(n.SentAt).NotTo(BeNil())
			Expect(n.TargetGeofenceName).To(HaveValue(Equal("Gate A")))
			Expect(n.TargetOfficerIDs).To(Equal([]int64{kim.ID}))

			var e events.Event
			Eventually(received).Should(Receive(&e))
			sent := e.(*events.NotificationSentEvent)
			Expect(sent.NotificationID).To(Equal(n.ID))
			Expect(sent.OrganizationID).To(Equal(orgA.ID))
			Expect(sent.TargetOfficerIDs).To(Equal([]int64{kim.ID}))
		})

		It("reports an unknown geofence", func() {
			dto := base()
			missing := int64(9999)
			dto.TargetGeofenceID = &missing
			_, err := send(dto)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.FieldErrors()).To(ConsistOf(internal.ValidationError{
				Field: "target_geofence_id", Message: "Geofence not found.", Code: string(internal.ErrCodeGeofenceNotFound),
			}))
		})

		It("reports a geofence from another organization", func() {
			dto := base()
			dto.TargetGeofenceID = &gateB.ID
			_, err := send(dto)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.GetDetailedMessage()).To(Equal("Geofence does not belong to your organization."))
		})

		It("rejects the whole list when one officer is foreign", func() {
			dto := base()
			dto.TargetOfficerIDs = []int64{kim.ID, lee.ID, foreigner.ID}
			_, err := send(dto)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.HasFieldError("target_officer_ids")).To(BeTrue())
			Expect(appErr.GetDetailedMessage()).To(Equal("Some officers do not belong to your organization."))

			var n int64
			db.Model(&notificationDatamodel.Notification{}).Count(&n)
			Expect(n).To(BeZero())
		})

		It("requires both choices", func() {
			_, err := send(notification.SendNotificationDTO{Title: "x", Message: "y"})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.HasFieldError("notification_type")).To(BeTrue())
			Expect(appErr.HasFieldError("target_type")).To(BeTrue())
		})
	})

	Describe("MarkSent", func() {
		It("overwrites sent_at on repeat", func() {
			n, err := service.Create(subAdmin, notification.CreateNotificationDTO{Title: "x", Message: "y"})
			Expect(err).NotTo(HaveOccurred())

			first, err := service.MarkSent(context.Background(), subAdmin, n.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(first.IsSent).To(BeTrue())

			second, err := service.MarkSent(context.Background(), subAdmin, n.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(second.SentAt.Before(*first.SentAt)).To(BeFalse())
		})
	})

	Describe("Update", func() {
		It("replaces target officers", func() {
			n, err := service.Create(subAdmin, notification.CreateNotificationDTO{Title: "x", Message: "y", TargetOfficerIDs: []int64{kim.ID}})
			Expect(err).NotTo(HaveOccurred())

			ids := []int64{lee.ID}
			updated, err := service.Update(subAdmin, n.ID, notification.UpdateNotificationDTO{TargetOfficerIDs: &ids})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.TargetOfficerIDs).To(Equal([]int64{lee.ID}))
		})
	})

	It("hides other organizations' notifications", func() {
		n, err := service.Create(subAdmin, notification.CreateNotificationDTO{Title: "x", Message: "y"})
		Expect(err).NotTo(HaveOccurred())

		_, err = service.GetByID(testutil.SubAdmin(99, orgB.ID), n.ID)
		Expect(err).To(Equal(internal.ErrNotificationNotFound))

		_, total, err := service.List(testutil.SubAdmin(99, orgB.ID), notification.ListFilter{}, 20, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(total).To(BeZero())
	})

	It("removes junction rows on delete", func() {
		n, err := service.Create(subAdmin, notification.CreateNotificationDTO{Title: "x", Message: "y", TargetOfficerIDs: []int64{kim.ID, lee.ID}})
		Expect(err).NotTo(HaveOccurred())

		Expect(service.Delete(subAdmin, n.ID)).To(Succeed())

		var rows int64
		db.Table(notificationDatamodel.TargetOfficersJoinTable).Count(&rows)
		Expect(rows).To(BeZero())
	})
})

var _ = Describe("Broadcaster", func() {
	It("names one channel per organization", func() {
		b := notification.NewBroadcaster(nil, "", slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError})))
		Expect(b.Channel(7)).To(Equal("geofence:notifications:7"))
	})

	It("logs instead of publishing without redis", func() {
		b := notification.NewBroadcaster(nil, "site", slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError})))
		event := events.NewNotificationSentEvent(1, 2, "NORMAL", "t", "m", "ALL_OFFICERS", nil, nil, time.Now())
		Expect(b.HandleNotificationSent(context.Background(), event)).To(Succeed())
		Expect(b.Channel(2)).To(Equal("site:2"))
	})

	It("rejects foreign events", func() {
		b := notification.NewBroadcaster(nil, "", slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError})))
		Expect(b.HandleNotificationSent(context.Background(), events.NewAlertResolvedEvent(1, 1))).NotTo(Succeed())
	})

	It("refuses to listen without redis", func() {
		b := notification.NewBroadcaster(nil, "", slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError})))
		Expect(b.Listen(context.Background(), func(string, events.NotificationSentEvent) {})).NotTo(Succeed())
	})
})
