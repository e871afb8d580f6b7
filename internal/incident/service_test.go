package incident_test

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/frahmantamala/geofence-security/internal"
	geofenceDatamodel "github.com/frahmantamala/geofence-security/internal/core/datamodel/geofence"
	officerDatamodel "github.com/frahmantamala/geofence-security/internal/core/datamodel/officer"
	orgDatamodel "github.com/frahmantamala/geofence-security/internal/core/datamodel/organization"
	userDatamodel "github.com/frahmantamala/geofence-security/internal/core/datamodel/user"
	"github.com/frahmantamala/geofence-security/internal/core/events"
	coreUser "github.com/frahmantamala/geofence-security/internal/core/user"
	"github.com/frahmantamala/geofence-security/internal/incident"
	incidentPostgres "github.com/frahmantamala/geofence-security/internal/incident/postgres"
	"github.com/frahmantamala/geofence-security/internal/testutil"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/datatypes"
)

func TestIncident(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Incident Suite")
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

var _ = Describe("Incident Service", func() {
	var (
		service         *incident.Service
		publisher       *recordingPublisher
		alice, bob      *coreUser.Actor
		gate, farGate   *geofenceDatamodel.Geofence
		guard, farGuard *officerDatamodel.SecurityOfficer
	)

	BeforeEach(func() {
		db, err := testutil.NewTestDB()
		Expect(err).NotTo(HaveOccurred())

		orgA := &orgDatamodel.Organization{Name: "Harbor"}
		orgB := &orgDatamodel.Organization{Name: "Airport"}
		Expect(db.Create(orgA).Error).NotTo(HaveOccurred())
		Expect(db.Create(orgB).Error).NotTo(HaveOccurred())

		for _, name := range []string{"alice", "bob"} {
			u := &userDatamodel.User{Username: name, PasswordHash: "x", Role: string(coreUser.RoleUser), OrganizationID: &orgA.ID, IsActive: true}
			Expect(db.Create(u).Error).NotTo(HaveOccurred())
			if name == "alice" {
				alice = testutil.Member(u.ID, orgA.ID)
			} else {
				bob = testutil.Member(u.ID, orgA.ID)
			}
		}

		gate = &geofenceDatamodel.Geofence{Name: "Gate A", PolygonJSON: datatypes.JSON(`{}`), Active: true, OrganizationID: orgA.ID}
		farGate = &geofenceDatamodel.Geofence{Name: "Gate B", PolygonJSON: datatypes.JSON(`{}`), Active: true, OrganizationID: orgB.ID}
		Expect(db.Create(gate).Error).NotTo(HaveOccurred())
		Expect(db.Create(farGate).Error).NotTo(HaveOccurred())

		guard = &officerDatamodel.SecurityOfficer{Name: "Kim", Contact: "555", IsActive: true, OrganizationID: orgA.ID}
		farGuard = &officerDatamodel.SecurityOfficer{Name: "Lou", Contact: "556", IsActive: true, OrganizationID: orgB.ID}
		Expect(db.Create(guard).Error).NotTo(HaveOccurred())
		Expect(db.Create(farGuard).Error).NotTo(HaveOccurred())

		publisher = &recordingPublisher{}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = incident.NewService(incidentPostgres.NewIncidentRepository(db), publisher, logger)
	})

	newIncident := func() *incident.Incident {
		i, err := service.Create(alice, incident.CreateIncidentDTO{
			GeofenceID: gate.ID,
			OfficerID:  &guard.ID,
			Title:      "Fence cut",
			Details:    "North side",
		})
		Expect(err).NotTo(HaveOccurred())
		return i
	}

	It("applies defaults and denormalized names", func() {
		i := newIncident()
		Expect(i.IncidentType).To(Equal(incident.TypeSuspiciousActivity))
		Expect(i.SeverityDisplay).To(Equal("Medium"))
		Expect(string(i.Location)).To(Equal(`{}`))
		Expect(i.GeofenceName).To(Equal("Gate A"))
		Expect(i.OfficerName).To(HaveValue(Equal("Kim")))
		Expect(i.CreatedByUsername).To(HaveValue(Equal("alice")))
		Expect(i.IsResolved).To(BeFalse())
		Expect(i.ResolvedAt).To(BeNil())
	})

	It("rejects geofences and officers of other organizations", func() {
		_, err := service.Create(alice, incident.CreateIncidentDTO{GeofenceID: farGate.ID, Title: "x", Details: "y"})
		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.HasFieldError("geofence")).To(BeTrue())

		_, err = service.Create(alice, incident.CreateIncidentDTO{GeofenceID: gate.ID, OfficerID: &farGuard.ID, Title: "x", Details: "y"})
		appErr, ok = internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.HasFieldError("officer")).To(BeTrue())
	})

	It("overwrites the resolver when resolved twice", func() {
		i := newIncident()

		first, err := service.Resolve(context.Background(), alice, i.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(first.IsResolved).To(BeTrue())
		Expect(first.ResolvedByUsername).To(HaveValue(Equal("alice")))

		time.Sleep(10 * time.Millisecond)
		second, err := service.Resolve(context.Background(), bob, i.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(second.ResolvedByUsername).To(HaveValue(Equal("bob")))
		Expect(second.ResolvedAt.After(*first.ResolvedAt)).To(BeTrue())

		Expect(publisher.events).To(HaveLen(2))
		Expect(publisher.events[1].EventType()).To(Equal(events.EventTypeIncidentResolved))
	})

	It("hides incidents from other organizations", func() {
		i := newIncident()
		outsider := testutil.Member(alice.ID, farGate.OrganizationID)

		_, err := service.GetByID(outsider, i.ID)
		Expect(err).To(Equal(internal.ErrIncidentNotFound))

		_, total, err := service.List(outsider, incident.ListFilter{}, 20, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(total).To(BeZero())

		_, total, err = service.List(alice, incident.ListFilter{}, 20, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(total).To(Equal(int64(1)))
	})

	It("filters by resolution state", func() {
		i := newIncident()
		newIncident()
		_, err := service.Resolve(context.Background(), alice, i.ID)
		Expect(err).NotTo(HaveOccurred())

		resolved := true
		items, total, err := service.List(alice, incident.ListFilter{IsResolved: &resolved}, 20, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(total).To(Equal(int64(1)))
		Expect(items[0].ID).To(Equal(i.ID))
	})
})
