package geofence_test

import (
	"encoding/json"
	"log/slog"
	"os"

	"github.com/frahmantamala/geofence-security/internal"
	geofenceDatamodel "github.com/frahmantamala/geofence-security/internal/core/datamodel/geofence"
	incidentDatamodel "github.com/frahmantamala/geofence-security/internal/core/datamodel/incident"
	officerDatamodel "github.com/frahmantamala/geofence-security/internal/core/datamodel/officer"
	orgDatamodel "github.com/frahmantamala/geofence-security/internal/core/datamodel/organization"
	userDatamodel "github.com/frahmantamala/geofence-security/internal/core/datamodel/user"
	coreUser "github.com/frahmantamala/geofence-security/internal/core/user"
	"github.com/frahmantamala/geofence-security/internal/geofence"
	geofencePostgres "github.com/frahmantamala/geofence-security/internal/geofence/postgres"
	"github.com/frahmantamala/geofence-security/internal/testutil"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var _ = Describe("Geofence Service", func() {
	var (
		db         *gorm.DB
		service    *geofence.Service
		orgA, orgB *orgDatamodel.Organization
		subAdmin   *coreUser.Actor
		root       *coreUser.Actor
	)

	square := json.RawMessage(`{"type":"Polygon","coordinates":[[[0,0],[2,0],[2,2],[0,2]]]}`)

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

		rootRow := &userDatamodel.User{Username: "root", PasswordHash: "x", Role: string(coreUser.RoleSuperAdmin), IsActive: true}
		Expect(db.Create(rootRow).Error).NotTo(HaveOccurred())
		root = testutil.SuperAdmin(rootRow.ID)

		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = geofence.NewService(geofencePostgres.NewGeofenceRepository(db), logger)
	})

	Describe("Create", func() {
		It("forces organization and creator from the actor", func() {
			g, err := service.Create(subAdmin, geofence.CreateGeofenceDTO{
				Name:           "Dock 4",
				PolygonJSON:    square,
				OrganizationID: &orgB.ID,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(g.OrganizationID).To(Equal(orgA.ID))
			Expect(g.OrganizationName).To(Equal("Harbor"))
			Expect(g.CreatedByUsername).To(HaveValue(Equal("warden")))
			Expect(g.Active).To(BeTrue())
			Expect(g.CenterPoint).To(Equal(&[2]float64{1, 1}))
		})

		It("lets a super admin pick the organization", func() {
			g, err := service.Create(root, geofence.CreateGeofenceDTO{
				Name:           "Runway",
				PolygonJSON:    json.RawMessage(`{}`),
				OrganizationID: &orgB.ID,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(g.OrganizationID).To(Equal(orgB.ID))
			Expect(g.CenterPoint).To(BeNil())
			Expect(g.CreatedByUsername).To(HaveValue(Equal("root")))
		})

		It("requires an organization for super admins without one", func() {
			_, err := service.Create(root, geofence.CreateGeofenceDTO{Name: "Runway", PolygonJSON: square})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.HasFieldError("organization")).To(BeTrue())
		})

		It("rejects polygon_json that is not an object", func() {
			_, err := service.Create(subAdmin, geofence.CreateGeofenceDTO{Name: "Dock", PolygonJSON: json.RawMessage(`[1,2]`)})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.HasFieldError("polygon_json")).To(BeTrue())
		})

		It("refuses plain users", func() {
			_, err := service.Create(testutil.Member(9, orgA.ID), geofence.CreateGeofenceDTO{Name: "Dock", PolygonJSON: square})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(403))
		})
	})

	Describe("scoping", func() {
		var foreign *geofenceDatamodel.Geofence

		BeforeEach(func() {
			_, err := service.Create(subAdmin, geofence.CreateGeofenceDTO{Name: "Dock 4", PolygonJSON: square})
			Expect(err).NotTo(HaveOccurred())
			foreign = &geofenceDatamodel.Geofence{Name: "Gate B", PolygonJSON: datatypes.JSON(square), Active: true, OrganizationID: orgB.ID}
			Expect(db.Create(foreign).Error).NotTo(HaveOccurred())
		})

		It("lists only the actor's organization", func() {
			items, total, err := service.List(subAdmin, geofence.ListFilter{}, 20, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(1)))
			Expect(items[0].Name).To(Equal("Dock 4"))

			_, total, err = service.List(root, geofence.ListFilter{}, 20, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(2)))
		})

		It("hides other organizations' geofences", func() {
			_, err := service.GetByID(subAdmin, foreign.ID)
			Expect(err).To(Equal(internal.ErrGeofenceNotFound))
			Expect(service.Delete(subAdmin, foreign.ID)).To(Equal(internal.ErrGeofenceNotFound))
		})
	})

	Describe("Delete", func() {
		It("removes incidents and unassigns officers", func() {
			g, err := service.Create(subAdmin, geofence.CreateGeofenceDTO{Name: "Dock 4", PolygonJSON: square})
			Expect(err).NotTo(HaveOccurred())

			officer := &officerDatamodel.SecurityOfficer{Name: "Kim", Contact: "555", IsActive: true, OrganizationID: orgA.ID, AssignedGeofenceID: &g.ID}
			Expect(db.Create(officer).Error).NotTo(HaveOccurred())
			inc := &incidentDatamodel.Incident{GeofenceID: g.ID, IncidentType: "OTHER", Severity: "LOW", Title: "Door", Details: "Open", Location: datatypes.JSON(`{}`)}
			Expect(db.Create(inc).Error).NotTo(HaveOccurred())

			Expect(service.Delete(subAdmin, g.ID)).To(Succeed())

			var n int64
			db.Model(&incidentDatamodel.Incident{}).Count(&n)
			Expect(n).To(BeZero())

			var kept officerDatamodel.SecurityOfficer
			Expect(db.First(&kept, officer.ID).Error).NotTo(HaveOccurred())
			Expect(kept.AssignedGeofenceID).To(BeNil())
		})
	})
})
