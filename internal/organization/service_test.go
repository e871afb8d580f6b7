package organization_test

import (
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/frahmantamala/geofence-security/internal"
	orgDatamodel "github.com/frahmantamala/geofence-security/internal/core/datamodel/organization"
	"github.com/frahmantamala/geofence-security/internal/organization"
	"github.com/frahmantamala/geofence-security/internal/testutil"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestOrganizationService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Organization Service Suite")
}

type MockRepository struct {
	orgs       map[int64]*orgDatamodel.Organization
	nextID     int64
	shouldFail bool
	failError  error
}

func NewMockRepository() *MockRepository {
	return &MockRepository{orgs: make(map[int64]*orgDatamodel.Organization)}
}

func (m *MockRepository) Create(org *orgDatamodel.Organization) error {
	if m.shouldFail {
		return m.failError
	}
	m.nextID++
	org.ID = m.nextID
	m.orgs[org.ID] = org
	return nil
}

func (m *MockRepository) GetByID(id int64) (*orgDatamodel.Organization, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	return m.orgs[id], nil
}

func (m *MockRepository) List(orgID *int64, limit, offset int) ([]*orgDatamodel.Organization, int64, error) {
	if m.shouldFail {
		return nil, 0, m.failError
	}
	var result []*orgDatamodel.Organization
	for _, o := range m.orgs {
		if orgID == nil || o.ID == *orgID {
			result = append(result, o)
		}
	}
	return result, int64(len(result)), nil
}

func (m *MockRepository) Update(org *orgDatamodel.Organization) error {
	if m.shouldFail {
		return m.failError
	}
	m.orgs[org.ID] = org
	return nil
}

func (m *MockRepository) Delete(id int64) error {
	if m.shouldFail {
		return m.failError
	}
	delete(m.orgs, id)
	return nil
}

func (m *MockRepository) SetShouldFail(shouldFail bool, err error) {
	m.shouldFail = shouldFail
	m.failError = err
}

var _ = Describe("Organization Service", func() {
	var (
		mockRepo *MockRepository
		service  *organization.Service
	)

	BeforeEach(func() {
		mockRepo = NewMockRepository()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = organization.NewService(mockRepo, logger)
	})

	Describe("Create", func() {
		It("lets a super admin create an organization", func() {
			org, err := service.Create(testutil.SuperAdmin(1), organization.CreateOrganizationDTO{Name: "Acme Security"})
			Expect(err).NotTo(HaveOccurred())
			Expect(org.ID).To(Equal(int64(1)))
			Expect(org.Name).To(Equal("Acme Security"))
		})

		It("rejects other roles", func() {
			_, err := service.Create(testutil.SubAdmin(2, 1), organization.CreateOrganizationDTO{Name: "Rogue"})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(403))
			Expect(mockRepo.orgs).To(BeEmpty())
		})

		It("requires a name", func() {
			_, err := service.Create(testutil.SuperAdmin(1), organization.CreateOrganizationDTO{})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.HasFieldError("name")).To(BeTrue())
		})

		It("wraps repository failures", func() {
			mockRepo.SetShouldFail(true, errors.New("database error"))
			_, err := service.Create(testutil.SuperAdmin(1), organization.CreateOrganizationDTO{Name: "Acme"})
			Expect(err).To(HaveOccurred())
			Expect(errors.Unwrap(err)).To(MatchError("database error"))
		})
	})

	Describe("scoping", func() {
		BeforeEach(func() {
			_, err := service.Create(testutil.SuperAdmin(1), organization.CreateOrganizationDTO{Name: "First"})
			Expect(err).NotTo(HaveOccurred())
			_, err = service.Create(testutil.SuperAdmin(1), organization.CreateOrganizationDTO{Name: "Second"})
			Expect(err).NotTo(HaveOccurred())
		})

		It("shows a sub admin only their organization", func() {
			orgs, total, err := service.List(testutil.SubAdmin(5, 2), 20, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(1)))
			Expect(orgs[0].Name).To(Equal("Second"))
		})

		It("hides foreign organizations as not found", func() {
			_, err := service.GetByID(testutil.Member(6, 2), 1)
			Expect(err).To(Equal(internal.ErrOrganizationNotFound))
		})

		It("shows a super admin every organization", func() {
			_, total, err := service.List(testutil.SuperAdmin(1), 20, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(2)))
		})
	})

	Describe("Update and Delete", func() {
		It("updates only provided fields", func() {
			desc := "original"
			created, err := service.Create(testutil.SuperAdmin(1), organization.CreateOrganizationDTO{Name: "Acme", Description: &desc})
			Expect(err).NotTo(HaveOccurred())

			name := "Acme Guards"
			updated, err := service.Update(testutil.SuperAdmin(1), created.ID, organization.UpdateOrganizationDTO{Name: &name})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Name).To(Equal("Acme Guards"))
			Expect(*updated.Description).To(Equal("original"))
		})

		It("returns not found for unknown ids", func() {
			err := service.Delete(testutil.SuperAdmin(1), 99)
			Expect(err).To(Equal(internal.ErrOrganizationNotFound))
		})
	})
})
