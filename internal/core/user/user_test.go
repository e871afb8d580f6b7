package user_test

import (
	"testing"

	coreUser "github.com/frahmantamala/geofence-security/internal/core/user"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestCoreUser(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Core User Suite")
}

var _ = Describe("Actor", func() {
	org := int64(7)

	It("does not scope super admins", func() {
		actor := &coreUser.Actor{ID: 1, Role: coreUser.RoleSuperAdmin}
		Expect(actor.ScopeOrganization()).To(BeNil())
		Expect(actor.CanAccessOrganization(99)).To(BeTrue())
	})

	It("scopes sub admins to their organization", func() {
		actor := &coreUser.Actor{ID: 2, Role: coreUser.RoleSubAdmin, OrganizationID: &org}
		Expect(*actor.ScopeOrganization()).To(Equal(org))
		Expect(actor.CanAccessOrganization(org)).To(BeTrue())
		Expect(actor.CanAccessOrganization(8)).To(BeFalse())
	})

	It("gives users without an organization an empty scope", func() {
		actor := &coreUser.Actor{ID: 3, Role: coreUser.RoleUser}
		Expect(*actor.ScopeOrganization()).To(Equal(int64(-1)))
		Expect(actor.CanAccessOrganization(org)).To(BeFalse())
	})

	It("treats a nil actor as having no role", func() {
		var actor *coreUser.Actor
		Expect(actor.IsSuperAdmin()).To(BeFalse())
		Expect(actor.HasRole(coreUser.RoleUser)).To(BeFalse())
	})

	It("labels roles", func() {
		Expect(coreUser.RoleSubAdmin.Label()).To(Equal("Sub Admin"))
		Expect(coreUser.Role("GUEST").Valid()).To(BeFalse())
		Expect(coreUser.RoleChoices()).To(ConsistOf("SUPER_ADMIN", "SUB_ADMIN", "USER"))
	})
})
