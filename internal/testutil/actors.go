package testutil

import coreUser "github.com/frahmantamala/geofence-security/internal/core/user"

func SuperAdmin(id int64) *coreUser.Actor {
	return &coreUser.Actor{ID: id, Username: "root", Role: coreUser.RoleSuperAdmin}
}

func SubAdmin(id, orgID int64) *coreUser.Actor {
	return &coreUser.Actor{ID: id, Username: "subadmin", Role: coreUser.RoleSubAdmin, OrganizationID: &orgID}
}

func Member(id, orgID int64) *coreUser.Actor {
	return &coreUser.Actor{ID: id, Username: "member", Role: coreUser.RoleUser, OrganizationID: &orgID}
}
