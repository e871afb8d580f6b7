package auth

import (
	"net/http"

	coreUser "github.com/frahmantamala/geofence-security/internal/core/user"
)

const (
	PermissionReadOnly   = "READ_ONLY"
	PermissionReadWrite  = "READ_WRITE"
	PermissionFullAccess = "FULL_ACCESS"
)

type PermissionChecker interface {
	CanRead(actor *coreUser.Actor) bool
	CanWrite(actor *coreUser.Actor) bool
	CanDelete(actor *coreUser.Actor) bool
	Allows(actor *coreUser.Actor, method string) bool
}

type DefaultPermissionChecker struct{}

func NewPermissionChecker() PermissionChecker {
	return &DefaultPermissionChecker{}
}

func (c *DefaultPermissionChecker) CanRead(actor *coreUser.Actor) bool {
	return actor != nil
}

func (c *DefaultPermissionChecker) CanWrite(actor *coreUser.Actor) bool {
	if !c.restricted(actor) {
		return actor != nil
	}
	return actor.Permission == PermissionReadWrite || actor.Permission == PermissionFullAccess
}

func (c *DefaultPermissionChecker) CanDelete(actor *coreUser.Actor) bool {
	if !c.restricted(actor) {
		return actor != nil
	}
	return actor.Permission == PermissionFullAccess
}

func (c *DefaultPermissionChecker) Allows(actor *coreUser.Actor, method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return c.CanRead(actor)
	case http.MethodDelete:
		return c.CanDelete(actor)
	default:
		return c.CanWrite(actor)
	}
}

// restricted is true for sub admins that carry an active profile.
func (c *DefaultPermissionChecker) restricted(actor *coreUser.Actor) bool {
	return actor.IsSubAdmin() && actor.Permission != ""
}
