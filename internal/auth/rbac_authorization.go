package auth

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/geofence-security/internal"
	coreUser "github.com/frahmantamala/geofence-security/internal/core/user"
	"github.com/frahmantamala/geofence-security/internal/transport"
)

type RBACAuthorization struct {
	*transport.BaseHandler
	checker PermissionChecker
}

func NewRBACAuthorization(checker PermissionChecker, logger *slog.Logger) *RBACAuthorization {
	return &RBACAuthorization{
		BaseHandler: transport.NewBaseHandler(logger),
		checker:     checker,
	}
}

// RequireRoles rejects actors whose role is not listed.
func (ra *RBACAuthorization) RequireRoles(roles ...coreUser.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ra.RequireActor(w, r)
			if !ok {
				return
			}

			if !actor.HasRole(roles...) {
				ra.Logger.WarnContext(r.Context(), "access denied: role not allowed",
					"user_id", actor.ID,
					"role", actor.Role,
					"allowed", roles)
				ra.HandleServiceError(w, internal.NewForbiddenError("You do not have permission to perform this action.", internal.ErrCodeRoleRequired))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireWritePermission applies the sub-admin profile level to the request
// method. Actors of other roles pass through.
func (ra *RBACAuthorization) RequireWritePermission() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ra.RequireActor(w, r)
			if !ok {
				return
			}

			if !ra.checker.Allows(actor, r.Method) {
				ra.Logger.WarnContext(r.Context(), "access denied: sub admin permission level",
					"user_id", actor.ID,
					"permission", actor.Permission,
					"method", r.Method)
				ra.HandleServiceError(w, internal.NewForbiddenError("Your sub admin permissions do not allow this action.", internal.ErrCodeRoleRequired))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
