package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/frahmantamala/geofence-security/internal"
	coreUser "github.com/frahmantamala/geofence-security/internal/core/user"
	"github.com/frahmantamala/geofence-security/internal/transport"
	"github.com/go-chi/chi"
	"github.com/jmoiron/sqlx"
)

var ErrForbidden = errors.New("forbidden")

// OrganizationLookup resolves the owning organization of the row named by id.
type OrganizationLookup func(ctx context.Context, db *sqlx.DB, id int64) (int64, error)

// OwnedBy builds a lookup for tables that carry organization_id directly.
func OwnedBy(table string) OrganizationLookup {
	query := fmt.Sprintf("SELECT organization_id FROM %s WHERE id = ?", table)
	return func(ctx context.Context, db *sqlx.DB, id int64) (int64, error) {
		var orgID int64
		err := db.GetContext(ctx, &orgID, db.Rebind(query), id)
		return orgID, err
	}
}

// OwnedThroughGeofence builds a lookup for tables that reach their
// organization through geofence_id.
func OwnedThroughGeofence(table string) OrganizationLookup {
	query := fmt.Sprintf(
		"SELECT g.organization_id FROM %s t JOIN geofences g ON g.id = t.geofence_id WHERE t.id = ?", table)
	return func(ctx context.Context, db *sqlx.DB, id int64) (int64, error) {
		var orgID int64
		err := db.GetContext(ctx, &orgID, db.Rebind(query), id)
		return orgID, err
	}
}

// CanAccess reports ErrForbidden when actor may not reach a row of orgID.
func CanAccess(actor *coreUser.Actor, orgID int64) error {
	if actor.CanAccessOrganization(orgID) {
		return nil
	}
	return ErrForbidden
}

// RequireSameOrganization guards {id} routes. Rows outside the actor's
// organization answer like missing rows.
func RequireSameOrganization(db *sqlx.DB, lookup OrganizationLookup, notFound *internal.AppError) func(next http.Handler) http.Handler {
	base := transport.NewBaseHandler(nil)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := base.RequireActor(w, r)
			if !ok {
				return
			}
			if actor.IsSuperAdmin() {
				next.ServeHTTP(w, r)
				return
			}

			id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
			if err != nil {
				base.HandleServiceError(w, notFound)
				return
			}

			orgID, err := lookup(r.Context(), db, id)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					base.HandleServiceError(w, notFound)
					return
				}
				base.HandleServiceError(w, internal.NewInternalError("failed to check organization", err))
				return
			}

			if err := CanAccess(actor, orgID); err != nil {
				base.Logger.WarnContext(r.Context(), "cross organization access rejected",
					"user_id", actor.ID, "resource_id", id)
				base.HandleServiceError(w, notFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
