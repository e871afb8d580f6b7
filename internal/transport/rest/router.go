package rest

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/geofence-security/internal"
	"github.com/frahmantamala/geofence-security/internal/alert"
	"github.com/frahmantamala/geofence-security/internal/auth"
	coreUser "github.com/frahmantamala/geofence-security/internal/core/user"
	"github.com/frahmantamala/geofence-security/internal/geofence"
	"github.com/frahmantamala/geofence-security/internal/incident"
	"github.com/frahmantamala/geofence-security/internal/notification"
	"github.com/frahmantamala/geofence-security/internal/officer"
	"github.com/frahmantamala/geofence-security/internal/organization"
	"github.com/frahmantamala/geofence-security/internal/report"
	"github.com/frahmantamala/geofence-security/internal/subadmin"
	"github.com/frahmantamala/geofence-security/internal/transport/middleware"
	"github.com/frahmantamala/geofence-security/internal/transport/swagger"
	"github.com/frahmantamala/geofence-security/internal/user"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
	"github.com/jmoiron/sqlx"
)

// Handlers groups everything the router mounts. Nil handlers are skipped.
type Handlers struct {
	Auth         *auth.Handler
	RBAC         *auth.RBACAuthorization
	User         *user.Handler
	Organization *organization.Handler
	SubAdmin     *subadmin.Handler
	Geofence     *geofence.Handler
	Officer      *officer.Handler
	Incident     *incident.Handler
	Alert        *alert.Handler
	Notification *notification.Handler
	Report       *report.Handler
	Health       *HealthHandler
}

type RouterConfig struct {
	AllowedOrigins string
	OpenAPIPath    string
}

func RegisterAllRoutes(router *chi.Mux, db *sqlx.DB, h Handlers, cfg RouterConfig, logger *slog.Logger) {
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	openAPIPath := cfg.OpenAPIPath
	if openAPIPath == "" {
		openAPIPath = "./api/openapi.yml"
	}
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, openAPIPath)
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		if h.Health != nil {
			r.Get("/health", h.Health.healthCheckHandler)
			r.Get("/ping", h.Health.pingHandler)
		}

		if h.Auth == nil || h.RBAC == nil {
			return
		}

		r.Route("/auth", func(ar chi.Router) {
			if h.User != nil {
				ar.Post("/register", h.User.Register)
			}
			ar.Post("/login", h.Auth.Login)
			ar.Post("/refresh", h.Auth.RefreshToken)
			ar.Post("/logout", h.Auth.Logout)
		})

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)
			pr.Use(h.RBAC.RequireWritePermission())

			admins := h.RBAC.RequireRoles(coreUser.RoleSuperAdmin, coreUser.RoleSubAdmin)
			superAdmin := h.RBAC.RequireRoles(coreUser.RoleSuperAdmin)
			subAdmin := h.RBAC.RequireRoles(coreUser.RoleSubAdmin)

			if h.User != nil {
				pr.Get("/users/me", h.User.GetCurrentUser)
				pr.With(admins).Get("/users", h.User.List)
			}

			if h.Organization != nil {
				pr.Route("/organizations", func(or chi.Router) {
					or.Get("/", h.Organization.List)
					or.Get("/{id}", h.Organization.Get)
					or.Group(func(wr chi.Router) {
						wr.Use(superAdmin)
						wr.Post("/", h.Organization.Create)
						wr.Put("/{id}", h.Organization.Update)
						wr.Patch("/{id}", h.Organization.Update)
						wr.Delete("/{id}", h.Organization.Delete)
					})
				})
			}

			if h.SubAdmin != nil {
				pr.Route("/admin/subadmins", func(sr chi.Router) {
					sr.Use(superAdmin)
					sr.Get("/", h.SubAdmin.List)
					sr.Post("/", h.SubAdmin.Create)
					sr.Get("/{id}", h.SubAdmin.Get)
					sr.Put("/{id}", h.SubAdmin.Update)
					sr.Patch("/{id}", h.SubAdmin.Update)
					sr.Delete("/{id}", h.SubAdmin.Delete)
				})
			}

			if h.Geofence != nil {
				pr.Route("/geofences", func(gr chi.Router) {
					gr.Get("/", h.Geofence.List)
					gr.With(admins).Post("/", h.Geofence.Create)
					gr.Route("/{id}", func(ir chi.Router) {
						ir.Use(auth.RequireSameOrganization(db, auth.OwnedBy("geofences"), internal.ErrGeofenceNotFound))
						ir.Get("/", h.Geofence.Get)
						ir.With(admins).Put("/", h.Geofence.Update)
						ir.With(admins).Patch("/", h.Geofence.Update)
						ir.With(admins).Delete("/", h.Geofence.Delete)
					})
				})
			}

			if h.Officer != nil {
				pr.Route("/officers", func(orr chi.Router) {
					orr.Get("/", h.Officer.List)
					orr.With(subAdmin).Post("/", h.Officer.Create)
					orr.Route("/{id}", func(ir chi.Router) {
						ir.Use(auth.RequireSameOrganization(db, auth.OwnedBy("security_officers"), internal.ErrOfficerNotFound))
						ir.Get("/", h.Officer.Get)
						ir.With(subAdmin).Put("/", h.Officer.Update)
						ir.With(subAdmin).Patch("/", h.Officer.Update)
						ir.With(subAdmin).Delete("/", h.Officer.Delete)
					})
				})
			}

			if h.Incident != nil {
				pr.Route("/incidents", func(ir chi.Router) {
					ir.Get("/", h.Incident.List)
					ir.Post("/", h.Incident.Create)
					ir.Route("/{id}", func(idr chi.Router) {
						idr.Use(auth.RequireSameOrganization(db, auth.OwnedThroughGeofence("incidents"), internal.ErrIncidentNotFound))
						idr.Get("/", h.Incident.Get)
						idr.Put("/", h.Incident.Update)
						idr.Patch("/", h.Incident.Update)
						idr.Patch("/resolve", h.Incident.Resolve)
						idr.Delete("/", h.Incident.Delete)
					})
				})
			}

			if h.Alert != nil {
				pr.Route("/alerts", func(ar chi.Router) {
					ar.Get("/", h.Alert.List)
					ar.Post("/", h.Alert.Create)
					ar.Get("/{id}", h.Alert.Get)
					ar.Put("/{id}", h.Alert.Update)
					ar.Patch("/{id}", h.Alert.Update)
					ar.Patch("/{id}/resolve", h.Alert.Resolve)
					ar.Delete("/{id}", h.Alert.Delete)
				})
			}

			if h.Notification != nil {
				pr.Route("/notifications", func(nr chi.Router) {
					nr.Use(subAdmin)
					nr.Get("/", h.Notification.List)
					nr.Post("/", h.Notification.Create)
					nr.Post("/send", h.Notification.Send)
					nr.Route("/{id}", func(ir chi.Router) {
						ir.Use(auth.RequireSameOrganization(db, auth.OwnedBy("notifications"), internal.ErrNotificationNotFound))
						ir.Get("/", h.Notification.Get)
						ir.Put("/", h.Notification.Update)
						ir.Patch("/", h.Notification.Update)
						ir.Patch("/mark-sent", h.Notification.MarkSent)
						ir.Delete("/", h.Notification.Delete)
					})
				})
			}

			if h.Report != nil {
				pr.Route("/reports", func(rr chi.Router) {
					rr.Use(superAdmin)
					rr.Get("/", h.Report.List)
					rr.Post("/", h.Report.Create)
					rr.Get("/{id}", h.Report.Get)
					rr.Put("/{id}", h.Report.Update)
					rr.Patch("/{id}", h.Report.Update)
					rr.Post("/{id}/generate", h.Report.Generate)
					rr.Patch("/{id}/mark-generated", h.Report.MarkGenerated)
					rr.Delete("/{id}", h.Report.Delete)
				})
			}
		})
	})
}
