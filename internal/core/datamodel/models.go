package datamodel

import (
	"github.com/frahmantamala/geofence-security/internal/core/datamodel/alert"
	"github.com/frahmantamala/geofence-security/internal/core/datamodel/geofence"
	"github.com/frahmantamala/geofence-security/internal/core/datamodel/incident"
	"github.com/frahmantamala/geofence-security/internal/core/datamodel/notification"
	"github.com/frahmantamala/geofence-security/internal/core/datamodel/officer"
	"github.com/frahmantamala/geofence-security/internal/core/datamodel/organization"
	"github.com/frahmantamala/geofence-security/internal/core/datamodel/report"
	"github.com/frahmantamala/geofence-security/internal/core/datamodel/subadmin"
	"github.com/frahmantamala/geofence-security/internal/core/datamodel/user"
)

// All lists every persisted model in dependency order.
func All() []interface{} {
	return []interface{}{
		&organization.Organization{},
		&user.User{},
		&subadmin.SubAdminProfile{},
		&geofence.Geofence{},
		&officer.SecurityOfficer{},
		&incident.Incident{},
		&alert.Alert{},
		&notification.Notification{},
		&report.GlobalReport{},
	}
}
