package alert

import (
	"encoding/json"
	"time"

	"github.com/frahmantamala/geofence-security/internal/core/common/severity"
	alertDatamodel "github.com/frahmantamala/geofence-security/internal/core/datamodel/alert"
	coreUser "github.com/frahmantamala/geofence-security/internal/core/user"
)

type Type string

const (
	TypeGeofenceEnter     Type = "GEOFENCE_ENTER"
	TypeGeofenceExit      Type = "GEOFENCE_EXIT"
	TypeGeofenceViolation Type = "GEOFENCE_VIOLATION"
	TypeSystemError       Type = "SYSTEM_ERROR"
	TypeSecurityBreach    Type = "SECURITY_BREACH"
	TypeMaintenance       Type = "MAINTENANCE"
)

var typeLabels = map[Type]string{
	TypeGeofenceEnter:     "Geofence Enter",
	TypeGeofenceExit:      "Geofence Exit",
	TypeGeofenceViolation: "Geofence Violation",
	TypeSystemError:       "System Error",
	TypeSecurityBreach:    "Security Breach",
	TypeMaintenance:       "Maintenance",
}

func (t Type) Label() string {
	return typeLabels[t]
}

func TypeChoices() []string {
	return []string{
		string(TypeGeofenceEnter), string(TypeGeofenceExit), string(TypeGeofenceViolation),
		string(TypeSystemError), string(TypeSecurityBreach), string(TypeMaintenance),
	}
}

type Alert struct {
	ID                 int64           `json:"id"`
	GeofenceID         *int64          `json:"geofence"`
	GeofenceName       *string         `json:"geofence_name"`
	UserID             *int64          `json:"user"`
	UserUsername       *string         `json:"user_username"`
	AlertType          Type            `json:"alert_type"`
	AlertTypeDisplay   string          `json:"alert_type_display"`
	Severity           severity.Level  `json:"severity"`
	SeverityDisplay    string          `json:"severity_display"`
	Title              string          `json:"title"`
	Description        *string         `json:"description"`
	Metadata           json.RawMessage `json:"metadata"`
	IsResolved         bool            `json:"is_resolved"`
	ResolvedAt         *time.Time      `json:"resolved_at"`
	ResolvedByUsername *string         `json:"resolved_by_username"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// Resolve marks the alert resolved; a repeat overwrites resolver and time.
func Resolve(a *alertDatamodel.Alert, userID int64, at time.Time) {
	a.IsResolved = true
	a.ResolvedAt = &at
	a.ResolvedByID = &userID
	a.ResolvedBy = nil
}

// VisibleTo reports whether the alert's geofence or user sits in an
// organization the actor may access.
func VisibleTo(a *alertDatamodel.Alert, actor *coreUser.Actor) bool {
	if actor.IsSuperAdmin() {
		return true
	}
	if a.Geofence != nil && actor.CanAccessOrganization(a.Geofence.OrganizationID) {
		return true
	}
	if a.User != nil && a.User.OrganizationID != nil && actor.CanAccessOrganization(*a.User.OrganizationID) {
		return true
	}
	return false
}

func FromDataModel(a *alertDatamodel.Alert) *Alert {
	metadata := json.RawMessage(a.Metadata)
	if len(metadata) == 0 {
		metadata = json.RawMessage(`{}`)
	}
	out := &Alert{
		ID:               a.ID,
		GeofenceID:       a.GeofenceID,
		UserID:           a.UserID,
		AlertType:        Type(a.AlertType),
		AlertTypeDisplay: Type(a.AlertType).Label(),
		Severity:         severity.Level(a.Severity),
		SeverityDisplay:  severity.Level(a.Severity).Label(),
		Title:            a.Title,
		Description:      a.Description,
		Metadata:         metadata,
		IsResolved:       a.IsResolved,
		ResolvedAt:       a.ResolvedAt,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}
	if a.Geofence != nil {
		name := a.Geofence.Name
		out.GeofenceName = &name
	}
	if a.User != nil {
		name := a.User.Username
		out.UserUsername = &name
	}
	if a.ResolvedBy != nil {
		name := a.ResolvedBy.Username
		out.ResolvedByUsername = &name
	}
	return out
}
