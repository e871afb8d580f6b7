package incident

import (
	"encoding/json"
	"time"

	"github.com/frahmantamala/geofence-security/internal/core/common/severity"
	incidentDatamodel "github.com/frahmantamala/geofence-security/internal/core/datamodel/incident"
)

type Type string

const (
	TypeSecurityBreach     Type = "SECURITY_BREACH"
	TypeUnauthorizedAccess Type = "UNAUTHORIZED_ACCESS"
	TypeSuspiciousActivity Type = "SUSPICIOUS_ACTIVITY"
	TypeEmergency          Type = "EMERGENCY"
	TypeMaintenance        Type = "MAINTENANCE"
	TypeOther              Type = "OTHER"
)

var typeLabels = map[Type]string{
	TypeSecurityBreach:     "Security Breach",
	TypeUnauthorizedAccess: "Unauthorized Access",
	TypeSuspiciousActivity: "Suspicious Activity",
	TypeEmergency:          "Emergency",
	TypeMaintenance:        "Maintenance",
	TypeOther:              "Other",
}

func (t Type) Label() string {
	return typeLabels[t]
}

func TypeChoices() []string {
	return []string{
		string(TypeSecurityBreach), string(TypeUnauthorizedAccess), string(TypeSuspiciousActivity),
		string(TypeEmergency), string(TypeMaintenance), string(TypeOther),
	}
}

type Incident struct {
	ID                  int64           `json:"id"`
	GeofenceID          int64           `json:"geofence"`
	GeofenceName        string          `json:"geofence_name"`
	OfficerID           *int64          `json:"officer"`
	OfficerName         *string         `json:"officer_name"`
	IncidentType        Type            `json:"incident_type"`
	IncidentTypeDisplay string          `json:"incident_type_display"`
	Severity            severity.Level  `json:"severity"`
	SeverityDisplay     string          `json:"severity_display"`
	Title               string          `json:"title"`
	Details             string          `json:"details"`
	Location            json.RawMessage `json:"location"`
	IsResolved          bool            `json:"is_resolved"`
	ResolvedAt          *time.Time      `json:"resolved_at"`
	ResolvedByUsername  *string         `json:"resolved_by_username"`
	CreatedByUsername   *string         `json:"created_by_username"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// Resolve marks the incident resolved by userID. Resolving again overwrites
// the resolver and timestamp.
func Resolve(i *incidentDatamodel.Incident, userID int64, at time.Time) {
	i.IsResolved = true
	i.ResolvedAt = &at
	i.ResolvedByID = &userID
	i.ResolvedBy = nil
}

func FromDataModel(i *incidentDatamodel.Incident) *Incident {
	location := json.RawMessage(i.Location)
	if len(location) == 0 {
		location = json.RawMessage(`{}`)
	}
	out := &Incident{
		ID:                  i.ID,
		GeofenceID:          i.GeofenceID,
		OfficerID:           i.OfficerID,
		IncidentType:        Type(i.IncidentType),
		IncidentTypeDisplay: Type(i.IncidentType).Label(),
		Severity:            severity.Level(i.Severity),
		SeverityDisplay:     severity.Level(i.Severity).Label(),
		Title:               i.Title,
		Details:             i.Details,
		Location:            location,
		IsResolved:          i.IsResolved,
		ResolvedAt:          i.ResolvedAt,
		CreatedAt:           i.CreatedAt,
		UpdatedAt:           i.UpdatedAt,
	}
	if i.Geofence != nil {
		out.GeofenceName = i.Geofence.Name
	}
	if i.Officer != nil {
		name := i.Officer.Name
		out.OfficerName = &name
	}
	if i.ResolvedBy != nil {
		name := i.ResolvedBy.Username
		out.ResolvedByUsername = &name
	}
	if i.CreatedBy != nil {
		name := i.CreatedBy.Username
		out.CreatedByUsername = &name
	}
	return out
}
