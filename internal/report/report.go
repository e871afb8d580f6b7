package report

import (
	"encoding/json"
	"time"

	reportDatamodel "github.com/frahmantamala/geofence-security/internal/core/datamodel/report"
)

type Type string

const (
	TypeGeofenceAnalytics Type = "GEOFENCE_ANALYTICS"
	TypeUserActivity      Type = "USER_ACTIVITY"
	TypeAlertSummary      Type = "ALERT_SUMMARY"
	TypeSystemHealth      Type = "SYSTEM_HEALTH"
	TypeCustom            Type = "CUSTOM"
)

var typeLabels = map[Type]string{
	TypeGeofenceAnalytics: "Geofence Analytics",
	TypeUserActivity:      "User Activity",
	TypeAlertSummary:      "Alert Summary",
	TypeSystemHealth:      "System Health",
	TypeCustom:            "Custom",
}

func (t Type) Label() string {
	return typeLabels[t]
}

func TypeChoices() []string {
	return []string{
		string(TypeGeofenceAnalytics), string(TypeUserActivity), string(TypeAlertSummary),
		string(TypeSystemHealth), string(TypeCustom),
	}
}

type Report struct {
	ID                  int64           `json:"id"`
	ReportType          Type            `json:"report_type"`
	ReportTypeDisplay   string          `json:"report_type_display"`
	Title               string          `json:"title"`
	Description         *string         `json:"description"`
	DateRangeStart      time.Time       `json:"date_range_start"`
	DateRangeEnd        time.Time       `json:"date_range_end"`
	Metrics             json.RawMessage `json:"metrics"`
	FilePath            *string         `json:"file_path"`
	IsGenerated         bool            `json:"is_generated"`
	GeneratedAt         *time.Time      `json:"generated_at"`
	GeneratedByID       int64           `json:"generated_by"`
	GeneratedByUsername string          `json:"generated_by_username"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// Metrics summarizes activity inside a report's date range.
type Metrics struct {
	AlertsTotal        int64            `json:"alerts_total"`
	AlertsResolved     int64            `json:"alerts_resolved"`
	AlertsBySeverity   map[string]int64 `json:"alerts_by_severity"`
	IncidentsTotal     int64            `json:"incidents_total"`
	IncidentsResolved  int64            `json:"incidents_resolved"`
	IncidentsByType    map[string]int64 `json:"incidents_by_type"`
	GeofencesTotal     int64            `json:"geofences_total"`
	GeofencesActive    int64            `json:"geofences_active"`
	GeofencesCreated   int64            `json:"geofences_created"`
	OrganizationsTotal int64            `json:"organizations_total"`
}

// MarkGenerated flags the report as generated. An empty path keeps the
// previous file_path; a repeat overwrites generated_at.
func MarkGenerated(r *reportDatamodel.GlobalReport, filePath string, at time.Time) {
	r.IsGenerated = true
	r.GeneratedAt = &at
	if filePath != "" {
		r.FilePath = &filePath
	}
}

func FromDataModel(r *reportDatamodel.GlobalReport) *Report {
	metrics := json.RawMessage(r.Metrics)
	if len(metrics) == 0 {
		metrics = json.RawMessage(`{}`)
	}
	out := &Report{
		ID:                r.ID,
		ReportType:        Type(r.ReportType),
		ReportTypeDisplay: Type(r.ReportType).Label(),
		Title:             r.Title,
		Description:       r.Description,
		DateRangeStart:    r.DateRangeStart,
		DateRangeEnd:      r.DateRangeEnd,
		Metrics:           metrics,
		FilePath:          r.FilePath,
		IsGenerated:       r.IsGenerated,
		GeneratedAt:       r.GeneratedAt,
		GeneratedByID:     r.GeneratedByID,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
	if r.GeneratedBy != nil {
		out.GeneratedByUsername = r.GeneratedBy.Username
	}
	return out
}
