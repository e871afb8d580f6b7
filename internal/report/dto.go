package report

import (
	"encoding/json"
	"time"

	"github.com/frahmantamala/geofence-security/internal"
	"github.com/frahmantamala/geofence-security/internal/core/common/validation"
)

type CreateReportDTO struct {
	ReportType     string          `json:"report_type"`
	Title          string          `json:"title"`
	Description    *string         `json:"description"`
	DateRangeStart time.Time       `json:"date_range_start"`
	DateRangeEnd   time.Time       `json:"date_range_end"`
	Metrics        json.RawMessage `json:"metrics"`
}

func requiredTime(field string, t time.Time) func(interface{}) *internal.AppError {
	return func(interface{}) *internal.AppError {
		if t.IsZero() {
			return internal.NewValidationFieldError(field, "This field is required.", internal.ErrCodeRequired)
		}
		return nil
	}
}

func (d CreateReportDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("report_type", d.ReportType).OneOf(TypeChoices()...)
	v.Field("title", d.Title).Required().MaxLength(200)
	v.Field("date_range_start", d.DateRangeStart).Custom(requiredTime("date_range_start", d.DateRangeStart))
	v.Field("date_range_end", d.DateRangeEnd).Custom(requiredTime("date_range_end", d.DateRangeEnd))
	if len(d.Metrics) > 0 {
		v.Field("metrics", d.Metrics).JSONObject()
	}
	if !d.DateRangeStart.IsZero() && !d.DateRangeEnd.IsZero() && d.DateRangeEnd.Before(d.DateRangeStart) {
		v.AddError("date_range_end", "End of range must not precede its start.", internal.ErrCodeInvalidDate)
	}
	return v.Validate()
}

func (d CreateReportDTO) typeOrDefault() string {
	if d.ReportType == "" {
		return string(TypeGeofenceAnalytics)
	}
	return d.ReportType
}

type UpdateReportDTO struct {
	ReportType     *string         `json:"report_type"`
	Title          *string         `json:"title"`
	Description    *string         `json:"description"`
	DateRangeStart *time.Time      `json:"date_range_start"`
	DateRangeEnd   *time.Time      `json:"date_range_end"`
	Metrics        json.RawMessage `json:"metrics"`
}

func (d UpdateReportDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	if d.ReportType != nil {
		v.Field("report_type", d.ReportType).Required().OneOf(TypeChoices()...)
	}
	if d.Title != nil {
		v.Field("title", d.Title).Required().MaxLength(200)
	}
	if d.Metrics != nil {
		v.Field("metrics", d.Metrics).JSONObject()
	}
	return v.Validate()
}

type MarkGeneratedDTO struct {
	FilePath string `json:"file_path"`
}

func (d MarkGeneratedDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("file_path", d.FilePath).MaxLength(500)
	return v.Validate()
}

type ListFilter struct {
	ReportType  string
	IsGenerated *bool
}
