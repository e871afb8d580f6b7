package report

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/geofence-security/internal"
	reportDatamodel "github.com/frahmantamala/geofence-security/internal/core/datamodel/report"
	"github.com/frahmantamala/geofence-security/internal/core/events"
	coreUser "github.com/frahmantamala/geofence-security/internal/core/user"
	"gorm.io/datatypes"
)

type RepositoryAPI interface {
	Create(r *reportDatamodel.GlobalReport) error
	GetByID(id int64) (*reportDatamodel.GlobalReport, error)
	List(filter ListFilter, limit, offset int) ([]*reportDatamodel.GlobalReport, int64, error)
	Update(r *reportDatamodel.GlobalReport) error
	Delete(id int64) error
	ComputeMetrics(start, end time.Time) (*Metrics, error)
}

type Service struct {
	repo      RepositoryAPI
	store     ArtifactStore
	publisher events.Publisher
	logger    *slog.Logger
}

// NewService wires report persistence; store and publisher may be nil, in
// which case generation records metrics only.
func NewService(repo RepositoryAPI, store ArtifactStore, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		store:     store,
		publisher: publisher,
		logger:    logger,
	}
}

var errSuperAdminRequired = internal.NewForbiddenError("Only super admins can manage reports.", internal.ErrCodeRoleRequired)

func requireSuperAdmin(actor *coreUser.Actor) error {
	if !actor.IsSuperAdmin() {
		return errSuperAdminRequired
	}
	return nil
}

func (s *Service) Create(actor *coreUser.Actor, dto CreateReportDTO) (*Report, error) {
	if err := requireSuperAdmin(actor); err != nil {
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	metrics := datatypes.JSON(`{}`)
	if len(dto.Metrics) > 0 {
		metrics = datatypes.JSON(dto.Metrics)
	}
	r := &reportDatamodel.GlobalReport{
		ReportType:     dto.typeOrDefault(),
		Title:          dto.Title,
		Description:    dto.Description,
		DateRangeStart: dto.DateRangeStart,
		DateRangeEnd:   dto.DateRangeEnd,
		Metrics:        metrics,
		GeneratedByID:  actor.ID,
	}
	if err := s.repo.Create(r); err != nil {
		s.logger.Error("failed to create report", "error", err, "actor_id", actor.ID)
		return nil, internal.NewInternalError("failed to create report", err)
	}

	s.logger.Info("report created", "report_id", r.ID, "report_type", r.ReportType)
	return s.GetByID(actor, r.ID)
}

func (s *Service) GetByID(actor *coreUser.Actor, id int64) (*Report, error) {
	r, err := s.load(actor, id)
	if err != nil {
		return nil, err
	}
	return FromDataModel(r), nil
}

func (s *Service) List(actor *coreUser.Actor, filter ListFilter, limit, offset int) ([]*Report, int64, error) {
	if err := requireSuperAdmin(actor); err != nil {
		return nil, 0, err
	}
	rows, total, err := s.repo.List(filter, limit, offset)
	if err != nil {
		s.logger.Error("failed to list reports", "error", err)
		return nil, 0, internal.NewInternalError("failed to list reports", err)
	}

	out := make([]*Report, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromDataModel(row))
	}
	return out, total, nil
}

func (s *Service) Update(actor *coreUser.Actor, id int64, dto UpdateReportDTO) (*Report, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	r, err := s.load(actor, id)
	if err != nil {
		return nil, err
	}

	if dto.ReportType != nil {
		r.ReportType = *dto.ReportType
	}
	if dto.Title != nil {
		r.Title = *dto.Title
	}
	if dto.Description != nil {
		r.Description = dto.Description
	}
	if dto.DateRangeStart != nil {
		r.DateRangeStart = *dto.DateRangeStart
	}
	if dto.DateRangeEnd != nil {
		r.DateRangeEnd = *dto.DateRangeEnd
	}
	if dto.Metrics != nil {
		r.Metrics = datatypes.JSON(dto.Metrics)
	}
	if r.DateRangeEnd.Before(r.DateRangeStart) {
		return nil, internal.NewValidationFieldError("date_range_end", "End of range must not precede its start.", internal.ErrCodeInvalidDate)
	}

	if err := s.repo.Update(r); err != nil {
		s.logger.Error("failed to update report", "error", err, "report_id", id)
		return nil, internal.NewInternalError("failed to update report", err)
	}
	return s.GetByID(actor, id)
}

// MarkGenerated records an externally produced artifact.
func (s *Service) MarkGenerated(ctx context.Context, actor *coreUser.Actor, id int64, dto MarkGeneratedDTO) (*Report, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	r, err := s.load(actor, id)
	if err != nil {
		return nil, err
	}
	if err := s.finish(ctx, r, dto.FilePath); err != nil {
		return nil, err
	}
	return s.GetByID(actor, id)
}

// Generate computes the metrics for the report's range, stores the rendered
// artifact and marks the report generated.
func (s *Service) Generate(ctx context.Context, actor *coreUser.Actor, id int64) (*Report, error) {
	r, err := s.load(actor, id)
	if err != nil {
		return nil, err
	}
	if err := s.generate(ctx, r); err != nil {
		return nil, err
	}
	return s.GetByID(actor, id)
}

func (s *Service) generate(ctx context.Context, r *reportDatamodel.GlobalReport) error {
	metrics, err := s.repo.ComputeMetrics(r.DateRangeStart, r.DateRangeEnd)
	if err != nil {
		s.logger.Error("failed to compute report metrics", "error", err, "report_id", r.ID)
		return generationFailed(err)
	}
	encoded, err := json.Marshal(metrics)
	if err != nil {
		return generationFailed(err)
	}
	r.Metrics = datatypes.JSON(encoded)

	var filePath string
	if s.store != nil {
		artifact, err := Render(r, metrics)
		if err != nil {
			return generationFailed(err)
		}
		key := fmt.Sprintf("reports/%d/%s-%s.json", r.ID, r.ReportType, time.Now().UTC().Format("20060102T150405Z"))
		filePath, err = s.store.Put(ctx, key, artifact)
		if err != nil {
			s.logger.Error("failed to store report artifact", "error", err, "report_id", r.ID, "key", key)
			return generationFailed(err)
		}
	}
	return s.finish(ctx, r, filePath)
}

func (s *Service) finish(ctx context.Context, r *reportDatamodel.GlobalReport, filePath string) error {
	MarkGenerated(r, filePath, time.Now())
	if err := s.repo.Update(r); err != nil {
		s.logger.Error("failed to mark report generated", "error", err, "report_id", r.ID)
		return internal.NewInternalError("failed to mark report generated", err)
	}

	path := ""
	if r.FilePath != nil {
		path = *r.FilePath
	}
	s.logger.Info("report generated", "report_id", r.ID, "file_path", path)
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, events.NewReportGeneratedEvent(r.ID, r.GeneratedByID, path)); err != nil {
			s.logger.Warn("failed to publish report generated event", "error", err, "report_id", r.ID)
		}
	}
	return nil
}

func generationFailed(cause error) *internal.AppError {
	err := internal.NewInternalError("failed to generate report", cause)
	err.Code = internal.ErrCodeReportGenerationFailed
	return err
}

// Render produces the JSON artifact stored for a generated report.
func Render(r *reportDatamodel.GlobalReport, metrics *Metrics) ([]byte, error) {
	return json.MarshalIndent(struct {
		ID             int64     `json:"id"`
		ReportType     string    `json:"report_type"`
		Title          string    `json:"title"`
		Description    *string   `json:"description,omitempty"`
		DateRangeStart time.Time `json:"date_range_start"`
		DateRangeEnd   time.Time `json:"date_range_end"`
		RenderedAt     time.Time `json:"rendered_at"`
		Metrics        *Metrics  `json:"metrics"`
	}{
		ID:             r.ID,
		ReportType:     r.ReportType,
		Title:          r.Title,
		Description:    r.Description,
		DateRangeStart: r.DateRangeStart,
		DateRangeEnd:   r.DateRangeEnd,
		RenderedAt:     time.Now().UTC(),
		Metrics:        metrics,
	}, "", "  ")
}

func (s *Service) Delete(actor *coreUser.Actor, id int64) error {
	if _, err := s.load(actor, id); err != nil {
		return err
	}
	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete report", "error", err, "report_id", id)
		return internal.NewInternalError("failed to delete report", err)
	}
	return nil
}

func (s *Service) load(actor *coreUser.Actor, id int64) (*reportDatamodel.GlobalReport, error) {
	if err := requireSuperAdmin(actor); err != nil {
		return nil, err
	}
	r, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get report", "error", err, "report_id", id)
		return nil, internal.NewInternalError("failed to get report", err)
	}
	if r == nil {
		return nil, internal.ErrReportNotFound
	}
	return r, nil
}

// Process generates a report outside a request; queued jobs land here.
func (s *Service) Process(ctx context.Context, id int64) error {
	r, err := s.repo.GetByID(id)
	if err != nil {
		return internal.NewInternalError("failed to get report", err)
	}
	if r == nil {
		return internal.ErrReportNotFound
	}
	return s.generate(ctx, r)
}
