package report

import (
	"context"
	"net/http"

	"github.com/frahmantamala/geofence-security/internal"
	coreUser "github.com/frahmantamala/geofence-security/internal/core/user"
	"github.com/frahmantamala/geofence-security/internal/transport"
)

type ServiceAPI interface {
	Create(actor *coreUser.Actor, dto CreateReportDTO) (*Report, error)
	GetByID(actor *coreUser.Actor, id int64) (*Report, error)
	List(actor *coreUser.Actor, filter ListFilter, limit, offset int) ([]*Report, int64, error)
	Update(actor *coreUser.Actor, id int64, dto UpdateReportDTO) (*Report, error)
	Generate(ctx context.Context, actor *coreUser.Actor, id int64) (*Report, error)
	MarkGenerated(ctx context.Context, actor *coreUser.Actor, id int64, dto MarkGeneratedDTO) (*Report, error)
	Delete(actor *coreUser.Actor, id int64) error
}

// JobQueue accepts background generation requests.
type JobQueue interface {
	Enqueue(job Job) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
	Queue   JobQueue
}

// NewHandler builds the report handler; queue may be nil, in which case
// generation always runs inline.
func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI, queue JobQueue) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
		Queue:       queue,
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.RequireActor(w, r)
	if !ok {
		return
	}

	filter := ListFilter{
		ReportType:  r.URL.Query().Get("report_type"),
		IsGenerated: transport.QueryBool(r, "is_generated"),
	}
	p := transport.PaginationFromRequest(r)

	items, total, err := h.Service.List(actor, filter, p.PageSize, p.Offset())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, transport.NewListResponse(items, total, p))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.RequireActor(w, r)
	if !ok {
		return
	}

	var dto CreateReportDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	rep, err := h.Service.Create(actor, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, rep)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.RequireActor(w, r)
	if !ok {
		return
	}
	id, ok := h.IDParam(w, r, internal.ErrReportNotFound)
	if !ok {
		return
	}

	rep, err := h.Service.GetByID(actor, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, rep)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.RequireActor(w, r)
	if !ok {
		return
	}
	id, ok := h.IDParam(w, r, internal.ErrReportNotFound)
	if !ok {
		return
	}

	var dto UpdateReportDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	rep, err := h.Service.Update(actor, id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, rep)
}

// Generate runs inline, or on the worker pool when ?async=true and a queue
// is configured.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.RequireActor(w, r)
	if !ok {
		return
	}
	id, ok := h.IDParam(w, r, internal.ErrReportNotFound)
	if !ok {
		return
	}

	if async := transport.QueryBool(r, "async"); async != nil && *async && h.Queue != nil {
		rep, err := h.Service.GetByID(actor, id)
		if err != nil {
			h.HandleServiceError(w, err)
			return
		}
		if err := h.Queue.Enqueue(Job{ReportID: id, RequestedBy: actor.ID}); err != nil {
			h.Logger.Warn("report generation not queued", "error", err, "report_id", id)
			h.WriteError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		h.WriteJSON(w, http.StatusAccepted, rep)
		return
	}

	rep, err := h.Service.Generate(r.Context(), actor, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, rep)
}

func (h *Handler) MarkGenerated(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.RequireActor(w, r)
	if !ok {
		return
	}
	id, ok := h.IDParam(w, r, internal.ErrReportNotFound)
	if !ok {
		return
	}

	var dto MarkGeneratedDTO
	if r.ContentLength != 0 && !h.DecodeJSON(w, r, &dto) {
		return
	}

	rep, err := h.Service.MarkGenerated(r.Context(), actor, id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, rep)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.RequireActor(w, r)
	if !ok {
		return
	}
	id, ok := h.IDParam(w, r, internal.ErrReportNotFound)
	if !ok {
		return
	}

	if err := h.Service.Delete(actor, id); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
