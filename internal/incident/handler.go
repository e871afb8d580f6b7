package incident

import (
	"context"
	"net/http"

	"github.com/frahmantamala/geofence-security/internal"
	coreUser "github.com/frahmantamala/geofence-security/internal/core/user"
	"github.com/frahmantamala/geofence-security/internal/transport"
)

type ServiceAPI interface {
	Create(actor *coreUser.Actor, dto CreateIncidentDTO) (*Incident, error)
	GetByID(actor *coreUser.Actor, id int64) (*Incident, error)
	List(actor *coreUser.Actor, filter ListFilter, limit, offset int) ([]*Incident, int64, error)
	Update(actor *coreUser.Actor, id int64, dto UpdateIncidentDTO) (*Incident, error)
	Resolve(ctx context.Context, actor *coreUser.Actor, id int64) (*Incident, error)
	Delete(actor *coreUser.Actor, id int64) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.RequireActor(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	filter := ListFilter{
		GeofenceID:   transport.QueryInt64(r, "geofence"),
		OfficerID:    transport.QueryInt64(r, "officer"),
		IncidentType: q.Get("incident_type"),
		Severity:     q.Get("severity"),
		IsResolved:   transport.QueryBool(r, "is_resolved"),
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

	var dto CreateIncidentDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	i, err := h.Service.Create(actor, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, i)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.RequireActor(w, r)
	if !ok {
		return
	}
	id, ok := h.IDParam(w, r, internal.ErrIncidentNotFound)
	if !ok {
		return
	}

	i, err := h.Service.GetByID(actor, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, i)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.RequireActor(w, r)
	if !ok {
		return
	}
	id, ok := h.IDParam(w, r, internal.ErrIncidentNotFound)
	if !ok {
		return
	}

	var dto UpdateIncidentDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	i, err := h.Service.Update(actor, id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, i)
}

// Resolve handles PATCH /incidents/{id}/resolve
func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.RequireActor(w, r)
	if !ok {
		return
	}
	id, ok := h.IDParam(w, r, internal.ErrIncidentNotFound)
	if !ok {
		return
	}

	i, err := h.Service.Resolve(r.Context(), actor, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, i)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.RequireActor(w, r)
	if !ok {
		return
	}
	id, ok := h.IDParam(w, r, internal.ErrIncidentNotFound)
	if !ok {
		return
	}

	if err := h.Service.Delete(actor, id); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
