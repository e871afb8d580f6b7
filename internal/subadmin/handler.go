package subadmin

import (
	"net/http"

	"github.com/frahmantamala/geofence-security/internal"
	coreUser "github.com/frahmantamala/geofence-security/internal/core/user"
	"github.com/frahmantamala/geofence-security/internal/transport"
)

type ServiceAPI interface {
	Create(actor *coreUser.Actor, dto CreateSubAdminDTO) (*SubAdmin, error)
	GetByID(actor *coreUser.Actor, id int64) (*SubAdmin, error)
	List(actor *coreUser.Actor, filter ListFilter, limit, offset int) ([]*SubAdmin, int64, error)
	Update(actor *coreUser.Actor, id int64, dto UpdateSubAdminDTO) (*SubAdmin, error)
	Deactivate(actor *coreUser.Actor, id int64) error
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
		Search:        q.Get("search"),
		Permissions:   q.Get("permissions"),
		AssignedScope: q.Get("assigned_scope"),
		IsActive:      transport.QueryBool(r, "is_active"),
		Ordering:      q.Get("ordering"),
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

	var dto CreateSubAdminDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	sa, err := h.Service.Create(actor, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, sa)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.RequireActor(w, r)
	if !ok {
		return
	}
	id, ok := h.IDParam(w, r, internal.ErrSubAdminNotFound)
	if !ok {
		return
	}

	sa, err := h.Service.GetByID(actor, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, sa)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.RequireActor(w, r)
	if !ok {
		return
	}
	id, ok := h.IDParam(w, r, internal.ErrSubAdminNotFound)
	if !ok {
		return
	}

	var dto UpdateSubAdminDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	sa, err := h.Service.Update(actor, id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, sa)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.RequireActor(w, r)
	if !ok {
		return
	}
	id, ok := h.IDParam(w, r, internal.ErrSubAdminNotFound)
	if !ok {
		return
	}

	if err := h.Service.Deactivate(actor, id); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
