package geofence

import (
	"net/http"

	"github.com/frahmantamala/geofence-security/internal"
	coreUser "github.com/frahmantamala/geofence-security/internal/core/user"
	"github.com/frahmantamala/geofence-security/internal/transport"
)

type ServiceAPI interface {
	Create(actor *coreUser.Actor, dto CreateGeofenceDTO) (*Geofence, error)
	GetByID(actor *coreUser.Actor, id int64) (*Geofence, error)
	List(actor *coreUser.Actor, filter ListFilter, limit, offset int) ([]*Geofence, int64, error)
	Update(actor *coreUser.Actor, id int64, dto UpdateGeofenceDTO) (*Geofence, error)
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

	filter := ListFilter{
		Search: r.URL.Query().Get("search"),
		Active: transport.QueryBool(r, "active"),
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

	var dto CreateGeofenceDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	g, err := h.Service.Create(actor, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, g)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.RequireActor(w, r)
	if !ok {
		return
	}
	id, ok := h.IDParam(w, r, internal.ErrGeofenceNotFound)
	if !ok {
		return
	}

	g, err := h.Service.GetByID(actor, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, g)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.RequireActor(w, r)
	if !ok {
		return
	}
	id, ok := h.IDParam(w, r, internal.ErrGeofenceNotFound)
	if !ok {
		return
	}

	var dto UpdateGeofenceDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	g, err := h.Service.Update(actor, id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, g)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.RequireActor(w, r)
	if !ok {
		return
	}
	id, ok := h.IDParam(w, r, internal.ErrGeofenceNotFound)
	if !ok {
		return
	}

	if err := h.Service.Delete(actor, id); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
