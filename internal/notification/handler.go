package notification

import (
	"context"
	"net/http"

	"github.com/frahmantamala/geofence-security/internal"
	coreUser "github.com/frahmantamala/geofence-security/internal/core/user"
	"github.com/frahmantamala/geofence-security/internal/transport"
)

type ServiceAPI interface {
	Create(actor *coreUser.Actor, dto CreateNotificationDTO) (*Notification, error)
	Send(ctx context.Context, actor *coreUser.Actor, dto SendNotificationDTO) (*Notification, error)
	GetByID(actor *coreUser.Actor, id int64) (*Notification, error)
	List(actor *coreUser.Actor, filter ListFilter, limit, offset int) ([]*Notification, int64, error)
	Update(actor *coreUser.Actor, id int64, dto UpdateNotificationDTO) (*Notification, error)
	MarkSent(ctx context.Context, actor *coreUser.Actor, id int64) (*Notification, error)
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
		NotificationType: q.Get("notification_type"),
		TargetType:       q.Get("target_type"),
		IsSent:           transport.QueryBool(r, "is_sent"),
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

	var dto CreateNotificationDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	n, err := h.Service.Create(actor, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, n)
}

func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.RequireActor(w, r)
	if !ok {
		return
	}

	var dto SendNotificationDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	n, err := h.Service.Send(r.Context(), actor, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, n)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.RequireActor(w, r)
	if !ok {
		return
	}
	id, ok := h.IDParam(w, r, internal.ErrNotificationNotFound)
	if !ok {
		return
	}

	n, err := h.Service.GetByID(actor, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, n)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.RequireActor(w, r)
	if !ok {
		return
	}
	id, ok := h.IDParam(w, r, internal.ErrNotificationNotFound)
	if !ok {
		return
	}

	var dto UpdateNotificationDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	n, err := h.Service.Update(actor, id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, n)
}

func (h *Handler) MarkSent(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.RequireActor(w, r)
	if !ok {
		return
	}
	id, ok := h.IDParam(w, r, internal.ErrNotificationNotFound)
	if !ok {
		return
	}

	n, err := h.Service.MarkSent(r.Context(), actor, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, n)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.RequireActor(w, r)
	if !ok {
		return
	}
	id, ok := h.IDParam(w, r, internal.ErrNotificationNotFound)
	if !ok {
		return
	}

	if err := h.Service.Delete(actor, id); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
