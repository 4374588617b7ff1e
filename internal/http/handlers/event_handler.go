package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cardlet/cardlet-invites/internal/domain"
	"github.com/cardlet/cardlet-invites/internal/http/middleware"
	"github.com/cardlet/cardlet-invites/internal/http/response"
	"github.com/cardlet/cardlet-invites/internal/service"
	"github.com/cardlet/cardlet-invites/pkg/logger"
)

type EventHandler struct {
	Events service.EventService
	RSVPs  service.RSVPService
}

func NewEventHandler(events service.EventService, rsvps service.RSVPService) *EventHandler {
	return &EventHandler{Events: events, RSVPs: rsvps}
}

// Routes are the owner-facing invitation endpoints. The whole subtree sits
// behind RequireUser.
func (h *EventHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.create)
	r.Get("/", h.listMine)
	r.Get("/trash", h.listTrash)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.trash)
	r.Patch("/{id}/restore", h.restore)
	r.Delete("/{id}/permanent", h.destroy)
	r.Get("/{id}/rsvp", h.listRSVPs)
	return r
}

func (h *EventHandler) create(w http.ResponseWriter, r *http.Request) {
	user := middleware.Principal(r)

	var req domain.EventCreateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	event, err := h.Events.CreateEvent(r.Context(), user.Username, &req)
	if err != nil {
		response.DomainError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "Invitation created", "event_id", event.ID, "share_link", event.ShareLink)
	response.WriteJSON(w, http.StatusCreated, event)
}

func (h *EventHandler) listMine(w http.ResponseWriter, r *http.Request) {
	user := middleware.Principal(r)

	items, err := h.Events.GetMyEvents(r.Context(), user.Username)
	if err != nil {
		response.DomainError(r.Context(), w, err)
		return
	}
	if items == nil {
		items = []domain.EventListItem{}
	}
	response.WriteJSON(w, http.StatusOK, items)
}

func (h *EventHandler) listTrash(w http.ResponseWriter, r *http.Request) {
	user := middleware.Principal(r)

	items, err := h.Events.GetTrashedEvents(r.Context(), user.Username)
	if err != nil {
		response.DomainError(r.Context(), w, err)
		return
	}
	if items == nil {
		items = []domain.EventListItem{}
	}
	response.WriteJSON(w, http.StatusOK, items)
}

func (h *EventHandler) get(w http.ResponseWriter, r *http.Request) {
	user := middleware.Principal(r)
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	event, err := h.Events.GetEvent(r.Context(), user.Username, id)
	if err != nil {
		response.DomainError(r.Context(), w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, event)
}

func (h *EventHandler) update(w http.ResponseWriter, r *http.Request) {
	user := middleware.Principal(r)
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req domain.EventUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	event, err := h.Events.UpdateEvent(r.Context(), user.Username, id, &req)
	if err != nil {
		response.DomainError(r.Context(), w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, event)
}

func (h *EventHandler) trash(w http.ResponseWriter, r *http.Request) {
	user := middleware.Principal(r)
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.Events.DeleteEvent(r.Context(), user.Username, id); err != nil {
		response.DomainError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "Invitation moved to trash", "event_id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *EventHandler) restore(w http.ResponseWriter, r *http.Request) {
	user := middleware.Principal(r)
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	event, err := h.Events.RestoreEvent(r.Context(), user.Username, id)
	if err != nil {
		response.DomainError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "Invitation restored", "event_id", id)
	response.WriteJSON(w, http.StatusOK, event)
}

func (h *EventHandler) destroy(w http.ResponseWriter, r *http.Request) {
	user := middleware.Principal(r)
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.Events.PermanentDeleteEvent(r.Context(), user.Username, id); err != nil {
		response.DomainError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "Invitation permanently deleted", "event_id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *EventHandler) listRSVPs(w http.ResponseWriter, r *http.Request) {
	user := middleware.Principal(r)
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	rsvps, err := h.RSVPs.GetRSVPList(r.Context(), user.Username, id)
	if err != nil {
		response.DomainError(r.Context(), w, err)
		return
	}
	if rsvps == nil {
		rsvps = []domain.RSVPResponse{}
	}
	response.WriteJSON(w, http.StatusOK, rsvps)
}
