package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cardlet/cardlet-invites/internal/domain"
	"github.com/cardlet/cardlet-invites/internal/http/response"
	"github.com/cardlet/cardlet-invites/internal/service"
)

// RSVPHandler mutates individual guest responses. The routes require a
// logged-in caller, but the rsvp id is the only thing tying the request to a
// row; ownership of the parent invitation is not checked.
type RSVPHandler struct {
	RSVPs service.RSVPService
}

func NewRSVPHandler(rsvps service.RSVPService) *RSVPHandler {
	return &RSVPHandler{RSVPs: rsvps}
}

func (h *RSVPHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.remove)
	return r
}

func (h *RSVPHandler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req domain.RSVPCreateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	rsvp, err := h.RSVPs.UpdateRSVP(r.Context(), id, &req)
	if err != nil {
		response.DomainError(r.Context(), w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, rsvp)
}

func (h *RSVPHandler) remove(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.RSVPs.DeleteRSVP(r.Context(), id); err != nil {
		response.DomainError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
