package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/cardlet/cardlet-invites/internal/domain"
	"github.com/cardlet/cardlet-invites/internal/http/response"
	"github.com/cardlet/cardlet-invites/internal/service"
	"github.com/cardlet/cardlet-invites/pkg/logger"
)

// ShareHandler serves the anonymous guest surface reached through a share
// link. No authentication; each route carries its own rate limit, so the
// methods are exported and wired individually.
type ShareHandler struct {
	Events service.EventService
	RSVPs  service.RSVPService
}

func NewShareHandler(events service.EventService, rsvps service.RSVPService) *ShareHandler {
	return &ShareHandler{Events: events, RSVPs: rsvps}
}

// View returns the invitation behind a share link and counts the view.
func (h *ShareHandler) View(w http.ResponseWriter, r *http.Request) {
	shareLink := strings.TrimSpace(chi.URLParam(r, "shareLink"))
	if shareLink == "" {
		response.BadRequest(w, "invalid share link")
		return
	}

	event, err := h.Events.GetEventByShareLink(r.Context(), shareLink)
	if err != nil {
		response.DomainError(r.Context(), w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, event)
}

// CreateRSVP records a guest response against the invitation behind a share
// link.
func (h *ShareHandler) CreateRSVP(w http.ResponseWriter, r *http.Request) {
	shareLink := strings.TrimSpace(chi.URLParam(r, "shareLink"))
	if shareLink == "" {
		response.BadRequest(w, "invalid share link")
		return
	}

	var req domain.RSVPCreateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	rsvp, err := h.RSVPs.CreateRSVP(r.Context(), shareLink, &req, requestMeta(r))
	if err != nil {
		response.DomainError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "RSVP recorded", "rsvp_id", rsvp.ID, "share_link", shareLink)
	response.WriteJSON(w, http.StatusCreated, rsvp)
}
