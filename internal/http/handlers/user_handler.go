package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cardlet/cardlet-invites/internal/http/middleware"
	"github.com/cardlet/cardlet-invites/internal/http/response"
)

type UserHandler struct{}

func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

func (h *UserHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/me", h.me)
	return r
}

func (h *UserHandler) me(w http.ResponseWriter, r *http.Request) {
	user := middleware.Principal(r)
	response.WriteJSON(w, http.StatusOK, user.ToResponse())
}
