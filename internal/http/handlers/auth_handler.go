package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cardlet/cardlet-invites/internal/domain"
	"github.com/cardlet/cardlet-invites/internal/http/response"
	"github.com/cardlet/cardlet-invites/internal/service"
	"github.com/cardlet/cardlet-invites/pkg/logger"
)

type AuthHandler struct {
	Users service.UserService
}

func NewAuthHandler(users service.UserService) *AuthHandler {
	return &AuthHandler{Users: users}
}

func (h *AuthHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/signup", h.signup)
	r.Post("/login", h.login)
	return r
}

func (h *AuthHandler) signup(w http.ResponseWriter, r *http.Request) {
	var req domain.SignupRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.Users.Signup(r.Context(), &req)
	if err != nil {
		response.DomainError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "Account created", "username", user.Username)
	response.WriteJSON(w, http.StatusCreated, user)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.Users.Login(r.Context(), &req)
	if err != nil {
		response.DomainError(r.Context(), w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, result)
}
