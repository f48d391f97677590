package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/deskhub/offices-api/internal/domain"
	"github.com/deskhub/offices-api/internal/http/response"
	"github.com/deskhub/offices-api/internal/service"
	"github.com/deskhub/offices-api/pkg/logger"
)

type AuthHandler struct {
	svc service.AuthService
}

func NewAuthHandler(svc service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

func (h *AuthHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
	return r
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}

	res, err := h.svc.Register(r.Context(), &req)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			response.UnprocessableEntity(w, err.Error())
			return
		}
		logger.ErrorContext(r.Context(), "failed to register user", "error", err)
		response.InternalError(w, "failed to register")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"data": res})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}

	res, err := h.svc.Login(r.Context(), &req)
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			response.Unauthorized(w, "invalid credentials")
			return
		}
		logger.ErrorContext(r.Context(), "failed to log in user", "error", err)
		response.InternalError(w, "failed to log in")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"data": res})
}
