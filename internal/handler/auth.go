package handler

import (
	"encoding/json"
	"net/http"

	"github.com/devinci/portal/internal/domain"
	"github.com/devinci/portal/internal/middleware"
	"github.com/devinci/portal/internal/service"
)

// AuthHandler обрабатывает эндпоинты аутентификации
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler создает новый AuthHandler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// LoginResponse представляет тело ответа на логин
type LoginResponse struct {
	Token string          `json:"token"`
	User  domain.AuthUser `json:"user"`
}

// Login обрабатывает POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.Credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, domain.CodeBadRequest, "invalid request body")
		return
	}

	if req.TName == "" || req.Password == "" {
		RespondWithError(w, r, http.StatusBadRequest, domain.CodeBadRequest, "t_name and password are required")
		return
	}

	token, user, err := h.authService.Login(r.Context(), req)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, LoginResponse{Token: token, User: user.Public()})
}

// Logout обрабатывает POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.authService.Logout(r.Context(), middleware.SessionIDFromContext(r.Context())); err != nil {
		HandleError(w, r, err)
		return
	}
	RespondWithJSON(w, r, http.StatusOK, map[string]string{"status": "logged out"})
}

// Me обрабатывает GET /auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		HandleError(w, r, domain.ErrUnauthorized)
		return
	}
	RespondWithJSON(w, r, http.StatusOK, user.Public())
}
