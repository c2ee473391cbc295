package handler

import (
	"encoding/json"
	"net/http"

	"github.com/devinci/portal/internal/domain"
	"github.com/devinci/portal/internal/middleware"
	"github.com/devinci/portal/internal/service"
)

// UserHandler обрабатывает эндпоинты пользователей и их статусов
type UserHandler struct {
	directory *service.Directory
}

// NewUserHandler создает новый UserHandler
func NewUserHandler(directory *service.Directory) *UserHandler {
	return &UserHandler{
		directory: directory,
	}
}

// ListUsers обрабатывает GET /users?team=...
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.directory.Users(r.Context(), r.URL.Query().Get("team"))
	if err != nil {
		HandleError(w, r, err)
		return
	}
	if users == nil {
		users = []domain.User{}
	}
	RespondWithJSON(w, r, http.StatusOK, users)
}

// ListUpdates обрабатывает GET /updates
func (h *UserHandler) ListUpdates(w http.ResponseWriter, r *http.Request) {
	updates, err := h.directory.Updates(r.Context())
	if err != nil {
		HandleError(w, r, err)
		return
	}
	RespondWithJSON(w, r, http.StatusOK, updates)
}

// PostUpdate обрабатывает POST /updates; автором становится текущий пользователь
func (h *UserHandler) PostUpdate(w http.ResponseWriter, r *http.Request) {
	var req domain.UserUpdateCreate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, domain.CodeBadRequest, "invalid request body")
		return
	}

	user := middleware.UserFromContext(r.Context())
	if user == nil {
		HandleError(w, r, domain.ErrUnauthorized)
		return
	}

	update, err := h.directory.PostUpdate(r.Context(), user.TName, req)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusCreated, update)
}
