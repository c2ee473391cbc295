package handler

import (
	"net/http"

	"github.com/devinci/portal/internal/domain"
	"github.com/devinci/portal/internal/middleware"
	"github.com/devinci/portal/internal/service"
)

// DashboardHandler обрабатывает главную страницу портала
type DashboardHandler struct {
	dashboard *service.Dashboard
}

// NewDashboardHandler создает новый DashboardHandler
func NewDashboardHandler(dashboard *service.Dashboard) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// GetDashboard обрабатывает GET /dashboard. Ошибки отдельных панелей
// возвращаются внутри панелей, сам ответ всегда 200.
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		HandleError(w, r, domain.ErrUnauthorized)
		return
	}
	RespondWithJSON(w, r, http.StatusOK, h.dashboard.Build(r.Context(), user))
}
