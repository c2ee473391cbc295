package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/devinci/portal/internal/domain"
	"github.com/devinci/portal/internal/middleware"
	"github.com/devinci/portal/internal/service"
)

// ForumHandler обрабатывает эндпоинты форума
type ForumHandler struct {
	forum *service.Forum
}

// NewForumHandler создает новый ForumHandler
func NewForumHandler(forum *service.Forum) *ForumHandler {
	return &ForumHandler{forum: forum}
}

// PostIdeaRequest представляет тело запроса на публикацию идеи.
// Если команда не указана, берется команда автора.
type PostIdeaRequest struct {
	Idea     string `json:"idea"`
	TeamName string `json:"team_name,omitempty"`
}

// ListIdeas обрабатывает GET /forum/ideas?team=...
func (h *ForumHandler) ListIdeas(w http.ResponseWriter, r *http.Request) {
	team := r.URL.Query().Get("team")
	if team == "" {
		if user := middleware.UserFromContext(r.Context()); user != nil {
			team = user.Team()
		}
	}

	ideas, err := h.forum.Ideas(r.Context(), team)
	if err != nil {
		HandleError(w, r, err)
		return
	}
	if ideas == nil {
		ideas = []domain.ForumIdea{}
	}
	RespondWithJSON(w, r, http.StatusOK, ideas)
}

// PostIdea обрабатывает POST /forum/ideas
func (h *ForumHandler) PostIdea(w http.ResponseWriter, r *http.Request) {
	var req PostIdeaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, domain.CodeBadRequest, "invalid request body")
		return
	}

	user := middleware.UserFromContext(r.Context())
	if user == nil {
		HandleError(w, r, domain.ErrUnauthorized)
		return
	}
	team := req.TeamName
	if team == "" {
		team = user.Team()
	}

	idea, err := h.forum.PostIdea(r.Context(), user.TName, team, req.Idea)
	if err != nil {
		HandleError(w, r, err)
		return
	}
	RespondWithJSON(w, r, http.StatusCreated, idea)
}

// ListEvents обрабатывает GET /forum/events
func (h *ForumHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.forum.Events(r.Context())
	if err != nil {
		HandleError(w, r, err)
		return
	}
	if events == nil {
		events = []domain.ForumEvent{}
	}
	RespondWithJSON(w, r, http.StatusOK, events)
}

// AddEvent обрабатывает POST /forum/events
func (h *ForumHandler) AddEvent(w http.ResponseWriter, r *http.Request) {
	var req domain.ForumEventCreate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, domain.CodeBadRequest, "invalid request body")
		return
	}

	event, err := h.forum.AddEvent(r.Context(), req)
	if err != nil {
		HandleError(w, r, err)
		return
	}
	RespondWithJSON(w, r, http.StatusCreated, event)
}

// GetSchedule обрабатывает GET /forum/schedule
func (h *ForumHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	schedule, err := h.forum.Schedule(r.Context())
	if err != nil {
		HandleError(w, r, err)
		return
	}
	RespondWithJSON(w, r, http.StatusOK, schedule)
}

// GetSettings обрабатывает GET /forum/settings
func (h *ForumHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.forum.Settings(r.Context())
	if err != nil {
		HandleError(w, r, err)
		return
	}
	if settings == nil {
		HandleError(w, r, fmt.Errorf("forum settings: %w", domain.ErrNotFound))
		return
	}
	RespondWithJSON(w, r, http.StatusOK, settings)
}
