package domain

import "time"

// ScheduleSource показывает, откуда взялась запись расписания форума
type ScheduleSource string

// Возможные источники записи расписания
const (
	SourceGenerated ScheduleSource = "generated" // Сгенерирована backend по настройкам форума
	SourceOverride  ScheduleSource = "override"  // Переопределена вручную событием форума
)

// ForumIdea представляет идею команды для форума
type ForumIdea struct {
	ID        int64  `json:"id"`
	Idea      string `json:"idea"`
	UserTName string `json:"user_t_name"`
	TeamName  string `json:"team_name"`
}

// ForumIdeaCreate представляет тело POST /forum_ideas
type ForumIdeaCreate struct {
	Idea      string `json:"idea"`
	UserTName string `json:"user_t_name"`
	TeamName  string `json:"team_name"`
}

// ForumEvent представляет запланированное событие форума
type ForumEvent struct {
	ID       int64     `json:"id"`
	Name     string    `json:"name"`
	DateTime time.Time `json:"date_time"`
	TeamName string    `json:"team_name"`
}

// ForumEventCreate представляет тело POST /forum_events
type ForumEventCreate struct {
	Name     string    `json:"name"`
	DateTime time.Time `json:"date_time"`
	TeamName string    `json:"team_name"`
}

// ForumScheduleItem представляет запись будущего расписания форума
type ForumScheduleItem struct {
	ID           *int64         `json:"id"`
	Name         string         `json:"name,omitempty"`
	DateTime     time.Time      `json:"date_time"`
	TeamName     string         `json:"team_name"`
	MinuteLength int            `json:"minute_length"`
	Source       ScheduleSource `json:"source"`
}

// IsOverride возвращает true для записей, переопределенных вручную
func (i ForumScheduleItem) IsOverride() bool {
	return i.Source == SourceOverride
}

// ForumSettings представляет настройки генерации расписания форума
type ForumSettings struct {
	ID                 int64     `json:"id"`
	FirstForumDateTime time.Time `json:"first_forum_datetime"`
	ForumMinuteLength  int       `json:"forum_minute_length"`
	TeamsOrder         []string  `json:"teams_order"`
}
