package domain

import (
	"slices"
	"time"
)

// Роли, которые портал проверяет на своей стороне
const (
	RoleAdmin           = "ADMIN"
	RoleCleaningManager = "CLEANING_MANAGER"
)

// Credentials представляет данные для входа в backend
type Credentials struct {
	TName    string `json:"t_name"`
	Password string `json:"password"`
}

// LoginResult представляет аутентифицированного пользователя вместе с токеном backend
type LoginResult struct {
	TName       string     `json:"t_name"`
	Name        string     `json:"name"`
	TeamName    *string    `json:"team_name,omitempty"`
	Roles       []string   `json:"roles,omitempty"`
	ReleaseDate *time.Time `json:"release_date,omitempty"`
	AccessToken string     `json:"access_token,omitempty"`
	TokenType   string     `json:"token_type,omitempty"`
}

// AuthUser это LoginResult без токена, безопасный для отдачи клиенту
type AuthUser struct {
	TName       string     `json:"t_name"`
	Name        string     `json:"name"`
	TeamName    *string    `json:"team_name,omitempty"`
	Roles       []string   `json:"roles,omitempty"`
	ReleaseDate *time.Time `json:"release_date,omitempty"`
}

// Public возвращает данные пользователя без токена
func (l *LoginResult) Public() AuthUser {
	return AuthUser{
		TName:       l.TName,
		Name:        l.Name,
		TeamName:    l.TeamName,
		Roles:       l.Roles,
		ReleaseDate: l.ReleaseDate,
	}
}

// Team возвращает название команды пользователя или пустую строку
func (l *LoginResult) Team() string {
	if l.TeamName == nil {
		return ""
	}
	return *l.TeamName
}

// HasRole проверяет, есть ли у пользователя хотя бы одна из ролей
func (l *LoginResult) HasRole(roles ...string) bool {
	for _, role := range roles {
		if slices.Contains(l.Roles, role) {
			return true
		}
	}
	return false
}
