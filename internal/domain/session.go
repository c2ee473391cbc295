package domain

import "time"

// Session представляет сохраненную сессию портала: вошедший пользователь и его токен backend
type Session struct {
	ID        string      `json:"id"`
	User      LoginResult `json:"user"`
	CreatedAt time.Time   `json:"created_at"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// Expired проверяет, истек ли срок жизни сессии на момент now
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}
