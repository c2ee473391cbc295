package repository

import (
	"context"

	"github.com/devinci/portal/internal/domain"
)

// SessionRepository определяет методы для хранения сессий портала.
// Это серверный аналог "local storage": запись переживает перезапуск процесса.
type SessionRepository interface {
	// Get возвращает сессию по ID или domain.ErrSessionNotFound, если ее нет или она истекла
	Get(ctx context.Context, id string) (*domain.Session, error)

	// Save создает или перезаписывает сессию; срок жизни берется из ExpiresAt
	Save(ctx context.Context, session *domain.Session) error

	// Delete удаляет сессию (удаление отсутствующей сессии не является ошибкой)
	Delete(ctx context.Context, id string) error
}
