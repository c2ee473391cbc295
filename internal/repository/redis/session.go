// Package redis хранит сессии портала в Redis с TTL.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/devinci/portal/internal/domain"
)

const keyPrefix = "session:"

// SessionRepository реализует repository.SessionRepository поверх Redis
type SessionRepository struct {
	rdb *redis.Client
}

// NewSessionRepository создает новый экземпляр SessionRepository
func NewSessionRepository(rdb *redis.Client) *SessionRepository {
	return &SessionRepository{rdb: rdb}
}

// Get возвращает сессию по ID; Redis сам удаляет истекшие ключи
func (r *SessionRepository) Get(ctx context.Context, id string) (*domain.Session, error) {
	data, err := r.rdb.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to decode session %s: %w", id, err)
	}
	return &session, nil
}

// Save записывает сессию с TTL до ExpiresAt; уже истекшая сессия удаляется
func (r *SessionRepository) Save(ctx context.Context, session *domain.Session) error {
	var ttl time.Duration
	if !session.ExpiresAt.IsZero() {
		ttl = time.Until(session.ExpiresAt)
		if ttl <= 0 {
			return r.Delete(ctx, session.ID)
		}
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	return r.rdb.Set(ctx, keyPrefix+session.ID, data, ttl).Err()
}

// Delete удаляет сессию по ID
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	return r.rdb.Del(ctx, keyPrefix+id).Err()
}
