package session

import (
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/devinci/portal/internal/repository"
)

// Manager is the process-wide registry of auth contexts keyed by session id.
type Manager struct {
	repo    repository.SessionRepository
	backend Authenticator
	ttl     time.Duration
	logger  *slog.Logger
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*Auth
	lastUsed map[string]time.Time
}

// NewManager creates a Manager. ttl bounds how long a stored session is restorable.
func NewManager(repo repository.SessionRepository, backend Authenticator, ttl time.Duration, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Manager{
		repo:     repo,
		backend:  backend,
		ttl:      ttl,
		logger:   logger,
		now:      time.Now,
		sessions: make(map[string]*Auth),
		lastUsed: make(map[string]time.Time),
	}
}

// NewID returns a fresh session id.
func (m *Manager) NewID() string {
	return uuid.NewString()
}

// Get returns the auth context for id, creating it on first use.
func (m *Manager) Get(id string) *Auth {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastUsed[id] = m.now()
	if a, ok := m.sessions[id]; ok {
		return a
	}
	a := &Auth{
		id:      id,
		repo:    m.repo,
		backend: m.backend,
		ttl:     m.ttl,
		now:     m.now,
		logger:  m.logger,
	}
	m.sessions[id] = a
	return a
}

// Forget drops the in-memory auth context for id. Stored state is untouched.
func (m *Manager) Forget(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	delete(m.lastUsed, id)
}

// EvictIdle drops auth contexts not used for a full ttl before now and
// returns their ids, sorted. Stored state is untouched, so an evicted
// session is restored on its next use.
func (m *Manager) EvictIdle(now time.Time) []string {
	if m.ttl <= 0 {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var evicted []string
	for id, at := range m.lastUsed {
		if now.Sub(at) < m.ttl {
			continue
		}
		delete(m.sessions, id)
		delete(m.lastUsed, id)
		evicted = append(evicted, id)
	}
	slices.Sort(evicted)
	return evicted
}

// Len returns the number of auth contexts held in memory.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
