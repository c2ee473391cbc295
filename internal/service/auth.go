package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/devinci/portal/internal/domain"
	"github.com/devinci/portal/internal/session"
)

// Claims represents portal JWT claims
type Claims struct {
	SessionID string `json:"sid"`
	TName     string `json:"t_name"`
	TeamName  string `json:"team_name,omitempty"`
	jwt.RegisteredClaims
}

// AuthService logs users in through the backend and issues portal tokens
// bound to a session
type AuthService struct {
	sessions  *session.Manager
	jwtSecret string
	jwtExpiry time.Duration
	logger    *slog.Logger

	mu    sync.Mutex
	onEnd []func(sessionID string)
}

// NewAuthService creates a new AuthService
func NewAuthService(sessions *session.Manager, jwtSecret string, jwtExpiry time.Duration, logger *slog.Logger) *AuthService {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &AuthService{
		sessions:  sessions,
		jwtSecret: jwtSecret,
		jwtExpiry: jwtExpiry,
		logger:    logger,
	}
}

// OnSessionEnd registers a callback run after a session logs out or is
// evicted as idle
func (s *AuthService) OnSessionEnd(fn func(sessionID string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onEnd = append(s.onEnd, fn)
}

// Login authenticates against the backend in a fresh session and returns a
// portal token for it
func (s *AuthService) Login(ctx context.Context, creds domain.Credentials) (string, *domain.LoginResult, error) {
	creds.TName = strings.TrimSpace(creds.TName)
	if creds.TName == "" || creds.Password == "" {
		return "", nil, domain.NewValidationError("t_name and password are required")
	}

	sid := s.sessions.NewID()
	user, err := s.sessions.Get(sid).Login(ctx, creds)
	if err != nil {
		s.sessions.Forget(sid)
		return "", nil, err
	}

	token, err := s.issue(sid, user)
	if err != nil {
		return "", nil, err
	}

	s.logger.Info("User logged in", "t_name", user.TName, "session", sid)
	return token, user, nil
}

// ValidateToken validates a JWT token and returns claims
func (s *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		// Verify signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})

	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.SessionID == "" {
		return nil, domain.ErrInvalidToken
	}

	return claims, nil
}

// Authenticate resolves a portal token to its session and logged-in user
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*session.Auth, *domain.LoginResult, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, nil, err
	}

	auth := s.sessions.Get(claims.SessionID)
	user, err := auth.User(ctx)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		s.sessions.Forget(claims.SessionID)
		return nil, nil, domain.ErrSessionNotFound
	}
	if user.TName != claims.TName {
		return nil, nil, domain.ErrInvalidToken
	}
	return auth, user, nil
}

// Logout ends the session: the stored user is cleared, the backend token is
// invalidated and logout callbacks run
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessions.Get(sessionID).Logout(ctx); err != nil {
		return err
	}
	s.sessions.Forget(sessionID)
	s.endSessions(sessionID)

	s.logger.Info("User logged out", "session", sessionID)
	return nil
}

// EvictIdle drops in-memory sessions that no unexpired portal token can
// still reference. A session is touched whenever its token is issued or
// used, so one idle for the whole token lifetime has no live token.
func (s *AuthService) EvictIdle(now time.Time) int {
	ids := s.sessions.EvictIdle(now)
	s.endSessions(ids...)
	if len(ids) > 0 {
		s.logger.Info("Evicted idle sessions", "count", len(ids))
	}
	return len(ids)
}

func (s *AuthService) endSessions(ids ...string) {
	if len(ids) == 0 {
		return
	}
	s.mu.Lock()
	callbacks := append([]func(string){}, s.onEnd...)
	s.mu.Unlock()
	for _, id := range ids {
		for _, fn := range callbacks {
			fn(id)
		}
	}
}

func (s *AuthService) issue(sid string, user *domain.LoginResult) (string, error) {
	now := time.Now()
	claims := &Claims{
		SessionID: sid,
		TName:     user.TName,
		TeamName:  user.Team(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}
