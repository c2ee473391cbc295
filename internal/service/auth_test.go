package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devinci/portal/internal/backend"
	"github.com/devinci/portal/internal/domain"
	"github.com/devinci/portal/internal/repository/file"
	"github.com/devinci/portal/internal/session"
)

const testSecret = "test-secret"

type stubAuthenticator struct {
	logouts []string
}

func (s *stubAuthenticator) Login(_ context.Context, creds domain.Credentials) (*domain.LoginResult, error) {
	if creds.Password != "pw" {
		return nil, &backend.APIError{Status: 401, Message: "Invalid credentials"}
	}
	team := "core"
	return &domain.LoginResult{TName: creds.TName, Name: "N", TeamName: &team, AccessToken: "backend-" + creds.TName}, nil
}

func (s *stubAuthenticator) Logout(ctx context.Context) error {
	s.logouts = append(s.logouts, backend.TokenFromContext(ctx))
	return nil
}

func newAuthService(t *testing.T) (*AuthService, *stubAuthenticator) {
	t.Helper()
	stub := &stubAuthenticator{}
	repo := file.NewSessionRepository(filepath.Join(t.TempDir(), "s.json"))
	manager := session.NewManager(repo, stub, time.Hour, nil)
	return NewAuthService(manager, testSecret, time.Hour, nil), stub
}

func TestAuthService_LoginAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthService(t)

	token, user, err := svc.Login(ctx, domain.Credentials{TName: " u1 ", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "u1", user.TName)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.TName)
	assert.Equal(t, "core", claims.TeamName)
	assert.NotEmpty(t, claims.SessionID)

	auth, got, err := svc.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, claims.SessionID, auth.ID())
	assert.Equal(t, "backend-u1", got.AccessToken)
}

func TestAuthService_LoginErrors(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthService(t)

	_, _, err := svc.Login(ctx, domain.Credentials{TName: "", Password: "pw"})
	require.ErrorIs(t, err, domain.ErrValidation)

	_, _, err = svc.Login(ctx, domain.Credentials{TName: "u1", Password: "bad"})
	require.Error(t, err)
	assert.True(t, backend.IsStatus(err, 401))
}

func TestAuthService_LogoutInvalidatesSession(t *testing.T) {
	ctx := context.Background()
	svc, stub := newAuthService(t)

	var dropped []string
	svc.OnSessionEnd(func(sid string) { dropped = append(dropped, sid) })

	token, _, err := svc.Login(ctx, domain.Credentials{TName: "u1", Password: "pw"})
	require.NoError(t, err)
	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, claims.SessionID))
	assert.Equal(t, []string{claims.SessionID}, dropped)
	assert.Equal(t, []string{"backend-u1"}, stub.logouts)

	_, _, err = svc.Authenticate(ctx, token)
	require.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestAuthService_EvictIdle(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthService(t)

	var dropped []string
	svc.OnSessionEnd(func(sid string) { dropped = append(dropped, sid) })

	token, _, err := svc.Login(ctx, domain.Credentials{TName: "u1", Password: "pw"})
	require.NoError(t, err)
	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)

	assert.Zero(t, svc.EvictIdle(time.Now()))
	assert.Empty(t, dropped)

	assert.Equal(t, 1, svc.EvictIdle(time.Now().Add(2*time.Hour)))
	assert.Equal(t, []string{claims.SessionID}, dropped)

	// a token that is still valid restores its session from storage
	_, user, err := svc.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "u1", user.TName)
}

func TestAuthService_ValidateTokenRejects(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.ValidateToken("garbage")
	require.ErrorIs(t, err, domain.ErrInvalidToken)

	other := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{SessionID: "x", TName: "u1"})
	signed, err := other.SignedString([]byte("another-secret"))
	require.NoError(t, err)
	_, err = svc.ValidateToken(signed)
	require.ErrorIs(t, err, domain.ErrInvalidToken)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		SessionID: "x",
		TName:     "u1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	signed, err = expired.SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = svc.ValidateToken(signed)
	require.ErrorIs(t, err, domain.ErrInvalidToken)

	noSession := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{TName: "u1"})
	signed, err = noSession.SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = svc.ValidateToken(signed)
	require.ErrorIs(t, err, domain.ErrInvalidToken)
}
