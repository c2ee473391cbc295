package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/render"

	"github.com/devinci/portal/internal/backend"
	"github.com/devinci/portal/internal/domain"
	"github.com/devinci/portal/internal/session"
)

// ContextKey это кастомный тип для ключей контекста
type ContextKey string

const (
	// UserKey ключ контекста для аутентифицированного пользователя
	UserKey ContextKey = "user"
	// SessionIDKey ключ контекста для ID сессии портала
	SessionIDKey ContextKey = "session_id"
)

// Authenticator разрешает токен портала в сессию и пользователя
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*session.Auth, *domain.LoginResult, error)
}

// AuthMiddleware создает middleware для валидации токенов портала.
// В контекст запроса кладутся пользователь, ID сессии и токен backend.
func AuthMiddleware(authService Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Получаем токен из заголовка Authorization
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				unauthorized(w, r, "missing authorization header")
				return
			}

			// Проверяем формат Bearer
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				unauthorized(w, r, "invalid authorization header format")
				return
			}

			auth, user, err := authService.Authenticate(r.Context(), parts[1])
			switch {
			case errors.Is(err, domain.ErrSessionNotFound):
				unauthorized(w, r, "session expired, please log in again")
				return
			case err != nil && (errors.Is(err, domain.ErrInvalidToken) || errors.Is(err, domain.ErrUnauthorized)):
				unauthorized(w, r, "invalid or expired token")
				return
			case err != nil:
				respond(w, r, http.StatusInternalServerError, domain.CodeInternal, "internal server error")
				return
			}

			ctx := context.WithValue(r.Context(), UserKey, user)
			ctx = context.WithValue(ctx, SessionIDKey, auth.ID())
			ctx = backend.WithToken(ctx, user.AccessToken)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole пропускает только пользователей, у которых есть хотя бы одна из ролей
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := UserFromContext(r.Context())
			if user == nil {
				unauthorized(w, r, "unauthorized")
				return
			}
			if !user.HasRole(roles...) {
				respond(w, r, http.StatusForbidden, domain.CodeForbidden, "insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserFromContext извлекает пользователя из контекста
func UserFromContext(ctx context.Context) *domain.LoginResult {
	user, ok := ctx.Value(UserKey).(*domain.LoginResult)
	if !ok {
		return nil
	}
	return user
}

// SessionIDFromContext извлекает ID сессии из контекста
func SessionIDFromContext(ctx context.Context) string {
	sid, ok := ctx.Value(SessionIDKey).(string)
	if !ok {
		return ""
	}
	return sid
}

func unauthorized(w http.ResponseWriter, r *http.Request, message string) {
	respond(w, r, http.StatusUnauthorized, domain.CodeUnauthorized, message)
}

func respond(w http.ResponseWriter, r *http.Request, status int, code domain.ErrorCode, message string) {
	render.Status(r, status)
	render.JSON(w, r, map[string]any{
		"error": map[string]string{
			"code":    string(code),
			"message": message,
		},
	})
}
