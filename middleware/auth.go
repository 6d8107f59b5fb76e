package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"erms/auth"
	"erms/models"
	"erms/respond"

	"go.uber.org/zap"
)

type contextKey string

const UserContextKey contextKey = "user"

// TokenResolver maps a bearer token to the user it was issued for.
type TokenResolver interface {
	ResolveCurrentUser(ctx context.Context, token string) (*models.User, error)
}

// Authenticate rejects requests without a valid bearer token and stores the
// resolved user in the request context.
func Authenticate(resolver TokenResolver, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				respond.Unauthorized(w, "Not authenticated")
				return
			}

			user, err := resolver.ResolveCurrentUser(r.Context(), token)
			if err != nil {
				if errors.Is(err, auth.ErrInvalidToken) {
					respond.Unauthorized(w, "Could not validate credentials")
					return
				}
				log.Error("resolve current user failed", zap.Error(err))
				respond.Error(w, http.StatusInternalServerError, "Internal server error")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

func RequireRole(roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := GetUserFromContext(r.Context())
			if user == nil {
				respond.Unauthorized(w, "Not authenticated")
				return
			}

			for _, role := range roles {
				if user.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			respond.Forbidden(w)
		})
	}
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(r *http.Request) string {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, UserContextKey, user)
}

func GetUserFromContext(ctx context.Context) *models.User {
	user, ok := ctx.Value(UserContextKey).(*models.User)
	if !ok {
		return nil
	}
	return user
}
