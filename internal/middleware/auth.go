package middleware

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"deliverus/internal/domain"
	"deliverus/internal/infrastructure/logger"
	"deliverus/internal/response"
)

type userKey struct{}

// Authenticator resolves the user behind a bearer token.
type Authenticator interface {
	AuthenticateByToken(ctx context.Context, token string) (*domain.User, error)
}

func WithUser(ctx context.Context, u *domain.User) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

func UserFromContext(ctx context.Context) (*domain.User, bool) {
	u, ok := ctx.Value(userKey{}).(*domain.User)
	return u, ok && u != nil
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// IsLoggedIn rejects the request with 401 unless it carries a bearer token
// that auth accepts. The resolved user is stored in the request context.
func IsLoggedIn(auth Authenticator, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			l := logger.FromContext(r.Context(), log)

			token := bearerToken(r)
			if token == "" {
				l.Debug("missing bearer token")
				response.Unauthorized(w, r, "Unauthorized")
				return
			}

			user, err := auth.AuthenticateByToken(r.Context(), token)
			if err != nil {
				l.Info("authentication failed", zap.Error(err))
				response.Unauthorized(w, r, "Unauthorized")
				return
			}

			ctx := WithUser(r.Context(), user)
			ctx = logger.WithContext(ctx, l.With(zap.Uint("userId", user.ID)))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// HasRole must run after IsLoggedIn.
func HasRole(roles ...domain.UserType) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, r, "Unauthorized")
				return
			}
			if !user.HasRole(roles...) {
				response.Forbidden(w, r, "Not enough privileges. This entity does not have access to this resource")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
