package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/cardlet/cardlet-invites/internal/domain"
	"github.com/cardlet/cardlet-invites/internal/http/response"
	"github.com/cardlet/cardlet-invites/internal/service"
	"github.com/cardlet/cardlet-invites/pkg/auth"
	"github.com/cardlet/cardlet-invites/pkg/logger"
)

type principalKeyType struct{}

var principalKey principalKeyType

// Principal returns the authenticated account on the request, or nil when the
// request carried no usable bearer token.
func Principal(r *http.Request) *domain.User {
	user, _ := r.Context().Value(principalKey).(*domain.User)
	return user
}

// Authenticate resolves the Authorization bearer token into an account and
// stores it on the request context. It never rejects: requests without a
// valid token simply continue unauthenticated, and RequireUser decides
// downstream whether that is acceptable.
func Authenticate(jwtSecret string, users service.UserService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := auth.Parse(strings.TrimPrefix(header, "Bearer "), jwtSecret)
			if err != nil {
				logger.DebugContext(r.Context(), "Rejected bearer token", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			user, err := users.GetByUsername(r.Context(), claims.Username)
			if err != nil {
				logger.ErrorContext(r.Context(), "Failed to load principal", "error", err, "username", claims.Username)
				next.ServeHTTP(w, r)
				return
			}
			if user == nil {
				logger.DebugContext(r.Context(), "Token for unknown account", "username", claims.Username)
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), principalKey, user)
			ctx = context.WithValue(ctx, logger.UsernameKey, user.Username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireUser gates routes that need an authenticated principal.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if Principal(r) == nil {
			response.Unauthorized(w, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
