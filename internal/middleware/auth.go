package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/oreoflick/Non-Profit-Donation-and-Fund-Management-System/internal/apperr"
	"github.com/oreoflick/Non-Profit-Donation-and-Fund-Management-System/internal/auth"
	"github.com/oreoflick/Non-Profit-Donation-and-Fund-Management-System/internal/httputil"
	"github.com/oreoflick/Non-Profit-Donation-and-Fund-Management-System/internal/logger"
	"github.com/oreoflick/Non-Profit-Donation-and-Fund-Management-System/internal/models"
	"go.uber.org/zap"
)

type claimsKey struct{}

// ClaimsFromContext returns the identity stored by Authenticated.
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*auth.Claims)
	return c, ok
}

// Authenticated verifies the bearer token and stores its claims in the
// request context.
func Authenticated(tokens *auth.TokenIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				httputil.WriteError(w, http.StatusUnauthorized, "authentication token required")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
				httputil.WriteError(w, http.StatusUnauthorized, "invalid authorization header")
				return
			}

			claims, err := tokens.Parse(strings.TrimSpace(parts[1]))
			if err != nil {
				logger.Log.Debug("rejected bearer token", zap.Error(err))
				msg := "invalid token"
				if e, ok := apperr.As(err); ok {
					msg = e.Message
				}
				httputil.WriteError(w, http.StatusUnauthorized, msg)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole admits requests whose verified role passes auth.Allowed. It
// must run after Authenticated.
func RequireRole(roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				httputil.WriteError(w, http.StatusUnauthorized, "user authentication required")
				return
			}
			if !auth.Allowed(claims.Role, roles...) {
				httputil.WriteError(w, http.StatusForbidden, "access denied. insufficient privileges")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
