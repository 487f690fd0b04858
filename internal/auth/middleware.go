package auth

import (
	"context"
	"net/http"
	"strings"

	"calctree/internal/handlers"
)

type contextKey string

const userIDKey = contextKey("userID")

// Middleware enforces a Bearer token on every request it wraps and puts
// the authenticated user id in the request context. A missing header is
// 401; a present but unverifiable token is 403.
func Middleware(svc *Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				handlers.WriteError(w, http.StatusUnauthorized, "Authentication required")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				handlers.WriteError(w, http.StatusUnauthorized, "Authentication required")
				return
			}

			claims, err := svc.ParseToken(parts[1])
			if err != nil {
				handlers.WriteError(w, http.StatusForbidden, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext returns the user id the middleware stored, if any.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDKey).(int64)
	return userID, ok
}

// ContextWithUserID is a test hook for exercising handlers without the
// middleware.
func ContextWithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}
