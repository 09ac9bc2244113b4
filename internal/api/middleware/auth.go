package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/brokersim/backend/internal/api/response"
)

type contextKey string

// userIDKey carries the verified user ID through the request context.
const userIDKey contextKey = "userID"

// TokenVerifier validates a session token and returns the user ID it
// carries. Satisfied by the auth service.
type TokenVerifier interface {
	VerifyToken(token string) (string, error)
}

// Auth verifies the Bearer token on every request and injects the resolved
// user ID into the request context. Handlers downstream trust the ID
// unconditionally and never read ambient credential state.
func Auth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				response.RespondError(w, http.StatusUnauthorized, "no token provided", nil)
				return
			}

			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok {
				response.RespondError(w, http.StatusUnauthorized, "malformed authorization header", nil)
				return
			}

			userID, err := verifier.VerifyToken(token)
			if err != nil {
				response.RespondError(w, http.StatusUnauthorized, "invalid or expired token", nil)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserID extracts the verified user ID from a request context.
// Returns an empty string when the request did not pass the Auth middleware.
func UserID(ctx context.Context) string {
	userID, _ := ctx.Value(userIDKey).(string)
	return userID
}

// WithUserID returns a context carrying the given user ID. Test helper for
// exercising handlers without the full middleware stack.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}
