// AngelaMos | 2026
// auth.go

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/carterperez-dev/automarket/internal/session"
)

type TokenVerifier interface {
	VerifyAccessToken(ctx context.Context, token string) (*session.User, error)
}

// OptionalAuth attaches the session user when a valid bearer token is
// present. Missing or bad tokens leave the request anonymous; gating
// decides what anonymous visitors may do.
func OptionalAuth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)

			if token != "" {
				user, err := verifier.VerifyAccessToken(r.Context(), token)
				if err != nil {
					slog.Debug("ignoring invalid access token", "error", err)
				} else {
					r = r.WithContext(session.WithUser(r.Context(), user))
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func ExtractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}
