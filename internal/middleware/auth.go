package middleware

import (
	"net/http"
	"strings"

	"github.com/boxaid/boxaid/internal/auth"
	"github.com/boxaid/boxaid/internal/utils"
)

// AuthMiddleware verifies the bearer JWT and attaches the resulting
// Identity to the request context. The identity is built exactly once
// here; everything downstream receives it through the context.
func AuthMiddleware(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Authorization header required", http.StatusUnauthorized)
				return
			}

			// Bearer token
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				http.Error(w, "Invalid authorization header format", http.StatusUnauthorized)
				return
			}

			claims, err := utils.ValidateToken(parts[1], jwtSecret)
			if err != nil {
				http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
				return
			}

			identity, err := auth.IdentityFromClaims(claims)
			if err != nil {
				http.Error(w, "Malformed token claims", http.StatusUnauthorized)
				return
			}

			ctx := auth.WithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
