package auth

import (
	"net/http"
	"strings"
)

// TokenValidator accepts or rejects an admin bearer token.
type TokenValidator interface {
	ValidateToken(token string) error
}

// AdminAuthMiddleware rejects requests without a valid admin bearer token.
func AdminAuthMiddleware(v TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || v.ValidateToken(strings.TrimSpace(token)) != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"ok":false,"message":"Unauthorized"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
