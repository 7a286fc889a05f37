package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Praveenjayasiri/Simple-User-Management-System/internal/auth"
	"github.com/Praveenjayasiri/Simple-User-Management-System/models"
)

type contextKey string

const userContextKey contextKey = "user"

// Middleware carries the dependencies of the bearer token middleware.
type Middleware struct {
	Tokens *auth.TokenIssuer
}

func NewMiddleware(tokens *auth.TokenIssuer) *Middleware {
	return &Middleware{Tokens: tokens}
}

// AuthMiddleware rejects requests without a valid bearer token and stores
// the token's user in the request context.
func (m *Middleware) AuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		tokenStr, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || tokenStr == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		claims, err := m.Tokens.ParseToken(tokenStr)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, claims.User())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole wraps AuthMiddleware and additionally requires role.
func (m *Middleware) RequireRole(role string, next http.HandlerFunc) http.HandlerFunc {
	return m.AuthMiddleware(func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())
		if user == nil || user.Role != role {
			writeError(w, http.StatusForbidden, "access denied")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// UserFromContext returns the user placed in ctx by AuthMiddleware.
func UserFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(userContextKey).(*models.User)
	return user
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
