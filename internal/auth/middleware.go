package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/twendycreate/twendy-api/internal/models"
	pkghttp "github.com/twendycreate/twendy-api/pkg/http"
)

// contextKey is a custom type for context keys
type contextKey string

const (
	// UserContextKey is the key for storing session claims in context
	UserContextKey contextKey = "user"
)

// Middleware validates the bearer session token and injects its claims
// into the request context.
func Middleware(tm *TokenManager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := BearerToken(r)
			if tokenString == "" {
				pkghttp.WriteUnauthorized(w, "Não autorizado")
				return
			}

			claims, err := tm.Verify(tokenString)
			if err != nil {
				pkghttp.WriteUnauthorized(w, "Não autorizado")
				return
			}

			ctx := context.WithValue(r.Context(), UserContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole enforces role-based access after Middleware has run. The role
// is read from the live user record, not the token, so demotions take
// effect immediately.
func RequireRole(userRepo UserFetcher, role string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := GetUserFromContext(r)
			if claims == nil {
				pkghttp.WriteUnauthorized(w, "Não autorizado")
				return
			}

			user, err := userRepo.GetByID(r.Context(), claims.UserID)
			if err != nil {
				if errors.Is(err, models.ErrNotFound) {
					pkghttp.WriteUnauthorized(w, "Não autorizado")
					return
				}
				pkghttp.WriteInternalError(w, "Erro interno do servidor")
				return
			}

			if user.Role != role {
				pkghttp.WriteForbidden(w, "Permissões insuficientes")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// BearerToken extracts the raw token from the Authorization header, or ""
// when the header is absent or malformed.
func BearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// GetUserFromContext extracts session claims from the request context
func GetUserFromContext(r *http.Request) *models.SessionClaims {
	claims, ok := r.Context().Value(UserContextKey).(*models.SessionClaims)
	if !ok {
		return nil
	}
	return claims
}

// UserFetcher is the slice of the user repository the middleware needs.
type UserFetcher interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}
