package middleware

import (
	"net/http"
	"strings"

	svc "github.com/kedarvyas/mandirapp/internal/services"
	"github.com/kedarvyas/mandirapp/pkg/token"
)

// RequireAuth validates the bearer token and rejects callers whose token
// type does not match the route's audience: staff tokens never reach member
// routes and vice versa.
func (m *Middleware) RequireAuth(jwtType token.JWTType) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := ""

			authHeader := r.Header.Get("Authorization")
			if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
				tokenString = strings.TrimPrefix(authHeader, "Bearer ")
			}

			if tokenString == "" {
				m.apiError(w, "Unauthorized: No token provided", http.StatusUnauthorized)
				return
			}

			claims, err := m.TokenSvc.ValidateToken(tokenString)
			if err != nil {
				m.apiError(w, "Unauthorized: Invalid token", http.StatusUnauthorized)
				return
			}

			if claims.Type != jwtType {
				m.apiError(w, "Forbidden: Wrong token type for this resource", http.StatusForbidden)
				return
			}

			authCtx := svc.AuthContextValue{
				ID:             claims.ID,
				OrganizationID: claims.OrganizationID,
				Email:          claims.Email,
				Phone:          claims.Phone,
				Role:           claims.Role,
				Type:           claims.Type,
			}

			next.ServeHTTP(w, r.WithContext(svc.NewContextWithAuth(r.Context(), &authCtx)))
		})
	}
}

// RequireRole gates a staff route on a specific dashboard role. Must run
// after RequireAuth.
func (m *Middleware) RequireRole(requiredRoles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := svc.AuthFromContext(r.Context())
			if !ok {
				m.apiError(w, "Unauthorized: No user found", http.StatusUnauthorized)
				return
			}

			hasRole := false
			for _, role := range requiredRoles {
				if claims.Role == role {
					hasRole = true
					break
				}
			}

			if !hasRole {
				m.apiError(w, "Forbidden: Insufficient permissions", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
