package middleware

import (
	"context"
	"net/http"

	"taskdeck/internal/api/util"
	"taskdeck/internal/core/model"
	"taskdeck/internal/core/service"
)

type contextKey string

const principalKey contextKey = "principal"

type AuthMiddleware struct {
	authService service.AuthService
}

func NewAuthMiddleware(authService service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
	}
}

// Authenticate resolves the request credential into a principal and stores
// it on the context. Every failure is the same 401; the response carries no
// hint about why authentication failed.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal := m.authService.Authenticate(util.TokenFromRequest(r))
		if principal == nil {
			http.Error(w, "Not authenticated", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), principalKey, principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole layers a role gate on top of Authenticate. The services check
// roles again for their own contracts; this gate just keeps role-scoped
// routes from reaching them at all.
func (m *AuthMiddleware) RequireRole(roles ...model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return m.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := PrincipalFromContext(r.Context())
			for _, role := range roles {
				if principal.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			http.Error(w, "Not authorized", http.StatusForbidden)
		}))
	}
}

// PrincipalFromContext returns the authenticated principal, or nil when the
// request never passed through Authenticate.
func PrincipalFromContext(ctx context.Context) *model.Principal {
	principal, _ := ctx.Value(principalKey).(*model.Principal)
	return principal
}
