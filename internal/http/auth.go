package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/jmoiron/sqlx"

	"siwes-backend-go/internal/models"
	"siwes-backend-go/internal/services"
)

// Identity is the authenticated caller, rebuilt from the token and the
// credential store on every request. No ambient session state exists.
type Identity struct {
	ID    string
	Name  string
	Email string
	Role  models.Role
}

type contextKey string

const ctxIdentity contextKey = "identity"

// WithAuth verifies the bearer token and then re-fetches the user so that
// deactivated or deleted accounts are rejected even with a valid token.
func WithAuth(tokens services.TokenService, db *sqlx.DB) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" {
				WriteError(w, http.StatusUnauthorized, "No token, authorization denied")
				return
			}
			if !strings.HasPrefix(auth, "Bearer ") {
				WriteError(w, http.StatusUnauthorized, "Invalid token format")
				return
			}
			tokenStr := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			claims, err := tokens.VerifyAccessToken(tokenStr)
			if err != nil {
				WriteServiceError(w, err)
				return
			}
			user, err := services.GetUserByID(db, claims.UserID)
			if err != nil {
				WriteError(w, http.StatusUnauthorized, "Token is not valid - user not found")
				return
			}
			if !user.IsActive {
				WriteError(w, http.StatusUnauthorized, "Account is deactivated")
				return
			}
			identity := Identity{ID: user.ID, Name: user.Name, Email: user.Email, Role: user.Role}
			ctx := context.WithValue(r.Context(), ctxIdentity, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func CurrentIdentity(r *http.Request) Identity {
	if value, ok := r.Context().Value(ctxIdentity).(Identity); ok {
		return value
	}
	return Identity{}
}

type forbiddenResponse struct {
	Error         string        `json:"error"`
	RequiredRoles []models.Role `json:"requiredRoles"`
	UserRole      models.Role   `json:"userRole"`
}

// RequireAnyRole gates a subtree to the given roles. The 403 body names the
// required roles and the caller's actual role.
func RequireAnyRole(roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := CurrentIdentity(r)
			for _, role := range roles {
				if identity.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			WriteJSON(w, http.StatusForbidden, forbiddenResponse{
				Error:         "Access denied. Insufficient permissions.",
				RequiredRoles: roles,
				UserRole:      identity.Role,
			})
		})
	}
}

func RequireRole(role models.Role) func(http.Handler) http.Handler {
	return RequireAnyRole(role)
}
