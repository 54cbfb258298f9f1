package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/attendly/attendance-backend-go/internal/domain/profile"
	"github.com/attendly/attendance-backend-go/internal/domain/user"
	"github.com/attendly/attendance-backend-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

// RoleMiddleware gates privileged routes. The role claim in the token is a
// hint only; the current role is re-read from the profiles table so a
// demotion or deactivation takes effect before the token expires.
type RoleMiddleware struct {
	profileRepo profile.ProfileRepository
}

func NewRoleMiddleware(profileRepo profile.ProfileRepository) *RoleMiddleware {
	return &RoleMiddleware{profileRepo: profileRepo}
}

var errNoIdentity = errors.New("token carries no user identity")

func (m *RoleMiddleware) currentRole(r *http.Request) (user.Role, error) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return "", errNoIdentity
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", errNoIdentity
	}

	role, err := m.profileRepo.GetRole(r.Context(), userID)
	if err != nil {
		return "", err
	}
	return user.Role(role), nil
}

// deniedLookup separates conditions that warrant a denial from
// infrastructure failures, which must not masquerade as 403s.
func deniedLookup(err error) bool {
	return errors.Is(err, errNoIdentity) || errors.Is(err, profile.ErrProfileNotFound)
}

func lookupFailed(w http.ResponseWriter, err error) {
	slog.Error("Role lookup failed", "error", err)
	response.InternalServerError(w, "Could not verify permissions")
}

// RequireAdmin requires admin role
func (m *RoleMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, err := m.currentRole(r)
		switch {
		case err != nil && deniedLookup(err):
			response.HandleError(w, user.ErrAdminPrivilegeRequired)
		case err != nil:
			lookupFailed(w, err)
		case !role.IsAdmin():
			response.HandleError(w, user.ErrAdminPrivilegeRequired)
		default:
			next.ServeHTTP(w, r)
		}
	})
}

// RequireManager requires manager or admin role
func (m *RoleMiddleware) RequireManager(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, err := m.currentRole(r)
		switch {
		case err != nil && deniedLookup(err):
			response.HandleError(w, user.ErrManagerAccessRequired)
		case err != nil:
			lookupFailed(w, err)
		case !role.IsManager():
			response.HandleError(w, user.ErrManagerAccessRequired)
		default:
			next.ServeHTTP(w, r)
		}
	})
}

// RequirePermission checks a single permission against the current role.
func (m *RoleMiddleware) RequirePermission(permission user.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, err := m.currentRole(r)
			if err != nil {
				if deniedLookup(err) {
					response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s'", permission))
					return
				}
				lookupFailed(w, err)
				return
			}

			if !user.HasPermission(role, permission) {
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s', but user role is '%s'", permission, role))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
