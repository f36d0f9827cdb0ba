package auth

import (
	"context"
	"fmt"
	"net/http"

	"github.com/user/ems-go/apperror"
	"github.com/user/ems-go/logging"
	"github.com/user/ems-go/users"
)

// CheckRole returns nil when the user attached to ctx holds one of allowed.
// A missing identity is treated as forbidden, never as allowed.
func CheckRole(ctx context.Context, allowed []users.Role) error {
	user, ok := UserFromContext(ctx)
	if !ok {
		return apperror.NewForbiddenError("Access denied", fmt.Errorf("role check without authenticated user"))
	}
	for _, role := range allowed {
		if user.Role == role {
			return nil
		}
	}
	return apperror.NewForbiddenError("Access denied", fmt.Errorf("role %q not in %v", user.Role, allowed))
}

// RequireRoles creates a middleware that only lets through users holding one of roles.
// It must be mounted after Authenticate. Declaring a route with no roles, or with a
// role outside users.AllRoles, is a programming error and panics at startup.
func RequireRoles(roles ...users.Role) func(next http.Handler) http.Handler {
	if len(roles) == 0 {
		panic("auth.RequireRoles: at least one role is required")
	}
	for _, role := range roles {
		if !role.Valid() {
			panic(fmt.Sprintf("auth.RequireRoles: unknown role %q", role))
		}
	}
	allowed := append([]users.Role(nil), roles...)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := CheckRole(r.Context(), allowed); err != nil {
				if _, ok := UserFromContext(r.Context()); !ok {
					logging.FromContext(r.Context()).Error("role guard reached without authenticated user; check route wiring")
				}
				WriteError(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
