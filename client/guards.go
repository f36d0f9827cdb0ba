package client

import "github.com/user/ems-go/users"

// Client-side routes the guards redirect to.
const (
	LoginRoute        = "/login"
	UnauthorizedRoute = "/unauthorized"
	DepartmentsRoute  = "/admin-dashboard/departments"
)

// Guard decides whether a screen may be shown for sess. It returns "" to allow, or the
// route to redirect to. Guards only shape the user experience; the API enforces access
// on its own.
type Guard func(sess *Session) (redirect string)

// RequireAuth redirects to the login screen when there is no token.
func RequireAuth() Guard {
	return func(sess *Session) string {
		if !sess.Authenticated() {
			return LoginRoute
		}
		return ""
	}
}

// RequireRole redirects to the unauthorized screen when the session user's role is not
// one of roles. A session without a user is sent to the login screen.
func RequireRole(roles ...users.Role) Guard {
	allowed := make(map[users.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(sess *Session) string {
		if !sess.Authenticated() || sess.User == nil {
			return LoginRoute
		}
		if !allowed[sess.User.Role] {
			return UnauthorizedRoute
		}
		return ""
	}
}

// Chain runs guards in order and returns the first redirect.
func Chain(guards ...Guard) Guard {
	return func(sess *Session) string {
		for _, g := range guards {
			if redirect := g(sess); redirect != "" {
				return redirect
			}
		}
		return ""
	}
}

// AdminOnly is the guard used by every admin dashboard screen.
var AdminOnly = Chain(RequireAuth(), RequireRole(users.RoleAdmin))
