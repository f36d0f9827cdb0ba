package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/user/ems-go/apperror"
	"github.com/user/ems-go/logging"
	"github.com/user/ems-go/users"
)

// UserLookup resolves the user a token was issued for. users.Service satisfies it;
// it must return an apperror NotFound for unknown ids and never load the password hash.
type UserLookup interface {
	FindByID(ctx context.Context, id string) (*users.User, error)
}

// bearerToken extracts the token from an `Authorization: Bearer <token>` header.
// The scheme is matched case-insensitively.
func bearerToken(r *http.Request) (string, bool) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return "", false
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// Authenticate creates the bearer-token middleware.
//
//  1. no header or a non-Bearer scheme        → 401 "Token not provided"
//  2. token fails verification                → 401 "Invalid token"
//  3. token refers to a user that is gone     → 404 "User not found"
//  4. otherwise the user (without password hash) is attached to the request context.
func Authenticate(tokens *TokenService, lookup UserLookup) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := bearerToken(r)
			if !ok {
				WriteError(w, r, apperror.NewUnauthorizedError("Token not provided", nil))
				return
			}

			userID, err := tokens.Verify(tokenString)
			if err != nil {
				WriteError(w, r, apperror.NewUnauthorizedError("Invalid token", err))
				return
			}

			user, err := lookup.FindByID(r.Context(), userID)
			if err != nil {
				WriteError(w, r, err)
				return
			}

			entry := logging.FromContext(r.Context()).WithField("user_id", user.ID)
			ctx := logging.NewContext(NewContextWithUser(r.Context(), user), entry)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
