package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/user/ems-go/apperror"
	"github.com/user/ems-go/users"
)

func TestCheckRole(t *testing.T) {
	admin := &users.User{ID: "a", Role: users.RoleAdmin}
	staff := &users.User{ID: "e", Role: users.RoleEmployee}

	assert.NoError(t, CheckRole(NewContextWithUser(context.Background(), admin), []users.Role{users.RoleAdmin}))
	assert.NoError(t, CheckRole(NewContextWithUser(context.Background(), staff), users.AllRoles))

	err := CheckRole(NewContextWithUser(context.Background(), staff), []users.Role{users.RoleAdmin})
	assert.True(t, apperror.IsForbiddenError(err))

	err = CheckRole(context.Background(), users.AllRoles)
	assert.True(t, apperror.IsForbiddenError(err), "missing identity must never pass")
}

func TestRequireRoles(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})
	guarded := RequireRoles(users.RoleAdmin)(next)

	tests := []struct {
		name       string
		user       *users.User
		wantStatus int
		wantCalled bool
	}{
		{"admin allowed", &users.User{ID: "a", Role: users.RoleAdmin}, http.StatusOK, true},
		{"employee denied", &users.User{ID: "e", Role: users.RoleEmployee}, http.StatusForbidden, false},
		{"no identity denied", nil, http.StatusForbidden, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			called = false
			req := httptest.NewRequest(http.MethodDelete, "/", nil)
			if tc.user != nil {
				req = req.WithContext(NewContextWithUser(req.Context(), tc.user))
			}
			rec := httptest.NewRecorder()
			guarded.ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Equal(t, tc.wantCalled, called)
			if !tc.wantCalled {
				assert.Equal(t, "Access denied", decodeError(t, rec).Error)
			}
		})
	}
}

func TestRequireRoles_PanicsOnBadDeclaration(t *testing.T) {
	assert.Panics(t, func() { RequireRoles() })
	assert.Panics(t, func() { RequireRoles(users.Role("superuser")) })
}
