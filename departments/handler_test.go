package departments

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/ems-go/apperror"
	"github.com/user/ems-go/auth"
	"github.com/user/ems-go/users"
)

// newTestRouter mounts the handler with a stub identity in place of auth.Authenticate.
func newTestRouter(svc DepartmentService, role users.Role) http.Handler {
	r := chi.NewRouter()
	r.Route("/api/department", func(r chi.Router) {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				u := &users.User{ID: "u-1", Role: role}
				next.ServeHTTP(w, req.WithContext(auth.NewContextWithUser(req.Context(), u)))
			})
		})
		NewDepartmentHandler(svc).RegisterRoutes(r)
	})
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandler_CRUD(t *testing.T) {
	svc := NewDepartmentService(NewMemoryStore())
	router := newTestRouter(svc, users.RoleAdmin)

	rec := do(t, router, http.MethodPost, "/api/department/add", `{"dep_name":"Engineering","description":"Builds"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created ItemResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.True(t, created.Success)
	id := created.Department.ID

	rec = do(t, router, http.MethodGet, "/api/department/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got ItemResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Engineering", got.Department.Name)

	rec = do(t, router, http.MethodPut, "/api/department/"+id, `{"dep_name":"Platform"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var updated ItemResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, "Platform", updated.Department.Name)
	assert.Equal(t, "Builds", updated.Department.Description)

	rec = do(t, router, http.MethodGet, "/api/department", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list ListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Departments, 1)

	rec = do(t, router, http.MethodDelete, "/api/department/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var deleted ItemResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &deleted))
	assert.Equal(t, id, deleted.Department.ID)

	rec = do(t, router, http.MethodDelete, "/api/department/"+id, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_EmptyListIsArray(t *testing.T) {
	router := newTestRouter(NewDepartmentService(NewMemoryStore()), users.RoleEmployee)

	rec := do(t, router, http.MethodGet, "/api/department", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"departments":[]}`, rec.Body.String())
}

func TestHandler_Errors(t *testing.T) {
	router := newTestRouter(NewDepartmentService(NewMemoryStore()), users.RoleAdmin)
	missing := "9b2e4c1a-7d3f-4e8b-a6c5-2f1e0d9c8b7a"

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
		wantError  string
	}{
		{"blank name", http.MethodPost, "/api/department/add", `{"dep_name":"   ","description":""}`, http.StatusBadRequest, "Department name is required"},
		{"missing name", http.MethodPost, "/api/department/add", `{"description":"x"}`, http.StatusBadRequest, "Department name is required"},
		{"bad json", http.MethodPost, "/api/department/add", `{"dep_name":`, http.StatusBadRequest, "Invalid request body"},
		{"malformed id", http.MethodGet, "/api/department/123", "", http.StatusBadRequest, "Invalid department ID"},
		{"unknown id", http.MethodGet, "/api/department/" + missing, "", http.StatusNotFound, "Department not found"},
		{"empty update", http.MethodPut, "/api/department/" + missing, `{}`, http.StatusBadRequest, "No fields provided for update"},
		{"update unknown", http.MethodPut, "/api/department/" + missing, `{"dep_name":"X"}`, http.StatusNotFound, "Department not found"},
		{"delete malformed", http.MethodDelete, "/api/department/abc", "", http.StatusBadRequest, "Invalid department ID"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, router, tc.method, tc.path, tc.body)
			assert.Equal(t, tc.wantStatus, rec.Code)

			var body apperror.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.Equal(t, tc.wantError, body.Error)
		})
	}
}

func TestHandler_EmployeeIsReadOnly(t *testing.T) {
	svc := NewDepartmentService(NewMemoryStore())
	router := newTestRouter(svc, users.RoleEmployee)

	rec := do(t, router, http.MethodPost, "/api/department/add", `{"dep_name":"HR"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	deps, err := svc.List(httptest.NewRequest(http.MethodGet, "/", nil).Context())
	require.NoError(t, err)
	assert.Empty(t, deps)

	rec = do(t, router, http.MethodGet, "/api/department", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
