// Package dashboard serves the counters shown on the admin overview page.
package dashboard

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/user/ems-go/auth"
	"github.com/user/ems-go/users"
)

// Summary holds the admin overview counters.
type Summary struct {
	TotalDepartments int `json:"total_departments" example:"4"`
	TotalEmployees   int `json:"total_employees" example:"27"`
}

// SummaryResponse is the body of GET /api/dashboard/summary.
type SummaryResponse struct {
	Success bool    `json:"success" example:"true"`
	Summary Summary `json:"summary"`
}

// DepartmentCounter and EmployeeCounter are satisfied by departments.DepartmentService
// and users.Service.
type DepartmentCounter interface {
	Count(ctx context.Context) (int, error)
}

type EmployeeCounter interface {
	CountByRole(ctx context.Context, role users.Role) (int, error)
}

type Service struct {
	departments DepartmentCounter
	employees   EmployeeCounter
}

func NewService(departments DepartmentCounter, employees EmployeeCounter) *Service {
	return &Service{departments: departments, employees: employees}
}

// Summary computes the counters. Errors from either source are already AppErrors.
func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	deps, err := s.departments.Count(ctx)
	if err != nil {
		return nil, err
	}
	emps, err := s.employees.CountByRole(ctx, users.RoleEmployee)
	if err != nil {
		return nil, err
	}
	return &Summary{TotalDepartments: deps, TotalEmployees: emps}, nil
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the dashboard routes; router must sit behind auth.Authenticate.
func (h *Handler) RegisterRoutes(router chi.Router) {
	router.With(auth.RequireRoles(users.RoleAdmin)).Get("/summary", h.summary)
}

// summary godoc
// @Summary Admin dashboard counters
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dashboard.SummaryResponse
// @Failure 401 {object} apperror.ErrorResponse
// @Failure 403 {object} apperror.ErrorResponse
// @Router /api/dashboard/summary [get]
func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	s, err := h.service.Summary(r.Context())
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusOK, SummaryResponse{Success: true, Summary: *s})
}
