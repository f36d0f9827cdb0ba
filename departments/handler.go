package departments

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/user/ems-go/auth"
	"github.com/user/ems-go/users"
)

// DepartmentHandler handles HTTP requests for departments.
// It receives HTTP requests, delegates to the DepartmentService and writes the
// `{success, ...}` envelope the front end expects.
type DepartmentHandler struct {
	service DepartmentService
}

// NewDepartmentHandler creates a new DepartmentHandler.
func NewDepartmentHandler(service DepartmentService) *DepartmentHandler {
	return &DepartmentHandler{service: service}
}

// RegisterRoutes registers the department routes on router, which is expected to be
// mounted at /api/department behind auth.Authenticate. Reads are open to every role;
// writes are admin-only.
func (h *DepartmentHandler) RegisterRoutes(router chi.Router) {
	router.Group(func(r chi.Router) {
		r.Use(auth.RequireRoles(users.AllRoles...))
		r.Get("/", h.list)
		r.Get("/{id}", h.get)
	})
	router.Group(func(r chi.Router) {
		r.Use(auth.RequireRoles(users.RoleAdmin))
		r.Post("/add", h.create)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)
	})
}

// list godoc
// @Summary List departments
// @Tags Departments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} departments.ListResponse
// @Failure 401 {object} apperror.ErrorResponse
// @Failure 500 {object} apperror.ErrorResponse
// @Router /api/department [get]
func (h *DepartmentHandler) list(w http.ResponseWriter, r *http.Request) {
	deps, err := h.service.List(r.Context())
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusOK, ListResponse{Success: true, Departments: deps})
}

// create godoc
// @Summary Create a department
// @Tags Departments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body departments.CreateRequest true "New department"
// @Success 201 {object} departments.ItemResponse
// @Failure 400 {object} apperror.ErrorResponse "Missing or blank dep_name"
// @Failure 401 {object} apperror.ErrorResponse
// @Failure 403 {object} apperror.ErrorResponse
// @Router /api/department/add [post]
func (h *DepartmentHandler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := auth.DecodeJSON(r, &req); err != nil {
		auth.WriteError(w, r, err)
		return
	}
	d, err := h.service.Create(r.Context(), req)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusCreated, ItemResponse{Success: true, Department: d})
}

// get godoc
// @Summary Get a department
// @Tags Departments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Department ID"
// @Success 200 {object} departments.ItemResponse
// @Failure 400 {object} apperror.ErrorResponse "Malformed ID"
// @Failure 404 {object} apperror.ErrorResponse
// @Router /api/department/{id} [get]
func (h *DepartmentHandler) get(w http.ResponseWriter, r *http.Request) {
	d, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusOK, ItemResponse{Success: true, Department: d})
}

// update godoc
// @Summary Update a department
// @Description Only the fields present in the body are changed.
// @Tags Departments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Department ID"
// @Param body body departments.UpdateRequest true "Fields to change"
// @Success 200 {object} departments.ItemResponse
// @Failure 400 {object} apperror.ErrorResponse
// @Failure 403 {object} apperror.ErrorResponse
// @Failure 404 {object} apperror.ErrorResponse
// @Router /api/department/{id} [put]
func (h *DepartmentHandler) update(w http.ResponseWriter, r *http.Request) {
	var req UpdateRequest
	if err := auth.DecodeJSON(r, &req); err != nil {
		auth.WriteError(w, r, err)
		return
	}
	d, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusOK, ItemResponse{Success: true, Department: d})
}

// delete godoc
// @Summary Delete a department
// @Tags Departments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Department ID"
// @Success 200 {object} departments.ItemResponse "The deleted department"
// @Failure 400 {object} apperror.ErrorResponse
// @Failure 403 {object} apperror.ErrorResponse
// @Failure 404 {object} apperror.ErrorResponse
// @Router /api/department/{id} [delete]
func (h *DepartmentHandler) delete(w http.ResponseWriter, r *http.Request) {
	d, err := h.service.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusOK, ItemResponse{Success: true, Department: d})
}
