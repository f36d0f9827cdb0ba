package departments

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/user/ems-go/apperror"
	"github.com/user/ems-go/validation"
)

var departmentMessages = validation.Messages{
	"dep_name.required": "Department name is required",
	"dep_name.max":      "Department name must be at most 120 characters",
	"description.max":   "Description must be at most 1000 characters",
}

// DepartmentService defines the department operations used by the HTTP handler,
// the dashboard and the CLI.
type DepartmentService interface {
	List(ctx context.Context) ([]*Department, error)
	Create(ctx context.Context, req CreateRequest) (*Department, error)
	Get(ctx context.Context, id string) (*Department, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Department, error)
	Delete(ctx context.Context, id string) (*Department, error)
	Count(ctx context.Context) (int, error)
}

type departmentServiceImpl struct {
	store Store
}

// NewDepartmentService creates a DepartmentService on top of store.
func NewDepartmentService(store Store) DepartmentService {
	return &departmentServiceImpl{store: store}
}

func (s *departmentServiceImpl) List(ctx context.Context) ([]*Department, error) {
	deps, err := s.store.List(ctx)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to list departments", err)
	}
	return deps, nil
}

// Create trims the input, validates it and persists a new department.
// Nothing is written when validation fails.
func (s *departmentServiceImpl) Create(ctx context.Context, req CreateRequest) (*Department, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Description = strings.TrimSpace(req.Description)
	if err := validation.Struct(req, departmentMessages); err != nil {
		return nil, err
	}

	d := &Department{Name: req.Name, Description: req.Description}
	if err := s.store.Create(ctx, d); err != nil {
		return nil, apperror.NewDatabaseError("failed to create department", err)
	}
	return d, nil
}

func (s *departmentServiceImpl) Get(ctx context.Context, id string) (*Department, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	d, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, translateStoreError(err, "failed to get department")
	}
	return d, nil
}

// Update merges the non-nil fields of req into the stored record. Concurrent updates
// are not detected; the last one to reach the store wins.
func (s *departmentServiceImpl) Update(ctx context.Context, id string, req UpdateRequest) (*Department, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	if req.Name == nil && req.Description == nil {
		return nil, apperror.NewValidationError("No fields provided for update", nil)
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperror.NewValidationError(departmentMessages["dep_name.required"], nil)
		}
		req.Name = &name
	}
	if req.Description != nil {
		desc := strings.TrimSpace(*req.Description)
		req.Description = &desc
	}
	if err := validation.Struct(req, departmentMessages); err != nil {
		return nil, err
	}

	d, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, translateStoreError(err, "failed to get department")
	}
	if req.Name != nil {
		d.Name = *req.Name
	}
	if req.Description != nil {
		d.Description = *req.Description
	}

	if err := s.store.Update(ctx, d); err != nil {
		return nil, translateStoreError(err, "failed to update department")
	}
	return d, nil
}

func (s *departmentServiceImpl) Delete(ctx context.Context, id string) (*Department, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	d, err := s.store.Delete(ctx, id)
	if err != nil {
		return nil, translateStoreError(err, "failed to delete department")
	}
	return d, nil
}

func (s *departmentServiceImpl) Count(ctx context.Context) (int, error) {
	n, err := s.store.Count(ctx)
	if err != nil {
		return 0, apperror.NewDatabaseError("failed to count departments", err)
	}
	return n, nil
}

// checkID rejects ids that cannot exist in the store before any query is made.
func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperror.NewValidationError("Invalid department ID", err)
	}
	return nil
}

func translateStoreError(err error, msg string) error {
	if errors.Is(err, ErrNotFound) {
		return apperror.NewNotFoundError("Department not found", err)
	}
	return apperror.NewDatabaseError(msg, err)
}
