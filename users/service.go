package users

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/user/ems-go/apperror"
	"github.com/user/ems-go/validation"
)

// CreateUserInput carries the fields needed to register a user.
type CreateUserInput struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=6"`
	Role       Role   `json:"role" validate:"required"`
	EmployeeID string `json:"employee_id" validate:"omitempty,uuid"`
}

// Service implements user registration and credential checks on top of a Store.
type Service struct {
	store Store
	cost  int
	// dummyHash is compared against when the email is unknown, so both failure
	// paths of Authenticate cost one bcrypt comparison.
	dummyHash []byte
}

// NewService creates a Service using bcrypt.DefaultCost.
func NewService(store Store) *Service {
	return NewServiceWithCost(store, bcrypt.DefaultCost)
}

// NewServiceWithCost lets tests use a cheap bcrypt cost.
func NewServiceWithCost(store Store, cost int) *Service {
	dummy, _ := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), cost)
	return &Service{store: store, cost: cost, dummyHash: dummy}
}

// Create validates the input, hashes the password and persists the user.
// The returned user never carries the hash.
func (s *Service) Create(ctx context.Context, in CreateUserInput) (*User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.EmployeeID = strings.TrimSpace(in.EmployeeID)

	if err := validation.Struct(in, nil); err != nil {
		return nil, err
	}
	if !in.Role.Valid() {
		return nil, apperror.NewValidationError("role must be one of: admin, employee", nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, apperror.NewInternalError("failed to hash password", err)
	}

	u := &User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         in.Role,
	}
	if in.EmployeeID != "" {
		u.EmployeeID = &in.EmployeeID
	}

	if err := s.store.Create(ctx, u); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil, apperror.NewConflictError("email already exists", err)
		}
		return nil, apperror.NewDatabaseError("failed to create user", err)
	}
	return u.Public(), nil
}

// Authenticate checks an email/password pair. Unknown emails and wrong passwords
// produce the same Unauthorized error.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	u, err := s.store.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return nil, apperror.NewUnauthorizedError("Invalid email or password", nil)
		}
		return nil, apperror.NewDatabaseError("failed to get user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, apperror.NewUnauthorizedError("Invalid email or password", nil)
	}
	return u.Public(), nil
}

// FindByID returns the user (without password hash) or a NotFound error.
func (s *Service) FindByID(ctx context.Context, id string) (*User, error) {
	u, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperror.NewNotFoundError("User not found", err)
		}
		return nil, apperror.NewDatabaseError("failed to get user", err)
	}
	return u, nil
}

// CountByRole returns how many users hold role.
func (s *Service) CountByRole(ctx context.Context, role Role) (int, error) {
	n, err := s.store.CountByRole(ctx, role)
	if err != nil {
		return 0, apperror.NewDatabaseError("failed to count users", err)
	}
	return n, nil
}
