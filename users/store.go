package users

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when no user matches the lookup.
	ErrNotFound = errors.New("user not found")
	// ErrEmailTaken is returned by Create when the email is already registered.
	ErrEmailTaken = errors.New("email already registered")
)

// Store persists users.
type Store interface {
	// Create inserts u and fills in its ID and timestamps.
	Create(ctx context.Context, u *User) error
	// FindByEmail returns the user including its password hash. Emails match case-insensitively.
	FindByEmail(ctx context.Context, email string) (*User, error)
	// FindByID returns the user without its password hash.
	FindByID(ctx context.Context, id string) (*User, error)
	// CountByRole returns how many users hold role.
	CountByRole(ctx context.Context, role Role) (int, error)
}
