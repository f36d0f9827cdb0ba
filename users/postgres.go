package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/user/ems-go/db"
)

// PostgresStore is the Store backed by the users table.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore creates a PostgresStore on top of an sqlx handle.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, u *User) error {
	query := `INSERT INTO users (name, email, password_hash, role, employee_id)
              VALUES ($1, $2, $3, $4, $5)
              RETURNING id, created_at, updated_at`
	err := s.db.QueryRowxContext(ctx, query, u.Name, u.Email, u.PasswordHash, string(u.Role), u.EmployeeID).
		Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	query := `SELECT id, name, email, password_hash, role, employee_id, created_at, updated_at
              FROM users WHERE lower(email) = lower($1)`
	if err := s.db.GetContext(ctx, &u, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select user by email: %w", err)
	}
	return &u, nil
}

// FindByID never selects password_hash.
func (s *PostgresStore) FindByID(ctx context.Context, id string) (*User, error) {
	// A malformed id can't match a uuid column; skip the round trip and the driver error.
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}

	var u User
	query := `SELECT id, name, email, role, employee_id, created_at, updated_at
              FROM users WHERE id = $1`
	if err := s.db.GetContext(ctx, &u, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select user by id: %w", err)
	}
	return &u, nil
}

func (s *PostgresStore) CountByRole(ctx context.Context, role Role) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM users WHERE role = $1`, string(role)); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}
