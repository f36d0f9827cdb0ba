package departments

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const departmentColumns = `id, dep_name, description, created_at, updated_at`

// PostgresStore is the Store backed by the departments table.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore creates a PostgresStore on top of an sqlx handle.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) List(ctx context.Context) ([]*Department, error) {
	deps := []*Department{}
	query := `SELECT ` + departmentColumns + ` FROM departments ORDER BY created_at, id`
	if err := s.db.SelectContext(ctx, &deps, query); err != nil {
		return nil, fmt.Errorf("select departments: %w", err)
	}
	return deps, nil
}

func (s *PostgresStore) Create(ctx context.Context, d *Department) error {
	query := `INSERT INTO departments (dep_name, description)
              VALUES ($1, $2)
              RETURNING id, created_at, updated_at`
	if err := s.db.QueryRowxContext(ctx, query, d.Name, d.Description).
		Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return fmt.Errorf("insert department: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*Department, error) {
	var d Department
	query := `SELECT ` + departmentColumns + ` FROM departments WHERE id = $1`
	if err := s.db.GetContext(ctx, &d, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select department: %w", err)
	}
	return &d, nil
}

func (s *PostgresStore) Update(ctx context.Context, d *Department) error {
	query := `UPDATE departments
              SET dep_name = $2, description = $3, updated_at = now()
              WHERE id = $1
              RETURNING created_at, updated_at`
	if err := s.db.QueryRowxContext(ctx, query, d.ID, d.Name, d.Description).
		Scan(&d.CreatedAt, &d.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("update department: %w", err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) (*Department, error) {
	var d Department
	query := `DELETE FROM departments WHERE id = $1 RETURNING ` + departmentColumns
	if err := s.db.GetContext(ctx, &d, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("delete department: %w", err)
	}
	return &d, nil
}

func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, `SELECT count(*) FROM departments`); err != nil {
		return 0, fmt.Errorf("count departments: %w", err)
	}
	return n, nil
}
