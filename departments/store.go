package departments

import (
	"context"
	"errors"
)

// ErrNotFound is returned by a Store when no department has the given id.
var ErrNotFound = errors.New("department not found")

// Store persists departments. Implementations assign ID and timestamps on Create,
// return departments in creation order from List, and treat Update as a whole-record
// replace of name and description (last write wins).
type Store interface {
	List(ctx context.Context) ([]*Department, error)
	Create(ctx context.Context, d *Department) error
	Get(ctx context.Context, id string) (*Department, error)
	Update(ctx context.Context, d *Department) error
	Delete(ctx context.Context, id string) (*Department, error)
	Count(ctx context.Context) (int, error)
}
