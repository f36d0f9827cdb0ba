package departments

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is a Store kept in process memory. It backs STORE_DRIVER=memory and tests.
type MemoryStore struct {
	mu    sync.RWMutex
	byID  map[string]*Department
	order []string
	now   func() time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID: make(map[string]*Department),
		now:  time.Now,
	}
}

func (s *MemoryStore) List(_ context.Context) ([]*Department, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	deps := make([]*Department, 0, len(s.order))
	for _, id := range s.order {
		cp := *s.byID[id]
		deps = append(deps, &cp)
	}
	return deps, nil
}

func (s *MemoryStore) Create(_ context.Context, d *Department) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	d.ID = uuid.NewString()
	d.CreatedAt = now
	d.UpdatedAt = now

	cp := *d
	s.byID[d.ID] = &cp
	s.order = append(s.order, d.ID)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Department, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (s *MemoryStore) Update(_ context.Context, d *Department) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.byID[d.ID]
	if !ok {
		return ErrNotFound
	}
	existing.Name = d.Name
	existing.Description = d.Description
	existing.UpdatedAt = s.now().UTC()

	d.CreatedAt = existing.CreatedAt
	d.UpdatedAt = existing.UpdatedAt
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) (*Department, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	delete(s.byID, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return d, nil
}

func (s *MemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID), nil
}
