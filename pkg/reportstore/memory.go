package reportstore

import (
	"context"
	"sync"
)

// DefaultCapacity bounds a MemoryStore created with a non-positive capacity.
const DefaultCapacity = 1000

// MemoryStore keeps the most recent records in memory. Once full, saving a
// new record evicts the oldest.
type MemoryStore struct {
	mu       sync.RWMutex
	records  map[string]*Record
	order    []string
	capacity int
}

// NewMemoryStore creates a store holding at most capacity records.
func NewMemoryStore(capacity int) *MemoryStore {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &MemoryStore{records: make(map[string]*Record), capacity: capacity}
}

func (s *MemoryStore) Save(ctx context.Context, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *rec
	if _, ok := s.records[rec.ID]; !ok {
		s.order = append(s.order, rec.ID)
	}
	s.records[rec.ID] = &cp

	for len(s.order) > s.capacity {
		delete(s.records, s.order[0])
		s.order = s.order[1:]
	}
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (s *MemoryStore) List(ctx context.Context, limit int) ([]*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	limit = listLimit(limit)
	out := make([]*Record, 0, min(limit, len(s.order)))
	for i := len(s.order) - 1; i >= 0 && len(out) < limit; i-- {
		cp := *s.records[s.order[i]]
		out = append(out, &cp)
	}
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
