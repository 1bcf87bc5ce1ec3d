package options

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore is an in-memory implementation of Store
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewMemoryStore creates a new in-memory option store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]Record),
	}
}

// Get returns a copy of the named record
func (s *MemoryStore) Get(ctx context.Context, name string) (Record, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.records[name].Clone(), nil
}

// Update replaces the named record with a copy of record
func (s *MemoryStore) Update(ctx context.Context, name string, record Record) error {
	if name == "" {
		return ErrEmptyName
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[name] = record.Clone()
	return nil
}

// Delete removes the named record; deleting a missing record is not an error
func (s *MemoryStore) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, name)
	return nil
}

// Names returns the stored record names in sorted order
func (s *MemoryStore) Names(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.records))
	for name := range s.records {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Close is a no-op for the memory store
func (s *MemoryStore) Close() error {
	return nil
}
