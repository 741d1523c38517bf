package store

import (
	"context"
	"slices"
	"sync"
)

// MemoryStore is an in-memory store for development and testing.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*Record
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*Record)}
}

// Save upserts a record by slug.
func (s *MemoryStore) Save(ctx context.Context, rec *Record) error {
	if err := prepare(rec); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.records[rec.Slug]; ok {
		rec.ID = old.ID
		rec.CreatedAt = old.CreatedAt
	}
	s.records[rec.Slug] = cloneRecord(rec)
	return nil
}

// Load retrieves a record by slug.
func (s *MemoryStore) Load(ctx context.Context, slug string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[slug]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneRecord(rec), nil
}

// Delete removes a record by slug.
func (s *MemoryStore) Delete(ctx context.Context, slug string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[slug]; !ok {
		return ErrNotFound
	}
	delete(s.records, slug)
	return nil
}

// List returns summaries sorted by most recent update.
func (s *MemoryStore) List(ctx context.Context) ([]Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	infos := make([]Info, 0, len(s.records))
	for _, rec := range s.records {
		infos = append(infos, rec.info())
	}
	sortInfos(infos)
	return infos, nil
}

// Close does nothing for the in-memory store.
func (s *MemoryStore) Close() error { return nil }

func cloneRecord(rec *Record) *Record {
	c := *rec
	c.Scenes = slices.Clone([]byte(rec.Scenes))
	return &c
}

func sortInfos(infos []Info) {
	slices.SortFunc(infos, func(a, b Info) int {
		switch {
		case a.UpdatedAt.After(b.UpdatedAt):
			return -1
		case b.UpdatedAt.After(a.UpdatedAt):
			return 1
		default:
			return 0
		}
	})
}

var _ Store = (*MemoryStore)(nil)
