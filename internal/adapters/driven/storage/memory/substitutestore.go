package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/gfacade/internal/core/domain"
	"github.com/custodia-labs/gfacade/internal/core/ports/driven"
)

// Ensure SubstituteStore implements the interface.
var _ driven.SubstituteStore = (*SubstituteStore)(nil)

// SubstituteStore is an in-memory implementation of driven.SubstituteStore.
// It backs substitute mode when no data directory is configured.
type SubstituteStore struct {
	mu      sync.RWMutex
	records map[string]map[string]domain.SubstituteRecord
}

// NewSubstituteStore creates a new in-memory substitute store.
func NewSubstituteStore() *SubstituteStore {
	return &SubstituteStore{
		records: make(map[string]map[string]domain.SubstituteRecord),
	}
}

// Create stores a new record, failing if the ID is taken.
func (s *SubstituteStore) Create(_ context.Context, record domain.SubstituteRecord) error {
	if record.Kind == "" || record.ID == "" {
		return domain.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	byID := s.kind(record.Kind)
	if _, ok := byID[record.ID]; ok {
		return domain.ErrAlreadyExists
	}

	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now
	record.Data = append([]byte(nil), record.Data...)

	byID[record.ID] = record
	return nil
}

// Put stores or replaces a record.
func (s *SubstituteStore) Put(_ context.Context, record domain.SubstituteRecord) error {
	if record.Kind == "" || record.ID == "" {
		return domain.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	byID := s.kind(record.Kind)

	now := time.Now().UTC()
	if existing, ok := byID[record.ID]; ok {
		record.CreatedAt = existing.CreatedAt
	} else if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now
	record.Data = append([]byte(nil), record.Data...)

	byID[record.ID] = record
	return nil
}

// Get retrieves a record.
func (s *SubstituteStore) Get(_ context.Context, kind, id string) (*domain.SubstituteRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[kind][id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	record.Data = append([]byte(nil), record.Data...)
	return &record, nil
}

// Delete removes a record.
func (s *SubstituteStore) Delete(_ context.Context, kind, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[kind][id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.records[kind], id)
	return nil
}

// List returns all records of a kind ordered by ID.
func (s *SubstituteStore) List(_ context.Context, kind string) ([]domain.SubstituteRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byID := s.records[kind]
	out := make([]domain.SubstituteRecord, 0, len(byID))
	for _, record := range byID {
		record.Data = append([]byte(nil), record.Data...)
		out = append(out, record)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// kind returns the records of kind, creating the map (caller must hold lock).
func (s *SubstituteStore) kind(kind string) map[string]domain.SubstituteRecord {
	byID, ok := s.records[kind]
	if !ok {
		byID = make(map[string]domain.SubstituteRecord)
		s.records[kind] = byID
	}
	return byID
}
