package services

import (
	"sort"
	"sync"

	"github.com/custodia-labs/gfacade/internal/core/domain"
	"github.com/custodia-labs/gfacade/internal/core/ports/driven"
)

// ResourceEntry is a registered resource collection.
type ResourceEntry struct {
	Info domain.ResourceInfo
	Open driven.ResourceOpener
}

// ResourceRegistry maps "<api>/<resource>" keys to resource openers.
type ResourceRegistry struct {
	mu      sync.RWMutex
	entries map[string]ResourceEntry
}

// NewResourceRegistry creates an empty registry.
func NewResourceRegistry() *ResourceRegistry {
	return &ResourceRegistry{entries: make(map[string]ResourceEntry)}
}

// Register adds or replaces the entry for info.Ref.Key().
func (r *ResourceRegistry) Register(info domain.ResourceInfo, open driven.ResourceOpener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	info.Ref.Parent = ""
	r.entries[info.Ref.Key()] = ResourceEntry{Info: info, Open: open}
}

// Get returns the entry for a key such as "drive/files".
func (r *ResourceRegistry) Get(key string) (ResourceEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[key]
	if !ok {
		return ResourceEntry{}, domain.ErrUnknownAPI
	}
	return entry, nil
}

// List returns every registered collection sorted by key.
func (r *ResourceRegistry) List() []domain.ResourceInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]domain.ResourceInfo, 0, len(r.entries))
	for _, e := range r.entries {
		result = append(result, e.Info)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Ref.Key() < result[j].Ref.Key()
	})
	return result
}
