package driven

import (
	"context"

	"github.com/custodia-labs/gfacade/internal/core/domain"
)

// SubstituteStore persists the local stand-ins served while an API runs in
// substitute mode.
type SubstituteStore interface {
	// Create stores a new record. Returns domain.ErrAlreadyExists if a
	// record with the same kind and ID exists; the check and the write are
	// atomic.
	Create(ctx context.Context, record domain.SubstituteRecord) error

	// Put stores or replaces a record. CreatedAt is preserved on replace.
	Put(ctx context.Context, record domain.SubstituteRecord) error

	// Get retrieves a record. Returns domain.ErrNotFound if absent.
	Get(ctx context.Context, kind, id string) (*domain.SubstituteRecord, error)

	// Delete removes a record. Returns domain.ErrNotFound if absent.
	Delete(ctx context.Context, kind, id string) error

	// List returns all records of a kind ordered by ID.
	List(ctx context.Context, kind string) ([]domain.SubstituteRecord, error)
}
