package driving

import (
	"context"
	"encoding/json"
	"io"

	"github.com/custodia-labs/gfacade/internal/core/domain"
)

// FacadeService dispatches the uniform facade operations to whichever API
// resource a ResourceRef names. Items travel as JSON so callers such as the
// CLI need no knowledge of the per-API model types.
type FacadeService interface {
	// Resources lists every registered resource collection.
	Resources() []domain.ResourceInfo

	// Get retrieves one item by ID.
	Get(ctx context.Context, ref domain.ResourceRef, id string) (json.RawMessage, error)

	// Insert creates an item and returns it as stored.
	Insert(ctx context.Context, ref domain.ResourceRef, body json.RawMessage) (json.RawMessage, error)

	// Update replaces the mutable fields of an item and returns it as stored.
	Update(ctx context.Context, ref domain.ResourceRef, id string, body json.RawMessage) (json.RawMessage, error)

	// Delete removes an item.
	Delete(ctx context.Context, ref domain.ResourceRef, id string) error

	// List returns a page of items, or every page with opts.All.
	List(ctx context.Context, ref domain.ResourceRef, opts domain.ListOptions) (*domain.ListResult, error)

	// Download streams an item's content to w and returns its content type.
	Download(ctx context.Context, ref domain.ResourceRef, id string, w io.Writer) (string, error)
}
