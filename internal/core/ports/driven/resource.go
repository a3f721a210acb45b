package driven

import (
	"context"
	"encoding/json"
	"io"

	"github.com/custodia-labs/gfacade/internal/core/domain"
)

// DynamicResource is one collection of a wrapped API with its items
// carried as JSON. Each API facade exposes its typed resources through
// this interface so they can be dispatched by name.
type DynamicResource interface {
	// Get retrieves one item.
	Get(ctx context.Context, id string) (json.RawMessage, error)

	// Insert creates an item from its JSON encoding.
	Insert(ctx context.Context, body json.RawMessage) (json.RawMessage, error)

	// Update replaces an item from its JSON encoding.
	Update(ctx context.Context, id string, body json.RawMessage) (json.RawMessage, error)

	// Delete removes an item.
	Delete(ctx context.Context, id string) error

	// List returns a single page. ListOptions.All is ignored.
	List(ctx context.Context, opts domain.ListOptions) (*domain.ListResult, error)

	// Download opens an item's content. The caller closes the reader.
	Download(ctx context.Context, id string) (body io.ReadCloser, contentType string, err error)
}

// ResourceOpener opens a collection, scoped to parent when the collection
// requires one.
type ResourceOpener func(ctx context.Context, parent string) (DynamicResource, error)
