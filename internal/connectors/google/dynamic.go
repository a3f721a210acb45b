package google

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/custodia-labs/gfacade/internal/core/domain"
	"github.com/custodia-labs/gfacade/internal/core/ports/driven"
)

// Ensure DynamicResource implements the driven port.
var _ driven.DynamicResource = (*DynamicResource[struct{}])(nil)

// DynamicResource erases the model type of a Resource so it can be
// dispatched by name with JSON bodies.
type DynamicResource[T any] struct {
	resource Resource[T]
}

// Dynamic wraps a typed resource.
func Dynamic[T any](r Resource[T]) *DynamicResource[T] {
	return &DynamicResource[T]{resource: r}
}

// Get implements driven.DynamicResource.
func (d *DynamicResource[T]) Get(ctx context.Context, id string) (json.RawMessage, error) {
	item, err := d.resource.Get(id).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	return encode(item)
}

// Insert implements driven.DynamicResource.
func (d *DynamicResource[T]) Insert(ctx context.Context, body json.RawMessage) (json.RawMessage, error) {
	item, err := decode[T](body)
	if err != nil {
		return nil, err
	}
	out, err := d.resource.Insert(item).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	return encode(out)
}

// Update implements driven.DynamicResource.
func (d *DynamicResource[T]) Update(ctx context.Context, id string, body json.RawMessage) (json.RawMessage, error) {
	item, err := decode[T](body)
	if err != nil {
		return nil, err
	}
	out, err := d.resource.Update(id, item).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	return encode(out)
}

// Delete implements driven.DynamicResource.
func (d *DynamicResource[T]) Delete(ctx context.Context, id string) error {
	_, err := d.resource.Delete(id).Context(ctx).Do()
	return err
}

// List implements driven.DynamicResource.
func (d *DynamicResource[T]) List(ctx context.Context, opts domain.ListOptions) (*domain.ListResult, error) {
	page, err := d.resource.List().
		Context(ctx).
		PageSize(opts.PageSize).
		PageToken(opts.PageToken).
		Filter(opts.Filter).
		Do()
	if err != nil {
		return nil, err
	}

	result := &domain.ListResult{
		Items:         make([]json.RawMessage, 0, len(page.Items)),
		NextPageToken: page.NextPageToken,
	}
	for _, item := range page.Items {
		raw, err := encode(item)
		if err != nil {
			return nil, err
		}
		result.Items = append(result.Items, raw)
	}
	return result, nil
}

// Download implements driven.DynamicResource.
func (d *DynamicResource[T]) Download(ctx context.Context, id string) (io.ReadCloser, string, error) {
	dl, err := d.resource.Download(id).Context(ctx).Do()
	if err != nil {
		return nil, "", err
	}
	return dl.Body, dl.ContentType, nil
}

func encode(v any) (json.RawMessage, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode item: %w", err)
	}
	return data, nil
}

func decode[T any](body json.RawMessage) (*T, error) {
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: empty body", domain.ErrInvalidInput)
	}
	var item T
	if err := json.Unmarshal(body, &item); err != nil {
		return nil, fmt.Errorf("%w: decode item: %w", domain.ErrInvalidInput, err)
	}
	return &item, nil
}
