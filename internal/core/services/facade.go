package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/custodia-labs/gfacade/internal/core/domain"
	"github.com/custodia-labs/gfacade/internal/core/ports/driven"
	"github.com/custodia-labs/gfacade/internal/core/ports/driving"
	"github.com/custodia-labs/gfacade/internal/logger"
)

// Ensure FacadeService implements the interface.
var _ driving.FacadeService = (*FacadeService)(nil)

// MaxListPages bounds ListOptions.All so a misbehaving API cannot page forever.
const MaxListPages = 1000

// FacadeService dispatches facade operations through a ResourceRegistry.
type FacadeService struct {
	registry *ResourceRegistry
}

// NewFacadeService creates a facade over a registry.
func NewFacadeService(registry *ResourceRegistry) *FacadeService {
	return &FacadeService{registry: registry}
}

// Resources lists every registered resource collection.
func (s *FacadeService) Resources() []domain.ResourceInfo {
	return s.registry.List()
}

// Get retrieves one item.
func (s *FacadeService) Get(ctx context.Context, ref domain.ResourceRef, id string) (json.RawMessage, error) {
	res, err := s.open(ctx, ref)
	if err != nil {
		return nil, err
	}
	logger.Debug("%s get %s", ref, id)
	return res.Get(ctx, id)
}

// Insert creates an item.
func (s *FacadeService) Insert(ctx context.Context, ref domain.ResourceRef, body json.RawMessage) (json.RawMessage, error) {
	res, err := s.open(ctx, ref)
	if err != nil {
		return nil, err
	}
	logger.Debug("%s insert", ref)
	return res.Insert(ctx, body)
}

// Update replaces an item.
func (s *FacadeService) Update(
	ctx context.Context, ref domain.ResourceRef, id string, body json.RawMessage,
) (json.RawMessage, error) {
	res, err := s.open(ctx, ref)
	if err != nil {
		return nil, err
	}
	logger.Debug("%s update %s", ref, id)
	return res.Update(ctx, id, body)
}

// Delete removes an item.
func (s *FacadeService) Delete(ctx context.Context, ref domain.ResourceRef, id string) error {
	res, err := s.open(ctx, ref)
	if err != nil {
		return err
	}
	logger.Debug("%s delete %s", ref, id)
	return res.Delete(ctx, id)
}

// List returns one page, or with opts.All every page concatenated.
func (s *FacadeService) List(
	ctx context.Context, ref domain.ResourceRef, opts domain.ListOptions,
) (*domain.ListResult, error) {
	res, err := s.open(ctx, ref)
	if err != nil {
		return nil, err
	}
	logger.Debug("%s list page_size=%d all=%t", ref, opts.PageSize, opts.All)

	if !opts.All {
		return res.List(ctx, opts)
	}

	all := &domain.ListResult{Items: []json.RawMessage{}}
	for range MaxListPages {
		page, err := res.List(ctx, opts)
		if err != nil {
			return nil, err
		}
		all.Items = append(all.Items, page.Items...)
		if page.NextPageToken == "" {
			return all, nil
		}
		if page.NextPageToken == opts.PageToken {
			return nil, fmt.Errorf("%s list: page token %q repeats", ref, page.NextPageToken)
		}
		opts.PageToken = page.NextPageToken
	}
	return nil, fmt.Errorf("%s list: more than %d pages", ref, MaxListPages)
}

// Download copies an item's content to w.
func (s *FacadeService) Download(ctx context.Context, ref domain.ResourceRef, id string, w io.Writer) (string, error) {
	res, err := s.open(ctx, ref)
	if err != nil {
		return "", err
	}
	logger.Debug("%s download %s", ref, id)

	body, contentType, err := res.Download(ctx, id)
	if err != nil {
		return "", err
	}
	defer body.Close()

	if _, err := io.Copy(w, body); err != nil {
		return "", fmt.Errorf("%s download %s: %w", ref, id, err)
	}
	return contentType, nil
}

func (s *FacadeService) open(ctx context.Context, ref domain.ResourceRef) (driven.DynamicResource, error) {
	entry, err := s.registry.Get(ref.Key())
	if err != nil {
		return nil, fmt.Errorf("%w: %s", err, ref.Key())
	}
	if entry.Info.RequiresParent && ref.Parent == "" {
		return nil, fmt.Errorf("%w: %s requires a parent", domain.ErrInvalidInput, ref.Key())
	}
	res, err := entry.Open(ctx, ref.Parent)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", ref, err)
	}
	return res, nil
}
