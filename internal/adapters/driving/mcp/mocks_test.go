package mcp

import (
	"context"
	"encoding/json"
	"io"

	"github.com/custodia-labs/gfacade/internal/core/domain"
	"github.com/custodia-labs/gfacade/internal/core/ports/driving"
)

var _ driving.FacadeService = (*mockFacadeService)(nil)

// mockFacadeService is a mock implementation of driving.FacadeService.
type mockFacadeService struct {
	resources []domain.ResourceInfo
	item      json.RawMessage
	page      *domain.ListResult
	err       error

	ref  domain.ResourceRef
	id   string
	body json.RawMessage
	opts domain.ListOptions
}

func (m *mockFacadeService) Resources() []domain.ResourceInfo {
	return m.resources
}

func (m *mockFacadeService) Get(_ context.Context, ref domain.ResourceRef, id string) (json.RawMessage, error) {
	m.ref, m.id = ref, id
	return m.item, m.err
}

func (m *mockFacadeService) Insert(_ context.Context, ref domain.ResourceRef, body json.RawMessage) (json.RawMessage, error) {
	m.ref, m.body = ref, body
	return m.item, m.err
}

func (m *mockFacadeService) Update(
	_ context.Context, ref domain.ResourceRef, id string, body json.RawMessage,
) (json.RawMessage, error) {
	m.ref, m.id, m.body = ref, id, body
	return m.item, m.err
}

func (m *mockFacadeService) Delete(_ context.Context, ref domain.ResourceRef, id string) error {
	m.ref, m.id = ref, id
	return m.err
}

func (m *mockFacadeService) List(
	_ context.Context, ref domain.ResourceRef, opts domain.ListOptions,
) (*domain.ListResult, error) {
	m.ref, m.opts = ref, opts
	return m.page, m.err
}

func (m *mockFacadeService) Download(_ context.Context, ref domain.ResourceRef, id string, w io.Writer) (string, error) {
	m.ref, m.id = ref, id
	if m.err != nil {
		return "", m.err
	}
	_, err := w.Write(m.item)
	return "application/json", err
}
