package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/gfacade/internal/core/domain"
	"github.com/custodia-labs/gfacade/internal/core/ports/driven"
)

func noopOpener(context.Context, string) (driven.DynamicResource, error) {
	return nil, nil
}

func TestResourceRegistry_ListSorted(t *testing.T) {
	r := NewResourceRegistry()
	r.Register(domain.ResourceInfo{Ref: domain.ResourceRef{API: domain.APIPubSub, Resource: "topics"}}, noopOpener)
	r.Register(domain.ResourceInfo{Ref: domain.ResourceRef{API: domain.APIDrive, Resource: "files"}}, noopOpener)
	r.Register(domain.ResourceInfo{Ref: domain.ResourceRef{API: domain.APIAgent, Resource: "agents"}}, noopOpener)

	var keys []string
	for _, info := range r.List() {
		keys = append(keys, info.Ref.Key())
	}

	assert.Equal(t, []string{"agent/agents", "drive/files", "pubsub/topics"}, keys)
}

func TestResourceRegistry_RegisterDropsParent(t *testing.T) {
	r := NewResourceRegistry()
	r.Register(domain.ResourceInfo{
		Ref:            domain.ResourceRef{API: domain.APISheets, Resource: "values", Parent: "sheet-1"},
		RequiresParent: true,
	}, noopOpener)

	entry, err := r.Get("sheets/values")

	require.NoError(t, err)
	assert.Empty(t, entry.Info.Ref.Parent)
	assert.True(t, entry.Info.RequiresParent)
	assert.NotNil(t, entry.Open)
}

func TestResourceRegistry_RegisterReplaces(t *testing.T) {
	r := NewResourceRegistry()
	ref := domain.ResourceRef{API: domain.APIDrive, Resource: "files"}
	r.Register(domain.ResourceInfo{Ref: ref, Description: "old"}, noopOpener)
	r.Register(domain.ResourceInfo{Ref: ref, Description: "new"}, noopOpener)

	require.Len(t, r.List(), 1)
	assert.Equal(t, "new", r.List()[0].Description)
}

func TestResourceRegistry_Unknown(t *testing.T) {
	_, err := NewResourceRegistry().Get("drive/nothing")

	assert.ErrorIs(t, err, domain.ErrUnknownAPI)
}
