package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/gfacade/internal/core/domain"
	"github.com/custodia-labs/gfacade/internal/core/ports/driven"
)

// fakeResource serves numbered items, two per page.
type fakeResource struct {
	parent  string
	items   []string
	deleted []string
	repeat  bool
}

func (f *fakeResource) Get(_ context.Context, id string) (json.RawMessage, error) {
	for _, item := range f.items {
		if item == id {
			return json.RawMessage(strconv.Quote(f.parent + ":" + id)), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeResource) Insert(_ context.Context, body json.RawMessage) (json.RawMessage, error) {
	return body, nil
}

func (f *fakeResource) Update(_ context.Context, id string, body json.RawMessage) (json.RawMessage, error) {
	return json.RawMessage(`{"id":"` + id + `","body":` + string(body) + `}`), nil
}

func (f *fakeResource) Delete(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeResource) List(_ context.Context, opts domain.ListOptions) (*domain.ListResult, error) {
	start, _ := strconv.Atoi(opts.PageToken)
	end := min(start+2, len(f.items))
	result := &domain.ListResult{}
	for _, item := range f.items[start:end] {
		result.Items = append(result.Items, json.RawMessage(strconv.Quote(item)))
	}
	if end < len(f.items) {
		result.NextPageToken = strconv.Itoa(end)
	}
	if f.repeat {
		result.NextPageToken = opts.PageToken
	}
	return result, nil
}

func (f *fakeResource) Download(_ context.Context, id string) (io.ReadCloser, string, error) {
	return io.NopCloser(strings.NewReader("content of " + id)), "text/plain", nil
}

func newTestFacade(res *fakeResource) *FacadeService {
	registry := NewResourceRegistry()
	open := func(_ context.Context, parent string) (driven.DynamicResource, error) {
		res.parent = parent
		return res, nil
	}
	registry.Register(domain.ResourceInfo{
		Ref:         domain.ResourceRef{API: domain.APIDrive, Resource: "files"},
		Description: "Drive files",
	}, open)
	registry.Register(domain.ResourceInfo{
		Ref:            domain.ResourceRef{API: domain.APIAnalytics, Resource: "webproperties"},
		RequiresParent: true,
	}, open)
	registry.Register(domain.ResourceInfo{
		Ref: domain.ResourceRef{API: domain.APIAgent, Resource: "agents"},
	}, func(context.Context, string) (driven.DynamicResource, error) {
		return nil, domain.ErrAuthRequired
	})
	return NewFacadeService(registry)
}

var filesRef = domain.ResourceRef{API: domain.APIDrive, Resource: "files"}

func TestFacadeService_Resources(t *testing.T) {
	svc := newTestFacade(&fakeResource{})

	infos := svc.Resources()

	require.Len(t, infos, 3)
	assert.Equal(t, "agent/agents", infos[0].Ref.Key())
	assert.Equal(t, "analytics/webproperties", infos[1].Ref.Key())
	assert.Equal(t, "drive/files", infos[2].Ref.Key())
}

func TestFacadeService_Dispatch(t *testing.T) {
	res := &fakeResource{items: []string{"a", "b"}}
	svc := newTestFacade(res)
	ctx := context.Background()

	got, err := svc.Get(ctx, filesRef, "a")
	require.NoError(t, err)
	assert.Equal(t, `":a"`, string(got))

	_, err = svc.Get(ctx, filesRef, "zz")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	inserted, err := svc.Insert(ctx, filesRef, json.RawMessage(`{"name":"x"}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"x"}`, string(inserted))

	updated, err := svc.Update(ctx, filesRef, "a", json.RawMessage(`1`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"a","body":1}`, string(updated))

	require.NoError(t, svc.Delete(ctx, filesRef, "b"))
	assert.Equal(t, []string{"b"}, res.deleted)
}

func TestFacadeService_ParentIsPassed(t *testing.T) {
	res := &fakeResource{items: []string{"UA-1"}}
	svc := newTestFacade(res)
	ref := domain.ResourceRef{API: domain.APIAnalytics, Resource: "webproperties", Parent: "acct-9"}

	got, err := svc.Get(context.Background(), ref, "UA-1")

	require.NoError(t, err)
	assert.Equal(t, `"acct-9:UA-1"`, string(got))
}

func TestFacadeService_Errors(t *testing.T) {
	svc := newTestFacade(&fakeResource{})
	ctx := context.Background()

	_, err := svc.Get(ctx, domain.ResourceRef{API: "gmail", Resource: "messages"}, "1")
	assert.ErrorIs(t, err, domain.ErrUnknownAPI)

	_, err = svc.Get(ctx, domain.ResourceRef{API: domain.APIAnalytics, Resource: "webproperties"}, "1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = svc.Delete(ctx, domain.ResourceRef{API: domain.APIAgent, Resource: "agents"}, "1")
	assert.ErrorIs(t, err, domain.ErrAuthRequired)
}

func TestFacadeService_List(t *testing.T) {
	svc := newTestFacade(&fakeResource{items: []string{"a", "b", "c", "d", "e"}})
	ctx := context.Background()

	page, err := svc.List(ctx, filesRef, domain.ListOptions{})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, "2", page.NextPageToken)

	all, err := svc.List(ctx, filesRef, domain.ListOptions{All: true})
	require.NoError(t, err)
	assert.Len(t, all.Items, 5)
	assert.Empty(t, all.NextPageToken)

	rest, err := svc.List(ctx, filesRef, domain.ListOptions{All: true, PageToken: "4"})
	require.NoError(t, err)
	assert.Len(t, rest.Items, 1)
}

func TestFacadeService_List_RepeatedToken(t *testing.T) {
	svc := newTestFacade(&fakeResource{items: []string{"a", "b", "c"}, repeat: true})

	_, err := svc.List(context.Background(), filesRef, domain.ListOptions{All: true, PageToken: "1"})

	assert.Error(t, err)
}

func TestFacadeService_Download(t *testing.T) {
	svc := newTestFacade(&fakeResource{})
	var buf bytes.Buffer

	ct, err := svc.Download(context.Background(), filesRef, "f1", &buf)

	require.NoError(t, err)
	assert.Equal(t, "text/plain", ct)
	assert.Equal(t, "content of f1", buf.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestFacadeService_Download_WriteError(t *testing.T) {
	svc := newTestFacade(&fakeResource{})

	_, err := svc.Download(context.Background(), filesRef, "f1", failingWriter{})

	assert.ErrorContains(t, err, "disk full")
}
