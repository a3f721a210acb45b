package google

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"

	"github.com/custodia-labs/gfacade/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/gfacade/internal/core/domain"
)

type wireNote struct {
	Key  string
	Text string
}

type note struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

var noteMapper = MapperFuncs[*wireNote, note]{
	ToLocal:  func(w *wireNote) *note { return &note{ID: w.Key, Text: w.Text} },
	ToRemote: func(n *note) *wireNote { return &wireNote{Key: n.ID, Text: n.Text} },
}

var noteIdentity = Identity[note]{
	Get: func(n *note) string { return n.ID },
	Set: func(n *note, id string) { n.ID = id },
}

func TestResourceAdapter_Get(t *testing.T) {
	var gotReq Request
	r := NewResourceAdapter("test/notes", "svc", Operations[*wireNote]{
		Get: func(_ context.Context, id string, req Request) (*wireNote, error) {
			gotReq = req
			return &wireNote{Key: id, Text: "hi"}, nil
		},
	}, noteMapper)

	n, err := r.Get("n1").Param("quotaUser", "u1").Fields("key").Do()

	require.NoError(t, err)
	assert.Equal(t, &note{ID: "n1", Text: "hi"}, n)
	assert.Equal(t, "u1", gotReq.Params.Get("quotaUser"))
	assert.Len(t, gotReq.CallOptions(), 2)
	assert.Equal(t, "svc", r.Underlying())
}

func TestResourceAdapter_NilResultIsNotFound(t *testing.T) {
	r := NewResourceAdapter("test/notes", nil, Operations[*wireNote]{
		Get: func(context.Context, string, Request) (*wireNote, error) { return nil, nil },
	}, noteMapper)

	_, err := r.Get("n1").Do()

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestResourceAdapter_WrapsErrors(t *testing.T) {
	r := NewResourceAdapter("test/notes", nil, Operations[*wireNote]{
		Delete: func(context.Context, string, Request) error {
			return &googleapi.Error{Code: http.StatusForbidden}
		},
	}, noteMapper)

	_, err := r.Delete("n1").Do()

	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
	assert.Contains(t, err.Error(), "test/notes delete n1")
}

func TestResourceAdapter_Unsupported(t *testing.T) {
	r := NewResourceAdapter("test/notes", nil, Operations[*wireNote]{}, noteMapper)

	_, err := r.Get("x").Do()
	assert.ErrorIs(t, err, domain.ErrUnsupportedOperation)
	_, err = r.Insert(&note{}).Do()
	assert.ErrorIs(t, err, domain.ErrUnsupportedOperation)
	_, err = r.Update("x", &note{}).Do()
	assert.ErrorIs(t, err, domain.ErrUnsupportedOperation)
	_, err = r.Delete("x").Do()
	assert.ErrorIs(t, err, domain.ErrUnsupportedOperation)
	_, err = r.List().Do()
	assert.ErrorIs(t, err, domain.ErrUnsupportedOperation)
	_, err = r.Download("x").Do()
	assert.ErrorIs(t, err, domain.ErrUnsupportedOperation)
}

func TestResourceAdapter_InvalidInput(t *testing.T) {
	ops := Operations[*wireNote]{
		Get:    func(context.Context, string, Request) (*wireNote, error) { return nil, errors.New("unreachable") },
		Insert: func(context.Context, *wireNote, Request) (*wireNote, error) { return nil, errors.New("unreachable") },
	}
	r := NewResourceAdapter("test/notes", nil, ops, noteMapper)

	_, err := r.Get("").Do()
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = r.Insert(nil).Do()
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestResourceAdapter_InsertMapsBothWays(t *testing.T) {
	r := NewResourceAdapter("test/notes", nil, Operations[*wireNote]{
		Insert: func(_ context.Context, w *wireNote, _ Request) (*wireNote, error) {
			return &wireNote{Key: "generated", Text: w.Text}, nil
		},
	}, noteMapper)

	n, err := r.Insert(&note{Text: "body"}).Do()

	require.NoError(t, err)
	assert.Equal(t, "generated", n.ID)
	assert.Equal(t, "body", n.Text)
}

func TestListCall_Pages(t *testing.T) {
	data := []string{"a", "b", "c", "d", "e"}
	r := NewResourceAdapter("test/notes", nil, Operations[*wireNote]{
		List: func(_ context.Context, req ListRequest) ([]*wireNote, string, error) {
			start := 0
			if req.PageToken != "" {
				start, _ = strconv.Atoi(req.PageToken)
			}
			end := min(start+int(req.PageSize), len(data))
			var out []*wireNote
			for _, k := range data[start:end] {
				out = append(out, &wireNote{Key: k})
			}
			out = append(out, nil)
			next := ""
			if end < len(data) {
				next = strconv.Itoa(end)
			}
			return out, next, nil
		},
	}, noteMapper)

	var pages int
	var ids []string
	err := r.List().PageSize(2).Pages(func(p *Page[*note]) error {
		pages++
		for _, n := range p.Items {
			ids = append(ids, n.ID)
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, pages)
	assert.Equal(t, data, ids, "nil items are skipped")
}

func TestListCall_PagesStopsOnRepeatedToken(t *testing.T) {
	call := NewListCall(func(context.Context, ListRequest) (*Page[string], error) {
		return &Page[string]{NextPageToken: "same"}, nil
	})

	err := call.PageToken("same").Pages(func(*Page[string]) error { return nil })

	assert.ErrorIs(t, err, ErrPageTokenLoop)
}

func TestListCall_PagesCallbackError(t *testing.T) {
	stop := errors.New("stop")
	call := NewListCall(func(context.Context, ListRequest) (*Page[string], error) {
		return &Page[string]{NextPageToken: "more"}, nil
	})

	assert.ErrorIs(t, call.Pages(func(*Page[string]) error { return stop }), stop)
}

func TestRequest_Query(t *testing.T) {
	call := NewCall(func(_ context.Context, req Request) (string, error) {
		return req.Query().Encode(), nil
	})

	q, err := call.Param("b", "2").Param("a", "1").Fields("id", "name").Do()

	require.NoError(t, err)
	assert.Equal(t, "a=1&b=2&fields=id%2Cname", q)
}

func TestResolve(t *testing.T) {
	remoteCalled := false
	remote := func() Resource[note] {
		remoteCalled = true
		return NewResourceAdapter("test/notes", nil, Operations[*wireNote]{}, noteMapper)
	}

	local := Resolve(Deps{Local: true, Store: memory.NewSubstituteStore()}, "test/notes", noteIdentity, remote)
	_, isLocal := local.(*SubstituteResource[note])
	assert.True(t, isLocal)
	assert.False(t, remoteCalled)

	r := Resolve(Deps{}, "test/notes", noteIdentity, remote)
	_, isRemote := r.(*ResourceAdapter[*wireNote, note])
	assert.True(t, isRemote)
	assert.True(t, remoteCalled)
}

func TestDeps_ClientOptions(t *testing.T) {
	deps := Deps{
		Settings:   &domain.CredentialSettings{Endpoint: "http://localhost:1/", ApplicationName: "gfacade-test"},
		HTTPClient: http.DefaultClient,
	}

	assert.Len(t, deps.ClientOptions(), 3)
	assert.Empty(t, Deps{}.ClientOptions())
}
