package items

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/gfacade/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/gfacade/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/gfacade/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/gfacade/internal/core/domain"
)

// MockFacadeService implements driving.FacadeService for testing.
type MockFacadeService struct {
	ListFunc   func(ctx context.Context, ref domain.ResourceRef, opts domain.ListOptions) (*domain.ListResult, error)
	DeleteFunc func(ctx context.Context, ref domain.ResourceRef, id string) error
}

func (m *MockFacadeService) Resources() []domain.ResourceInfo { return nil }

func (m *MockFacadeService) Get(context.Context, domain.ResourceRef, string) (json.RawMessage, error) {
	return nil, nil
}

func (m *MockFacadeService) Insert(context.Context, domain.ResourceRef, json.RawMessage) (json.RawMessage, error) {
	return nil, nil
}

func (m *MockFacadeService) Update(context.Context, domain.ResourceRef, string, json.RawMessage) (json.RawMessage, error) {
	return nil, nil
}

func (m *MockFacadeService) Delete(ctx context.Context, ref domain.ResourceRef, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, ref, id)
	}
	return nil
}

func (m *MockFacadeService) List(
	ctx context.Context, ref domain.ResourceRef, opts domain.ListOptions,
) (*domain.ListResult, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, ref, opts)
	}
	return &domain.ListResult{}, nil
}

func (m *MockFacadeService) Download(context.Context, domain.ResourceRef, string, io.Writer) (string, error) {
	return "", nil
}

var topics = domain.ResourceRef{API: domain.APIPubSub, Resource: "topics"}

func pagedTopics(calls *[]domain.ListOptions) *MockFacadeService {
	return &MockFacadeService{
		ListFunc: func(_ context.Context, _ domain.ResourceRef, opts domain.ListOptions) (*domain.ListResult, error) {
			*calls = append(*calls, opts)
			if opts.PageToken == "" {
				return &domain.ListResult{
					Items: []json.RawMessage{
						json.RawMessage(`{"id":"orders","name":"projects/p/topics/orders"}`),
						json.RawMessage(`{"id":"users"}`),
					},
					NextPageToken: "2",
				}, nil
			}
			return &domain.ListResult{Items: []json.RawMessage{json.RawMessage(`{"id":"audit"}`)}}, nil
		},
	}
}

func newView(facade *MockFacadeService) *View {
	return NewView(context.Background(), styles.DefaultStyles(), keymap.DefaultKeyMap(), facade)
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

// run executes cmd and feeds its message back into the view.
func run(t *testing.T, v *View, cmd tea.Cmd) tea.Msg {
	t.Helper()
	require.NotNil(t, cmd)
	msg := cmd()
	v.Update(msg)
	return msg
}

func TestView_OpenLoadsFirstPage(t *testing.T) {
	var calls []domain.ListOptions
	v := newView(pagedTopics(&calls))

	run(t, v, v.Open(topics))

	require.Len(t, calls, 1)
	assert.Equal(t, int64(PageSize), calls[0].PageSize)
	assert.Empty(t, calls[0].PageToken)
	assert.Equal(t, []Row{{ID: "orders", Label: "projects/p/topics/orders"}, {ID: "users"}}, v.Rows())
	assert.Equal(t, "2", v.NextPageToken())
	assert.Equal(t, topics, v.Ref())
}

func TestView_NextPageAppends(t *testing.T) {
	var calls []domain.ListOptions
	v := newView(pagedTopics(&calls))
	run(t, v, v.Open(topics))

	_, cmd := v.Update(key("n"))
	run(t, v, cmd)

	require.Len(t, calls, 2)
	assert.Equal(t, "2", calls[1].PageToken)
	assert.Len(t, v.Rows(), 3)
	assert.Empty(t, v.NextPageToken())

	_, cmd = v.Update(key("n"))
	assert.Nil(t, cmd)
}

func TestView_Navigation(t *testing.T) {
	var calls []domain.ListOptions
	v := newView(pagedTopics(&calls))
	run(t, v, v.Open(topics))

	v.Update(key("j"))
	assert.Equal(t, 1, v.SelectedIndex())
	v.Update(key("j"))
	assert.Equal(t, 1, v.SelectedIndex())
	v.Update(key("k"))
	assert.Equal(t, 0, v.SelectedIndex())
	v.Update(key("G"))
	assert.Equal(t, 1, v.SelectedIndex())
	v.Update(key("g"))
	assert.Equal(t, 0, v.SelectedIndex())
}

func TestView_SelectEmitsItemSelected(t *testing.T) {
	var calls []domain.ListOptions
	v := newView(pagedTopics(&calls))
	run(t, v, v.Open(topics))
	v.Update(key("j"))

	_, cmd := v.Update(key("enter"))
	require.NotNil(t, cmd)

	assert.Equal(t, messages.ItemSelected{Ref: topics, ID: "users"}, cmd())
}

func TestView_BackEmitsViewChanged(t *testing.T) {
	v := newView(&MockFacadeService{})

	_, cmd := v.Update(key("esc"))
	require.NotNil(t, cmd)

	assert.Equal(t, messages.ViewChanged{View: messages.ViewCollections}, cmd())
}

func TestView_DeleteReloads(t *testing.T) {
	var calls []domain.ListOptions
	var deleted string
	mock := pagedTopics(&calls)
	mock.DeleteFunc = func(_ context.Context, _ domain.ResourceRef, id string) error {
		deleted = id
		return nil
	}
	v := newView(mock)
	run(t, v, v.Open(topics))

	_, cmd := v.Update(key("d"))
	msg := cmd()
	assert.Equal(t, messages.ItemDeleted{ID: "orders"}, msg)

	_, reload := v.Update(msg)
	run(t, v, reload)

	assert.Equal(t, "orders", deleted)
	assert.Len(t, calls, 2)
	assert.Empty(t, calls[1].PageToken)
}

func TestView_DeleteError(t *testing.T) {
	var calls []domain.ListOptions
	mock := pagedTopics(&calls)
	mock.DeleteFunc = func(context.Context, domain.ResourceRef, string) error {
		return domain.ErrNotFound
	}
	v := newView(mock)
	run(t, v, v.Open(topics))

	_, cmd := v.Update(key("d"))
	run(t, v, cmd)

	assert.ErrorIs(t, v.Err(), domain.ErrNotFound)
	assert.Contains(t, v.View(), "Error:")
}

func TestView_Filter(t *testing.T) {
	var calls []domain.ListOptions
	v := newView(pagedTopics(&calls))
	run(t, v, v.Open(topics))

	v.Update(key("/"))
	assert.True(t, v.Filtering())
	v.Update(key("ord"))
	_, cmd := v.Update(key("enter"))
	run(t, v, cmd)

	assert.False(t, v.Filtering())
	assert.Equal(t, "ord", v.Filter())
	assert.Equal(t, "ord", calls[len(calls)-1].Filter)
	assert.Contains(t, v.View(), `filter: "ord"`)
}

func TestView_FilterCancelled(t *testing.T) {
	var calls []domain.ListOptions
	v := newView(pagedTopics(&calls))
	run(t, v, v.Open(topics))

	v.Update(key("/"))
	v.Update(key("x"))
	_, cmd := v.Update(key("esc"))

	assert.Nil(t, cmd)
	assert.False(t, v.Filtering())
	assert.Empty(t, v.Filter())
	assert.Len(t, calls, 1)
}

func TestView_LoadError(t *testing.T) {
	v := newView(&MockFacadeService{
		ListFunc: func(context.Context, domain.ResourceRef, domain.ListOptions) (*domain.ListResult, error) {
			return nil, errors.New("backend down")
		},
	})

	run(t, v, v.Open(topics))

	assert.EqualError(t, v.Err(), "backend down")
	assert.Contains(t, v.View(), "backend down")
}

func TestView_IgnoresStalePages(t *testing.T) {
	var calls []domain.ListOptions
	v := newView(pagedTopics(&calls))
	run(t, v, v.Open(topics))

	v.Update(messages.ItemsLoaded{
		Ref:  domain.ResourceRef{API: domain.APIDrive, Resource: "files"},
		Page: &domain.ListResult{Items: []json.RawMessage{json.RawMessage(`{"id":"x"}`)}},
	})

	assert.Len(t, v.Rows(), 2)
}

func TestView_EmptyCollection(t *testing.T) {
	v := newView(&MockFacadeService{})

	run(t, v, v.Open(topics))

	assert.Contains(t, v.View(), "No items.")
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		raw  string
		want Row
	}{
		{`{"id":"1","title":"Budget"}`, Row{ID: "1", Label: "Budget"}},
		{`{"range":"Sheet1!A1:B2"}`, Row{ID: "Sheet1!A1:B2"}},
		{`{"id":"u1","email":"a@example.com"}`, Row{ID: "u1", Label: "a@example.com"}},
		{`{"id":"a","display_name":"Agent"}`, Row{ID: "a", Label: "Agent"}},
		{`[1,2]`, Row{Label: "[1,2]"}},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, Summarize(json.RawMessage(tt.raw)))
		})
	}
}
