package item

import (
	"context"
	"encoding/json"
	"io"
	"strings"
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
	GetFunc func(ctx context.Context, ref domain.ResourceRef, id string) (json.RawMessage, error)
}

func (m *MockFacadeService) Resources() []domain.ResourceInfo { return nil }

func (m *MockFacadeService) Get(ctx context.Context, ref domain.ResourceRef, id string) (json.RawMessage, error) {
	return m.GetFunc(ctx, ref, id)
}

func (m *MockFacadeService) Insert(context.Context, domain.ResourceRef, json.RawMessage) (json.RawMessage, error) {
	return nil, nil
}

func (m *MockFacadeService) Update(context.Context, domain.ResourceRef, string, json.RawMessage) (json.RawMessage, error) {
	return nil, nil
}

func (m *MockFacadeService) Delete(context.Context, domain.ResourceRef, string) error { return nil }

func (m *MockFacadeService) List(context.Context, domain.ResourceRef, domain.ListOptions) (*domain.ListResult, error) {
	return nil, nil
}

func (m *MockFacadeService) Download(context.Context, domain.ResourceRef, string, io.Writer) (string, error) {
	return "", nil
}

var users = domain.ResourceRef{API: domain.APIFirebase, Resource: "users"}

func newView(mock *MockFacadeService) *View {
	return NewView(context.Background(), styles.DefaultStyles(), keymap.DefaultKeyMap(), mock)
}

func TestView_OpenShowsIndentedJSON(t *testing.T) {
	var gotID string
	v := newView(&MockFacadeService{
		GetFunc: func(_ context.Context, ref domain.ResourceRef, id string) (json.RawMessage, error) {
			assert.Equal(t, users, ref)
			gotID = id
			return json.RawMessage(`{"id":"u1","email":"a@example.com"}`), nil
		},
	})
	v.SetDimensions(80, 30)

	cmd := v.Open(users, "u1")
	assert.Contains(t, v.View(), "Loading...")
	v.Update(cmd())

	assert.Equal(t, "u1", gotID)
	assert.Equal(t, "u1", v.ID())
	assert.Equal(t, "{\n  \"id\": \"u1\",\n  \"email\": \"a@example.com\"\n}", v.Content())
	assert.Contains(t, v.View(), `"email": "a@example.com"`)
	assert.Contains(t, v.View(), "firebase/users / u1")
}

func TestView_OpenError(t *testing.T) {
	v := newView(&MockFacadeService{
		GetFunc: func(context.Context, domain.ResourceRef, string) (json.RawMessage, error) {
			return nil, domain.ErrNotFound
		},
	})

	v.Update(v.Open(users, "missing")())

	assert.ErrorIs(t, v.Err(), domain.ErrNotFound)
	assert.Contains(t, v.View(), "Error:")
}

func TestView_IgnoresOtherItems(t *testing.T) {
	v := newView(&MockFacadeService{
		GetFunc: func(context.Context, domain.ResourceRef, string) (json.RawMessage, error) {
			return json.RawMessage(`{"id":"u2"}`), nil
		},
	})
	v.Open(users, "u2")

	v.Update(messages.ItemLoaded{ID: "u1", JSON: json.RawMessage(`{"id":"u1"}`)})

	assert.Empty(t, v.Content())
}

func TestView_BackEmitsViewChanged(t *testing.T) {
	v := newView(&MockFacadeService{})

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)

	assert.Equal(t, messages.ViewChanged{View: messages.ViewItems}, cmd())
}

func TestView_Scrolls(t *testing.T) {
	fields := make([]string, 0, 50)
	for i := range 50 {
		fields = append(fields, `"k`+strings.Repeat("x", i)+`":1`)
	}
	v := newView(&MockFacadeService{
		GetFunc: func(context.Context, domain.ResourceRef, string) (json.RawMessage, error) {
			return json.RawMessage("{" + strings.Join(fields, ",") + "}"), nil
		},
	})
	v.SetDimensions(200, 16)
	v.Update(v.Open(users, "big")())

	v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("G")})
	assert.True(t, v.viewport.AtBottom())

	v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("g")})
	assert.True(t, v.viewport.AtTop())

	v.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, v.viewport.YOffset)
}

func TestIndent_InvalidJSONKeptVerbatim(t *testing.T) {
	assert.Equal(t, "not json", indent([]byte("not json")))
}
